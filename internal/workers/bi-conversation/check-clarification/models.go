package checkclarification

type Input struct {
	Query string `json:"query"`
	// ClarificationAskedFor is the query a clarifying question was last
	// asked for; the same query is never asked about twice.
	ClarificationAskedFor string `json:"clarificationAskedFor,omitempty"`
}

type Output struct {
	NeedsClarification    bool   `json:"needsClarification"`
	Question              string `json:"question,omitempty"`
	Reason                string `json:"reason,omitempty"`
	ReplyText             string `json:"replyText,omitempty"`
	ForwardedQuery        string `json:"forwardedQuery"`
	ClarificationAskedFor string `json:"clarificationAskedFor,omitempty"`
}
