package classifyqueryintent

type Input struct {
	Query string `json:"query"`
}

type Output struct {
	Intents       []string `json:"intents"`
	PrimaryIntent string   `json:"primaryIntent"`
	Matched       bool     `json:"matched"`
}

// PrimaryGeneral is reported when no category matched.
const PrimaryGeneral = "general"
