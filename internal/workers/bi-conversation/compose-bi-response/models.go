package composebiresponse

type Input struct {
	Query string `json:"query"`
}

type Output struct {
	Response      string   `json:"response"`
	Template      string   `json:"template"`
	Intents       []string `json:"intents"`
	DataAvailable bool     `json:"dataAvailable"`
}
