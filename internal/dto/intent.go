package dto

type IntentResponse struct {
	Tag       string `json:"tag"`
	Patterns  int    `json:"patterns"`
	Responses int    `json:"responses"`
}

type SeedResponse struct {
	Intents   int `json:"intents"`
	Patterns  int `json:"patterns"`
	Responses int `json:"responses"`
}
