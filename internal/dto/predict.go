package dto

type QueryInput struct {
	Text string `json:"text" validate:"required"`
}

type QueryResponse struct {
	ResponseText string `json:"response_text"`
}

type StatusResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Embedder string `json:"embedder"`
}
