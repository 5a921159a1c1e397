package httpapi

//HealthResponse reports that the relay is up
type HealthResponse struct {
	Status string `json:"status"`
}

//ReadQuestionsResponse contains the configured question list
type ReadQuestionsResponse struct {
	Questions []string `json:"questions"`
}
