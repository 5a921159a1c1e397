package httpapi

import "net/http"

//GET /health
func handleHealth(w http.ResponseWriter, r *http.Request) *handlerResponse {
	return &handlerResponse{Code: http.StatusOK, Body: &HealthResponse{Status: "ok"}}
}

//GET /questions
func handleReadQuestions(questions []string) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		resp := &ReadQuestionsResponse{Questions: questions}
		if resp.Questions == nil {
			resp.Questions = []string{}
		}
		return &handlerResponse{Code: http.StatusOK, Body: resp}
	}
}
