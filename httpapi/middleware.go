package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/korylprince/questionnaire-relay/logging"
	"go.uber.org/zap"
)

type handlerResponse struct {
	Code int
	Body interface{}
	Err  error
}

type returnHandler func(http.ResponseWriter, *http.Request) *handlerResponse

func logMiddleware(next returnHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := next(w, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.Int("code", resp.Code),
			zap.String("status", http.StatusText(resp.Code)),
			zap.Duration("duration", time.Since(start)),
		}
		if resp.Err != nil {
			fields = append(fields, zap.Error(resp.Err))
		}

		logging.Logger.Info("request", fields...)
	})
}

func jsonMiddleware(next returnHandler) returnHandler {
	return func(w http.ResponseWriter, r *http.Request) *handlerResponse {
		resp := next(w, r)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.Code)
		e := json.NewEncoder(w)
		err := e.Encode(resp.Body)
		if err != nil {
			return handleError(http.StatusInternalServerError, fmt.Errorf("Could encode json: %v", err))
		}
		return resp
	}
}

//recoveryLogger sends panics caught by handlers.RecoveryHandler to the zap logger
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	logging.Logger.Error("recovered from panic", zap.String("panic", fmt.Sprint(v...)))
}
