package httpapi

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

//Config holds configuration for the router
type Config struct {
	//AllowedOrigin is the only cross-origin site allowed to call the API
	AllowedOrigin string
	//Questions is served to front ends that don't carry their own list
	Questions []string
}

//NewRouter returns an HTTP router for the relay. socket handles WebSocket upgrades on /socket.
func NewRouter(socket http.Handler, cfg Config) http.Handler {

	//construct middleware
	var m = func(h returnHandler) http.Handler {
		return handlers.CompressHandler(logMiddleware(jsonMiddleware(h)))
	}

	r := mux.NewRouter()

	r.Path("/health").Methods("GET").Handler(m(handleHealth))
	r.Path("/questions").Methods("GET").Handler(m(handleReadQuestions(cfg.Questions)))

	// WebSocket endpoint (no JSON or compression middleware)
	r.Path("/socket").Methods("GET").Handler(socket)

	r.NotFoundHandler = m(notFoundHandler)
	r.MethodNotAllowedHandler = m(methodNotAllowedHandler)

	origin := cfg.AllowedOrigin
	if origin == "" {
		origin = "*"
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{origin}),
		handlers.AllowedMethods([]string{"GET", "POST"}),
	)

	return handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))(cors(r))
}
