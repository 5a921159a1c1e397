package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/korylprince/questionnaire-relay/logging"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// Handler handles WebSocket questionnaire connections
type Handler struct {
	store         ConnStore
	generator     Generator
	timeout       time.Duration
	allowedOrigin string
	upgrader      websocket.Upgrader
}

// Option configures a Handler
type Option func(*Handler)

// WithTimeout bounds each generation call. Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) { h.timeout = d }
}

// WithAllowedOrigin restricts browser connections to origin. Requests without an
// Origin header (non-browser clients) are always accepted.
func WithAllowedOrigin(origin string) Option {
	return func(h *Handler) { h.allowedOrigin = origin }
}

// NewHandler creates a new relay handler
func NewHandler(store ConnStore, generator Generator, opts ...Option) *Handler {
	h := &Handler{
		store:     store,
		generator: generator,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "" {
		return true
	}
	return origin == h.allowedOrigin
}

// socket serializes writes to one connection
type socket struct {
	mu   sync.Mutex
	conn *websocket.Conn
	id   string
}

func (s *socket) send(event string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(ServerMessage{Event: event, SessionID: s.id, Data: raw})
}

// ServeHTTP upgrades the connection and handles client events until it closes
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger.Warn("websocket upgrade failed", zap.Error(err), zap.String("remote_addr", r.RemoteAddr))
		return
	}
	defer conn.Close()

	c, err := h.store.Create(r.RemoteAddr)
	if err != nil {
		logging.Logger.Error("could not register connection", zap.Error(err))
		return
	}
	ctx, cancel := context.WithCancel(logging.WithSessionID(context.Background(), c.ID))
	defer cancel()

	log := logging.FromContext(ctx)
	log.Info("a user connected", zap.String("remote_addr", r.RemoteAddr), zap.Int("connections", h.store.Len()))

	s := &socket{conn: conn, id: c.ID}
	var wg sync.WaitGroup

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("connection read failed", zap.Error(err))
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(ctx, s, userError("Could not decode message", err))
			continue
		}

		h.dispatch(ctx, s, msg, &wg)
	}

	// in-flight generation calls belong to this connection only
	cancel()
	wg.Wait()

	h.disconnect(log, c.ID)
}

// disconnect drops the connection's state and logs how the connection ended
func (h *Handler) disconnect(log *zap.Logger, id string) {
	c, err := h.store.Get(id)
	h.store.Remove(id)
	if err != nil || c == nil {
		log.Info("a user disconnected", zap.Int("connections", h.store.Len()))
		return
	}

	log.Info("a user disconnected",
		zap.String("remote_addr", c.RemoteAddr),
		zap.Duration("connected_for", time.Since(c.ConnectedAt)),
		zap.Stringer("state", c.State),
		zap.Int("answers", len(c.Answers)),
		zap.Int("connections", h.store.Len()),
	)
}

func (h *Handler) dispatch(ctx context.Context, s *socket, msg ClientMessage, wg *sync.WaitGroup) {
	switch msg.Event {
	case EventUserAnswers:
		var answers []string
		if err := json.Unmarshal(msg.Data, &answers); err != nil {
			h.sendError(ctx, s, userError("userAnswers must be an array of strings", err))
			return
		}
		h.onAnswersReceived(ctx, s, answers, wg)
	case EventAllAnswersReceived:
		var answers map[string]string
		if err := json.Unmarshal(msg.Data, &answers); err != nil {
			h.sendError(ctx, s, userError("allAnswersReceived must be an object of strings", err))
			return
		}
		h.onAllAnswersFinalized(ctx, s, answers)
	default:
		h.sendError(ctx, s, &Error{Description: fmt.Sprintf("Unknown event %q", msg.Event), Type: ErrorTypeUser})
	}
}

func (h *Handler) onAnswersReceived(ctx context.Context, s *socket, answers []string, wg *sync.WaitGroup) {
	log := logging.FromContext(ctx)

	if err := h.store.BeginRequest(s.id, answers); err != nil {
		if errors.Is(err, ErrRequestPending) {
			h.sendError(ctx, s, userError("Could not accept answers", err))
			return
		}
		h.sendError(ctx, s, &Error{Description: "Could not store answers", Type: ErrorTypeServer, Err: err})
		return
	}
	log.Info("received answers", zap.Strings("answers", answers))

	if err := s.send(EventConfirmation, Confirmation{Event: EventUserAnswers, Count: len(answers)}); err != nil {
		log.Debug("could not send confirmation", zap.Error(err))
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		h.generate(ctx, s, answers)
	}()
}

// generate makes the single generation call for answers and delivers the result or the fallback
func (h *Handler) generate(ctx context.Context, s *socket, answers []string) {
	log := logging.FromContext(ctx)

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	payload, state := Fallback(), StateFallback
	text, err := h.callGenerator(ctx, BuildPrompt(answers))
	if err != nil {
		log.Error("error generating questions", zap.Error(err))
	} else {
		log.Info("generated questions", zap.String("questions", text))
		payload, state = GeneratedQuestions{Questions: TextQuestions(text)}, StateDelivered
	}

	if err := h.store.FinishRequest(s.id, state); err != nil {
		log.Warn("could not record request outcome", zap.Error(err), zap.Stringer("state", state))
	}

	if err := s.send(EventGeneratedQuestions, payload); err != nil {
		log.Warn("could not deliver generated questions", zap.Error(err))
	}
}

// callGenerator turns a generator panic into an error so the client still gets the fallback
func (h *Handler) callGenerator(ctx context.Context, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()
	return h.generator.Generate(ctx, prompt)
}

func (h *Handler) onAllAnswersFinalized(ctx context.Context, s *socket, answers map[string]string) {
	log := logging.FromContext(ctx)

	if err := h.store.SetAnswerMap(s.id, answers); err != nil {
		h.sendError(ctx, s, &Error{Description: "Could not store answers", Type: ErrorTypeServer, Err: err})
		return
	}
	log.Info("final answers map", zap.Any("answers", answers))

	if err := s.send(EventConfirmation, Confirmation{Event: EventAllAnswersReceived, Count: len(answers)}); err != nil {
		log.Debug("could not send confirmation", zap.Error(err))
	}
}

func (h *Handler) sendError(ctx context.Context, s *socket, e *Error) {
	log := logging.FromContext(ctx)
	if e.Type == ErrorTypeServer {
		log.Error("event failed", zap.Error(e))
	} else {
		log.Info("rejected event", zap.Error(e))
	}

	if err := s.send(EventError, ErrorPayload{Error: e.Error()}); err != nil {
		log.Debug("could not send error", zap.Error(err))
	}
}
