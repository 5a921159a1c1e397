package relay

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RequestState tracks a connection's generation request
type RequestState int

// RequestStates
const (
	StateIdle RequestState = iota
	StateAwaiting
	StateDelivered
	StateFallback
)

func (s RequestState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaiting:
		return "awaiting"
	case StateDelivered:
		return "delivered"
	case StateFallback:
		return "fallback"
	}
	return "unknown"
}

// Store errors
var (
	ErrUnknownConn    = errors.New("unknown connection")
	ErrRequestPending = errors.New("a request is already awaiting a response")
)

// Conn is the relay's state for one client connection
type Conn struct {
	ID          string
	RemoteAddr  string
	Answers     []string
	AnswerMap   map[string]string
	State       RequestState
	ConnectedAt time.Time
	UpdatedAt   time.Time
}

// ConnStore holds connection-scoped state. Nothing in it is shared between connections.
type ConnStore interface {
	Create(remoteAddr string) (*Conn, error)
	Get(id string) (*Conn, error)
	BeginRequest(id string, answers []string) error
	FinishRequest(id string, state RequestState) error
	SetAnswerMap(id string, answers map[string]string) error
	Remove(id string)
	Len() int
}

// MemoryStore implements ConnStore with an in-memory map
type MemoryStore struct {
	mu    sync.Mutex
	conns map[string]*Conn
}

// NewMemoryStore creates a new MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{conns: make(map[string]*Conn)}
}

func copyConn(c *Conn) *Conn {
	cp := *c
	if c.Answers != nil {
		cp.Answers = append([]string(nil), c.Answers...)
	}
	if c.AnswerMap != nil {
		cp.AnswerMap = make(map[string]string, len(c.AnswerMap))
		for k, v := range c.AnswerMap {
			cp.AnswerMap[k] = v
		}
	}
	return &cp
}

// Create registers a new connection and returns a copy of its record
func (s *MemoryStore) Create(remoteAddr string) (*Conn, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c := &Conn{
		ID:          id.String(),
		RemoteAddr:  remoteAddr,
		State:       StateIdle,
		ConnectedAt: now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.conns[c.ID] = c
	s.mu.Unlock()

	return copyConn(c), nil
}

// Get returns a copy of the connection's record, or nil if it doesn't exist
func (s *MemoryStore) Get(id string) (*Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.conns[id]; ok {
		return copyConn(c), nil
	}
	return nil, nil
}

// BeginRequest stores answers for the connection, overwriting its previous answers,
// and moves it to StateAwaiting
func (s *MemoryStore) BeginRequest(id string, answers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conns[id]
	if !ok {
		return ErrUnknownConn
	}
	if c.State == StateAwaiting {
		return ErrRequestPending
	}

	c.Answers = append([]string(nil), answers...)
	c.State = StateAwaiting
	c.UpdatedAt = time.Now()
	return nil
}

// FinishRequest records the outcome of the connection's request
func (s *MemoryStore) FinishRequest(id string, state RequestState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conns[id]
	if !ok {
		return ErrUnknownConn
	}
	c.State = state
	c.UpdatedAt = time.Now()
	return nil
}

// SetAnswerMap stores the question->answer map the client reported
func (s *MemoryStore) SetAnswerMap(id string, answers map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conns[id]
	if !ok {
		return ErrUnknownConn
	}
	c.AnswerMap = make(map[string]string, len(answers))
	for k, v := range answers {
		c.AnswerMap[k] = v
	}
	c.UpdatedAt = time.Now()
	return nil
}

// Remove forgets the connection
func (s *MemoryStore) Remove(id string) {
	s.mu.Lock()
	delete(s.conns, id)
	s.mu.Unlock()
}

// Len returns the number of live connections
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}
