package relay

import (
	"encoding/json"
	"errors"
	"strings"
)

// Event names carried in the envelope "event" field
const (
	EventUserAnswers        = "userAnswers"        // client -> relay, []string
	EventAllAnswersReceived = "allAnswersReceived" // client -> relay, map[string]string
	EventGeneratedQuestions = "generatedQuestions" // relay -> client, GeneratedQuestions
	EventConfirmation       = "confirmation"       // relay -> client, Confirmation
	EventError              = "error"              // relay -> client, ErrorPayload
)

// ClientMessage is the message format from client to server
type ClientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ServerMessage is the message format from server to client
type ServerMessage struct {
	Event     string          `json:"event"`
	SessionID string          `json:"session_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewClientMessage marshals data into a ClientMessage for event
func NewClientMessage(event string, data interface{}) (ClientMessage, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return ClientMessage{}, err
	}
	return ClientMessage{Event: event, Data: raw}, nil
}

// GeneratedQuestions is sent with EventGeneratedQuestions
type GeneratedQuestions struct {
	Questions Questions `json:"questions"`
}

// Questions is the generator output. On the wire it is either a JSON string
// (model text, verbatim) or an array of strings (the fallback).
type Questions struct {
	Text string
	List []string
}

// TextQuestions wraps model output
func TextQuestions(text string) Questions {
	return Questions{Text: text}
}

// ListQuestions wraps a list of lines
func ListQuestions(lines ...string) Questions {
	return Questions{List: lines}
}

// IsList reports whether q is sent as an array
func (q Questions) IsList() bool {
	return q.List != nil
}

// String renders q for display: text verbatim, list items one per line
func (q Questions) String() string {
	if q.IsList() {
		return strings.Join(q.List, "\n")
	}
	return q.Text
}

// MarshalJSON sends a list as an array and anything else as a string
func (q Questions) MarshalJSON() ([]byte, error) {
	if q.IsList() {
		return json.Marshal(q.List)
	}
	return json.Marshal(q.Text)
}

// UnmarshalJSON accepts a string or an array of strings
func (q *Questions) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*q = Questions{Text: text}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.New("questions must be a string or an array of strings")
	}
	if list == nil {
		list = []string{}
	}
	*q = Questions{List: list}
	return nil
}

// Confirmation acknowledges a client event
type Confirmation struct {
	Event string `json:"event"`
	Count int    `json:"count"`
}

// ErrorPayload is sent with EventError
type ErrorPayload struct {
	Error string `json:"error"`
}
