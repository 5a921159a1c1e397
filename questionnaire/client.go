package questionnaire

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/korylprince/questionnaire-relay/relay"
)

// RelayError is an error event sent by the relay
type RelayError struct {
	Message string
}

func (e *RelayError) Error() string {
	return "relay error: " + e.Message
}

// Client is a WebSocket connection to the relay
type Client struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	sessionID string
}

// SocketURL converts a relay server URL (http/https) to its WebSocket endpoint
func SocketURL(server string) string {
	wsURL := strings.Replace(server, "http://", "ws://", 1)
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	return strings.TrimSuffix(wsURL, "/") + "/socket"
}

// Dial connects to the relay WebSocket at url
func Dial(ctx context.Context, url string, header http.Header) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("WebSocket connection failed: %w", err)
	}
	return &Client{conn: conn}, nil
}

// SessionID returns the id the relay assigned to this connection, once a message has been received
func (c *Client) SessionID() string {
	return c.sessionID
}

func (c *Client) send(event string, data interface{}) error {
	msg, err := relay.NewClientMessage(event, data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", event, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send %s: %w", event, err)
	}
	return nil
}

// SendAnswers sends the ordered answer list followed by the question->answer map
func (c *Client) SendAnswers(answers []string, answerMap map[string]string) error {
	if err := c.send(relay.EventUserAnswers, answers); err != nil {
		return err
	}
	return c.send(relay.EventAllAnswersReceived, answerMap)
}

// AwaitResult reads relay events until generated questions arrive. Every other
// event is passed to onEvent, if set. A relay error event is returned as *RelayError.
func (c *Client) AwaitResult(onEvent func(relay.ServerMessage)) (relay.Questions, error) {
	for {
		var msg relay.ServerMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return relay.Questions{}, fmt.Errorf("error reading response: %w", err)
		}
		if msg.SessionID != "" {
			c.sessionID = msg.SessionID
		}

		switch msg.Event {
		case relay.EventGeneratedQuestions:
			var g relay.GeneratedQuestions
			if err := json.Unmarshal(msg.Data, &g); err != nil {
				return relay.Questions{}, fmt.Errorf("could not decode generated questions: %w", err)
			}
			return g.Questions, nil
		case relay.EventError:
			var e relay.ErrorPayload
			if err := json.Unmarshal(msg.Data, &e); err != nil {
				return relay.Questions{}, fmt.Errorf("could not decode relay error: %w", err)
			}
			return relay.Questions{}, &RelayError{Message: e.Error}
		}

		if onEvent != nil {
			onEvent(msg)
		}
	}
}

// Close closes the connection cleanly
func (c *Client) Close() error {
	c.mu.Lock()
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.mu.Unlock()
	return c.conn.Close()
}
