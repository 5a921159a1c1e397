package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/korylprince/questionnaire-relay/logging"
)

// DefaultAIEndpoint is Gemini's OpenAI-compatible chat completions endpoint
const DefaultAIEndpoint = "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions"

// DefaultAIModel is used when no model is configured
const DefaultAIModel = "gemini-2.0-flash"

// ErrNoChoices is returned when the API answers without any completion
var ErrNoChoices = errors.New("no choices in response")

// Generator turns a prompt into text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Message represents a chat message in OpenAI format
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// ChatRequest is the request body for the chat completions API
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// ChatResponse is the response from the chat completions API
type ChatResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice represents a single completion choice
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage contains token usage information
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// AIClient is a client for an OpenAI-compatible API
type AIClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewAIClient creates a new AI client. apiKey may be empty for endpoints that need no auth.
func NewAIClient(endpoint, model, apiKey string) *AIClient {
	if endpoint == "" {
		endpoint = DefaultAIEndpoint
	}
	if model == "" {
		model = DefaultAIModel
	}
	return &AIClient{
		endpoint:   endpoint,
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// Chat makes a non-streaming chat request
func (c *AIClient) Chat(ctx context.Context, messages []Message) (*ChatResponse, error) {
	req := ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &chatResp, nil
}

// Generate sends prompt as a single user message and returns the first choice's text
func (c *AIClient) Generate(ctx context.Context, prompt string) (string, error) {
	defer logging.LogDuration(ctx, "ai_generate")()

	resp, err := c.Chat(ctx, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}
