package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fitquest/fitquest/config"
)

// ChatMessage is one turn of a conversation sent to the model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AIClient talks to an Anthropic-compatible messages endpoint. Single
// attempt per call with a bounded timeout; failures surface immediately
// and are never retried.
type AIClient struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	http      *http.Client
}

// NewAIClient builds a client from app configuration.
func NewAIClient(cfg config.AppConfig) *AIClient {
	return &AIClient{
		baseURL:   strings.TrimRight(cfg.AIBaseURL, "/"),
		apiKey:    cfg.AIAPIKey,
		model:     cfg.AIModel,
		maxTokens: cfg.AIMaxTokens,
		http:      &http.Client{Timeout: time.Duration(cfg.AITimeoutSec) * time.Second},
	}
}

type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system,omitempty"`
	Messages  []ChatMessage `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the conversation and returns the model's text reply.
func (c *AIClient) Complete(system string, messages []ChatMessage) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  messages,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrUpstream, parsed.Error.Message)
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrBadAIResponse
	}
	return sb.String(), nil
}

// ExtractJSON pulls the first balanced JSON object or array out of chatty
// model output and decodes it strictly into out: unknown fields reject,
// so malformed model output never reaches the store.
func ExtractJSON(text string, out interface{}) error {
	fragment, ok := firstJSONFragment(text)
	if !ok {
		return ErrBadAIResponse
	}
	dec := json.NewDecoder(strings.NewReader(fragment))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return ErrBadAIResponse
	}
	return nil
}

// firstJSONFragment scans for the first balanced {...} or [...] region,
// ignoring braces inside string literals.
func firstJSONFragment(text string) (string, bool) {
	start := -1
	var open, close byte
	for i := 0; i < len(text); i++ {
		if text[i] == '{' || text[i] == '[' {
			start = i
			open = text[i]
			if open == '{' {
				close = '}'
			} else {
				close = ']'
			}
			break
		}
	}
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
