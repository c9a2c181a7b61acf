package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/felixgeelhaar/taskplan/internal/errors"
)

// Wire structures for OpenAI-compatible chat completion APIs.
// Groq exposes the same surface, so both providers share this codec.
type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	Temperature    float64             `json:"temperature,omitempty"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
	Error   *chatError   `json:"error,omitempty"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// chatClient is the shared HTTP plumbing behind the Groq and OpenAI
// providers.
type chatClient struct {
	name    string
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func (c *chatClient) buildRequest(req *GenerateRequest) *chatRequest {
	model := c.model
	if req.Model != "" {
		model = req.Model
	}

	messages := make([]chatMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	creq := &chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		creq.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}
	return creq
}

// generate runs a chat completion request and maps transport and API
// failures to coded errors.
func (c *chatClient) generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	startTime := time.Now()

	reqBody, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeProviderTimeout, fmt.Sprintf("provider %s request canceled", c.name), err)
		}
		return nil, errors.Wrap(errors.ErrCodeProviderAPI, fmt.Sprintf("provider %s request failed", c.name), err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, c.statusError(httpResp.StatusCode, respBody)
	}

	var cresp chatResponse
	if err := json.Unmarshal(respBody, &cresp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeProviderAPI, fmt.Sprintf("provider %s returned malformed response", c.name), err)
	}

	content := ""
	finishReason := ""
	if len(cresp.Choices) > 0 {
		content = cresp.Choices[0].Message.Content
		finishReason = cresp.Choices[0].FinishReason
	}

	return &GenerateResponse{
		Content:      content,
		TokensUsed:   cresp.Usage.TotalTokens,
		InputTokens:  cresp.Usage.PromptTokens,
		OutputTokens: cresp.Usage.CompletionTokens,
		Model:        cresp.Model,
		Latency:      time.Since(startTime),
		FinishReason: finishReason,
		Provider:     c.name,
	}, nil
}

func (c *chatClient) statusError(status int, body []byte) error {
	apiMessage := ""
	var eresp chatResponse
	if err := json.Unmarshal(body, &eresp); err == nil && eresp.Error != nil {
		apiMessage = eresp.Error.Message
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.NewProviderAuthError(c.name)
	case http.StatusTooManyRequests:
		return errors.New(errors.ErrCodeProviderRateLimit, fmt.Sprintf("provider %s rate limit exceeded", c.name)).
			WithSuggestion("Wait a moment and retry the request")
	default:
		msg := fmt.Sprintf("provider %s returned HTTP %d", c.name, status)
		if apiMessage != "" {
			msg = fmt.Sprintf("%s: %s", msg, apiMessage)
		}
		return errors.New(errors.ErrCodeProviderAPI, msg)
	}
}

// health issues a minimal models listing request to verify connectivity and
// credentials.
func (c *chatClient) health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return errors.Wrap(errors.ErrCodeProviderAPI, fmt.Sprintf("provider %s unreachable", c.name), err)
	}
	defer httpResp.Body.Close()
	io.Copy(io.Discard, httpResp.Body) //nolint:errcheck

	if httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden {
		return errors.NewProviderAuthError(c.name)
	}
	if httpResp.StatusCode != http.StatusOK {
		return errors.New(errors.ErrCodeProviderAPI, fmt.Sprintf("provider %s health check returned HTTP %d", c.name, httpResp.StatusCode))
	}
	return nil
}
