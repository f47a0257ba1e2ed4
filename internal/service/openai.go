package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var (
	ErrAIRateLimited   = errors.New("AI service rate limit reached")
	ErrAIQuotaExceeded = errors.New("AI service quota exceeded")
	ErrAIUnavailable   = errors.New("AI service is unavailable")
)

type CompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Completion struct {
	Content    string
	TokensUsed int
}

// Completer produces the caddie's reply to a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []CompletionMessage) (*Completion, error)
}

// OpenAIClient talks to the chat completions endpoint of OpenAI or a compatible API.
type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIClient returns nil when no API key is configured.
func NewOpenAIClient(apiKey, model, baseURL string, timeout time.Duration) *OpenAIClient {
	if apiKey == "" {
		slog.Warn("OPENAI_API_KEY not set, caddie chat disabled")
		return nil
	}

	return &OpenAIClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type openAIRequest struct {
	Model       string              `json:"model"`
	Messages    []CompletionMessage `json:"messages"`
	MaxTokens   int                 `json:"max_tokens"`
	Temperature float64             `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message CompletionMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type openAIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []CompletionMessage) (*Completion, error) {
	body, err := json.Marshal(openAIRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Error("openai request failed", "error", err)
		return nil, ErrAIUnavailable
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, ErrAIUnavailable
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyOpenAIError(resp.StatusCode, respBody)
	}

	var out openAIResponse
	err = json.Unmarshal(respBody, &out)
	if err != nil {
		slog.Error("failed to parse openai response", "error", err)
		return nil, ErrAIUnavailable
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		slog.Error("openai returned no choices")
		return nil, ErrAIUnavailable
	}

	return &Completion{
		Content:    strings.TrimSpace(out.Choices[0].Message.Content),
		TokensUsed: out.Usage.TotalTokens,
	}, nil
}

// classifyOpenAIError maps an error response onto the chat error sentinels.
func classifyOpenAIError(status int, body []byte) error {
	var apiErr openAIError
	_ = json.Unmarshal(body, &apiErr)

	slog.Warn("openai returned error",
		"status", status,
		"type", apiErr.Error.Type,
		"code", apiErr.Error.Code,
	)

	if status == http.StatusTooManyRequests {
		if apiErr.Error.Code == "insufficient_quota" || apiErr.Error.Type == "insufficient_quota" {
			return ErrAIQuotaExceeded
		}
		return ErrAIRateLimited
	}

	return ErrAIUnavailable
}
