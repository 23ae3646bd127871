package llm

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"toolbox-ai/internal/common/config"
	apphttp "toolbox-ai/internal/common/http"
)

// OpenRouterProvider calls an OpenAI-compatible chat-completions endpoint.
type OpenRouterProvider struct {
	client  *apphttp.Client
	baseURL string
	apiKey  string
	model   string
	referer string
	title   string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Code    interface{} `json:"code"`
		Message string      `json:"message"`
	} `json:"error,omitempty"`
}

func NewOpenRouterProvider(cfg config.OpenRouterConfig, timeout time.Duration) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "meta-llama/llama-3.2-3b-instruct:free"
	}

	return &OpenRouterProvider{
		client:  apphttp.NewClient(timeout),
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		model:   model,
		referer: cfg.Referer,
		title:   cfg.Title,
	}, nil
}

func (p *OpenRouterProvider) Name() string {
	return "openrouter:" + p.model
}

func (p *OpenRouterProvider) Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}
	if p.referer != "" {
		headers["HTTP-Referer"] = p.referer
	}
	if p.title != "" {
		headers["X-Title"] = p.title
	}

	data, err := p.client.PostJSON(ctx, p.baseURL+"/chat/completions", headers, chatRequest{
		Model:     p.model,
		Messages:  messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		var statusErr *apphttp.StatusError
		if stderrors.As(err, &statusErr) {
			return "", &ProviderError{Provider: p.Name(), StatusCode: statusErr.StatusCode, Message: statusErr.Body, Err: err}
		}
		return "", &ProviderError{Provider: p.Name(), Message: err.Error(), Err: err}
	}

	var decoded chatResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", &ProviderError{Provider: p.Name(), Message: "invalid json response: " + err.Error(), Err: err}
	}

	// Upstream errors can arrive with a 200 status.
	if decoded.Error != nil {
		pe := &ProviderError{Provider: p.Name(), Message: decoded.Error.Message}
		if code, ok := decoded.Error.Code.(float64); ok {
			pe.StatusCode = int(code)
		}
		return "", pe
	}

	if len(decoded.Choices) == 0 {
		return "", &ProviderError{Provider: p.Name(), Message: "response missing choices", MissingParts: true}
	}

	choice := decoded.Choices[0]
	if strings.TrimSpace(choice.Message.Content) == "" && choice.FinishReason == "length" {
		return "", &ProviderError{
			Provider:     p.Name(),
			Message:      "response truncated before any text",
			FinishReason: "MAX_TOKENS",
			MissingParts: true,
		}
	}
	return choice.Message.Content, nil
}
