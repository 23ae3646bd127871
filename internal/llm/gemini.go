package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"toolbox-ai/internal/common/config"
)

// GeminiProvider calls Google's Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, cfg config.GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-flash-latest"
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Name() string {
	return "gemini:" + p.model
}

func (p *GeminiProvider) Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	genConfig := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}
	if system != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), genConfig)
	if err != nil {
		return "", p.wrapError(err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", &ProviderError{Provider: p.Name(), Message: "response has no candidates", MissingParts: true}
	}

	candidate := resp.Candidates[0]
	finishReason := string(candidate.FinishReason)
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &ProviderError{
			Provider:     p.Name(),
			Message:      "response candidate has no content parts",
			FinishReason: finishReason,
			MissingParts: true,
		}
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}

	// A budget cut-off with nothing but whitespace is as good as no parts.
	if strings.TrimSpace(b.String()) == "" && candidate.FinishReason == genai.FinishReasonMaxTokens {
		return "", &ProviderError{
			Provider:     p.Name(),
			Message:      "response truncated before any text",
			FinishReason: finishReason,
			MissingParts: true,
		}
	}
	return b.String(), nil
}

func (p *GeminiProvider) wrapError(err error) error {
	var apiErr genai.APIError
	if stderrors.As(err, &apiErr) {
		return &ProviderError{Provider: p.Name(), StatusCode: apiErr.Code, Message: apiErr.Status + ": " + apiErr.Message, Err: err}
	}
	var apiErrPtr *genai.APIError
	if stderrors.As(err, &apiErrPtr) {
		return &ProviderError{Provider: p.Name(), StatusCode: apiErrPtr.Code, Message: apiErrPtr.Status + ": " + apiErrPtr.Message, Err: err}
	}
	return &ProviderError{Provider: p.Name(), Message: err.Error(), Err: err}
}
