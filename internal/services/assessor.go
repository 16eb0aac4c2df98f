package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aquaguard/backend/internal/config"
	"github.com/aquaguard/backend/pkg/logger"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// CredibilityAssessor produces a raw model response for a report assessment
// prompt. The response is expected to contain a JSON verdict but is treated
// as free text; parsing happens in a separate stage.
type CredibilityAssessor interface {
	Assess(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLMAssessor dispatches to the configured model provider.
type LLMAssessor struct {
	cfg *config.LLMConfig
}

func NewLLMAssessor(cfg *config.LLMConfig) *LLMAssessor {
	return &LLMAssessor{cfg: cfg}
}

func (a *LLMAssessor) Assess(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	logger.Infof("[Assessor] Using provider: %s, model: %s", a.cfg.Provider, a.cfg.Model)

	switch a.cfg.Provider {
	case "anthropic":
		return a.callAnthropic(ctx, systemPrompt, userPrompt)
	case "gemini":
		return a.callGemini(ctx, systemPrompt, userPrompt)
	case "ollama":
		return a.callOllama(ctx, systemPrompt, userPrompt)
	default:
		// openai and OpenAI-compatible gateways
		return a.callOpenAI(ctx, systemPrompt, userPrompt)
	}
}

// callOpenAI handles OpenAI and OpenAI-compatible APIs (including custom gateways)
func (a *LLMAssessor) callOpenAI(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	clientConfig := openai.DefaultConfig(a.cfg.APIKey)
	if a.cfg.BaseURL != "" {
		clientConfig.BaseURL = a.cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: float32(a.cfg.Temperature),
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", classifyProviderStatus(apiErr.HTTPStatusCode, err)
		}
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrProvider)
	}

	content := resp.Choices[0].Message.Content
	logger.Infof("[Assessor] OpenAI response length: %d chars", len(content))
	return content, nil
}

// callAnthropic handles the Anthropic API using the native SDK
func (a *LLMAssessor) callAnthropic(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	opts := []option.RequestOption{option.WithAPIKey(a.cfg.APIKey)}
	if a.cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(a.cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	model := a.cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
		Temperature: anthropic.Float(a.cfg.Temperature),
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", classifyProviderStatus(apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	logger.Infof("[Assessor] Anthropic response length: %d chars", content.Len())
	return content.String(), nil
}

// callGemini handles Google Gemini using the native SDK
func (a *LLMAssessor) callGemini(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: a.cfg.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	model := a.cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(float32(a.cfg.Temperature)),
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(userPrompt), genConfig)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", classifyProviderStatus(apiErr.Code, err)
		}
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	content := resp.Text()
	logger.Infof("[Assessor] Gemini response length: %d chars", len(content))
	return content, nil
}

// callOllama handles self-hosted Ollama deployments
func (a *LLMAssessor) callOllama(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	baseURL := a.cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid ollama base url: %v", ErrProvider, err)
	}
	client := api.NewClient(u, http.DefaultClient)

	model := a.cfg.Model
	if model == "" {
		model = "llama3"
	}

	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Options: map[string]interface{}{
			"temperature": a.cfg.Temperature,
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return "", classifyProviderStatus(statusErr.StatusCode, err)
		}
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	logger.Infof("[Assessor] Ollama response length: %d chars", content.Len())
	return content.String(), nil
}

// classifyProviderStatus maps a provider HTTP status onto the analyzer error
// taxonomy so callers can distinguish retryable throttling from exhausted
// quota. Anything else is a generic provider failure.
func classifyProviderStatus(status int, err error) error {
	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
	default:
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
}
