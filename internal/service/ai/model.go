package ai

import (
	"context"
	"errors"
	"fmt"
	"os"

	"autoclerk/internal/config"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

// ErrAPIKeyMissing is returned when no API key was provided explicitly, via
// config, or through the GROQ_API_KEY environment variable.
var ErrAPIKeyMissing = errors.New("ai: api key not provided and GROQ_API_KEY not set")

const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"

	// DefaultChatModel serves the direct chat route.
	DefaultChatModel = "openai/gpt-oss-20b"
	// DefaultAgentModel drives the tool-calling agent.
	DefaultAgentModel = "llama-3.3-70b-versatile"
)

// NewChatModel builds a tool-calling chat model for the given provider. Groq
// is served through the OpenAI-compatible component with Groq's base URL;
// claude and gemini remain selectable through config.
func NewChatModel(ctx context.Context, cfg *config.Config, provider, modelType, apiKey string) (model.ToolCallingChatModel, error) {
	if provider == "" {
		provider = cfg.BasicConfig.Provider
	}
	provCfg := cfg.Provider(provider)
	if modelType == "" {
		modelType = provCfg.Model
	}
	if apiKey == "" {
		apiKey = provCfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	switch provider {
	case "groq", "openai":
		baseURL := provCfg.BaseURL
		if baseURL == "" {
			baseURL = defaultGroqBaseURL
		}
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: baseURL,
			Model:   modelType,
			APIKey:  apiKey,
		})
	case "gemini":
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		return gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  modelType,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		return claude.NewChatModel(ctx, &claude.Config{
			APIKey:    apiKey,
			Model:     modelType,
			BaseURL:   baseURLPtr,
			MaxTokens: 3000,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}
}
