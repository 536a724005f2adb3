package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"golang.org/x/time/rate"
)

// ChatConfig represents the configuration for a chat engine.
type ChatConfig struct {
	Token       string
	BaseURL     string // optional OpenAI-compatible endpoint
	APIVersion  string // set for Azure OpenAI deployments
	Model       string
	Temperature float64
	MaxTokens   int
	RateLimit   float64 // requests per second
}

// ChatEngine is an engine that uses an LLM to generate chat responses.
type ChatEngine struct {
	config  ChatConfig
	llm     llms.Model
	limiter *rate.Limiter
}

// NewWithConfig creates a new ChatEngine with the given configuration.
func NewWithConfig(config ChatConfig) (*ChatEngine, error) {
	// Validate and set default values for config fields if necessary
	if config.Token == "" {
		return nil, fmt.Errorf("API token is required")
	}
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 2000
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 2.0
	}

	opts := []openai.Option{
		openai.WithToken(config.Token),
		openai.WithModel(config.Model),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}
	if config.APIVersion != "" {
		opts = append(opts, openai.WithAPIType(openai.APITypeAzure),
			openai.WithAPIVersion(config.APIVersion))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &ChatEngine{
		config:  config,
		llm:     model,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

// Complete sends a single system+user exchange and returns the reply text.
func (ce *ChatEngine) Complete(ctx context.Context, system, user string) (string, error) {
	if err := ce.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("chat error: %w", err)
	}

	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, user),
	}

	response, err := ce.llm.GenerateContent(ctx, content,
		llms.WithTemperature(ce.config.Temperature),
		llms.WithMaxTokens(ce.config.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("chat error: %w", err)
	}
	if len(response.Choices) == 0 || response.Choices[0].Content == "" {
		return "", fmt.Errorf("chat error: empty model response")
	}

	return response.Choices[0].Content, nil
}
