package llm

import (
	"context"
	"fmt"

	"recipe-planner/internal/config"
	"recipe-planner/internal/logger"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// NewFromConfig picks a text generator from the configured API keys,
// preferring Gemini. It returns nil when no key is set.
func NewFromConfig(ctx context.Context, cfg *config.Config, log *logger.Logger) (TextGenerator, error) {
	switch {
	case cfg.GeminiAPIKey != "":
		gen, err := NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		log.Info("using gemini for recipe extraction", "model", geminiModel)
		return gen, nil
	case cfg.GroqAPIKey != "":
		log.Info("using groq for recipe extraction", "model", groqModel)
		return NewGroqClient(cfg.GroqAPIKey), nil
	default:
		log.Info("no LLM key configured, recipe clipping is limited to structured data")
		return nil, nil
	}
}

// Close closes gen when it holds resources.
func Close(gen TextGenerator) error {
	if c, ok := gen.(Closer); ok {
		return c.Close()
	}
	return nil
}
