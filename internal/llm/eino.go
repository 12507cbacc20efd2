package llm

import (
	"context"
	"errors"
	"fmt"

	"lifeplan_agent/internal/config"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// DashScopeCompatibleURL is DashScope's OpenAI-compatible endpoint
const DashScopeCompatibleURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

var errNoModel = errors.New("no chat model configured")

// EinoGenerator adapts an eino chat model to Generator
type EinoGenerator struct {
	model model.BaseChatModel
}

// NewEinoGenerator wraps an existing chat model
func NewEinoGenerator(m model.BaseChatModel) *EinoGenerator {
	return &EinoGenerator{model: m}
}

// NewOpenAIGenerator builds an OpenAI-compatible chat model from config
func NewOpenAIGenerator(ctx context.Context, cfg config.LLMConfig) (*EinoGenerator, error) {
	// the native endpoint does not speak the OpenAI protocol
	baseURL := cfg.BaseURL
	if baseURL == "" || baseURL == config.Default().LLM.BaseURL {
		baseURL = DashScopeCompatibleURL
	}
	maxTokens := cfg.MaxTokens
	temperature := float32(cfg.Temperature)

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     baseURL,
		Model:       cfg.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}
	return NewEinoGenerator(chatModel), nil
}

// Generate implements Generator
func (g *EinoGenerator) Generate(ctx context.Context, messages []*schema.Message) (string, error) {
	if g.model == nil {
		return "", errNoModel
	}
	msg, err := g.model.Generate(ctx, messages)
	if err != nil {
		return "", transportError(err)
	}
	if msg == nil {
		return "", &ServiceError{StatusCode: 200, Message: "empty message"}
	}
	if msg.Content == "" {
		return "", &ServiceError{StatusCode: 200, Message: "empty content"}
	}
	return msg.Content, nil
}

var _ Generator = (*EinoGenerator)(nil)

// NewGenerator picks the backend named by cfg.Provider
func NewGenerator(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(ctx, cfg)
	case config.ProviderDashScope, "":
		return NewDashScopeGenerator(cfg, nil), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
