package llm

import (
	"context"
	"fmt"

	"github.com/santiagomed/llmutil/pkg/config"
	"github.com/santiagomed/llmutil/pkg/logger"
)

// New validates cfg and builds the Generator for its provider.
func New(ctx context.Context, cfg *config.Config, l logger.Logger) (Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	llmCfg := &LlmConfig{
		APIKey:    cfg.APIKey(),
		ModelName: cfg.ModelName,
		BaseURL:   cfg.BaseURL,
		BatchID:   cfg.BatchID,
		TellmURL:  cfg.TellmURL,
	}

	switch cfg.Provider {
	case config.ProviderGemini:
		c, err := NewGeminiClient(ctx, llmCfg, l)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderOpenAI:
		c, err := NewOpenAIClient(llmCfg, l)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

// NewRequest builds a Request carrying the sampling defaults from cfg.
func NewRequest(cfg *config.Config, systemPrompt, prompt string) *Request {
	g := cfg.Generation
	req := &Request{
		Model:            cfg.ModelName,
		SystemPrompt:     systemPrompt,
		Prompt:           prompt,
		MaxOutputTokens:  g.MaxOutputTokens,
		CandidateCount:   g.CandidateCount,
		ResponseMIMEType: g.ResponseMIMEType,
	}
	req.Temperature = &g.Temperature
	req.TopP = &g.TopP
	// OpenAI has no top-k.
	if cfg.Provider != config.ProviderOpenAI && g.TopK > 0 {
		req.TopK = &g.TopK
	}
	return req
}
