package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/santiagomed/llmutil/pkg/config"
	"github.com/santiagomed/llmutil/pkg/logger"
	tellm "github.com/santiagomed/tellm/sdk"
	"google.golang.org/genai"
)

// geminiModels is the subset of *genai.Models the client calls.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	List(ctx context.Context, config *genai.ListModelsConfig) (genai.Page[genai.Model], error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// GeminiClient generates content through the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	models      geminiModels
	config      *LlmConfig
	tellmClient completionLogger
	logger      logger.Logger
}

// NewClientFromEnv loads an optional .env file, reads GEMINI_API_KEY and
// returns a Gemini client. A missing or empty key fails with a
// *config.ConfigError before any network call.
func NewClientFromEnv(ctx context.Context, l logger.Logger) (*GeminiClient, error) {
	l = logger.OrNull(l)
	if err := config.LoadDotEnv(l); err != nil {
		l.WithField("error", err.Error()).Warn("ignoring unreadable .env file")
	}

	apiKey, err := config.APIKeyFromEnv(config.GeminiAPIKeyEnv)
	if err != nil {
		return nil, err
	}
	return NewGeminiClient(ctx, &LlmConfig{APIKey: apiKey}, l)
}

// NewGeminiClient creates a Gemini client for cfg.APIKey. The key is not
// checked remotely until the first request.
func NewGeminiClient(ctx context.Context, cfg *LlmConfig, l logger.Logger) (*GeminiClient, error) {
	if cfg == nil || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &config.ConfigError{Key: config.GeminiAPIKeyEnv, Err: config.ErrMissingCredential}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating gemini client: %w", err)
	}

	c := &GeminiClient{
		client: client,
		models: client.Models,
		config: cfg,
		logger: logger.OrNull(l),
	}
	if cfg.TellmURL != "" {
		cfg.BatchID = EnsureBatchID(cfg.BatchID)
		c.tellmClient = tellm.NewClient(cfg.TellmURL)
	}
	return c, nil
}

// GenAI returns the underlying SDK client.
func (c *GeminiClient) GenAI() *genai.Client {
	return c.client
}

// Generate sends req as a single user turn.
func (c *GeminiClient) Generate(ctx context.Context, req *Request) (Response, error) {
	model := req.Model
	if model == "" {
		model = c.config.ModelName
	}
	if model == "" {
		return nil, ErrNoModel
	}

	log := c.logger.WithField("model", model)
	log.Debug("sending generate content request")

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}
	resp, err := c.models.GenerateContent(ctx, model, contents, geminiConfig(req))
	if err != nil {
		log.Error(fmt.Sprintf("generate content failed: %v", err))
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	response := NewGeminiResponse(resp)
	c.logCompletion(model, req.Prompt, response)
	return response, nil
}

func (c *GeminiClient) logCompletion(model, prompt string, resp *GeminiResponse) {
	if c.tellmClient == nil {
		return
	}
	text, err := resp.Text()
	if err != nil {
		return
	}

	var promptTokens, completionTokens int
	if usage := resp.Raw().UsageMetadata; usage != nil {
		promptTokens = int(usage.PromptTokenCount)
		completionTokens = int(usage.CandidatesTokenCount)
	}
	if err := c.tellmClient.Log(c.config.BatchID, prompt, text, model, promptTokens, completionTokens); err != nil {
		c.logger.WithField("warning", err).Warn("failed to log to tellm")
	}
}

// ListModels returns one page of models.
func (c *GeminiClient) ListModels(ctx context.Context, config *genai.ListModelsConfig) (genai.Page[genai.Model], error) {
	return c.models.List(ctx, config)
}

// Get returns metadata for a single model.
func (c *GeminiClient) Get(ctx context.Context, modelName string, config *genai.GetModelConfig) (*genai.Model, error) {
	return c.models.Get(ctx, modelName, config)
}

func geminiConfig(req *Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:      req.Temperature,
		TopP:             req.TopP,
		TopK:             req.TopK,
		Seed:             req.Seed,
		MaxOutputTokens:  req.MaxOutputTokens,
		CandidateCount:   req.CandidateCount,
		StopSequences:    req.StopSequences,
		ResponseMIMEType: req.ResponseMIMEType,
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	return cfg
}

var blockedFinishReasons = map[genai.FinishReason]bool{
	genai.FinishReasonSafety:            true,
	genai.FinishReasonRecitation:        true,
	genai.FinishReasonBlocklist:         true,
	genai.FinishReasonProhibitedContent: true,
	genai.FinishReasonSPII:              true,
}

// GeminiResponse adapts *genai.GenerateContentResponse to Response.
type GeminiResponse struct {
	raw *genai.GenerateContentResponse
}

func NewGeminiResponse(resp *genai.GenerateContentResponse) *GeminiResponse {
	return &GeminiResponse{raw: resp}
}

// Raw returns the SDK response.
func (r *GeminiResponse) Raw() *genai.GenerateContentResponse {
	return r.raw
}

// Text concatenates the text parts of the first candidate, skipping thoughts.
func (r *GeminiResponse) Text() (string, error) {
	if r == nil || r.raw == nil {
		return "", &ResponseError{Err: ErrEmptyResponse}
	}
	resp := r.raw
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		return "", &ResponseError{Err: fmt.Errorf("%w: prompt blocked (%s) %s", ErrBlocked, fb.BlockReason, fb.BlockReasonMessage)}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", &ResponseError{Err: fmt.Errorf("%w: no candidates", ErrEmptyResponse)}
	}

	candidate := resp.Candidates[0]
	if blockedFinishReasons[candidate.FinishReason] {
		return "", &ResponseError{Err: fmt.Errorf("%w: finish reason %s", ErrBlocked, candidate.FinishReason)}
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &ResponseError{Err: fmt.Errorf("%w: candidate has no content", ErrEmptyResponse)}
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", &ResponseError{Err: fmt.Errorf("%w: no text in candidate parts", ErrEmptyResponse)}
	}
	return text.String(), nil
}
