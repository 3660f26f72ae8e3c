package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/santiagomed/llmutil/pkg/config"
	"github.com/santiagomed/llmutil/pkg/logger"
	tellm "github.com/santiagomed/tellm/sdk"
	"github.com/sashabaranov/go-openai"
)

// chatCompleter is the subset of *openai.Client the client calls.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient generates content through the OpenAI chat API or a compatible server.
type OpenAIClient struct {
	openAIClient chatCompleter
	config       *LlmConfig
	tellmClient  completionLogger
	logger       logger.Logger
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(cfg *LlmConfig, l logger.Logger) (*OpenAIClient, error) {
	if cfg == nil || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &config.ConfigError{Key: config.OpenAIAPIKeyEnv, Err: config.ErrMissingCredential}
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	c := &OpenAIClient{
		openAIClient: openai.NewClientWithConfig(clientConfig),
		config:       cfg,
		logger:       logger.OrNull(l),
	}
	if cfg.TellmURL != "" {
		cfg.BatchID = EnsureBatchID(cfg.BatchID)
		c.tellmClient = tellm.NewClient(cfg.TellmURL)
	}
	return c, nil
}

// Generate sends req to the chat completions endpoint.
func (c *OpenAIClient) Generate(ctx context.Context, req *Request) (Response, error) {
	model := req.Model
	if model == "" {
		model = c.config.ModelName
	}
	if model == "" {
		return nil, ErrNoModel
	}

	resp, err := c.openAIClient.CreateChatCompletion(ctx, openAIRequest(model, req))

	e := &openai.APIError{}
	if errors.As(err, &e) {
		switch e.HTTPStatusCode {
		case 401:
			return nil, fmt.Errorf("unauthorized: invalid OpenAI API key: %w", err)
		case 429:
			return nil, fmt.Errorf("rate limited by OpenAI API: %w", err)
		case 500:
			return nil, fmt.Errorf("OpenAI server error: %w", err)
		default:
			return nil, fmt.Errorf("OpenAI API error: %w", err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	response := NewOpenAIResponse(resp)
	if text, err := response.Text(); err == nil && c.tellmClient != nil {
		usage := resp.Usage
		if err := c.tellmClient.Log(c.config.BatchID, req.Prompt, text, model, usage.PromptTokens, usage.CompletionTokens); err != nil {
			c.logger.WithField("warning", err).Warn("failed to log to tellm")
		}
	}
	return response, nil
}

func openAIRequest(model string, req *Request) openai.ChatCompletionRequest {
	var messages []openai.ChatCompletionMessage
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	r := openai.ChatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: int(req.MaxOutputTokens),
		N:         int(req.CandidateCount),
		Stop:      req.StopSequences,
	}
	if req.Temperature != nil {
		r.Temperature = *req.Temperature
	}
	if req.TopP != nil {
		r.TopP = *req.TopP
	}
	if req.Seed != nil {
		seed := int(*req.Seed)
		r.Seed = &seed
	}
	if req.ResponseMIMEType == "application/json" {
		r.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}
	return r
}

// OpenAIResponse adapts openai.ChatCompletionResponse to Response.
type OpenAIResponse struct {
	raw openai.ChatCompletionResponse
}

func NewOpenAIResponse(resp openai.ChatCompletionResponse) *OpenAIResponse {
	return &OpenAIResponse{raw: resp}
}

// Raw returns the SDK response.
func (r *OpenAIResponse) Raw() openai.ChatCompletionResponse {
	return r.raw
}

// Text returns the first choice's message content.
func (r *OpenAIResponse) Text() (string, error) {
	if len(r.raw.Choices) == 0 {
		return "", &ResponseError{Err: fmt.Errorf("%w: no choices returned", ErrEmptyResponse)}
	}
	choice := r.raw.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", &ResponseError{Err: fmt.Errorf("%w: finish reason %s", ErrBlocked, choice.FinishReason)}
	}
	if choice.Message.Content == "" {
		return "", &ResponseError{Err: fmt.Errorf("%w: empty message content", ErrEmptyResponse)}
	}
	return choice.Message.Content, nil
}
