package llm

import (
	"context"

	"google.golang.org/genai"
)

// Request is a single-turn generation request.
type Request struct {
	Model        string
	SystemPrompt string
	Prompt       string

	Temperature      *float32
	TopP             *float32
	TopK             *float32
	Seed             *int32
	MaxOutputTokens  int32
	CandidateCount   int32
	StopSequences    []string
	ResponseMIMEType string
}

// Response is a model reply. Text validates the reply and returns its textual
// payload, or a *ResponseError when there is none.
type Response interface {
	Text() (string, error)
}

// Generator sends a Request to a model.
type Generator interface {
	Generate(ctx context.Context, req *Request) (Response, error)
}

// ModelLister lists one page of models.
type ModelLister interface {
	ListModels(ctx context.Context, config *genai.ListModelsConfig) (genai.Page[genai.Model], error)
}

// ModelGetter fetches a single model by name.
type ModelGetter interface {
	Get(ctx context.Context, modelName string, config *genai.GetModelConfig) (*genai.Model, error)
}

// completionLogger records successful completions; *tellm.Client satisfies it.
type completionLogger interface {
	Log(batchID, prompt, response, model string, promptTokens, completionTokens int) error
}

type LlmConfig struct {
	APIKey    string
	ModelName string
	BaseURL   string
	BatchID   string
	TellmURL  string
}
