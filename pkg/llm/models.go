package llm

import (
	"context"
	"fmt"
	"slices"

	"google.golang.org/genai"
)

// Supported actions reported by the Gemini models endpoint.
const (
	ActionGenerateContent = "generateContent"
	ActionEmbedContent    = "embedContent"
	ActionCountTokens     = "countTokens"
)

// ListModels collects every page the lister returns.
func ListModels(ctx context.Context, lister ModelLister) ([]*genai.Model, error) {
	var models []*genai.Model
	cfg := &genai.ListModelsConfig{}
	for {
		page, err := lister.ListModels(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("error listing models: %w", err)
		}
		models = append(models, page.Items...)
		if page.NextPageToken == "" {
			return models, nil
		}
		cfg = &genai.ListModelsConfig{PageToken: page.NextPageToken}
	}
}

// GetModel returns metadata for a single model.
func GetModel(ctx context.Context, getter ModelGetter, modelName string) (*genai.Model, error) {
	model, err := getter.Get(ctx, modelName, nil)
	if err != nil {
		return nil, fmt.Errorf("error getting model %s: %w", modelName, err)
	}
	return model, nil
}

// FilterModelsByAction returns the names of models that support action.
func FilterModelsByAction(models []*genai.Model, action string) []string {
	result := []string{}
	for _, m := range models {
		if m != nil && slices.Contains(m.SupportedActions, action) {
			result = append(result, m.Name)
		}
	}
	return result
}
