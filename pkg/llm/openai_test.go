package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/santiagomed/llmutil/pkg/config"
	"github.com/santiagomed/llmutil/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockChat is a mock implementation of the OpenAI chat API
type MockChat struct {
	mock.Mock
}

func (m *MockChat) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func chatResponse(content string, finish openai.FinishReason) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
			FinishReason: finish,
		}},
		Usage: openai.Usage{PromptTokens: 5, CompletionTokens: 7},
	}
}

func TestNewOpenAIClient(t *testing.T) {
	client, err := NewOpenAIClient(&LlmConfig{APIKey: "sk-test", BaseURL: "http://localhost:11434/v1"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, client)

	client, err = NewOpenAIClient(&LlmConfig{}, nil)
	assert.Nil(t, client)
	assert.ErrorIs(t, err, config.ErrMissingCredential)
	assert.Contains(t, err.Error(), config.OpenAIAPIKeyEnv)
}

func TestOpenAIClient_Generate(t *testing.T) {
	chat := new(MockChat)
	tellmClient := new(MockTellm)
	client := &OpenAIClient{
		openAIClient: chat,
		config:       &LlmConfig{ModelName: "gpt-4o-mini", BatchID: "batch"},
		tellmClient:  tellmClient,
		logger:       logger.NewNullLogger(),
	}

	temperature := float32(0.2)
	seed := int32(5)
	req := &Request{
		SystemPrompt:     "Be brief.",
		Prompt:           "Hello",
		Temperature:      &temperature,
		Seed:             &seed,
		MaxOutputTokens:  256,
		StopSequences:    []string{"STOP!"},
		ResponseMIMEType: "application/json",
	}

	chat.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(r openai.ChatCompletionRequest) bool {
		return r.Model == "gpt-4o-mini" &&
			len(r.Messages) == 2 &&
			r.Messages[0].Role == openai.ChatMessageRoleSystem &&
			r.Messages[0].Content == "Be brief." &&
			r.Messages[1].Role == openai.ChatMessageRoleUser &&
			r.Messages[1].Content == "Hello" &&
			r.Temperature == 0.2 &&
			r.Seed != nil && *r.Seed == 5 &&
			r.MaxTokens == 256 &&
			r.ResponseFormat != nil &&
			r.ResponseFormat.Type == openai.ChatCompletionResponseFormatTypeJSONObject
	})).Return(chatResponse(`{"ok":true}`, openai.FinishReasonStop), nil).Once()
	tellmClient.On("Log", "batch", "Hello", `{"ok":true}`, "gpt-4o-mini", 5, 7).Return(nil).Once()

	resp, err := client.Generate(context.Background(), req)
	require.NoError(t, err)
	text, err := resp.Text()
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)

	chat.AssertExpectations(t)
	tellmClient.AssertExpectations(t)
}

func TestOpenAIClient_Generate_APIErrors(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{401, "unauthorized"},
		{429, "rate limited"},
		{500, "server error"},
		{404, "OpenAI API error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			chat := new(MockChat)
			client := &OpenAIClient{openAIClient: chat, config: &LlmConfig{ModelName: "m"}, logger: logger.NewNullLogger()}
			apiErr := &openai.APIError{HTTPStatusCode: tt.status, Message: "boom"}
			chat.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(openai.ChatCompletionResponse{}, apiErr)

			resp, err := client.Generate(context.Background(), &Request{Prompt: "hi"})
			assert.Nil(t, resp)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			var got *openai.APIError
			assert.True(t, errors.As(err, &got))
		})
	}
}

func TestOpenAIClient_Generate_TransportError(t *testing.T) {
	chat := new(MockChat)
	client := &OpenAIClient{openAIClient: chat, config: &LlmConfig{ModelName: "m"}, logger: logger.NewNullLogger()}
	netErr := errors.New("dial tcp: connection refused")
	chat.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(openai.ChatCompletionResponse{}, netErr)

	resp, err := client.Generate(context.Background(), &Request{Prompt: "hi"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, netErr)
}

func TestOpenAIResponse_Text(t *testing.T) {
	text, err := NewOpenAIResponse(chatResponse("hello", openai.FinishReasonStop)).Text()
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	_, err = NewOpenAIResponse(openai.ChatCompletionResponse{}).Text()
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = NewOpenAIResponse(chatResponse("", openai.FinishReasonStop)).Text()
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = NewOpenAIResponse(chatResponse("partial", openai.FinishReasonContentFilter)).Text()
	assert.ErrorIs(t, err, ErrBlocked)
}
