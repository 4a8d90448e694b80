package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// openAIChatAPI is the slice of the OpenAI SDK the client needs, kept
// small so tests can stub it.
type openAIChatAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient adapts the OpenAI chat completions API to LLMClient.
type OpenAIClient struct {
	api          openAIChatAPI
	defaultModel string
}

func NewOpenAIClient(apiKey, defaultModel string) *OpenAIClient {
	return &OpenAIClient{
		api:          openai.NewClient(apiKey),
		defaultModel: defaultModel,
	}
}

// NewOpenAIClientWithAPI wires a pre-built API, used by tests.
func NewOpenAIClientWithAPI(api openAIChatAPI, defaultModel string) *OpenAIClient {
	return &OpenAIClient{api: api, defaultModel: defaultModel}
}

func (c *OpenAIClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	if c == nil || c.api == nil {
		return LLMResponse{}, errors.New("openai client not configured")
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(req.System)+len(req.Messages))
	for _, sys := range req.System {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: sys,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    msgs,
		MaxTokens:   int(req.MaxTokens),
		Temperature: req.Temperature,
		TopP:        req.TopP,
	})
	if err != nil {
		return LLMResponse{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return LLMResponse{}, errors.New("openai returned no choices")
	}

	choice := resp.Choices[0]
	return LLMResponse{
		Text:       strings.TrimSpace(choice.Message.Content),
		StopReason: string(choice.FinishReason),
		Usage: TokenUsage{
			InputTokens:  int32(resp.Usage.PromptTokens),
			OutputTokens: int32(resp.Usage.CompletionTokens),
			TotalTokens:  int32(resp.Usage.TotalTokens),
		},
	}, nil
}
