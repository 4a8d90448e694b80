package conversation

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type stubChatAPI struct {
	lastReq openai.ChatCompletionRequest
	resp    openai.ChatCompletionResponse
	err     error
}

func (s *stubChatAPI) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.lastReq = req
	return s.resp, s.err
}

func TestOpenAICompleteMapsRequest(t *testing.T) {
	stub := &stubChatAPI{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Content: "  hello there  "},
				FinishReason: openai.FinishReasonStop,
			}},
			Usage: openai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		},
	}
	client := NewOpenAIClientWithAPI(stub, "gpt-4o-mini")

	resp, err := client.Complete(context.Background(), LLMRequest{
		System:      []string{"be brief"},
		Messages:    []PromptMessage{{Role: RoleUser, Content: "hi"}, {Role: RoleAssistant, Content: "hey"}},
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Text != "hello there" {
		t.Fatalf("expected trimmed text, got %q", resp.Text)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Fatalf("usage not mapped: %+v", resp.Usage)
	}

	if stub.lastReq.Model != "gpt-4o-mini" {
		t.Fatalf("default model not applied: %q", stub.lastReq.Model)
	}
	if len(stub.lastReq.Messages) != 3 {
		t.Fatalf("expected system + 2 chat messages, got %d", len(stub.lastReq.Messages))
	}
	if stub.lastReq.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("system prompt not first: %+v", stub.lastReq.Messages[0])
	}
	if stub.lastReq.Messages[2].Role != openai.ChatMessageRoleAssistant {
		t.Fatalf("assistant role not mapped: %+v", stub.lastReq.Messages[2])
	}
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	client := NewOpenAIClientWithAPI(&stubChatAPI{}, "gpt-4o-mini")
	if _, err := client.Complete(context.Background(), LLMRequest{}); err == nil {
		t.Fatal("expected an error for empty choices")
	}
}

func TestOpenAICompletePropagatesError(t *testing.T) {
	apiErr := errors.New("rate limited")
	client := NewOpenAIClientWithAPI(&stubChatAPI{err: apiErr}, "gpt-4o-mini")
	if _, err := client.Complete(context.Background(), LLMRequest{}); !errors.Is(err, apiErr) {
		t.Fatalf("expected wrapped api error, got %v", err)
	}
}
