package conversation

import "context"

// Prompt roles understood by every LLM backend.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// PromptMessage is one turn of model-visible chat history.
type PromptMessage struct {
	Role    string
	Content string
}

// TokenUsage reports token accounting when the backend provides it.
type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// LLMRequest is a backend-neutral completion request.
type LLMRequest struct {
	Model       string
	System      []string
	Messages    []PromptMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// LLMResponse carries the generated text plus whatever metadata the
// backend returns.
type LLMResponse struct {
	Text       string
	StopReason string
	Usage      TokenUsage
}

// LLMClient abstracts a text-generation backend so the engine can swap
// between OpenAI, Bedrock, and a scripted fake in tests.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}
