package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/darknebula/leadchat/pkg/logging"
)

func TestFallbackNotUsedWhenPrimaryHealthy(t *testing.T) {
	primary := &fakeLLM{text: "from primary"}
	fallback := &fakeLLM{text: "from fallback"}
	client := NewFallbackClient(primary, fallback, logging.New("error"))

	resp, err := client.Complete(context.Background(), LLMRequest{})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Text != "from primary" {
		t.Fatalf("expected primary reply, got %q", resp.Text)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback called %d times", fallback.calls)
	}
}

func TestFallbackUsedWhenPrimaryFails(t *testing.T) {
	primary := &fakeLLM{err: errors.New("primary down")}
	fallback := &fakeLLM{text: "from fallback"}
	client := NewFallbackClient(primary, fallback, logging.New("error"))

	resp, err := client.Complete(context.Background(), LLMRequest{})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Text != "from fallback" {
		t.Fatalf("expected fallback reply, got %q", resp.Text)
	}
}

func TestFallbackErrorReturnedWhenBothFail(t *testing.T) {
	primary := &fakeLLM{err: errors.New("primary down")}
	fallbackErr := errors.New("fallback down")
	fallback := &fakeLLM{err: fallbackErr}
	client := NewFallbackClient(primary, fallback, logging.New("error"))

	if _, err := client.Complete(context.Background(), LLMRequest{}); !errors.Is(err, fallbackErr) {
		t.Fatalf("expected the fallback error, got %v", err)
	}
}

func TestNoFallbackConfigured(t *testing.T) {
	primaryErr := errors.New("primary down")
	client := NewFallbackClient(&fakeLLM{err: primaryErr}, nil, logging.New("error"))

	if _, err := client.Complete(context.Background(), LLMRequest{}); !errors.Is(err, primaryErr) {
		t.Fatalf("expected the primary error, got %v", err)
	}
}
