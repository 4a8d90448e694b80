package main

import (
	"context"
	"testing"

	appconfig "github.com/darknebula/leadchat/internal/config"
	"github.com/darknebula/leadchat/pkg/logging"
)

func TestBuildPhraserDisabledWithoutProviders(t *testing.T) {
	logger := logging.New("error")
	if phraser := buildPhraser(context.Background(), &appconfig.Config{}, logger); phraser != nil {
		t.Fatalf("expected nil phraser without provider config, got %T", phraser)
	}
}

func TestBuildPhraserOpenAIOnly(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{
		OpenAIAPIKey: "sk-test",
		OpenAIModel:  "gpt-4o-mini",
	}
	if phraser := buildPhraser(context.Background(), cfg, logger); phraser == nil {
		t.Fatal("expected an OpenAI-backed phraser")
	}
}
