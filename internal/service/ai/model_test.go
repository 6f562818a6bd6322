package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"autoclerk/internal/config"
)

func testConfig() *config.Config {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

func TestNewChatModelRequiresAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")

	_, err := NewChatModel(context.Background(), testConfig(), "", DefaultChatModel, "")
	if !errors.Is(err, ErrAPIKeyMissing) {
		t.Fatalf("expected ErrAPIKeyMissing, got %v", err)
	}
}

func TestNewChatModelGroq(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")

	m, err := NewChatModel(context.Background(), testConfig(), "", DefaultChatModel, "")
	if err != nil {
		t.Fatalf("NewChatModel: %v", err)
	}
	if m == nil {
		t.Fatal("expected a chat model")
	}
}

func TestNewChatModelExplicitKeyWins(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")

	m, err := NewChatModel(context.Background(), testConfig(), "groq", DefaultChatModel, "explicit-key")
	if err != nil {
		t.Fatalf("NewChatModel: %v", err)
	}
	if m == nil {
		t.Fatal("expected a chat model")
	}
}

func TestNewChatModelInvalidProvider(t *testing.T) {
	_, err := NewChatModel(context.Background(), testConfig(), "mystery", "some-model", "key")
	if err == nil || !strings.Contains(err.Error(), "invalid provider") {
		t.Fatalf("expected invalid provider error, got %v", err)
	}
}

func TestNewOrchestratorRequiresAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")

	_, err := NewOrchestrator(context.Background(), testConfig(), nil, "", "")
	if !errors.Is(err, ErrAPIKeyMissing) {
		t.Fatalf("expected ErrAPIKeyMissing, got %v", err)
	}
}
