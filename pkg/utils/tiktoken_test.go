package utils

import (
	"strings"
	"testing"
)

func TestNewTokenCounter(t *testing.T) {
	for _, model := range []string{"gpt-4", "claude-sonnet-4", "unknown-model", ""} {
		t.Run(model, func(t *testing.T) {
			counter, err := NewTokenCounter(model)
			if err != nil {
				t.Fatalf("NewTokenCounter(%s) failed: %v", model, err)
			}
			if counter == nil {
				t.Fatalf("NewTokenCounter(%s) returned nil counter", model)
			}
		})
	}
}

func TestCountTokens(t *testing.T) {
	counter, err := NewTokenCounter("gpt-4")
	if err != nil {
		t.Fatalf("Failed to create token counter: %v", err)
	}

	tests := []struct {
		text      string
		minTokens int
		maxTokens int
	}{
		{"", 0, 0},
		{"Hello", 1, 2},
		{"Hello, world!", 3, 5},
		{strings.Repeat("word ", 100), 90, 110},
	}

	for _, tt := range tests {
		got := counter.CountTokens(tt.text)
		if got < tt.minTokens || got > tt.maxTokens {
			t.Errorf("CountTokens(%q) = %d, want between %d and %d", tt.text, got, tt.minTokens, tt.maxTokens)
		}
	}
}

func TestCountTokensNilCounterFallsBack(t *testing.T) {
	var counter *TokenCounter
	if got := counter.CountTokens("12345678"); got != 2 {
		t.Errorf("Expected estimation of 2 tokens, got %d", got)
	}
}
