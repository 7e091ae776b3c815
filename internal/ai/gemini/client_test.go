package gemini

import (
	"context"
	"testing"
)

func TestNewGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), "   ", ""); err == nil {
		t.Fatalf("expected an error for an empty api key")
	}
}

func TestGenerateContentGuards(t *testing.T) {
	var generator *Generator
	if _, err := generator.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected an error for a nil generator")
	}

	uninitialized := &Generator{}
	if _, err := uninitialized.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected an error without a client")
	}
}

func TestModelOnNilGenerator(t *testing.T) {
	var generator *Generator
	if got := generator.Model(); got != "" {
		t.Fatalf("expected an empty model name, got %q", got)
	}
}
