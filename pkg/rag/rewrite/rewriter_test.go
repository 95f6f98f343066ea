package rewrite

import (
	"context"
	"errors"
	"testing"

	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/llm"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.calls++
	return f.response, f.err
}

func TestRewriteSingleTurn(t *testing.T) {
	provider := &fakeLLM{response: "should not be used"}
	r := NewRewriter(provider, logger.NewNopLogger())

	got := r.Rewrite(context.Background(), []llm.Message{
		{Role: "user", Content: "What is the contract value?"},
	})

	if got != "What is the contract value?" {
		t.Errorf("Rewrite = %q, want the message verbatim", got)
	}
	if provider.calls != 0 {
		t.Errorf("model calls = %d, want 0 for a single-turn history", provider.calls)
	}
}

func TestRewriteMultiTurn(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		want     string
	}{
		{
			name:     "uses model rewrite",
			response: "What is the value of the Acme contract?",
			want:     "What is the value of the Acme contract?",
		},
		{
			name:     "strips surrounding quotes",
			response: `  "What is the value of the Acme contract?" `,
			want:     "What is the value of the Acme contract?",
		},
		{
			name:     "falls back on model error",
			response: "",
			err:      errors.New("boom"),
			want:     "And its value?",
		},
		{
			name:     "falls back on empty rewrite",
			response: "   ",
			want:     "And its value?",
		},
	}

	history := []llm.Message{
		{Role: "user", Content: "Tell me about the Acme contract"},
		{Role: "assistant", Content: "It was signed in 2024."},
		{Role: "user", Content: "And its value?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRewriter(&fakeLLM{response: tt.response, err: tt.err}, logger.NewNopLogger())
			got := r.Rewrite(context.Background(), history)
			if got != tt.want {
				t.Errorf("Rewrite = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRewriteEmptyHistory(t *testing.T) {
	r := NewRewriter(&fakeLLM{}, logger.NewNopLogger())
	if got := r.Rewrite(context.Background(), nil); got != "" {
		t.Errorf("Rewrite = %q, want empty", got)
	}
}

func TestRewriteHistoryWindow(t *testing.T) {
	// Only the last five messages reach the model, so the last user message
	// fallback must come from that window too.
	var history []llm.Message
	for i := 0; i < 8; i++ {
		history = append(history, llm.Message{Role: "assistant", Content: "noise"})
	}
	history = append(history, llm.Message{Role: "user", Content: "Latest question"})

	r := NewRewriter(&fakeLLM{err: errors.New("down")}, logger.NewNopLogger())
	if got := r.Rewrite(context.Background(), history); got != "Latest question" {
		t.Errorf("Rewrite = %q, want %q", got, "Latest question")
	}
}
