package websearch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-docchat-be/internal/pkg/logger"
)

type flakyProvider struct {
	results []Result
	err     error
	block   bool
	calls   int
}

func (p *flakyProvider) Name() string { return "flaky" }

func (p *flakyProvider) Search(ctx context.Context, query string) ([]Result, error) {
	p.calls++
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return p.results, p.err
}

func TestSafeAbsorbsProviderError(t *testing.T) {
	s := NewSafe(&flakyProvider{err: errors.New("http 500")}, time.Second, logger.NewNopLogger())

	got := s.Search(context.Background(), "q")

	if got == nil {
		t.Fatal("Search must never return nil")
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestSafeAbsorbsTimeout(t *testing.T) {
	s := NewSafe(&flakyProvider{block: true}, 20*time.Millisecond, logger.NewNopLogger())

	done := make(chan []Result, 1)
	go func() { done <- s.Search(context.Background(), "q") }()

	select {
	case got := <-done:
		if len(got) != 0 {
			t.Errorf("len = %d, want 0 on timeout", len(got))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Search did not honor the per-call timeout")
	}
}

func TestSafeTruncatesSnippets(t *testing.T) {
	long := strings.Repeat("s", SnippetLimit+100)
	s := NewSafe(&flakyProvider{results: []Result{{Title: "T", URL: "u", Snippet: long}}}, time.Second, logger.NewNopLogger())

	got := s.Search(context.Background(), "q")

	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if len(got[0].Snippet) != SnippetLimit {
		t.Errorf("snippet len = %d, want %d", len(got[0].Snippet), SnippetLimit)
	}
}

func TestNoopProvider(t *testing.T) {
	t.Run("disabled returns nothing", func(t *testing.T) {
		p := NewNoopProvider(false)
		got, err := p.Search(context.Background(), "q")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})

	t.Run("enabled returns demo result", func(t *testing.T) {
		p := NewNoopProvider(true)
		got, err := p.Search(context.Background(), "anything")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("len = %d, want 1", len(got))
		}
		if !strings.Contains(got[0].Snippet, "anything") {
			t.Error("demo snippet should echo the query")
		}
	})
}

func TestNewProviderFallbacks(t *testing.T) {
	log := logger.NewNopLogger()

	tests := []struct {
		name         string
		providerType string
		tavilyKey    string
		serperKey    string
		enabled      bool
		wantName     string
	}{
		{name: "disabled is noop", providerType: "tavily", tavilyKey: "k", enabled: false, wantName: "noop"},
		{name: "tavily with key", providerType: "tavily", tavilyKey: "k", enabled: true, wantName: "tavily"},
		{name: "tavily without key falls back", providerType: "tavily", enabled: true, wantName: "noop"},
		{name: "serper with key", providerType: "serper", serperKey: "k", enabled: true, wantName: "serper"},
		{name: "serper without key falls back", providerType: "serper", enabled: true, wantName: "noop"},
		{name: "unknown falls back", providerType: "whatever", enabled: true, wantName: "noop"},
		{name: "empty is noop", providerType: "", enabled: true, wantName: "noop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider(tt.providerType, tt.tavilyKey, tt.serperKey, tt.enabled, 5, log)
			if p.Name() != tt.wantName {
				t.Errorf("Name = %q, want %q", p.Name(), tt.wantName)
			}
		})
	}
}

func TestCachedProvider(t *testing.T) {
	inner := &flakyProvider{results: []Result{{Title: "T", URL: "u", Snippet: "s"}}}
	c := NewCached(inner, NewMemoryCache(time.Minute))

	first, err := c.Search(context.Background(), "same query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.Search(context.Background(), "same query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (second hit served from cache)", inner.calls)
	}
	if len(first) != 1 || len(second) != 1 || second[0].Title != "T" {
		t.Error("cached results should match the provider results")
	}
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	inner := &flakyProvider{err: errors.New("down")}
	c := NewCached(inner, NewMemoryCache(time.Minute))

	if _, err := c.Search(context.Background(), "q"); err == nil {
		t.Fatal("expected error to pass through")
	}
	if _, err := c.Search(context.Background(), "q"); err == nil {
		t.Fatal("expected second call to reach the provider again")
	}
	if inner.calls != 2 {
		t.Errorf("provider calls = %d, want 2", inner.calls)
	}
}
