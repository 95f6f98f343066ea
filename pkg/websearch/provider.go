package websearch

import (
	"context"
)

// SnippetLimit caps how much text one search result may carry.
const SnippetLimit = 500

// Result is a single web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider is the pluggable web search backend contract.
// Implementations can wrap Tavily, Serper, SerpAPI, Jina, etc.
type Provider interface {
	// Search performs a web search and returns results.
	Search(ctx context.Context, query string) ([]Result, error)
	// Name returns the provider name.
	Name() string
}

func truncateSnippet(s string) string {
	if len(s) > SnippetLimit {
		return s[:SnippetLimit]
	}
	return s
}
