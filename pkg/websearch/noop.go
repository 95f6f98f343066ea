package websearch

import (
	"context"
	"fmt"
)

// NoopProvider is the demo backend used when web search is disabled or no
// real provider is configured.
type NoopProvider struct {
	Enabled bool
}

var _ Provider = &NoopProvider{}

func NewNoopProvider(enabled bool) *NoopProvider {
	return &NoopProvider{Enabled: enabled}
}

func (p *NoopProvider) Name() string {
	return "noop"
}

func (p *NoopProvider) Search(ctx context.Context, query string) ([]Result, error) {
	if !p.Enabled {
		return []Result{}, nil
	}
	return []Result{
		{
			Title:   "Example Result",
			URL:     "https://example.com",
			Snippet: fmt.Sprintf("No real search. Your query: %s", query),
		},
	}, nil
}
