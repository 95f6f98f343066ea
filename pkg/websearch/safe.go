package websearch

import (
	"context"
	"time"

	"ai-docchat-be/internal/pkg/logger"
)

// Safe wraps a provider so that no failure crosses the adapter boundary:
// timeouts, HTTP errors and parse errors all yield an empty result list.
type Safe struct {
	provider Provider
	timeout  time.Duration
	logger   logger.ILogger
}

func NewSafe(provider Provider, timeout time.Duration, log logger.ILogger) *Safe {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Safe{
		provider: provider,
		timeout:  timeout,
		logger:   log,
	}
}

func (s *Safe) Name() string {
	return s.provider.Name()
}

// Search never returns an error and never returns nil.
func (s *Safe) Search(ctx context.Context, query string) []Result {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	results, err := s.provider.Search(ctx, query)
	if err != nil {
		s.logger.Warn("websearch", "provider search failed, returning no results", map[string]interface{}{
			"provider": s.provider.Name(),
			"error":    err.Error(),
		})
		return []Result{}
	}
	if results == nil {
		return []Result{}
	}

	for i := range results {
		results[i].Snippet = truncateSnippet(results[i].Snippet)
	}
	return results
}
