package websearch

import (
	"ai-docchat-be/internal/pkg/logger"
)

// NewProvider builds the configured search backend. A misconfigured or
// unknown provider degrades to the noop backend instead of failing startup;
// the chat flow treats web search as best effort everywhere else too.
func NewProvider(providerType, tavilyAPIKey, serperAPIKey string, enabled bool, maxResults int, log logger.ILogger) Provider {
	if !enabled {
		return NewNoopProvider(false)
	}

	switch providerType {
	case "tavily":
		if tavilyAPIKey != "" {
			return NewTavilyProvider(tavilyAPIKey, maxResults, 0)
		}
		log.Warn("websearch", "tavily selected but no api key set, falling back to noop provider", nil)
	case "serper":
		if serperAPIKey != "" {
			return NewSerperProvider(serperAPIKey, maxResults, 0)
		}
		log.Warn("websearch", "serper selected but no api key set, falling back to noop provider", nil)
	case "noop", "":
		// demo mode
	default:
		log.Warn("websearch", "unknown web search provider, falling back to noop provider", map[string]interface{}{
			"provider": providerType,
		})
	}
	return NewNoopProvider(true)
}
