package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SerperProvider implements Provider over the Serper.dev Google search API.
type SerperProvider struct {
	APIKey     string
	MaxResults int
	Client     *http.Client
}

var _ Provider = &SerperProvider{}

func NewSerperProvider(apiKey string, maxResults int, timeout time.Duration) *SerperProvider {
	if maxResults <= 0 {
		maxResults = 5
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SerperProvider{
		APIKey:     apiKey,
		MaxResults: maxResults,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

func (p *SerperProvider) Name() string {
	return "serper"
}

func (p *SerperProvider) Search(ctx context.Context, query string) ([]Result, error) {
	payload, err := json.Marshal(serperRequest{Q: query, Num: p.MaxResults})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://google.serper.dev/search", bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", p.APIKey)

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper returned status %d: %s", res.StatusCode, string(body))
	}

	var parsed serperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal serper response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Organic))
	for _, r := range parsed.Organic {
		results = append(results, Result{
			Title:   r.Title,
			URL:     r.Link,
			Snippet: truncateSnippet(r.Snippet),
		})
		if len(results) == p.MaxResults {
			break
		}
	}
	return results, nil
}
