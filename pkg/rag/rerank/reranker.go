package rerank

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/store"
)

const (
	// analyzeCap bounds how many candidates one rerank call may inspect
	// (API cost bound).
	analyzeCap = 20
	// previewLen is how much passage content each summary line carries.
	previewLen = 300
)

const systemPrompt = `You rank document passages by semantic relevance to a question.

Given a question and a list of numbered passages [0], [1], [2]..., return ONLY a JSON array of the passage indices ordered from MOST relevant to LEAST relevant.

- Judge semantic relevance, not keyword overlap
- Prefer passages that answer the question directly
- If the question asks about specific values, prefer passages containing numbers
- Return ONLY the JSON array, no explanation

Format: [2, 0, 5, 1, ...]`

// Reranker reorders candidates by LLM-judged relevance. Any model or parse
// failure degrades to a no-op: the first topK candidates come back in their
// original order.
type Reranker struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewReranker(llmProvider llm.LLMProvider, log logger.ILogger) *Reranker {
	return &Reranker{
		llmProvider: llmProvider,
		logger:      log,
	}
}

func (r *Reranker) Rerank(ctx context.Context, query string, candidates []store.Passage, topK int) []store.Passage {
	if len(candidates) == 0 {
		return nil
	}

	analyze := candidates
	if len(analyze) > analyzeCap {
		analyze = analyze[:analyzeCap]
	}

	indices := r.rank(ctx, query, analyze)
	if len(indices) == 0 {
		// Fallback: original order
		if len(candidates) > topK {
			return candidates[:topK]
		}
		return candidates
	}

	reranked := make([]store.Passage, 0, topK)
	for _, idx := range indices {
		if idx < 0 || idx >= len(analyze) {
			continue // out-of-range indices are dropped silently
		}
		reranked = append(reranked, analyze[idx])
		if len(reranked) == topK {
			break
		}
	}

	r.logger.Info("rerank", "semantic rerank applied", map[string]interface{}{
		"original_count": len(candidates),
		"analyzed":       len(analyze),
		"returned":       len(reranked),
	})
	return reranked
}

func (r *Reranker) rank(ctx context.Context, query string, candidates []store.Passage) []int {
	summaries := make([]string, len(candidates))
	for i, c := range candidates {
		preview := c.Content
		if len(preview) > previewLen {
			preview = preview[:previewLen]
		}
		summaries[i] = fmt.Sprintf("[%d] %s p.%d: %s...", i, c.Title, c.PageNumber, preview)
	}

	userPrompt := fmt.Sprintf("Question: %s\n\nPassages to rank:\n%s\n\nReturn the indices ordered by relevance (most relevant first):",
		query, strings.Join(summaries, "\n\n"))

	response, err := r.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, llm.WithTemperature(0))
	if err != nil {
		r.logger.Error("rerank", "rerank call failed", map[string]interface{}{"error": err.Error()})
		return nil
	}

	indices, err := parseIndices(response)
	if err != nil {
		r.logger.Error("rerank", "rerank response unparseable", map[string]interface{}{
			"error":    err.Error(),
			"response": response,
		})
		return nil
	}
	return indices
}

// parseIndices strictly parses a JSON integer array, tolerating a
// surrounding markdown code fence.
func parseIndices(response string) ([]int, error) {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```") {
		parts := strings.Split(response, "```")
		if len(parts) < 2 {
			return nil, fmt.Errorf("unterminated code fence")
		}
		response = parts[1]
		response = strings.TrimPrefix(response, "json")
	}
	response = strings.TrimSpace(response)

	var indices []int
	if err := json.Unmarshal([]byte(response), &indices); err != nil {
		return nil, err
	}
	return indices, nil
}
