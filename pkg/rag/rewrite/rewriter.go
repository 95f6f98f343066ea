package rewrite

import (
	"context"
	"fmt"
	"strings"

	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/llm"
)

// historyWindow caps how much conversation the rewrite prompt sees.
const historyWindow = 5

const rewritePrompt = `Given the conversation below, rewrite the user's final question so it is fully self-contained: resolve pronouns and implicit references using the earlier turns. Return ONLY the rewritten question, nothing else.

Conversation:
%s

Rewritten question:`

// Rewriter collapses a multi-turn conversation into one standalone query.
type Rewriter struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewRewriter(llmProvider llm.LLMProvider, log logger.ILogger) *Rewriter {
	return &Rewriter{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Rewrite returns a standalone query for the conversation. It never fails:
// any rewrite problem falls back to the last raw user message. A single-turn
// history is returned verbatim without calling the model.
func (r *Rewriter) Rewrite(ctx context.Context, messages []llm.Message) string {
	if len(messages) == 0 {
		return ""
	}

	history := messages
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	lastUser := lastUserMessage(history)

	if len(history) <= 1 {
		return lastUser
	}

	var transcript strings.Builder
	for _, m := range history {
		transcript.WriteString(m.Role)
		transcript.WriteString(": ")
		transcript.WriteString(m.Content)
		transcript.WriteString("\n")
	}

	prompt := fmt.Sprintf(rewritePrompt, transcript.String())

	rewritten, err := r.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0))
	if err != nil {
		r.logger.Warn("rewrite", "query rewrite failed", map[string]interface{}{"error": err.Error()})
		return lastUser
	}

	// Models occasionally wrap the rewrite in quotes.
	rewritten = strings.Trim(strings.TrimSpace(rewritten), `"`)
	if rewritten == "" {
		return lastUser
	}

	r.logger.Info("rewrite", "query rewritten", map[string]interface{}{
		"original":  lastUser,
		"rewritten": rewritten,
	})
	return rewritten
}

func lastUserMessage(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}
