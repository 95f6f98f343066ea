package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/rag/ground"
	"ai-docchat-be/pkg/store"
	"ai-docchat-be/pkg/websearch"
)

// NotFoundAnswer is the user-visible answer when nothing usable was
// retrieved. It is a normal response, not an error.
const NotFoundAnswer = "I could not find relevant passages to answer based on the provided documents."

// maxModelImages caps how many images one generation call may carry.
const maxModelImages = 5

const synthesisSystemPrompt = "You are an assistant that answers ONLY based on the provided excerpts and images. " +
	"Answer directly and concisely. " +
	"IMPORTANT: if images were provided alongside the excerpts, you MUST analyze them to answer the question. " +
	"Extract information EXACTLY as it appears (numbers, amounts, names, logos, charts). " +
	"Use bracket citations [n] matching the listed sources. " +
	"If the information is not in the excerpts OR the images, say it was not found."

const decisionSystemPrompt = "You are an assistant that answers ONLY based on the provided excerpts. " +
	"Answer directly and concisely. " +
	"USE ONLY the provided sources. Include [n] citations whenever possible. " +
	"Return ONLY a minimal JSON object, no markdown, in exactly one of these formats: " +
	`{"code":1,"text":"ANSWER HERE"} or {"code":2} or {"code":3}. ` +
	"code=1 means you found the answer in the sources. " +
	"code=2 means the answer is not in these excerpts and more pages are needed. " +
	"code=3 means the answer is not in the documents and a web search may be needed."

// visualKeywords flags queries asking about visual content; only then are
// page images attached to the generation call.
var visualKeywords = []string{
	"logo", "image", "figure", "chart", "graph", "photo", "picture",
	"drawing", "illustration", "diagram", "visual", "appearance",
}

// Synthesizer produces the final answer text from used passages and web
// items. It also implements the batch sufficiency check consumed by the
// grounding loop.
type Synthesizer struct {
	llmProvider llm.LLMProvider
	images      ImageLoader
	logger      logger.ILogger
}

var _ ground.Decider = &Synthesizer{}

func NewSynthesizer(llmProvider llm.LLMProvider, images ImageLoader, log logger.ILogger) *Synthesizer {
	return &Synthesizer{
		llmProvider: llmProvider,
		images:      images,
		logger:      log,
	}
}

// Synthesize renders a grounded answer with inline [n] citations, where n is
// the 1-based position of the passage in used. Generation failures degrade to
// a deterministic draft; the caller always gets text back.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, used []store.Passage, webItems []websearch.Result) string {
	if len(used) == 0 && len(webItems) == 0 {
		return NotFoundAnswer
	}

	lines := make([]string, 0, len(used))
	for idx, p := range used {
		lines = append(lines, fmt.Sprintf("[%d] %s (p.%d):\n%s", idx+1, p.Title, p.PageNumber, focusedExcerpt(query, p.Content)))
	}
	sources := strings.Join(lines, "\n\n")

	userPrompt := fmt.Sprintf(
		"Question: %s\n\nText sources (use [n] for citations):\n%s\n\nWrite the final answer objectively, including information from the images if available.",
		query, sources,
	)

	var attached []string
	var imageRefs []store.ImageRef
	if isVisualQuery(query) {
		for _, p := range used {
			imageRefs = append(imageRefs, p.Images...)
		}
		attached = s.loadImages(imageRefs)
	}

	answer, err := s.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: synthesisSystemPrompt},
		{Role: "user", Content: userPrompt, Images: attached},
	}, llm.WithTemperature(0.0))
	if err != nil {
		s.logger.Warn("synth", "generation failed, using draft fallback", map[string]interface{}{"error": err.Error()})
		return draftAnswer(query, used, webItems)
	}

	if len(imageRefs) > 0 {
		var sb strings.Builder
		sb.WriteString(answer)
		sb.WriteString("\n\n**Relevant images:**\n\n")
		for _, img := range imageRefs {
			sb.WriteString(fmt.Sprintf("![Source image](%s)\n\n", img.FileURL))
		}
		answer = sb.String()
	}
	return answer
}

// DecideBatch asks the model whether a batch of passages answers the query,
// expecting the strict {"code":n} control object. Any transport or parse
// failure collapses to "insufficient" so the loop simply moves on.
func (s *Synthesizer) DecideBatch(ctx context.Context, query string, batch []store.Passage) ground.Decision {
	lines := make([]string, 0, len(batch))
	for idx, p := range batch {
		lines = append(lines, fmt.Sprintf("[%d] %s (p.%d):\n%s", idx+1, p.Title, p.PageNumber, leadExcerpt(query, p.Content)))
	}

	var sb strings.Builder
	sb.WriteString("Question: " + query + "\n\n")
	if len(batch) > 0 {
		sb.WriteString("Sources (use [n] for citations):\n" + strings.Join(lines, "\n\n") + "\n\n")
	}
	sb.WriteString("Respond ONLY with a single-line JSON object, no comments, no explanations.")

	resp, err := s.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: decisionSystemPrompt},
		{Role: "user", Content: sb.String()},
	}, llm.WithTemperature(0.0))
	if err != nil {
		s.logger.Warn("synth", "batch decision call failed", map[string]interface{}{"error": err.Error()})
		return ground.Decision{Code: ground.CodeInsufficient}
	}

	var parsed struct {
		Code int    `json:"code"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp)), &parsed); err != nil {
		s.logger.Warn("synth", "batch decision parse failed", map[string]interface{}{"raw": resp})
		return ground.Decision{Code: ground.CodeInsufficient}
	}

	if parsed.Code != ground.CodeFound && parsed.Code != ground.CodeNotInCorpus {
		parsed.Code = ground.CodeInsufficient
	}
	if parsed.Code != ground.CodeFound {
		parsed.Text = ""
	}
	return ground.Decision{Code: parsed.Code, Text: parsed.Text}
}

func (s *Synthesizer) loadImages(refs []store.ImageRef) []string {
	var payloads []string
	for _, img := range refs {
		if len(payloads) == maxModelImages {
			break
		}
		data, err := s.images.Load(img.FileURL)
		if err != nil {
			s.logger.Warn("synth", "failed to load image, skipping", map[string]interface{}{
				"file_url": img.FileURL,
				"error":    err.Error(),
			})
			continue
		}
		payloads = append(payloads, data)
	}
	return payloads
}

func isVisualQuery(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range visualKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// draftAnswer is the non-AI fallback: truncated snippets from each used
// passage, plus bulleted web items when present.
func draftAnswer(query string, used []store.Passage, webItems []websearch.Result) string {
	body := make([]string, 0, len(used))
	for _, p := range used {
		content := p.Content
		if len(content) > 300 {
			content = content[:300]
		}
		body = append(body, fmt.Sprintf("(Doc: %q, p.%d) %s", p.Title, p.PageNumber, strings.TrimSpace(content)))
	}
	answer := fmt.Sprintf("Answer (draft) to: %s\n\n%s", query, strings.Join(body, "\n\n"))
	if len(webItems) > 0 {
		webLines := make([]string, 0, len(webItems))
		for _, w := range webItems {
			webLines = append(webLines, fmt.Sprintf("- [%s](%s) — %s", w.Title, w.URL, w.Snippet))
		}
		answer += "\n\nFrom the web:\n" + strings.Join(webLines, "\n")
	}
	return answer
}
