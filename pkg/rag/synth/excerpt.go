package synth

import (
	"regexp"
	"sort"
	"strings"
)

// numericPattern spots currency amounts and large-number phrasings so the
// excerpt windows stay centered on figures the user is likely asking about,
// e.g. "$ 500,000.00", "$2 million", "500 thousand", "1.5 billion".
var numericPattern = regexp.MustCompile(
	`(?i)(\$\s?\d[\d.,]*\s*(thousand|million|billion|k|mm|bn)?)|(\b\d+[.,]\d{3}[.,]\d{2}\b)|(\b\d+(?:[.,]\d+)?\s*(thousand|million|billion|k|mm|bn)\b)`,
)

var wordPattern = regexp.MustCompile(`\w+`)

const (
	excerptWindow = 500
	excerptMaxLen = 1800

	leadWindow = 400
	leadMaxLen = 1400

	maxExcerptHits = 6
)

func queryTokens(query string) []string {
	var tokens []string
	for _, tok := range wordPattern.FindAllString(strings.ToLower(query), -1) {
		if len(tok) < 3 {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// focusedExcerpt builds a compact excerpt of content centered on numeric
// patterns and query-term hits. Multiple hit windows are joined with ellipsis
// markers; with no hits at all it degrades to a plain leading slice.
func focusedExcerpt(query, content string) string {
	t := strings.TrimSpace(content)
	if t == "" {
		return ""
	}
	tLow := strings.ToLower(t)

	hitSet := make(map[int]struct{})
	for _, m := range numericPattern.FindAllStringIndex(t, -1) {
		hitSet[m[0]] = struct{}{}
	}
	for _, token := range queryTokens(query) {
		if i := strings.Index(tLow, token); i != -1 {
			hitSet[i] = struct{}{}
		}
	}
	if len(hitSet) == 0 {
		return truncate(t, excerptMaxLen)
	}

	hits := make([]int, 0, len(hitSet))
	for pos := range hitSet {
		hits = append(hits, pos)
	}
	sort.Ints(hits)
	if len(hits) > maxExcerptHits {
		hits = hits[:maxExcerptHits]
	}

	var chunks []string
	total := 0
	for _, pos := range hits {
		start := pos - excerptWindow
		if start < 0 {
			start = 0
		}
		end := pos + excerptWindow
		if end > len(t) {
			end = len(t)
		}
		chunk := t[start:end]
		if start > 0 {
			chunk = "…" + chunk
		}
		if end < len(t) {
			chunk = chunk + "…"
		}
		chunks = append(chunks, chunk)
		total += len(chunk)
		if total >= excerptMaxLen {
			break
		}
	}
	return truncate(strings.Join(chunks, " \n…\n "), excerptMaxLen)
}

// leadExcerpt is the cheaper variant used while probing candidate batches: a
// single slice around the first query-term hit, or the head of the content.
func leadExcerpt(query, content string) string {
	t := strings.TrimSpace(content)
	if t == "" {
		return ""
	}
	tLow := strings.ToLower(t)

	pos := -1
	for _, token := range queryTokens(query) {
		if i := strings.Index(tLow, token); i != -1 {
			pos = i
			break
		}
	}
	if pos == -1 {
		return truncate(t, leadMaxLen)
	}

	start := pos - leadWindow
	if start < 0 {
		start = 0
	}
	end := pos + leadWindow
	if end > len(t) {
		end = len(t)
	}
	chunk := t[start:end]
	if start > 0 {
		chunk = "…" + chunk
	}
	if end < len(t) {
		chunk = chunk + "…"
	}
	return truncate(chunk, leadMaxLen)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
