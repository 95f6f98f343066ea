package synth

import (
	"strings"
	"testing"
)

func TestFocusedExcerptNoHits(t *testing.T) {
	content := strings.Repeat("lorem ipsum dolor sit amet ", 100)

	got := focusedExcerpt("completely unrelated query", content)

	if len(got) > excerptMaxLen {
		t.Errorf("len = %d, want <= %d", len(got), excerptMaxLen)
	}
	if !strings.HasPrefix(content, got) {
		t.Error("with no hits the excerpt must be a leading slice of the content")
	}
}

func TestFocusedExcerptCentersOnQueryTerm(t *testing.T) {
	content := strings.Repeat("x", 2000) + " the warranty clause lives here " + strings.Repeat("y", 2000)

	got := focusedExcerpt("what does the warranty say", content)

	if !strings.Contains(got, "warranty") {
		t.Error("excerpt should contain the query term hit")
	}
	if !strings.HasPrefix(got, "…") {
		t.Error("excerpt cut from the middle should start with an ellipsis")
	}
	if len(got) > excerptMaxLen {
		t.Errorf("len = %d, want <= %d", len(got), excerptMaxLen)
	}
}

func TestFocusedExcerptFindsCurrencyPatterns(t *testing.T) {
	content := strings.Repeat("padding ", 300) + "total value $ 500,000.00 as agreed " + strings.Repeat("padding ", 300)

	got := focusedExcerpt("zzz", content)

	if !strings.Contains(got, "$ 500,000.00") {
		t.Error("excerpt should be anchored on the currency amount")
	}
}

func TestFocusedExcerptShortTokensIgnored(t *testing.T) {
	// Tokens under three characters never anchor a window.
	content := "it is an ox " + strings.Repeat("z", 3000)

	got := focusedExcerpt("is it an ox", content)

	if !strings.HasPrefix(content, got) {
		t.Error("expected a plain leading slice when all query tokens are short")
	}
}

func TestFocusedExcerptEmptyContent(t *testing.T) {
	if got := focusedExcerpt("q", "   "); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestLeadExcerpt(t *testing.T) {
	t.Run("no hit takes head", func(t *testing.T) {
		content := strings.Repeat("a", 2000)
		got := leadExcerpt("unfindable", content)
		if len(got) != leadMaxLen {
			t.Errorf("len = %d, want %d", len(got), leadMaxLen)
		}
	})

	t.Run("hit centers window", func(t *testing.T) {
		content := strings.Repeat("x", 1000) + " penalty applies " + strings.Repeat("y", 1000)
		got := leadExcerpt("penalty", content)
		if !strings.Contains(got, "penalty") {
			t.Error("window should contain the hit")
		}
		if !strings.HasPrefix(got, "…") || !strings.HasSuffix(got, "…") {
			t.Error("mid-content window should carry ellipses on both sides")
		}
	})
}

func TestQueryTokens(t *testing.T) {
	got := queryTokens("What is THE contract value?")

	want := map[string]bool{"what": true, "the": true, "contract": true, "value": true}
	for _, tok := range got {
		if !want[tok] {
			t.Errorf("unexpected token %q", tok)
		}
		if len(tok) < 3 {
			t.Errorf("token %q shorter than 3 chars", tok)
		}
	}
}
