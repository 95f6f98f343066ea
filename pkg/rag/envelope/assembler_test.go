package envelope

import (
	"strings"
	"testing"

	"ai-docchat-be/pkg/store"
	"ai-docchat-be/pkg/websearch"
)

func TestAssembleDocSources(t *testing.T) {
	passages := []store.Passage{
		{
			DocumentID: "d1",
			Title:      "Contract",
			PageNumber: 3,
			Similarity: 0.91,
			Content:    strings.Repeat("c", 300),
			Images:     []store.ImageRef{{ID: "i1", FileURL: "img.png"}},
		},
		{DocumentID: "d2", Title: "Annex", PageNumber: 1, Similarity: 0.5, Content: "short"},
	}
	web := []websearch.Result{{Title: "Site", URL: "https://example.com", Snippet: "s"}}

	env := Assemble(passages, web)

	if len(env.Citations) != 3 {
		t.Fatalf("citations = %d, want 3", len(env.Citations))
	}
	// Doc citations come first, then web.
	if env.Citations[0].Kind != KindDoc || env.Citations[0].DocID != "d1" || env.Citations[0].Page != 3 {
		t.Errorf("unexpected first citation: %+v", env.Citations[0])
	}
	if env.Citations[2].Kind != KindWeb || env.Citations[2].URL != "https://example.com" {
		t.Errorf("unexpected web citation: %+v", env.Citations[2])
	}

	if env.Sources.Type != KindDoc {
		t.Errorf("Sources.Type = %q, want doc when passages were used", env.Sources.Type)
	}
	items, ok := env.Sources.Items.([]SourceItem)
	if !ok {
		t.Fatalf("Items type = %T, want []SourceItem", env.Sources.Items)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if len(items[0].Snippet) != 200 {
		t.Errorf("snippet len = %d, want capped at 200", len(items[0].Snippet))
	}
	if items[1].Snippet != "short" {
		t.Errorf("snippet = %q, want untruncated short content", items[1].Snippet)
	}
	if items[1].Images == nil {
		t.Error("images should marshal as an empty list, not null")
	}
}

func TestAssembleWebOnly(t *testing.T) {
	web := []websearch.Result{
		{Title: "A", URL: "https://a", Snippet: "sa"},
		{Title: "B", URL: "https://b", Snippet: "sb"},
	}

	env := Assemble(nil, web)

	if env.Sources.Type != KindWeb {
		t.Errorf("Sources.Type = %q, want web", env.Sources.Type)
	}
	items, ok := env.Sources.Items.([]websearch.Result)
	if !ok {
		t.Fatalf("Items type = %T, want []websearch.Result", env.Sources.Items)
	}
	if len(items) != 2 {
		t.Errorf("items = %d, want the raw web results", len(items))
	}
	if len(env.Citations) != 2 {
		t.Errorf("citations = %d, want 2", len(env.Citations))
	}
}

func TestAssembleEmpty(t *testing.T) {
	env := Assemble(nil, nil)

	if env.Sources.Type != KindWeb {
		t.Errorf("Sources.Type = %q, want web with no passages", env.Sources.Type)
	}
	if env.Citations == nil || len(env.Citations) != 0 {
		t.Errorf("citations should be an empty list, got %v", env.Citations)
	}
	items, ok := env.Sources.Items.([]websearch.Result)
	if !ok || len(items) != 0 {
		t.Errorf("Items = %v, want empty web result list", env.Sources.Items)
	}
}
