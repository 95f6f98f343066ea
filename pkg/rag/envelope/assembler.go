package envelope

import (
	"ai-docchat-be/pkg/store"
	"ai-docchat-be/pkg/websearch"
)

// Citation kinds.
const (
	KindDoc = "doc"
	KindWeb = "web"
)

// snippetLimit caps the content preview carried per doc source item.
const snippetLimit = 200

// Citation points at one piece of evidence behind the answer.
type Citation struct {
	Kind  string `json:"kind"`
	DocID string `json:"doc_id,omitempty"`
	Title string `json:"title"`
	Page  int    `json:"page,omitempty"`
	URL   string `json:"url,omitempty"`
}

// SourceItem is one doc entry in the sources envelope.
type SourceItem struct {
	DocID      string           `json:"doc_id"`
	Title      string           `json:"title"`
	Page       int              `json:"page"`
	Similarity float64          `json:"similarity"`
	Snippet    string           `json:"snippet"`
	Images     []store.ImageRef `json:"images"`
}

// Sources groups the evidence by origin. Type is "doc" whenever at least one
// doc passage was used, otherwise "web"; Items carries SourceItem values for
// docs or the raw web results otherwise.
type Sources struct {
	Type  string      `json:"type"`
	Items interface{} `json:"items"`
}

// Envelope is the structural metadata emitted once, after all answer tokens,
// as the terminal element of the response stream.
type Envelope struct {
	Citations []Citation `json:"citations"`
	Sources   Sources    `json:"sources"`
}

// Assemble builds the final envelope from the used doc passages and web
// items. Doc citations come first, in pipeline order, then web citations.
func Assemble(passages []store.Passage, webItems []websearch.Result) Envelope {
	citations := make([]Citation, 0, len(passages)+len(webItems))
	for _, p := range passages {
		citations = append(citations, Citation{
			Kind:  KindDoc,
			DocID: p.DocumentID,
			Title: p.Title,
			Page:  p.PageNumber,
		})
	}
	for _, w := range webItems {
		citations = append(citations, Citation{
			Kind:  KindWeb,
			URL:   w.URL,
			Title: w.Title,
		})
	}

	sources := Sources{Type: KindWeb}
	if len(passages) > 0 {
		items := make([]SourceItem, 0, len(passages))
		for _, p := range passages {
			snippet := p.Content
			if len(snippet) > snippetLimit {
				snippet = snippet[:snippetLimit]
			}
			images := p.Images
			if images == nil {
				images = []store.ImageRef{}
			}
			items = append(items, SourceItem{
				DocID:      p.DocumentID,
				Title:      p.Title,
				Page:       p.PageNumber,
				Similarity: p.Similarity,
				Snippet:    snippet,
				Images:     images,
			})
		}
		sources = Sources{Type: KindDoc, Items: items}
	} else {
		if webItems == nil {
			webItems = []websearch.Result{}
		}
		sources.Items = webItems
	}

	return Envelope{Citations: citations, Sources: sources}
}
