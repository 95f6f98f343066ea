package search

import (
	"context"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/contract"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/store"

	"github.com/google/uuid"
)

// Retriever fetches candidate passages for a query. The ANN path embeds the
// query and runs vector search; anything going wrong there (embedding error,
// wrong dimensionality, search error) degrades to a plain page-order fetch.
// Retrieve never fails.
type Retriever struct {
	pages             contract.DocumentPageRepository
	embeddingProvider embedding.EmbeddingProvider
	expectedDim       int
	logger            logger.ILogger
}

func NewRetriever(
	pages contract.DocumentPageRepository,
	embeddingProvider embedding.EmbeddingProvider,
	expectedDim int,
	log logger.ILogger,
) *Retriever {
	return &Retriever{
		pages:             pages,
		embeddingProvider: embeddingProvider,
		expectedDim:       expectedDim,
		logger:            log,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, query string, docIds []uuid.UUID, limit int) []store.Passage {
	res, err := r.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		r.logger.Warn("search", "query embedding failed, using basic fetch", map[string]interface{}{"error": err.Error()})
		return r.fetchBasic(ctx, docIds, limit)
	}

	vector := res.Embedding.Values
	if len(vector) != r.expectedDim {
		r.logger.Warn("search", "unexpected embedding dimensionality, using basic fetch", map[string]interface{}{
			"got":  len(vector),
			"want": r.expectedDim,
		})
		return r.fetchBasic(ctx, docIds, limit)
	}

	scored, err := r.pages.SearchSimilar(ctx, vector, docIds, limit)
	if err != nil {
		r.logger.Warn("search", "ann search failed, using basic fetch", map[string]interface{}{"error": err.Error()})
		return r.fetchBasic(ctx, docIds, limit)
	}

	passages := make([]store.Passage, 0, len(scored))
	for _, s := range scored {
		passages = append(passages, toPassage(s.Page, clamp01(s.Similarity)))
	}

	r.logger.Info("search", "ann search results", map[string]interface{}{"count": len(passages)})
	return passages
}

func (r *Retriever) fetchBasic(ctx context.Context, docIds []uuid.UUID, limit int) []store.Passage {
	pages, err := r.pages.FetchByPageOrder(ctx, docIds, limit)
	if err != nil {
		r.logger.Error("search", "basic fetch failed", map[string]interface{}{"error": err.Error()})
		return nil
	}

	passages := make([]store.Passage, 0, len(pages))
	for _, p := range pages {
		passages = append(passages, toPassage(p, 0))
	}

	r.logger.Info("search", "basic fetch results", map[string]interface{}{"count": len(passages)})
	return passages
}

func toPassage(p *entity.DocumentPage, similarity float64) store.Passage {
	images := make([]store.ImageRef, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, store.ImageRef{
			ID:         img.Id.String(),
			FileURL:    img.FileURL,
			Position:   img.Position,
			Dimensions: img.Dimensions,
		})
	}

	return store.Passage{
		ID:         p.Id.String(),
		DocumentID: p.DocumentId.String(),
		PageNumber: p.PageNumber,
		Title:      p.Title,
		Content:    p.Content,
		Similarity: similarity,
		Images:     images,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
