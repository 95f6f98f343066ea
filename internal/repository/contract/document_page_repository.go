package contract

import (
	"context"

	"ai-docchat-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredDocumentPage wraps DocumentPage with its similarity score
type ScoredDocumentPage struct {
	Page       *entity.DocumentPage
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

// DocumentPageRepository is the vector-store boundary of the retrieval
// pipeline. Both operations hydrate page images and document titles.
type DocumentPageRepository interface {
	// SearchSimilar runs ANN search over page embeddings using cosine
	// distance, ordered by ascending distance with ascending page number
	// as tie-break. Filters to docIds when non-empty.
	SearchSimilar(ctx context.Context, embedding []float32, docIds []uuid.UUID, limit int) ([]*ScoredDocumentPage, error)

	// FetchByPageOrder returns the first limit pages ordered by ascending
	// page number. Used when no valid query embedding exists.
	FetchByPageOrder(ctx context.Context, docIds []uuid.UUID, limit int) ([]*entity.DocumentPage, error)
}
