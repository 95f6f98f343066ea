package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-docchat-be/internal/entity"
)

type DocumentRepository interface {
	// List returns non-deleted documents, newest first.
	List(ctx context.Context, limit, offset int) ([]*entity.Document, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
}
