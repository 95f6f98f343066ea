package implementation

import (
	"context"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/mapper"
	"ai-docchat-be/internal/model"
	"ai-docchat-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentPageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentPageMapper
}

func NewDocumentPageRepository(db *gorm.DB) contract.DocumentPageRepository {
	return &DocumentPageRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentPageMapper(),
	}
}

func (r *DocumentPageRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, docIds []uuid.UUID, limit int) ([]*contract.ScoredDocumentPage, error) {
	if limit <= 0 {
		limit = 12
	}

	// Raw query to get the cosine distance along with the page row.
	// pgvector cosine distance is 1 - cosine_similarity, so
	// similarity = 1 - (embedding <=> query_vector).
	type result struct {
		model.DocumentPage
		DocTitle string
		Distance float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("document_pages").
		Select("document_pages.*, documents.title AS doc_title, (document_pages.embedding <=> ?) AS distance", queryVector).
		Joins("JOIN documents ON documents.id = document_pages.document_id").
		Where("document_pages.embedding IS NOT NULL").
		Where("document_pages.deleted_at IS NULL").
		Where("documents.deleted_at IS NULL")

	if len(docIds) > 0 {
		query = query.Where("document_pages.document_id IN ?", docIds)
	}

	err := query.
		Order("distance ASC, document_pages.page_number ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	pages := make([]*entity.DocumentPage, len(results))
	scored := make([]*contract.ScoredDocumentPage, len(results))
	for i, res := range results {
		pages[i] = r.mapper.ToEntity(&res.DocumentPage, res.DocTitle)
		// Clamp floating point drift from the distance conversion.
		similarity := 1.0 - res.Distance
		if similarity < 0 {
			similarity = 0
		}
		if similarity > 1 {
			similarity = 1
		}
		scored[i] = &contract.ScoredDocumentPage{
			Page:       pages[i],
			Similarity: similarity,
		}
	}

	if err := r.hydrateImages(ctx, pages); err != nil {
		return nil, err
	}
	return scored, nil
}

func (r *DocumentPageRepositoryImpl) FetchByPageOrder(ctx context.Context, docIds []uuid.UUID, limit int) ([]*entity.DocumentPage, error) {
	if limit <= 0 {
		limit = 12
	}

	type result struct {
		model.DocumentPage
		DocTitle string
	}
	var results []result

	query := r.db.WithContext(ctx).
		Table("document_pages").
		Select("document_pages.*, documents.title AS doc_title").
		Joins("JOIN documents ON documents.id = document_pages.document_id").
		Where("document_pages.deleted_at IS NULL").
		Where("documents.deleted_at IS NULL")

	if len(docIds) > 0 {
		query = query.Where("document_pages.document_id IN ?", docIds)
	}

	err := query.
		Order("document_pages.page_number ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	pages := make([]*entity.DocumentPage, len(results))
	for i, res := range results {
		pages[i] = r.mapper.ToEntity(&res.DocumentPage, res.DocTitle)
	}

	if err := r.hydrateImages(ctx, pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *DocumentPageRepositoryImpl) hydrateImages(ctx context.Context, pages []*entity.DocumentPage) error {
	if len(pages) == 0 {
		return nil
	}

	pageIds := make([]uuid.UUID, len(pages))
	for i, p := range pages {
		pageIds[i] = p.Id
	}

	var images []*model.DocumentPageImage
	err := r.db.WithContext(ctx).
		Where("document_page_id IN ?", pageIds).
		Order("position ASC, created_at ASC").
		Find(&images).Error
	if err != nil {
		return err
	}

	byPage := make(map[uuid.UUID][]*entity.DocumentPageImage)
	for _, img := range images {
		byPage[img.DocumentPageId] = append(byPage[img.DocumentPageId], r.mapper.ImageToEntity(img))
	}
	for _, p := range pages {
		p.Images = byPage[p.Id]
	}
	return nil
}
