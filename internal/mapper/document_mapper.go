package mapper

import (
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	e := &entity.Document{
		Id:        d.Id,
		Title:     d.Title,
		Filename:  d.Filename,
		PageCount: d.PageCount,
		CreatedAt: d.CreatedAt,
	}
	if !d.UpdatedAt.IsZero() {
		updatedAt := d.UpdatedAt
		e.UpdatedAt = &updatedAt
	}
	if d.DeletedAt.Valid {
		deletedAt := d.DeletedAt.Time
		e.DeletedAt = &deletedAt
		e.IsDeleted = true
	}
	return e
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
