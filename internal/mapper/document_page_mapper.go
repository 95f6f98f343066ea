package mapper

import (
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/model"
)

type DocumentPageMapper struct{}

func NewDocumentPageMapper() *DocumentPageMapper {
	return &DocumentPageMapper{}
}

func (m *DocumentPageMapper) ToEntity(p *model.DocumentPage, title string) *entity.DocumentPage {
	if p == nil {
		return nil
	}

	return &entity.DocumentPage{
		Id:         p.Id,
		DocumentId: p.DocumentId,
		PageNumber: p.PageNumber,
		Content:    p.Content,
		Title:      title,
		Embedding:  p.Embedding.Slice(),
		CreatedAt:  p.CreatedAt,
	}
}

func (m *DocumentPageMapper) ImageToEntity(img *model.DocumentPageImage) *entity.DocumentPageImage {
	if img == nil {
		return nil
	}

	return &entity.DocumentPageImage{
		Id:             img.Id,
		DocumentPageId: img.DocumentPageId,
		FileURL:        img.FileURL,
		Position:       img.Position,
		Dimensions:     string(img.Dimensions),
		CreatedAt:      img.CreatedAt,
	}
}

func (m *DocumentPageMapper) ImagesToEntities(imgs []*model.DocumentPageImage) []*entity.DocumentPageImage {
	entities := make([]*entity.DocumentPageImage, len(imgs))
	for i, img := range imgs {
		entities[i] = m.ImageToEntity(img)
	}
	return entities
}
