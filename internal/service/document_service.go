package service

import (
	"context"

	"github.com/google/uuid"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/repository/contract"
)

type IDocumentService interface {
	List(ctx context.Context, limit, offset int) (*dto.ListDocumentsResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.DocumentItem, error)
}

type documentService struct {
	documents contract.DocumentRepository
}

func NewDocumentService(documents contract.DocumentRepository) IDocumentService {
	return &documentService{documents: documents}
}

func (s *documentService) List(ctx context.Context, limit, offset int) (*dto.ListDocumentsResponse, error) {
	docs, err := s.documents.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DocumentItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, dto.DocumentItem{
			Id:        d.Id,
			Title:     d.Title,
			Filename:  d.Filename,
			PageCount: d.PageCount,
			CreatedAt: d.CreatedAt,
		})
	}
	return &dto.ListDocumentsResponse{Documents: items}, nil
}

func (s *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.DocumentItem, error) {
	d, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return &dto.DocumentItem{
		Id:        d.Id,
		Title:     d.Title,
		Filename:  d.Filename,
		PageCount: d.PageCount,
		CreatedAt: d.CreatedAt,
	}, nil
}
