package search

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/contract"
	"ai-docchat-be/pkg/embedding"
)

const testDim = 4

type fakeEmbedding struct {
	values []float32
	err    error
}

func (f *fakeEmbedding) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: f.values},
	}, nil
}

type fakePageRepo struct {
	scored      []*contract.ScoredDocumentPage
	scoredErr   error
	basic       []*entity.DocumentPage
	basicErr    error
	basicCalled bool
}

func (f *fakePageRepo) SearchSimilar(ctx context.Context, emb []float32, docIds []uuid.UUID, limit int) ([]*contract.ScoredDocumentPage, error) {
	return f.scored, f.scoredErr
}

func (f *fakePageRepo) FetchByPageOrder(ctx context.Context, docIds []uuid.UUID, limit int) ([]*entity.DocumentPage, error) {
	f.basicCalled = true
	if f.basicErr != nil {
		return nil, f.basicErr
	}
	if limit < len(f.basic) {
		return f.basic[:limit], nil
	}
	return f.basic, nil
}

func pageFixture(page int) *entity.DocumentPage {
	return &entity.DocumentPage{
		Id:         uuid.New(),
		DocumentId: uuid.New(),
		PageNumber: page,
		Title:      "Doc",
		Content:    "content",
	}
}

func TestRetrieveAnnPath(t *testing.T) {
	repo := &fakePageRepo{
		scored: []*contract.ScoredDocumentPage{
			{Page: pageFixture(3), Similarity: 0.92},
			{Page: pageFixture(7), Similarity: 0.41},
		},
	}
	r := NewRetriever(repo, &fakeEmbedding{values: make([]float32, testDim)}, testDim, logger.NewNopLogger())

	got := r.Retrieve(context.Background(), "q", nil, 10)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Similarity != 0.92 {
		t.Errorf("Similarity = %f, want 0.92", got[0].Similarity)
	}
	if repo.basicCalled {
		t.Error("basic fetch should not run when ANN search succeeds")
	}
}

func TestRetrieveFallsBackOnEmbeddingError(t *testing.T) {
	repo := &fakePageRepo{
		basic: []*entity.DocumentPage{pageFixture(1), pageFixture(2), pageFixture(3)},
	}
	r := NewRetriever(repo, &fakeEmbedding{err: errors.New("embedding down")}, testDim, logger.NewNopLogger())

	got := r.Retrieve(context.Background(), "q", nil, 2)

	if !repo.basicCalled {
		t.Fatal("expected fallback to basic fetch")
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want limit 2", len(got))
	}
	for i, p := range got {
		if p.PageNumber != i+1 {
			t.Errorf("page[%d] = %d, want ascending page order", i, p.PageNumber)
		}
		if p.Similarity != 0 {
			t.Errorf("fallback similarity = %f, want 0", p.Similarity)
		}
	}
}

func TestRetrieveFallsBackOnDimensionMismatch(t *testing.T) {
	repo := &fakePageRepo{basic: []*entity.DocumentPage{pageFixture(1)}}
	r := NewRetriever(repo, &fakeEmbedding{values: make([]float32, testDim+1)}, testDim, logger.NewNopLogger())

	got := r.Retrieve(context.Background(), "q", nil, 5)

	if !repo.basicCalled {
		t.Fatal("expected fallback to basic fetch on wrong dimensionality")
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
}

func TestRetrieveFallsBackOnSearchError(t *testing.T) {
	repo := &fakePageRepo{
		scoredErr: errors.New("db down"),
		basic:     []*entity.DocumentPage{pageFixture(1)},
	}
	r := NewRetriever(repo, &fakeEmbedding{values: make([]float32, testDim)}, testDim, logger.NewNopLogger())

	got := r.Retrieve(context.Background(), "q", nil, 5)

	if !repo.basicCalled {
		t.Fatal("expected fallback to basic fetch on search error")
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
}

func TestRetrieveNeverFails(t *testing.T) {
	// Even when every path errors, Retrieve returns an empty slice.
	repo := &fakePageRepo{
		scoredErr: errors.New("db down"),
		basicErr:  errors.New("db really down"),
	}
	r := NewRetriever(repo, &fakeEmbedding{values: make([]float32, testDim)}, testDim, logger.NewNopLogger())

	if got := r.Retrieve(context.Background(), "q", nil, 5); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
