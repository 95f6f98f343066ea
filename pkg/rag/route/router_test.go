package route

import (
	"testing"

	"github.com/google/uuid"
)

func TestHeuristicDecide(t *testing.T) {
	docId := uuid.New()

	tests := []struct {
		name       string
		docIds     []uuid.UUID
		forceWeb   bool
		wantDocs   bool
		wantWeb    bool
		wantReason string
	}{
		{
			name:       "doc ids route to docs",
			docIds:     []uuid.UUID{docId},
			wantDocs:   true,
			wantWeb:    false,
			wantReason: "heuristic",
		},
		{
			name:       "no doc ids route to web",
			docIds:     nil,
			wantDocs:   false,
			wantWeb:    true,
			wantReason: "heuristic",
		},
		{
			name:       "force web overrides doc ids",
			docIds:     []uuid.UUID{docId},
			forceWeb:   true,
			wantDocs:   false,
			wantWeb:    true,
			wantReason: "force_web",
		},
		{
			name:       "force web without doc ids",
			forceWeb:   true,
			wantDocs:   false,
			wantWeb:    true,
			wantReason: "force_web",
		},
	}

	h := NewHeuristic()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.Decide("any question", tt.docIds, tt.forceWeb)
			if got.UseDocs != tt.wantDocs {
				t.Errorf("UseDocs = %v, want %v", got.UseDocs, tt.wantDocs)
			}
			if got.UseWeb != tt.wantWeb {
				t.Errorf("UseWeb = %v, want %v", got.UseWeb, tt.wantWeb)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}
