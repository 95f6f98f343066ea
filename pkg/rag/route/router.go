package route

import (
	"github.com/google/uuid"
)

// Decision is the routing outcome for one query.
type Decision struct {
	UseDocs bool
	UseWeb  bool
	DocIds  []uuid.UUID
	Reason  string
}

// Policy decides which retrieval sources a query consults. The heuristic
// implementation below can be swapped for a classifier without touching
// callers.
type Policy interface {
	Decide(query string, docIds []uuid.UUID, forceWeb bool) Decision
}

// Heuristic routes to documents whenever document ids were supplied, to the
// web otherwise. A force-web flag overrides everything.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (h *Heuristic) Decide(query string, docIds []uuid.UUID, forceWeb bool) Decision {
	if forceWeb {
		return Decision{
			UseDocs: false,
			UseWeb:  true,
			DocIds:  docIds,
			Reason:  "force_web",
		}
	}

	useDocs := len(docIds) > 0
	return Decision{
		UseDocs: useDocs,
		UseWeb:  !useDocs,
		DocIds:  docIds,
		Reason:  "heuristic",
	}
}
