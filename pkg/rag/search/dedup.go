package search

import (
	"sort"

	"ai-docchat-be/pkg/store"
)

type pageKey struct {
	documentID string
	pageNumber int
}

// Deduplicate removes passages sharing a (document, page) pair, keeping the
// first occurrence,
// then orders by similarity descending with ascending page number as
// tie-break. Pure function, the input slice is not modified.
func Deduplicate(candidates []store.Passage) []store.Passage {
	seen := make(map[pageKey]bool, len(candidates))
	deduped := make([]store.Passage, 0, len(candidates))

	for _, c := range candidates {
		key := pageKey{documentID: c.DocumentID, pageNumber: c.PageNumber}
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, c)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		if deduped[i].Similarity != deduped[j].Similarity {
			return deduped[i].Similarity > deduped[j].Similarity
		}
		return deduped[i].PageNumber < deduped[j].PageNumber
	})

	return deduped
}
