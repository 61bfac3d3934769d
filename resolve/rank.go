package resolve

import "sort"

// Candidate is one row produced by the corpus for a search request. The
// scores are always populated together; Row is an opaque payload carried
// through to the caller unexamined.
type Candidate struct {
	ID          string
	DisplayName string
	Similarity  float64
	Rank        float64

	// State and Country qualify same-named cities at display time. They
	// never participate in ranking.
	State   string
	Country string

	Row any
}

// Rank filters out candidates whose similarity is below floor and sorts the
// survivors by similarity descending, then rank descending, then entity id
// ascending. The id tie-break exists so the ordering is deterministic even
// when the corpus returns rows in storage order; callers must not rely on
// anything beyond this documented order.
//
// Ranking privileges typo tolerance (similarity) over topical relevance
// (rank): candidate sets are small and users mistype far more often than
// they write multi-word queries.
func Rank(candidates []Candidate, floor float64) []Candidate {
	ranked := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Similarity < floor {
			continue
		}
		ranked = append(ranked, c)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if a.Rank != b.Rank {
			return a.Rank > b.Rank
		}
		return a.ID < b.ID
	})
	return ranked
}
