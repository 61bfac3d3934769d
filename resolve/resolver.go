package resolve

import "context"

// Mode selects between single-result commands (song info) and list-returning
// commands (bootlegs on a date).
type Mode int

const (
	// Single keeps only the top-ranked candidate.
	Single Mode = iota
	// Many keeps every surviving candidate in ranked order.
	Many
)

// Corpus is the external full-text + similarity capable store for one or
// more entity kinds. Search returns a possibly-empty candidate list; a
// candidate is either fully populated (both scores present) or omitted.
// Transport and storage errors are returned as-is and the resolver
// propagates them unchanged.
type Corpus interface {
	Search(ctx context.Context, req SearchRequest) ([]Candidate, error)
}

// Resolver runs the stateless pipeline: normalize, build, fetch, rank,
// disambiguate, envelope. It holds no mutable state and is safe for
// concurrent use.
type Resolver struct {
	corpus Corpus
	floors Floors
}

// NewResolver returns a Resolver over the given corpus. A nil floors map
// falls back to DefaultFloors.
func NewResolver(corpus Corpus, floors Floors) *Resolver {
	if floors == nil {
		floors = DefaultFloors()
	}
	return &Resolver{corpus: corpus, floors: floors}
}

// Resolve is the single public entry point. NotFound results carry the
// original raw text, not the normalized query, so the user sees their own
// input echoed back. Corpus errors come back unwrapped.
func (r *Resolver) Resolve(ctx context.Context, raw string, kind EntityKind, mode Mode) (Result, error) {
	req, err := BuildRequest(kind, raw, r.floors)
	if err != nil {
		return Result{}, err
	}
	candidates, err := r.corpus.Search(ctx, req)
	if err != nil {
		return Result{}, err
	}
	return Disambiguate(Rank(candidates, req.Floor), mode, raw), nil
}

// Disambiguate maps a ranked candidate list to its Result under the
// requested mode. An empty list is NotFound; in single mode the top
// candidate wins and the rest are discarded (ties were already broken by
// the deterministic order in Rank).
func Disambiguate(ranked []Candidate, mode Mode, raw string) Result {
	if len(ranked) == 0 {
		return Result{Outcome: NotFound, Query: raw}
	}
	if mode == Single {
		return Result{
			Outcome: Found,
			Entity:  entityOf(ranked[0]),
			Query:   raw,
		}
	}
	entities := make([]ResolvedEntity, len(ranked))
	for i, c := range ranked {
		entities[i] = entityOf(c)
	}
	return Result{Outcome: FoundMany, Entities: entities, Query: raw}
}

func entityOf(c Candidate) ResolvedEntity {
	return ResolvedEntity{
		ID:          c.ID,
		Name:        c.DisplayName,
		DisplayName: QualifiedName(c),
		Row:         c.Row,
	}
}
