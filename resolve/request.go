package resolve

import "fmt"

// SearchRequest is the immutable input handed to a Corpus: normalized query
// text, the kind of entity wanted, and the similarity floor below which
// candidates are discarded.
type SearchRequest struct {
	Query string
	Kind  EntityKind
	Floor float64
}

// Floors maps entity kinds to their similarity floor. Floors are
// configuration, not literals in queries: the thresholds were retuned
// repeatedly and the command layer exposes env overrides for them.
type Floors map[EntityKind]float64

// DefaultFloors returns the per-kind similarity floors of the current query
// variants. Songs and relations search wide alias columns and need the low
// trigram floor; locations, venues, and tours rely on the full-text match
// alone.
func DefaultFloors() Floors {
	return Floors{
		KindSong:     0.0415,
		KindAlbum:    0.1,
		KindVenue:    0,
		KindCity:     0,
		KindState:    0,
		KindCountry:  0,
		KindTour:     0,
		KindRelation: 0.0415,
	}
}

// BuildRequest validates the kind, normalizes the raw text, and fixes the
// similarity floor for the life of the request.
func BuildRequest(kind EntityKind, raw string, floors Floors) (SearchRequest, error) {
	if !kind.Valid() {
		return SearchRequest{}, fmt.Errorf("%w: %d", ErrInvalidKind, int(kind))
	}
	return SearchRequest{
		Query: Normalize(raw),
		Kind:  kind,
		Floor: floors[kind],
	}, nil
}
