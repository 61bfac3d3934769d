package resolve

import (
	"context"
	"errors"
	"testing"
)

// stubCorpus returns a fixed candidate set (or error) and records the last
// request it saw.
type stubCorpus struct {
	candidates []Candidate
	err        error
	lastReq    SearchRequest
}

func (s *stubCorpus) Search(_ context.Context, req SearchRequest) ([]Candidate, error) {
	s.lastReq = req
	return s.candidates, s.err
}

func TestResolveSingleFindsBestMatch(t *testing.T) {
	corpus := &stubCorpus{candidates: []Candidate{
		{ID: "10", DisplayName: "Thunder Road", Similarity: 0.8, Rank: 0.4},
		{ID: "11", DisplayName: "Thundercrack", Similarity: 0.5, Rank: 0.6},
	}}
	r := NewResolver(corpus, nil)

	res, err := r.Resolve(context.Background(), "Thndr Rd", KindSong, Single)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if res.Outcome != Found {
		t.Fatalf("outcome = %v, want Found", res.Outcome)
	}
	if res.Entity.DisplayName != "Thunder Road" {
		t.Errorf("display = %q, want Thunder Road", res.Entity.DisplayName)
	}
	if corpus.lastReq.Floor != 0.0415 {
		t.Errorf("song floor = %v, want 0.0415", corpus.lastReq.Floor)
	}
}

func TestResolveNotFoundCarriesRawQuery(t *testing.T) {
	corpus := &stubCorpus{candidates: []Candidate{
		{ID: "1", DisplayName: "x", Similarity: 0.3, Rank: 0.1},
	}}
	floors := DefaultFloors()
	floors[KindSong] = 0.45
	r := NewResolver(corpus, floors)

	raw := "  Thunder’s Road  " // normalization changes this
	res, err := r.Resolve(context.Background(), raw, KindSong, Single)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if res.Outcome != NotFound {
		t.Fatalf("outcome = %v, want NotFound", res.Outcome)
	}
	if res.Query != raw {
		t.Errorf("NotFound query = %q, want original raw text %q", res.Query, raw)
	}
	if corpus.lastReq.Query == raw {
		t.Errorf("corpus should have seen the normalized query, got raw")
	}
}

func TestResolveManyPreservesRankedOrder(t *testing.T) {
	corpus := &stubCorpus{candidates: []Candidate{
		{ID: "3", DisplayName: "c", Similarity: 0.6, Rank: 0.1},
		{ID: "1", DisplayName: "a", Similarity: 0.9, Rank: 0.2},
		{ID: "2", DisplayName: "b", Similarity: 0.7, Rank: 0.3},
	}}
	r := NewResolver(corpus, nil)

	res, err := r.Resolve(context.Background(), "anything", KindVenue, Many)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if res.Outcome != FoundMany {
		t.Fatalf("outcome = %v, want FoundMany", res.Outcome)
	}
	if len(res.Entities) != 3 {
		t.Fatalf("len = %d, want 3", len(res.Entities))
	}
	for i, want := range []string{"1", "2", "3"} {
		if res.Entities[i].ID != want {
			t.Errorf("entities[%d].ID = %s, want %s", i, res.Entities[i].ID, want)
		}
	}
}

func TestResolveInvalidKind(t *testing.T) {
	r := NewResolver(&stubCorpus{}, nil)
	_, err := r.Resolve(context.Background(), "x", EntityKind(99), Single)
	if !errors.Is(err, ErrInvalidKind) {
		t.Errorf("err = %v, want ErrInvalidKind", err)
	}
}

func TestResolveCorpusErrorPropagatesUnwrapped(t *testing.T) {
	boom := errors.New("connection refused")
	r := NewResolver(&stubCorpus{err: boom}, nil)
	_, err := r.Resolve(context.Background(), "x", KindSong, Single)
	if err != boom {
		t.Errorf("corpus error should propagate unchanged, got %v", err)
	}
}

func TestResolvedEntityCarriesBareName(t *testing.T) {
	ranked := []Candidate{{
		ID:          "7",
		DisplayName: "Asbury Park",
		Similarity:  0.9,
		State:       "NJ",
		Country:     "USA",
	}}
	res := Disambiguate(ranked, Single, "asbury park")
	if res.Entity.DisplayName != "Asbury Park, NJ" {
		t.Errorf("DisplayName = %q, want qualified", res.Entity.DisplayName)
	}
	if res.Entity.Name != "Asbury Park" {
		t.Errorf("Name = %q, want the unqualified name", res.Entity.Name)
	}
}

func TestDisambiguateEmpty(t *testing.T) {
	res := Disambiguate(nil, Single, "badlands")
	if res.Outcome != NotFound || res.Query != "badlands" {
		t.Errorf("Disambiguate(empty) = %+v, want NotFound/badlands", res)
	}
}
