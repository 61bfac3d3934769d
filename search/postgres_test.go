package search

import (
	"context"
	"errors"
	"testing"

	"github.com/lilbud/brucebot/resolve"
	"github.com/lilbud/brucebot/testutil"
)

func TestSearchRejectsUnknownKind(t *testing.T) {
	p := NewPostgres(nil)
	_, err := p.Search(context.Background(), resolve.SearchRequest{Kind: resolve.EntityKind(99), Query: "x"})
	if !errors.Is(err, resolve.ErrInvalidKind) {
		t.Fatalf("err = %v, want ErrInvalidKind", err)
	}
}

func TestSearchSongs(t *testing.T) {
	dbx := testutil.SetupTestDB(t)
	seed := []string{
		`INSERT INTO songs (song_name, short_name, aliases) VALUES
			('Thunder Road', NULL, NULL),
			('Thundercrack', NULL, NULL),
			('Born to Run', 'BTR', NULL)
		ON CONFLICT DO NOTHING`,
	}
	for _, q := range seed {
		if _, err := dbx.Exec(q); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	p := NewPostgres(dbx)

	out, err := p.Search(context.Background(), resolve.SearchRequest{
		Kind:  resolve.KindSong,
		Query: "thunder road",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected candidates for thunder road")
	}
	if out[0].DisplayName != "Thunder Road" {
		t.Errorf("top candidate = %q, want Thunder Road", out[0].DisplayName)
	}
	for _, c := range out {
		if c.ID == "" {
			t.Error("candidate missing id")
		}
		if c.Similarity == 0 && c.Rank == 0 {
			t.Errorf("candidate %q has no scores", c.DisplayName)
		}
	}
}

func TestSearchCityCarriesGeography(t *testing.T) {
	dbx := testutil.SetupTestDB(t)
	if _, err := dbx.Exec(`INSERT INTO cities (name, state, country) VALUES ('Asbury Park', 'NJ', 'USA') ON CONFLICT DO NOTHING`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	p := NewPostgres(dbx)

	out, err := p.Search(context.Background(), resolve.SearchRequest{
		Kind:  resolve.KindCity,
		Query: "asbury park",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected city candidate")
	}
	if out[0].State != "NJ" || out[0].Country != "USA" {
		t.Errorf("geography = %q/%q, want NJ/USA", out[0].State, out[0].Country)
	}
}

func TestSearchStateAbbrev(t *testing.T) {
	dbx := testutil.SetupTestDB(t)
	if _, err := dbx.Exec(`INSERT INTO states (state_abbrev, state_name, state_country) VALUES ('NJ', 'New Jersey', 'USA') ON CONFLICT DO NOTHING`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	p := NewPostgres(dbx)

	out, err := p.Search(context.Background(), resolve.SearchRequest{
		Kind:  resolve.KindState,
		Query: "nj",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected state candidate for abbreviation")
	}
	if out[0].DisplayName != "New Jersey" {
		t.Errorf("top candidate = %q, want New Jersey", out[0].DisplayName)
	}
	if out[0].Similarity < 1.0 {
		t.Errorf("abbreviation match similarity = %v, want 1.0", out[0].Similarity)
	}
}
