// Package search implements the database-backed candidate corpus. Each
// entity kind maps to one SQL variant: a full-text match over the entity's
// generated tsvector plus a trigram similarity score over the name and
// alias columns. Scoring happens in SQL; filtering and final ordering are
// the ranker's job.
package search

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lilbud/brucebot/resolve"
	"github.com/lilbud/brucebot/telemetry"
)

// limit caps rows per lookup. Chat replies only show a handful of
// alternatives, and the trigram score on alias blobs degrades gracefully
// but never to zero, so unbounded scans would drag in the long tail.
const limit = "25"

// kindQueries holds the SQL per entity kind. Every query returns exactly
// five columns: id text, display name, similarity, rank, and a state/country
// pair (empty for kinds that have no geography).
var kindQueries = map[resolve.EntityKind]string{
	resolve.KindSong: `
		SELECT s.id::text, s.song_name,
			SIMILARITY(coalesce(s.aliases,'') || ' ' || coalesce(s.short_name,'') || ' ' || s.song_name, $1),
			ts_rank(s.fts, query),
			'', ''
		FROM songs s, plainto_tsquery('simple', $1) query
		WHERE s.fts @@ query
		ORDER BY 3 DESC, 4 DESC
		LIMIT ` + limit,
	resolve.KindAlbum: `
		SELECT r.id::text, r.name,
			SIMILARITY(r.name, $1),
			ts_rank(r.fts, query),
			'', ''
		FROM releases r, websearch_to_tsquery('english', $1) query
		WHERE r.fts @@ query
		ORDER BY 3 DESC, 4 DESC
		LIMIT ` + limit,
	resolve.KindVenue: `
		SELECT v.id::text, v.name,
			SIMILARITY(coalesce(v.aliases,'') || ' ' || v.name, $1),
			ts_rank(v.fts, query),
			coalesce(v.state, ''), coalesce(v.country, '')
		FROM venues v, plainto_tsquery('english', $1) query
		WHERE v.fts @@ query
		ORDER BY 3 DESC, 4 DESC
		LIMIT ` + limit,
	resolve.KindCity: `
		SELECT c.id::text, c.name,
			SIMILARITY(coalesce(c.aliases,'') || ' ' || c.name, $1),
			ts_rank(c.fts, query),
			coalesce(c.state, ''), coalesce(c.country, '')
		FROM cities c, plainto_tsquery('english', $1) query
		WHERE c.fts @@ query
		ORDER BY 3 DESC, 4 DESC
		LIMIT ` + limit,
	resolve.KindState: `
		SELECT s.id::text, s.state_name,
			GREATEST(SIMILARITY(s.state_name, $1),
				CASE WHEN lower(s.state_abbrev) = lower($1) THEN 1.0 ELSE 0 END),
			ts_rank(s.fts, query),
			'', coalesce(s.state_country, '')
		FROM states s, plainto_tsquery('english', $1) query
		WHERE s.fts @@ query OR lower(s.state_abbrev) = lower($1)
		ORDER BY 3 DESC, 4 DESC
		LIMIT ` + limit,
	resolve.KindCountry: `
		SELECT c.id::text, c.name,
			SIMILARITY(c.name, $1),
			ts_rank(c.fts, query),
			'', ''
		FROM countries c, plainto_tsquery('english', $1) query
		WHERE c.fts @@ query
		ORDER BY 3 DESC, 4 DESC
		LIMIT ` + limit,
	resolve.KindTour: `
		SELECT t.id::text, t.tour_name,
			SIMILARITY(t.tour_name, $1),
			ts_rank(t.fts, query),
			'', ''
		FROM tours t, plainto_tsquery('english', $1) query
		WHERE t.fts @@ query
		ORDER BY 3 DESC, 4 DESC
		LIMIT ` + limit,
	resolve.KindRelation: `
		SELECT r.id::text, r.relation_name,
			SIMILARITY(coalesce(r.aliases,'') || ' ' || r.relation_name, $1),
			ts_rank(r.fts, query),
			'', ''
		FROM relations r, plainto_tsquery('english', $1) query
		WHERE r.fts @@ query
		ORDER BY 3 DESC, 4 DESC
		LIMIT ` + limit,
}

// Postgres is a resolve.Corpus backed by the concert database.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Search runs the kind's query variant and returns scored candidates in
// storage score order. No floor is applied here.
func (p *Postgres) Search(ctx context.Context, req resolve.SearchRequest) ([]resolve.Candidate, error) {
	q, ok := kindQueries[req.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %d", resolve.ErrInvalidKind, int(req.Kind))
	}
	ctx, span := telemetry.StartSpan(ctx, "search."+req.Kind.String())
	defer span.End()

	rows, err := p.db.QueryContext(ctx, q, req.Query)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("search %s %q: %w", req.Kind, req.Query, err)
	}
	defer rows.Close()

	var out []resolve.Candidate
	for rows.Next() {
		var c resolve.Candidate
		if err := rows.Scan(&c.ID, &c.DisplayName, &c.Similarity, &c.Rank, &c.State, &c.Country); err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("scan %s candidate: %w", req.Kind, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return out, nil
}
