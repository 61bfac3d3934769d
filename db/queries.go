package db

import (
	"context"
	"database/sql"
	"fmt"
)

// SongInfo is the detail row behind the song command.
type SongInfo struct {
	ID              int
	Name            string
	URL             string
	OriginalArtist  string
	FirstDate       string
	FirstURL        string
	LastDate        string
	LastURL         string
	PlaysPublic     int
	PlaysSnippet    int
	Opener          int
	Closer          int
	Frequency       float64
}

// GetSongInfo loads full song detail by id, including first/last played
// events and the share of confirmed shows the song appeared at.
func GetSongInfo(ctx context.Context, dbx *sql.DB, songID int) (*SongInfo, error) {
	var s SongInfo
	var artist, firstDate, firstURL, lastDate, lastURL sql.NullString
	var freq sql.NullFloat64
	err := dbx.QueryRowContext(ctx, `
		SELECT
			s.id,
			s.song_name,
			coalesce(s.brucebase_url, ''),
			s.original_artist,
			e.event_date::text,
			e.event_url,
			e1.event_date::text,
			e1.event_url,
			s.num_plays_public,
			s.num_plays_snippet,
			s.opener,
			s.closer,
			round((s.num_plays_public /
				NULLIF((SELECT COUNT(*) FROM events
					WHERE event_certainty = ANY(ARRAY['Confirmed','Probable'])), 0)::float * 100)::numeric, 2)
		FROM songs s
		LEFT JOIN events e ON e.event_id = s.first_played
		LEFT JOIN events e1 ON e1.event_id = s.last_played
		WHERE s.id = $1`, songID).Scan(
		&s.ID, &s.Name, &s.URL, &artist,
		&firstDate, &firstURL, &lastDate, &lastURL,
		&s.PlaysPublic, &s.PlaysSnippet, &s.Opener, &s.Closer, &freq)
	if err != nil {
		return nil, fmt.Errorf("get song info %d: %w", songID, err)
	}
	s.OriginalArtist = artist.String
	s.FirstDate, s.FirstURL = firstDate.String, firstURL.String
	s.LastDate, s.LastURL = lastDate.String, lastURL.String
	s.Frequency = freq.Float64
	return &s, nil
}

// Release is one album/release row.
type Release struct {
	ID          int
	Name        string
	ReleaseDate string
	Type        string
}

// GetFirstRelease returns the earliest release carrying the song, or nil if
// the song was never released.
func GetFirstRelease(ctx context.Context, dbx *sql.DB, songID int) (*Release, error) {
	var r Release
	var date, typ sql.NullString
	err := dbx.QueryRowContext(ctx, `
		SELECT r.id, r.name, r.release_date::text, r.type
		FROM release_tracks rt
		JOIN releases r ON r.id = rt.release_id
		WHERE rt.song_id = $1
		ORDER BY r.release_date ASC NULLS LAST
		LIMIT 1`, songID).Scan(&r.ID, &r.Name, &date, &typ)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get first release for song %d: %w", songID, err)
	}
	r.ReleaseDate, r.Type = date.String, typ.String
	return &r, nil
}

// NameCount pairs a label (tour name, year, song name, position) with a play count.
type NameCount struct {
	Name  string
	Count int
}

// mainSets are the set names that count as a proper live performance.
const mainSets = `ARRAY['Show','Set 1','Set 2','Encore','Pre-Show','Post-Show']`

// GetSongYearCounts counts how many times a song was played per year.
func GetSongYearCounts(ctx context.Context, dbx *sql.DB, songID int) ([]NameCount, error) {
	return queryNameCounts(ctx, dbx, `
		SELECT to_char(e.event_date, 'YYYY') AS year, COUNT(s.song_id)
		FROM setlists s
		LEFT JOIN events e ON e.event_id = s.event_id
		WHERE s.song_id = $1
		AND s.set_name = ANY(`+mainSets+`)
		GROUP BY 1
		ORDER BY 1`, songID)
}

// GetSongTourCounts counts how many times a song was played per tour.
func GetSongTourCounts(ctx context.Context, dbx *sql.DB, songID int) ([]NameCount, error) {
	return queryNameCounts(ctx, dbx, `
		SELECT t.tour_name, count(*)
		FROM setlists s
		LEFT JOIN events e ON e.event_id = s.event_id
		LEFT JOIN tours t ON t.id = e.tour_id
		WHERE s.song_id = $1
		AND t.tour_name IS NOT NULL
		AND s.set_name = ANY(`+mainSets+`)
		GROUP BY t.tour_name
		ORDER BY count(*) DESC`, songID)
}

// GetOpenerCloserCounts returns per-position counts ("Show Opener",
// "Set 1 Opener", ...) for a song. position is matched as a suffix.
func GetOpenerCloserCounts(ctx context.Context, dbx *sql.DB, songID int, position string) ([]NameCount, error) {
	return queryNameCounts(ctx, dbx, `
		SELECT s.position, count(*)
		FROM setlists s
		WHERE s.song_id = $1
		AND s.position LIKE '%' || $2
		GROUP BY s.position
		ORDER BY count(*) DESC`, songID, position)
}

// SnippetInfo summarizes a song's appearances as a snippet inside other songs.
type SnippetInfo struct {
	Count     int
	FirstDate string
	LastDate  string
	Hosts     []NameCount
}

// GetSnippetInfo reports when a song appeared as a snippet and which songs
// hosted it.
func GetSnippetInfo(ctx context.Context, dbx *sql.DB, songID int) (*SnippetInfo, error) {
	var info SnippetInfo
	var first, last sql.NullString
	err := dbx.QueryRowContext(ctx, `
		SELECT count(sn.snippet_id), MIN(e.event_date)::text, MAX(e.event_date)::text
		FROM snippets sn
		LEFT JOIN events e ON e.event_id = sn.event_id
		WHERE sn.snippet_id = $1`, songID).Scan(&info.Count, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("get snippet info %d: %w", songID, err)
	}
	info.FirstDate, info.LastDate = first.String, last.String

	info.Hosts, err = queryNameCounts(ctx, dbx, `
		SELECT s1.song_name, count(s1.id)
		FROM snippets sn
		LEFT JOIN setlists s ON s.id = sn.setlist_song_id
		LEFT JOIN songs s1 ON s1.id = s.song_id
		WHERE sn.snippet_id = $1
		AND s1.song_name IS NOT NULL
		GROUP BY s1.song_name
		ORDER BY count(s1.id) DESC`, songID)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// AlbumStats carries the most- and least-played tracks of a release.
type AlbumStats struct {
	Release Release
	Most    NameCount
	Least   NameCount
}

// GetAlbumStats loads a release with its extreme track play counts.
func GetAlbumStats(ctx context.Context, dbx *sql.DB, releaseID int) (*AlbumStats, error) {
	var st AlbumStats
	var date, typ sql.NullString
	err := dbx.QueryRowContext(ctx, `
		SELECT id, name, release_date::text, type FROM releases WHERE id = $1`,
		releaseID).Scan(&st.Release.ID, &st.Release.Name, &date, &typ)
	if err != nil {
		return nil, fmt.Errorf("get release %d: %w", releaseID, err)
	}
	st.Release.ReleaseDate, st.Release.Type = date.String, typ.String

	counts, err := queryNameCounts(ctx, dbx, `
		SELECT s.song_name,
			COUNT(s1.id) FILTER (WHERE s1.set_name IN ('Show','Set 1','Set 2','Encore')) AS times_played
		FROM release_tracks rt
		LEFT JOIN songs s ON s.id = rt.song_id
		LEFT JOIN setlists s1 ON s1.song_id = s.id
		WHERE rt.release_id = $1
		GROUP BY s.song_name
		ORDER BY times_played ASC`, releaseID)
	if err != nil {
		return nil, err
	}
	if len(counts) > 0 {
		st.Least = counts[0]
		st.Most = counts[len(counts)-1]
	}
	return &st, nil
}

// EventSpan is the first/last event summary shown for venues, locations,
// tours, and relations.
type EventSpan struct {
	Events    int
	FirstDate string
	FirstURL  string
	LastDate  string
	LastURL   string
}

// locationColumns whitelists the events column filtered per location kind.
var locationColumns = map[string]string{
	"city":    "city",
	"state":   "state",
	"country": "country",
}

// GetLocationSpan returns event count plus first/last event for a city,
// state, or country name. kind must be one of the whitelisted location
// kinds; anything else is a programming error surfaced as one.
func GetLocationSpan(ctx context.Context, dbx *sql.DB, kind, name string) (*EventSpan, error) {
	col, ok := locationColumns[kind]
	if !ok {
		return nil, fmt.Errorf("unknown location kind %q", kind)
	}
	q := fmt.Sprintf(`
		SELECT
			count(*),
			MIN(event_date)::text,
			(SELECT event_url FROM events WHERE %[1]s = $1 AND event_date < current_date ORDER BY event_date ASC LIMIT 1),
			MAX(event_date) FILTER (WHERE event_date < current_date)::text,
			(SELECT event_url FROM events WHERE %[1]s = $1 AND event_date < current_date ORDER BY event_date DESC LIMIT 1)
		FROM events
		WHERE %[1]s = $1 AND event_date < current_date`, col)
	return scanSpan(dbx.QueryRowContext(ctx, q, name))
}

// GetVenueSpan returns event count plus first/last event for a venue id.
func GetVenueSpan(ctx context.Context, dbx *sql.DB, venueID int) (*EventSpan, error) {
	return scanSpan(dbx.QueryRowContext(ctx, `
		SELECT
			count(*),
			MIN(event_date)::text,
			(SELECT event_url FROM events WHERE venue_id = $1 ORDER BY event_date ASC LIMIT 1),
			MAX(event_date)::text,
			(SELECT event_url FROM events WHERE venue_id = $1 ORDER BY event_date DESC LIMIT 1)
		FROM events
		WHERE venue_id = $1`, venueID))
}

func scanSpan(row *sql.Row) (*EventSpan, error) {
	var span EventSpan
	var firstDate, firstURL, lastDate, lastURL sql.NullString
	if err := row.Scan(&span.Events, &firstDate, &firstURL, &lastDate, &lastURL); err != nil {
		return nil, fmt.Errorf("scan event span: %w", err)
	}
	span.FirstDate, span.FirstURL = firstDate.String, firstURL.String
	span.LastDate, span.LastURL = lastDate.String, lastURL.String
	return &span, nil
}

// TourInfo is the detail row behind the tour command.
type TourInfo struct {
	ID        int
	Name      string
	Shows     int
	Songs     int
	FirstDate string
	FirstLoc  string
	FirstURL  string
	LastDate  string
	LastLoc   string
	LastURL   string
}

// GetTourInfo loads tour detail with first/last show locations.
func GetTourInfo(ctx context.Context, dbx *sql.DB, tourID int) (*TourInfo, error) {
	var t TourInfo
	var fd, fl, fu, ld, ll, lu sql.NullString
	err := dbx.QueryRowContext(ctx, `
		SELECT
			t.id, t.tour_name, t.num_shows, t.num_songs,
			e.event_date::text,
			e.city || ', ' || coalesce(e.state, e.country),
			e.event_url,
			e1.event_date::text,
			e1.city || ', ' || coalesce(e1.state, e1.country),
			e1.event_url
		FROM tours t
		LEFT JOIN events e ON e.event_id = t.first_show
		LEFT JOIN events e1 ON e1.event_id = t.last_show
		WHERE t.id = $1`, tourID).Scan(
		&t.ID, &t.Name, &t.Shows, &t.Songs, &fd, &fl, &fu, &ld, &ll, &lu)
	if err != nil {
		return nil, fmt.Errorf("get tour info %d: %w", tourID, err)
	}
	t.FirstDate, t.FirstLoc, t.FirstURL = fd.String, fl.String, fu.String
	t.LastDate, t.LastLoc, t.LastURL = ld.String, ll.String, lu.String
	return &t, nil
}

// RelationInfo is the detail row behind the relation command.
type RelationInfo struct {
	ID          int
	Name        string
	Aliases     string
	Appearances int
	FirstDate   string
	FirstURL    string
	LastDate    string
	LastURL     string
}

// GetRelationInfo loads band-member/relation detail by id.
func GetRelationInfo(ctx context.Context, dbx *sql.DB, relationID int) (*RelationInfo, error) {
	var r RelationInfo
	var aliases, fd, fu, ld, lu sql.NullString
	err := dbx.QueryRowContext(ctx, `
		SELECT
			r.id, r.relation_name, r.aliases, r.appearances,
			e.event_date::text, e.event_url,
			e1.event_date::text, e1.event_url
		FROM relations r
		LEFT JOIN events e ON e.event_id = r.first_appearance
		LEFT JOIN events e1 ON e1.event_id = r.last_appearance
		WHERE r.id = $1`, relationID).Scan(
		&r.ID, &r.Name, &aliases, &r.Appearances, &fd, &fu, &ld, &lu)
	if err != nil {
		return nil, fmt.Errorf("get relation info %d: %w", relationID, err)
	}
	r.Aliases = aliases.String
	r.FirstDate, r.FirstURL = fd.String, fu.String
	r.LastDate, r.LastURL = ld.String, lu.String
	return &r, nil
}

// Event is one concert row as shown by setlist/otd commands.
type Event struct {
	ID        string
	Date      string
	Formatted string
	Artist    string
	Location  string
	URL       string
	Title     string
	Tour      string
	Certainty string
	Setlist   string // setlist_certainty
	Note      string
}

const eventSelect = `
	SELECT
		e.event_id,
		e.event_date::text,
		coalesce(e.formatted_date, e.event_date::text),
		coalesce(e.artist, ''),
		coalesce(e.city || ', ' || coalesce(e.state, e.country), ''),
		coalesce(e.event_url, ''),
		coalesce(e.event_title, ''),
		coalesce(t.tour_name, ''),
		coalesce(e.event_certainty, ''),
		coalesce(e.setlist_certainty, ''),
		coalesce(e.note, '')
	FROM events e
	LEFT JOIN tours t ON t.id = e.tour_id`

// GetEventsOnDate returns all past events on an exact date (YYYY-MM-DD).
func GetEventsOnDate(ctx context.Context, dbx *sql.DB, date string) ([]Event, error) {
	return queryEvents(ctx, dbx, eventSelect+`
		WHERE e.event_date = $1::date AND e.event_date <= current_date
		ORDER BY e.event_id`, date)
}

// GetEventsOnDay returns all events matching a month-day across every year,
// the on-this-day lookup.
func GetEventsOnDay(ctx context.Context, dbx *sql.DB, monthDay string) ([]Event, error) {
	return queryEvents(ctx, dbx, eventSelect+`
		WHERE to_char(e.event_date, 'MM-DD') = $1
		ORDER BY e.event_date`, monthDay)
}

// GetLatestEventDate returns the date of the most recent event with a setlist.
func GetLatestEventDate(ctx context.Context, dbx *sql.DB) (string, error) {
	var date sql.NullString
	err := dbx.QueryRowContext(ctx, `
		SELECT MAX(e.event_date)::text
		FROM setlists s
		LEFT JOIN events e USING(event_id)`).Scan(&date)
	if err != nil {
		return "", fmt.Errorf("get latest event date: %w", err)
	}
	return date.String, nil
}

// SetPart is one set of an event's setlist, songs already aggregated in
// running order.
type SetPart struct {
	SetName string
	Songs   string
}

// GetSetlist aggregates an event's songs by set, ordered by position within
// the show.
func GetSetlist(ctx context.Context, dbx *sql.DB, eventID string) ([]SetPart, error) {
	rows, err := dbx.QueryContext(ctx, `
		SELECT
			s.set_name,
			string_agg(s1.song_name, ', ' ORDER BY s.song_num)
		FROM setlists s
		LEFT JOIN songs s1 ON s1.id = s.song_id
		WHERE s.event_id = $1
		GROUP BY s.set_name
		ORDER BY MIN(s.song_num)`, eventID)
	if err != nil {
		return nil, fmt.Errorf("get setlist %s: %w", eventID, err)
	}
	defer rows.Close()
	var parts []SetPart
	for rows.Next() {
		var p SetPart
		if err := rows.Scan(&p.SetName, &p.Songs); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

// Bootleg is one recording row for the bootleg command.
type Bootleg struct {
	Title     string
	Label     string
	SLID      string
	Category  string
	MediaType string
	Location  string
}

// GetBootlegsOnDate lists recordings of shows on a date, title order.
func GetBootlegsOnDate(ctx context.Context, dbx *sql.DB, date string) ([]Bootleg, error) {
	rows, err := dbx.QueryContext(ctx, `
		SELECT DISTINCT
			unaccent(b.title),
			coalesce(b.label, ''),
			coalesce(b.slid, ''),
			CASE
				WHEN b.category = 'aud_comp' THEN 'Audio Compilation'
				WHEN b.category = 'vid_comp' THEN 'Video Compilation'
				WHEN b.category LIKE 'aud%' THEN 'Audio'
				WHEN b.category LIKE 'vid%' THEN 'Video'
				ELSE coalesce(b.category, '')
			END,
			coalesce(b.media_type, ''),
			coalesce(e.city || ', ' || coalesce(e.state, e.country), '')
		FROM bootlegs b
		LEFT JOIN events e ON e.event_id = b.event_id
		WHERE e.event_date = $1::date
		ORDER BY 1 ASC`, date)
	if err != nil {
		return nil, fmt.Errorf("get bootlegs %s: %w", date, err)
	}
	defer rows.Close()
	var boots []Bootleg
	for rows.Next() {
		var b Bootleg
		if err := rows.Scan(&b.Title, &b.Label, &b.SLID, &b.Category, &b.MediaType, &b.Location); err != nil {
			return nil, err
		}
		boots = append(boots, b)
	}
	return boots, rows.Err()
}

// ArchiveLink is one archive.org tape row.
type ArchiveLink struct {
	EventDate string
	URL       string
	AddedAt   string
}

// GetArchiveOnDate lists archive.org tapes for an exact date.
func GetArchiveOnDate(ctx context.Context, dbx *sql.DB, date string) ([]ArchiveLink, error) {
	return queryArchive(ctx, dbx, `
		SELECT e.event_date::text, a.archive_url, a.created_at::text
		FROM archive_links a
		LEFT JOIN events e USING(event_id)
		WHERE e.event_date = $1::date
		ORDER BY a.created_at DESC`, date)
}

// GetLatestArchive lists the most recently added tapes.
func GetLatestArchive(ctx context.Context, dbx *sql.DB, limit int) ([]ArchiveLink, error) {
	return queryArchive(ctx, dbx, `
		SELECT e.event_date::text, a.archive_url, a.created_at::text
		FROM archive_links a
		LEFT JOIN events e USING(event_id)
		ORDER BY a.created_at DESC LIMIT $1`, limit)
}

// Stats is the record-count summary behind the info command.
type Stats struct {
	Songs     int
	Events    int
	Venues    int
	Relations int
	Setlists  int
}

// GetStats counts the main tables.
func GetStats(ctx context.Context, dbx *sql.DB) (*Stats, error) {
	var st Stats
	err := dbx.QueryRowContext(ctx, `
		SELECT
			(SELECT count(*) FROM songs),
			(SELECT count(*) FROM events),
			(SELECT count(*) FROM venues),
			(SELECT count(*) FROM relations),
			(SELECT count(DISTINCT event_id) FROM setlists)`).Scan(
		&st.Songs, &st.Events, &st.Venues, &st.Relations, &st.Setlists)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return &st, nil
}

func queryNameCounts(ctx context.Context, dbx *sql.DB, q string, args ...any) ([]NameCount, error) {
	rows, err := dbx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()
	var out []NameCount
	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, err
		}
		out = append(out, nc)
	}
	return out, rows.Err()
}

func queryEvents(ctx context.Context, dbx *sql.DB, q string, args ...any) ([]Event, error) {
	rows, err := dbx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Date, &e.Formatted, &e.Artist, &e.Location,
			&e.URL, &e.Title, &e.Tour, &e.Certainty, &e.Setlist, &e.Note); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func queryArchive(ctx context.Context, dbx *sql.DB, q string, args ...any) ([]ArchiveLink, error) {
	rows, err := dbx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query archive links: %w", err)
	}
	defer rows.Close()
	var out []ArchiveLink
	for rows.Next() {
		var a ArchiveLink
		var date sql.NullString
		if err := rows.Scan(&date, &a.URL, &a.AddedAt); err != nil {
			return nil, err
		}
		a.EventDate = date.String
		out = append(out, a)
	}
	return out, rows.Err()
}
