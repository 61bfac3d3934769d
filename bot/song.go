package bot

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lilbud/brucebot/db"
	"github.com/lilbud/brucebot/resolve"
)

// entityID converts a resolved entity id back to the serial key the detail
// queries use.
func entityID(e resolve.ResolvedEntity) (int, error) {
	id, err := strconv.Atoi(e.ID)
	if err != nil {
		return 0, fmt.Errorf("bad entity id %q: %w", e.ID, err)
	}
	return id, nil
}

// cmdSong answers "song <name>" plus the "song tour <name>" and
// "song year <name>" breakdowns.
func (b *Bot) cmdSong(ctx context.Context, args string) ([]string, error) {
	sub, rest := splitCommand(args)
	switch sub {
	case "tour":
		return b.songBreakdown(ctx, rest, db.GetSongTourCounts)
	case "year":
		return b.songBreakdown(ctx, rest, db.GetSongYearCounts)
	}
	if strings.TrimSpace(args) == "" {
		return []string{"usage: song <name>, song tour <name>, song year <name>"}, nil
	}

	ent, miss, err := b.resolveOne(ctx, resolve.KindSong, args)
	if err != nil {
		return nil, err
	}
	if miss != "" {
		return []string{miss}, nil
	}
	id, err := entityID(ent)
	if err != nil {
		return nil, err
	}
	info, err := db.GetSongInfo(ctx, b.db, id)
	if err != nil {
		return nil, err
	}
	release, err := db.GetFirstRelease(ctx, b.db, id)
	if err != nil {
		return nil, err
	}

	fields := []string{info.Name}
	if info.OriginalArtist != "" && !strings.EqualFold(info.OriginalArtist, "Bruce Springsteen") {
		fields = append(fields, "cover of "+info.OriginalArtist)
	}
	if release != nil {
		fields = append(fields, fmt.Sprintf("first released on %s (%s)", release.Name, release.ReleaseDate))
	}
	if info.FirstDate != "" {
		fields = append(fields, "first played "+info.FirstDate)
	}
	if info.LastDate != "" && info.LastDate != info.FirstDate {
		fields = append(fields, "last played "+info.LastDate)
	}
	fields = append(fields, fmt.Sprintf("%d plays (%.2f%% of shows)", info.PlaysPublic, info.Frequency))
	if info.PlaysSnippet > 0 {
		fields = append(fields, fmt.Sprintf("%d snippets", info.PlaysSnippet))
	}
	if info.URL != "" {
		fields = append(fields, info.URL)
	}
	return []string{joinFields(fields...)}, nil
}

// songBreakdown is the shared body of the tour and year subcommands.
func (b *Bot) songBreakdown(ctx context.Context, raw string, counts func(context.Context, *sql.DB, int) ([]db.NameCount, error)) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{"usage: song tour <name> / song year <name>"}, nil
	}
	ent, miss, err := b.resolveOne(ctx, resolve.KindSong, raw)
	if err != nil {
		return nil, err
	}
	if miss != "" {
		return []string{miss}, nil
	}
	id, err := entityID(ent)
	if err != nil {
		return nil, err
	}
	rows, err := counts(ctx, b.db, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []string{ent.DisplayName + " has no recorded performances"}, nil
	}
	parts := make([]string, 0, len(rows)+1)
	parts = append(parts, ent.DisplayName)
	for _, r := range rows {
		parts = append(parts, fmt.Sprintf("%s: %d", r.Name, r.Count))
	}
	return []string{joinFields(parts...)}, nil
}

// cmdSnippet reports where a song turned up inside other songs.
func (b *Bot) cmdSnippet(ctx context.Context, args string) ([]string, error) {
	if strings.TrimSpace(args) == "" {
		return []string{"usage: snippet <song name>"}, nil
	}
	ent, miss, err := b.resolveOne(ctx, resolve.KindSong, args)
	if err != nil {
		return nil, err
	}
	if miss != "" {
		return []string{miss}, nil
	}
	id, err := entityID(ent)
	if err != nil {
		return nil, err
	}
	info, err := db.GetSnippetInfo(ctx, b.db, id)
	if err != nil {
		return nil, err
	}
	if info.Count == 0 {
		return []string{ent.DisplayName + " has never been played as a snippet"}, nil
	}
	fields := []string{
		fmt.Sprintf("%s: %d snippets", ent.DisplayName, info.Count),
		"first " + info.FirstDate,
		"last " + info.LastDate,
	}
	for i, h := range info.Hosts {
		if i == 5 {
			break
		}
		fields = append(fields, fmt.Sprintf("%s (%d)", h.Name, h.Count))
	}
	return []string{joinFields(fields...)}, nil
}

// positionHandler builds the opener/closer handler for a position suffix.
func (b *Bot) positionHandler(position string) handlerFunc {
	return func(ctx context.Context, args string) ([]string, error) {
		if strings.TrimSpace(args) == "" {
			return []string{fmt.Sprintf("usage: %s <song name>", strings.ToLower(position))}, nil
		}
		ent, miss, err := b.resolveOne(ctx, resolve.KindSong, args)
		if err != nil {
			return nil, err
		}
		if miss != "" {
			return []string{miss}, nil
		}
		id, err := entityID(ent)
		if err != nil {
			return nil, err
		}
		rows, err := db.GetOpenerCloserCounts(ctx, b.db, id, position)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return []string{fmt.Sprintf("%s has never been a %s", ent.DisplayName, strings.ToLower(position))}, nil
		}
		parts := []string{ent.DisplayName}
		for _, r := range rows {
			parts = append(parts, fmt.Sprintf("%s: %d", r.Name, r.Count))
		}
		return []string{joinFields(parts...)}, nil
	}
}
