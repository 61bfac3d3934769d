package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/lilbud/brucebot/db"
	"github.com/lilbud/brucebot/resolve"
)

// cmdTour answers "tour <name>".
func (b *Bot) cmdTour(ctx context.Context, args string) ([]string, error) {
	if strings.TrimSpace(args) == "" {
		return []string{"usage: tour <name>"}, nil
	}
	ent, miss, err := b.resolveOne(ctx, resolve.KindTour, args)
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
	t, err := db.GetTourInfo(ctx, b.db, id)
	if err != nil {
		return nil, err
	}
	fields := []string{
		t.Name,
		fmt.Sprintf("%d shows", t.Shows),
		fmt.Sprintf("%d different songs", t.Songs),
	}
	if t.FirstDate != "" {
		fields = append(fields, fmt.Sprintf("opened %s (%s)", t.FirstDate, t.FirstLoc))
	}
	if t.LastDate != "" {
		fields = append(fields, fmt.Sprintf("closed %s (%s)", t.LastDate, t.LastLoc))
	}
	return []string{joinFields(fields...)}, nil
}

// cmdRelation answers "relation <name>", band members and frequent guests.
func (b *Bot) cmdRelation(ctx context.Context, args string) ([]string, error) {
	if strings.TrimSpace(args) == "" {
		return []string{"usage: relation <name>"}, nil
	}
	ent, miss, err := b.resolveOne(ctx, resolve.KindRelation, args)
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
	r, err := db.GetRelationInfo(ctx, b.db, id)
	if err != nil {
		return nil, err
	}
	fields := []string{
		r.Name,
		fmt.Sprintf("%d appearances", r.Appearances),
	}
	if r.FirstDate != "" {
		fields = append(fields, "first "+r.FirstDate)
	}
	if r.LastDate != "" && r.LastDate != r.FirstDate {
		fields = append(fields, "last "+r.LastDate)
	}
	return []string{joinFields(fields...)}, nil
}

// cmdAlbum answers "album <name>" with the release's live extremes.
func (b *Bot) cmdAlbum(ctx context.Context, args string) ([]string, error) {
	if strings.TrimSpace(args) == "" {
		return []string{"usage: album <name>"}, nil
	}
	ent, miss, err := b.resolveOne(ctx, resolve.KindAlbum, args)
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
	st, err := db.GetAlbumStats(ctx, b.db, id)
	if err != nil {
		return nil, err
	}
	fields := []string{st.Release.Name}
	if st.Release.ReleaseDate != "" {
		fields = append(fields, "released "+st.Release.ReleaseDate)
	}
	if st.Most.Name != "" {
		fields = append(fields,
			fmt.Sprintf("most played: %s (%d)", st.Most.Name, st.Most.Count),
			fmt.Sprintf("least played: %s (%d)", st.Least.Name, st.Least.Count))
	}
	return []string{joinFields(fields...)}, nil
}
