package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lilbud/brucebot/db"
	"github.com/lilbud/brucebot/resolve"
)

// cmdSetlist answers "setlist <date>"; with no argument it shows the most
// recent show with a setlist.
func (b *Bot) cmdSetlist(ctx context.Context, args string) ([]string, error) {
	var date string
	if strings.TrimSpace(args) == "" || strings.EqualFold(strings.TrimSpace(args), "latest") {
		latest, err := db.GetLatestEventDate(ctx, b.db)
		if err != nil {
			return nil, err
		}
		if latest == "" {
			return []string{"no setlists in the database yet"}, nil
		}
		date = latest
	} else {
		t, ok := resolve.ParseDate(args)
		if !ok {
			return []string{fmt.Sprintf("couldn't read '%s' as a date", strings.TrimSpace(args))}, nil
		}
		date = t.Format("2006-01-02")
	}

	events, err := db.GetEventsOnDate(ctx, b.db, date)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []string{"no show on " + date}, nil
	}

	var replies []string
	for _, ev := range events {
		sets, err := db.GetSetlist(ctx, b.db, ev.ID)
		if err != nil {
			return nil, err
		}
		if len(sets) == 0 {
			replies = append(replies, joinFields(eventHeader(ev), "no setlist recorded"))
			continue
		}
		fields := []string{eventHeader(ev)}
		for _, s := range sets {
			fields = append(fields, s.SetName+": "+s.Songs)
		}
		replies = append(replies, joinFields(fields...))
	}
	return replies, nil
}

// cmdOnThisDay answers "otd [date]", every show on that month-day across
// the years. Defaults to today.
func (b *Bot) cmdOnThisDay(ctx context.Context, args string) ([]string, error) {
	day := time.Now().UTC()
	if strings.TrimSpace(args) != "" {
		t, ok := resolve.ParseDate(args)
		if !ok {
			return []string{fmt.Sprintf("couldn't read '%s' as a date", strings.TrimSpace(args))}, nil
		}
		day = t
	}
	monthDay := day.Format("01-02")

	events, err := db.GetEventsOnDay(ctx, b.db, monthDay)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []string{"no shows on " + day.Format("January 2")}, nil
	}
	fields := []string{fmt.Sprintf("%s: %d shows", day.Format("January 2"), len(events))}
	for _, ev := range events {
		fields = append(fields, eventHeader(ev))
	}
	return []string{joinFields(fields...)}, nil
}

// cmdBootleg answers "bootleg <date>".
func (b *Bot) cmdBootleg(ctx context.Context, args string) ([]string, error) {
	t, ok := resolve.ParseDate(args)
	if strings.TrimSpace(args) == "" || !ok {
		return []string{"usage: bootleg <date>"}, nil
	}
	date := t.Format("2006-01-02")
	boots, err := db.GetBootlegsOnDate(ctx, b.db, date)
	if err != nil {
		return nil, err
	}
	if len(boots) == 0 {
		return []string{"no recordings known for " + date}, nil
	}
	fields := []string{fmt.Sprintf("%s: %d recordings", date, len(boots))}
	for _, bt := range boots {
		part := bt.Title
		if bt.Label != "" {
			part += " [" + bt.Label + "]"
		}
		if bt.Category != "" {
			part += " (" + bt.Category + ")"
		}
		fields = append(fields, part)
	}
	return []string{joinFields(fields...)}, nil
}

// cmdArchive answers "archive <date>" and "archive latest".
func (b *Bot) cmdArchive(ctx context.Context, args string) ([]string, error) {
	trimmed := strings.TrimSpace(args)
	var links []db.ArchiveLink
	var err error
	var label string
	if trimmed == "" || strings.EqualFold(trimmed, "latest") {
		links, err = db.GetLatestArchive(ctx, b.db, 10)
		label = "latest tapes"
	} else {
		t, ok := resolve.ParseDate(args)
		if !ok {
			return []string{fmt.Sprintf("couldn't read '%s' as a date", trimmed)}, nil
		}
		date := t.Format("2006-01-02")
		links, err = db.GetArchiveOnDate(ctx, b.db, date)
		label = "tapes for " + date
	}
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return []string{"no " + label}, nil
	}
	fields := []string{label}
	for _, l := range links {
		if l.EventDate != "" {
			fields = append(fields, l.EventDate+" "+l.URL)
		} else {
			fields = append(fields, l.URL)
		}
	}
	return []string{joinFields(fields...)}, nil
}

// eventHeader is date, location, and tour for one show.
func eventHeader(ev db.Event) string {
	parts := []string{ev.Formatted}
	if ev.Location != "" {
		parts = append(parts, ev.Location)
	}
	if ev.Tour != "" {
		parts = append(parts, ev.Tour)
	}
	if ev.URL != "" {
		parts = append(parts, ev.URL)
	}
	return strings.Join(parts, " - ")
}
