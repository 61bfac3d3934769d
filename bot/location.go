package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/lilbud/brucebot/db"
	"github.com/lilbud/brucebot/resolve"
)

var locationKinds = map[string]resolve.EntityKind{
	"city":    resolve.KindCity,
	"state":   resolve.KindState,
	"country": resolve.KindCountry,
}

// locationHandler builds the city/state/country handler. All three share
// the same shape: resolve the name, then summarize the event span there.
func (b *Bot) locationHandler(kind string) handlerFunc {
	entityKind := locationKinds[kind]
	return func(ctx context.Context, args string) ([]string, error) {
		if strings.TrimSpace(args) == "" {
			return []string{fmt.Sprintf("usage: %s <name>", kind)}, nil
		}
		ent, miss, err := b.resolveOne(ctx, entityKind, args)
		if err != nil {
			return nil, err
		}
		if miss != "" {
			return []string{miss}, nil
		}
		// The span queries filter events by the bare location name, not the
		// display-qualified one.
		span, err := db.GetLocationSpan(ctx, b.db, kind, ent.Name)
		if err != nil {
			return nil, err
		}
		return []string{spanReply(ent.DisplayName, span)}, nil
	}
}

// cmdVenue answers "venue <name>".
func (b *Bot) cmdVenue(ctx context.Context, args string) ([]string, error) {
	if strings.TrimSpace(args) == "" {
		return []string{"usage: venue <name>"}, nil
	}
	ent, miss, err := b.resolveOne(ctx, resolve.KindVenue, args)
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
	span, err := db.GetVenueSpan(ctx, b.db, id)
	if err != nil {
		return nil, err
	}
	return []string{spanReply(ent.DisplayName, span)}, nil
}

func spanReply(name string, span *db.EventSpan) string {
	if span.Events == 0 {
		return name + " has no recorded shows"
	}
	fields := []string{fmt.Sprintf("%s: %d shows", name, span.Events)}
	if span.FirstDate != "" {
		fields = append(fields, "first "+span.FirstDate)
	}
	if span.LastDate != "" && span.LastDate != span.FirstDate {
		fields = append(fields, "last "+span.LastDate)
	}
	if span.LastURL != "" {
		fields = append(fields, span.LastURL)
	}
	return joinFields(fields...)
}
