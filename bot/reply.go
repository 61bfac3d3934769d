package bot

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lilbud/brucebot/resolve"
	"github.com/lilbud/brucebot/telemetry"
)

// maxMessageLen keeps replies under the IRC line limit with headroom for
// the protocol framing Twitch adds.
const maxMessageLen = 450

// chunkMessage splits text into pieces no longer than n runes, breaking on
// the separator boundaries replies are built from where possible. Cuts are
// always on rune boundaries so no piece carries invalid UTF-8.
func chunkMessage(text string, n int) []string {
	if utf8.RuneCountInString(text) <= n {
		return []string{text}
	}
	var parts []string
	for utf8.RuneCountInString(text) > n {
		window := string([]rune(text)[:n])
		cut := strings.LastIndex(window, " | ")
		if cut <= 0 {
			cut = strings.LastIndex(window, " ")
		}
		if cut <= 0 {
			cut = len(window)
		}
		parts = append(parts, strings.TrimSuffix(strings.TrimSpace(text[:cut]), "|"))
		text = strings.TrimPrefix(strings.TrimSpace(text[cut:]), "| ")
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}

// resolveOne resolves raw text to exactly one entity of the given kind.
// On NotFound the returned reply is non-empty; handlers send it and stop.
func (b *Bot) resolveOne(ctx context.Context, kind resolve.EntityKind, raw string) (resolve.ResolvedEntity, string, error) {
	var res resolve.Result
	var err error
	telemetry.TimeFunc(telemetry.ResolveDuration, func() {
		res, err = b.resolver.Resolve(ctx, raw, kind, resolve.Single)
	})
	if err != nil {
		return resolve.ResolvedEntity{}, "", err
	}
	telemetry.CountResolution(kind.String(), res.Outcome.String())
	if res.Outcome == resolve.NotFound {
		return resolve.ResolvedEntity{}, notFoundReply(kind, res.Query), nil
	}
	return res.Entity, "", nil
}

// resolveMany is resolveOne for commands that list alternatives.
func (b *Bot) resolveMany(ctx context.Context, kind resolve.EntityKind, raw string) ([]resolve.ResolvedEntity, string, error) {
	res, err := b.resolver.Resolve(ctx, raw, kind, resolve.Many)
	if err != nil {
		return nil, "", err
	}
	telemetry.CountResolution(kind.String(), res.Outcome.String())
	if res.Outcome == resolve.NotFound {
		return nil, notFoundReply(kind, res.Query), nil
	}
	return res.Entities, "", nil
}

// notFoundReply echoes the user's own words back so they can spot typos.
func notFoundReply(kind resolve.EntityKind, query string) string {
	return fmt.Sprintf("no %s found matching '%s'", kind, strings.TrimSpace(query))
}

// joinFields builds the pipe-delimited reply format used everywhere.
func joinFields(fields ...string) string {
	kept := fields[:0]
	for _, f := range fields {
		if f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " | ")
}
