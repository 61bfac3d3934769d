package bot

import (
	"context"
	"strings"

	"github.com/lilbud/brucebot/resolve"
)

// cmdFind answers "find <kind> <text>", listing every match instead of
// picking a winner. Useful when a name is too vague for the single-result
// commands.
func (b *Bot) cmdFind(ctx context.Context, args string) ([]string, error) {
	kindWord, rest := splitCommand(args)
	kind, err := resolve.ParseKind(kindWord)
	if err != nil || strings.TrimSpace(rest) == "" {
		return []string{"usage: find <song|album|venue|city|state|country|tour|relation> <text>"}, nil
	}

	ents, miss, err := b.resolveMany(ctx, kind, rest)
	if err != nil {
		return nil, err
	}
	if miss != "" {
		return []string{miss}, nil
	}
	names := make([]string, 0, len(ents))
	for i, e := range ents {
		if i == 10 {
			break
		}
		names = append(names, e.DisplayName)
	}
	return []string{joinFields(names...)}, nil
}
