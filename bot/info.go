package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lilbud/brucebot/db"
)

// cmdInfo answers "info" with database record counts.
func (b *Bot) cmdInfo(ctx context.Context, _ string) ([]string, error) {
	st, err := db.GetStats(ctx, b.db)
	if err != nil {
		return nil, err
	}
	return []string{joinFields(
		fmt.Sprintf("%d songs", st.Songs),
		fmt.Sprintf("%d shows", st.Events),
		fmt.Sprintf("%d venues", st.Venues),
		fmt.Sprintf("%d setlists", st.Setlists),
		fmt.Sprintf("%d relations", st.Relations),
	)}, nil
}

// cmdShutdown stops the bot. The router gates this to the owner login; the
// cancel is delayed so the goodbye reaches the channel first.
func (b *Bot) cmdShutdown(_ context.Context, _ string) ([]string, error) {
	slog.Info("shutdown requested by owner")
	if b.requestShutdown != nil {
		time.AfterFunc(time.Second, b.requestShutdown)
	}
	return []string{"going down, see you next tour"}, nil
}
