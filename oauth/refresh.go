// Package oauth keeps the bot's chat token alive. Tokens live in the
// oauth_tokens table; a background loop wakes on a jittered interval and
// refreshes any token whose remaining lifetime falls inside the window.
package oauth

import (
	"context"
	"database/sql"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/lilbud/brucebot/db"
)

// RefreshFunc performs provider-specific refresh and returns
// (access, refresh, expiry, scope).
type RefreshFunc func(ctx context.Context, refreshToken string) (string, string, time.Time, string, error)

// StartRefresher launches a goroutine that periodically checks the
// provider's token row and refreshes it when it is close to expiring.
func StartRefresher(ctx context.Context, dbx *sql.DB, provider string, interval, window time.Duration, fn RefreshFunc) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	go func() {
		// Randomized initial delay spreads load across instances.
		//nolint:gosec // G404: math/rand is sufficient for scheduling jitter, not used for security
		initial := time.Duration(rand.Int63n(int64(interval / 2)))
		if !sleepCtx(ctx, initial) {
			return
		}
		for {
			if !sleepCtx(ctx, jittered(interval)) {
				return
			}
			refreshOnce(ctx, dbx, provider, window, fn)
		}
	}()
}

// refreshOnce checks the stored token and refreshes it if needed.
func refreshOnce(ctx context.Context, dbx *sql.DB, provider string, window time.Duration, fn RefreshFunc) {
	_, rt, exp, scope, err := db.GetOAuthToken(ctx, dbx, provider)
	if err != nil || rt == "" {
		return
	}
	if time.Until(exp) > window {
		return
	}

	ctx2, cancel := context.WithTimeout(ctx, 15*time.Second)
	newAT, newRT, newExp, newScope, err := fn(ctx2, rt)
	cancel()
	if err != nil {
		slog.Warn("token refresh failed", slog.String("provider", provider), slog.Any("err", err))
		return
	}
	if newRT == "" {
		newRT = rt
	}
	if newScope == "" {
		newScope = scope
	}
	if err := db.UpsertOAuthToken(ctx, dbx, provider, newAT, newRT, newExp, strings.TrimSpace(newScope)); err != nil {
		slog.Warn("token persist failed", slog.String("provider", provider), slog.Any("err", err))
		return
	}
	slog.Info("token refreshed", slog.String("provider", provider))
}

// jittered widens the interval by up to 20% either way so many instances
// never wake in lockstep.
func jittered(interval time.Duration) time.Duration {
	r := int64(interval / 5)
	//nolint:gosec // G404: math/rand is sufficient for scheduling jitter, not used for security
	d := interval + time.Duration(rand.Int63n(r*2)-r)
	if d < interval/2 {
		d = interval / 2
	}
	return d
}

// sleepCtx sleeps for d or until the context ends; it reports whether the
// full sleep elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
