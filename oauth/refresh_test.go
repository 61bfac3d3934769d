package oauth

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lilbud/brucebot/db"
	"github.com/lilbud/brucebot/testutil"
)

func TestRefresherSkipsFreshToken(t *testing.T) {
	dbx := testutil.SetupTestDB(t)

	err := db.UpsertOAuthToken(context.Background(), dbx, "test-provider",
		"access123", "refresh456", time.Now().Add(1*time.Hour), "chat:read")
	if err != nil {
		t.Fatalf("failed to insert test token: %v", err)
	}

	var called atomic.Bool
	fn := func(ctx context.Context, refreshToken string) (string, string, time.Time, string, error) {
		called.Store(true)
		return "new-access", "new-refresh", time.Now().Add(2 * time.Hour), "chat:read", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	StartRefresher(ctx, dbx, "test-provider", 50*time.Millisecond, 30*time.Minute, fn)
	<-ctx.Done()

	if called.Load() {
		t.Error("refresh should not run for a token with an hour of life and a 30 minute window")
	}
}

func TestRefresherRefreshesExpiringToken(t *testing.T) {
	dbx := testutil.SetupTestDB(t)

	err := db.UpsertOAuthToken(context.Background(), dbx, "test-provider",
		"old-access", "old-refresh", time.Now().Add(5*time.Minute), "chat:read")
	if err != nil {
		t.Fatalf("failed to insert test token: %v", err)
	}

	var called atomic.Bool
	newExpiry := time.Now().Add(2 * time.Hour)
	fn := func(ctx context.Context, refreshToken string) (string, string, time.Time, string, error) {
		if refreshToken != "old-refresh" {
			t.Errorf("refresh called with token %q, want old-refresh", refreshToken)
		}
		called.Store(true)
		return "new-access", "new-refresh", newExpiry, "chat:read chat:edit", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartRefresher(ctx, dbx, "test-provider", 50*time.Millisecond, 15*time.Minute, fn)
	time.Sleep(400 * time.Millisecond)
	cancel()

	if !called.Load() {
		t.Fatal("refresh should run for a token expiring within the window")
	}

	access, refresh, _, scope, err := db.GetOAuthToken(context.Background(), dbx, "test-provider")
	if err != nil {
		t.Fatalf("failed to read updated token: %v", err)
	}
	if access != "new-access" {
		t.Errorf("access token = %q, want new-access", access)
	}
	if refresh != "new-refresh" {
		t.Errorf("refresh token = %q, want new-refresh", refresh)
	}
	if scope != "chat:read chat:edit" {
		t.Errorf("scope = %q, want chat:read chat:edit", scope)
	}
}

func TestRefresherKeepsOldRefreshToken(t *testing.T) {
	dbx := testutil.SetupTestDB(t)

	err := db.UpsertOAuthToken(context.Background(), dbx, "test-provider",
		"old-access", "old-refresh", time.Now().Add(1*time.Minute), "chat:read")
	if err != nil {
		t.Fatalf("failed to insert test token: %v", err)
	}

	fn := func(ctx context.Context, refreshToken string) (string, string, time.Time, string, error) {
		// Providers may omit the rotated refresh token.
		return "new-access", "", time.Now().Add(2 * time.Hour), "", nil
	}

	refreshOnce(context.Background(), dbx, "test-provider", 15*time.Minute, fn)

	_, refresh, _, scope, err := db.GetOAuthToken(context.Background(), dbx, "test-provider")
	if err != nil {
		t.Fatalf("failed to read updated token: %v", err)
	}
	if refresh != "old-refresh" {
		t.Errorf("refresh token = %q, want old-refresh kept", refresh)
	}
	if scope != "chat:read" {
		t.Errorf("scope = %q, want chat:read kept", scope)
	}
}
