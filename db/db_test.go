package db

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestConnectDefaultsEmptyDSN(t *testing.T) {
	dbx, err := Connect("")
	if err != nil {
		t.Fatalf("Connect with empty dsn: %v", err)
	}
	dbx.Close()
}

func TestConnectUsesGivenDSN(t *testing.T) {
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set")
	}
	dbx, err := Connect(dsn)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer dbx.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbx.PingContext(ctx); err != nil {
		t.Fatalf("ping via provided dsn: %v", err)
	}
}
