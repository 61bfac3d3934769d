package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lilbud/brucebot/db"
	"github.com/lilbud/brucebot/telemetry"
)

// Handlers carries the shared dependencies of the HTTP endpoints.
type Handlers struct {
	db      *sql.DB
	started time.Time
}

// HandleHealthz responds to liveness probe requests by checking database connectivity.
func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		http.Error(w, "unhealthy", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HandleReadyz responds to readiness probe requests with detailed checks:
// database reachability and a populated song catalog. An empty catalog means
// the import has not run and every lookup would miss.
func (h *Handlers) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"database", func() error { return h.db.PingContext(r.Context()) }},
		{"catalog", func() error {
			var count int
			if err := h.db.QueryRowContext(r.Context(),
				"SELECT COUNT(*) FROM songs").Scan(&count); err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("song catalog empty")
			}
			return nil
		}},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"status":       "not_ready",
				"failed_check": check.name,
				"error":        err.Error(),
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

// HandleStatus reports uptime, catalog record counts, schema version, and
// whether tracing is exporting.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := db.GetStats(r.Context(), h.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	body := map[string]any{
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"tracing":        telemetry.IsTracingEnabled(),
		"songs":          st.Songs,
		"events":         st.Events,
		"venues":         st.Venues,
		"relations":      st.Relations,
		"setlists":       st.Setlists,
	}
	// Zero on deployments still running the embedded-SQL fallback; absent
	// when the migrations directory isn't shipped alongside the binary.
	if version, dirty, err := db.GetMigrationVersion(h.db); err == nil {
		body["schema_version"] = version
		body["schema_dirty"] = dirty
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
