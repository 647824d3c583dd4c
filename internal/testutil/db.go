package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-DropInService/migrations"
)

const testLockID int64 = 730215842

// NewTestDB connects to TEST_DATABASE_URL, applies migrations and empties
// every table. The test is skipped when the variable is unset or the
// database is unreachable.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Skipf("open database: %v", err)
	}

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		t.Skipf("database unavailable: %v", err)
	}

	// Packages run in parallel against one database; the session lock keeps
	// one test at a time between truncate and cleanup.
	conn, err := db.Conn(context.Background())
	if err != nil {
		_ = db.Close()
		t.Fatalf("acquire conn: %v", err)
	}
	if _, err := conn.ExecContext(context.Background(), `SELECT pg_advisory_lock($1)`, testLockID); err != nil {
		_ = conn.Close()
		_ = db.Close()
		t.Fatalf("acquire test lock: %v", err)
	}
	t.Cleanup(func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, testLockID)
		_ = conn.Close()
		_ = db.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrations.Apply(ctx, db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if _, err := db.ExecContext(ctx, `TRUNCATE bookings, blocked_slots, action_history, service_settings`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	return db
}
