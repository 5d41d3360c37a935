package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/content-publishing-api/internal/errs"
	"github.com/rs/zerolog"
)

func TestWithTx_UnreachableDatabaseIsUpstream(t *testing.T) {
	// Nothing listens on port 1, so the first connection attempt is refused
	sqlDB, err := sql.Open("postgres", "host=127.0.0.1 port=1 user=test dbname=test sslmode=disable connect_timeout=1")
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	defer sqlDB.Close()

	db := &DB{DB: sqlDB, log: zerolog.Nop()}

	called := false
	err = db.WithTx(context.Background(), func(tx *sql.Tx) error {
		called = true
		return nil
	})

	if err == nil {
		t.Fatal("Expected an error from an unreachable database")
	}
	if called {
		t.Error("Unit of work must not run without a transaction")
	}
	if !errs.IsUpstreamUnavailable(err) {
		t.Errorf("Expected UpstreamUnavailable, got %v", err)
	}
	if errs.IsTransactionFailed(err) {
		t.Errorf("Begin failure must not be reported as a transaction failure: %v", err)
	}
}
