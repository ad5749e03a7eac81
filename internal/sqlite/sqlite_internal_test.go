package sqlite

import (
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/myrjola/fitplan/internal/testhelpers"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(t.Context(), ":memory:", testhelpers.NewLogger(testhelpers.NewWriter(t)))
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() {
		if err = db.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return db
}

func TestNewDatabase_schema(t *testing.T) {
	t.Parallel()
	db := newTestDatabase(t)
	ctx := t.Context()

	if _, err := db.ReadWrite.ExecContext(ctx,
		"INSERT INTO plans (title, planned_date) VALUES ('体幹ベーシック', '2026-01-05')"); err != nil {
		t.Fatalf("insert plan: %v", err)
	}
	var minutes int
	if err := db.ReadOnly.QueryRowContext(ctx, "SELECT planned_minutes FROM plans").Scan(&minutes); err != nil {
		t.Fatalf("select plan: %v", err)
	}
	if minutes != 30 {
		t.Errorf("planned_minutes default = %d, want 30", minutes)
	}

	rejected := []string{
		"INSERT INTO plans (title, planned_date) VALUES ('', '2026-01-05')",
		"INSERT INTO plans (title, planned_date) VALUES ('x', '2026-1-5')",
		"INSERT INTO plans (title, planned_date) VALUES ('x', '10000-01-01')",
		"INSERT INTO plans (title, planned_date) VALUES ('x', '2026-02-30')",
		"INSERT INTO logs (actual_date, seconds_total) VALUES ('2026-1-5', 10)",
		"INSERT INTO logs (actual_date, seconds_total) VALUES ('10239-09-26', 10)",
		"INSERT INTO logs (actual_date, seconds_total) VALUES ('2026-01-05', 0)",
		"INSERT INTO logs (actual_date, seconds_total, reps) VALUES ('2026-01-05', 10, -1)",
	}
	for _, query := range rejected {
		if _, err := db.ReadWrite.ExecContext(ctx, query); err == nil {
			t.Errorf("expected %q to violate a constraint", query)
		}
	}
}

func TestDatabase_WithTx(t *testing.T) {
	t.Parallel()
	db := newTestDatabase(t)
	ctx := t.Context()
	errBoom := errors.New("boom")

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO plans (title, planned_date) VALUES ('rolled back', '2026-01-05')"); err != nil {
			return err
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("WithTx error = %v, want %v", err, errBoom)
	}

	var count int
	if err = db.ReadOnly.QueryRowContext(ctx, "SELECT count(*) FROM plans").Scan(&count); err != nil {
		t.Fatalf("count plans: %v", err)
	}
	if count != 0 {
		t.Errorf("plans after rollback = %d, want 0", count)
	}
}

func TestDatabase_Backup(t *testing.T) {
	t.Parallel()
	db := newTestDatabase(t)
	ctx := t.Context()

	if _, err := db.ReadWrite.ExecContext(ctx,
		"INSERT INTO logs (actual_date, seconds_total) VALUES ('2026-01-05', 90)"); err != nil {
		t.Fatalf("insert log: %v", err)
	}

	path, err := db.Backup(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if _, err = os.Stat(path); err != nil {
		t.Fatalf("stat backup: %v", err)
	}

	restored, err := NewDatabase(ctx, path, testhelpers.NewLogger(testhelpers.NewWriter(t)))
	if err != nil {
		t.Fatalf("open backup: %v", err)
	}
	defer func() {
		if err = restored.Close(); err != nil {
			t.Errorf("close backup: %v", err)
		}
	}()
	var seconds int
	if err = restored.ReadOnly.QueryRowContext(ctx, "SELECT seconds_total FROM logs").Scan(&seconds); err != nil {
		t.Fatalf("select restored log: %v", err)
	}
	if seconds != 90 {
		t.Errorf("restored seconds_total = %d, want 90", seconds)
	}
}
