package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
)

// Backup writes a consistent, vacuumed copy of the database into dir and returns the path of the copy.
//
// The copy is a standalone SQLite file that can be opened with NewDatabase to restore the data.
func (db *Database) Backup(ctx context.Context, dir string) (string, error) {
	start := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("fitplan-%s.sqlite3", start.Format("20060102-150405.000000")))
	if _, err := db.ReadWrite.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return "", fmt.Errorf("vacuum into %s: %w", path, err)
	}
	db.logger.LogAttrs(ctx, slog.LevelInfo, "backed up database",
		slog.String("path", path), slog.Duration("duration", time.Since(start)))
	return path, nil
}
