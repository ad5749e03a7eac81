package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/fitplan/internal/sqlite"
)

// planRepository persists plans. Deleting a plan deletes its logs.
type planRepository interface {
	// Get returns ErrNotFound when no plan has the id.
	Get(ctx context.Context, id int) (Plan, error)
	// List returns all plans ordered by date and id.
	List(ctx context.Context) ([]Plan, error)
	// ListOn returns the plans of a date ordered by id.
	ListOn(ctx context.Context, date time.Time) ([]Plan, error)
	Create(ctx context.Context, plan Plan) (Plan, error)
	// Update loads the plan, applies updateFn and stores the result in one transaction.
	Update(ctx context.Context, id int, updateFn func(p *Plan) error) (Plan, error)
	Delete(ctx context.Context, id int) error
	// ReplaceRange atomically deletes the plans dated within [from, to] with their logs and inserts plans.
	ReplaceRange(ctx context.Context, from, to time.Time, plans []Plan) error
}

// logRepository persists logs.
type logRepository interface {
	Get(ctx context.Context, id int) (Log, error)
	// List returns all logs, newest first, with the titles of their plans.
	List(ctx context.Context) ([]LogEntry, error)
	// ListOn returns the logs of a date ordered by id.
	ListOn(ctx context.Context, date time.Time) ([]LogEntry, error)
	// ListForPlan returns the logs of a plan ordered by date and id. A nil exerciseName selects whole-plan logs.
	ListForPlan(ctx context.Context, planID int, exerciseName *string) ([]Log, error)
	// Create inserts the log. When the log references a plan, the plan must exist at insert time.
	Create(ctx context.Context, log Log) (Log, error)
	Update(ctx context.Context, id int, updateFn func(l *Log) error) (Log, error)
	Delete(ctx context.Context, id int) error
}

type repository struct {
	plans planRepository
	logs  logRepository
}

type repositoryFactory struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepositoryFactory(db *sqlite.Database, logger *slog.Logger) *repositoryFactory {
	return &repositoryFactory{db: db, logger: logger}
}

func (f *repositoryFactory) newRepository() *repository {
	base := newBaseRepository(f.db, f.logger)
	return &repository{
		plans: &sqlitePlanRepository{baseRepository: base},
		logs:  &sqliteLogRepository{baseRepository: base},
	}
}

type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newBaseRepository(db *sqlite.Database, logger *slog.Logger) baseRepository {
	return baseRepository{db: db, logger: logger}
}

// queryer is implemented by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// queryAll runs query and scans every row with scan.
func queryAll[T any](
	ctx context.Context, q queryer, scan func(scanner) (T, error), query string, args ...any,
) (_ []T, err error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	var items []T
	for rows.Next() {
		var item T
		if item, err = scan(rows); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateFormat)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// mustAffectOne returns ErrNotFound when result affected no rows.
func mustAffectOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
