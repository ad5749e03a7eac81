package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// sqliteLogRepository implements logRepository.
type sqliteLogRepository struct {
	baseRepository
}

const logColumns = "logs.id, plan_id, exercise_name, actual_date, seconds_total, reps, sets, logs.notes"

func scanLogInto(row scanner, extra ...any) (Log, error) {
	var (
		l            Log
		planID       sql.NullInt64
		exerciseName sql.NullString
		date         string
		reps, sets   sql.NullInt64
	)
	dest := append([]any{&l.ID, &planID, &exerciseName, &date, &l.SecondsTotal, &reps, &sets, &l.Notes}, extra...)
	if err := row.Scan(dest...); err != nil {
		return Log{}, fmt.Errorf("scan log: %w", err)
	}
	l.PlanID = intPtr(planID)
	l.ExerciseName = stringPtr(exerciseName)
	l.Reps = intPtr(reps)
	l.Sets = intPtr(sets)
	var err error
	if l.ActualDate, err = parseDate(date); err != nil {
		return Log{}, err
	}
	return l, nil
}

func scanLog(row scanner) (Log, error) {
	return scanLogInto(row)
}

func scanLogEntry(row scanner) (LogEntry, error) {
	var title sql.NullString
	l, err := scanLogInto(row, &title)
	if err != nil {
		return LogEntry{}, err
	}
	return LogEntry{Log: l, PlanTitle: title.String}, nil
}

func (r *sqliteLogRepository) Get(ctx context.Context, id int) (Log, error) {
	return getLog(ctx, r.db.ReadOnly, id)
}

func getLog(ctx context.Context, q queryer, id int) (Log, error) {
	l, err := scanLog(q.QueryRowContext(ctx, `SELECT `+logColumns+` FROM logs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Log{}, ErrNotFound
	}
	if err != nil {
		return Log{}, fmt.Errorf("get log %d: %w", id, err)
	}
	return l, nil
}

func (r *sqliteLogRepository) List(ctx context.Context) ([]LogEntry, error) {
	entries, err := queryAll(ctx, r.db.ReadOnly, scanLogEntry, `
		SELECT `+logColumns+`, plans.title
		FROM logs
		LEFT JOIN plans ON plans.id = logs.plan_id
		ORDER BY actual_date DESC, logs.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return entries, nil
}

func (r *sqliteLogRepository) ListOn(ctx context.Context, date time.Time) ([]LogEntry, error) {
	logs, err := queryAll(ctx, r.db.ReadOnly, scanLogEntry, `
		SELECT `+logColumns+`, plans.title
		FROM logs
		LEFT JOIN plans ON plans.id = logs.plan_id
		WHERE actual_date = ?
		ORDER BY logs.id`, formatDate(date))
	if err != nil {
		return nil, fmt.Errorf("list logs on %s: %w", formatDate(date), err)
	}
	return logs, nil
}

func (r *sqliteLogRepository) ListForPlan(ctx context.Context, planID int, exerciseName *string) ([]Log, error) {
	// IS matches NULL with NULL so a nil name selects the whole-plan logs.
	logs, err := queryAll(ctx, r.db.ReadOnly, scanLog, `
		SELECT `+logColumns+`
		FROM logs
		WHERE plan_id = ? AND exercise_name IS ?
		ORDER BY actual_date, id`, planID, nullString(exerciseName))
	if err != nil {
		return nil, fmt.Errorf("list logs of plan %d: %w", planID, err)
	}
	return logs, nil
}

func (r *sqliteLogRepository) Create(ctx context.Context, log Log) (Log, error) {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		// The check shares the write transaction with the insert so a concurrent plan delete cannot orphan the log.
		if log.PlanID != nil {
			if _, err := getPlan(ctx, tx, *log.PlanID); err != nil {
				return err
			}
		}
		result, err := tx.ExecContext(ctx, `
			INSERT INTO logs (plan_id, exercise_name, actual_date, seconds_total, reps, sets, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			nullInt(log.PlanID), nullString(log.ExerciseName), formatDate(log.ActualDate), log.SecondsTotal,
			nullInt(log.Reps), nullInt(log.Sets), log.Notes)
		if err != nil {
			return fmt.Errorf("insert log: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		log.ID = int(id)
		return nil
	})
	if err != nil {
		return Log{}, err
	}
	return log, nil
}

func (r *sqliteLogRepository) Update(ctx context.Context, id int, updateFn func(l *Log) error) (Log, error) {
	var log Log
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		if log, err = getLog(ctx, tx, id); err != nil {
			return err
		}
		if err = updateFn(&log); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE logs
			SET actual_date = ?, seconds_total = ?, reps = ?, sets = ?, notes = ?
			WHERE id = ?`,
			formatDate(log.ActualDate), log.SecondsTotal, nullInt(log.Reps), nullInt(log.Sets), log.Notes, id)
		if err != nil {
			return fmt.Errorf("update log %d: %w", id, err)
		}
		return mustAffectOne(result)
	})
	if err != nil {
		return Log{}, err
	}
	return log, nil
}

func (r *sqliteLogRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete log %d: %w", id, err)
	}
	return mustAffectOne(result)
}
