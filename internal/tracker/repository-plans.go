package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// sqlitePlanRepository implements planRepository.
type sqlitePlanRepository struct {
	baseRepository
}

const planColumns = "id, title, exercises, planned_date, planned_minutes, notes"

func scanPlan(row scanner) (Plan, error) {
	var (
		p         Plan
		exercises string
		date      string
	)
	if err := row.Scan(&p.ID, &p.Title, &exercises, &date, &p.PlannedMinutes, &p.Notes); err != nil {
		return Plan{}, fmt.Errorf("scan plan: %w", err)
	}
	p.Exercises = ParseExercises(exercises)
	var err error
	if p.PlannedDate, err = parseDate(date); err != nil {
		return Plan{}, err
	}
	return p, nil
}

func (r *sqlitePlanRepository) Get(ctx context.Context, id int) (Plan, error) {
	return getPlan(ctx, r.db.ReadOnly, id)
}

func getPlan(ctx context.Context, q queryer, id int) (Plan, error) {
	p, err := scanPlan(q.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Plan{}, ErrNotFound
	}
	if err != nil {
		return Plan{}, fmt.Errorf("get plan %d: %w", id, err)
	}
	return p, nil
}

func (r *sqlitePlanRepository) List(ctx context.Context) ([]Plan, error) {
	plans, err := queryAll(ctx, r.db.ReadOnly, scanPlan,
		`SELECT `+planColumns+` FROM plans ORDER BY planned_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

func (r *sqlitePlanRepository) ListOn(ctx context.Context, date time.Time) ([]Plan, error) {
	plans, err := queryAll(ctx, r.db.ReadOnly, scanPlan,
		`SELECT `+planColumns+` FROM plans WHERE planned_date = ? ORDER BY id`, formatDate(date))
	if err != nil {
		return nil, fmt.Errorf("list plans on %s: %w", formatDate(date), err)
	}
	return plans, nil
}

func (r *sqlitePlanRepository) Create(ctx context.Context, plan Plan) (Plan, error) {
	var err error
	if plan.ID, err = insertPlan(ctx, r.db.ReadWrite, plan); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertPlan(ctx context.Context, e execer, plan Plan) (int, error) {
	result, err := e.ExecContext(ctx, `
		INSERT INTO plans (title, exercises, planned_date, planned_minutes, notes)
		VALUES (?, ?, ?, ?, ?)`,
		plan.Title, JoinExercises(plan.Exercises), formatDate(plan.PlannedDate), plan.PlannedMinutes, plan.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert plan: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return int(id), nil
}

func (r *sqlitePlanRepository) Update(ctx context.Context, id int, updateFn func(p *Plan) error) (Plan, error) {
	var plan Plan
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		if plan, err = getPlan(ctx, tx, id); err != nil {
			return err
		}
		if err = updateFn(&plan); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE plans
			SET title = ?, exercises = ?, planned_date = ?, planned_minutes = ?, notes = ?
			WHERE id = ?`,
			plan.Title, JoinExercises(plan.Exercises), formatDate(plan.PlannedDate), plan.PlannedMinutes, plan.Notes,
			id)
		if err != nil {
			return fmt.Errorf("update plan %d: %w", id, err)
		}
		return mustAffectOne(result)
	})
	if err != nil {
		return Plan{}, err
	}
	return plan, nil
}

func (r *sqlitePlanRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		logs, err := tx.ExecContext(ctx, `DELETE FROM logs WHERE plan_id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete logs of plan %d: %w", id, err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete plan %d: %w", id, err)
		}
		if err = mustAffectOne(result); err != nil {
			return err
		}
		if n, err := logs.RowsAffected(); err == nil {
			r.logger.LogAttrs(ctx, slog.LevelDebug, "deleted plan",
				slog.Int("plan_id", id), slog.Int64("deleted_logs", n))
		}
		return nil
	})
}

func (r *sqlitePlanRepository) ReplaceRange(ctx context.Context, from, to time.Time, plans []Plan) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM logs
			WHERE plan_id IN (SELECT id FROM plans WHERE planned_date BETWEEN ? AND ?)`,
			formatDate(from), formatDate(to)); err != nil {
			return fmt.Errorf("delete logs in range: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM plans WHERE planned_date BETWEEN ? AND ?`,
			formatDate(from), formatDate(to))
		if err != nil {
			return fmt.Errorf("delete plans in range: %w", err)
		}
		for _, plan := range plans {
			if _, err = insertPlan(ctx, tx, plan); err != nil {
				return err
			}
		}
		if n, err := result.RowsAffected(); err == nil {
			r.logger.LogAttrs(ctx, slog.LevelInfo, "replaced plans",
				slog.String("from", formatDate(from)), slog.String("to", formatDate(to)),
				slog.Int64("deleted", n), slog.Int("inserted", len(plans)))
		}
		return nil
	})
}
