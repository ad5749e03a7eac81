package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/myrjola/fitplan/internal/sqlite"
)

// Service handles the business logic of plans and logs.
type Service struct {
	repo   *repository
	db     *sqlite.Database
	logger *slog.Logger
}

// NewService creates a new tracker service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	factory := newRepositoryFactory(db, logger)
	return &Service{
		repo:   factory.newRepository(),
		db:     db,
		logger: logger,
	}
}

// Overview is the home page state.
type Overview struct {
	// Upcoming are the plans dated today or later.
	Upcoming []Plan
	// Overdue are the plans dated before today.
	Overdue  []Plan
	Progress Progress
}

// Overview splits the plans around today and computes the overall progress.
func (s *Service) Overview(ctx context.Context, today time.Time) (Overview, error) {
	var (
		plans []Plan
		logs  []LogEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plans, err = s.repo.plans.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = s.repo.logs.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, fmt.Errorf("load overview: %w", err)
	}

	today = DateOf(today)
	overview := Overview{
		Upcoming: []Plan{},
		Overdue:  []Plan{},
		Progress: OverallProgress(plans, entriesToLogs(logs)),
	}
	for _, p := range plans {
		if p.PlannedDate.Before(today) {
			overview.Overdue = append(overview.Overdue, p)
		} else {
			overview.Upcoming = append(overview.Upcoming, p)
		}
	}
	return overview, nil
}

// Day is the state of a single date.
type Day struct {
	Date  time.Time
	Plans []Plan
	Logs  []LogEntry
	// Done holds the ids of the day's plans that have a log on the day.
	Done     map[int]bool
	Progress Progress
}

// Day loads the plans and logs of date.
func (s *Service) Day(ctx context.Context, date time.Time) (Day, error) {
	date = DateOf(date)
	day := Day{Date: date} //nolint:exhaustruct // filled below.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		day.Plans, err = s.repo.plans.ListOn(gctx, date)
		return err
	})
	g.Go(func() error {
		var err error
		day.Logs, err = s.repo.logs.ListOn(gctx, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return Day{}, fmt.Errorf("load day %s: %w", formatDate(date), err)
	}
	logs := entriesToLogs(day.Logs)
	day.Done = doneSet(logs)
	day.Progress = DayProgress(day.Plans, logs)
	return day, nil
}

// GetPlan returns ErrNotFound when the plan does not exist.
func (s *Service) GetPlan(ctx context.Context, id int) (Plan, error) {
	plan, err := s.repo.plans.Get(ctx, id)
	if err != nil {
		return Plan{}, fmt.Errorf("get plan %d: %w", id, err)
	}
	return plan, nil
}

func (s *Service) CreatePlan(ctx context.Context, in PlanInput) (Plan, error) {
	if err := in.validate(); err != nil {
		return Plan{}, err
	}
	var plan Plan
	in.apply(&plan)
	plan, err := s.repo.plans.Create(ctx, plan)
	if err != nil {
		return Plan{}, fmt.Errorf("create plan: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "created plan", slog.Int("plan_id", plan.ID))
	return plan, nil
}

func (s *Service) UpdatePlan(ctx context.Context, id int, in PlanInput) (Plan, error) {
	if err := in.validate(); err != nil {
		return Plan{}, err
	}
	plan, err := s.repo.plans.Update(ctx, id, func(p *Plan) error {
		in.apply(p)
		return nil
	})
	if err != nil {
		return Plan{}, fmt.Errorf("update plan %d: %w", id, err)
	}
	return plan, nil
}

// PostponePlan moves the plan to a new date or shifts it by a number of days.
func (s *Service) PostponePlan(ctx context.Context, id int, postpone Postpone) (Plan, error) {
	plan, err := s.repo.plans.Update(ctx, id, postpone.apply)
	if err != nil {
		return Plan{}, fmt.Errorf("postpone plan %d: %w", id, err)
	}
	return plan, nil
}

// DeletePlan deletes the plan and all logs referencing it.
func (s *Service) DeletePlan(ctx context.Context, id int) error {
	if err := s.repo.plans.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete plan %d: %w", id, err)
	}
	return nil
}

// PlanSummary aggregates the whole-plan logs of a plan.
func (s *Service) PlanSummary(ctx context.Context, id int) (PlanSummary, error) {
	plan, err := s.GetPlan(ctx, id)
	if err != nil {
		return PlanSummary{}, err
	}
	logs, err := s.repo.logs.ListForPlan(ctx, id, nil)
	if err != nil {
		return PlanSummary{}, fmt.Errorf("plan summary %d: %w", id, err)
	}
	return SummarisePlan(plan, logs), nil
}

// RecordPlanTime logs time spent on the whole plan.
func (s *Service) RecordPlanTime(ctx context.Context, id int, in LogInput) (Log, error) {
	if err := in.validate(); err != nil {
		return Log{}, err
	}
	log := Log{PlanID: &id} //nolint:exhaustruct // filled by apply.
	in.apply(&log)
	log, err := s.repo.logs.Create(ctx, log)
	if err != nil {
		return Log{}, fmt.Errorf("record plan %d time: %w", id, err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "recorded plan time",
		slog.Int("plan_id", id), slog.Int("seconds_total", log.SecondsTotal))
	return log, nil
}

// ExerciseSummary aggregates the logs of the exercise at index of a plan.
func (s *Service) ExerciseSummary(ctx context.Context, id, index int, level Level) (ExerciseSummary, error) {
	plan, err := s.GetPlan(ctx, id)
	if err != nil {
		return ExerciseSummary{}, err
	}
	name, err := plan.Exercise(index)
	if err != nil {
		return ExerciseSummary{}, fmt.Errorf("exercise %d of plan %d: %w", index, id, err)
	}
	logs, err := s.repo.logs.ListForPlan(ctx, id, &name)
	if err != nil {
		return ExerciseSummary{}, fmt.Errorf("exercise summary %d/%d: %w", id, index, err)
	}
	return SummariseExercise(plan, index, logs, level)
}

// RecordExercise logs a set of the exercise at index of a plan.
func (s *Service) RecordExercise(ctx context.Context, id, index int, in LogInput) (Log, error) {
	plan, err := s.GetPlan(ctx, id)
	if err != nil {
		return Log{}, err
	}
	name, err := plan.Exercise(index)
	if err != nil {
		return Log{}, fmt.Errorf("exercise %d of plan %d: %w", index, id, err)
	}
	if err = in.validate(); err != nil {
		return Log{}, err
	}
	log := Log{PlanID: &id, ExerciseName: &name} //nolint:exhaustruct // filled by apply.
	in.apply(&log)
	if log, err = s.repo.logs.Create(ctx, log); err != nil {
		return Log{}, fmt.Errorf("record exercise %d/%d: %w", id, index, err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "recorded exercise",
		slog.Int("plan_id", id), slog.String("exercise", name), slog.Int("seconds_total", log.SecondsTotal))
	return log, nil
}

// ListLogs returns all logs, newest first.
func (s *Service) ListLogs(ctx context.Context) ([]LogEntry, error) {
	logs, err := s.repo.logs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return logs, nil
}

func (s *Service) GetLog(ctx context.Context, id int) (Log, error) {
	log, err := s.repo.logs.Get(ctx, id)
	if err != nil {
		return Log{}, fmt.Errorf("get log %d: %w", id, err)
	}
	return log, nil
}

// UpdateLog edits a log. The plan and exercise it refers to are unchanged.
func (s *Service) UpdateLog(ctx context.Context, id int, in LogInput) (Log, error) {
	if err := in.validate(); err != nil {
		return Log{}, err
	}
	log, err := s.repo.logs.Update(ctx, id, func(l *Log) error {
		in.apply(l)
		return nil
	})
	if err != nil {
		return Log{}, fmt.Errorf("update log %d: %w", id, err)
	}
	return log, nil
}

func (s *Service) DeleteLog(ctx context.Context, id int) error {
	if err := s.repo.logs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete log %d: %w", id, err)
	}
	return nil
}

// AutoPlanResult describes a generated auto plan.
type AutoPlanResult struct {
	Start time.Time
	End   time.Time
	Count int
}

// GenerateAutoPlan replaces every plan dated within the AutoPlanDays days from start, together with their logs,
// by a freshly generated auto plan. Readers observe either the old or the new range.
func (s *Service) GenerateAutoPlan(ctx context.Context, start time.Time) (AutoPlanResult, error) {
	start = DateOf(start)
	end := AutoPlanEnd(start)
	if !storable(start) || !storable(end) {
		return AutoPlanResult{}, invalidDate("start_date", start)
	}
	plans := GeneratePlans(start)
	if err := s.repo.plans.ReplaceRange(ctx, start, end, plans); err != nil {
		return AutoPlanResult{}, fmt.Errorf("generate auto plan from %s: %w", formatDate(start), err)
	}
	return AutoPlanResult{Start: start, End: end, Count: len(plans)}, nil
}

// Export loads every plan and log.
func (s *Service) Export(ctx context.Context) ([]Plan, []LogEntry, error) {
	var (
		plans []Plan
		logs  []LogEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plans, err = s.repo.plans.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = s.repo.logs.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("export: %w", err)
	}
	return plans, logs, nil
}

// Backup writes a copy of the database into dir and returns its path.
func (s *Service) Backup(ctx context.Context, dir string) (string, error) {
	path, err := s.db.Backup(ctx, dir)
	if err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}
	return path, nil
}

func entriesToLogs(entries []LogEntry) []Log {
	logs := make([]Log, len(entries))
	for i, e := range entries {
		logs[i] = e.Log
	}
	return logs
}
