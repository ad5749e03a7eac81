package tracker_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/myrjola/fitplan/internal/ptr"
	"github.com/myrjola/fitplan/internal/sqlite"
	"github.com/myrjola/fitplan/internal/testhelpers"
	"github.com/myrjola/fitplan/internal/tracker"
)

func newTestService(t *testing.T) (*tracker.Service, *sqlite.Database) {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(t.Context(), ":memory:", logger)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err = db.Close(); err != nil {
			t.Errorf("Failed to close database: %v", err)
		}
	})
	return tracker.NewService(db, logger), db
}

func mustCreatePlan(t *testing.T, svc *tracker.Service, title, day string, exercises ...string) tracker.Plan {
	t.Helper()
	plan, err := svc.CreatePlan(t.Context(), tracker.PlanInput{
		Title:          title,
		Exercises:      exercises,
		PlannedDate:    date(day),
		PlannedMinutes: tracker.DefaultPlannedMinutes,
		Notes:          "",
	})
	if err != nil {
		t.Fatalf("CreatePlan(%q): %v", title, err)
	}
	return plan
}

func logInput(day string, seconds int) tracker.LogInput {
	return tracker.LogInput{ActualDate: date(day), SecondsTotal: seconds, Reps: nil, Sets: nil, Notes: ""}
}

func isValidationError(err error) bool {
	var validationErr *tracker.ValidationError
	return errors.As(err, &validationErr)
}

func TestService_PlanLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := t.Context()

	plan, err := svc.CreatePlan(ctx, tracker.PlanInput{
		Title:          "  体幹ベーシック ",
		Exercises:      []string{"プランク", " ", "ドローイン"},
		PlannedDate:    date("2026-01-05"),
		PlannedMinutes: 20,
		Notes:          "**しっかり**",
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	got, err := svc.GetPlan(ctx, plan.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	want := tracker.Plan{
		ID:             plan.ID,
		Title:          "体幹ベーシック",
		Exercises:      []string{"プランク", "ドローイン"},
		PlannedDate:    date("2026-01-05"),
		PlannedMinutes: 20,
		Notes:          "**しっかり**",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetPlan mismatch (-want +got):\n%s", diff)
	}

	updated, err := svc.UpdatePlan(ctx, plan.ID, tracker.PlanInput{
		Title:          "体幹維持",
		Exercises:      []string{"プランク"},
		PlannedDate:    date("2026-01-06"),
		PlannedMinutes: 25,
		Notes:          "",
	})
	if err != nil {
		t.Fatalf("UpdatePlan: %v", err)
	}
	if updated.Title != "体幹維持" || !updated.PlannedDate.Equal(date("2026-01-06")) || len(updated.Exercises) != 1 {
		t.Errorf("UpdatePlan() = %+v", updated)
	}

	if _, err = svc.UpdatePlan(ctx, plan.ID, tracker.PlanInput{Title: " ", PlannedDate: date("2026-01-06")}); !isValidationError(err) {
		t.Errorf("UpdatePlan with blank title error = %v, want ValidationError", err)
	}
	if _, err = svc.UpdatePlan(ctx, 999, tracker.PlanInput{Title: "x", PlannedDate: date("2026-01-06")}); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("UpdatePlan of missing plan error = %v, want ErrNotFound", err)
	}
	if _, err = svc.GetPlan(ctx, 999); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("GetPlan of missing plan error = %v, want ErrNotFound", err)
	}
}

func TestService_CreatePlan_validation(t *testing.T) {
	svc, _ := newTestService(t)
	tests := []struct {
		name string
		in   tracker.PlanInput
	}{
		{name: "blank title", in: tracker.PlanInput{Title: "", PlannedDate: date("2026-01-05")}},
		{name: "missing date", in: tracker.PlanInput{Title: "x"}},
		{name: "negative minutes", in: tracker.PlanInput{Title: "x", PlannedDate: date("2026-01-05"), PlannedMinutes: -1}},
		{name: "five digit year", in: tracker.PlanInput{Title: "x", PlannedDate: time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)}},
		{name: "year zero", in: tracker.PlanInput{Title: "x", PlannedDate: date("0000-12-31")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreatePlan(t.Context(), tt.in); !isValidationError(err) {
				t.Errorf("CreatePlan error = %v, want ValidationError", err)
			}
		})
	}
	overview, err := svc.Overview(t.Context(), date("2026-01-01"))
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if len(overview.Upcoming)+len(overview.Overdue) != 0 {
		t.Errorf("rejected plans were stored: %+v", overview)
	}
}

func TestService_PostponePlan(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := t.Context()
	plan := mustCreatePlan(t, svc, "ウォーキング", "2026-01-05")

	got, err := svc.PostponePlan(ctx, plan.ID, tracker.Postpone{NewDate: nil, Days: ptr.Ref(3)})
	if err != nil {
		t.Fatalf("PostponePlan by days: %v", err)
	}
	if !got.PlannedDate.Equal(date("2026-01-08")) {
		t.Errorf("postponed by 3 days = %s, want 2026-01-08", tracker.FormatDate(got.PlannedDate))
	}

	newDate := date("2026-02-01")
	if got, err = svc.PostponePlan(ctx, plan.ID, tracker.Postpone{NewDate: &newDate, Days: ptr.Ref(10)}); err != nil {
		t.Fatalf("PostponePlan to date: %v", err)
	}
	if !got.PlannedDate.Equal(newDate) {
		t.Errorf("postponed to %s, want the explicit date to win", tracker.FormatDate(got.PlannedDate))
	}

	if _, err = svc.PostponePlan(ctx, plan.ID, tracker.Postpone{}); !isValidationError(err) {
		t.Errorf("PostponePlan without date or days error = %v, want ValidationError", err)
	}
	if stored, _ := svc.GetPlan(ctx, plan.ID); !stored.PlannedDate.Equal(newDate) {
		t.Errorf("rejected postpone changed the date to %s", tracker.FormatDate(stored.PlannedDate))
	}
	if _, err = svc.PostponePlan(ctx, 999, tracker.Postpone{Days: ptr.Ref(1)}); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("PostponePlan of missing plan error = %v, want ErrNotFound", err)
	}

	for _, days := range []int{3_000_000, -800_000, math.MaxInt, math.MinInt} {
		if _, err = svc.PostponePlan(ctx, plan.ID, tracker.Postpone{Days: ptr.Ref(days)}); !isValidationError(err) {
			t.Errorf("PostponePlan by %d days error = %v, want ValidationError", days, err)
		}
	}
	if _, err = svc.Overview(ctx, date("2026-01-01")); err != nil {
		t.Errorf("Overview after rejected postpones: %v", err)
	}
	if stored, _ := svc.GetPlan(ctx, plan.ID); !stored.PlannedDate.Equal(newDate) {
		t.Errorf("out of range postpone changed the date to %s", tracker.FormatDate(stored.PlannedDate))
	}
}

func TestService_RecordPlanTime(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := t.Context()
	plan := mustCreatePlan(t, svc, "有酸素ラン", "2026-01-05", "ランニング", "ウォーキング")

	for _, seconds := range []int{0, -5} {
		if _, err := svc.RecordPlanTime(ctx, plan.ID, logInput("2026-01-05", seconds)); !isValidationError(err) {
			t.Errorf("RecordPlanTime(%d s) error = %v, want ValidationError", seconds, err)
		}
	}
	if _, err := svc.RecordPlanTime(ctx, 999, logInput("2026-01-05", 60)); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("RecordPlanTime for missing plan error = %v, want ErrNotFound", err)
	}

	for _, seconds := range []int{600, 300} {
		if _, err := svc.RecordPlanTime(ctx, plan.ID, logInput("2026-01-05", seconds)); err != nil {
			t.Fatalf("RecordPlanTime: %v", err)
		}
	}
	// Exercise logs do not count towards the whole plan.
	if _, err := svc.RecordExercise(ctx, plan.ID, 0, logInput("2026-01-05", 900)); err != nil {
		t.Fatalf("RecordExercise: %v", err)
	}

	summary, err := svc.PlanSummary(ctx, plan.ID)
	if err != nil {
		t.Fatalf("PlanSummary: %v", err)
	}
	if len(summary.Logs) != 2 || summary.TotalSeconds != 900 || summary.TotalDuration() != "00:15:00" {
		t.Errorf("PlanSummary() logs %d total %d", len(summary.Logs), summary.TotalSeconds)
	}
	if summary.DoneMinutes() != 15 || summary.Progress.Percent != 50 || summary.Progress.Severity != tracker.SeverityWarning {
		t.Errorf("PlanSummary() progress = %+v", summary.Progress)
	}
}

func TestService_RecordExercise(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := t.Context()
	plan := mustCreatePlan(t, svc, "上半身", "2026-01-05", "腕立て伏せ", "懸垂")

	in := logInput("2026-01-05", 90)
	in.Reps, in.Sets = ptr.Ref(12), ptr.Ref(3)
	if _, err := svc.RecordExercise(ctx, plan.ID, 1, in); err != nil {
		t.Fatalf("RecordExercise: %v", err)
	}
	in = logInput("2026-01-06", 30)
	in.Reps = ptr.Ref(8)
	if _, err := svc.RecordExercise(ctx, plan.ID, 1, in); err != nil {
		t.Fatalf("RecordExercise: %v", err)
	}
	if _, err := svc.RecordExercise(ctx, plan.ID, 0, logInput("2026-01-05", 45)); err != nil {
		t.Fatalf("RecordExercise: %v", err)
	}

	if _, err := svc.RecordExercise(ctx, plan.ID, 2, logInput("2026-01-05", 45)); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("RecordExercise with index out of range error = %v, want ErrNotFound", err)
	}
	if _, err := svc.RecordExercise(ctx, plan.ID, 0, logInput("2026-01-05", 0)); !isValidationError(err) {
		t.Errorf("RecordExercise with zero seconds error = %v, want ValidationError", err)
	}

	summary, err := svc.ExerciseSummary(ctx, plan.ID, 1, tracker.LevelAdvanced)
	if err != nil {
		t.Fatalf("ExerciseSummary: %v", err)
	}
	if summary.Name != "懸垂" || len(summary.Logs) != 2 {
		t.Fatalf("ExerciseSummary() = %+v", summary)
	}
	if summary.TotalSeconds != 120 || summary.TotalReps != 20 || summary.TotalSets != 3 || summary.RecommendedReps != 30 {
		t.Errorf("ExerciseSummary() totals = %d s, %d reps, %d sets, recommended %d",
			summary.TotalSeconds, summary.TotalReps, summary.TotalSets, summary.RecommendedReps)
	}
	if !summary.Logs[0].ActualDate.Before(summary.Logs[1].ActualDate) {
		t.Error("exercise logs are not in date order")
	}
	if _, err = svc.ExerciseSummary(ctx, plan.ID, -1, tracker.LevelBeginner); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("ExerciseSummary(-1) error = %v, want ErrNotFound", err)
	}
}

func TestService_Logs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := t.Context()
	plan := mustCreatePlan(t, svc, "ランジ", "2026-01-05", "ランジ")

	first, err := svc.RecordPlanTime(ctx, plan.ID, logInput("2026-01-05", 61))
	if err != nil {
		t.Fatalf("RecordPlanTime: %v", err)
	}
	second, err := svc.RecordPlanTime(ctx, plan.ID, logInput("2026-01-07", 62))
	if err != nil {
		t.Fatalf("RecordPlanTime: %v", err)
	}
	third, err := svc.RecordPlanTime(ctx, plan.ID, logInput("2026-01-05", 63))
	if err != nil {
		t.Fatalf("RecordPlanTime: %v", err)
	}

	logs, err := svc.ListLogs(ctx)
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	var gotIDs []int
	for _, l := range logs {
		gotIDs = append(gotIDs, l.ID)
		if l.PlanTitle != "ランジ" {
			t.Errorf("log %d plan title = %q", l.ID, l.PlanTitle)
		}
	}
	if diff := cmp.Diff([]int{second.ID, third.ID, first.ID}, gotIDs); diff != "" {
		t.Errorf("ListLogs order mismatch (-want +got):\n%s", diff)
	}

	edit := logInput("2026-01-06", 3725)
	edit.Reps = ptr.Ref(4)
	updated, err := svc.UpdateLog(ctx, first.ID, edit)
	if err != nil {
		t.Fatalf("UpdateLog: %v", err)
	}
	if updated.Duration() != "01:02:05" || updated.Minutes() != 62 || *updated.PlanID != plan.ID || !updated.IsWholePlan() {
		t.Errorf("UpdateLog() = %+v", updated)
	}

	if _, err = svc.UpdateLog(ctx, first.ID, logInput("2026-01-06", 0)); !isValidationError(err) {
		t.Errorf("UpdateLog to zero seconds error = %v, want ValidationError", err)
	}
	if stored, _ := svc.GetLog(ctx, first.ID); stored.SecondsTotal != 3725 {
		t.Errorf("rejected edit changed seconds to %d", stored.SecondsTotal)
	}

	if err = svc.DeleteLog(ctx, first.ID); err != nil {
		t.Fatalf("DeleteLog: %v", err)
	}
	if _, err = svc.GetLog(ctx, first.ID); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("GetLog after delete error = %v, want ErrNotFound", err)
	}
	if err = svc.DeleteLog(ctx, first.ID); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("DeleteLog twice error = %v, want ErrNotFound", err)
	}
	if _, err = svc.UpdateLog(ctx, first.ID, edit); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("UpdateLog of missing log error = %v, want ErrNotFound", err)
	}
}

func TestService_DeletePlan(t *testing.T) {
	svc, db := newTestService(t)
	ctx := t.Context()
	doomed := mustCreatePlan(t, svc, "削除", "2026-01-05", "懸垂")
	kept := mustCreatePlan(t, svc, "残す", "2026-01-05")

	if _, err := svc.RecordPlanTime(ctx, doomed.ID, logInput("2026-01-05", 10)); err != nil {
		t.Fatalf("RecordPlanTime: %v", err)
	}
	if _, err := svc.RecordExercise(ctx, doomed.ID, 0, logInput("2026-01-05", 10)); err != nil {
		t.Fatalf("RecordExercise: %v", err)
	}
	if _, err := svc.RecordPlanTime(ctx, kept.ID, logInput("2026-01-05", 10)); err != nil {
		t.Fatalf("RecordPlanTime: %v", err)
	}

	if err := svc.DeletePlan(ctx, doomed.ID); err != nil {
		t.Fatalf("DeletePlan: %v", err)
	}
	if _, err := svc.GetPlan(ctx, doomed.ID); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("GetPlan after delete error = %v, want ErrNotFound", err)
	}

	var orphans, survivors int
	if err := db.ReadOnly.QueryRowContext(ctx, "SELECT count(*) FROM logs WHERE plan_id = ?", doomed.ID).
		Scan(&orphans); err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if err := db.ReadOnly.QueryRowContext(ctx, "SELECT count(*) FROM logs WHERE plan_id = ?", kept.ID).
		Scan(&survivors); err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if orphans != 0 || survivors != 1 {
		t.Errorf("logs after delete: %d of deleted plan, %d of kept plan; want 0 and 1", orphans, survivors)
	}

	if err := svc.DeletePlan(ctx, doomed.ID); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("DeletePlan twice error = %v, want ErrNotFound", err)
	}
}

func TestService_OverviewAndDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := t.Context()
	past := mustCreatePlan(t, svc, "過去", "2026-01-03")
	todayA := mustCreatePlan(t, svc, "今日A", "2026-01-05")
	todayB := mustCreatePlan(t, svc, "今日B", "2026-01-05")
	future := mustCreatePlan(t, svc, "未来", "2026-01-09")

	if _, err := svc.RecordPlanTime(ctx, todayA.ID, logInput("2026-01-05", 60)); err != nil {
		t.Fatalf("RecordPlanTime: %v", err)
	}
	if _, err := svc.RecordPlanTime(ctx, past.ID, logInput("2026-01-05", 60)); err != nil {
		t.Fatalf("RecordPlanTime: %v", err)
	}

	overview, err := svc.Overview(ctx, time.Date(2026, 1, 5, 18, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	ids := func(plans []tracker.Plan) []int {
		var out []int
		for _, p := range plans {
			out = append(out, p.ID)
		}
		return out
	}
	if diff := cmp.Diff([]int{todayA.ID, todayB.ID, future.ID}, ids(overview.Upcoming)); diff != "" {
		t.Errorf("upcoming mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{past.ID}, ids(overview.Overdue)); diff != "" {
		t.Errorf("overdue mismatch (-want +got):\n%s", diff)
	}
	// Planned dates 01-03, 01-05 and 01-09; only 01-05 has logs.
	if want := (tracker.Progress{Done: 1, Total: 3, Percent: 33, Severity: tracker.SeverityDanger}); overview.Progress != want {
		t.Errorf("overall progress = %+v, want %+v", overview.Progress, want)
	}

	day, err := svc.Day(ctx, date("2026-01-05"))
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if len(day.Plans) != 2 || len(day.Logs) != 2 {
		t.Fatalf("Day() has %d plans and %d logs, want 2 and 2", len(day.Plans), len(day.Logs))
	}
	if !day.Done[todayA.ID] || day.Done[todayB.ID] {
		t.Errorf("Day().Done = %v", day.Done)
	}
	if want := (tracker.Progress{Done: 1, Total: 2, Percent: 50, Severity: tracker.SeverityWarning}); day.Progress != want {
		t.Errorf("day progress = %+v, want %+v", day.Progress, want)
	}
}

func TestService_GenerateAutoPlan(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := t.Context()
	before := mustCreatePlan(t, svc, "範囲外（前）", "2026-01-04")
	inside := mustCreatePlan(t, svc, "範囲内", "2026-03-01")
	after := mustCreatePlan(t, svc, "範囲外（後）", "2026-07-04")
	if _, err := svc.RecordPlanTime(ctx, inside.ID, logInput("2026-03-01", 60)); err != nil {
		t.Fatalf("RecordPlanTime: %v", err)
	}

	result, err := svc.GenerateAutoPlan(ctx, start)
	if err != nil {
		t.Fatalf("GenerateAutoPlan: %v", err)
	}
	// 2026-01-05 + 179 days.
	if result.Count != 180 || tracker.FormatDate(result.End) != "2026-07-03" {
		t.Errorf("GenerateAutoPlan() = %+v", result)
	}

	if _, err = svc.GetPlan(ctx, inside.ID); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("plan inside the range survived: %v", err)
	}
	for _, p := range []tracker.Plan{before, after} {
		if _, err = svc.GetPlan(ctx, p.ID); err != nil {
			t.Errorf("plan %q outside the range was removed: %v", p.Title, err)
		}
	}
	logs, err := svc.ListLogs(ctx)
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("logs of replaced plans survived: %d", len(logs))
	}

	overview, err := svc.Overview(ctx, date("2026-01-01"))
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if got := len(overview.Upcoming); got != 182 {
		t.Errorf("upcoming plans = %d, want 180 generated and 2 kept", got)
	}

	// Regenerating replaces instead of duplicating.
	if _, err = svc.GenerateAutoPlan(ctx, start); err != nil {
		t.Fatalf("GenerateAutoPlan again: %v", err)
	}
	day, err := svc.Day(ctx, start)
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if len(day.Plans) != 1 || day.Plans[0].Title != "体幹＋姿勢リセット" {
		t.Errorf("plans on the start date after regenerating = %+v", day.Plans)
	}
}

func TestService_GenerateAutoPlan_outOfRange(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := t.Context()
	for _, day := range []string{"9999-12-01", "9999-07-06", "0000-06-01"} {
		if _, err := svc.GenerateAutoPlan(ctx, date(day)); !isValidationError(err) {
			t.Errorf("GenerateAutoPlan(%s) error = %v, want ValidationError", day, err)
		}
	}
	overview, err := svc.Overview(ctx, date("2026-01-01"))
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if len(overview.Upcoming)+len(overview.Overdue) != 0 {
		t.Errorf("rejected auto plans were stored: %d upcoming", len(overview.Upcoming))
	}

	// The last start whose range ends in 9999.
	result, err := svc.GenerateAutoPlan(ctx, date("9999-07-05"))
	if err != nil {
		t.Fatalf("GenerateAutoPlan at the end of the range: %v", err)
	}
	if got := tracker.FormatDate(result.End); got != "9999-12-31" {
		t.Errorf("end = %s, want 9999-12-31", got)
	}
}

func TestService_ExportAndBackup(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := t.Context()
	plan := mustCreatePlan(t, svc, "出力", "2026-01-05", "懸垂")
	if _, err := svc.RecordExercise(ctx, plan.ID, 0, logInput("2026-01-05", 30)); err != nil {
		t.Fatalf("RecordExercise: %v", err)
	}

	plans, logs, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(plans) != 1 || len(logs) != 1 || *logs[0].ExerciseName != "懸垂" {
		t.Errorf("Export() = %d plans, %d logs", len(plans), len(logs))
	}

	if _, err = svc.Backup(ctx, t.TempDir()); err != nil {
		t.Errorf("Backup: %v", err)
	}
}
