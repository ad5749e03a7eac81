package tracker

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DefaultPlannedMinutes is the target duration of a plan when none is given.
	DefaultPlannedMinutes = 30
	maxTitleLength        = 100
	dateFormat            = time.DateOnly
	// Stored dates are YYYY-MM-DD so their year has exactly four digits.
	minYear = 1
	maxYear = 9999
	// maxPostponeDays spans the whole storable range.
	maxPostponeDays = (maxYear - minYear + 1) * 366
)

// Plan is a scheduled workout.
type Plan struct {
	ID    int
	Title string
	// Exercises is ordered. Exercise pages address entries by their index.
	Exercises      []string
	PlannedDate    time.Time
	PlannedMinutes int
	Notes          string
}

// Exercise returns the exercise at index or ErrNotFound when index is out of range.
func (p Plan) Exercise(index int) (string, error) {
	if index < 0 || index >= len(p.Exercises) {
		return "", ErrNotFound
	}
	return p.Exercises[index], nil
}

// PlannedSeconds is the target duration in seconds.
func (p Plan) PlannedSeconds() int {
	return p.PlannedMinutes * secondsPerMinute
}

// Log records a workout that was done. Only SecondsTotal is stored; minutes and the formatted duration are
// derived from it.
type Log struct {
	ID int
	// PlanID is nil for standalone entries.
	PlanID *int
	// ExerciseName is nil for logs covering the whole plan.
	ExerciseName *string
	ActualDate   time.Time
	SecondsTotal int
	Reps         *int
	Sets         *int
	Notes        string
}

// Minutes is the logged duration in whole minutes.
func (l Log) Minutes() int {
	return ToMinutes(l.SecondsTotal)
}

// Duration is the logged duration formatted as HH:MM:SS.
func (l Log) Duration() string {
	return FormatDuration(l.SecondsTotal)
}

// IsWholePlan reports whether the log covers the whole plan rather than a single exercise.
func (l Log) IsWholePlan() bool {
	return l.ExerciseName == nil
}

// LogEntry is a log together with the title of the plan it refers to, if the plan still exists.
type LogEntry struct {
	Log
	PlanTitle string
}

// PlanInput holds the user editable fields of a plan.
type PlanInput struct {
	Title          string
	Exercises      []string
	PlannedDate    time.Time
	PlannedMinutes int
	Notes          string
}

func (in PlanInput) validate() error {
	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return invalid("title", "required")
	case utf8.RuneCountInString(title) > maxTitleLength:
		return invalid("title", "longer than %d characters", maxTitleLength)
	case in.PlannedDate.IsZero():
		return invalid("planned_date", "required")
	case !storable(in.PlannedDate):
		return invalidDate("planned_date", in.PlannedDate)
	case in.PlannedMinutes < 0:
		return invalid("planned_minutes", "must not be negative")
	}
	return nil
}

func (in PlanInput) apply(p *Plan) {
	p.Title = strings.TrimSpace(in.Title)
	p.Exercises = cleanExercises(in.Exercises)
	p.PlannedDate = DateOf(in.PlannedDate)
	p.PlannedMinutes = in.PlannedMinutes
	p.Notes = strings.TrimSpace(in.Notes)
}

// LogInput holds the user editable fields of a log.
type LogInput struct {
	ActualDate   time.Time
	SecondsTotal int
	Reps         *int
	Sets         *int
	Notes        string
}

// validate rejects non-positive durations on every path that writes a log.
func (in LogInput) validate() error {
	switch {
	case in.SecondsTotal <= 0:
		return invalid("seconds_total", "must be positive")
	case in.ActualDate.IsZero():
		return invalid("actual_date", "required")
	case !storable(in.ActualDate):
		return invalidDate("actual_date", in.ActualDate)
	case in.Reps != nil && *in.Reps < 0:
		return invalid("reps", "must not be negative")
	case in.Sets != nil && *in.Sets < 0:
		return invalid("sets", "must not be negative")
	}
	return nil
}

func (in LogInput) apply(l *Log) {
	l.ActualDate = DateOf(in.ActualDate)
	l.SecondsTotal = in.SecondsTotal
	l.Reps = in.Reps
	l.Sets = in.Sets
	l.Notes = strings.TrimSpace(in.Notes)
}

// Postpone moves a plan either to NewDate or by Days. NewDate wins when both are set.
type Postpone struct {
	NewDate *time.Time
	Days    *int
}

func (p Postpone) apply(plan *Plan) error {
	var date time.Time
	switch {
	case p.NewDate != nil:
		date = DateOf(*p.NewDate)
	case p.Days != nil:
		if *p.Days > maxPostponeDays || *p.Days < -maxPostponeDays {
			return invalid("days", "%d is out of range", *p.Days)
		}
		date = plan.PlannedDate.AddDate(0, 0, *p.Days)
	default:
		return invalid("postpone", "either a new date or a number of days is required")
	}
	if !storable(date) {
		return invalidDate("planned_date", date)
	}
	plan.PlannedDate = date
	return nil
}

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// storable reports whether t has a four digit year.
func storable(t time.Time) bool {
	return t.Year() >= minYear && t.Year() <= maxYear
}

func invalidDate(field string, t time.Time) error {
	return invalid(field, "%s is outside the years %04d to %d", FormatDate(t), minYear, maxYear)
}

// FormatDate formats a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateFormat)
}

// ParseDate parses a YYYY-MM-DD date submitted in field.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, invalid(field, "%q is not a YYYY-MM-DD date", s)
	}
	return t, nil
}

// ParseOptionalInt parses an integer submitted in field. Blank input is nil.
func ParseOptionalInt(field, s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil //nolint:nilnil // blank input means no value.
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, invalid(field, "%q is not an integer", s)
	}
	return &n, nil
}
