package tracker

import (
	"slices"
	"time"
)

// AutoPlanDays is the length of a generated plan.
const AutoPlanDays = 180

const (
	daysPerWeek    = 7
	introWeeks     = 4
	baseWeeks      = 12
	introRestCycle = 3
)

// Phase is a training period of the generated plan.
type Phase int

const (
	PhaseIntro Phase = iota
	PhaseBase
	PhaseStrong
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhaseBase:
		return "base"
	case PhaseStrong:
		return "strong"
	default:
		return "unknown"
	}
}

// PhaseForDay selects the phase by week: weeks 0-3 intro, 4-11 base and the rest strong.
func PhaseForDay(dayIndex int) Phase {
	switch week := dayIndex / daysPerWeek; {
	case week < introWeeks:
		return PhaseIntro
	case week < baseWeeks:
		return PhaseBase
	default:
		return PhaseStrong
	}
}

// IsRestDay reports whether the day is an active recovery day. The intro phase rests every third day, the other
// phases on Sundays.
func IsRestDay(phase Phase, dayIndex int, date time.Time) bool {
	if phase == PhaseIntro {
		return dayIndex%introRestCycle == introRestCycle-1
	}
	return date.Weekday() == time.Sunday
}

// GeneratePlan returns the plan for day dayIndex of the auto plan starting at start. The result depends only on
// its arguments.
func GeneratePlan(start time.Time, dayIndex int) (Plan, error) {
	if dayIndex < 0 || dayIndex >= AutoPlanDays {
		return Plan{}, invalid("day_index", "%d is outside [0, %d)", dayIndex, AutoPlanDays)
	}
	return generatePlan(DateOf(start), dayIndex), nil
}

// GeneratePlans returns the AutoPlanDays plans on the contiguous dates start, start+1, ..., start+179.
func GeneratePlans(start time.Time) []Plan {
	start = DateOf(start)
	plans := make([]Plan, AutoPlanDays)
	for i := range plans {
		plans[i] = generatePlan(start, i)
	}
	return plans
}

// AutoPlanEnd is the last date covered by an auto plan starting at start.
func AutoPlanEnd(start time.Time) time.Time {
	return DateOf(start).AddDate(0, 0, AutoPlanDays-1)
}

func generatePlan(start time.Time, dayIndex int) Plan {
	date := start.AddDate(0, 0, dayIndex)
	phase := PhaseForDay(dayIndex)

	tmpl := restTemplates[phase]
	if !IsRestDay(phase, dayIndex, date) {
		patterns := patternTemplates[phase]
		tmpl = patterns[dayIndex%len(patterns)]
	}

	return Plan{
		ID:             0,
		Title:          tmpl.title,
		Exercises:      slices.Clone(tmpl.exercises),
		PlannedDate:    date,
		PlannedMinutes: tmpl.minutes,
		Notes:          tmpl.notes,
	}
}
