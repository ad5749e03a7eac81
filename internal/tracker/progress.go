package tracker

// Severity classifies a completion percentage. Its values double as CSS class suffixes.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

const (
	successThreshold = 70
	warningThreshold = 50
	fullPercent      = 100
)

// Percentage is floor(done*100/total), or 0 when total is 0. It is not clamped so done > total yields more
// than 100.
func Percentage(done, total int) int {
	if total == 0 {
		return 0
	}
	return done * fullPercent / total
}

// SeverityOf maps a percentage to success (>= 70), warning (50-69) or danger (< 50).
func SeverityOf(percent int) Severity {
	switch {
	case percent >= successThreshold:
		return SeveritySuccess
	case percent >= warningThreshold:
		return SeverityWarning
	default:
		return SeverityDanger
	}
}

// Progress is the completion of some scope.
type Progress struct {
	Done     int
	Total    int
	Percent  int
	Severity Severity
}

func newProgress(done, total int) Progress {
	percent := Percentage(done, total)
	return Progress{Done: done, Total: total, Percent: percent, Severity: SeverityOf(percent)}
}

// Width is Percent clamped to [0, 100] for progress bars.
func (p Progress) Width() int {
	return min(max(p.Percent, 0), fullPercent)
}

// OverallProgress counts the distinct planned dates that have at least one log on the same date.
func OverallProgress(plans []Plan, logs []Log) Progress {
	planDates := make(map[string]struct{}, len(plans))
	for _, p := range plans {
		planDates[FormatDate(p.PlannedDate)] = struct{}{}
	}
	doneDates := make(map[string]struct{})
	for _, l := range logs {
		date := FormatDate(l.ActualDate)
		if _, ok := planDates[date]; ok {
			doneDates[date] = struct{}{}
		}
	}
	return newProgress(len(doneDates), len(planDates))
}

// DayProgress counts the plans of a day that are referenced by at least one of the day's logs.
func DayProgress(plans []Plan, logs []Log) Progress {
	done := doneSet(logs)
	count := 0
	for _, p := range plans {
		if done[p.ID] {
			count++
		}
	}
	return newProgress(count, len(plans))
}

// PlanProgress compares the seconds of the whole-plan logs against the planned duration. Percent is the raw
// ratio and drives Severity; use Width for display.
func PlanProgress(plan Plan, wholePlanLogs []Log) Progress {
	return newProgress(SumSeconds(wholePlanLogs), plan.PlannedSeconds())
}

// doneSet returns the ids of the plans referenced by logs.
func doneSet(logs []Log) map[int]bool {
	done := make(map[int]bool, len(logs))
	for _, l := range logs {
		if l.PlanID != nil {
			done[*l.PlanID] = true
		}
	}
	return done
}
