package tracker

import (
	"slices"
	"strconv"
	"strings"
)

const exerciseSeparator = ","

// ParseExercises splits the stored comma-joined exercise list, trimming entries and dropping empty ones. Order and
// repeated names are kept so indexes match the stored list.
func ParseExercises(raw string) []string {
	return splitExercises(strings.Split(raw, exerciseSeparator))
}

// JoinExercises is the storage form of an exercise list.
func JoinExercises(exercises []string) string {
	return strings.Join(cleanExercises(exercises), exerciseSeparator)
}

// splitExercises trims the names and drops empty ones.
func splitExercises(exercises []string) []string {
	names := make([]string, 0, len(exercises))
	for _, e := range exercises {
		// The separator cannot be part of a name.
		for part := range strings.SplitSeq(e, exerciseSeparator) {
			if name := strings.TrimSpace(part); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// cleanExercises is splitExercises without repeated names. Exercise logs are keyed by name so a name is written at
// most once per plan.
func cleanExercises(exercises []string) []string {
	names := splitExercises(exercises)
	cleaned := names[:0]
	for _, name := range names {
		if !slices.Contains(cleaned, name) {
			cleaned = append(cleaned, name)
		}
	}
	return cleaned
}

func SumSeconds(logs []Log) int {
	total := 0
	for _, l := range logs {
		total += l.SecondsTotal
	}
	return total
}

// SumReps sums the reps of logs. Logs without reps count as zero.
func SumReps(logs []Log) int {
	total := 0
	for _, l := range logs {
		if l.Reps != nil {
			total += *l.Reps
		}
	}
	return total
}

// SumSets sums the sets of logs. Logs without sets count as zero.
func SumSets(logs []Log) int {
	total := 0
	for _, l := range logs {
		if l.Sets != nil {
			total += *l.Sets
		}
	}
	return total
}

// PlanSummary aggregates the whole-plan logs of a plan.
type PlanSummary struct {
	Plan         Plan
	Logs         []Log
	TotalSeconds int
	Progress     Progress
}

// SummarisePlan aggregates wholePlanLogs, the logs of plan without an exercise name.
func SummarisePlan(plan Plan, wholePlanLogs []Log) PlanSummary {
	return PlanSummary{
		Plan:         plan,
		Logs:         wholePlanLogs,
		TotalSeconds: SumSeconds(wholePlanLogs),
		Progress:     PlanProgress(plan, wholePlanLogs),
	}
}

func (s PlanSummary) TotalDuration() string {
	return FormatDuration(s.TotalSeconds)
}

func (s PlanSummary) DoneMinutes() int {
	return ToMinutes(s.TotalSeconds)
}

// ExerciseSummary aggregates the logs of one exercise of a plan.
type ExerciseSummary struct {
	Plan            Plan
	Index           int
	Name            string
	Logs            []Log
	TotalSeconds    int
	TotalReps       int
	TotalSets       int
	Level           Level
	RecommendedReps int
}

// SummariseExercise aggregates the logs of the exercise at index. It returns ErrNotFound when index is out of
// range.
func SummariseExercise(plan Plan, index int, logs []Log, level Level) (ExerciseSummary, error) {
	name, err := plan.Exercise(index)
	if err != nil {
		return ExerciseSummary{}, err
	}
	return ExerciseSummary{
		Plan:            plan,
		Index:           index,
		Name:            name,
		Logs:            logs,
		TotalSeconds:    SumSeconds(logs),
		TotalReps:       SumReps(logs),
		TotalSets:       SumSets(logs),
		Level:           level,
		RecommendedReps: RecommendedReps(level),
	}, nil
}

func (s ExerciseSummary) TotalDuration() string {
	return FormatDuration(s.TotalSeconds)
}

// Level is the training level of the user: 1 beginner, 2 intermediate, 3 advanced.
type Level int

const (
	LevelBeginner     Level = 1
	LevelIntermediate Level = 2
	LevelAdvanced     Level = 3
)

// Levels lists the valid levels in ascending order.
func Levels() []Level {
	return []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}
}

// ClampLevel forces n into [1, 3].
func ClampLevel(n int) Level {
	return Level(min(max(n, int(LevelBeginner)), int(LevelAdvanced)))
}

// ParseLevel never fails. Non-numeric input is the beginner level and numbers are clamped.
func ParseLevel(s string) Level {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return LevelBeginner
	}
	return ClampLevel(n)
}

//nolint:gochecknoglobals // read-only lookup table.
var recommendedReps = map[Level]int{
	LevelBeginner:     10,
	LevelIntermediate: 20,
	LevelAdvanced:     30,
}

// RecommendedReps is the target repetition count of an exercise at level. Unknown levels get the beginner target.
func RecommendedReps(level Level) int {
	if reps, ok := recommendedReps[level]; ok {
		return reps
	}
	return recommendedReps[LevelBeginner]
}
