package i18n

import "fmt"

// Language represents a supported language.
type Language string

const (
	// Japanese is the Japanese language.
	Japanese Language = "ja"
	// English is the English language.
	English Language = "en"
)

// DefaultLanguage is the fallback language.
const DefaultLanguage = Japanese

// translations maps language codes to translation keys and their values.
//
//nolint:gochecknoglobals // static lookup table.
var translations = map[Language]map[string]string{
	Japanese: {
		"app.title":             "トレーニング計画",
		"nav.home":              "ホーム",
		"nav.new_plan":          "計画を追加",
		"nav.auto_plan":         "180日プラン自動生成",
		"nav.logs":              "実施記録",
		"nav.settings":          "設定",
		"nav.export":            "Excel出力",
		"language.picker.label": "言語",
		"language.name.ja":      "日本語",
		"language.name.en":      "English",

		"home.overall":  "全体進捗",
		"home.days":     "%d / %d 日",
		"home.upcoming": "今日以降の計画",
		"home.overdue":  "未消化の過去計画",
		"home.empty":    "計画はありません。",

		"plan.title":            "タイトル",
		"plan.date":             "予定日",
		"plan.minutes":          "予定時間（分）",
		"plan.exercises":        "種目",
		"plan.custom_exercises": "その他の種目（カンマ区切り）",
		"plan.notes":            "メモ",
		"plan.save":             "保存",
		"plan.new":              "計画を追加",
		"plan.edit":             "計画を編集",
		"plan.delete":           "削除",
		"plan.delete.confirm":   "計画と関連する記録を削除しますか？",
		"plan.postpone":         "延期",
		"plan.postpone.days":    "日数",
		"plan.postpone.date":    "新しい日付",
		"plan.progress":         "進捗",
		"plan.total":            "合計時間",
		"plan.done_minutes":     "%d / %d 分",
		"plan.record":           "プラン全体の時間を記録",
		"plan.logs":             "プラン全体の記録",
		"stopwatch.start":       "Start",
		"stopwatch.stop":        "Stop",
		"stopwatch.reset":       "Reset",
		"exercise.reps":         "回数",
		"exercise.sets":         "セット数",
		"exercise.recommended":  "レベル%dの目安: %d回",
		"exercise.record":       "種目の記録を追加",
		"exercise.totals":       "合計 %s ・ %d回 ・ %dセット",
		"exercise.back":         "計画に戻る",

		"log.date":         "実施日",
		"log.duration":     "時間",
		"log.seconds":      "秒数",
		"log.plan":         "計画",
		"log.exercise":     "種目",
		"log.whole_plan":   "プラン全体",
		"log.notes":        "メモ",
		"log.edit":         "記録を修正",
		"log.delete":       "削除",
		"log.empty":        "記録はありません。",
		"day.progress":     "この日の進捗",
		"day.plans":        "この日の計画",
		"day.logs":         "この日の記録",
		"day.done":         "実施済み",
		"day.pending":      "未実施",
		"auto_plan.start":  "開始日",
		"auto_plan.help":   "開始日から180日分の計画を生成します。期間内の既存の計画は置き換えられます。",
		"auto_plan.submit": "生成",
		"settings.level":   "トレーニングレベル",
		"settings.level.1": "1: 初心者",
		"settings.level.2": "2: 中級",
		"settings.level.3": "3: 上級",
		"settings.save":    "保存",
		"notfound.title":   "ページが見つかりません",
		"error.title":      "エラーが発生しました",
		"export.plans":     "計画",
		"export.logs":      "実施記録",
		"export.minutes":   "分",

		"flash.level_saved":      "トレーニングレベルを保存しました。",
		"flash.plan_created":     "計画を追加しました。",
		"flash.plan_updated":     "計画を更新しました。",
		"flash.plan_not_found":   "計画が見つかりません。",
		"flash.postpone_invalid": "延期の指定が不正です。",
		"flash.plan_postponed":   "計画日を変更しました。",
		"flash.plan_deleted":     "計画と関連する記録を削除しました。",
		"flash.start_invalid":    "開始日が正しくありません。",
		"flash.auto_plan":        "%s から %s までの %d 日分のプランを自動生成しました。",
		"flash.zero_seconds":     "計測時間が0秒です。Start/Stopで時間を計測してください。",
		"flash.plan_time_added":  "プラン全体の時間を追加しました。",
		"flash.exercise_missing": "種目が見つかりません。",
		"flash.exercise_added":   "種目の記録を追加しました。",
		"flash.log_not_found":    "記録が見つかりません。",
		"flash.log_updated":      "実施記録を修正しました。",
		"flash.log_deleted":      "実施記録を削除しました。",
		"flash.error":            "エラー: %s",
	},
	English: {
		"app.title":             "Training plan",
		"nav.home":              "Home",
		"nav.new_plan":          "Add plan",
		"nav.auto_plan":         "Generate 180-day plan",
		"nav.logs":              "Logs",
		"nav.settings":          "Settings",
		"nav.export":            "Export to Excel",
		"language.picker.label": "Language",
		"language.name.ja":      "日本語",
		"language.name.en":      "English",

		"home.overall":  "Overall progress",
		"home.days":     "%d / %d days",
		"home.upcoming": "Upcoming plans",
		"home.overdue":  "Overdue plans",
		"home.empty":    "No plans.",

		"plan.title":            "Title",
		"plan.date":             "Planned date",
		"plan.minutes":          "Planned minutes",
		"plan.exercises":        "Exercises",
		"plan.custom_exercises": "Other exercises (comma separated)",
		"plan.notes":            "Notes",
		"plan.save":             "Save",
		"plan.new":              "Add plan",
		"plan.edit":             "Edit plan",
		"plan.delete":           "Delete",
		"plan.delete.confirm":   "Delete the plan and its logs?",
		"plan.postpone":         "Postpone",
		"plan.postpone.days":    "Days",
		"plan.postpone.date":    "New date",
		"plan.progress":         "Progress",
		"plan.total":            "Total time",
		"plan.done_minutes":     "%d / %d min",
		"plan.record":           "Record time for the whole plan",
		"plan.logs":             "Whole plan logs",
		"stopwatch.start":       "Start",
		"stopwatch.stop":        "Stop",
		"stopwatch.reset":       "Reset",
		"exercise.reps":         "Reps",
		"exercise.sets":         "Sets",
		"exercise.recommended":  "Level %d target: %d reps",
		"exercise.record":       "Record exercise",
		"exercise.totals":       "Total %s, %d reps, %d sets",
		"exercise.back":         "Back to plan",

		"log.date":         "Date",
		"log.duration":     "Duration",
		"log.seconds":      "Seconds",
		"log.plan":         "Plan",
		"log.exercise":     "Exercise",
		"log.whole_plan":   "Whole plan",
		"log.notes":        "Notes",
		"log.edit":         "Edit log",
		"log.delete":       "Delete",
		"log.empty":        "No logs.",
		"day.progress":     "Progress for the day",
		"day.plans":        "Plans",
		"day.logs":         "Logs",
		"day.done":         "Done",
		"day.pending":      "Pending",
		"auto_plan.start":  "Start date",
		"auto_plan.help":   "Generates 180 days of plans from the start date. Existing plans in the range are replaced.",
		"auto_plan.submit": "Generate",
		"settings.level":   "Training level",
		"settings.level.1": "1: Beginner",
		"settings.level.2": "2: Intermediate",
		"settings.level.3": "3: Advanced",
		"settings.save":    "Save",
		"notfound.title":   "Page not found",
		"error.title":      "Something went wrong",
		"export.plans":     "Plans",
		"export.logs":      "Logs",
		"export.minutes":   "Minutes",

		"flash.level_saved":      "Training level saved.",
		"flash.plan_created":     "Plan added.",
		"flash.plan_updated":     "Plan updated.",
		"flash.plan_not_found":   "Plan not found.",
		"flash.postpone_invalid": "Invalid postpone request.",
		"flash.plan_postponed":   "Plan date changed.",
		"flash.plan_deleted":     "Plan and its logs deleted.",
		"flash.start_invalid":    "Invalid start date.",
		"flash.auto_plan":        "Generated plans from %s to %s (%d days).",
		"flash.zero_seconds":     "Measured time is 0 seconds. Use Start/Stop to measure the time.",
		"flash.plan_time_added":  "Time for the whole plan added.",
		"flash.exercise_missing": "Exercise not found.",
		"flash.exercise_added":   "Exercise log added.",
		"flash.log_not_found":    "Log not found.",
		"flash.log_updated":      "Log updated.",
		"flash.log_deleted":      "Log deleted.",
		"flash.error":            "Error: %s",
	},
}

// SupportedLanguages returns a list of all supported languages.
func SupportedLanguages() []Language {
	return []Language{Japanese, English}
}

// IsSupported checks if a language is supported.
func IsSupported(lang Language) bool {
	_, ok := translations[lang]
	return ok
}

// Translate returns the translation for the given key in the specified language.
// If the key is not found, it falls back to the default language.
// If still not found, it returns the key itself.
func Translate(lang Language, key string) string {
	if langTranslations, ok := translations[lang]; ok {
		if translation, ok := langTranslations[key]; ok {
			return translation
		}
	}

	if lang != DefaultLanguage {
		if translation, ok := translations[DefaultLanguage][key]; ok {
			return translation
		}
	}

	return key
}

// Translatef translates key and formats the result with args.
func Translatef(lang Language, key string, args ...any) string {
	return fmt.Sprintf(Translate(lang, key), args...)
}
