// Package export writes plans and logs into an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/myrjola/fitplan/internal/i18n"
	"github.com/myrjola/fitplan/internal/tracker"
)

// ContentType is the MIME type of the written workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultSheet = "Sheet1"

// Workbook builds a workbook with one sheet of plans and one of logs. Headers and sheet names are in lang.
func Workbook(lang i18n.Language, plans []tracker.Plan, logs []tracker.LogEntry) (*excelize.File, error) {
	f := excelize.NewFile()

	plansSheet := i18n.Translate(lang, "export.plans")
	logsSheet := i18n.Translate(lang, "export.logs")
	if err := f.SetSheetName(defaultSheet, plansSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(logsSheet); err != nil {
		return nil, fmt.Errorf("new sheet %s: %w", logsSheet, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2E75B6"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("new header style: %w", err)
	}

	planRows := make([][]any, len(plans))
	for i, p := range plans {
		planRows[i] = []any{
			p.ID,
			tracker.FormatDate(p.PlannedDate),
			p.Title,
			tracker.JoinExercises(p.Exercises),
			p.PlannedMinutes,
			p.Notes,
		}
	}
	if err = writeSheet(f, plansSheet, headerStyle, []string{
		"ID",
		i18n.Translate(lang, "plan.date"),
		i18n.Translate(lang, "plan.title"),
		i18n.Translate(lang, "plan.exercises"),
		i18n.Translate(lang, "plan.minutes"),
		i18n.Translate(lang, "plan.notes"),
	}, planRows); err != nil {
		return nil, err
	}

	logRows := make([][]any, len(logs))
	for i, l := range logs {
		exercise := i18n.Translate(lang, "log.whole_plan")
		if l.ExerciseName != nil {
			exercise = *l.ExerciseName
		}
		logRows[i] = []any{
			l.ID,
			tracker.FormatDate(l.ActualDate),
			l.PlanTitle,
			exercise,
			l.Duration(),
			l.SecondsTotal,
			l.Minutes(),
			optional(l.Reps),
			optional(l.Sets),
			l.Notes,
		}
	}
	if err = writeSheet(f, logsSheet, headerStyle, []string{
		"ID",
		i18n.Translate(lang, "log.date"),
		i18n.Translate(lang, "log.plan"),
		i18n.Translate(lang, "log.exercise"),
		i18n.Translate(lang, "log.duration"),
		i18n.Translate(lang, "log.seconds"),
		i18n.Translate(lang, "export.minutes"),
		i18n.Translate(lang, "exercise.reps"),
		i18n.Translate(lang, "exercise.sets"),
		i18n.Translate(lang, "log.notes"),
	}, logRows); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write streams the workbook built by Workbook to w.
func Write(w io.Writer, lang i18n.Language, plans []tracker.Plan, logs []tracker.LogEntry) (err error) {
	f, err := Workbook(lang, plans, logs)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", closeErr)
		}
	}()
	if _, err = f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []string, rows [][]any) error {
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("header width: %w", err)
	}
	if err = f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2) //nolint:mnd // below the header row.
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if err = f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i, err)
		}
	}
	if err = f.SetColWidth(sheet, "B", lastCol, 16); err != nil { //nolint:mnd // fits a date.
		return fmt.Errorf("set %s column width: %w", sheet, err)
	}
	if err = f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
		Selection:   nil,
	}); err != nil {
		return fmt.Errorf("freeze %s header: %w", sheet, err)
	}
	return nil
}

// optional turns a nil pointer into an empty cell.
func optional(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}
