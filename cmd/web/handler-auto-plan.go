package main

import (
	"log/slog"
	"net/http"

	"github.com/myrjola/fitplan/internal/errors"
	"github.com/myrjola/fitplan/internal/tracker"
)

type autoPlanTemplateData struct {
	BaseTemplateData
	Days int
}

func (app *application) autoPlanGET(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "auto-plan", autoPlanTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Days:             tracker.AutoPlanDays,
	})
}

// autoPlanPOST replaces the plans of the AutoPlanDays days from the submitted start date with generated ones.
func (app *application) autoPlanPOST(w http.ResponseWriter, r *http.Request) {
	start, err := tracker.ParseDate("start_date", r.PostFormValue("start_date"))
	if err != nil {
		app.flash(r, flashDanger, "flash.start_invalid")
		redirect(w, r, "/auto-plan")
		return
	}
	result, err := app.tracker.GenerateAutoPlan(r.Context(), start)
	var validationErr *tracker.ValidationError
	if errors.As(err, &validationErr) {
		app.flash(r, flashDanger, "flash.start_invalid")
		redirect(w, r, "/auto-plan")
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.logger.LogAttrs(r.Context(), slog.LevelInfo, "generated auto plan",
		slog.String("start", tracker.FormatDate(result.Start)), slog.Int("count", result.Count))
	app.flash(r, flashSuccess, "flash.auto_plan",
		tracker.FormatDate(result.Start), tracker.FormatDate(result.End), result.Count)
	redirect(w, r, "/")
}
