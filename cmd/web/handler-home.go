package main

import (
	"net/http"

	"github.com/myrjola/fitplan/internal/tracker"
)

type homeTemplateData struct {
	BaseTemplateData
	tracker.Overview
}

// home lists the upcoming and overdue plans with the overall progress.
func (app *application) home(w http.ResponseWriter, r *http.Request) {
	overview, err := app.tracker.Overview(r.Context(), app.today())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "home", homeTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Overview:         overview,
	})
}

type dayTemplateData struct {
	BaseTemplateData
	tracker.Day
}

func (app *application) dayGET(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}
	day, err := app.tracker.Day(r.Context(), date)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "day", dayTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Day:              day,
	})
}
