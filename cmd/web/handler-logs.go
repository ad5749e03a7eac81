package main

import (
	"fmt"
	"net/http"

	"github.com/myrjola/fitplan/internal/errors"
	"github.com/myrjola/fitplan/internal/tracker"
)

type logsTemplateData struct {
	BaseTemplateData
	Logs []tracker.LogEntry
}

// logsGET lists every log, newest first.
func (app *application) logsGET(w http.ResponseWriter, r *http.Request) {
	logs, err := app.tracker.ListLogs(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "logs", logsTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Logs:             logs,
	})
}

type logEditTemplateData struct {
	BaseTemplateData
	Log tracker.Log
}

func logEditPath(id int) string {
	return fmt.Sprintf("/logs/%d/edit", id)
}

var logNotFound = errorRedirects{ //nolint:gochecknoglobals // constant redirect table.
	notFoundKey:  "flash.log_not_found",
	notFoundPath: "/logs",
	invalidPath:  "/logs",
}

func (app *application) logEditGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r, "id")
	if !ok {
		return
	}
	log, err := app.tracker.GetLog(r.Context(), id)
	if errors.Is(err, tracker.ErrNotFound) {
		app.flash(r, flashWarning, logNotFound.notFoundKey)
		redirect(w, r, logNotFound.notFoundPath)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "log-edit", logEditTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Log:              log,
	})
}

// logEditPOST updates a log. Zero or negative durations are rejected like on creation.
func (app *application) logEditPOST(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r, "id")
	if !ok {
		return
	}
	in, err := app.parseLogForm(r)
	if err == nil {
		_, err = app.tracker.UpdateLog(r.Context(), id, in)
	}
	if err != nil {
		to := logNotFound
		to.invalidPath = logEditPath(id)
		app.failMutation(w, r, err, to)
		return
	}
	app.flash(r, flashSuccess, "flash.log_updated")
	redirect(w, r, "/logs")
}

func (app *application) logDeletePOST(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.tracker.DeleteLog(r.Context(), id); err != nil {
		app.failMutation(w, r, err, logNotFound)
		return
	}
	app.flash(r, flashInfo, "flash.log_deleted")
	redirect(w, r, "/logs")
}
