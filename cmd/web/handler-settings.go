package main

import (
	"net/http"

	"github.com/myrjola/fitplan/internal/tracker"
)

const trainingLevelKey = "training_level"

// trainingLevel reads the level stored in the session. Missing or out of range values are clamped.
func (app *application) trainingLevel(r *http.Request) tracker.Level {
	level, ok := app.sessionManager.Get(r.Context(), trainingLevelKey).(int)
	if !ok {
		return tracker.LevelBeginner
	}
	return tracker.ClampLevel(level)
}

type settingsTemplateData struct {
	BaseTemplateData
	Level  tracker.Level
	Levels []tracker.Level
}

func (app *application) settingsGET(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "settings", settingsTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Level:            app.trainingLevel(r),
		Levels:           tracker.Levels(),
	})
}

func (app *application) settingsPOST(w http.ResponseWriter, r *http.Request) {
	level := tracker.ParseLevel(r.PostFormValue("level"))
	app.sessionManager.Put(r.Context(), trainingLevelKey, int(level))
	app.flash(r, flashSuccess, "flash.level_saved")
	redirect(w, r, "/")
}
