package main

import (
	"fmt"
	"net/http"

	"github.com/myrjola/fitplan/internal/errors"
	"github.com/myrjola/fitplan/internal/tracker"
)

type exerciseTemplateData struct {
	BaseTemplateData
	tracker.ExerciseSummary
}

func exercisePath(id, index int) string {
	return fmt.Sprintf("/plans/%d/exercises/%d", id, index)
}

// exerciseGET shows the logs of one exercise with the recommended reps for the session's training level.
func (app *application) exerciseGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r, "id")
	if !ok {
		return
	}
	index, ok := app.parseIDParam(w, r, "index")
	if !ok {
		return
	}
	summary, err := app.tracker.ExerciseSummary(r.Context(), id, index, app.trainingLevel(r))
	if errors.Is(err, tracker.ErrNotFound) {
		app.redirectMissingExercise(w, r, id)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "exercise", exerciseTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		ExerciseSummary:  summary,
	})
}

func (app *application) exerciseLogPOST(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r, "id")
	if !ok {
		return
	}
	index, ok := app.parseIDParam(w, r, "index")
	if !ok {
		return
	}
	in, err := app.parseLogForm(r)
	if err == nil {
		_, err = app.tracker.RecordExercise(r.Context(), id, index, in)
	}
	if errors.Is(err, tracker.ErrNotFound) {
		app.redirectMissingExercise(w, r, id)
		return
	}
	if err != nil {
		app.failMutation(w, r, err, errorRedirects{
			notFoundKey:  "flash.plan_not_found",
			notFoundPath: "/",
			invalidPath:  exercisePath(id, index),
		})
		return
	}
	app.flash(r, flashSuccess, "flash.exercise_added")
	redirect(w, r, exercisePath(id, index))
}

// redirectMissingExercise sends the user to the plan when it exists and home otherwise.
func (app *application) redirectMissingExercise(w http.ResponseWriter, r *http.Request, id int) {
	if _, err := app.tracker.GetPlan(r.Context(), id); err != nil {
		if !errors.Is(err, tracker.ErrNotFound) {
			app.serverError(w, r, err)
			return
		}
		app.flash(r, flashWarning, "flash.plan_not_found")
		redirect(w, r, "/")
		return
	}
	app.flash(r, flashWarning, "flash.exercise_missing")
	redirect(w, r, planPath(id))
}
