package main

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/myrjola/fitplan/internal/errors"
	"github.com/myrjola/fitplan/internal/tracker"
)

type exerciseChoice struct {
	Name    string
	Checked bool
}

// exerciseChoices offers the known exercises followed by any selected exercise outside the catalogue.
func exerciseChoices(selected []string) []exerciseChoice {
	known := tracker.KnownExercises()
	choices := make([]exerciseChoice, 0, len(known)+len(selected))
	for _, name := range known {
		choices = append(choices, exerciseChoice{Name: name, Checked: slices.Contains(selected, name)})
	}
	for _, name := range selected {
		if !slices.Contains(known, name) {
			choices = append(choices, exerciseChoice{Name: name, Checked: true})
		}
	}
	return choices
}

type planFormTemplateData struct {
	BaseTemplateData
	Plan      tracker.Plan
	Exercises []exerciseChoice
	// Action is the form action; it differs between creating and editing.
	Action string
}

func (app *application) planNewGET(w http.ResponseWriter, r *http.Request) {
	date := app.today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		if parsed, err := tracker.ParseDate("date", raw); err == nil {
			date = parsed
		}
	}
	app.render(w, r, http.StatusOK, "plan-form", planFormTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Plan: tracker.Plan{
			ID:             0,
			Title:          "",
			Exercises:      nil,
			PlannedDate:    date,
			PlannedMinutes: tracker.DefaultPlannedMinutes,
			Notes:          "",
		},
		Exercises: exerciseChoices(nil),
		Action:    "/plans",
	})
}

func (app *application) planCreatePOST(w http.ResponseWriter, r *http.Request) {
	in, err := parsePlanForm(r)
	if err == nil {
		_, err = app.tracker.CreatePlan(r.Context(), in)
	}
	if err != nil {
		app.failMutation(w, r, err, errorRedirects{
			notFoundKey:  "flash.plan_not_found",
			notFoundPath: "/",
			invalidPath:  "/plans/new",
		})
		return
	}
	app.flash(r, flashSuccess, "flash.plan_created")
	redirect(w, r, "/")
}

type exerciseLink struct {
	Index int
	Name  string
}

type planTemplateData struct {
	BaseTemplateData
	tracker.PlanSummary
	ExerciseLinks []exerciseLink
}

// planGET shows the plan with its stopwatch and whole-plan logs.
func (app *application) planGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r, "id")
	if !ok {
		return
	}
	summary, err := app.tracker.PlanSummary(r.Context(), id)
	if errors.Is(err, tracker.ErrNotFound) {
		app.flash(r, flashWarning, "flash.plan_not_found")
		redirect(w, r, "/")
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	links := make([]exerciseLink, len(summary.Plan.Exercises))
	for i, name := range summary.Plan.Exercises {
		links[i] = exerciseLink{Index: i, Name: name}
	}
	app.render(w, r, http.StatusOK, "plan", planTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		PlanSummary:      summary,
		ExerciseLinks:    links,
	})
}

func planPath(id int) string {
	return fmt.Sprintf("/plans/%d", id)
}

// planLogPOST records the time measured with the stopwatch for the whole plan.
func (app *application) planLogPOST(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r, "id")
	if !ok {
		return
	}
	in, err := app.parseLogForm(r)
	if err == nil {
		_, err = app.tracker.RecordPlanTime(r.Context(), id, in)
	}
	if err != nil {
		app.failMutation(w, r, err, errorRedirects{
			notFoundKey:  "flash.plan_not_found",
			notFoundPath: "/",
			invalidPath:  planPath(id),
		})
		return
	}
	app.flash(r, flashSuccess, "flash.plan_time_added")
	redirect(w, r, planPath(id))
}

func (app *application) planEditGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r, "id")
	if !ok {
		return
	}
	plan, err := app.tracker.GetPlan(r.Context(), id)
	if errors.Is(err, tracker.ErrNotFound) {
		app.flash(r, flashWarning, "flash.plan_not_found")
		redirect(w, r, "/")
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "plan-form", planFormTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Plan:             plan,
		Exercises:        exerciseChoices(plan.Exercises),
		Action:           planPath(id) + "/edit",
	})
}

func (app *application) planEditPOST(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r, "id")
	if !ok {
		return
	}
	in, err := parsePlanForm(r)
	if err == nil {
		_, err = app.tracker.UpdatePlan(r.Context(), id, in)
	}
	if err != nil {
		app.failMutation(w, r, err, errorRedirects{
			notFoundKey:  "flash.plan_not_found",
			notFoundPath: "/",
			invalidPath:  planPath(id) + "/edit",
		})
		return
	}
	app.flash(r, flashSuccess, "flash.plan_updated")
	redirect(w, r, planPath(id))
}

// planPostponePOST moves a plan to new_date or by days. new_date wins when both are given.
func (app *application) planPostponePOST(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r, "id")
	if !ok {
		return
	}
	var postpone tracker.Postpone
	newDate, err := formDateOr(r, "new_date", time.Time{})
	if err == nil && !newDate.IsZero() {
		postpone.NewDate = &newDate
	}
	if err == nil {
		postpone.Days, err = tracker.ParseOptionalInt("days", r.PostFormValue("days"))
	}
	if err == nil {
		_, err = app.tracker.PostponePlan(r.Context(), id, postpone)
	}

	var validationErr *tracker.ValidationError
	switch {
	case errors.As(err, &validationErr) && validationErr.Field == "postpone":
		app.flash(r, flashWarning, "flash.postpone_invalid")
	case err != nil:
		app.failMutation(w, r, err, errorRedirects{
			notFoundKey:  "flash.plan_not_found",
			notFoundPath: "/",
			invalidPath:  "/",
		})
		return
	default:
		app.flash(r, flashSuccess, "flash.plan_postponed")
	}
	redirect(w, r, "/")
}

// planDeletePOST deletes the plan together with its logs.
func (app *application) planDeletePOST(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.tracker.DeletePlan(r.Context(), id); err != nil {
		app.failMutation(w, r, err, errorRedirects{
			notFoundKey:  "flash.plan_not_found",
			notFoundPath: "/",
			invalidPath:  "/",
		})
		return
	}
	app.flash(r, flashInfo, "flash.plan_deleted")
	redirect(w, r, "/")
}
