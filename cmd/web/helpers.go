package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/myrjola/fitplan/internal/contexthelpers"
	"github.com/myrjola/fitplan/internal/errors"
	"github.com/myrjola/fitplan/internal/i18n"
	"github.com/myrjola/fitplan/internal/ptr"
	"github.com/myrjola/fitplan/internal/tracker"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.render(w, r, http.StatusInternalServerError, "error", app.newBaseTemplateData(r))
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusNotFound, "not-found", app.newBaseTemplateData(r))
}

// redirect detects if the request is originating from a fetch API call or a top-level navigation and points the user
// to the correct URL.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("Sec-Fetch-Dest") == "empty" {
		w.Header().Set("Content-Location", path)
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, path, http.StatusSeeOther)
}

// flashLevel doubles as the CSS class suffix of the flash message.
type flashLevel string

const (
	flashSuccess flashLevel = "success"
	flashWarning flashLevel = "warning"
	flashDanger  flashLevel = "danger"
	flashInfo    flashLevel = "info"
)

const (
	flashMessageKey = "flash"
	flashLevelKey   = "flash_level"
)

type flashMessage struct {
	Level   flashLevel
	Message string
}

// flash stores the translation of key for the next rendered page.
func (app *application) flash(r *http.Request, level flashLevel, key string, args ...any) {
	ctx := r.Context()
	message := i18n.Translatef(contexthelpers.Language(ctx), key, args...)
	app.sessionManager.Put(ctx, flashMessageKey, message)
	app.sessionManager.Put(ctx, flashLevelKey, string(level))
}

func (app *application) popFlash(r *http.Request) *flashMessage {
	ctx := r.Context()
	message := app.sessionManager.PopString(ctx, flashMessageKey)
	level := app.sessionManager.PopString(ctx, flashLevelKey)
	if message == "" {
		return nil
	}
	return &flashMessage{Level: flashLevel(level), Message: message}
}

// errorRedirects tells failMutation where to send the user.
type errorRedirects struct {
	// notFoundKey and notFoundPath are used when the addressed plan, exercise or log is gone.
	notFoundKey  string
	notFoundPath string
	// invalidPath receives the user after rejected input.
	invalidPath string
}

// failMutation turns a failed write into a flash message and a redirect. Unexpected errors are server errors.
func (app *application) failMutation(w http.ResponseWriter, r *http.Request, err error, to errorRedirects) {
	var validationErr *tracker.ValidationError
	switch {
	case errors.As(err, &validationErr) && validationErr.Field == "seconds_total":
		app.flash(r, flashWarning, "flash.zero_seconds")
		redirect(w, r, to.invalidPath)
	case errors.As(err, &validationErr):
		app.flash(r, flashDanger, "flash.error", validationErr.Error())
		redirect(w, r, to.invalidPath)
	case errors.Is(err, tracker.ErrNotFound):
		app.flash(r, flashWarning, to.notFoundKey)
		redirect(w, r, to.notFoundPath)
	default:
		app.serverError(w, r, err)
	}
}

// today is the current calendar date.
func (app *application) today() time.Time {
	return tracker.DateOf(app.now())
}

// parseIDParam parses the positive integer path parameter name. On failure it renders the 404 page.
func (app *application) parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id < 0 {
		app.notFound(w, r)
		return 0, false
	}
	return id, true
}

// parseDateParam parses the "date" path parameter. On failure it renders the 404 page.
func (app *application) parseDateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	date, err := tracker.ParseDate("date", r.PathValue("date"))
	if err != nil {
		app.notFound(w, r)
		return time.Time{}, false
	}
	return date, true
}

// formDateOr parses the date form field, using fallback when it is blank.
func formDateOr(r *http.Request, field string, fallback time.Time) (time.Time, error) {
	value := strings.TrimSpace(r.PostFormValue(field))
	if value == "" {
		return fallback, nil
	}
	date, err := tracker.ParseDate(field, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("form field %s: %w", field, err)
	}
	return date, nil
}

// formInt parses an integer form field. Blank input is fallback.
func formInt(r *http.Request, field string, fallback int) (int, error) {
	n, err := tracker.ParseOptionalInt(field, r.PostFormValue(field))
	if err != nil {
		return 0, fmt.Errorf("form field %s: %w", field, err)
	}
	return ptr.ValueOr(n, fallback), nil
}

// parsePlanForm reads the fields shared by the create and edit plan forms.
func parsePlanForm(r *http.Request) (tracker.PlanInput, error) {
	if err := r.ParseForm(); err != nil {
		return tracker.PlanInput{}, fmt.Errorf("parse form: %w", err)
	}
	// A missing date is caught by PlanInput validation.
	plannedDate, err := formDateOr(r, "planned_date", time.Time{})
	if err != nil {
		return tracker.PlanInput{}, err
	}
	minutes, err := formInt(r, "planned_minutes", tracker.DefaultPlannedMinutes)
	if err != nil {
		return tracker.PlanInput{}, err
	}
	exercises := r.PostForm["exercises"]
	// Free-text exercises are comma separated.
	exercises = append(exercises, tracker.ParseExercises(r.PostFormValue("custom_exercises"))...)
	return tracker.PlanInput{
		Title:          r.PostFormValue("title"),
		Exercises:      exercises,
		PlannedDate:    plannedDate,
		PlannedMinutes: minutes,
		Notes:          r.PostFormValue("notes"),
	}, nil
}

// parseLogForm reads a log form. A blank date is today.
func (app *application) parseLogForm(r *http.Request) (tracker.LogInput, error) {
	if err := r.ParseForm(); err != nil {
		return tracker.LogInput{}, fmt.Errorf("parse form: %w", err)
	}
	actualDate, err := formDateOr(r, "actual_date", app.today())
	if err != nil {
		return tracker.LogInput{}, err
	}
	seconds, err := formInt(r, "seconds_total", 0)
	if err != nil {
		return tracker.LogInput{}, err
	}
	// The edit form also accepts an HH:MM:SS duration which wins over seconds_total.
	if duration := strings.TrimSpace(r.PostFormValue("duration")); duration != "" {
		if seconds, err = tracker.ParseDuration(duration); err != nil {
			return tracker.LogInput{}, fmt.Errorf("form field duration: %w", err)
		}
	}
	reps, err := tracker.ParseOptionalInt("reps", r.PostFormValue("reps"))
	if err != nil {
		return tracker.LogInput{}, fmt.Errorf("form field reps: %w", err)
	}
	sets, err := tracker.ParseOptionalInt("sets", r.PostFormValue("sets"))
	if err != nil {
		return tracker.LogInput{}, fmt.Errorf("form field sets: %w", err)
	}
	return tracker.LogInput{
		ActualDate:   actualDate,
		SecondsTotal: seconds,
		Reps:         reps,
		Sets:         sets,
		Notes:        r.PostFormValue("notes"),
	}, nil
}
