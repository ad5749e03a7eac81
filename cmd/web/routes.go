package main

import (
	"fmt"
	"net/http"
)

func (app *application) routes() (http.Handler, error) {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(commonContext(app.timeout(next)))))
		}
		stateless = func(next http.Handler) http.Handler {
			return app.recoverPanic(shared(next))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(shared(next))))
		}
	)

	mux.Handle("GET /{$}", session(http.HandlerFunc(app.home)))

	mux.Handle("GET /settings", session(http.HandlerFunc(app.settingsGET)))
	mux.Handle("POST /settings", session(http.HandlerFunc(app.settingsPOST)))
	mux.Handle("POST /language", stateless(http.HandlerFunc(app.setLanguagePOST)))

	mux.Handle("GET /plans/new", session(http.HandlerFunc(app.planNewGET)))
	mux.Handle("POST /plans", session(http.HandlerFunc(app.planCreatePOST)))
	mux.Handle("GET /plans/{id}", session(http.HandlerFunc(app.planGET)))
	mux.Handle("POST /plans/{id}/logs", session(http.HandlerFunc(app.planLogPOST)))
	mux.Handle("GET /plans/{id}/edit", session(http.HandlerFunc(app.planEditGET)))
	mux.Handle("POST /plans/{id}/edit", session(http.HandlerFunc(app.planEditPOST)))
	mux.Handle("POST /plans/{id}/postpone", session(http.HandlerFunc(app.planPostponePOST)))
	mux.Handle("POST /plans/{id}/delete", session(http.HandlerFunc(app.planDeletePOST)))

	mux.Handle("GET /plans/{id}/exercises/{index}", session(http.HandlerFunc(app.exerciseGET)))
	mux.Handle("POST /plans/{id}/exercises/{index}/logs", session(http.HandlerFunc(app.exerciseLogPOST)))

	mux.Handle("GET /days/{date}", session(http.HandlerFunc(app.dayGET)))

	mux.Handle("GET /auto-plan", session(http.HandlerFunc(app.autoPlanGET)))
	mux.Handle("POST /auto-plan", session(http.HandlerFunc(app.autoPlanPOST)))

	mux.Handle("GET /logs", session(http.HandlerFunc(app.logsGET)))
	mux.Handle("GET /logs/{id}/edit", session(http.HandlerFunc(app.logEditGET)))
	mux.Handle("POST /logs/{id}/edit", session(http.HandlerFunc(app.logEditPOST)))
	mux.Handle("POST /logs/{id}/delete", session(http.HandlerFunc(app.logDeletePOST)))

	mux.Handle("GET /export.xlsx", session(http.HandlerFunc(app.exportGET)))
	mux.Handle("GET /backup.sqlite3", session(http.HandlerFunc(app.backupGET)))

	mux.Handle("GET /api/healthy", stateless(http.HandlerFunc(app.healthy)))
	mux.Handle("POST /api/csp-violation", stateless(http.HandlerFunc(app.cspViolation)))

	fileServerHandler, err := app.fileServerHandler(session)
	if err != nil {
		return nil, fmt.Errorf("fileServerHandler: %w", err)
	}
	mux.Handle("/", fileServerHandler)

	return mux, nil
}
