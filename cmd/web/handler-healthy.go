package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// healthy responds with a JSON object indicating that the server is healthy.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

type cspViolationReport struct {
	CSPReport struct {
		DocumentURI       string `json:"document-uri"`
		ViolatedDirective string `json:"violated-directive"`
		BlockedURI        string `json:"blocked-uri"`
		SourceFile        string `json:"source-file"`
		LineNumber        int    `json:"line-number"`
	} `json:"csp-report"`
}

// cspViolation logs the reports sent to the report-uri of the Content-Security-Policy.
func (app *application) cspViolation(w http.ResponseWriter, r *http.Request) {
	const maxBodySize = 64 * 1024
	var report cspViolationReport
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&report); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "invalid CSP violation report", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	app.logger.LogAttrs(r.Context(), slog.LevelWarn, "CSP violation detected",
		slog.String("document_uri", report.CSPReport.DocumentURI),
		slog.String("violated_directive", report.CSPReport.ViolatedDirective),
		slog.String("blocked_uri", report.CSPReport.BlockedURI),
		slog.String("source_file", report.CSPReport.SourceFile),
		slog.Int("line_number", report.CSPReport.LineNumber))

	w.WriteHeader(http.StatusNoContent)
}
