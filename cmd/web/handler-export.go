package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/myrjola/fitplan/internal/contexthelpers"
	"github.com/myrjola/fitplan/internal/export"
	"github.com/myrjola/fitplan/internal/tracker"
)

// exportGET downloads every plan and log as an Excel workbook.
func (app *application) exportGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	plans, logs, err := app.tracker.Export(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	// Buffer so that a failure can still be reported with the error page.
	var buf bytes.Buffer
	if err = export.Write(&buf, contexthelpers.Language(ctx), plans, logs); err != nil {
		app.serverError(w, r, err)
		return
	}
	filename := fmt.Sprintf("fitplan-%s.xlsx", tracker.FormatDate(app.today()))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err = buf.WriteTo(w); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "failed to write export", slog.Any("error", err))
	}
}

// backupGET downloads a consistent snapshot of the SQLite database.
func (app *application) backupGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	backupPath, err := app.tracker.Backup(ctx, app.backupDir)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	defer func() {
		if removeErr := os.Remove(backupPath); removeErr != nil {
			app.logger.LogAttrs(ctx, slog.LevelWarn, "failed to remove backup",
				slog.String("path", backupPath), slog.Any("error", removeErr))
		}
	}()

	file, err := os.Open(backupPath)
	if err != nil {
		app.serverError(w, r, fmt.Errorf("open backup: %w", err))
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			app.logger.LogAttrs(ctx, slog.LevelWarn, "failed to close backup",
				slog.String("path", backupPath), slog.Any("error", closeErr))
		}
	}()

	w.Header().Set("Content-Type", "application/x-sqlite3")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filepath.Base(backupPath)))
	if _, err = io.Copy(w, file); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "failed to stream backup",
			slog.String("path", backupPath), slog.Any("error", err))
	}
}
