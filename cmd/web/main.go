package main

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/yuin/goldmark"

	"github.com/myrjola/fitplan/internal/envstruct"
	"github.com/myrjola/fitplan/internal/errors"
	"github.com/myrjola/fitplan/internal/flightrecorder"
	"github.com/myrjola/fitplan/internal/logging"
	"github.com/myrjola/fitplan/internal/sqlite"
	"github.com/myrjola/fitplan/internal/tracker"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	templateFS     fs.FS
	tracker        *tracker.Service
	markdown       goldmark.Markdown
	// backupDir receives the database snapshots served by the backup handler.
	backupDir string
	// now is the clock used to resolve "today".
	now func() time.Time
	// flightRecorder captures a trace when a request times out. Nil disables it.
	flightRecorder *flightrecorder.Recorder
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"FITPLAN_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"FITPLAN_SQLITE_URL" envDefault:"./fitplan.sqlite3"`
	// TemplatePath is the path to the directory containing the HTML templates.
	TemplatePath string `env:"FITPLAN_TEMPLATE_PATH" envDefault:""`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `env:"FITPLAN_LOG_LEVEL" envDefault:"info"`
	// SessionLifetime is how long the training level and flash messages are remembered.
	SessionLifetime time.Duration `env:"FITPLAN_SESSION_LIFETIME" envDefault:"720h"`
	// SecureCookies marks cookies Secure. Disable only when serving plain HTTP outside localhost.
	SecureCookies bool `env:"FITPLAN_SECURE_COOKIES" envDefault:"true"`
	// BackupDir is where database backups are written before download. Empty means the OS temp dir.
	BackupDir string `env:"FITPLAN_BACKUP_DIR" envDefault:""`
	// TracesDir enables the flight recorder, which writes execution traces of timed out requests here.
	TracesDir string `env:"FITPLAN_TRACES_DIR" envDefault:""`
}

// envFileKey names the optional .env file consulted for every other setting.
const envFileKey = "FITPLAN_ENV_FILE"

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	if envFile, ok := lookupEnv(envFileKey); ok {
		if lookupEnv, err = envstruct.WithDotEnv(lookupEnv, envFile); err != nil {
			return errors.Wrap(err, "load env file", slog.String("path", envFile))
		}
	}

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "parse log level")
	}
	logger = slog.New(logging.NewLevelHandler(level, logger.Handler()))

	var htmlTemplatePath string
	if htmlTemplatePath, err = resolveAndVerifyTemplatePath(cfg.TemplatePath); err != nil {
		return errors.Wrap(err, "resolve template path")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close db", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	backupDir := cfg.BackupDir
	if backupDir == "" {
		backupDir = os.TempDir()
	}

	var recorder *flightrecorder.Recorder
	if cfg.TracesDir != "" {
		if recorder, err = flightrecorder.New(logger, cfg.TracesDir); err != nil {
			return errors.Wrap(err, "create flight recorder")
		}
		if err = recorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer recorder.Stop(ctx)
	}

	app := application{
		logger:         logger,
		sessionManager: initializeSessionManager(db, cfg),
		templateFS:     os.DirFS(htmlTemplatePath),
		tracker:        tracker.NewService(db, logger),
		markdown:       goldmark.New(),
		backupDir:      backupDir,
		now:            time.Now,
		flightRecorder: recorder,
	}

	var handler http.Handler
	if handler, err = app.routes(); err != nil {
		return errors.Wrap(err, "configure routes")
	}
	if err = app.configureAndStartServer(ctx, cfg.Addr, handler); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func initializeSessionManager(dbs *sqlite.Database, cfg config) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite, 24*time.Hour) //nolint:mnd // day
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.Secure = cfg.SecureCookies
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteStrictMode
	return sessionManager
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
