package e2etest

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/myrjola/fitplan/internal/logging"

	_ "github.com/mattn/go-sqlite3"
)

// LogAddrKey is the log attribute under which the server reports its listening address.
const LogAddrKey = "addr"

// LogDsnKey is the log attribute under which the server reports its read-write SQLite DSN.
const LogDsnKey = "sqlDsn"

// RunFunc starts an application and blocks until ctx is cancelled. It has the signature of cmd/web's run.
type RunFunc func(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error

type Server struct {
	url    string
	client *Client
	db     *sql.DB
	cancel context.CancelCauseFunc
	done   chan struct{}
}

// StartServer runs the application in the background and returns once it answers its health check. The server is
// shut down when the test finishes.
//
// The application must log LogAddrKey and LogDsnKey. The DSN gives tests direct database access for assertions.
// logSink receives the server logs, usually a testhelpers.NewWriter.
func StartServer(t *testing.T, logSink io.Writer, lookupEnv func(string) (string, bool), run RunFunc) (*Server, error) {
	ctx, cancel := context.WithCancelCause(t.Context())
	server := &Server{url: "", client: nil, db: nil, cancel: cancel, done: make(chan struct{})}
	t.Cleanup(server.Shutdown)

	reported := captureFirst(LogAddrKey, LogDsnKey)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: reported.replaceAttr,
	})))

	go func() {
		defer close(server.done)
		if err := run(ctx, logger, lookupEnv); err != nil {
			cancel(err)
		}
	}()

	addr, err := reported.wait(ctx, LogAddrKey)
	if err != nil {
		return nil, err
	}
	dsn, err := reported.wait(ctx, LogDsnKey)
	if err != nil {
		return nil, err
	}

	server.url = "http://" + addr
	if server.client, err = NewClient(server.url); err != nil {
		return nil, fmt.Errorf("new client: %w", err)
	}
	if err = server.client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return nil, fmt.Errorf("wait for ready: %w", err)
	}
	if server.db, err = sql.Open("sqlite3", dsn); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return server, nil
}

func (s *Server) Client() *Client {
	return s.client
}

func (s *Server) URL() string {
	return s.url
}

// DB is a connection to the server's database.
func (s *Server) DB() *sql.DB {
	return s.db
}

// Shutdown stops the server and waits for run to return. It is safe to call more than once.
func (s *Server) Shutdown() {
	s.cancel(nil)
	<-s.done
	if s.db != nil {
		_ = s.db.Close()
	}
}

// firstValues records the first value logged under each of its keys.
type firstValues map[string]chan string

func captureFirst(keys ...string) firstValues {
	f := make(firstValues, len(keys))
	for _, k := range keys {
		f[k] = make(chan string, 1)
	}
	return f
}

func (f firstValues) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if ch, ok := f[a.Key]; ok {
		select {
		case ch <- a.Value.String():
		default:
		}
	}
	return a
}

func (f firstValues) wait(ctx context.Context, key string) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("wait for %s: %w", key, context.Cause(ctx))
	case v := <-f[key]:
		return v, nil
	}
}
