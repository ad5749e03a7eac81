package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/myrjola/fitplan/internal/e2etest"
	"github.com/myrjola/fitplan/internal/logging"
	"github.com/myrjola/fitplan/internal/testhelpers"
)

// pageCheck is a read-only page together with an element it must render.
type pageCheck struct {
	path     string
	selector string
}

// pages are only read so the smoke test is safe to run against production.
//
//nolint:gochecknoglobals // constant list.
var pages = []pageCheck{
	{path: "/", selector: "section.overall"},
	{path: "/plans/new", selector: "form[action='/plans']"},
	{path: "/auto-plan", selector: "form[action='/auto-plan'] input[name=start_date]"},
	{path: "/logs", selector: "main h1"},
	{path: "/settings", selector: "select[name=level]"},
	{path: "/days/" + time.Now().Format(time.DateOnly), selector: "main h1"},
}

func checkPages(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, page := range pages {
		g.Go(func() error {
			doc, err := client.GetDoc(gctx, page.path)
			if err != nil {
				return fmt.Errorf("get %s: %w", page.path, err)
			}
			if doc.Find("nav").Length() == 0 {
				return fmt.Errorf("%s is missing the navigation", page.path)
			}
			if doc.Find(page.selector).Length() == 0 {
				return fmt.Errorf("%s is missing %q", page.path, page.selector)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("check pages: %w", err)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		client   *e2etest.Client
		err      error
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if err = checkPages(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error checking pages", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "smoke test passed", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
