package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	neturl "net/url"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/myrjola/fitplan/internal/e2etest"
	"github.com/myrjola/fitplan/internal/logging"
	"github.com/myrjola/fitplan/internal/testhelpers"
)

const (
	expectedArgsCount     = 3
	scenarioTimeout       = 2 * time.Minute
	requestsPerWorker     = 50
	successRateThreshold  = 95.0
	percentageMultiplier  = 100
	stressPlanTitle       = "stresstest"
	maxConcurrentRequests = 20
)

type stats struct {
	succeeded atomic.Int64
	failed    atomic.Int64
}

func (s *stats) record(err error) {
	if err != nil {
		s.failed.Add(1)
		return
	}
	s.succeeded.Add(1)
}

func (s *stats) successRate() float64 {
	total := s.succeeded.Load() + s.failed.Load()
	if total == 0 {
		return 0
	}
	return float64(s.succeeded.Load()) * percentageMultiplier / float64(total)
}

// createStressPlan adds a plan for today and returns its path. The plan is found through the day page.
func createStressPlan(ctx context.Context, client *e2etest.Client) (string, error) {
	today := time.Now().Format(time.DateOnly)
	doc, err := client.GetDoc(ctx, "/plans/new")
	if err != nil {
		return "", fmt.Errorf("get new plan form: %w", err)
	}
	if _, err = client.SubmitForm(ctx, doc, "/plans", map[string]string{
		"タイトル": stressPlanTitle,
		"予定日":  today,
	}); err != nil {
		return "", fmt.Errorf("submit new plan form: %w", err)
	}
	if doc, err = client.GetDoc(ctx, "/days/"+today); err != nil {
		return "", fmt.Errorf("get day: %w", err)
	}
	var path string
	doc.Find(".day-plans a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Text() == stressPlanTitle {
			path = s.AttrOr("href", "")
			return false
		}
		return true
	})
	if path == "" {
		return "", errors.New("created plan not found")
	}
	return path, nil
}

// worker alternates between recording time on the plan and reading pages.
func worker(ctx context.Context, client *e2etest.Client, planPath string, s *stats) {
	for i := range requestsPerWorker {
		if ctx.Err() != nil {
			return
		}
		var err error
		if i%2 == 0 {
			err = recordTime(ctx, client, planPath)
		} else {
			_, err = client.GetDoc(ctx, []string{"/", planPath, "/logs"}[i%3])
		}
		s.record(err)
	}
}

func recordTime(ctx context.Context, client *e2etest.Client, planPath string) error {
	resp, err := client.PostForm(ctx, planPath+"/logs", neturl.Values{
		"seconds_total": {"1"},
		"notes":         {stressPlanTitle},
	})
	if err != nil {
		return fmt.Errorf("post log: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

func run(ctx context.Context, logger *slog.Logger, url string, workers int) error {
	ctx, cancel := context.WithTimeout(ctx, scenarioTimeout)
	defer cancel()

	client, err := e2etest.NewClient(url)
	if err != nil {
		return fmt.Errorf("new client: %w", err)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return fmt.Errorf("wait for ready: %w", err)
	}
	planPath, err := createStressPlan(ctx, client)
	if err != nil {
		return err
	}

	var (
		s     stats
		start = time.Now()
		g     errgroup.Group
	)
	g.SetLimit(maxConcurrentRequests)
	for range workers {
		g.Go(func() error {
			// Each worker has its own session like a separate browser tab.
			workerClient, clientErr := e2etest.NewClient(url)
			if clientErr != nil {
				return fmt.Errorf("new worker client: %w", clientErr)
			}
			worker(ctx, workerClient, planPath, &s)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return fmt.Errorf("run workers: %w", err)
	}

	rate := s.successRate()
	logger.LogAttrs(ctx, slog.LevelInfo, "stress test finished",
		slog.Int("workers", workers),
		slog.Int64("succeeded", s.succeeded.Load()),
		slog.Int64("failed", s.failed.Load()),
		slog.Float64("success_rate", rate),
		slog.Duration("duration", time.Since(start)))
	if rate < successRateThreshold {
		return fmt.Errorf("success rate %.1f%% below %.1f%%", rate, successRateThreshold)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname> <workers>")
		os.Exit(1)
	}
	hostname := os.Args[1]
	workers, err := strconv.Atoi(os.Args[2])
	if err != nil || workers < 1 {
		logger.LogAttrs(ctx, slog.LevelError, "workers must be a positive integer", slog.String("workers", os.Args[2]))
		os.Exit(1)
	}
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	if err = run(ctx, logger, url, workers); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "stress test failed", slog.Any("error", err))
		os.Exit(1)
	}
}
