package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func Test_application_notFound(t *testing.T) {
	ctx := t.Context()
	server := startTestServer(t)
	client := server.Client()

	tests := []struct {
		name string
		path string
	}{
		{name: "Nonexistent path", path: "/nonexistent"},
		{name: "Invalid plan id", path: "/plans/abc"},
		{name: "Invalid exercise index", path: "/plans/1/exercises/first"},
		{name: "Invalid date", path: "/days/2026-13-45"},
		{name: "Invalid log id", path: "/logs/x/edit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Get(ctx, tt.path)
			if err != nil {
				t.Fatalf("Failed to get %s: %v", tt.path, err)
			}
			defer func() {
				_ = resp.Body.Close()
			}()
			if resp.StatusCode != http.StatusNotFound {
				t.Errorf("Expected status code %d, got %d", http.StatusNotFound, resp.StatusCode)
			}
			doc, err := goquery.NewDocumentFromReader(resp.Body)
			if err != nil {
				t.Fatalf("Failed to parse 404 document: %v", err)
			}
			if got := strings.TrimSpace(doc.Find("h1").Text()); got != "ページが見つかりません" {
				t.Errorf("Expected custom 404 heading, got %q", got)
			}
			if doc.Find("nav").Length() == 0 {
				t.Error("Expected the 404 page to use the base layout")
			}
		})
	}
}

func Test_application_static(t *testing.T) {
	ctx := t.Context()
	server := startTestServer(t)

	resp, err := server.Client().Get(ctx, "/stopwatch.js")
	if err != nil {
		t.Fatalf("Failed to get script: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Cache-Control"); !strings.Contains(got, "immutable") {
		t.Errorf("Expected static files to be cached, got %q", got)
	}
}
