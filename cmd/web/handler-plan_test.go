package main

import (
	"net/http"
	neturl "net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func Test_application_plan(t *testing.T) {
	var (
		ctx = t.Context()
		doc *goquery.Document
		err error
	)
	server := startTestServer(t)
	client := server.Client()
	today := todayString()

	id := createPlan(t, server, map[string]string{
		"タイトル":    "体幹トレーニング",
		"予定日":     today,
		"予定時間（分）": "30",
		"プランク":    "プランク",
		"スクワット":   "スクワット",
		"その他の種目":  "バーピー, プランク",
		"メモ":      "**しっかり**呼吸する",
	})
	path := planPath(id)

	t.Run("Show plan", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, path); err != nil {
			t.Fatalf("Failed to get plan: %v", err)
		}
		if got := doc.Find("h1").Text(); got != "体幹トレーニング" {
			t.Errorf("Expected title, got %q", got)
		}
		var exercises []string
		doc.Find(".exercises a").Each(func(_ int, s *goquery.Selection) {
			exercises = append(exercises, s.Text())
		})
		if got := strings.Join(exercises, ","); got != "プランク,スクワット,バーピー" {
			t.Errorf("Expected deduplicated exercises in order, got %q", got)
		}
		if got := doc.Find(".notes strong").Text(); got != "しっかり" {
			t.Errorf("Expected notes rendered as markdown, got %q", got)
		}
		if got := doc.Find(".total").Text(); got != "00:00:00" {
			t.Errorf("Expected no time recorded, got %q", got)
		}
	})

	t.Run("Zero seconds are rejected", func(t *testing.T) {
		if doc, err = client.SubmitForm(ctx, doc, path+"/logs", nil); err != nil {
			t.Fatalf("Failed to submit: %v", err)
		}
		checkFlash(t, doc, "warning", "計測時間が0秒です。Start/Stopで時間を計測してください。")
		if n := countRows(t, server, "logs"); n != 0 {
			t.Errorf("Expected no logs, got %d", n)
		}
	})

	t.Run("Record whole plan time", func(t *testing.T) {
		if doc, err = client.SubmitForm(ctx, doc, path+"/logs", map[string]string{"時間": "00:15:00"}); err != nil {
			t.Fatalf("Failed to submit: %v", err)
		}
		checkFlash(t, doc, "success", "プラン全体の時間を追加しました。")
		if got := doc.Find(".total").Text(); got != "00:15:00" {
			t.Errorf("Expected total 00:15:00, got %q", got)
		}
		if got := doc.Find(".plan-progress span.percent").Text(); got != "50%" {
			t.Errorf("Expected 50%%, got %q", got)
		}
		if !doc.Find(".plan-progress progress").HasClass("progress-warning") {
			t.Error("Expected warning progress bar")
		}
		if got := doc.Find(".plan-logs tbody tr").Length(); got != 1 {
			t.Errorf("Expected 1 whole-plan log, got %d", got)
		}
	})

	t.Run("Record exercise", func(t *testing.T) {
		exercise := exercisePath(id, 1)
		if doc, err = client.GetDoc(ctx, exercise); err != nil {
			t.Fatalf("Failed to get exercise: %v", err)
		}
		if got := doc.Find("h1").Text(); got != "スクワット" {
			t.Errorf("Expected exercise name, got %q", got)
		}
		if got := doc.Find(".recommended").Text(); got != "レベル1の目安: 10回" {
			t.Errorf("Expected beginner recommendation, got %q", got)
		}
		if doc, err = client.SubmitForm(ctx, doc, exercise+"/logs", map[string]string{
			"時間":   "00:02:00",
			"回数":   "15",
			"セット数": "3",
		}); err != nil {
			t.Fatalf("Failed to submit: %v", err)
		}
		checkFlash(t, doc, "success", "種目の記録を追加しました。")
		if got := doc.Find(".totals").Text(); got != "合計 00:02:00 ・ 15回 ・ 3セット" {
			t.Errorf("Unexpected totals %q", got)
		}

		// Exercise logs do not count towards the whole-plan total.
		if doc, err = client.GetDoc(ctx, path); err != nil {
			t.Fatalf("Failed to get plan: %v", err)
		}
		if got := doc.Find(".total").Text(); got != "00:15:00" {
			t.Errorf("Expected whole-plan total unchanged, got %q", got)
		}
	})

	t.Run("Missing exercise redirects to plan", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, exercisePath(id, 3)); err != nil {
			t.Fatalf("Failed to get exercise: %v", err)
		}
		checkFlash(t, doc, "warning", "種目が見つかりません。")
		if doc.Url.Path != path {
			t.Errorf("Expected redirect to %s, got %s", path, doc.Url.Path)
		}
	})

	t.Run("Edit plan", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, path+"/edit"); err != nil {
			t.Fatalf("Failed to get edit form: %v", err)
		}
		if checked := doc.Find("input[name=exercises][checked]").Length(); checked != 3 {
			t.Errorf("Expected 3 checked exercises, got %d", checked)
		}
		if doc, err = client.SubmitForm(ctx, doc, path+"/edit", map[string]string{
			"タイトル":    "体幹トレーニング改",
			"予定時間（分）": "60",
		}); err != nil {
			t.Fatalf("Failed to submit: %v", err)
		}
		checkFlash(t, doc, "success", "計画を更新しました。")
		if got := doc.Find("h1").Text(); got != "体幹トレーニング改" {
			t.Errorf("Expected new title, got %q", got)
		}
		if got := doc.Find(".plan-progress span.percent").Text(); got != "25%" {
			t.Errorf("Expected 25%% of the new target, got %q", got)
		}
	})

	t.Run("Invalid title is rejected", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, path+"/edit"); err != nil {
			t.Fatalf("Failed to get edit form: %v", err)
		}
		if doc, err = client.SubmitForm(ctx, doc, path+"/edit", map[string]string{"タイトル": "  "}); err != nil {
			t.Fatalf("Failed to submit: %v", err)
		}
		if !doc.Find("p.flash").HasClass("flash-danger") {
			t.Error("Expected danger flash")
		}
		if doc.Url.Path != path+"/edit" {
			t.Errorf("Expected to stay on edit form, got %s", doc.Url.Path)
		}
	})

	t.Run("Postpone", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, path); err != nil {
			t.Fatalf("Failed to get plan: %v", err)
		}
		newDate := time.Now().AddDate(0, 0, 7).Format(time.DateOnly)
		if doc, err = client.SubmitForm(ctx, doc, path+"/postpone", map[string]string{
			"新しい日付": newDate,
			"日数":    "1",
		}); err != nil {
			t.Fatalf("Failed to submit: %v", err)
		}
		checkFlash(t, doc, "success", "計画日を変更しました。")
		var planned string
		if err = server.DB().QueryRowContext(ctx, "SELECT planned_date FROM plans WHERE id = ?", id).
			Scan(&planned); err != nil {
			t.Fatalf("Failed to query plan: %v", err)
		}
		if planned != newDate {
			t.Errorf("Expected new date %s to win over days, got %s", newDate, planned)
		}

		resp, postErr := client.PostForm(ctx, path+"/postpone", neturl.Values{})
		if postErr != nil {
			t.Fatalf("Failed to post: %v", postErr)
		}
		if doc, err = goquery.NewDocumentFromReader(resp.Body); err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}
		_ = resp.Body.Close()
		checkFlash(t, doc, "warning", "延期の指定が不正です。")

		// 3,000,000 days lands past year 9999.
		if resp, postErr = client.PostForm(ctx, path+"/postpone", neturl.Values{"days": {"3000000"}}); postErr != nil {
			t.Fatalf("Failed to post: %v", postErr)
		}
		if doc, err = goquery.NewDocumentFromReader(resp.Body); err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected the home page after a rejected postpone, got status %d", resp.StatusCode)
		}
		if flash := doc.Find("p.flash.flash-danger"); !strings.HasPrefix(strings.TrimSpace(flash.Text()), "エラー:") {
			t.Errorf("Expected an error flash, got %q", flash.Text())
		}
		var kept string
		if err = server.DB().QueryRowContext(ctx, "SELECT planned_date FROM plans WHERE id = ?", id).
			Scan(&kept); err != nil {
			t.Fatalf("Failed to query plan: %v", err)
		}
		if kept != newDate {
			t.Errorf("Expected the rejected postpone to keep %s, got %s", newDate, kept)
		}
	})

	t.Run("Delete plan with its logs", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, path); err != nil {
			t.Fatalf("Failed to get plan: %v", err)
		}
		if doc, err = client.SubmitForm(ctx, doc, path+"/delete", nil); err != nil {
			t.Fatalf("Failed to submit: %v", err)
		}
		checkFlash(t, doc, "info", "計画と関連する記録を削除しました。")
		if n := countRows(t, server, "plans"); n != 0 {
			t.Errorf("Expected no plans, got %d", n)
		}
		if n := countRows(t, server, "logs"); n != 0 {
			t.Errorf("Expected no logs, got %d", n)
		}

		if doc, err = client.GetDoc(ctx, path); err != nil {
			t.Fatalf("Failed to get deleted plan: %v", err)
		}
		checkFlash(t, doc, "warning", "計画が見つかりません。")
		if doc.Url.Path != "/" {
			t.Errorf("Expected redirect home, got %s", doc.Url.Path)
		}
	})
}

func Test_application_planNewDefaults(t *testing.T) {
	server := startTestServer(t)
	doc, err := server.Client().GetDoc(t.Context(), "/plans/new?date=2026-03-01")
	if err != nil {
		t.Fatalf("Failed to get new plan form: %v", err)
	}
	if got := doc.Find("#planned_date").AttrOr("value", ""); got != "2026-03-01" {
		t.Errorf("Expected date from query, got %q", got)
	}
	if got := doc.Find("#planned_minutes").AttrOr("value", ""); got != "30" {
		t.Errorf("Expected default minutes, got %q", got)
	}
	if n := doc.Find("input[name=exercises]").Length(); n != 12 {
		t.Errorf("Expected the exercise catalogue, got %d choices", n)
	}
}
