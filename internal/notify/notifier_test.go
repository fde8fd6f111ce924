package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rafau/kiwi-rates/internal/rates"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestNtfyNotifySuccess(t *testing.T) {
	var (
		gotPath  string
		gotTitle string
		gotTags  string
		gotBody  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTitle = r.Header.Get("Title")
		gotTags = r.Header.Get("Tags")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer srv.Close()

	notifier := NewNtfy("rates-topic", srv.URL, "", time.Second, testLogger())
	changed := rates.Snapshot{
		{ProductName: "Standard", Term: "1 year", RatePercentage: rates.RateFromFloat(4.39)},
		{ProductName: "Special", Term: "2 years", RatePercentage: rates.RateFromFloat(4.15)},
	}
	previous := map[rates.Key]rates.Rate{
		{Product: "Standard", Term: "1 year"}: rates.RateFromFloat(4.49),
	}

	if err := notifier.Notify(context.Background(), "BNZ", changed, previous); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if gotPath != "/rates-topic" {
		t.Fatalf("expected topic path, got %q", gotPath)
	}
	if gotTitle != "BNZ: 2 rates changed" {
		t.Fatalf("unexpected title %q", gotTitle)
	}
	if gotTags == "" {
		t.Fatal("tags header must be set")
	}
	if !strings.Contains(gotBody, "- Standard 1 year: 4.49% -> 4.39%") {
		t.Fatalf("body must show the prior rate, got:\n%s", gotBody)
	}
	if !strings.Contains(gotBody, "- Special 2 years: 4.15% (new)") {
		t.Fatalf("body must mark keys without a prior value as new, got:\n%s", gotBody)
	}
}

func TestNtfyNotifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	notifier := NewNtfy("rates-topic", srv.URL, "", time.Second, testLogger())
	changed := rates.Snapshot{{ProductName: "Standard", Term: "1 year", RatePercentage: rates.RateFromFloat(4.39)}}

	if err := notifier.Notify(context.Background(), "BNZ", changed, nil); err == nil {
		t.Fatal("non-2xx response must be an error")
	}
}

func TestFormatMessageSingular(t *testing.T) {
	changed := rates.Snapshot{{ProductName: "Standard", Term: "1 year", RatePercentage: rates.RateFromFloat(4.39)}}

	title, body := FormatMessage("BNZ", changed, nil)
	if title != "BNZ: 1 rate changed" {
		t.Fatalf("unexpected title %q", title)
	}
	if strings.Count(body, "\n") != 0 {
		t.Fatalf("expected a single line body, got:\n%s", body)
	}
}
