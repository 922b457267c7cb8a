package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-quickstart/internal/logging"
	"github.com/goliatone/go-quickstart/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)

	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: console.LevelDebug,
	})

	logger := provider.GetLogger("quickstart.ingest")
	logger = logging.WithFields(logger, map[string]any{"module": "quickstart.ingest"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"ingest_id": "run-1"})
	logger = logger.WithContext(ctx)

	logger.Warn("quickstart.dashboard.parse_failed",
		"file_path", "dashboards/a/a.json",
		"error", errors.New("unexpected end of JSON input"),
	)

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26Z WARN quickstart.dashboard.parse_failed error="unexpected end of JSON input" file_path=dashboards/a/a.json ingest_id=run-1 logger=quickstart.ingest module=quickstart.ingest`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		MinLevel: console.LevelInfo,
	})

	logger := provider.GetLogger("quickstart.test")
	logger.Debug("ignored.debug")
	logger.Info("included.info", "dangling")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "included.info") || !strings.Contains(lines[0], "arg_0=dangling") {
		t.Fatalf("unexpected line: %s", lines[0])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		" DEBUG ": console.LevelDebug,
		"warning": console.LevelWarn,
		"fatal":   console.LevelFatal,
	}
	for input, want := range cases {
		got, ok := console.ParseLevel(input)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", input, got, ok, want)
		}
	}
	if _, ok := console.ParseLevel("loud"); ok {
		t.Fatal("expected unknown level to be rejected")
	}
}
