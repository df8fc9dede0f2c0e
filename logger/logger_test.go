package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q): want %v, got %v", in, want, got)
		}
	}
}

func TestNew_json(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")
	log.Debug("hidden")
	log.Info("visible", "iter", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("want 1 line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["msg"] != "visible" {
		t.Errorf("want msg visible, got %v", rec["msg"])
	}
	if rec["iter"] != float64(2) {
		t.Errorf("want iter 2, got %v", rec["iter"])
	}
}

func TestNew_text(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug", "text").Debug("step", "residual", 0.5)
	out := buf.String()
	if !strings.Contains(out, "msg=step") || !strings.Contains(out, "residual=0.5") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	defer slog.SetDefault(prev)
	slog.SetDefault(New(&buf, "info", "text"))

	WithComponent("recon").Info("start")
	if !strings.Contains(buf.String(), "component=recon") {
		t.Errorf("component missing: %q", buf.String())
	}
}
