package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/clarabennett2626/logroute/internal/parser"
	"github.com/clarabennett2626/logroute/internal/pipe"
	"github.com/clarabennett2626/logroute/internal/source"
)

var fixedNow = time.Date(2026, 2, 17, 20, 0, 0, 0, time.UTC)

func plainRenderer(opts ...func(*RenderConfig)) *Renderer {
	cfg := DefaultConfig()
	cfg.Now = func() time.Time { return fixedNow }
	cfg.Width = 200
	for _, o := range opts {
		o(&cfg)
	}
	return NewRenderer(cfg)
}

func message(e parser.LogEntry) *pipe.Message {
	return &pipe.Message{Entry: e, Source: "/var/log/app.log"}
}

func TestRender_Levels(t *testing.T) {
	r := plainRenderer()
	tests := []struct {
		level string
		want  string
	}{
		{"debug", "DEBUG"},
		{"trace", "DEBUG"},
		{"INFO", "INFO"},
		{"notice", "INFO"},
		{"warning", "WARN"},
		{"err", "ERROR"},
		{"PANIC", "FATAL"},
		{"emerg", "FATAL"},
		{"crit", "FATAL"},
	}
	for _, tt := range tests {
		out := r.RenderPlain(message(parser.LogEntry{Level: tt.level, Message: "x"}))
		if !strings.HasPrefix(out, tt.want) {
			t.Errorf("level %q rendered as %q, want prefix %q", tt.level, out, tt.want)
		}
	}
}

func TestRender_Timestamps(t *testing.T) {
	ts := fixedNow.Add(-5 * time.Minute)
	tests := []struct {
		format TimestampFormat
		want   string
	}{
		{TimestampRelative, "5m ago"},
		{TimestampISO, "2026-02-17T19:55:00Z"},
		{TimestampClock, ts.Format("15:04:05")},
	}
	for _, tt := range tests {
		r := plainRenderer(func(c *RenderConfig) { c.Timestamps = tt.format })
		out := r.RenderPlain(message(parser.LogEntry{Timestamp: ts, Message: "x"}))
		if !strings.Contains(out, tt.want) {
			t.Errorf("format %d: %q does not contain %q", tt.format, out, tt.want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	tests := []struct {
		offset time.Duration
		want   string
	}{
		{0, "just now"},
		{30 * time.Second, "30s ago"},
		{3 * time.Hour, "3h ago"},
		{48 * time.Hour, "2d ago"},
		{-2 * time.Minute, "2m from now"},
	}
	for _, tt := range tests {
		if got := relativeTime(fixedNow.Add(-tt.offset), fixedNow); got != tt.want {
			t.Errorf("relativeTime(-%v) = %q, want %q", tt.offset, got, tt.want)
		}
	}
}

func TestRender_Fields(t *testing.T) {
	e := parser.LogEntry{Message: "req", Fields: map[string]string{"path": "/", "status": "200", "method": "GET"}}

	hidden := plainRenderer().RenderPlain(message(e))
	if strings.Contains(hidden, "status=") {
		t.Errorf("fields shown without ShowFields: %q", hidden)
	}

	r := plainRenderer(func(c *RenderConfig) {
		c.ShowFields = true
		c.FieldOrder = []string{"status"}
	})
	out := r.RenderPlain(message(e))
	if !strings.HasSuffix(out, "status=200 method=GET path=/") {
		t.Errorf("fields = %q", out)
	}
}

func TestRender_Source(t *testing.T) {
	r := plainRenderer(func(c *RenderConfig) { c.ShowSource = true })
	out := r.RenderPlain(message(parser.LogEntry{Message: "hello"}))
	if out != "app.log │ hello" {
		t.Errorf("RenderPlain() = %q", out)
	}
}

func TestRender_RawFallbackAndMultiLine(t *testing.T) {
	r := plainRenderer()
	out := r.RenderPlain(message(parser.LogEntry{Raw: "panic: boom\n  at main"}))
	if out != "panic: boom ⏎   at main" {
		t.Errorf("RenderPlain() = %q", out)
	}
}

func TestRender_ANSI(t *testing.T) {
	e := parser.LogEntry{Message: "\x1b[31mred\x1b[0m"}
	if out := plainRenderer().RenderPlain(message(e)); out != "red" {
		t.Errorf("stripped = %q", out)
	}
	keep := plainRenderer(func(c *RenderConfig) { c.KeepANSI = true })
	if out := keep.RenderPlain(message(e)); !strings.Contains(out, "\x1b[31m") {
		t.Errorf("escape sequences dropped: %q", out)
	}
}

func TestRender_Truncation(t *testing.T) {
	r := plainRenderer(func(c *RenderConfig) { c.Width = 10 })
	out := r.Render(message(parser.LogEntry{Message: strings.Repeat("é", 40)}))
	if got := StripANSI(out); got != strings.Repeat("é", 9)+"…" {
		t.Errorf("truncated = %q", got)
	}
}

func TestRender_Themes(t *testing.T) {
	e := parser.LogEntry{Level: "error", Message: "boom"}
	for _, theme := range []Theme{ThemeDark, ThemeLight} {
		r := plainRenderer(func(c *RenderConfig) { c.Theme = theme })
		if out := StripANSI(r.Render(message(e))); !strings.Contains(out, "boom") {
			t.Errorf("theme %d: %q", theme, out)
		}
	}
}

func TestRenderStrategies(t *testing.T) {
	rows := []StrategyRow{
		{Path: "/var/log/app.log", Strategy: source.Resolve(source.RegularFile, source.Current)},
		{Path: "/dev/ttyS0", Strategy: source.Resolve(source.DeviceNode, source.Current)},
	}
	out := StripANSI(RenderStrategies(rows, ThemeDark))
	for _, want := range []string{"PATH", "/var/log/app.log", "interval-poll(1000ms)", "/dev/ttyS0", "disabled"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
