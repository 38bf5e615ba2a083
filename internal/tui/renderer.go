// Package tui renders records and source strategies for the terminal and
// provides the live viewer behind `logroute view`.
package tui

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/clarabennett2626/logroute/internal/pipe"
)

// TimestampFormat controls how timestamps are displayed.
type TimestampFormat int

const (
	// TimestampClock shows the local wall clock time.
	TimestampClock TimestampFormat = iota
	// TimestampISO shows RFC 3339.
	TimestampISO
	// TimestampRelative shows "2m ago", "3h ago", etc.
	TimestampRelative
)

// Theme selects the color palette.
type Theme int

const (
	ThemeDark Theme = iota
	ThemeLight
)

// RenderConfig holds rendering configuration.
type RenderConfig struct {
	Timestamps TimestampFormat
	Theme      Theme
	// KeepANSI passes escape sequences found in records through.
	KeepANSI bool
	// Width truncates lines wider than it. Zero disables truncation.
	Width int
	// ShowFields appends the parsed fields to each line.
	ShowFields bool
	// FieldOrder lists fields shown first; the rest follow sorted.
	FieldOrder []string
	// ShowSource prefixes each line with the base name of its source path.
	ShowSource bool
	Now        func() time.Time
}

// DefaultConfig returns the configuration used by the CLI.
func DefaultConfig() RenderConfig {
	return RenderConfig{
		Timestamps: TimestampClock,
		Theme:      ThemeDark,
		Width:      120,
		Now:        time.Now,
	}
}

type palette struct {
	levels    map[string]lipgloss.Style
	timestamp lipgloss.Style
	source    lipgloss.Style
	message   lipgloss.Style
	fieldKey  lipgloss.Style
	fieldVal  lipgloss.Style
	separator lipgloss.Style
}

func color(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

func darkPalette() palette {
	return palette{
		levels: map[string]lipgloss.Style{
			"DEBUG": color("245"),
			"INFO":  color("39"),
			"WARN":  color("220"),
			"ERROR": color("196"),
			"FATAL": color("196").Bold(true),
		},
		timestamp: color("243"),
		source:    color("141"),
		message:   color("255"),
		fieldKey:  color("117"),
		fieldVal:  color("252"),
		separator: color("240"),
	}
}

func lightPalette() palette {
	return palette{
		levels: map[string]lipgloss.Style{
			"DEBUG": color("244"),
			"INFO":  color("27"),
			"WARN":  color("172"),
			"ERROR": color("160"),
			"FATAL": color("160").Bold(true),
		},
		timestamp: color("242"),
		source:    color("91"),
		message:   color("0"),
		fieldKey:  color("25"),
		fieldVal:  color("237"),
		separator: color("249"),
	}
}

// Renderer turns messages into terminal lines.
type Renderer struct {
	config  RenderConfig
	palette palette
}

// NewRenderer creates a Renderer.
func NewRenderer(config RenderConfig) *Renderer {
	if config.Now == nil {
		config.Now = time.Now
	}
	p := darkPalette()
	if config.Theme == ThemeLight {
		p = lightPalette()
	}
	return &Renderer{config: config, palette: p}
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes ANSI escape sequences.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// segment is one column of a rendered line before styling.
type segment struct {
	text  string
	style lipgloss.Style
}

func (r *Renderer) segments(msg *pipe.Message) []segment {
	e := msg.Entry
	var segs []segment

	if level := canonicalLevel(e.Level); level != "" {
		style, ok := r.palette.levels[level]
		if !ok {
			style = r.palette.message
		}
		segs = append(segs, segment{fmt.Sprintf("%-5s", level), style})
	}
	if !e.Timestamp.IsZero() {
		segs = append(segs, segment{r.formatTimestamp(e.Timestamp), r.palette.timestamp})
	}
	if r.config.ShowSource && msg.Source != "" {
		segs = append(segs, segment{filepath.Base(msg.Source), r.palette.source})
	}

	text := e.Message
	if text == "" {
		text = e.Raw
	}
	if !r.config.KeepANSI {
		text = StripANSI(text)
	}
	// Reassembled multi-line records are shown on one line.
	text = strings.ReplaceAll(text, "\n", " ⏎ ")
	if text != "" {
		segs = append(segs, segment{text, r.palette.message})
	}
	return segs
}

// Render renders msg with colors.
func (r *Renderer) Render(msg *pipe.Message) string {
	var parts []string
	for _, s := range r.segments(msg) {
		parts = append(parts, s.style.Render(s.text))
	}
	if r.config.ShowFields && len(msg.Entry.Fields) > 0 {
		var fields []string
		for _, k := range r.fieldKeys(msg.Entry.Fields) {
			fields = append(fields, r.palette.fieldKey.Render(k)+
				r.palette.separator.Render("=")+
				r.palette.fieldVal.Render(msg.Entry.Fields[k]))
		}
		parts = append(parts, strings.Join(fields, " "))
	}
	return r.truncate(strings.Join(parts, r.palette.separator.Render(" │ ")))
}

// RenderPlain renders msg without styling, for pipes and tests.
func (r *Renderer) RenderPlain(msg *pipe.Message) string {
	var parts []string
	for _, s := range r.segments(msg) {
		parts = append(parts, s.text)
	}
	if r.config.ShowFields && len(msg.Entry.Fields) > 0 {
		var fields []string
		for _, k := range r.fieldKeys(msg.Entry.Fields) {
			fields = append(fields, k+"="+msg.Entry.Fields[k])
		}
		parts = append(parts, strings.Join(fields, " "))
	}
	return strings.Join(parts, " │ ")
}

// canonicalLevel folds level aliases onto DEBUG, INFO, WARN, ERROR and
// FATAL. Unknown levels are upper-cased.
func canonicalLevel(level string) string {
	l := strings.ToUpper(strings.TrimSpace(level))
	switch l {
	case "WARNING":
		return "WARN"
	case "ERR":
		return "ERROR"
	case "CRITICAL", "CRIT", "PANIC", "EMERG", "ALERT":
		return "FATAL"
	case "NOTICE":
		return "INFO"
	case "TRACE":
		return "DEBUG"
	}
	return l
}

func (r *Renderer) formatTimestamp(t time.Time) string {
	switch r.config.Timestamps {
	case TimestampRelative:
		return relativeTime(t, r.config.Now())
	case TimestampISO:
		return t.Format(time.RFC3339)
	default:
		return t.Format("15:04:05")
	}
}

func relativeTime(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		return formatDuration(-d) + " from now"
	}
	if d < time.Second {
		return "just now"
	}
	return formatDuration(d) + " ago"
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func (r *Renderer) fieldKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(r.config.FieldOrder))
	for _, k := range r.config.FieldOrder {
		if _, ok := fields[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range fields {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

func (r *Renderer) truncate(line string) string {
	if r.config.Width <= 0 || lipgloss.Width(line) <= r.config.Width {
		return line
	}
	return truncateVisible(line, r.config.Width-1) + "…"
}

// truncateVisible cuts s after width visible runes, keeping escape
// sequences intact.
func truncateVisible(s string, width int) string {
	var b strings.Builder
	visible := 0
	inEscape := false
	for _, c := range s {
		switch {
		case c == '\x1b':
			inEscape = true
		case inEscape:
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
				inEscape = false
			}
		case visible >= width:
			return b.String()
		default:
			visible++
		}
		b.WriteRune(c)
	}
	return b.String()
}
