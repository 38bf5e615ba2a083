// Package parser turns raw records read from a source into structured
// entries. Ordinary files get per-line format detection (JSON, logfmt or
// plain text); kernel sources get the kernel record formats.
package parser

import (
	"fmt"
	"strings"
	"time"
)

// Format represents a record format.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatLogfmt
	FormatPlain
	FormatKernel
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatLogfmt:
		return "logfmt"
	case FormatPlain:
		return "plain"
	case FormatKernel:
		return "kernel"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name. "auto" and the empty string yield
// FormatUnknown, which selects per-record detection.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatUnknown, nil
	case "json":
		return FormatJSON, nil
	case "logfmt":
		return FormatLogfmt, nil
	case "plain":
		return FormatPlain, nil
	case "kernel":
		return FormatKernel, nil
	}
	return FormatUnknown, fmt.Errorf("unknown record format %q", s)
}

// LogEntry is the unified parsed record.
type LogEntry struct {
	Timestamp time.Time
	Level     string
	Message   string
	Fields    map[string]string
	Raw       string
	Format    Format
}

// Parser parses a single record into a LogEntry.
type Parser interface {
	Parse(record string) LogEntry
}

// NewParser returns the parser for f. FormatUnknown yields an AutoParser.
func NewParser(f Format) Parser {
	switch f {
	case FormatJSON:
		return &JSONParser{}
	case FormatLogfmt:
		return &LogfmtParser{}
	case FormatPlain:
		return &PlainParser{}
	case FormatKernel:
		return &KernelParser{}
	default:
		return NewAutoParser()
	}
}

func newEntry(raw string, f Format) LogEntry {
	return LogEntry{Raw: raw, Format: f, Fields: make(map[string]string)}
}
