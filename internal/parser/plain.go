package parser

import (
	"regexp"
	"strings"
)

// PlainParser parses free text records, pulling out a leading timestamp and
// the first level keyword.
type PlainParser struct{}

var plainTimestampPatterns = []*regexp.Regexp{
	// ISO 8601 variants
	regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?)\s+`),
	// BSD syslog: Jan  2 15:04:05
	regexp.MustCompile(`^([A-Z][a-z]{2}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})\s+`),
	// Common log format: [02/Jan/2006:15:04:05 -0700]
	regexp.MustCompile(`\[(\d{2}/[A-Z][a-z]{2}/\d{4}:\d{2}:\d{2}:\d{2}\s+[+-]\d{4})\]`),
	// 2006/01/02 15:04:05
	regexp.MustCompile(`^(\d{4}/\d{2}/\d{2}\s+\d{2}:\d{2}:\d{2})\s+`),
}

var levelPattern = regexp.MustCompile(`(?i)\b(TRACE|DEBUG|INFO|WARN(?:ING)?|ERROR|FATAL|CRITICAL|PANIC)\b`)

// Parse parses a plain text record.
func (p *PlainParser) Parse(record string) LogEntry {
	entry := newEntry(record, FormatPlain)
	rest := record

	for _, pat := range plainTimestampPatterns {
		m := pat.FindStringSubmatch(record)
		if m == nil {
			continue
		}
		if ts := parseTimestamp(m[1]); !ts.IsZero() {
			entry.Timestamp = ts
			rest = strings.TrimSpace(strings.Replace(record, m[0], "", 1))
			break
		}
	}

	if lvl := levelPattern.FindString(rest); lvl != "" {
		entry.Level = normalizeLevel(lvl)
	}
	entry.Message = rest
	return entry
}
