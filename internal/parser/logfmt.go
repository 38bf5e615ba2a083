package parser

import "strings"

// LogfmtParser parses key=value records.
type LogfmtParser struct{}

// Parse parses a logfmt record.
func (p *LogfmtParser) Parse(record string) LogEntry {
	entry := newEntry(record, FormatLogfmt)
	scanLogfmt(strings.TrimSpace(record), func(k, v string) {
		switch {
		case isKnownKey(k, timestampKeys):
			entry.Timestamp = parseTimestamp(v)
		case isKnownKey(k, levelKeys):
			entry.Level = normalizeLevel(v)
		case isKnownKey(k, messageKeys):
			entry.Message = v
		default:
			entry.Fields[k] = v
		}
	})
	return entry
}

// scanLogfmt walks the leading key=value pairs of line, calling fn (when
// non-nil) for each, and returns how many pairs it found. Scanning stops
// at the first token that is not a pair.
func scanLogfmt(line string, fn func(key, value string)) int {
	n, i := 0, 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		start := i
		for i < len(line) && line[i] != '=' && line[i] != ' ' {
			i++
		}
		if i >= len(line) || line[i] != '=' || i == start {
			break
		}
		key := line[start:i]
		i++

		var value string
		if i < len(line) && line[i] == '"' {
			i++
			vstart := i
			for i < len(line) && line[i] != '"' {
				if line[i] == '\\' {
					i++
				}
				i++
			}
			value = line[vstart:min(i, len(line))]
			if i < len(line) {
				i++
			}
		} else {
			vstart := i
			for i < len(line) && line[i] != ' ' {
				i++
			}
			value = line[vstart:i]
		}
		if fn != nil {
			fn(key, value)
		}
		n++
	}
	return n
}
