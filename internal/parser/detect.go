package parser

import (
	"bufio"
	"io"
	"strings"
)

// DetectFormat looks at a sample of lines and returns the most common
// format among them. Ties favour JSON over logfmt over plain.
func DetectFormat(lines []string) Format {
	counts := map[Format]int{}
	for _, line := range lines {
		if f := detectLine(line); f != FormatUnknown {
			counts[f]++
		}
	}
	best, bestN := FormatUnknown, 0
	for _, f := range []Format{FormatJSON, FormatLogfmt, FormatKernel, FormatPlain} {
		if counts[f] > bestN {
			best, bestN = f, counts[f]
		}
	}
	return best
}

// DetectReader samples up to n lines from r and detects their format.
func DetectReader(r io.Reader, n int) (Format, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for len(lines) < n && sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return FormatUnknown, err
	}
	return DetectFormat(lines), nil
}

// detectLine determines the format of a single line.
func detectLine(line string) Format {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return FormatUnknown
	case line[0] == '{' && line[len(line)-1] == '}':
		return FormatJSON
	case looksLikeKernel(line):
		return FormatKernel
	case scanLogfmt(line, nil) >= 2:
		return FormatLogfmt
	default:
		return FormatPlain
	}
}

// AutoParser detects the format per record, for mixed streams.
type AutoParser struct {
	json   JSONParser
	logfmt LogfmtParser
	plain  PlainParser
	kernel KernelParser
}

// NewAutoParser creates a parser that handles mixed formats.
func NewAutoParser() *AutoParser {
	return &AutoParser{}
}

// Parse detects and parses a single record.
func (a *AutoParser) Parse(record string) LogEntry {
	switch detectLine(record) {
	case FormatJSON:
		return a.json.Parse(record)
	case FormatLogfmt:
		return a.logfmt.Parse(record)
	case FormatKernel:
		return a.kernel.Parse(record)
	default:
		return a.plain.Parse(record)
	}
}
