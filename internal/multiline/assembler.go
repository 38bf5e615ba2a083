package multiline

import (
	"regexp"
	"strings"
)

// Assembler joins lines into messages according to a Mode. It is not safe
// for concurrent use.
type Assembler struct {
	mode    Mode
	prefix  *regexp.Regexp
	garbage *regexp.Regexp
	pending []string
}

// NewAssembler compiles o into an Assembler. Options must already have
// passed Validate.
func NewAssembler(o Options) (*Assembler, error) {
	a := &Assembler{mode: o.Mode}
	var err error
	if o.Prefix != "" {
		if a.prefix, err = regexp.Compile(o.Prefix); err != nil {
			return nil, err
		}
	}
	if o.Garbage != "" {
		if a.garbage, err = regexp.Compile(o.Garbage); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Push feeds one line and returns the messages it completed, if any.
func (a *Assembler) Push(line string) []string {
	switch a.mode {
	case Indented:
		return a.pushIndented(line)
	case PrefixGarbage, PrefixSuffix:
		return a.pushRegexp(line)
	default:
		return []string{line}
	}
}

// Flush returns the pending message, if any, and resets the assembler.
func (a *Assembler) Flush() []string {
	if len(a.pending) == 0 {
		return nil
	}
	msg := strings.Join(a.pending, "\n")
	a.pending = a.pending[:0]
	return []string{msg}
}

// Pending reports whether a partial message is buffered.
func (a *Assembler) Pending() bool { return len(a.pending) > 0 }

func (a *Assembler) pushIndented(line string) []string {
	if line != "" && (line[0] == ' ' || line[0] == '\t') && len(a.pending) > 0 {
		a.pending = append(a.pending, line)
		return nil
	}
	out := a.Flush()
	a.pending = append(a.pending, line)
	return out
}

func (a *Assembler) pushRegexp(line string) []string {
	var out []string
	if a.prefix != nil && a.prefix.MatchString(line) {
		out = a.Flush()
	}

	if a.garbage != nil {
		if loc := a.garbage.FindStringIndex(line); loc != nil {
			end := loc[0]
			if a.mode == PrefixSuffix {
				end = loc[1]
			}
			if kept := line[:end]; kept != "" || len(a.pending) > 0 {
				a.pending = append(a.pending, kept)
			}
			return append(out, a.Flush()...)
		}
	}

	a.pending = append(a.pending, line)
	return out
}
