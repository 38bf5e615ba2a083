// Package multiline validates multi-line settings and reassembles lines
// into multi-line messages.
package multiline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrRejectedConfig is returned for option combinations that cannot work.
var ErrRejectedConfig = errors.New("invalid multi-line settings")

// Mode selects how consecutive lines are joined into one message.
type Mode int

const (
	// None emits every line as its own message.
	None Mode = iota
	// Indented appends lines starting with whitespace to the previous one.
	Indented
	// PrefixGarbage starts a message at the prefix pattern and ends it at
	// the garbage pattern, dropping the garbage.
	PrefixGarbage
	// PrefixSuffix starts a message at the prefix pattern and ends it at
	// the suffix pattern, keeping the suffix.
	PrefixSuffix
)

func (m Mode) String() string {
	switch m {
	case Indented:
		return "indented"
	case PrefixGarbage:
		return "prefix-garbage"
	case PrefixSuffix:
		return "prefix-suffix"
	default:
		return "none"
	}
}

// ParseMode parses a configured mode name. "line-based" is accepted as
// another name for "none".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "line-based":
		return None, nil
	case "indented":
		return Indented, nil
	case "prefix-garbage":
		return PrefixGarbage, nil
	case "prefix-suffix":
		return PrefixSuffix, nil
	}
	return None, fmt.Errorf("%w: unknown multi-line mode %q", ErrRejectedConfig, s)
}

// IsRegexpBased reports whether the mode uses prefix and garbage patterns.
func (m Mode) IsRegexpBased() bool {
	return m == PrefixGarbage || m == PrefixSuffix
}

// Options is the multi-line part of the reader options. Empty patterns
// mean not set.
type Options struct {
	Mode    Mode
	Prefix  string
	Garbage string
}

// Validate rejects a prefix or garbage pattern given with a mode that does
// not use them, and patterns that do not compile. Settings without
// patterns are always accepted.
func Validate(mode Mode, prefix, garbage string) error {
	if prefix == "" && garbage == "" {
		return nil
	}
	if !mode.IsRegexpBased() {
		return fmt.Errorf("%w: multi-line-prefix() and/or multi-line-garbage() specified but multi-line-mode() is %s, "+
			"set it to prefix-garbage or prefix-suffix", ErrRejectedConfig, mode)
	}
	for _, p := range []string{prefix, garbage} {
		if p == "" {
			continue
		}
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("%w: %v", ErrRejectedConfig, err)
		}
	}
	return nil
}

// Validate checks o with the package level Validate.
func (o Options) Validate() error {
	return Validate(o.Mode, o.Prefix, o.Garbage)
}
