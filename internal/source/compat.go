package source

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/pflag"
)

var _ pflag.Value = (*Compat)(nil)

// Compat selects between the historical defaults kept for old configuration
// files and the current defaults.
type Compat int

const (
	// Current applies the defaults of configuration version 3.0 and later.
	Current Compat = iota
	// Legacy preserves the behaviour of configuration files older than 3.0.
	Legacy
)

// legacyBefore is the first configuration version with current semantics.
var legacyBefore = semver.MustParse("3.0")

func (c Compat) String() string {
	switch c {
	case Legacy:
		return "legacy"
	default:
		return "current"
	}
}

// Set implements pflag.Value.
func (c *Compat) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legacy":
		*c = Legacy
	case "current", "":
		*c = Current
	default:
		return fmt.Errorf("unknown compatibility mode %q (want legacy or current)", s)
	}
	return nil
}

// Type implements pflag.Value.
func (c *Compat) Type() string { return "compat" }

// CompatForVersion maps a configuration version marker such as "3.38" or
// "2.1" onto a Compat bucket. An empty marker means the current format.
func CompatForVersion(version string) (Compat, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return Current, nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return Current, fmt.Errorf("parsing config version %q: %w", version, err)
	}
	if v.LessThan(legacyBefore) {
		return Legacy, nil
	}
	return Current, nil
}
