package driver

import (
	"github.com/clarabennett2626/logroute/internal/multiline"
	"github.com/clarabennett2626/logroute/internal/parser"
	"github.com/clarabennett2626/logroute/internal/source"
)

// Option configures a Driver at construction.
type Option func(*Driver)

// WithID sets the driver ID. Drivers without one get a random ID at their
// first Init.
func WithID(id string) Option {
	return func(d *Driver) { d.base.SetID(id) }
}

// WithGroup sets the name of the source group the driver belongs to.
func WithGroup(group string) Option {
	return func(d *Driver) { d.base.SetGroup(group) }
}

// WithFollowFreq overrides the follow interval in milliseconds. Zero or
// less disables following. Only the reader's polling changes; the opener
// and persistence eligibility stay as classification decided.
func WithFollowFreq(ms int) Option {
	return func(d *Driver) {
		d.followFreq = &ms
	}
}

// WithMultiLine sets the multi-line mode and patterns. They are validated
// at Init.
func WithMultiLine(mode multiline.Mode, prefix, garbage string) Option {
	return func(d *Driver) {
		d.multiLine = multiline.Options{Mode: mode, Prefix: prefix, Garbage: garbage}
	}
}

// WithParser fixes the parser used for every record, replacing per-record
// format detection and the kernel parser chosen for kernel sources.
func WithParser(p parser.Parser) Option {
	return func(d *Driver) { d.parser = p }
}

// WithProber replaces the stat probe used to classify the path.
func WithProber(p source.Prober) Option {
	return func(d *Driver) { d.prober = p }
}
