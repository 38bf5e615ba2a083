// Package reader implements the file reader pipe: it opens a path through
// an opener, splits what it reads into records, reassembles multi-line
// messages, parses them and forwards them down the pipe graph. Followed
// files are polled for growth and watched for rotation and truncation.
package reader

import (
	"github.com/clarabennett2626/logroute/internal/multiline"
	"github.com/clarabennett2626/logroute/internal/parser"
	"github.com/clarabennett2626/logroute/internal/pipe"
	"github.com/clarabennett2626/logroute/internal/source"
)

// Options configures a FileReader.
type Options struct {
	// Follow decides whether the file is polled for growth after the end
	// of data is reached.
	Follow source.FollowPolicy
	// RestoreState enables saving and restoring the read position.
	RestoreState bool
	// MultiLine selects multi-line reassembly.
	MultiLine multiline.Options
	// Parser turns records into entries. Nil selects format detection.
	Parser parser.Parser
	// MaxRecordSize splits longer lines. Zero takes the config default.
	MaxRecordSize int

	cfg         *pipe.Config
	group       string
	initialized bool
}

// Defaults resets o to its default values.
func (o *Options) Defaults() {
	*o = Options{}
}

// Init binds o to the runtime configuration and fills unset values from it.
func (o *Options) Init(cfg *pipe.Config, group string) {
	o.cfg = cfg
	o.group = group
	if o.MaxRecordSize <= 0 {
		o.MaxRecordSize = cfg.MaxRecordSize
	}
	if o.MaxRecordSize <= 0 {
		o.MaxRecordSize = pipe.DefaultMaxRecordSize
	}
	if o.Parser == nil {
		o.Parser = parser.NewAutoParser()
	}
	o.initialized = true
}

// Deinit releases what Init bound.
func (o *Options) Deinit() {
	o.cfg = nil
	o.initialized = false
}

// Initialized reports whether Init was called without a later Deinit.
func (o *Options) Initialized() bool { return o.initialized }

// Group returns the source group bound at Init.
func (o *Options) Group() string { return o.group }
