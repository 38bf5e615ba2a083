// Package pipe holds the pipe graph primitives shared by sources: the
// runtime configuration every node is bound to, the message type, the
// Pipe contract and the embeddable base state of pipes and source drivers.
package pipe

import (
	"errors"
	"time"

	"github.com/clarabennett2626/logroute/internal/logging"
	"github.com/clarabennett2626/logroute/internal/parser"
	"github.com/clarabennett2626/logroute/internal/persist"
	"github.com/clarabennett2626/logroute/internal/source"
)

// ErrNoConfig is returned when a pipe is initialized without a Config.
var ErrNoConfig = errors.New("pipe has no configuration")

// Config is the runtime configuration context pipes are bound to.
type Config struct {
	// Compat is derived from the configuration file version marker.
	Compat source.Compat
	// Logger receives diagnostics from every pipe.
	Logger logging.Logger
	// Warnings records process-wide warn-once state.
	Warnings *logging.Once
	// Persist stores state that must survive restarts. May be nil.
	Persist persist.Store
	// MaxRecordSize bounds a single record; longer lines are split.
	MaxRecordSize int
}

// DefaultMaxRecordSize is used when Config.MaxRecordSize is zero.
const DefaultMaxRecordSize = 64 * 1024

// NewConfig returns a Config with a no-op logger and a fresh warn-once
// registry.
func NewConfig(compat source.Compat) *Config {
	return &Config{
		Compat:        compat,
		Logger:        logging.Nop(),
		Warnings:      logging.NewOnce(),
		MaxRecordSize: DefaultMaxRecordSize,
	}
}

// Log returns the configured logger, or a no-op one.
func (c *Config) Log() logging.Logger {
	if c == nil || c.Logger == nil {
		return logging.Nop()
	}
	return c.Logger
}

// Message is one record travelling through the pipe graph.
type Message struct {
	Entry parser.LogEntry
	// Source is the path the record was read from.
	Source string
	// SourceID identifies the driver that emitted the record.
	SourceID string
	Received time.Time
}

// PathOptions carries per-delivery flags along the graph.
type PathOptions struct {
	AckNeeded            bool
	FlowControlRequested bool
}

// Pipe is a node of the pipe graph.
type Pipe interface {
	Init() error
	Deinit() error
	Queue(msg *Message, po *PathOptions)
	PersistName() string
}
