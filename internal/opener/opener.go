// Package opener implements the open procedures for file sources: plain
// files and device nodes, the privileged /proc/kmsg and the record
// oriented /dev/kmsg.
package opener

import (
	"errors"
	"fmt"
	"os"

	"github.com/clarabennett2626/logroute/internal/logging"
	"github.com/clarabennett2626/logroute/internal/pipe"
	"github.com/clarabennett2626/logroute/internal/source"
)

var (
	// ErrInsufficientPrivileges is returned when a privileged open is
	// refused by the kernel.
	ErrInsufficientPrivileges = errors.New("insufficient privileges")
	// ErrUnsupportedPlatform is returned by kernel log openers outside Linux.
	ErrUnsupportedPlatform = errors.New("kernel log sources require Linux")
	// ErrFreed is returned when a freed opener is used.
	ErrFreed = errors.New("opener already freed")
	// ErrNoOptions is returned when Open is called before SetOptions.
	ErrNoOptions = errors.New("opener options not set")
)

// Options configures how files are opened.
type Options struct {
	// NeedsPrivileges marks sources that only a privileged process can
	// open.
	NeedsPrivileges bool

	logger      logging.Logger
	initialized bool
}

// Defaults resets o to its default values.
func (o *Options) Defaults() {
	*o = Options{}
}

// Init binds o to the runtime configuration.
func (o *Options) Init(cfg *pipe.Config) {
	o.logger = cfg.Log()
	o.initialized = true
}

// Deinit releases what Init bound.
func (o *Options) Deinit() {
	o.logger = nil
	o.initialized = false
}

// Initialized reports whether Init was called without a later Deinit.
func (o *Options) Initialized() bool { return o.initialized }

func (o *Options) log() logging.Logger {
	if o.logger == nil {
		return logging.Nop()
	}
	return o.logger
}

// Framing is how the data read from an opened file splits into records.
type Framing int

const (
	// Lines means newline separated records.
	Lines Framing = iota
	// Records means every read returns exactly one record.
	Records
)

// FileOpener opens paths with the procedure selected at construction.
type FileOpener struct {
	kind    source.OpenerKind
	options *Options
	freed   bool
}

// New returns the opener for kind.
func New(kind source.OpenerKind) *FileOpener {
	return &FileOpener{kind: kind}
}

// ForRegularSourceFiles returns the opener for plain files and device nodes.
func ForRegularSourceFiles() *FileOpener { return New(source.RegularFiles) }

// ForProcKmsg returns the opener for /proc/kmsg.
func ForProcKmsg() *FileOpener { return New(source.ProcKmsgPrivileged) }

// ForDevKmsg returns the opener for /dev/kmsg.
func ForDevKmsg() *FileOpener { return New(source.DevKmsgOpener) }

// Kind returns the open procedure.
func (o *FileOpener) Kind() source.OpenerKind { return o.kind }

// SetOptions must be called before the first Open.
func (o *FileOpener) SetOptions(opts *Options) { o.options = opts }

// Options returns the options set with SetOptions.
func (o *FileOpener) Options() *Options { return o.options }

// Framing reports how reads from opened files are split into records.
func (o *FileOpener) Framing() Framing {
	if o.kind == source.DevKmsgOpener {
		return Records
	}
	return Lines
}

// Seekable reports whether a saved read position may be applied to files
// this opener returns.
func (o *FileOpener) Seekable() bool { return o.kind == source.RegularFiles }

// Open opens path for reading. Files are opened non-blocking where the
// platform allows it so that device nodes without data do not stall.
func (o *FileOpener) Open(path string) (*os.File, error) {
	if o.freed {
		return nil, ErrFreed
	}
	if o.options == nil {
		return nil, ErrNoOptions
	}

	var (
		f   *os.File
		err error
	)
	switch o.kind {
	case source.ProcKmsgPrivileged:
		f, err = openProcKmsg(path)
	case source.DevKmsgOpener:
		f, err = openDevKmsg(path)
	default:
		f, err = openRegular(path)
	}
	if err == nil {
		return f, nil
	}

	if o.options.NeedsPrivileges && (errors.Is(err, os.ErrPermission)) {
		o.options.log().LogError("opening privileged source failed", map[string]string{
			"path":       path,
			"capability": capabilityStatus(),
		})
		return nil, fmt.Errorf("opening %s: %w: %w", path, ErrInsufficientPrivileges, err)
	}
	return nil, fmt.Errorf("opening %s: %w", path, err)
}

// Free releases the opener. It must be called exactly once.
func (o *FileOpener) Free() {
	o.freed = true
	o.options = nil
}

// Freed reports whether Free was called.
func (o *FileOpener) Freed() bool { return o.freed }
