// Package driver implements the file source driver: it classifies a path,
// picks how the path is opened and followed, and runs the reader that feeds
// the pipe graph through an init/deinit/free lifecycle.
package driver

import (
	"errors"
	"fmt"

	"github.com/clarabennett2626/logroute/internal/logging"
	"github.com/clarabennett2626/logroute/internal/multiline"
	"github.com/clarabennett2626/logroute/internal/opener"
	"github.com/clarabennett2626/logroute/internal/parser"
	"github.com/clarabennett2626/logroute/internal/pipe"
	"github.com/clarabennett2626/logroute/internal/reader"
	"github.com/clarabennett2626/logroute/internal/source"
)

var (
	// ErrConfigRejected is returned by Init when the multi-line settings
	// are inconsistent. It also matches multiline.ErrRejectedConfig.
	ErrConfigRejected = errors.New("file source configuration rejected")
	// ErrChildInitFailed is returned by Init when the reader fails to start.
	ErrChildInitFailed = errors.New("file reader init failed")
	// ErrChildDeinitFailed is returned by Deinit when the reader fails to
	// stop cleanly.
	ErrChildDeinitFailed = errors.New("file reader deinit failed")

	ErrFreed              = errors.New("driver has been freed")
	ErrNotInitialized     = errors.New("driver is not initialized")
	ErrAlreadyInitialized = errors.New("driver is already initialized")
	ErrStillInitialized   = errors.New("driver must be deinitialized before it is freed")
)

// WarnFollowFreqDefault is the warn-once key of the legacy follow warning.
const WarnFollowFreqDefault = "file-source-follow-freq-default"

// State is the lifecycle state of a Driver.
type State int

const (
	Constructed State = iota
	Initialized
	Deinitialized
	Freed
)

func (s State) String() string {
	switch s {
	case Constructed:
		return "constructed"
	case Initialized:
		return "initialized"
	case Deinitialized:
		return "deinitialized"
	case Freed:
		return "freed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Driver is a file source driver. Lifecycle methods must be called from a
// single goroutine.
type Driver struct {
	base pipe.SourceDriver

	path     string
	strategy source.Strategy
	state    State

	readerOptions reader.Options
	openerOptions opener.Options
	opener        *opener.FileOpener
	reader        *reader.FileReader

	followFreq *int
	multiLine  multiline.Options
	parser     parser.Parser
	prober     source.Prober
}

// New classifies path and prepares a driver for it. Under legacy
// compatibility following is disabled and a warning is logged once per
// process.
func New(path string, cfg *pipe.Config, opts ...Option) *Driver {
	d := &Driver{
		base:   pipe.NewSourceDriver(cfg),
		path:   path,
		prober: source.IsDeviceNode,
	}
	for _, o := range opts {
		o(d)
	}

	kind := source.ClassifyWith(path, d.prober)
	d.strategy = source.Resolve(kind, cfg.Compat)

	d.readerOptions.Defaults()
	d.readerOptions.Follow = d.strategy.Follow
	if d.followFreq != nil {
		d.readerOptions.Follow = source.FollowFreq(*d.followFreq)
	}
	d.readerOptions.RestoreState = d.strategy.PersistEligible
	d.readerOptions.MultiLine = d.multiLine
	switch {
	case d.parser != nil:
		d.readerOptions.Parser = d.parser
	case kind.IsKernelLog():
		d.readerOptions.Parser = parser.NewParser(parser.FormatKernel)
	}

	d.openerOptions.Defaults()
	d.openerOptions.NeedsPrivileges = d.strategy.NeedsPrivileges
	d.opener = newOpener(d.strategy.Opener)

	if cfg.Compat == source.Legacy {
		warnings := cfg.Warnings
		if warnings == nil {
			warnings = logging.NewOnce()
		}
		warnings.Warn(cfg.Log(), WarnFollowFreqDefault,
			"file sources are not followed in configurations older than 3.0, set follow_freq to follow them",
			map[string]string{"path": path, "compat": cfg.Compat.String()})
	}

	cfg.Log().LogDebug("file source prepared", map[string]string{
		"path":   path,
		"kind":   kind.String(),
		"follow": d.readerOptions.Follow.String(),
		"opener": d.strategy.Opener.String(),
	})
	return d
}

func newOpener(kind source.OpenerKind) *opener.FileOpener {
	switch kind {
	case source.ProcKmsgPrivileged:
		return opener.ForProcKmsg()
	case source.DevKmsgOpener:
		return opener.ForDevKmsg()
	default:
		return opener.ForRegularSourceFiles()
	}
}

// Append makes next the node that receives the driver's messages.
func (d *Driver) Append(next pipe.Pipe) { d.base.Pipe().Append(next) }

// Init starts the reader. On failure the driver keeps its previous state
// and the reader created for the attempt is released.
func (d *Driver) Init() (err error) {
	switch d.state {
	case Freed:
		return ErrFreed
	case Initialized:
		return ErrAlreadyInitialized
	}

	cfg := d.base.Pipe().Config()
	if err := d.base.InitMethod(); err != nil {
		return err
	}
	d.readerOptions.Init(cfg, d.base.Group())
	d.openerOptions.Init(cfg)
	d.opener.SetOptions(&d.openerOptions)

	// A reader kept across Deinit is replaced by a fresh one.
	if d.reader != nil {
		d.reader.Unref()
		d.reader = nil
	}

	r := reader.New(d.path, &d.readerOptions, d.opener, d, cfg)
	defer func() {
		if err != nil {
			r.Unref()
			d.base.DeinitMethod()
		}
	}()

	if err := multiline.Validate(d.multiLine.Mode, d.multiLine.Prefix, d.multiLine.Garbage); err != nil {
		cfg.Log().LogError("inconsistent multi-line settings", map[string]string{
			"path":  d.path,
			"mode":  d.multiLine.Mode.String(),
			"error": err.Error(),
		})
		return fmt.Errorf("%w: %w", ErrConfigRejected, err)
	}

	r.Append(d)
	if err := r.Init(); err != nil {
		cfg.Log().LogError("starting file reader", map[string]string{"path": d.path, "error": err.Error()})
		return fmt.Errorf("%w: %w", ErrChildInitFailed, err)
	}

	d.reader = r
	d.state = Initialized
	return nil
}

// Deinit stops the reader. The reader handle is kept until the next Init
// or Free.
func (d *Driver) Deinit() error {
	switch d.state {
	case Freed:
		return ErrFreed
	case Initialized:
	default:
		return ErrNotInitialized
	}

	if err := d.reader.Deinit(); err != nil {
		return fmt.Errorf("%w: %w", ErrChildDeinitFailed, err)
	}
	if err := d.base.DeinitMethod(); err != nil {
		return err
	}
	d.state = Deinitialized
	return nil
}

// Free releases everything the driver owns. The driver cannot be used
// afterwards.
func (d *Driver) Free() error {
	switch d.state {
	case Freed:
		return ErrFreed
	case Initialized:
		return ErrStillInitialized
	}

	d.opener.Free()
	if d.reader != nil {
		d.reader.Unref()
		d.reader = nil
	}
	d.path = ""
	d.readerOptions.Deinit()
	d.openerOptions.Deinit()
	d.base.FreeMethod()
	d.state = Freed
	return nil
}

// Queue stamps msg with the driver ID and forwards it downstream.
func (d *Driver) Queue(msg *pipe.Message, po *pipe.PathOptions) {
	d.base.QueueMethod(msg, po)
}

// PersistName returns the name the reader saves its position under.
func (d *Driver) PersistName() string {
	if d.reader != nil {
		return d.reader.PersistName()
	}
	return reader.PersistNameFor(d.path)
}

// Notify logs reader notifications.
func (d *Driver) Notify(ev reader.Event, path string, err error) {
	log := d.base.Pipe().Config().Log()
	meta := map[string]string{"path": path, "id": d.base.ID(), "event": ev.String()}
	switch ev {
	case reader.EventReadError:
		meta["error"] = err.Error()
		log.LogError("file source stopped reading", meta)
	case reader.EventEOF:
		log.LogInfo("end of file reached", meta)
	default:
		log.LogInfo("file source reopened", meta)
	}
}

// Done is closed when the current reader stops on its own or is
// deinitialized. It is nil before the first successful Init.
func (d *Driver) Done() <-chan struct{} {
	if d.reader == nil {
		return nil
	}
	return d.reader.Done()
}

func (d *Driver) State() State                  { return d.state }
func (d *Driver) Path() string                  { return d.path }
func (d *Driver) ID() string                    { return d.base.ID() }
func (d *Driver) Group() string                 { return d.base.Group() }
func (d *Driver) Kind() source.Kind             { return d.strategy.Kind }
func (d *Driver) Strategy() source.Strategy     { return d.strategy }
func (d *Driver) Follow() source.FollowPolicy   { return d.readerOptions.Follow }
func (d *Driver) OpenerKind() source.OpenerKind { return d.opener.Kind() }
func (d *Driver) NeedsPrivileges() bool         { return d.openerOptions.NeedsPrivileges }
func (d *Driver) PersistEligible() bool         { return d.readerOptions.RestoreState }
func (d *Driver) Reader() *reader.FileReader    { return d.reader }
