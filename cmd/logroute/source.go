package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/clarabennett2626/logroute/internal/driver"
	"github.com/clarabennett2626/logroute/internal/logging"
	"github.com/clarabennett2626/logroute/internal/multiline"
	"github.com/clarabennett2626/logroute/internal/parser"
	"github.com/clarabennett2626/logroute/internal/persist"
	"github.com/clarabennett2626/logroute/internal/pipe"
	"github.com/clarabennett2626/logroute/internal/source"
)

// stdinPath is read when the path argument is "-".
const stdinPath = "/dev/stdin"

// formatSample is how many leading lines --format detect looks at.
const formatSample = 20

// sourceOptions are the flags describing a single file source.
type sourceOptions struct {
	compat      source.Compat
	followFreq  int
	persistFile string
	mode        string
	prefix      string
	garbage     string
	format      string
	sinkSize    int
	dropOldest  bool
}

func (o *sourceOptions) attach(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Var(&o.compat, "compat", "Compatibility mode (current or legacy)")
	f.IntVar(&o.followFreq, "follow-freq", 0, "Follow interval in milliseconds, 0 disables following (default depends on the path)")
	f.StringVar(&o.persistFile, "persist-file", "", "File that keeps read positions across restarts")
	f.StringVar(&o.mode, "multi-line-mode", "none", "Multi-line mode: none, indented, prefix-garbage or prefix-suffix")
	f.StringVar(&o.prefix, "multi-line-prefix", "", "Regular expression starting a new message")
	f.StringVar(&o.garbage, "multi-line-garbage", "", "Regular expression ending a message")
	f.StringVar(&o.format, "format", "auto", "Record format: auto (per record), detect (sampled from the start of the file), json, logfmt, plain or kernel")
	f.IntVar(&o.sinkSize, "buffer", pipe.DefaultSinkSize, "Number of records buffered between reader and output")
	f.BoolVar(&o.dropOldest, "drop-oldest", false, "Drop the oldest buffered record instead of blocking the reader")
}

// resolvePath maps "-" onto standard input.
func resolvePath(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	if runtime.GOOS == "windows" {
		return "", fmt.Errorf("reading standard input is not supported on %s", runtime.GOOS)
	}
	return stdinPath, nil
}

func (o *sourceOptions) sink(name string) (*pipe.Sink, error) {
	if o.sinkSize < 0 {
		return nil, fmt.Errorf("--buffer must not be negative, got %d", o.sinkSize)
	}
	bp := pipe.Block
	if o.dropOldest {
		bp = pipe.DropOldest
	}
	return pipe.NewSink(name, pipe.WithSinkSize(o.sinkSize), pipe.WithBackpressure(bp)), nil
}

// parser returns the fixed parser selected by --format, or nil for
// per-record detection. "detect" samples the start of a regular file.
func (o *sourceOptions) parser(path string) (parser.Parser, error) {
	if o.format != "detect" {
		f, err := parser.ParseFormat(o.format)
		if err != nil || f == parser.FormatUnknown {
			return nil, err
		}
		return parser.NewParser(f), nil
	}

	if path == stdinPath {
		return nil, errors.New("--format detect cannot sample standard input")
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	format, err := parser.DetectReader(f, formatSample)
	if err != nil {
		return nil, fmt.Errorf("sampling %s: %w", path, err)
	}
	if format == parser.FormatUnknown {
		return nil, nil
	}
	return parser.NewParser(format), nil
}

// open builds and starts a driver for path feeding sink.
func (o *sourceOptions) open(cmd *cobra.Command, g *globalOptions, arg string, sink *pipe.Sink, logOut io.Writer) (*driver.Driver, error) {
	path, err := resolvePath(arg)
	if err != nil {
		return nil, err
	}
	mode, err := multiline.ParseMode(o.mode)
	if err != nil {
		return nil, err
	}

	cfg := pipe.NewConfig(o.compat)
	cfg.Logger = g.logger(logOut)
	if o.persistFile != "" {
		store, err := persist.Open(o.persistFile)
		if err != nil {
			return nil, err
		}
		cfg.Persist = store
	}

	opts := []driver.Option{driver.WithMultiLine(mode, o.prefix, o.garbage)}
	p, err := o.parser(path)
	if err != nil {
		return nil, err
	}
	if p != nil {
		opts = append(opts, driver.WithParser(p))
	}
	switch {
	case cmd.Flags().Changed("follow-freq"):
		opts = append(opts, driver.WithFollowFreq(o.followFreq))
	case arg == "-":
		opts = append(opts, driver.WithFollowFreq(0))
	}

	d := driver.New(path, cfg, opts...)
	d.Append(sink)
	if err := d.Init(); err != nil {
		d.Free()
		return nil, err
	}
	return d, nil
}

// release tears d down. A driver whose Deinit fails is still running and
// is not freed.
func release(d *driver.Driver, log logging.Logger) error {
	if err := d.Deinit(); err != nil {
		log.LogError("stopping source", map[string]string{"path": d.Path(), "error": err.Error()})
		return err
	}
	if err := d.Free(); err != nil {
		log.LogError("freeing source", map[string]string{"path": d.Path(), "error": err.Error()})
		return err
	}
	return nil
}

// stop closes sink so a blocked reader can exit, then tears d down.
func stop(d *driver.Driver, sink *pipe.Sink) error {
	sink.Close()
	if err := d.Deinit(); err != nil {
		return err
	}
	return d.Free()
}
