package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/clarabennett2626/logroute/internal/pipe"
	"github.com/clarabennett2626/logroute/internal/tui"
)

type outputOptions struct {
	fields bool
	iso    bool
	plain  bool
}

func (o *outputOptions) attach(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.fields, "fields", false, "Show parsed fields")
	cmd.Flags().BoolVar(&o.iso, "iso", false, "Show timestamps in RFC 3339")
	cmd.Flags().BoolVar(&o.plain, "plain", false, "Disable colors")
}

func (o *outputOptions) renderer(showSource bool) *tui.Renderer {
	cfg := tui.DefaultConfig()
	cfg.ShowFields = o.fields
	cfg.ShowSource = showSource
	cfg.Width = 0
	if o.iso {
		cfg.Timestamps = tui.TimestampISO
	}
	return tui.NewRenderer(cfg)
}

func (o *outputOptions) render(r *tui.Renderer, msg *pipe.Message) string {
	if o.plain {
		return r.RenderPlain(msg)
	}
	return r.Render(msg)
}

func tailCmd(g *globalOptions) *cobra.Command {
	src := &sourceOptions{}
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "tail PATH",
		Short: "Print records read from a path",
		Long: `tail reads PATH with the strategy its classification selects and prints
every record. Followed files are read until interrupted; other sources stop at
the end of their data. Use "-" to read standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			sink, err := src.sink("tail")
			if err != nil {
				return err
			}
			d, err := src.open(c, g, args[0], sink, c.ErrOrStderr())
			if err != nil {
				return err
			}
			r := out.renderer(false)
			printRecords(ctx, c.OutOrStdout(), sink, d.Done(), func(msg *pipe.Message) string {
				return out.render(r, msg)
			})
			return stop(d, sink)
		},
	}
	src.attach(cmd)
	out.attach(cmd)
	return cmd
}

// printRecords writes rendered messages until ctx is done or finished is closed.
// Messages already delivered when finished closes are still printed.
func printRecords(ctx context.Context, w io.Writer, sink *pipe.Sink, finished <-chan struct{}, render func(*pipe.Message) string) {
	for {
		select {
		case msg := <-sink.Messages():
			fmt.Fprintln(w, render(msg))
		case <-finished:
			for {
				select {
				case msg := <-sink.Messages():
					fmt.Fprintln(w, render(msg))
				default:
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func viewCmd(g *globalOptions) *cobra.Command {
	src := &sourceOptions{}
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "view PATH",
		Short: "Browse records from a path in an interactive viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			sink, err := src.sink("view")
			if err != nil {
				return err
			}
			d, err := src.open(c, g, args[0], sink, io.Discard)
			if err != nil {
				return err
			}

			r := out.renderer(false)
			p := tea.NewProgram(tui.NewModel(sink, r, d.Path()), tea.WithAltScreen(), tea.WithContext(c.Context()))
			_, runErr := p.Run()
			if err := stop(d, sink); err != nil {
				return err
			}
			return runErr
		},
	}
	src.attach(cmd)
	out.attach(cmd)
	return cmd
}
