package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/clarabennett2626/logroute/internal/logging"
)

// Build metadata injected via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	debug bool
}

func (g *globalOptions) logger(w io.Writer) logging.Logger {
	l := logging.NewSyslogLogger("logroute", w)
	l.SetDebug(g.debug)
	return l
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:   "logroute",
		Short: "File source front-end for log routing",
		Long: `logroute turns filesystem paths into live log sources.

Each path is classified (regular file, kernel ring buffer, kernel message
device or other device node) to decide whether it is followed for growth,
how it is opened and whether its read position survives restarts.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "Log debug diagnostics to stderr")

	root.AddCommand(classifyCmd())
	root.AddCommand(tailCmd(g))
	root.AddCommand(viewCmd(g))
	root.AddCommand(runCmd(g))
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			out := c.OutOrStdout()
			if version == "" {
				fmt.Fprintln(out, "logroute (dev)")
				return nil
			}
			fmt.Fprintf(out, "logroute %s", version)
			if commit != "" {
				fmt.Fprintf(out, " (%s)", commit)
			}
			if date != "" {
				fmt.Fprintf(out, " built %s", date)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
