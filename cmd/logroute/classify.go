package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clarabennett2626/logroute/internal/source"
	"github.com/clarabennett2626/logroute/internal/tui"
)

type classifyOptions struct {
	json   bool
	compat source.Compat
	light  bool
}

// classification is the JSON form of a resolved strategy.
type classification struct {
	Path             string `json:"path"`
	Kind             string `json:"kind"`
	Compat           string `json:"compat"`
	Follow           string `json:"follow"`
	FollowIntervalMS int    `json:"follow_interval_ms"`
	Opener           string `json:"opener"`
	NeedsPrivileges  bool   `json:"needs_privileges"`
	PersistEligible  bool   `json:"persist_eligible"`
}

func classifyCmd() *cobra.Command {
	opts := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify PATH...",
		Short: "Show how paths would be followed and opened",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			rows := make([]tui.StrategyRow, 0, len(args))
			for _, path := range args {
				rows = append(rows, tui.StrategyRow{
					Path:     path,
					Strategy: source.Resolve(source.Classify(path), opts.compat),
				})
			}

			if opts.json {
				out := make([]classification, 0, len(rows))
				for _, r := range rows {
					s := r.Strategy
					out = append(out, classification{
						Path:             r.Path,
						Kind:             s.Kind.String(),
						Compat:           s.Compat.String(),
						Follow:           s.Follow.String(),
						FollowIntervalMS: s.Follow.IntervalMS(),
						Opener:           s.Opener.String(),
						NeedsPrivileges:  s.NeedsPrivileges,
						PersistEligible:  s.PersistEligible,
					})
				}
				return printJSON(c.OutOrStdout(), out)
			}

			theme := tui.ThemeDark
			if opts.light {
				theme = tui.ThemeLight
			}
			fmt.Fprintln(c.OutOrStdout(), tui.RenderStrategies(rows, theme))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.json, "json", "j", false, "Output in JSON format")
	cmd.Flags().Var(&opts.compat, "compat", "Compatibility mode (current or legacy)")
	cmd.Flags().BoolVar(&opts.light, "light", false, "Use colors for light terminals")
	return cmd
}
