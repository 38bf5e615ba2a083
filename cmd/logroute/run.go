package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clarabennett2626/logroute/internal/config"
	"github.com/clarabennett2626/logroute/internal/driver"
	"github.com/clarabennett2626/logroute/internal/pipe"
)

func runCmd(g *globalOptions) *cobra.Command {
	var configPath string
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every source listed in a configuration file",
		Long: `run starts a driver for each configured source and prints their records,
prefixed with the source file name, until interrupted or until every
unfollowed source reached the end of its data.

The configuration is read from --config, or from $` + config.EnvConfig + ` when the
flag is not given.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			var (
				cfg *config.Config
				err error
			)
			if configPath != "" {
				cfg, err = config.LoadFile(configPath)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return err
			}

			log := g.logger(c.ErrOrStderr())
			rt, err := cfg.Runtime(log)
			if err != nil {
				return err
			}

			sink := pipe.NewSink("run")
			var drivers []*driver.Driver
			defer func() {
				sink.Close()
				for _, d := range drivers {
					release(d, log)
				}
			}()

			for i, s := range cfg.Sources {
				opts, err := s.DriverOptions()
				if err != nil {
					return fmt.Errorf("sources[%d]: %w", i, err)
				}
				d := driver.New(s.Path, rt, opts...)
				d.Append(sink)
				if err := d.Init(); err != nil {
					d.Free()
					return fmt.Errorf("starting source %s: %w", s.Path, err)
				}
				drivers = append(drivers, d)
			}

			ctx, cancel := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			r := out.renderer(true)
			printRecords(ctx, c.OutOrStdout(), sink, allDone(drivers), func(msg *pipe.Message) string {
				return out.render(r, msg)
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")
	out.attach(cmd)
	return cmd
}

// allDone closes once every driver's reader stopped.
func allDone(drivers []*driver.Driver) <-chan struct{} {
	done := make(chan struct{})
	var wg sync.WaitGroup
	for _, d := range drivers {
		wg.Add(1)
		go func(ch <-chan struct{}) {
			defer wg.Done()
			<-ch
		}(d.Done())
	}
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}
