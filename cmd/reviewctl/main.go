// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

// Command reviewctl queries the Tator annotation service the same way the
// review server does and prints the result, without starting a server.
//
//	reviewctl detections --label Bird --verified --tab high --page 2
//	reviewctl missions
//	reviewctl timeline-range --json
//
// Configuration is read exactly like the server's (config file, then
// environment). Upstream failures fall back to the built-in sample data.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/uavreview/internal/config"
	"github.com/tomtom215/uavreview/internal/logging"
	"github.com/tomtom215/uavreview/internal/store"
	"github.com/tomtom215/uavreview/internal/tator"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	jsonOut    bool

	cfg *config.Config
	// newSource builds the data source once cfg is loaded.
	newSource func(cfg *config.Config) store.Source
}

func newApp() *app {
	return &app{
		newSource: func(cfg *config.Config) store.Source {
			return tator.NewService(tator.NewClient(cfg.Tator), cfg.Tator, cfg.Graphics)
		},
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "reviewctl",
		Short:         "Inspect UAV detections, missions and the playback range",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: CONFIG_PATH or ./config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level written to stderr")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of a table")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		path := a.configPath
		if path == "" {
			path = config.FindConfigFile()
		}
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		a.cfg = cfg
		logging.Init(logging.Config{
			Level:  a.logLevel,
			Format: "console",
			Output: cmd.ErrOrStderr(),
		})
		return nil
	}

	root.AddCommand(
		detectionsCommand(a),
		missionsCommand(a),
		timelineRangeCommand(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(newApp()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "reviewctl:", err)
		os.Exit(1)
	}
}
