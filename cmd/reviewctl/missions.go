// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/uavreview/internal/models"
	"github.com/tomtom215/uavreview/internal/timeline"
)

func missionsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "missions",
		Short: "List missions and their time windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			missions := a.newSource(a.cfg).Missions(cmd.Context())
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), missions)
			}
			return writeMissions(cmd.OutOrStdout(), missions)
		},
	}
}

func writeMissions(w io.Writer, missions []models.Mission) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "MISSION\tSTART\tEND")
	for _, m := range missions {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Mnemonic, formatTime(m.Start), formatTime(m.End))
	}
	return tw.Flush()
}

// rangeOutput is the timeline-range result.
type rangeOutput struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Fallback bool      `json:"fallback"`
}

func timelineRangeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline-range",
		Short: "Print the playback range derived from the missions",
		Long: `Print the earliest mission start and latest mission end. Missions
without both times are skipped. With no usable mission the server falls
back to the last seven days, and so does this command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			missions := a.newSource(a.cfg).Missions(cmd.Context())
			out := rangeOutput{}
			r, err := timeline.RangeFromMissions(missions)
			if err != nil {
				r = timeline.FallbackRange(time.Now().UTC())
				out.Fallback = true
			}
			out.Start, out.End = r.Start, r.End

			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			suffix := ""
			if out.Fallback {
				suffix = " (fallback: no mission has a complete window)"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s .. %s%s\n",
				out.Start.UTC().Format(time.RFC3339), out.End.UTC().Format(time.RFC3339), suffix)
			return err
		},
	}
}
