// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/uavreview/internal/filter"
	"github.com/tomtom215/uavreview/internal/models"
	"github.com/tomtom215/uavreview/internal/store"
	"github.com/tomtom215/uavreview/internal/validation"
)

type detectionsOptions struct {
	labels   []string
	verified bool
	from     string
	to       string
	bounds   string
	tab      string
	sortBy   string
	order    string
	page     int
	pageSize int
}

func detectionsCommand(a *app) *cobra.Command {
	var opts detectionsOptions

	cmd := &cobra.Command{
		Use:   "detections",
		Short: "Fetch, filter and paginate detections",
		Long: `Fetch detections and media from Tator, apply the given filters and
print one gallery page. Filters combine with AND; --label may repeat and
matches any of the given labels.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filterPatch, galleryPatch, err := opts.patches()
			if err != nil {
				return err
			}

			st := store.New(
				store.WithSource(a.newSource(a.cfg)),
				store.WithEngine(mustEngine(a.cfg.Filter.LongitudeCorrection)),
				store.WithPageSize(a.cfg.Gallery.PageSize),
			)
			if err := st.Load(cmd.Context()); err != nil && !errors.Is(err, store.ErrSuperseded) {
				return err
			}
			st.UpdateFilters(filterPatch)
			if _, err := st.UpdateGallery(galleryPatch); err != nil {
				return err
			}

			view := st.GalleryPage()
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			return writeDetections(cmd.OutOrStdout(), st.Engine(), view)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&opts.labels, "label", nil, "keep detections with this label (repeatable)")
	f.BoolVar(&opts.verified, "verified", false, "keep only verified detections")
	f.StringVar(&opts.from, "from", "", "date range start, RFC 3339 or YYYY-MM-DD")
	f.StringVar(&opts.to, "to", "", "date range end, RFC 3339 or YYYY-MM-DD")
	f.StringVar(&opts.bounds, "bounds", "", "map bounds as south,west,north,east")
	f.StringVar(&opts.tab, "tab", "any", "confidence tab: high, medium, low or any")
	f.StringVar(&opts.sortBy, "sort", models.SortByDate, "sort key: date, confidence or cluster")
	f.StringVar(&opts.order, "order", models.SortDesc, "sort order: asc or desc")
	f.IntVar(&opts.page, "page", 1, "page number")
	f.IntVar(&opts.pageSize, "page-size", 0, "items per page (default: gallery page size)")
	return cmd
}

// patches converts the flags into store patches and validates them.
func (o detectionsOptions) patches() (models.FilterPatch, models.GalleryPatch, error) {
	var fp models.FilterPatch
	if len(o.labels) > 0 {
		fp.Labels = o.labels
	}
	if o.verified {
		verified := true
		fp.VerifiedOnly = &verified
	}
	if o.from != "" || o.to != "" {
		if o.from == "" || o.to == "" {
			return fp, models.GalleryPatch{}, errors.New("--from and --to must be given together")
		}
		start, err := parseDate(o.from, false)
		if err != nil {
			return fp, models.GalleryPatch{}, fmt.Errorf("--from: %w", err)
		}
		end, err := parseDate(o.to, true)
		if err != nil {
			return fp, models.GalleryPatch{}, fmt.Errorf("--to: %w", err)
		}
		fp.DateRange = &models.DateRange{Start: start, End: end}
	}
	if o.bounds != "" {
		b, err := parseBounds(o.bounds)
		if err != nil {
			return fp, models.GalleryPatch{}, fmt.Errorf("--bounds: %w", err)
		}
		fp.MapBounds = &b
	}

	gp := models.GalleryPatch{
		SelectedConfidence: &o.tab,
		SortBy:             &o.sortBy,
		SortOrder:          &o.order,
		CurrentPage:        &o.page,
	}
	if o.pageSize > 0 {
		gp.ItemsPerPage = &o.pageSize
	}

	if verr := validation.ValidateStruct(fp); verr != nil {
		return fp, gp, verr
	}
	if verr := validation.ValidateStruct(gp); verr != nil {
		return fp, gp, verr
	}
	return fp, gp, nil
}

// parseDate accepts RFC 3339 or a bare date. A bare end date covers the
// whole day.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func parseBounds(s string) (models.MapBounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return models.MapBounds{}, fmt.Errorf("want 4 comma-separated numbers, got %d", len(parts))
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return models.MapBounds{}, fmt.Errorf("invalid number %q", p)
		}
		v[i] = f
	}
	return models.MapBounds{South: v[0], West: v[1], North: v[2], East: v[3]}, nil
}

func mustEngine(correction string) *filter.Engine {
	corrector, err := filter.CorrectorByName(correction)
	if err != nil {
		// Config validation already rejected unknown names.
		corrector = filter.WesternHemisphere
	}
	return filter.NewEngine(corrector)
}

func writeDetections(w io.Writer, engine *filter.Engine, view store.GalleryView) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tLABEL\tSCORE\tCLUSTER\tVERIFIED\tDATE\tLAT\tLON")
	for i := range view.Items {
		d := &view.Items[i]
		score := "-"
		if d.Attributes.Score != nil {
			score = strconv.FormatFloat(*d.Attributes.Score, 'f', 2, 64)
		}
		date := "-"
		if t, ok := filter.EffectiveDate(d); ok {
			date = t.UTC().Format(time.RFC3339)
		}
		lat, lon := "-", "-"
		if la, lo, ok := engine.Position(d); ok {
			lat = strconv.FormatFloat(la, 'f', 5, 64)
			lon = strconv.FormatFloat(lo, 'f', 5, 64)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\t%s\t%s\t%s\n",
			d.ID, orDash(d.Attributes.LabelValue()), score, orDash(d.Attributes.ClusterValue()),
			d.Attributes.IsVerified(), date, lat, lon)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\npage %d of %d (%d detections)\n", view.Page.Page, view.TotalPages, view.TotalItems)
	return err
}
