// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package models

import (
	"slices"
	"time"
)

// DateRange is an inclusive [Start, End] instant range.
type DateRange struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

// Contains reports whether t lies inside the range, both ends inclusive.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Equal compares two ranges by instant.
func (r DateRange) Equal(o DateRange) bool {
	return r.Start.Equal(o.Start) && r.End.Equal(o.End)
}

// MapBounds is a geographic rectangle in degrees. Antimeridian wraparound is
// not handled: West is expected to be <= East.
type MapBounds struct {
	North float64 `json:"north" validate:"latitude"`
	South float64 `json:"south" validate:"latitude"`
	East  float64 `json:"east" validate:"longitude"`
	West  float64 `json:"west" validate:"longitude"`
}

// Valid reports whether South <= North.
func (b MapBounds) Valid() bool {
	return b.South <= b.North
}

// Contains reports whether the point lies inside the rectangle, edges inclusive.
// The longitude must already be sign-corrected.
func (b MapBounds) Contains(lat, lon float64) bool {
	return lat >= b.South && lat <= b.North && lon >= b.West && lon <= b.East
}

// FilterSpec is the conjunction of the active filter predicates. A nil or
// empty field means "no constraint".
type FilterSpec struct {
	DateRange *DateRange `json:"dateRange,omitempty"`
	// MissionID is accepted and stored but detections carry no mission
	// reference yet, so it does not constrain the result set.
	MissionID    *string    `json:"missionId,omitempty"`
	Labels       []string   `json:"labels,omitempty"`
	VerifiedOnly bool       `json:"verifiedOnly,omitempty"`
	MapBounds    *MapBounds `json:"mapBounds,omitempty"`
	// VisibleMediaDates lists media capture dates currently drawn on the map.
	// It is informational and never used as a predicate.
	VisibleMediaDates []string `json:"visibleMediaDates,omitempty"`
}

// Clone returns a deep copy.
func (f FilterSpec) Clone() FilterSpec {
	out := f
	if f.DateRange != nil {
		r := *f.DateRange
		out.DateRange = &r
	}
	if f.MissionID != nil {
		m := *f.MissionID
		out.MissionID = &m
	}
	if f.MapBounds != nil {
		b := *f.MapBounds
		out.MapBounds = &b
	}
	out.Labels = slices.Clone(f.Labels)
	out.VisibleMediaDates = slices.Clone(f.VisibleMediaDates)
	return out
}

// FilterField names a FilterSpec field for explicit removal in a FilterPatch.
type FilterField string

const (
	FilterDateRange         FilterField = "dateRange"
	FilterMissionID         FilterField = "missionId"
	FilterLabels            FilterField = "labels"
	FilterVerifiedOnly      FilterField = "verifiedOnly"
	FilterMapBounds         FilterField = "mapBounds"
	FilterVisibleMediaDates FilterField = "visibleMediaDates"
)

// FilterPatch is a partial filter update. Nil fields are left untouched;
// fields named in Clear are removed before the set fields are applied.
type FilterPatch struct {
	DateRange         *DateRange    `json:"dateRange,omitempty"`
	MissionID         *string       `json:"missionId,omitempty"`
	Labels            []string      `json:"labels,omitempty"`
	VerifiedOnly      *bool         `json:"verifiedOnly,omitempty"`
	MapBounds         *MapBounds    `json:"mapBounds,omitempty"`
	VisibleMediaDates []string      `json:"visibleMediaDates,omitempty"`
	Clear             []FilterField `json:"clear,omitempty" validate:"omitempty,dive,oneof=dateRange missionId labels verifiedOnly mapBounds visibleMediaDates"`
}

// Apply merges the patch into spec and returns the result. spec is not modified.
func (p FilterPatch) Apply(spec FilterSpec) FilterSpec {
	out := spec.Clone()
	for _, field := range p.Clear {
		switch field {
		case FilterDateRange:
			out.DateRange = nil
		case FilterMissionID:
			out.MissionID = nil
		case FilterLabels:
			out.Labels = nil
		case FilterVerifiedOnly:
			out.VerifiedOnly = false
		case FilterMapBounds:
			out.MapBounds = nil
		case FilterVisibleMediaDates:
			out.VisibleMediaDates = nil
		}
	}
	if p.DateRange != nil {
		r := *p.DateRange
		out.DateRange = &r
	}
	if p.MissionID != nil {
		m := *p.MissionID
		out.MissionID = &m
	}
	if p.Labels != nil {
		out.Labels = slices.Clone(p.Labels)
	}
	if p.VerifiedOnly != nil {
		out.VerifiedOnly = *p.VerifiedOnly
	}
	if p.MapBounds != nil {
		b := *p.MapBounds
		out.MapBounds = &b
	}
	if p.VisibleMediaDates != nil {
		out.VisibleMediaDates = slices.Clone(p.VisibleMediaDates)
	}
	return out
}
