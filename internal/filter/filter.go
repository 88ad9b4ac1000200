// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

// Package filter derives the visible detection subset from the full set and a
// filter specification. All functions are pure: input slices are never
// modified and relative order is preserved.
//
// Predicates are independent conjuncts. A nil or empty predicate in the
// FilterSpec passes every detection:
//
//   - date range: media capture date, else the detection's created time, must
//     fall inside [start, end] inclusive. Detections with neither are excluded.
//   - labels: exact, case-sensitive membership.
//   - mission: stored but not evaluated. Detections carry no mission reference,
//     so the predicate is a known gap rather than a join on an invented key.
//   - verified only: the verified attribute must be present and true.
//   - map bounds: the joined media position with its longitude corrected once
//     by the engine's LongitudeCorrector. Missing coordinates never match.
package filter

import (
	"slices"
	"time"

	"github.com/tomtom215/uavreview/internal/models"
)

// Engine applies filter specifications using a configured longitude corrector.
type Engine struct {
	corrector LongitudeCorrector
}

// NewEngine returns an engine. A nil corrector defaults to WesternHemisphere.
func NewEngine(corrector LongitudeCorrector) *Engine {
	if corrector == nil {
		corrector = WesternHemisphere
	}
	return &Engine{corrector: corrector}
}

// Corrector returns the engine's longitude corrector.
func (e *Engine) Corrector() LongitudeCorrector {
	return e.corrector
}

var defaultEngine = NewEngine(WesternHemisphere)

// Apply filters detections with the default engine.
func Apply(detections []models.Detection, spec models.FilterSpec) []models.Detection {
	return defaultEngine.Apply(detections, spec)
}

// Apply returns the detections that satisfy every present predicate in spec.
func (e *Engine) Apply(detections []models.Detection, spec models.FilterSpec) []models.Detection {
	labels := labelSet(spec.Labels)
	out := make([]models.Detection, 0, len(detections))
	for i := range detections {
		if e.matches(&detections[i], &spec, labels) {
			out = append(out, detections[i])
		}
	}
	return out
}

// Matches reports whether a single detection satisfies spec.
func (e *Engine) Matches(d *models.Detection, spec models.FilterSpec) bool {
	return e.matches(d, &spec, labelSet(spec.Labels))
}

func (e *Engine) matches(d *models.Detection, spec *models.FilterSpec, labels map[string]struct{}) bool {
	if spec.DateRange != nil && !inDateRange(d, *spec.DateRange) {
		return false
	}
	if labels != nil && !hasLabel(d, labels) {
		return false
	}
	if spec.VerifiedOnly && !d.Attributes.IsVerified() {
		return false
	}
	if spec.MapBounds != nil && !e.InBounds(d, *spec.MapBounds) {
		return false
	}
	return true
}

// EffectiveDate returns the instant used for date filtering: the media capture
// date when known, otherwise the detection's created time.
func EffectiveDate(d *models.Detection) (time.Time, bool) {
	if d.MediaAttributes != nil && d.MediaAttributes.Date != nil {
		return *d.MediaAttributes.Date, true
	}
	if d.CreatedDatetime != nil {
		return *d.CreatedDatetime, true
	}
	return time.Time{}, false
}

func inDateRange(d *models.Detection, r models.DateRange) bool {
	t, ok := EffectiveDate(d)
	return ok && r.Contains(t)
}

func labelSet(labels []string) map[string]struct{} {
	if len(labels) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

func hasLabel(d *models.Detection, labels map[string]struct{}) bool {
	if d.Attributes.Label == nil {
		return false
	}
	_, ok := labels[*d.Attributes.Label]
	return ok
}

// Position returns the detection's media latitude and corrected longitude.
func (e *Engine) Position(d *models.Detection) (lat, lon float64, ok bool) {
	if !d.MediaAttributes.HasPosition() {
		return 0, 0, false
	}
	return *d.MediaAttributes.Latitude, e.corrector.Correct(*d.MediaAttributes.Longitude), true
}

// InBounds reports whether the detection's media position lies inside b.
func (e *Engine) InBounds(d *models.Detection, b models.MapBounds) bool {
	lat, lon, ok := e.Position(d)
	return ok && b.Contains(lat, lon)
}

// UniqueLabels returns the sorted distinct labels present in detections.
func UniqueLabels(detections []models.Detection) []string {
	seen := make(map[string]struct{})
	for i := range detections {
		if l := detections[i].Attributes.Label; l != nil && *l != "" {
			seen[*l] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// ActiveCount returns the number of predicates that constrain the result set
// or are shown as active in the filter panel.
func ActiveCount(spec models.FilterSpec) int {
	n := 0
	if spec.DateRange != nil {
		n++
	}
	if spec.MissionID != nil && *spec.MissionID != "" {
		n++
	}
	if len(spec.Labels) > 0 {
		n++
	}
	if spec.VerifiedOnly {
		n++
	}
	if spec.MapBounds != nil {
		n++
	}
	return n
}
