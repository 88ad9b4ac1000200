// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

// Package confidence buckets detection scores for gallery tabs and map
// highlighting.
package confidence

import (
	"math"

	"github.com/tomtom215/uavreview/internal/models"
)

// Bucket is a confidence level.
type Bucket string

const (
	High   Bucket = "high"
	Medium Bucket = "medium"
	Low    Bucket = "low"

	// Any is the gallery tab that shows every bucket. Classify never returns it.
	Any Bucket = "any"
)

// Lower bounds, inclusive.
const (
	HighThreshold   = 0.8
	MediumThreshold = 0.5
)

// Classify buckets a score. A nil or NaN score is Low.
func Classify(score *float64) Bucket {
	if score == nil || math.IsNaN(*score) {
		return Low
	}
	switch s := *score; {
	case s >= HighThreshold:
		return High
	case s >= MediumThreshold:
		return Medium
	default:
		return Low
	}
}

// Of classifies a detection by its score attribute.
func Of(d *models.Detection) Bucket {
	return Classify(d.Attributes.Score)
}

// Matches reports whether bucket b is shown under the selected tab. An empty
// tab or Any shows everything.
func Matches(tab string, b Bucket) bool {
	return tab == "" || Bucket(tab) == Any || Bucket(tab) == b
}

// Counts tallies detections per bucket; Any holds the total.
func Counts(detections []models.Detection) map[Bucket]int {
	counts := map[Bucket]int{High: 0, Medium: 0, Low: 0, Any: len(detections)}
	for i := range detections {
		counts[Of(&detections[i])]++
	}
	return counts
}

// Valid reports whether tab names a known gallery tab.
func Valid(tab string) bool {
	switch Bucket(tab) {
	case High, Medium, Low, Any:
		return true
	}
	return tab == ""
}
