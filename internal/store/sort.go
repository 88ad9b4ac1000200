// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package store

import (
	"slices"

	"github.com/facette/natsort"

	"github.com/tomtom215/uavreview/internal/filter"
	"github.com/tomtom215/uavreview/internal/models"
)

// SortDetections orders detections in place by date, confidence or cluster.
// Detections missing the sort key go last in either direction; ties keep
// their input order. Cluster names compare naturally, so "Unknown C-2"
// precedes "Unknown C-10".
func SortDetections(detections []models.Detection, by, order string) {
	desc := order == models.SortDesc

	var cmp func(a, b *models.Detection) (int, bool)
	switch by {
	case models.SortByConfidence:
		cmp = compareScore
	case models.SortByCluster:
		cmp = compareCluster
	default:
		cmp = compareDate
	}

	slices.SortStableFunc(detections, func(a, b models.Detection) int {
		c, both := cmp(&a, &b)
		if desc && both {
			return -c
		}
		return c
	})
}

// Each comparator returns the ascending order and whether both keys were
// present. When a key is missing the result already puts it last.

func compareDate(a, b *models.Detection) (int, bool) {
	ta, okA := filter.EffectiveDate(a)
	tb, okB := filter.EffectiveDate(b)
	if c, done := missingLast(okA, okB); done {
		return c, false
	}
	return ta.Compare(tb), true
}

func compareScore(a, b *models.Detection) (int, bool) {
	sa, sb := a.Attributes.Score, b.Attributes.Score
	if c, done := missingLast(sa != nil, sb != nil); done {
		return c, false
	}
	switch {
	case *sa < *sb:
		return -1, true
	case *sa > *sb:
		return 1, true
	default:
		return 0, true
	}
}

func compareCluster(a, b *models.Detection) (int, bool) {
	ca, cb := a.Attributes.ClusterValue(), b.Attributes.ClusterValue()
	if c, done := missingLast(ca != "", cb != ""); done {
		return c, false
	}
	switch {
	case ca == cb:
		return 0, true
	case natsort.Compare(ca, cb):
		return -1, true
	default:
		return 1, true
	}
}

func missingLast(hasA, hasB bool) (int, bool) {
	switch {
	case hasA && hasB:
		return 0, false
	case hasA:
		return -1, true
	case hasB:
		return 1, true
	default:
		return 0, true
	}
}
