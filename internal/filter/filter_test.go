// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package filter

import (
	"testing"
	"time"

	"github.com/tomtom215/uavreview/internal/models"
)

func ptr[T any](v T) *T { return &v }

func ids(ds []models.Detection) []int64 {
	out := make([]int64, len(ds))
	for i := range ds {
		out[i] = ds[i].ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mediaAt(lat, lon float64, date *time.Time) *models.MediaAttributes {
	return &models.MediaAttributes{Latitude: &lat, Longitude: &lon, Date: date}
}

// sample returns a mixed set covering every predicate branch.
func sample() []models.Detection {
	jan15 := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	jan16 := time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)
	return []models.Detection{
		{ID: 1, Attributes: models.DetectionAttributes{Label: ptr("Bird"), Verified: ptr(false)}, MediaAttributes: mediaAt(36.8, 121.9, &jan15)},
		{ID: 2, Attributes: models.DetectionAttributes{Label: ptr("Kelp"), Verified: ptr(true)}, MediaAttributes: mediaAt(36.9, -122.0, &jan16)},
		{ID: 3, Attributes: models.DetectionAttributes{Label: ptr("Whale"), Verified: ptr(true)}, CreatedDatetime: &jan15},
		{ID: 4, Attributes: models.DetectionAttributes{Label: ptr("bird")}},
		{ID: 5, Attributes: models.DetectionAttributes{Verified: ptr(true)}, MediaAttributes: mediaAt(10, 10, nil)},
	}
}

func TestApply_EmptySpecPassesAll(t *testing.T) {
	t.Parallel()

	in := sample()
	got := Apply(in, models.FilterSpec{})
	if !equalIDs(ids(got), ids(in)) {
		t.Errorf("Apply with empty spec = %v, want %v", ids(got), ids(in))
	}
}

func TestApply_DateRange(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	got := Apply(sample(), models.FilterSpec{DateRange: &models.DateRange{Start: start, End: end}})
	// 1 uses its media date (inclusive end), 3 falls back to created time.
	if want := []int64{1, 3}; !equalIDs(ids(got), want) {
		t.Errorf("date filter = %v, want %v", ids(got), want)
	}
}

func TestApply_DateRangeInclusiveStart(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)
	got := Apply(sample(), models.FilterSpec{DateRange: &models.DateRange{Start: at, End: at.Add(time.Hour)}})
	if want := []int64{2}; !equalIDs(ids(got), want) {
		t.Errorf("date filter = %v, want %v", ids(got), want)
	}
}

func TestApply_NoTemporalFacet(t *testing.T) {
	t.Parallel()

	orphan := []models.Detection{{ID: 42}}
	r := models.DateRange{Start: time.Unix(0, 0), End: time.Now().Add(time.Hour)}

	if got := Apply(orphan, models.FilterSpec{DateRange: &r}); len(got) != 0 {
		t.Errorf("detection without media or created time must be excluded by a date filter, got %v", ids(got))
	}
	if got := Apply(orphan, models.FilterSpec{}); len(got) != 1 {
		t.Errorf("detection without media or created time must pass when no date filter is set, got %v", ids(got))
	}
}

func TestApply_Labels(t *testing.T) {
	t.Parallel()

	got := Apply(sample(), models.FilterSpec{Labels: []string{"Bird", "Whale"}})
	if want := []int64{1, 3}; !equalIDs(ids(got), want) {
		t.Errorf("label filter = %v, want %v (case-sensitive)", ids(got), want)
	}
}

func TestApply_MissionIsNoop(t *testing.T) {
	t.Parallel()

	in := sample()
	got := Apply(in, models.FilterSpec{MissionID: ptr("TRINITY-2-20250404")})
	if !equalIDs(ids(got), ids(in)) {
		t.Errorf("mission predicate should not constrain results, got %v", ids(got))
	}
}

func TestApply_VerifiedOnlyScenario(t *testing.T) {
	t.Parallel()

	var in []models.Detection
	verified := map[int64]bool{2: true, 5: true, 9: true}
	for id := int64(1); id <= 10; id++ {
		d := models.Detection{ID: id}
		switch {
		case verified[id]:
			d.Attributes.Verified = ptr(true)
		case id%2 == 0:
			d.Attributes.Verified = ptr(false)
		}
		in = append(in, d)
	}

	got := Apply(in, models.FilterSpec{VerifiedOnly: true})
	if want := []int64{2, 5, 9}; !equalIDs(ids(got), want) {
		t.Errorf("verified-only = %v, want %v", ids(got), want)
	}
}

func TestApply_BoundsScenario(t *testing.T) {
	t.Parallel()

	d := models.Detection{ID: 1, MediaAttributes: mediaAt(36.8, 121.9, nil)}
	bounds := models.MapBounds{North: 37.2, South: 36.4, East: -121.4, West: -122.4}

	if got := Apply([]models.Detection{d}, models.FilterSpec{MapBounds: &bounds}); len(got) != 1 {
		t.Fatal("positive stored longitude should be corrected to -121.9 and match")
	}

	raw := NewEngine(Identity)
	if got := raw.Apply([]models.Detection{d}, models.FilterSpec{MapBounds: &bounds}); len(got) != 0 {
		t.Error("without correction the stored longitude lies outside the bounds")
	}
}

func TestApply_BoundsMissingCoordinates(t *testing.T) {
	t.Parallel()

	lat := 36.8
	in := []models.Detection{
		{ID: 1},
		{ID: 2, MediaAttributes: &models.MediaAttributes{Latitude: &lat}},
	}
	everywhere := models.MapBounds{North: 90, South: -90, East: 180, West: -180}
	if got := Apply(in, models.FilterSpec{MapBounds: &everywhere}); len(got) != 0 {
		t.Errorf("detections without coordinates must never match bounds, got %v", ids(got))
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := sample()
	before := ids(in)
	lon := *in[0].MediaAttributes.Longitude
	bounds := models.MapBounds{North: 37.2, South: 36.4, East: -121.4, West: -122.4}
	_ = Apply(in, models.FilterSpec{MapBounds: &bounds, VerifiedOnly: true})

	if !equalIDs(ids(in), before) {
		t.Error("input order changed")
	}
	if *in[0].MediaAttributes.Longitude != lon {
		t.Error("stored longitude was modified by filtering")
	}
}

// Removing any one predicate must never shrink the result set.
func TestApply_RelaxationIsMonotonic(t *testing.T) {
	t.Parallel()

	in := sample()
	full := models.FilterSpec{
		DateRange:    &models.DateRange{Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		Labels:       []string{"Kelp", "Whale", "Bird"},
		VerifiedOnly: true,
		MapBounds:    &models.MapBounds{North: 37.2, South: 36.4, East: -121.4, West: -122.4},
	}
	base := len(Apply(in, full))

	relaxations := map[string]func(*models.FilterSpec){
		"dateRange":    func(s *models.FilterSpec) { s.DateRange = nil },
		"labels":       func(s *models.FilterSpec) { s.Labels = nil },
		"verifiedOnly": func(s *models.FilterSpec) { s.VerifiedOnly = false },
		"mapBounds":    func(s *models.FilterSpec) { s.MapBounds = nil },
	}
	for name, relax := range relaxations {
		name, relax := name, relax
		t.Run(name, func(t *testing.T) {
			spec := full.Clone()
			relax(&spec)
			if got := len(Apply(in, spec)); got < base {
				t.Errorf("removing %s shrank the result from %d to %d", name, base, got)
			}
		})
	}

	for i := range in {
		single := Apply(in[i:i+1], full)
		if (len(single) == 1) != defaultEngine.Matches(&in[i], full) {
			t.Errorf("Apply and Matches disagree for detection %d", in[i].ID)
		}
	}
}

func TestWesternHemisphere_Idempotent(t *testing.T) {
	t.Parallel()

	for _, lon := range []float64{121.9, -121.9, 0, 179.99, -0.5} {
		once := WesternHemisphere.Correct(lon)
		twice := WesternHemisphere.Correct(once)
		if once != twice {
			t.Errorf("correcting %v twice gave %v, once gave %v", lon, twice, once)
		}
		if once > 0 {
			t.Errorf("corrected longitude %v should not be positive", once)
		}
	}
	if got := WesternHemisphere.Correct(121.9); got != -121.9 {
		t.Errorf("Correct(121.9) = %v, want -121.9", got)
	}
}

func TestCorrectorByName(t *testing.T) {
	t.Parallel()

	if c, err := CorrectorByName("none"); err != nil || c.Correct(5) != 5 {
		t.Errorf("none corrector = %v, %v", c, err)
	}
	if c, err := CorrectorByName(""); err != nil || c.Correct(5) != -5 {
		t.Errorf("default corrector = %v, %v", c, err)
	}
	if _, err := CorrectorByName("east"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestUniqueLabelsAndActiveCount(t *testing.T) {
	t.Parallel()

	labels := UniqueLabels(sample())
	if want := []string{"Bird", "Kelp", "Whale", "bird"}; len(labels) != len(want) {
		t.Fatalf("UniqueLabels = %v, want %v", labels, want)
	} else {
		for i := range want {
			if labels[i] != want[i] {
				t.Errorf("UniqueLabels[%d] = %q, want %q", i, labels[i], want[i])
			}
		}
	}

	spec := models.FilterSpec{Labels: []string{"Bird"}, VerifiedOnly: true, MissionID: ptr("")}
	if got := ActiveCount(spec); got != 2 {
		t.Errorf("ActiveCount = %d, want 2", got)
	}
	if got := ActiveCount(models.FilterSpec{}); got != 0 {
		t.Errorf("ActiveCount(empty) = %d, want 0", got)
	}
}
