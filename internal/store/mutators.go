// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/tomtom215/uavreview/internal/cache"
	"github.com/tomtom215/uavreview/internal/confidence"
	"github.com/tomtom215/uavreview/internal/logging"
	"github.com/tomtom215/uavreview/internal/metrics"
	"github.com/tomtom215/uavreview/internal/models"
)

// SetDetections replaces the raw detection set. Filter and UI state are kept.
// Any detection fetch still in flight is superseded.
func (s *Store) SetDetections(detections []models.Detection) {
	s.mu.Lock()
	s.ticketLocked(EntityDetections)
	changes := s.commitDetectionsLocked(detections, false)
	s.mu.Unlock()
	s.notify(changes...)
}

// SetMedia replaces the media set.
func (s *Store) SetMedia(media []models.Media) {
	s.mu.Lock()
	s.ticketLocked(EntityMedia)
	s.commitMediaLocked(media)
	s.mu.Unlock()
	s.notify(countChange(ChangeMedia, len(media)))
}

// SetMissions replaces the mission set.
func (s *Store) SetMissions(missions []models.Mission) {
	s.mu.Lock()
	s.ticketLocked(EntityMissions)
	s.commitMissionsLocked(missions)
	s.mu.Unlock()
	s.notify(countChange(ChangeMissions, len(missions)))
}

// commitDetectionsLocked installs detections and rebuilds the nearby index.
// The gallery page is untouched unless resetPage is set; readers clamp it
// against the current page count.
func (s *Store) commitDetectionsLocked(detections []models.Detection, resetPage bool) []Change {
	if detections == nil {
		detections = []models.Detection{}
	}
	s.detections = detections
	s.rebuildGridLocked()
	metrics.SetStoreEntities(string(EntityDetections), len(detections))

	changes := []Change{countChange(ChangeDetections, len(detections))}
	if resetPage && s.gallery.CurrentPage != 1 {
		s.gallery.CurrentPage = 1
		changes = append(changes, Change{Kind: ChangeGallery, Data: s.gallery})
	}
	return changes
}

func (s *Store) commitMediaLocked(media []models.Media) {
	if media == nil {
		media = []models.Media{}
	}
	s.media = media
	metrics.SetStoreEntities(string(EntityMedia), len(media))
}

func (s *Store) commitMissionsLocked(missions []models.Mission) {
	if missions == nil {
		missions = []models.Mission{}
	}
	s.missions = missions
	metrics.SetStoreEntities(string(EntityMissions), len(missions))
}

func (s *Store) rebuildGridLocked() {
	points := make([]cache.SpatialEntry, 0, len(s.detections))
	for i := range s.detections {
		if lat, lon, ok := s.engine.Position(&s.detections[i]); ok {
			points = append(points, cache.SpatialEntry{ID: s.detections[i].ID, Lat: lat, Lon: lon})
		}
	}
	s.grid.Replace(points)
}

// Load fetches detections, media and missions concurrently. Each set
// commits as soon as its fetch returns. The joined error holds ErrSuperseded
// for every set whose result was discarded.
func (s *Store) Load(ctx context.Context) error {
	if s.source == nil {
		return ErrNoSource
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		record(s.fetchDetections(ctx))
	}()
	go func() {
		defer wg.Done()
		record(s.fetchMedia(ctx))
	}()
	go func() {
		defer wg.Done()
		record(s.fetchMissions(ctx))
	}()
	wg.Wait()

	return errors.Join(errs...)
}

func (s *Store) fetchDetections(ctx context.Context) error {
	t := s.ticket(EntityDetections)
	detections := s.source.Detections(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if !s.currentLocked(EntityDetections, t) {
		s.mu.Unlock()
		return s.superseded(EntityDetections)
	}
	changes := s.commitDetectionsLocked(detections, false)
	s.mu.Unlock()

	logging.Debug().Int("count", len(detections)).Msg("Detections committed")
	s.notify(changes...)
	return nil
}

func (s *Store) fetchMedia(ctx context.Context) error {
	t := s.ticket(EntityMedia)
	media := s.source.Media(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if !s.currentLocked(EntityMedia, t) {
		s.mu.Unlock()
		return s.superseded(EntityMedia)
	}
	s.commitMediaLocked(media)
	s.mu.Unlock()

	logging.Debug().Int("count", len(media)).Msg("Media committed")
	s.notify(countChange(ChangeMedia, len(media)))
	return nil
}

func (s *Store) fetchMissions(ctx context.Context) error {
	t := s.ticket(EntityMissions)
	missions := s.source.Missions(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if !s.currentLocked(EntityMissions, t) {
		s.mu.Unlock()
		return s.superseded(EntityMissions)
	}
	s.commitMissionsLocked(missions)
	s.mu.Unlock()

	logging.Debug().Int("count", len(missions)).Msg("Missions committed")
	s.notify(countChange(ChangeMissions, len(missions)))
	return nil
}

func (s *Store) superseded(e Entity) error {
	metrics.RecordSuperseded(string(e))
	logging.Debug().Str("entity", string(e)).Msg("Discarding superseded fetch result")
	return fmt.Errorf("%s: %w", e, ErrSuperseded)
}

// RefreshDetectionsWithFilters re-fetches detections, keeps only those inside
// the current date range and map bounds, and commits the survivors as the new
// raw detection set. The gallery returns to page 1. Unlike FilteredDetections
// this discards the non-matching records.
//
// The map viewport bounds are used when known, otherwise the filter's bounds.
func (s *Store) RefreshDetectionsWithFilters(ctx context.Context) error {
	if s.source == nil {
		return ErrNoSource
	}

	s.mu.Lock()
	t := s.ticketLocked(EntityDetections)
	var spec models.FilterSpec
	if s.filters.DateRange != nil {
		r := *s.filters.DateRange
		spec.DateRange = &r
	}
	switch {
	case s.mapState.Bounds != nil:
		b := *s.mapState.Bounds
		spec.MapBounds = &b
	case s.filters.MapBounds != nil:
		b := *s.filters.MapBounds
		spec.MapBounds = &b
	}
	s.mu.Unlock()

	fresh := s.source.Detections(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}
	kept := s.engine.Apply(fresh, spec)

	s.mu.Lock()
	if !s.currentLocked(EntityDetections, t) {
		s.mu.Unlock()
		return s.superseded(EntityDetections)
	}
	changes := s.commitDetectionsLocked(kept, true)
	s.mu.Unlock()

	logging.Info().
		Int("fetched", len(fresh)).
		Int("kept", len(kept)).
		Bool("date_range", spec.DateRange != nil).
		Bool("bounds", spec.MapBounds != nil).
		Msg("Detections refreshed with filters")
	s.notify(changes...)
	return nil
}

// UpdateFilters merges patch into the filter spec. The gallery returns to
// page 1 whenever the set of matching detections changes. It reports whether
// the page was reset.
func (s *Store) UpdateFilters(patch models.FilterPatch) (models.FilterSpec, bool) {
	s.mu.Lock()
	spec, changes, reset := s.setFiltersLocked(patch.Apply(s.filters))
	s.mu.Unlock()
	s.notify(changes...)
	return spec, reset
}

// SetDateRange replaces the date-range predicate. The timeline writes
// through this on every cursor change.
func (s *Store) SetDateRange(r models.DateRange) {
	s.UpdateFilters(models.FilterPatch{DateRange: &r})
}

// ClearFilters removes every predicate.
func (s *Store) ClearFilters() models.FilterSpec {
	s.mu.Lock()
	spec, changes, _ := s.setFiltersLocked(models.FilterSpec{})
	s.mu.Unlock()
	s.notify(changes...)
	return spec
}

func (s *Store) setFiltersLocked(next models.FilterSpec) (models.FilterSpec, []Change, bool) {
	before := s.matchedIDsLocked()
	s.filters = next
	after := s.matchedIDsLocked()
	metrics.StoreFilteredDetections.Set(float64(len(after)))

	changes := []Change{{Kind: ChangeFilters, Data: s.filters.Clone()}}
	reset := false
	if !slices.Equal(before, after) && s.gallery.CurrentPage != 1 {
		s.gallery.CurrentPage = 1
		reset = true
		changes = append(changes, Change{Kind: ChangeGallery, Data: s.gallery})
	}
	return s.filters.Clone(), changes, reset
}

// matchedIDsLocked returns the ids of the detections passing the filter, in order.
func (s *Store) matchedIDsLocked() []int64 {
	matched := s.engine.Apply(s.detections, s.filters)
	ids := make([]int64, len(matched))
	for i := range matched {
		ids[i] = matched[i].ID
	}
	return ids
}

// UpdateMap applies a viewport patch. Zoom is clamped to the supported range.
func (s *Store) UpdateMap(patch models.MapPatch) (models.MapState, error) {
	if patch.Bounds != nil && !patch.Bounds.Valid() {
		return s.MapState(), ErrInvalidBounds
	}

	s.mu.Lock()
	if patch.Center != nil {
		s.mapState.Center = *patch.Center
	}
	if patch.Zoom != nil {
		s.mapState.Zoom = max(models.MinMapZoom, min(*patch.Zoom, models.MaxMapZoom))
	}
	if patch.Bounds != nil {
		b := *patch.Bounds
		s.mapState.Bounds = &b
	}
	state := s.mapStateLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeMap, Data: state})
	return state, nil
}

// ToggleLayer flips the visibility of one map layer.
func (s *Store) ToggleLayer(name string) (models.LayerVisibility, error) {
	s.mu.Lock()
	if !s.mapState.Layers.Toggle(name) {
		s.mu.Unlock()
		return models.LayerVisibility{}, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	layers := s.mapState.Layers
	state := s.mapStateLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeMap, Data: state})
	return layers, nil
}

// Select sets or clears (nil) the selected detection.
func (s *Store) Select(id *int64) {
	s.mu.Lock()
	s.mapState.SelectedDetection = cloneID(id)
	published := cloneID(s.mapState.SelectedDetection)
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeSelection, Data: published})
}

// Hover sets or clears (nil) the hovered detection.
func (s *Store) Hover(id *int64) {
	s.mu.Lock()
	s.mapState.HoveredDetection = cloneID(id)
	published := cloneID(s.mapState.HoveredDetection)
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeHover, Data: published})
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// UpdateGallery applies a gallery patch. Changing the confidence tab returns
// to page 1 unless the patch also names a page.
func (s *Store) UpdateGallery(patch models.GalleryPatch) (models.GalleryState, error) {
	if patch.SelectedConfidence != nil && !confidence.Valid(*patch.SelectedConfidence) {
		return s.GalleryState(), fmt.Errorf("unknown confidence level %q", *patch.SelectedConfidence)
	}

	s.mu.Lock()
	g := s.gallery
	if patch.SelectedConfidence != nil {
		tab := *patch.SelectedConfidence
		if tab == string(confidence.Any) {
			tab = ""
		}
		if tab != g.SelectedConfidence {
			g.SelectedConfidence = tab
			g.CurrentPage = 1
		}
	}
	if patch.ViewMode != nil {
		g.ViewMode = *patch.ViewMode
	}
	if patch.SortBy != nil {
		g.SortBy = *patch.SortBy
	}
	if patch.SortOrder != nil {
		g.SortOrder = *patch.SortOrder
	}
	if patch.ItemsPerPage != nil && *patch.ItemsPerPage > 0 {
		g.ItemsPerPage = *patch.ItemsPerPage
	}
	if patch.CurrentPage != nil && *patch.CurrentPage > 0 {
		g.CurrentPage = *patch.CurrentPage
	}
	s.gallery = g
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeGallery, Data: g})
	return g, nil
}
