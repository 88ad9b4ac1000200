// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package store

import (
	"slices"

	"github.com/tomtom215/uavreview/internal/confidence"
	"github.com/tomtom215/uavreview/internal/filter"
	"github.com/tomtom215/uavreview/internal/models"
	"github.com/tomtom215/uavreview/internal/pagination"
)

// Detections returns the raw detection set. The slice must not be modified.
func (s *Store) Detections() []models.Detection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detections
}

// Media returns the media set. The slice must not be modified.
func (s *Store) Media() []models.Media {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.media
}

// Missions returns the mission set. The slice must not be modified.
func (s *Store) Missions() []models.Mission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.missions
}

// Filters returns a copy of the current filter spec.
func (s *Store) Filters() models.FilterSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters.Clone()
}

// MapState returns a copy of the map state.
func (s *Store) MapState() models.MapState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mapStateLocked()
}

func (s *Store) mapStateLocked() models.MapState {
	m := s.mapState
	if m.Bounds != nil {
		b := *m.Bounds
		m.Bounds = &b
	}
	m.SelectedDetection = cloneID(m.SelectedDetection)
	m.HoveredDetection = cloneID(m.HoveredDetection)
	return m
}

// GalleryState returns the gallery state.
func (s *Store) GalleryState() models.GalleryState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gallery
}

// CurrentMapBounds returns the map viewport bounds, or nil before the map
// has reported any.
func (s *Store) CurrentMapBounds() *models.MapBounds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mapState.Bounds == nil {
		return nil
	}
	b := *s.mapState.Bounds
	return &b
}

// FilteredDetections applies the current filter spec to the raw set without
// modifying it.
func (s *Store) FilteredDetections() []models.Detection {
	s.mu.RLock()
	detections, spec := s.detections, s.filters
	s.mu.RUnlock()
	return s.engine.Apply(detections, spec)
}

// GalleryVisibleDetections restricts the raw set by the gallery's confidence
// tab only. The main filter spec is not applied.
func (s *Store) GalleryVisibleDetections() []models.Detection {
	s.mu.RLock()
	detections, tab := s.detections, s.gallery.SelectedConfidence
	s.mu.RUnlock()
	return byConfidence(detections, tab)
}

func byConfidence(detections []models.Detection, tab string) []models.Detection {
	out := make([]models.Detection, 0, len(detections))
	for i := range detections {
		if confidence.Matches(tab, confidence.Of(&detections[i])) {
			out = append(out, detections[i])
		}
	}
	return out
}

// DetectionByID looks up a raw detection.
func (s *Store) DetectionByID(id int64) (models.Detection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findDetection(s.detections, id)
}

func findDetection(detections []models.Detection, id int64) (models.Detection, bool) {
	i := slices.IndexFunc(detections, func(d models.Detection) bool { return d.ID == id })
	if i < 0 {
		return models.Detection{}, false
	}
	return detections[i], true
}

// MediaByID looks up a media record in the loaded set.
func (s *Store) MediaByID(id int64) (models.Media, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.media, func(m models.Media) bool { return m.ID == id })
	if i < 0 {
		return models.Media{}, false
	}
	return s.media[i], true
}

// SelectedDetection returns the detection named by the map selection.
func (s *Store) SelectedDetection() (models.Detection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mapState.SelectedDetection == nil {
		return models.Detection{}, false
	}
	return findDetection(s.detections, *s.mapState.SelectedDetection)
}

// HoveredDetection returns the detection under the pointer.
func (s *Store) HoveredDetection() (models.Detection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mapState.HoveredDetection == nil {
		return models.Detection{}, false
	}
	return findDetection(s.detections, *s.mapState.HoveredDetection)
}

// GalleryView is one rendered gallery page.
type GalleryView struct {
	pagination.Page[models.Detection]
	Window []int                     `json:"window"`
	Counts map[confidence.Bucket]int `json:"counts"`
	State  models.GalleryState       `json:"state"`
}

// GalleryPage returns the current gallery page: filtered detections
// restricted by the confidence tab, sorted, then paginated. Counts are taken
// over the filtered set before the tab is applied.
func (s *Store) GalleryPage() GalleryView {
	s.mu.RLock()
	detections, spec, g := s.detections, s.filters, s.gallery
	s.mu.RUnlock()

	filtered := s.engine.Apply(detections, spec)
	visible := byConfidence(filtered, g.SelectedConfidence)
	SortDetections(visible, g.SortBy, g.SortOrder)

	page := pagination.Paginate(visible, g.ItemsPerPage, g.CurrentPage)
	return GalleryView{
		Page:   page,
		Window: pagination.Window(pagination.Clamp(g.CurrentPage, page.TotalPages), page.TotalPages),
		Counts: confidence.Counts(filtered),
		State:  g,
	}
}

// FilterOptions lists the values the filter panel offers.
type FilterOptions struct {
	Labels      []string `json:"labels"`
	Missions    []string `json:"missions"`
	ActiveCount int      `json:"activeCount"`
}

// FilterOptions returns the distinct labels and mission names in the loaded
// data plus the number of active predicates.
func (s *Store) FilterOptions() FilterOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()

	missions := make([]string, 0, len(s.missions))
	for _, m := range s.missions {
		missions = append(missions, m.Mnemonic)
	}
	return FilterOptions{
		Labels:      filter.UniqueLabels(s.detections),
		Missions:    missions,
		ActiveCount: filter.ActiveCount(s.filters),
	}
}

// Nearby is a detection with its distance from a query point.
type Nearby struct {
	Detection  models.Detection `json:"detection"`
	DistanceKm float64          `json:"distanceKm"`
}

const nearbyCellKm = 0.5

// NearbyDetections returns up to limit detections whose corrected media
// position lies within radiusKm of (lat, lon), nearest first. A limit below
// 1 means no limit.
func (s *Store) NearbyDetections(lat, lon, radiusKm float64, limit int) []Nearby {
	hits := s.grid.QueryNearby(lat, lon, radiusKm)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Nearby, 0, len(hits))
	for _, h := range hits {
		if limit > 0 && len(out) >= limit {
			break
		}
		if d, ok := findDetection(s.detections, h.ID); ok {
			out = append(out, Nearby{Detection: d, DistanceKm: h.DistanceKm})
		}
	}
	return out
}

// Snapshot is a read-consistent summary of the whole store.
type Snapshot struct {
	Detections         int                 `json:"detections"`
	FilteredDetections int                 `json:"filteredDetections"`
	Media              int                 `json:"media"`
	Missions           int                 `json:"missions"`
	Filters            models.FilterSpec   `json:"filters"`
	ActiveFilters      int                 `json:"activeFilters"`
	Map                models.MapState     `json:"map"`
	Gallery            models.GalleryState `json:"gallery"`
}

// Snapshot returns the store summary.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Detections:         len(s.detections),
		FilteredDetections: len(s.engine.Apply(s.detections, s.filters)),
		Media:              len(s.media),
		Missions:           len(s.missions),
		Filters:            s.filters.Clone(),
		ActiveFilters:      filter.ActiveCount(s.filters),
		Map:                s.mapStateLocked(),
		Gallery:            s.gallery,
	}
}
