// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/uavreview/internal/geo"
)

// MapMarkers returns the filtered detections as GeoJSON points. Markers
// listed on the current gallery page, selected or hovered are highlighted.
func (h *Handler) MapMarkers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ms := h.store.MapState()
	opts := geo.MarkerOptions{
		GalleryVisible: geo.IDSet(h.store.GalleryPage().Items),
		Selected:       ms.SelectedDetection,
		Hovered:        ms.HoveredDetection,
	}
	markers := h.layers.Markers(h.store.FilteredDetections(), opts)
	respondSuccess(w, start, geo.MarkerFeatures(markers))
}

// MapFlightPaths returns one GeoJSON line per mission with enough
// positioned media inside its window.
func (h *Handler) MapFlightPaths(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	paths := h.layers.FlightPaths(h.store.Missions(), h.store.Media())
	respondSuccess(w, start, geo.FlightPathFeatures(paths))
}

// MapFootprints returns every media footprint as GeoJSON polygons.
func (h *Handler) MapFootprints(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, start, geo.FootprintFeatures(h.layers.Footprints(h.store.Media())))
}
