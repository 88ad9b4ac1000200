// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/uavreview/internal/logging"
	"github.com/tomtom215/uavreview/internal/models"
)

// State returns a summary of every view's state.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, start, h.store.Snapshot())
}

// filtersPayload is returned by the filter mutations.
type filtersPayload struct {
	Filters     models.FilterSpec `json:"filters"`
	ActiveCount int               `json:"activeCount"`
	PageReset   bool              `json:"pageReset"`
}

// Filters returns the current filter specification.
func (h *Handler) Filters(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, start, h.store.Filters())
}

// UpdateFilters merges a partial filter update. Fields listed in "clear" are
// removed before the others are applied.
func (h *Handler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var patch models.FilterPatch
	if !decodeJSONBody(w, r, &patch) {
		return
	}

	spec, reset := h.store.UpdateFilters(patch)
	logging.Ctx(r.Context()).Debug().Bool("page_reset", reset).Msg("Filters updated")
	respondSuccess(w, start, filtersPayload{
		Filters:     spec,
		ActiveCount: h.store.FilterOptions().ActiveCount,
		PageReset:   reset,
	})
}

// ClearFilters resets every filter predicate.
func (h *Handler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	spec := h.store.ClearFilters()
	respondSuccess(w, start, filtersPayload{Filters: spec, PageReset: true})
}

// FilterOptions returns the labels and missions the filter panel offers.
func (h *Handler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, start, h.store.FilterOptions())
}

// MapState returns the viewport, layers, selection and hover.
func (h *Handler) MapState(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, start, h.store.MapState())
}

// UpdateMap applies a viewport change.
func (h *Handler) UpdateMap(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var patch models.MapPatch
	if !decodeJSONBody(w, r, &patch) {
		return
	}
	state, err := h.store.UpdateMap(patch)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, start, state)
}

// ToggleLayer flips one layer's visibility.
func (h *Handler) ToggleLayer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	layers, err := h.store.ToggleLayer(chi.URLParam(r, "layer"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, start, layers)
}

// SetSelection selects a detection, or clears the selection with null.
func (h *Handler) SetSelection(w http.ResponseWriter, r *http.Request) {
	h.setDetectionRef(w, r, h.store.Select)
}

// SetHover marks a detection as hovered, or clears the hover with null.
func (h *Handler) SetHover(w http.ResponseWriter, r *http.Request) {
	h.setDetectionRef(w, r, h.store.Hover)
}

func (h *Handler) setDetectionRef(w http.ResponseWriter, r *http.Request, set func(*int64)) {
	start := time.Now()
	var req SelectionRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.DetectionID != nil {
		if _, ok := h.store.DetectionByID(*req.DetectionID); !ok {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Detection not found", nil)
			return
		}
	}
	set(req.DetectionID)
	respondSuccess(w, start, h.store.MapState())
}

// GalleryState returns the gallery settings.
func (h *Handler) GalleryState(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, start, h.store.GalleryState())
}

// UpdateGallery applies a gallery settings change.
func (h *Handler) UpdateGallery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var patch models.GalleryPatch
	if !decodeJSONBody(w, r, &patch) {
		return
	}
	state, err := h.store.UpdateGallery(patch)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	respondSuccess(w, start, state)
}

// Refresh re-fetches detections and keeps only those inside the current
// date range and map bounds.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.store.RefreshDetectionsWithFilters(r.Context()); err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, start, h.store.Snapshot())
}

// Reload re-fetches detections, media and missions and re-derives the
// playback range from the new missions.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.store.Load(r.Context()); err != nil {
		respondDomainError(w, err)
		return
	}
	if h.timeline != nil {
		h.timeline.SetMissions(h.store.Missions())
	}
	respondSuccess(w, start, h.store.Snapshot())
}
