// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/uavreview/internal/pagination"
	"github.com/tomtom215/uavreview/internal/tator"
)

const (
	defaultNearbyRadiusKm = 1.0
	defaultNearbyLimit    = 20
)

// Detections returns the raw detection set, unfiltered.
func (h *Handler) Detections(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, start, h.store.Detections())
}

// FilteredDetections returns the detections matching the current filters.
// With page or page_size present the result is paginated; page_size
// defaults to the gallery's items per page.
func (h *Handler) FilteredDetections(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	filtered := h.store.FilteredDetections()

	q := r.URL.Query()
	if !q.Has("page") && !q.Has("page_size") {
		respondSuccess(w, start, filtered)
		return
	}

	page, err := getIntParam(r, "page", 1)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	size, err := getIntParam(r, "page_size", h.store.GalleryState().ItemsPerPage)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	req := PageRequest{Page: page, PageSize: size}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	respondSuccess(w, start, pagination.Paginate(filtered, req.PageSize, req.Page))
}

// Detection returns one detection by id.
func (h *Handler) Detection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	d, ok := h.store.DetectionByID(id)
	if !ok {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Detection not found", nil)
		return
	}
	respondSuccess(w, start, d)
}

// NearbyDetections lists detections around a point, nearest first.
func (h *Handler) NearbyDetections(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()
	if !q.Has("lat") || !q.Has("lon") {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "lat and lon are required", nil)
		return
	}

	lat, latErr := getFloatParam(r, "lat", 0)
	lon, lonErr := getFloatParam(r, "lon", 0)
	radius, radiusErr := getFloatParam(r, "radius_km", defaultNearbyRadiusKm)
	limit, limitErr := getIntParam(r, "limit", defaultNearbyLimit)
	if err := firstError(latErr, lonErr, radiusErr, limitErr); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	req := NearbyRequest{Lat: lat, Lon: lon, RadiusKm: radius, Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	respondSuccess(w, start, h.store.NearbyDetections(req.Lat, req.Lon, req.RadiusKm, req.Limit))
}

// DetectionGraphic returns the image crop of a detection. A failed fetch
// yields an SVG placeholder, flagged with X-Graphic-Placeholder.
func (h *Handler) DetectionGraphic(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	req, ok := graphicRequest(w, r)
	if !ok {
		return
	}
	if h.upstream == nil {
		respondGraphic(w, start, req, tator.DetectionPlaceholder(id))
		return
	}
	respondGraphic(w, start, req, h.upstream.DetectionGraphic(r.Context(), id, req.Thumbnail))
}

// Gallery returns the current gallery page with its navigation window and
// per-tab counts.
func (h *Handler) Gallery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, start, h.store.GalleryPage())
}

func graphicRequest(w http.ResponseWriter, r *http.Request) (GraphicRequest, bool) {
	q := r.URL.Query()
	req := GraphicRequest{
		Thumbnail: getBoolParam(r, "thumbnail"),
		Format:    q.Get("format"),
		Kind:      q.Get("kind"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return req, false
	}
	return req, true
}

// graphicPayload is the format=json form of a graphic.
type graphicPayload struct {
	ContentType string `json:"contentType"`
	Placeholder bool   `json:"placeholder"`
	Size        int    `json:"size"`
	DataURL     string `json:"dataUrl"`
}

func respondGraphic(w http.ResponseWriter, start time.Time, req GraphicRequest, g tator.Graphic) {
	if req.Format == "json" {
		respondSuccess(w, start, graphicPayload{
			ContentType: g.ContentType,
			Placeholder: g.Placeholder,
			Size:        len(g.Data),
			DataURL:     g.DataURL(),
		})
		return
	}

	w.Header().Set("Content-Type", g.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(g.Data)))
	if g.Placeholder {
		w.Header().Set("X-Graphic-Placeholder", "true")
		w.Header().Set("Cache-Control", "no-store")
	} else {
		w.Header().Set("Cache-Control", "private, max-age=300")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(g.Data)
}
