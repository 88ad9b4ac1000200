// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/uavreview/internal/models"
	"github.com/tomtom215/uavreview/internal/tator"
)

// Media returns all loaded media.
func (h *Handler) Media(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, start, h.store.Media())
}

// MediaItem returns one media record by id.
func (h *Handler) MediaItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m, ok := h.mediaFromPath(w, r)
	if !ok {
		return
	}
	respondSuccess(w, start, m)
}

// permalinkPayload is the body of the permalink endpoint.
type permalinkPayload struct {
	MediaID int64  `json:"mediaId"`
	URL     string `json:"url"`
}

// MediaPermalink resolves the media image permalink through the upstream
// service. Unknown media still resolve; the upstream decides.
func (h *Handler) MediaPermalink(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	link := tator.MockPermalink(id)
	if h.upstream != nil {
		link = h.upstream.Permalink(r.Context(), id)
	}
	respondSuccess(w, start, permalinkPayload{MediaID: id, URL: link})
}

// MediaFootprint returns the estimated ground footprint of one media frame.
func (h *Handler) MediaFootprint(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m, ok := h.mediaFromPath(w, r)
	if !ok {
		return
	}
	respondSuccess(w, start, h.layers.Footprint(m))
}

// MediaGraphic returns the media image, or its thumbnail rendition with
// kind=thumbnail. thumbnail=true additionally downsizes the result.
func (h *Handler) MediaGraphic(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m, ok := h.mediaFromPath(w, r)
	if !ok {
		return
	}
	req, ok := graphicRequest(w, r)
	if !ok {
		return
	}

	path, found := mediaPath(m, req.Kind)
	if !found {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, errNoGraphic.Error(), nil)
		return
	}
	if h.upstream == nil {
		respondGraphic(w, start, req, tator.MediaPlaceholder(path))
		return
	}
	respondGraphic(w, start, req, h.upstream.MediaGraphic(r.Context(), path, req.Thumbnail))
}

// Missions returns the loaded missions.
func (h *Handler) Missions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, start, h.store.Missions())
}

func (h *Handler) mediaFromPath(w http.ResponseWriter, r *http.Request) (models.Media, bool) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return models.Media{}, false
	}
	m, ok := h.store.MediaByID(id)
	if !ok {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Media not found", nil)
		return models.Media{}, false
	}
	return m, true
}

// mediaPath picks the file for kind, falling back from image to thumbnail
// and back.
func mediaPath(m models.Media, kind string) (string, bool) {
	order := []string{"image", "thumbnail"}
	if kind == "thumbnail" {
		order = []string{"thumbnail", "image"}
	}
	for _, k := range order {
		if p, ok := m.MediaFiles.Path(k); ok {
			return p, true
		}
	}
	return "", false
}
