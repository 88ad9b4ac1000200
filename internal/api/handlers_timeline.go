// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package api

import (
	"net/http"
	"time"
)

// Timeline returns the playback status.
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, start, h.timeline.Status())
}

// TimelinePlay starts playback. Playing while already playing is a no-op.
func (h *Handler) TimelinePlay(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.timeline.Play(); err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, start, h.timeline.Status())
}

// TimelinePause stops playback and returns once no further tick can fire.
func (h *Handler) TimelinePause(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, start, h.timeline.Pause())
}

// TimelineSeek moves the cursor, clamped to the mission range.
func (h *Handler) TimelineSeek(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req SeekRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	st, err := h.timeline.Seek(req.Cursor)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, start, st)
}

// TimelineStep advances the cursor by one step without starting playback.
func (h *Handler) TimelineStep(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	st, err := h.timeline.Tick()
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, start, st)
}

// requireTimeline answers 503 for the playback routes when no controller
// was configured.
func (h *Handler) requireTimeline(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.timeline == nil {
			respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Playback not configured", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
