// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/uavreview/internal/models"
	"github.com/tomtom215/uavreview/internal/timeline"
)

// Health reports process status. The status is "degraded" while any
// upstream circuit breaker is open; fallback data is being served then.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	snap := h.store.Snapshot()

	status := models.HealthStatus{
		Status:        "healthy",
		Version:       h.version,
		Uptime:        time.Since(h.startTime).Seconds(),
		Detections:    snap.Detections,
		Media:         snap.Media,
		Missions:      snap.Missions,
		PlaybackState: string(timeline.StateStopped),
	}
	if h.breakers != nil {
		status.Breakers = h.breakers.BreakerStates()
		for _, state := range status.Breakers {
			if state == "open" {
				status.Status = "degraded"
			}
		}
	}
	if h.hub != nil {
		status.WSClients = h.hub.GetClientCount()
	}
	if h.timeline != nil {
		status.PlaybackState = string(h.timeline.State())
	}

	respondSuccess(w, start, status)
}
