// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/uavreview/internal/geo"
	"github.com/tomtom215/uavreview/internal/store"
	"github.com/tomtom215/uavreview/internal/tator"
	"github.com/tomtom215/uavreview/internal/timeline"
)

// Upstream is the part of the annotation service the handlers call
// directly. *tator.Service implements it.
type Upstream interface {
	Permalink(ctx context.Context, mediaID int64) string
	DetectionGraphic(ctx context.Context, id int64, thumbnail bool) tator.Graphic
	MediaGraphic(ctx context.Context, path string, thumbnail bool) tator.Graphic
}

// BreakerReporter exposes circuit breaker states for the health endpoint.
// *tator.Client implements it.
type BreakerReporter interface {
	BreakerStates() map[string]string
}

// ClientCounter reports connected WebSocket clients.
type ClientCounter interface {
	GetClientCount() int
}

// Deps are the collaborators of a Handler. Store is required; a nil
// Timeline disables the playback endpoints and a nil WebSocket handler
// disables /ws.
type Deps struct {
	Store     *store.Store
	Upstream  Upstream
	Breakers  BreakerReporter
	Timeline  *timeline.Controller
	Layers    *geo.Layers
	Hub       ClientCounter
	WebSocket http.Handler
	Version   string
}

// Handler serves the review API.
type Handler struct {
	store     *store.Store
	upstream  Upstream
	breakers  BreakerReporter
	timeline  *timeline.Controller
	layers    *geo.Layers
	hub       ClientCounter
	ws        http.Handler
	version   string
	startTime time.Time
}

// NewHandler creates a handler. Map layers default to the store's longitude
// corrector so markers and the bounds filter agree.
func NewHandler(d Deps) *Handler {
	layers := d.Layers
	if layers == nil {
		layers = geo.NewLayers(d.Store.Engine().Corrector())
	}
	version := d.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		store:     d.Store,
		upstream:  d.Upstream,
		breakers:  d.Breakers,
		timeline:  d.Timeline,
		layers:    layers,
		hub:       d.Hub,
		ws:        d.WebSocket,
		version:   version,
		startTime: time.Now(),
	}
}

// WebSocket upgrades the connection and hands it to the hub.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.ws == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "WebSocket not configured", nil)
		return
	}
	h.ws.ServeHTTP(w, r)
}
