// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/uavreview/internal/middleware"
)

// compressionLevel is the gzip level for JSON responses.
const compressionLevel = 5

// NewRouter configures all HTTP routes using the Chi router.
func NewRouter(h *Handler, mw *ChiMiddleware) http.Handler {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// Health and Metrics
	// ========================
	r.With(middleware.PrometheusMetrics).Get("/api/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		// WebSocket sits outside the compression group; the upgrade needs
		// the raw connection.
		r.Get("/ws", h.WebSocket)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Compress(compressionLevel, "application/json", "image/svg+xml"))

			// ========================
			// Data
			// ========================
			r.Route("/detections", func(r chi.Router) {
				r.Get("/", h.Detections)
				r.Get("/filtered", h.FilteredDetections)
				r.Get("/nearby", h.NearbyDetections)
				r.Get("/{id}", h.Detection)
				r.Get("/{id}/graphic", h.DetectionGraphic)
			})
			r.Get("/gallery", h.Gallery)
			r.Route("/media", func(r chi.Router) {
				r.Get("/", h.Media)
				r.Get("/{id}", h.MediaItem)
				r.Get("/{id}/permalink", h.MediaPermalink)
				r.Get("/{id}/footprint", h.MediaFootprint)
				r.Get("/{id}/graphic", h.MediaGraphic)
			})
			r.Get("/missions", h.Missions)

			// ========================
			// Map Layers (GeoJSON)
			// ========================
			r.Route("/map", func(r chi.Router) {
				r.Get("/markers", h.MapMarkers)
				r.Get("/flightpaths", h.MapFlightPaths)
				r.Get("/footprints", h.MapFootprints)
			})

			// ========================
			// Shared View State
			// ========================
			r.Route("/state", func(r chi.Router) {
				r.Get("/", h.State)

				r.Get("/filters", h.Filters)
				r.Patch("/filters", h.UpdateFilters)
				r.Delete("/filters", h.ClearFilters)
				r.Get("/filters/options", h.FilterOptions)

				r.Get("/map", h.MapState)
				r.Patch("/map", h.UpdateMap)
				r.Post("/map/layers/{layer}/toggle", h.ToggleLayer)
				r.Put("/map/selection", h.SetSelection)
				r.Put("/map/hover", h.SetHover)

				r.Get("/gallery", h.GalleryState)
				r.Patch("/gallery", h.UpdateGallery)
			})

			r.Post("/refresh", h.Refresh)
			r.Post("/reload", h.Reload)

			// ========================
			// Playback
			// ========================
			r.Route("/timeline", func(r chi.Router) {
				r.Use(h.requireTimeline)
				r.Get("/", h.Timeline)
				r.Post("/play", h.TimelinePlay)
				r.Post("/pause", h.TimelinePause)
				r.Post("/seek", h.TimelineSeek)
				r.Post("/step", h.TimelineStep)
			})
		})
	})

	return r
}
