// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

/*
Package api provides the HTTP REST and WebSocket layer of the review server.

Every view of the review dashboard is backed by a resource here. Reads come
from the in-memory store; writes go through the store's mutators so that
WebSocket subscribers see the same change stream as HTTP callers.

Key Components:

  - Router: chi route table and global middleware stack
  - ChiMiddleware: CORS (go-chi/cors) and rate limiting (go-chi/httprate)
  - Handler: request handlers grouped by resource
  - Response formatting: models.APIResponse envelope with timing metadata

Endpoint Groups:

 1. Health and metrics: /api/health, /metrics
 2. Data (/api/v1): detections, gallery, media, missions
 3. Map layers (/api/v1/map): markers, flight paths, footprints as GeoJSON
 4. Shared view state (/api/v1/state): filters, map viewport, layers,
    selection, hover and gallery settings
 5. Data loading: POST /api/v1/refresh and POST /api/v1/reload
 6. Playback (/api/v1/timeline): status, play, pause, seek, step
 7. WebSocket (/api/v1/ws): store and timeline change stream

Image endpoints (/graphic) return the image bytes directly unless
format=json is requested, in which case the envelope carries a data URL.

Usage Example:

	h := api.NewHandler(api.Deps{
	    Store:     st,
	    Upstream:  svc,
	    Breakers:  svc.Client(),
	    Timeline:  tl,
	    Hub:       hub,
	    WebSocket: websocket.NewHandler(hub, cfg.Security.CORSOrigins),
	    Version:   version,
	})
	mw := api.NewChiMiddlewareFromConfig(cfg.Security)
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: api.NewRouter(h, mw)}
*/
package api
