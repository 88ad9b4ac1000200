// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/uavreview/internal/geo"
	"github.com/tomtom215/uavreview/internal/models"
	"github.com/tomtom215/uavreview/internal/pagination"
	"github.com/tomtom215/uavreview/internal/store"
)

func TestHealth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	var health models.HealthStatus
	resp := decode(t, env.do(t, http.MethodGet, "/api/health", ""), http.StatusOK, &health)

	if resp.Status != models.StatusSuccess {
		t.Errorf("envelope status = %q, want success", resp.Status)
	}
	if resp.Metadata.Timestamp.IsZero() {
		t.Error("metadata timestamp not set")
	}
	if health.Status != "healthy" || health.Version != "test" {
		t.Errorf("health = %+v", health)
	}
	if health.Detections != 4 || health.Media != 2 || health.Missions != 1 {
		t.Errorf("counts = %d/%d/%d, want 4/2/1", health.Detections, health.Media, health.Missions)
	}
	if health.WSClients != 2 {
		t.Errorf("WSClients = %d, want 2", health.WSClients)
	}
	if health.PlaybackState != "stopped" {
		t.Errorf("PlaybackState = %q, want stopped", health.PlaybackState)
	}
}

func TestHealthDegradedWhenBreakerOpen(t *testing.T) {
	t.Parallel()

	st := store.New()
	h := NewHandler(Deps{Store: st, Breakers: fakeBreakers{"media": "open", "localizations": "closed"}})
	router := NewRouter(h, nil)
	env := &testEnv{store: st, router: router}

	var health models.HealthStatus
	decode(t, env.do(t, http.MethodGet, "/api/health", ""), http.StatusOK, &health)
	if health.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", health.Status)
	}
	if health.Breakers["media"] != "open" {
		t.Errorf("Breakers = %v", health.Breakers)
	}
}

func TestDetections(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	var raw []models.Detection
	decode(t, env.do(t, http.MethodGet, "/api/v1/detections", ""), http.StatusOK, &raw)
	if len(raw) != 4 {
		t.Errorf("raw detections = %d, want 4", len(raw))
	}

	var one models.Detection
	decode(t, env.do(t, http.MethodGet, "/api/v1/detections/2", ""), http.StatusOK, &one)
	if one.ID != 2 || one.Attributes.LabelValue() != "Kelp" {
		t.Errorf("detection 2 = %+v", one)
	}

	wantError(t, env.do(t, http.MethodGet, "/api/v1/detections/99", ""), http.StatusNotFound, ErrCodeNotFound)
	wantError(t, env.do(t, http.MethodGet, "/api/v1/detections/abc", ""), http.StatusBadRequest, ErrCodeValidation)
	wantError(t, env.do(t, http.MethodGet, "/api/v1/detections/0", ""), http.StatusBadRequest, ErrCodeValidation)
}

func TestFilteredDetections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantItems  int
		wantPages  int
	}{
		{"unpaginated", "", http.StatusOK, 4, 0},
		{"second page of two", "?page=2&page_size=2", http.StatusOK, 2, 2},
		{"last partial page", "?page=2&page_size=3", http.StatusOK, 1, 2},
		{"page past end is empty", "?page=5&page_size=3", http.StatusOK, 0, 2},
		{"default page size", "?page=1", http.StatusOK, 4, 1},
		{"page zero", "?page=0", http.StatusBadRequest, 0, 0},
		{"page size too large", "?page_size=501", http.StatusBadRequest, 0, 0},
		{"non-numeric page", "?page=two", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			rec := env.do(t, http.MethodGet, "/api/v1/detections/filtered"+tt.query, "")

			if tt.wantStatus != http.StatusOK {
				wantError(t, rec, tt.wantStatus, ErrCodeValidation)
				return
			}
			if tt.query == "" {
				var all []models.Detection
				decode(t, rec, http.StatusOK, &all)
				if len(all) != tt.wantItems {
					t.Errorf("items = %d, want %d", len(all), tt.wantItems)
				}
				return
			}
			var page pagination.Page[models.Detection]
			decode(t, rec, http.StatusOK, &page)
			if len(page.Items) != tt.wantItems || page.TotalPages != tt.wantPages {
				t.Errorf("page = %d items of %d pages, want %d of %d",
					len(page.Items), page.TotalPages, tt.wantItems, tt.wantPages)
			}
		})
	}
}

func TestNearbyDetections(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	var nearby []store.Nearby
	decode(t, env.do(t, http.MethodGet, "/api/v1/detections/nearby?lat=36.8&lon=-121.9&radius_km=5", ""), http.StatusOK, &nearby)
	if len(nearby) != 2 {
		t.Fatalf("nearby = %d, want 2 (ids 1 and 4)", len(nearby))
	}
	if nearby[0].Detection.ID != 1 || nearby[1].Detection.ID != 4 {
		t.Errorf("order = %d,%d, want 1,4", nearby[0].Detection.ID, nearby[1].Detection.ID)
	}
	if nearby[0].DistanceKm > nearby[1].DistanceKm {
		t.Error("results not ordered nearest first")
	}

	var limited []store.Nearby
	decode(t, env.do(t, http.MethodGet, "/api/v1/detections/nearby?lat=36.8&lon=-121.9&radius_km=5&limit=1", ""), http.StatusOK, &limited)
	if len(limited) != 1 {
		t.Errorf("limited = %d, want 1", len(limited))
	}

	for _, q := range []string{
		"?lon=-121.9",
		"?lat=91&lon=0",
		"?lat=0&lon=-181",
		"?lat=0&lon=0&radius_km=0",
		"?lat=north&lon=0",
	} {
		wantError(t, env.do(t, http.MethodGet, "/api/v1/detections/nearby"+q, ""), http.StatusBadRequest, ErrCodeValidation)
	}
}

func TestDetectionGraphic(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/detections/1/graphic", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if rec.Body.String() != "png" {
		t.Errorf("body = %q, want png", rec.Body.String())
	}
	if rec.Header().Get("X-Graphic-Placeholder") != "" {
		t.Error("real graphic flagged as placeholder")
	}

	thumb := env.do(t, http.MethodGet, "/api/v1/detections/1/graphic?thumbnail=true", "")
	if thumb.Body.String() != "thumb" {
		t.Errorf("thumbnail body = %q", thumb.Body.String())
	}

	var payload graphicPayload
	decode(t, env.do(t, http.MethodGet, "/api/v1/detections/1/graphic?format=json", ""), http.StatusOK, &payload)
	if !strings.HasPrefix(payload.DataURL, "data:image/png;base64,") || payload.Size != 3 {
		t.Errorf("payload = %+v", payload)
	}

	wantError(t, env.do(t, http.MethodGet, "/api/v1/detections/1/graphic?format=xml", ""), http.StatusBadRequest, ErrCodeValidation)
}

func TestDetectionGraphicPlaceholder(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.upstream.failGraphic = true

	rec := env.do(t, http.MethodGet, "/api/v1/detections/7/graphic", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Graphic-Placeholder") != "true" {
		t.Error("placeholder not flagged")
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "image/svg+xml") {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
}

func TestGallery(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	var view struct {
		Items      []models.Detection `json:"items"`
		TotalPages int                `json:"totalPages"`
		Window     []int              `json:"window"`
		Counts     map[string]int     `json:"counts"`
	}
	decode(t, env.do(t, http.MethodGet, "/api/v1/gallery", ""), http.StatusOK, &view)
	if len(view.Items) != 4 || view.TotalPages != 1 {
		t.Errorf("gallery = %d items, %d pages", len(view.Items), view.TotalPages)
	}
	if len(view.Window) != 1 || view.Window[0] != 1 {
		t.Errorf("window = %v, want [1]", view.Window)
	}
	if view.Counts["high"] != 2 || view.Counts["medium"] != 1 || view.Counts["low"] != 1 {
		t.Errorf("counts = %v, want high 2 medium 1 low 1", view.Counts)
	}
	// Date descending by default.
	if view.Items[0].ID != 4 {
		t.Errorf("first item = %d, want newest (4)", view.Items[0].ID)
	}
}

func TestMedia(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	var all []models.Media
	decode(t, env.do(t, http.MethodGet, "/api/v1/media", ""), http.StatusOK, &all)
	if len(all) != 2 {
		t.Errorf("media = %d, want 2", len(all))
	}

	var one models.Media
	decode(t, env.do(t, http.MethodGet, "/api/v1/media/1", ""), http.StatusOK, &one)
	if one.Name != "frame-001.jpg" {
		t.Errorf("media 1 name = %q", one.Name)
	}
	wantError(t, env.do(t, http.MethodGet, "/api/v1/media/3", ""), http.StatusNotFound, ErrCodeNotFound)

	var link permalinkPayload
	decode(t, env.do(t, http.MethodGet, "/api/v1/media/42/permalink", ""), http.StatusOK, &link)
	if link.MediaID != 42 || link.URL != "https://tator.test/media/42/image.jpg" {
		t.Errorf("permalink = %+v", link)
	}
}

func TestMediaFootprint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	var fp geo.Footprint
	decode(t, env.do(t, http.MethodGet, "/api/v1/media/1/footprint", ""), http.StatusOK, &fp)
	if fp.MediaID != 1 || len(fp.Ring) != 5 {
		t.Fatalf("footprint = %+v", fp)
	}
	if fp.Center.Lng != -121.9 {
		t.Errorf("center longitude = %v, want corrected -121.9", fp.Center.Lng)
	}
	if fp.Ring[0] != fp.Ring[4] {
		t.Error("ring not closed")
	}
}

func TestMediaGraphic(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/media/1/graphic", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "jpeg" {
		t.Fatalf("status %d body %q", rec.Code, rec.Body.String())
	}
	env.do(t, http.MethodGet, "/api/v1/media/1/graphic?kind=thumbnail", "")

	env.upstream.mu.Lock()
	paths := append([]string(nil), env.upstream.mediaPaths...)
	env.upstream.mu.Unlock()
	if len(paths) != 2 || paths[0] != "/media/1/frame-001.jpg" || paths[1] != "/media/1/thumb.jpg" {
		t.Errorf("fetched paths = %v", paths)
	}

	wantError(t, env.do(t, http.MethodGet, "/api/v1/media/2/graphic", ""), http.StatusNotFound, ErrCodeNotFound)
}

func TestMissions(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	var missions []models.Mission
	decode(t, env.do(t, http.MethodGet, "/api/v1/missions", ""), http.StatusOK, &missions)
	if len(missions) != 1 || missions[0].Mnemonic != "MBTS-2024-01" {
		t.Errorf("missions = %+v", missions)
	}
}

type featureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		Type     string `json:"type"`
		ID       int64  `json:"id"`
		Geometry struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]interface{} `json:"properties"`
	} `json:"features"`
}

func TestMapLayers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	var markers featureCollection
	decode(t, env.do(t, http.MethodGet, "/api/v1/map/markers", ""), http.StatusOK, &markers)
	if markers.Type != "FeatureCollection" || len(markers.Features) != 4 {
		t.Fatalf("markers = %s with %d features", markers.Type, len(markers.Features))
	}
	for _, f := range markers.Features {
		if f.Geometry.Type != "Point" {
			t.Errorf("marker %d geometry = %s", f.ID, f.Geometry.Type)
		}
		if f.ID == 3 && f.Properties["fallback"] != true {
			t.Error("unpositioned detection 3 should use the fallback position")
		}
	}

	var paths featureCollection
	decode(t, env.do(t, http.MethodGet, "/api/v1/map/flightpaths", ""), http.StatusOK, &paths)
	if len(paths.Features) != 1 || paths.Features[0].Geometry.Type != "LineString" {
		t.Errorf("flight paths = %+v", paths)
	}

	var footprints featureCollection
	decode(t, env.do(t, http.MethodGet, "/api/v1/map/footprints", ""), http.StatusOK, &footprints)
	if len(footprints.Features) != 2 || footprints.Features[0].Geometry.Type != "Polygon" {
		t.Errorf("footprints = %+v", footprints)
	}
}

func TestMarkersFollowFilters(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	decode(t, env.do(t, http.MethodPatch, "/api/v1/state/filters", `{"verifiedOnly":true}`), http.StatusOK, nil)

	var markers featureCollection
	decode(t, env.do(t, http.MethodGet, "/api/v1/map/markers", ""), http.StatusOK, &markers)
	if len(markers.Features) != 1 || markers.Features[0].ID != 1 {
		t.Errorf("markers after verifiedOnly = %+v", markers.Features)
	}
}

func TestRoutingErrors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	wantError(t, env.do(t, http.MethodGet, "/api/v1/nothing-here", ""), http.StatusNotFound, ErrCodeNotFound)
	wantError(t, env.do(t, http.MethodPost, "/api/v1/missions", ""), http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
}

func TestWebSocketNotConfigured(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	wantError(t, env.do(t, http.MethodGet, "/api/v1/ws", ""), http.StatusServiceUnavailable, ErrCodeServiceUnavailable)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.do(t, http.MethodGet, "/api/v1/missions", "")
	rec := env.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `uavreview_api_requests_total{endpoint="/api/v1/missions"`) {
		t.Error("missions request not labelled by route pattern in /metrics output")
	}
}
