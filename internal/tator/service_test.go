// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package tator

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"

	"github.com/tomtom215/uavreview/internal/config"
	"github.com/tomtom215/uavreview/internal/store"
)

var _ store.Source = (*Service)(nil)

func newMockedService(t *testing.T, cfg config.TatorConfig) (*Service, *httpmock.MockTransport) {
	t.Helper()
	c, mt := newMockedClient(t, cfg)
	return NewService(c, cfg, config.GraphicsConfig{}), mt
}

func TestServiceDetectionsJoinsMedia(t *testing.T) {
	t.Parallel()

	s, mt := newMockedService(t, testConfig())
	mt.RegisterResponder(http.MethodGet, testHost+"/rest/Localizations/4",
		httpmock.NewStringResponder(http.StatusOK, localizationsJSON))
	mt.RegisterResponder(http.MethodGet, testHost+"/rest/Medias/4",
		httpmock.NewStringResponder(http.StatusOK, mediasJSON))

	ds := s.Detections(context.Background())
	if len(ds) != 1 {
		t.Fatalf("len = %d, want 1", len(ds))
	}
	d := ds[0]
	if d.MediaAttributes == nil || d.MediaAttributes.Latitude == nil || *d.MediaAttributes.Latitude != 36.9 {
		t.Errorf("media attributes not joined: %+v", d.MediaAttributes)
	}
	if *d.MediaAttributes.Longitude != 121.9 {
		t.Errorf("longitude = %v, want raw 121.9", *d.MediaAttributes.Longitude)
	}
	if d.Attributes.LabelValue() != "Whale" || !d.Attributes.IsVerified() {
		t.Errorf("attributes = %+v", d.Attributes)
	}
}

func TestServiceDetectionsFallback(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MaxRetries = 0
	s, mt := newMockedService(t, cfg)
	mt.RegisterResponder(http.MethodGet, testHost+"/rest/Localizations/4",
		httpmock.NewStringResponder(http.StatusOK, localizationsJSON))
	mt.RegisterResponder(http.MethodGet, testHost+"/rest/Medias/4",
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	ds := s.Detections(context.Background())
	if len(ds) != 3 {
		t.Fatalf("fallback len = %d, want 3", len(ds))
	}
	labels := []string{ds[0].Attributes.LabelValue(), ds[1].Attributes.LabelValue(), ds[2].Attributes.LabelValue()}
	if labels[0] != "Bird" || labels[1] != "Kelp" || labels[2] != "Whale" {
		t.Errorf("labels = %v", labels)
	}
	// Only media 1 exists in the fallback set.
	if ds[0].MediaAttributes == nil || ds[1].MediaAttributes != nil {
		t.Errorf("fallback join: %v / %v", ds[0].MediaAttributes, ds[1].MediaAttributes)
	}
}

func TestServiceMediaFallbacks(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MaxRetries = 0
	s, mt := newMockedService(t, cfg)
	mt.RegisterNoResponder(httpmock.NewStringResponder(http.StatusBadGateway, ""))

	media := s.Media(context.Background())
	if len(media) != 1 || media[0].MediaAttributes.Make != "SONY" {
		t.Errorf("Media() fallback = %+v", media)
	}

	m := s.MediaByID(context.Background(), 42)
	if m.ID != 42 || m.SourceURL != "https://mbari-uav-data.svx.axds.co/media/42" {
		t.Errorf("MediaByID() fallback = %+v", m)
	}
	if got := m.MediaFiles["thumbnail"][0].Path; got != "1/4/42/thumb.jpg" {
		t.Errorf("thumbnail path = %q", got)
	}

	if got := s.Permalink(context.Background(), 42); got != "https://mbari-uav-data.svx.axds.co/media/42/permalink" {
		t.Errorf("Permalink() fallback = %q", got)
	}

	g := s.DetectionGraphic(context.Background(), 42, false)
	if !g.Placeholder || g.ContentType != "image/svg+xml" {
		t.Errorf("DetectionGraphic() = %+v", g)
	}
}

func TestServiceMissionsFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missions.json")
	body := `[
		{"mneumonic": "TRINITY-2-20250404", "start_datetime": "2024-01-15T08:00:00Z", "end_datetime": "2024-01-15T16:00:00Z"},
		{"name": "legacy", "start_date": "2024-02-01", "end_date": "2024-02-02"},
		{"id": 17},
		{}
	]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.MissionsPath = path
	s, _ := newMockedService(t, cfg)

	missions := s.Missions(context.Background())
	if len(missions) != 3 {
		t.Fatalf("len = %d, want 3", len(missions))
	}
	if missions[1].Mnemonic != "legacy" || !missions[1].HasWindow() {
		t.Errorf("legacy mission = %+v", missions[1])
	}
	if missions[2].Mnemonic != "17" || missions[2].HasWindow() {
		t.Errorf("id-only mission = %+v", missions[2])
	}
}

func TestServiceMissionsFromURL(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MissionsPath = "https://static.test/missions.json"
	s, mt := newMockedService(t, cfg)
	mt.RegisterResponder(http.MethodGet, cfg.MissionsPath,
		httpmock.NewStringResponder(http.StatusOK, `[{"mneumonic": "M1"}]`))

	missions := s.Missions(context.Background())
	if len(missions) != 1 || missions[0].Mnemonic != "M1" {
		t.Errorf("Missions() = %+v", missions)
	}
}

func TestServiceMissionsFallback(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MissionsPath = filepath.Join(t.TempDir(), "missing.json")
	s, _ := newMockedService(t, cfg)

	missions := s.Missions(context.Background())
	if len(missions) != 2 || missions[0].Mnemonic != "TRINITY-2-20250404" {
		t.Errorf("Missions() fallback = %+v", missions)
	}
}
