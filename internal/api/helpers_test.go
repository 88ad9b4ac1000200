// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/uavreview/internal/logging"
	"github.com/tomtom215/uavreview/internal/models"
	"github.com/tomtom215/uavreview/internal/store"
	"github.com/tomtom215/uavreview/internal/tator"
	"github.com/tomtom215/uavreview/internal/timeline"
)

func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

func ptr[T any](v T) *T { return &v }

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func detection(id int64, label string, score float64, created string) models.Detection {
	return models.Detection{
		ID:              id,
		CreatedDatetime: ptr(mustTime(created)),
		Attributes: models.DetectionAttributes{
			Label: ptr(label),
			Score: ptr(score),
		},
	}
}

func positioned(d models.Detection, lat, lon float64) models.Detection {
	d.MediaAttributes = &models.MediaAttributes{Latitude: ptr(lat), Longitude: ptr(lon)}
	return d
}

// fixtureDetections: two verified-or-high birds near the default map
// center, kelp farther north and an unpositioned low-confidence bird.
// Longitudes are stored positive as the camera records them.
func fixtureDetections() []models.Detection {
	d1 := positioned(detection(1, "Bird", 0.9, "2024-01-15T10:00:00Z"), 36.8, 121.9)
	d1.Attributes.Cluster = ptr("C-1")
	d1.Attributes.Verified = ptr(true)

	d2 := positioned(detection(2, "Kelp", 0.6, "2024-01-15T12:00:00Z"), 36.9, 121.8)
	d2.Attributes.Cluster = ptr("C-2")

	d3 := detection(3, "Bird", 0.3, "2024-01-16T09:00:00Z")

	d4 := positioned(detection(4, "Whale", 0.85, "2024-01-16T10:00:00Z"), 36.81, 121.91)
	d4.Attributes.Verified = ptr(false)

	return []models.Detection{d1, d2, d3, d4}
}

func fixtureMedia() []models.Media {
	return []models.Media{
		{
			ID:   1,
			Name: "frame-001.jpg",
			MediaAttributes: models.MediaAttributes{
				Date:      ptr(mustTime("2024-01-15T10:00:00Z")),
				Latitude:  ptr(36.8),
				Longitude: ptr(121.9),
			},
			MediaFiles: models.MediaFiles{
				"image":     {{Path: "/media/1/frame-001.jpg", Mime: "image/jpeg"}},
				"thumbnail": {{Path: "/media/1/thumb.jpg", Mime: "image/jpeg"}},
			},
		},
		{
			ID:   2,
			Name: "frame-002.jpg",
			MediaAttributes: models.MediaAttributes{
				Date:      ptr(mustTime("2024-01-15T10:30:00Z")),
				Latitude:  ptr(36.81),
				Longitude: ptr(121.92),
			},
		},
	}
}

func fixtureMissions() []models.Mission {
	return []models.Mission{{
		Mnemonic: "MBTS-2024-01",
		Start:    ptr(mustTime("2024-01-15T00:00:00Z")),
		End:      ptr(mustTime("2024-01-16T23:59:00Z")),
	}}
}

type fakeUpstream struct {
	mu          sync.Mutex
	mediaPaths  []string
	failGraphic bool
}

func (f *fakeUpstream) Permalink(_ context.Context, mediaID int64) string {
	return fmt.Sprintf("https://tator.test/media/%d/image.jpg", mediaID)
}

func (f *fakeUpstream) DetectionGraphic(_ context.Context, id int64, thumbnail bool) tator.Graphic {
	if f.failGraphic {
		return tator.DetectionPlaceholder(id)
	}
	body := "png"
	if thumbnail {
		body = "thumb"
	}
	return tator.Graphic{Data: []byte(body), ContentType: "image/png"}
}

func (f *fakeUpstream) MediaGraphic(_ context.Context, path string, _ bool) tator.Graphic {
	f.mu.Lock()
	f.mediaPaths = append(f.mediaPaths, path)
	f.mu.Unlock()
	return tator.Graphic{Data: []byte("jpeg"), ContentType: "image/jpeg"}
}

type fakeBreakers map[string]string

func (f fakeBreakers) BreakerStates() map[string]string { return f }

type fakeCounter int

func (f fakeCounter) GetClientCount() int { return int(f) }

type fakeSource struct {
	detections []models.Detection
	media      []models.Media
	missions   []models.Mission
}

func (f *fakeSource) Detections(context.Context) []models.Detection { return f.detections }
func (f *fakeSource) Media(context.Context) []models.Media          { return f.media }
func (f *fakeSource) Missions(context.Context) []models.Mission     { return f.missions }

type testEnv struct {
	store    *store.Store
	timeline *timeline.Controller
	upstream *fakeUpstream
	router   http.Handler
}

// newTestEnv builds a router over a populated store. The timeline interval
// is long enough that playback never ticks during a test.
func newTestEnv(t *testing.T, opts ...store.Option) *testEnv {
	t.Helper()

	st := store.New(opts...)
	st.SetDetections(fixtureDetections())
	st.SetMedia(fixtureMedia())
	st.SetMissions(fixtureMissions())

	tl := timeline.New(st, timeline.WithInterval(time.Hour))
	t.Cleanup(tl.Close)

	up := &fakeUpstream{}
	h := NewHandler(Deps{
		Store:    st,
		Upstream: up,
		Breakers: fakeBreakers{"localizations": "closed"},
		Timeline: tl,
		Hub:      fakeCounter(2),
		Version:  "test",
	})
	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitDisabled:  true,
	})
	return &testEnv{store: st, timeline: tl, upstream: up, router: NewRouter(h, mw)}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

// decode parses the envelope and unmarshals data into out when non-nil.
func decode(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, out interface{}) envelope {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, wantStatus, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope %q: %v", rec.Body.String(), err)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("invalid data %s: %v", env.Data, err)
		}
	}
	return env
}

// wantError asserts an error envelope with the given code.
func wantError(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, code string) {
	t.Helper()
	env := decode(t, rec, wantStatus, nil)
	if env.Status != models.StatusError {
		t.Errorf("envelope status = %q, want error", env.Status)
	}
	if env.Error == nil || env.Error.Code != code {
		t.Errorf("error = %+v, want code %s", env.Error, code)
	}
}
