// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package tator

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/tomtom215/uavreview/internal/config"
)

const testHost = "https://tator.test"

func testConfig() config.TatorConfig {
	return config.TatorConfig{
		Host:       testHost,
		Token:      "tok",
		BoxType:    3,
		Project:    4,
		Timeout:    time.Second,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}
}

// newMockedClient returns a client whose transport is a fresh httpmock transport.
func newMockedClient(t *testing.T, cfg config.TatorConfig) (*Client, *httpmock.MockTransport) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	return NewClient(cfg, WithHTTPClient(&http.Client{Transport: mt})), mt
}

const localizationsJSON = `[
	{"id": 10, "x": 1, "y": 2, "width": 3, "height": 4, "media": 7,
	 "attributes": {"Label": "Whale", "score": 0.91, "verified": true},
	 "created_datetime": "2024-01-15T10:30:00Z", "elemental_id": "e-10", "version": 2}
]`

const mediasJSON = `[
	{"id": 7, "name": "frame.JPG", "width": 5304, "height": 7952,
	 "attributes": {"date": "2025-06-11T00:46:38+00:00", "latitude": 36.9, "longitude": 121.9},
	 "media_files": {"thumbnail": [{"mime": "image/jpeg", "path": "7/thumb.jpg", "size": 10, "resolution": [171, 256]}]}}
]`

func TestLocalizationsRequest(t *testing.T) {
	t.Parallel()

	c, mt := newMockedClient(t, testConfig())
	mt.RegisterResponderWithQuery(http.MethodGet, testHost+"/rest/Localizations/4",
		"type=3&merge=1&show_deleted=0&show_all_marks=0",
		func(req *http.Request) (*http.Response, error) {
			if got := req.Header.Get("Authorization"); got != "Token tok" {
				t.Errorf("Authorization = %q, want Token tok", got)
			}
			if got := req.Header.Get("Accept"); got != "application/json" {
				t.Errorf("Accept = %q", got)
			}
			return httpmock.NewStringResponse(http.StatusOK, localizationsJSON), nil
		})

	raw, err := c.Localizations(context.Background(), 4, 3)
	if err != nil {
		t.Fatalf("Localizations() error = %v", err)
	}
	if len(raw) != 1 || raw[0].ID != 10 || raw[0].Media == nil || *raw[0].Media != 7 {
		t.Errorf("Localizations() = %+v", raw)
	}
	if raw[0].Attributes["Label"] != "Whale" {
		t.Errorf("Label = %v", raw[0].Attributes["Label"])
	}
}

func TestNoTokenNoAuthHeader(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Token = ""
	c, mt := newMockedClient(t, cfg)
	mt.RegisterResponder(http.MethodGet, testHost+"/rest/Media/5",
		func(req *http.Request) (*http.Response, error) {
			if _, ok := req.Header["Authorization"]; ok {
				t.Error("Authorization header sent without a token")
			}
			return httpmock.NewStringResponse(http.StatusOK, `{"id": 5}`), nil
		})

	if _, err := c.Media(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
}

func TestRetriesServerErrors(t *testing.T) {
	t.Parallel()

	c, mt := newMockedClient(t, testConfig())
	mt.RegisterResponder(http.MethodGet, testHost+"/rest/Medias/4",
		httpmock.NewStringResponder(http.StatusBadGateway, "upstream down").
			Then(httpmock.NewStringResponder(http.StatusTooManyRequests, "")).
			Then(httpmock.NewStringResponder(http.StatusOK, mediasJSON)))

	raw, err := c.Medias(context.Background(), 4)
	if err != nil {
		t.Fatalf("Medias() error = %v", err)
	}
	if len(raw) != 1 {
		t.Errorf("len = %d, want 1", len(raw))
	}
	if n := mt.GetTotalCallCount(); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestRetriesExhausted(t *testing.T) {
	t.Parallel()

	c, mt := newMockedClient(t, testConfig())
	mt.RegisterResponder(http.MethodGet, testHost+"/rest/Medias/4",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, ""))

	_, err := c.Medias(context.Background(), 4)
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("error = %v, want ErrUnexpectedStatus", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
		t.Errorf("StatusError = %+v", se)
	}
	if n := mt.GetTotalCallCount(); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestClientErrorNotRetried(t *testing.T) {
	t.Parallel()

	c, mt := newMockedClient(t, testConfig())
	mt.RegisterResponder(http.MethodGet, testHost+"/rest/Media/9",
		httpmock.NewStringResponder(http.StatusNotFound, `{"message": "not found"}`))

	_, err := c.Media(context.Background(), 9)
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("error = %v, want ErrUnexpectedStatus", err)
	}
	if n := mt.GetTotalCallCount(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestTransportErrorRetried(t *testing.T) {
	t.Parallel()

	c, mt := newMockedClient(t, testConfig())
	mt.RegisterResponder(http.MethodGet, testHost+"/rest/Media/1",
		httpmock.NewErrorResponder(errors.New("connection reset")).
			Then(httpmock.NewStringResponder(http.StatusOK, `{"id": 1}`)))

	m, err := c.Media(context.Background(), 1)
	if err != nil {
		t.Fatalf("Media() error = %v", err)
	}
	if m.ID != 1 {
		t.Errorf("ID = %d", m.ID)
	}
}

func TestAttemptTimeout(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond
	cfg.MaxRetries = 0
	c, mt := newMockedClient(t, cfg)
	mt.RegisterResponder(http.MethodGet, testHost+"/rest/Media/1",
		httpmock.NewStringResponder(http.StatusOK, `{"id": 1}`).Delay(time.Second))

	start := time.Now()
	_, err := c.Media(context.Background(), 1)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("request took %v, attempt timeout not applied", elapsed)
	}
}

func TestDecodeError(t *testing.T) {
	t.Parallel()

	c, mt := newMockedClient(t, testConfig())
	mt.RegisterResponder(http.MethodGet, testHost+"/rest/Medias/4",
		httpmock.NewStringResponder(http.StatusOK, `{not json`))

	if _, err := c.Medias(context.Background(), 4); err == nil {
		t.Error("expected decode error")
	}
}

func TestPermalinkFollowsRedirect(t *testing.T) {
	t.Parallel()

	c, mt := newMockedClient(t, testConfig())
	redirect := httpmock.NewStringResponse(http.StatusFound, "")
	redirect.Header.Set("Location", "https://cdn.test/media/12/image_720.jpg")
	mt.RegisterResponderWithQuery(http.MethodGet, testHost+"/rest/Permalink/12",
		"element=image&quality=720", httpmock.ResponderFromResponse(redirect))
	mt.RegisterResponder(http.MethodGet, "https://cdn.test/media/12/image_720.jpg",
		httpmock.NewBytesResponder(http.StatusOK, []byte{0xff, 0xd8}))

	link, err := c.Permalink(context.Background(), 12)
	if err != nil {
		t.Fatalf("Permalink() error = %v", err)
	}
	if link != "https://cdn.test/media/12/image_720.jpg" {
		t.Errorf("Permalink() = %q", link)
	}
}

func TestGraphicURLs(t *testing.T) {
	t.Parallel()

	c, mt := newMockedClient(t, testConfig())
	mt.RegisterResponder(http.MethodGet, testHost+"/rest/LocalizationGraphic/3",
		func(req *http.Request) (*http.Response, error) {
			if got := req.Header.Get("Accept"); got != "image/*" {
				t.Errorf("Accept = %q, want image/*", got)
			}
			resp := httpmock.NewBytesResponse(http.StatusOK, []byte("png"))
			resp.Header.Set("Content-Type", "image/png")
			return resp, nil
		})
	mt.RegisterResponder(http.MethodGet, testHost+"/7/4/1/thumb.jpg",
		httpmock.NewBytesResponder(http.StatusOK, []byte("jpg")))
	mt.RegisterResponder(http.MethodGet, "https://bucket.test/a.jpg",
		httpmock.NewBytesResponder(http.StatusOK, []byte("abs")))

	g, err := c.LocalizationGraphic(context.Background(), 3)
	if err != nil || string(g.Data) != "png" || g.ContentType != "image/png" {
		t.Errorf("LocalizationGraphic() = %+v, %v", g, err)
	}
	if g, err := c.MediaGraphic(context.Background(), "/7/4/1/thumb.jpg"); err != nil || string(g.Data) != "jpg" {
		t.Errorf("MediaGraphic(relative) = %q, %v", g.Data, err)
	}
	if g, err := c.MediaGraphic(context.Background(), "https://bucket.test/a.jpg"); err != nil || string(g.Data) != "abs" {
		t.Errorf("MediaGraphic(absolute) = %q, %v", g.Data, err)
	}
}

func TestEndpointLabel(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/Localizations/4?type=3": "Localizations",
		"/Medias/4?":              "Medias",
		"/Media/12":               "Media",
	}
	for in, want := range tests {
		if got := endpointLabel(in); got != want {
			t.Errorf("endpointLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUpstreamHealthy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"canceled", context.Canceled, true},
		{"not found", &StatusError{Code: 404}, true},
		{"rate limited", &StatusError{Code: 429}, false},
		{"server error", &StatusError{Code: 500}, false},
		{"transport", errors.New("dial tcp: refused"), false},
	}
	for _, tt := range tests {
		if got := upstreamHealthy(tt.err); got != tt.want {
			t.Errorf("%s: upstreamHealthy() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBreakerStates(t *testing.T) {
	t.Parallel()

	c, _ := newMockedClient(t, testConfig())
	states := c.BreakerStates()
	for _, family := range []string{familyLocalizations, familyMedia, familyGraphics, familyPermalink} {
		if states[family] != "closed" {
			t.Errorf("breaker %s = %q, want closed", family, states[family])
		}
	}
}
