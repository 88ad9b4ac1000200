// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

/*
client.go - Tator REST Client

The Client talks to the Tator annotation service and surfaces every failure
to the caller. Fallback data is the Service's concern, not the Client's.

Request handling:
  - URL: {host}/rest{endpoint} for JSON, {host}/{path} for graphics
  - Auth: "Authorization: Token <token>" when a token is configured
  - Timeout: each attempt runs under its own context.WithTimeout
  - Retries: transport errors, HTTP 429 and 5xx are retried up to
    max_retries times with exponential backoff (retry_delay, 2x, 4x, ...)
  - Circuit breaker: one per endpoint family, see breaker.go
  - Decoding: goccy/go-json
*/
package tator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/uavreview/internal/config"
	"github.com/tomtom215/uavreview/internal/logging"
	"github.com/tomtom215/uavreview/internal/metrics"
	"github.com/tomtom215/uavreview/internal/models"
)

// ErrUnexpectedStatus is wrapped by every StatusError.
var ErrUnexpectedStatus = errors.New("tator: unexpected HTTP status")

const (
	// maxBodySize bounds JSON and graphic bodies.
	maxBodySize = 64 << 20
	// maxErrorBodySize bounds the body excerpt kept in a StatusError.
	maxErrorBodySize = 4 << 10
	maxRedirects     = 10
)

// Endpoint families. Each has its own circuit breaker and metrics label.
const (
	familyLocalizations = "localizations"
	familyMedia         = "media"
	familyGraphics      = "graphics"
	familyPermalink     = "permalink"
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tator %s: HTTP %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("tator %s: HTTP %d: %s", e.Endpoint, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// retryable reports whether the status is worth another attempt.
func (e *StatusError) retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Graphic is an image body with its content type.
type Graphic struct {
	Data        []byte `json:"-"`
	ContentType string `json:"contentType"`
	// Placeholder marks a generated stand-in for a graphic that could not be fetched.
	Placeholder bool `json:"placeholder"`
}

// Client is a Tator REST client. It is safe for concurrent use.
type Client struct {
	host       string
	token      string
	http       *http.Client
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	breakers   map[string]*gobreaker.CircuitBreaker[*response]
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a client from the tator config section.
func NewClient(cfg config.TatorConfig, opts ...ClientOption) *Client {
	c := &Client{
		host:       strings.TrimRight(cfg.Host, "/"),
		token:      cfg.Token,
		http:       &http.Client{},
		timeout:    cfg.Timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		retryDelay: cfg.RetryDelay,
		breakers:   make(map[string]*gobreaker.CircuitBreaker[*response]),
	}
	if c.timeout <= 0 {
		c.timeout = 3 * time.Second
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, family := range []string{familyLocalizations, familyMedia, familyGraphics, familyPermalink} {
		c.breakers[family] = newBreaker("tator-" + family)
	}
	return c
}

// Host returns the configured base URL.
func (c *Client) Host() string { return c.host }

type request struct {
	family   string
	endpoint string
	url      string
	accept   string
	// discard skips reading the body; only the final URL is wanted.
	discard bool
}

type response struct {
	body        []byte
	contentType string
	// url is the final URL after redirects.
	url string
}

// Localizations lists the project's localizations of the given box type.
func (c *Client) Localizations(ctx context.Context, project, boxType int) ([]models.RawDetection, error) {
	var out []models.RawDetection
	endpoint := fmt.Sprintf("/Localizations/%d?type=%d&merge=1&show_deleted=0&show_all_marks=0", project, boxType)
	if err := c.getJSON(ctx, familyLocalizations, endpoint, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Medias lists the project's media.
func (c *Client) Medias(ctx context.Context, project int) ([]models.RawMedia, error) {
	var out []models.RawMedia
	if err := c.getJSON(ctx, familyMedia, fmt.Sprintf("/Medias/%d?", project), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Media fetches a single media record.
func (c *Client) Media(ctx context.Context, id int64) (models.RawMedia, error) {
	var out models.RawMedia
	if err := c.getJSON(ctx, familyMedia, fmt.Sprintf("/Media/%d", id), &out); err != nil {
		return models.RawMedia{}, err
	}
	return out, nil
}

// LocalizationGraphic fetches the rendered crop of a localization.
func (c *Client) LocalizationGraphic(ctx context.Context, id int64) (Graphic, error) {
	return c.graphic(ctx, fmt.Sprintf("rest/LocalizationGraphic/%d?", id))
}

// MediaGraphic fetches a media file by its stored path. Absolute http(s)
// URLs are fetched as given; other paths are resolved against the host.
func (c *Client) MediaGraphic(ctx context.Context, path string) (Graphic, error) {
	return c.graphic(ctx, path)
}

// Permalink resolves the 720p image permalink of a media item and returns
// the URL the service finally redirects to.
func (c *Client) Permalink(ctx context.Context, mediaID int64) (string, error) {
	resp, err := c.do(ctx, request{
		family:   familyPermalink,
		endpoint: "Permalink",
		url:      fmt.Sprintf("%s/rest/Permalink/%d?element=image&quality=720", c.host, mediaID),
		accept:   "*/*",
		discard:  true,
	})
	if err != nil {
		return "", err
	}
	return resp.url, nil
}

func (c *Client) graphic(ctx context.Context, path string) (Graphic, error) {
	u := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		u = c.host + "/" + strings.TrimLeft(path, "/")
	}
	resp, err := c.do(ctx, request{
		family:   familyGraphics,
		endpoint: "Graphic",
		url:      u,
		accept:   "image/*",
	})
	if err != nil {
		return Graphic{}, err
	}
	return Graphic{Data: resp.body, ContentType: resp.contentType}, nil
}

func (c *Client) getJSON(ctx context.Context, family, endpoint string, out any) error {
	resp, err := c.do(ctx, request{
		family:   family,
		endpoint: endpointLabel(endpoint),
		url:      c.host + "/rest" + endpoint,
		accept:   "application/json",
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpointLabel(endpoint), err)
	}
	return nil
}

// endpointLabel reduces "/Localizations/4?type=3" to "Localizations".
func endpointLabel(endpoint string) string {
	e := strings.TrimPrefix(endpoint, "/")
	if i := strings.IndexAny(e, "/?"); i >= 0 {
		e = e[:i]
	}
	return e
}

// do runs a request through the family's circuit breaker with retries.
func (c *Client) do(ctx context.Context, r request) (*response, error) {
	start := time.Now()
	resp, err := c.execute(r.family, func() (*response, error) {
		return c.fetch(ctx, r)
	})
	metrics.RecordUpstream(r.endpoint, time.Since(start), err)
	return resp, err
}

func (c *Client) fetch(ctx context.Context, r request) (*response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<uint(attempt-1))
			metrics.RecordUpstreamRetry(r.endpoint)
			logging.Ctx(ctx).Debug().
				Str("endpoint", r.endpoint).
				Int("attempt", attempt).
				Dur("delay", delay).
				Err(lastErr).
				Msg("Retrying Tator request")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, retry, err := c.attempt(ctx, r)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
	}
	return nil, fmt.Errorf("tator %s failed after %d attempts: %w", r.endpoint, c.maxRetries+1, lastErr)
}

// attempt performs one bounded request. retry reports whether a failure is
// transient and the caller's context is still live.
func (c *Client) attempt(ctx context.Context, r request) (resp *response, retry bool, err error) {
	actx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	final := r.url
	hc := *c.http
	hc.CheckRedirect = func(next *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		final = next.URL.String()
		return nil
	}

	req, err := http.NewRequestWithContext(actx, http.MethodGet, r.url, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("build %s request: %w", r.endpoint, err)
	}
	req.Header.Set("Accept", r.accept)
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	res, err := hc.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("tator %s: %w", r.endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodySize))
		se := &StatusError{Endpoint: r.endpoint, Code: res.StatusCode, Body: strings.TrimSpace(string(body))}
		return nil, se.retryable() && ctx.Err() == nil, se
	}

	out := &response{contentType: res.Header.Get("Content-Type"), url: final}
	if r.discard {
		return out, false, nil
	}
	out.body, err = io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("read %s body: %w", r.endpoint, err)
	}
	return out, false, nil
}
