// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

// Package tator retrieves detections, media, missions and graphics from the
// Tator annotation service.
//
// Client surfaces upstream failures as errors. Service wraps a Client for the
// rest of the server: every method always returns usable data, substituting
// the fallback dataset (or an SVG placeholder for graphics) when the upstream
// call fails. Service implements store.Source.
package tator

import (
	"context"
	"net/http"
	"sync"

	"github.com/tomtom215/uavreview/internal/config"
	"github.com/tomtom215/uavreview/internal/logging"
	"github.com/tomtom215/uavreview/internal/metrics"
	"github.com/tomtom215/uavreview/internal/models"
	"github.com/tomtom215/uavreview/internal/normalize"
)

// Service is the fallback-converting facade over Client.
type Service struct {
	client       *Client
	graphics     *Graphics
	project      int
	boxType      int
	missionsPath string
	missionsHTTP *http.Client
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMissionsHTTPClient sets the HTTP client used for a remote missions file.
func WithMissionsHTTPClient(hc *http.Client) ServiceOption {
	return func(s *Service) { s.missionsHTTP = hc }
}

// WithGraphics replaces the graphics pipeline.
func WithGraphics(g *Graphics) ServiceOption {
	return func(s *Service) { s.graphics = g }
}

// NewService creates a service over client.
func NewService(client *Client, tc config.TatorConfig, gc config.GraphicsConfig, opts ...ServiceOption) *Service {
	s := &Service{
		client:       client,
		project:      tc.Project,
		boxType:      tc.BoxType,
		missionsPath: tc.MissionsPath,
		missionsHTTP: client.http,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.graphics == nil {
		s.graphics = NewGraphics(client, gc)
	}
	return s
}

// Client returns the underlying REST client.
func (s *Service) Client() *Client { return s.client }

// Graphics returns the graphics pipeline.
func (s *Service) Graphics() *Graphics { return s.graphics }

func (s *Service) fallback(ctx context.Context, what string, err error) {
	metrics.RecordFallback(what)
	logging.Ctx(ctx).Warn().Err(err).Str("resource", what).Msg("Tator request failed, using fallback data")
}

// Detections fetches localizations and media concurrently and joins each
// localization with its media's capture attributes. If either fetch fails
// the fallback detections are returned.
func (s *Service) Detections(ctx context.Context) []models.Detection {
	var (
		wg       sync.WaitGroup
		raw      []models.RawDetection
		rawMedia []models.RawMedia
		errDet   error
		errMedia error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		raw, errDet = s.client.Localizations(ctx, s.project, s.boxType)
	}()
	go func() {
		defer wg.Done()
		rawMedia, errMedia = s.client.Medias(ctx, s.project)
	}()
	wg.Wait()

	if err := firstErr(errDet, errMedia); err != nil {
		s.fallback(ctx, "detections", err)
		return MockDetections()
	}
	return normalize.Detections(raw, normalize.MediaList(rawMedia))
}

// Media fetches the project's media list.
func (s *Service) Media(ctx context.Context) []models.Media {
	raw, err := s.client.Medias(ctx, s.project)
	if err != nil {
		s.fallback(ctx, "media", err)
		return MockMedia()
	}
	return normalize.MediaList(raw)
}

// MediaByID fetches one media record.
func (s *Service) MediaByID(ctx context.Context, id int64) models.Media {
	raw, err := s.client.Media(ctx, id)
	if err != nil {
		s.fallback(ctx, "media_by_id", err)
		return MockMediaByID(id)
	}
	return normalize.Media(raw)
}

// Missions loads the static mission list.
func (s *Service) Missions(ctx context.Context) []models.Mission {
	missions, err := LoadMissions(ctx, s.missionsPath, s.missionsHTTP)
	if err != nil {
		s.fallback(ctx, "missions", err)
		return MockMissions()
	}
	return missions
}

// Permalink resolves a media item's image permalink.
func (s *Service) Permalink(ctx context.Context, mediaID int64) string {
	link, err := s.client.Permalink(ctx, mediaID)
	if err != nil {
		s.fallback(ctx, "permalink", err)
		return MockPermalink(mediaID)
	}
	return link
}

// DetectionGraphic returns a localization's graphic or its placeholder.
func (s *Service) DetectionGraphic(ctx context.Context, id int64, thumbnail bool) Graphic {
	return s.graphics.Detection(ctx, id, thumbnail)
}

// MediaGraphic returns the graphic at a media file path or its placeholder.
func (s *Service) MediaGraphic(ctx context.Context, path string, thumbnail bool) Graphic {
	return s.graphics.Media(ctx, path, thumbnail)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
