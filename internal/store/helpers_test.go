// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package store

import (
	"context"
	"time"

	"github.com/tomtom215/uavreview/internal/models"
)

func ptr[T any](v T) *T { return &v }

type detOpt func(*models.Detection)

func withLabel(l string) detOpt {
	return func(d *models.Detection) { d.Attributes.Label = ptr(l) }
}

func withScore(s float64) detOpt {
	return func(d *models.Detection) { d.Attributes.Score = ptr(s) }
}

func withCluster(c string) detOpt {
	return func(d *models.Detection) { d.Attributes.Cluster = ptr(c) }
}

func withVerified(v bool) detOpt {
	return func(d *models.Detection) { d.Attributes.Verified = ptr(v) }
}

func withCreated(t time.Time) detOpt {
	return func(d *models.Detection) { d.CreatedDatetime = ptr(t) }
}

func withPosition(lat, lon float64) detOpt {
	return func(d *models.Detection) {
		if d.MediaAttributes == nil {
			d.MediaAttributes = &models.MediaAttributes{}
		}
		d.MediaAttributes.Latitude = ptr(lat)
		d.MediaAttributes.Longitude = ptr(lon)
	}
}

func det(id int64, opts ...detOpt) models.Detection {
	d := models.Detection{ID: id}
	for _, o := range opts {
		o(&d)
	}
	return d
}

func ids(detections []models.Detection) []int64 {
	out := make([]int64, len(detections))
	for i := range detections {
		out[i] = detections[i].ID
	}
	return out
}

// fakeSource serves fixed data. A non-nil detectionsFn overrides detections.
type fakeSource struct {
	detections   []models.Detection
	media        []models.Media
	missions     []models.Mission
	detectionsFn func(ctx context.Context) []models.Detection
}

func (f *fakeSource) Detections(ctx context.Context) []models.Detection {
	if f.detectionsFn != nil {
		return f.detectionsFn(ctx)
	}
	return f.detections
}

func (f *fakeSource) Media(context.Context) []models.Media { return f.media }

func (f *fakeSource) Missions(context.Context) []models.Mission { return f.missions }

var day = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
