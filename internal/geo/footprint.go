// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package geo

import (
	"math"
	"time"

	"github.com/tomtom215/uavreview/internal/models"
)

// Footprint estimation defaults, used for whatever the media record lacks.
const (
	DefaultFootprintLatitude  = 36.7783
	DefaultFootprintLongitude = -119.4179
	DefaultAltitudeMeters     = 60.0
	DefaultImageWidth         = 4000
	DefaultImageHeight        = 3000
	FieldOfViewDegrees        = 60.0

	metersPerDegreeLat = 111000.0
)

// Footprint is the estimated ground coverage of one media frame.
type Footprint struct {
	MediaID int64      `json:"mediaId"`
	Name    string     `json:"name"`
	Center  LatLng     `json:"center"`
	Ring    []LatLng   `json:"ring"`
	Date    *time.Time `json:"date,omitempty"`
	Width   int        `json:"width"`
	Height  int        `json:"height"`
	// SizeBytes is the size of the first image rendition, 0 when unknown.
	SizeBytes int64 `json:"sizeBytes"`
	// Estimated is set when the center fell back to the default position.
	Estimated bool `json:"estimated"`
}

// Footprint estimates the ground rectangle covered by a media frame from
// its position, altitude and pixel dimensions. The ring is closed: five
// points, the last equal to the first, ordered SW, NW, NE, SE, SW.
func (l *Layers) Footprint(m models.Media) Footprint {
	attrs := m.MediaAttributes

	fp := Footprint{MediaID: m.ID, Name: m.Name, Date: attrs.Date}
	fp.Center = LatLng{Lat: DefaultFootprintLatitude, Lng: DefaultFootprintLongitude}
	if attrs.Latitude != nil && *attrs.Latitude != 0 {
		fp.Center.Lat = *attrs.Latitude
	} else {
		fp.Estimated = true
	}
	if attrs.Longitude != nil && *attrs.Longitude != 0 {
		fp.Center.Lng = l.corrector.Correct(*attrs.Longitude)
	} else {
		fp.Estimated = true
	}

	altitude := DefaultAltitudeMeters
	if attrs.Altitude != nil && *attrs.Altitude > 0 {
		altitude = *attrs.Altitude
	}
	fp.Width, fp.Height = DefaultImageWidth, DefaultImageHeight
	if m.Width != nil && *m.Width > 0 {
		fp.Width = *m.Width
	}
	if m.Height != nil && *m.Height > 0 {
		fp.Height = *m.Height
	}
	if files := m.MediaFiles["image"]; len(files) > 0 {
		fp.SizeBytes = files[0].Size
	}

	groundH := altitude * math.Tan(FieldOfViewDegrees*math.Pi/180)
	groundW := groundH * float64(fp.Width) / float64(fp.Height)
	latOff := groundH / metersPerDegreeLat
	lngOff := groundW / (metersPerDegreeLat * math.Cos(fp.Center.Lat*math.Pi/180))

	c := fp.Center
	sw := LatLng{Lat: c.Lat - latOff/2, Lng: c.Lng - lngOff/2}
	fp.Ring = []LatLng{
		sw,
		{Lat: c.Lat + latOff/2, Lng: c.Lng - lngOff/2},
		{Lat: c.Lat + latOff/2, Lng: c.Lng + lngOff/2},
		{Lat: c.Lat - latOff/2, Lng: c.Lng + lngOff/2},
		sw,
	}
	return fp
}

// Footprints returns the footprint of every media frame, in input order.
func (l *Layers) Footprints(media []models.Media) []Footprint {
	out := make([]Footprint, len(media))
	for i := range media {
		out[i] = l.Footprint(media[i])
	}
	return out
}

// FootprintFeatures renders footprints as polygon features.
func FootprintFeatures(footprints []Footprint) FeatureCollection {
	fc := newCollection(len(footprints))
	for _, fp := range footprints {
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			ID:         fp.MediaID,
			Geometry:   polygonGeometry(fp.Ring),
			Properties: fp,
		})
	}
	return fc
}
