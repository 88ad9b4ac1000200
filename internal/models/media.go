// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// MediaAttributes is the canonical view of a frame's camera and position
// metadata. A nil field means the upstream value was missing or malformed.
// Longitude is stored exactly as received; see filter.LongitudeCorrector.
type MediaAttributes struct {
	Date      *time.Time `json:"date,omitempty"`
	Make      string     `json:"make,omitempty"`
	Model     string     `json:"model,omitempty"`
	FileType  string     `json:"FileType,omitempty"`
	Altitude  *float64   `json:"altitude,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
}

// HasPosition reports whether both latitude and longitude are known.
func (m *MediaAttributes) HasPosition() bool {
	return m != nil && m.Latitude != nil && m.Longitude != nil
}

// MediaFile describes one stored rendition of a media item.
type MediaFile struct {
	Mime       string `json:"mime"`
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	Resolution [2]int `json:"resolution"`
}

// MediaFiles groups renditions by kind ("image", "thumbnail", ...).
type MediaFiles map[string][]MediaFile

// Path returns the first non-empty path of the given kind.
func (f MediaFiles) Path(kind string) (string, bool) {
	for _, file := range f[kind] {
		if file.Path != "" {
			return file.Path, true
		}
	}
	return "", false
}

// Media is one captured image frame.
type Media struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Width            *int            `json:"width,omitempty"`
	Height           *int            `json:"height,omitempty"`
	ModifiedDatetime *time.Time      `json:"modified_datetime,omitempty"`
	Attributes       map[string]any  `json:"attributes,omitempty"`
	MediaAttributes  MediaAttributes `json:"media_attributes"`
	MediaFiles       MediaFiles      `json:"media_files,omitempty"`
	SourceURL        string          `json:"source_url,omitempty"`
	ElementalID      string          `json:"elemental_id,omitempty"`
	ModifiedBy       *int64          `json:"modified_by,omitempty"`
}

// RawMedia is a media record as returned by the annotation service.
type RawMedia struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Width            *int            `json:"width"`
	Height           *int            `json:"height"`
	ModifiedDatetime string          `json:"modified_datetime"`
	Attributes       map[string]any  `json:"attributes"`
	MediaFiles       json.RawMessage `json:"media_files"`
	SourceURL        string          `json:"source_url"`
	ElementalID      string          `json:"elemental_id"`
	ModifiedBy       *int64          `json:"modified_by"`
}
