// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// Upstream attribute keys that carry review semantics.
const (
	AttrLabel    = "Label"
	AttrScore    = "score"
	AttrCluster  = "cluster"
	AttrVerified = "verified"
	AttrComment  = "comment"
	AttrSaliency = "saliency"
	AttrDelete   = "delete"
)

// DetectionAttributes holds the contract-bearing detection attributes as typed
// optional fields. Keys the dashboard does not interpret are kept in Extra and
// round-tripped untouched.
type DetectionAttributes struct {
	Label    *string
	Score    *float64
	Cluster  *string
	Verified *bool
	Comment  *string
	Saliency *float64
	Delete   *bool
	Extra    map[string]any
}

// LabelValue returns the label or "" when absent.
func (a DetectionAttributes) LabelValue() string {
	if a.Label == nil {
		return ""
	}
	return *a.Label
}

// ClusterValue returns the cluster id or "" when absent.
func (a DetectionAttributes) ClusterValue() string {
	if a.Cluster == nil {
		return ""
	}
	return *a.Cluster
}

// IsVerified reports whether the verified attribute is present and true.
func (a DetectionAttributes) IsVerified() bool {
	return a.Verified != nil && *a.Verified
}

// MarshalJSON writes the attributes back in the upstream key layout.
func (a DetectionAttributes) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(a.Extra)+7)
	for k, v := range a.Extra {
		out[k] = v
	}
	if a.Label != nil {
		out[AttrLabel] = *a.Label
	}
	if a.Score != nil {
		out[AttrScore] = *a.Score
	}
	if a.Cluster != nil {
		out[AttrCluster] = *a.Cluster
	}
	if a.Verified != nil {
		out[AttrVerified] = *a.Verified
	}
	if a.Comment != nil {
		out[AttrComment] = *a.Comment
	}
	if a.Saliency != nil {
		out[AttrSaliency] = *a.Saliency
	}
	if a.Delete != nil {
		out[AttrDelete] = *a.Delete
	}
	return json.Marshal(out)
}

// Detection is a bounding-box annotation on a single media frame.
type Detection struct {
	ID               int64               `json:"id"`
	X                *float64            `json:"x,omitempty"`
	Y                *float64            `json:"y,omitempty"`
	Width            *float64            `json:"width,omitempty"`
	Height           *float64            `json:"height,omitempty"`
	Attributes       DetectionAttributes `json:"attributes"`
	CreatedDatetime  *time.Time          `json:"created_datetime,omitempty"`
	ModifiedDatetime *time.Time          `json:"modified_datetime,omitempty"`
	MediaID          *int64              `json:"media,omitempty"`
	ElementalID      string              `json:"elemental_id,omitempty"`
	ModifiedBy       *int64              `json:"modified_by,omitempty"`
	Version          *int64              `json:"version,omitempty"`

	// MediaAttributes is copied from the referenced media at load time.
	MediaAttributes *MediaAttributes `json:"media_attributes,omitempty"`
}

// RawDetection is a localization record as returned by the annotation service.
// Timestamps stay strings and attributes stay untyped until normalization.
type RawDetection struct {
	ID               int64          `json:"id"`
	X                *float64       `json:"x"`
	Y                *float64       `json:"y"`
	Width            *float64       `json:"width"`
	Height           *float64       `json:"height"`
	Attributes       map[string]any `json:"attributes"`
	CreatedDatetime  string         `json:"created_datetime"`
	ModifiedDatetime string         `json:"modified_datetime"`
	Media            *int64         `json:"media"`
	ElementalID      string         `json:"elemental_id"`
	ModifiedBy       *int64         `json:"modified_by"`
	Version          *int64         `json:"version"`
}
