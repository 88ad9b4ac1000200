// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package api

import "time"

// PageRequest holds the page and page_size query parameters.
type PageRequest struct {
	Page     int `json:"page" validate:"min=1"`
	PageSize int `json:"page_size" validate:"min=1,max=500"`
}

// NearbyRequest holds the query parameters of the nearby lookup.
type NearbyRequest struct {
	Lat      float64 `json:"lat" validate:"latitude"`
	Lon      float64 `json:"lon" validate:"longitude"`
	RadiusKm float64 `json:"radius_km" validate:"gt=0,lte=100"`
	Limit    int     `json:"limit" validate:"min=0,max=1000"`
}

// GraphicRequest holds the query parameters of the graphic endpoints.
type GraphicRequest struct {
	Thumbnail bool   `json:"thumbnail"`
	Format    string `json:"format" validate:"omitempty,oneof=raw json"`
	Kind      string `json:"kind" validate:"omitempty,oneof=image thumbnail"`
}

// SelectionRequest is the body of the selection and hover endpoints. A null
// or missing detectionId clears the value.
type SelectionRequest struct {
	DetectionID *int64 `json:"detectionId" validate:"omitempty,min=1"`
}

// SeekRequest is the body of the timeline seek endpoint.
type SeekRequest struct {
	Cursor time.Time `json:"cursor" validate:"required"`
}
