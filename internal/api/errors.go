// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/uavreview/internal/store"
	"github.com/tomtom215/uavreview/internal/timeline"
)

// Error codes carried in models.APIError.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeNoRange            = "NO_RANGE"
	ErrCodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

var (
	// errInvalidID is returned for a path id that is not a positive integer.
	errInvalidID = errors.New("id must be a positive integer")

	// errNoGraphic is returned when a media item has no image file.
	errNoGraphic = errors.New("media has no image file")
)

// domainError maps store and timeline errors to an HTTP status and code.
func domainError(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrSuperseded):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, store.ErrUnknownLayer):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, store.ErrInvalidBounds):
		return http.StatusBadRequest, ErrCodeValidation
	case errors.Is(err, store.ErrNoSource):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	case errors.Is(err, timeline.ErrNoRange):
		return http.StatusConflict, ErrCodeNoRange
	case errors.Is(err, timeline.ErrClosed):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}
