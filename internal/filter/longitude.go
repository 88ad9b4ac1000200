// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package filter

import "fmt"

// LongitudeCorrector maps a longitude as stored upstream to a true geographic
// longitude. Implementations must be idempotent.
type LongitudeCorrector interface {
	Correct(lon float64) float64
}

// CorrectorFunc adapts a function to LongitudeCorrector.
type CorrectorFunc func(lon float64) float64

// Correct implements LongitudeCorrector.
func (f CorrectorFunc) Correct(lon float64) float64 { return f(lon) }

// WesternHemisphere treats any positive longitude as a sign error and negates
// it. This holds only for deployments operating west of the prime meridian
// (Monterey Bay), where the upstream source drops the sign on some records.
var WesternHemisphere LongitudeCorrector = CorrectorFunc(func(lon float64) float64 {
	if lon > 0 {
		return -lon
	}
	return lon
})

// Identity leaves longitudes untouched.
var Identity LongitudeCorrector = CorrectorFunc(func(lon float64) float64 { return lon })

// Corrector names accepted by CorrectorByName.
const (
	CorrectionWest = "west"
	CorrectionNone = "none"
)

// CorrectorByName resolves a configured correction mode.
func CorrectorByName(name string) (LongitudeCorrector, error) {
	switch name {
	case "", CorrectionWest:
		return WesternHemisphere, nil
	case CorrectionNone:
		return Identity, nil
	default:
		return nil, fmt.Errorf("unknown longitude correction %q (want %q or %q)", name, CorrectionWest, CorrectionNone)
	}
}
