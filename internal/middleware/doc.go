// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

/*
Package middleware provides chi-compatible HTTP middleware shared by the API
router.

Key Components:

  - RequestID: accepts or generates an X-Request-ID, echoes it on the
    response and seeds the logging context with request and correlation IDs.
  - PrometheusMetrics: request count, latency and in-flight instrumentation.
    Requests are labelled by chi route pattern ("/api/v1/detections/{id}")
    rather than raw path, so label cardinality stays bounded.

Both have the standard func(http.Handler) http.Handler shape:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
