// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

/*
Package services adapts server components to suture's Serve(ctx) error
model.

  - HTTPServerService turns ListenAndServe/Shutdown into Serve with a
    bounded graceful shutdown.
  - LoaderService runs the initial upstream fetch, retrying through the
    supervisor until it succeeds, then seeds dependents and asks not to be
    restarted.
  - RoutineService runs a func(ctx) until the context ends, for background
    loops such as the graphic cache sweeper.

Every wrapper implements fmt.Stringer so suture logs it by name.
*/
package services
