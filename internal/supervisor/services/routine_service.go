// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package services

import (
	"context"
	"errors"
)

// RoutineService supervises a loop that runs until its context ends.
type RoutineService struct {
	name string
	run  func(ctx context.Context)
}

// NewRoutineService names run for supervisor logs.
func NewRoutineService(name string, run func(ctx context.Context)) *RoutineService {
	return &RoutineService{name: name, run: run}
}

// Serve implements suture.Service. A routine that returns before the
// context ends is reported as a failure so it gets restarted.
func (r *RoutineService) Serve(ctx context.Context) error {
	r.run(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}
	return errRoutineExited
}

func (r *RoutineService) String() string {
	return r.name
}

var errRoutineExited = errors.New("routine exited before shutdown")
