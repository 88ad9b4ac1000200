// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package store

import "time"

// ChangeKind names the part of the state that changed.
type ChangeKind string

const (
	ChangeDetections ChangeKind = "detections"
	ChangeMedia      ChangeKind = "media"
	ChangeMissions   ChangeKind = "missions"
	ChangeFilters    ChangeKind = "filters"
	ChangeMap        ChangeKind = "map"
	ChangeGallery    ChangeKind = "gallery"
	ChangeSelection  ChangeKind = "selection"
	ChangeHover      ChangeKind = "hover"
)

// Change describes one committed mutation. Data holds the new value of the
// changed field: a count for entity sets, otherwise the updated state struct.
type Change struct {
	Kind ChangeKind `json:"kind"`
	Data any        `json:"data"`
	At   time.Time  `json:"at"`
}

// Subscribe registers fn to be called after every committed change. fn runs
// on the mutating goroutine without store locks held and must not block.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(changes ...Change) {
	if len(changes) == 0 {
		return
	}
	s.subMu.RLock()
	subs := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.RUnlock()

	now := time.Now()
	for _, c := range changes {
		if c.At.IsZero() {
			c.At = now
		}
		for _, fn := range subs {
			fn(c)
		}
	}
}

func countChange(kind ChangeKind, n int) Change {
	return Change{Kind: kind, Data: map[string]int{"count": n}}
}
