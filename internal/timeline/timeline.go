// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

// Package timeline implements mission playback: a cursor that advances
// through the mission time span at a fixed cadence and feeds a
// [range start, cursor] date filter to the store on every move.
//
// The controller is either stopped or playing. Playing owns exactly one tick
// goroutine; Pause and Close return only after that goroutine has exited.
// When the next step would pass the range end, the cursor wraps to the
// range start and playback stops.
package timeline

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/tomtom215/uavreview/internal/logging"
	"github.com/tomtom215/uavreview/internal/metrics"
	"github.com/tomtom215/uavreview/internal/models"
)

var (
	// ErrNoRange is returned when no mission has both a start and end time,
	// or when playback is requested before any range was set.
	ErrNoRange = errors.New("timeline: no mission time range")

	// ErrClosed is returned by Play after Close.
	ErrClosed = errors.New("timeline: controller closed")
)

const (
	DefaultStep     = 5 * time.Minute
	DefaultInterval = time.Second

	// FallbackSpan is the display range used when no mission has a window.
	FallbackSpan = 7 * 24 * time.Hour
)

// State is the playback state.
type State string

const (
	StateStopped State = "stopped"
	StatePlaying State = "playing"
)

// FilterSink receives the date range derived from the cursor.
type FilterSink interface {
	SetDateRange(models.DateRange)
}

// Status is a point-in-time view of the controller.
type Status struct {
	State    State     `json:"state"`
	Cursor   time.Time `json:"cursor"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Progress float64   `json:"progress"`
	// Fallback marks a range synthesized because no mission had times.
	Fallback bool `json:"fallback"`
	HasRange bool `json:"hasRange"`
}

// Controller drives playback. It is safe for concurrent use.
type Controller struct {
	clock    Clock
	sink     FilterSink
	step     time.Duration
	interval time.Duration

	mu        sync.Mutex
	state     State
	start     time.Time
	end       time.Time
	cursor    time.Time
	hasRange  bool
	fallback  bool
	closed    bool
	stop      chan struct{} // non-nil while playing
	done      chan struct{} // non-nil while a tick goroutine may still run
	listeners []func(Status)
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

// WithStep sets how far the cursor moves per tick.
func WithStep(d time.Duration) Option {
	return func(ctl *Controller) {
		if d > 0 {
			ctl.step = d
		}
	}
}

// WithInterval sets the real time between ticks.
func WithInterval(d time.Duration) Option {
	return func(ctl *Controller) {
		if d > 0 {
			ctl.interval = d
		}
	}
}

// New returns a stopped controller with no range. sink may be nil.
func New(sink FilterSink, opts ...Option) *Controller {
	c := &Controller{
		clock:    SystemClock{},
		sink:     sink,
		step:     DefaultStep,
		interval: DefaultInterval,
		state:    StateStopped,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RangeFromMissions returns the earliest start and latest end over missions
// with both times. Missions missing either time are skipped.
func RangeFromMissions(missions []models.Mission) (models.DateRange, error) {
	var r models.DateRange
	found := false
	for _, m := range missions {
		if !m.HasWindow() {
			continue
		}
		if !found || m.Start.Before(r.Start) {
			r.Start = *m.Start
		}
		if !found || m.End.After(r.End) {
			r.End = *m.End
		}
		found = true
	}
	if !found {
		return models.DateRange{}, ErrNoRange
	}
	return r, nil
}

// FallbackRange returns the display range [now-7d, now].
func FallbackRange(now time.Time) models.DateRange {
	return models.DateRange{Start: now.Add(-FallbackSpan), End: now}
}

// OnChange registers fn to receive every status change. fn is called
// without the controller lock held.
func (c *Controller) OnChange(fn func(Status)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// SetMissions derives the playback range from missions and moves the cursor
// to its start. The filter is not written; loading missions alone does not
// narrow the detection set. Playback in progress is stopped first.
func (c *Controller) SetMissions(missions []models.Mission) Status {
	c.Pause()

	r, err := RangeFromMissions(missions)
	fallback := false
	if err != nil {
		r = FallbackRange(c.clock.Now())
		fallback = true
		logging.Warn().Int("missions", len(missions)).Msg("No mission has a time window, using fallback timeline range")
	}

	c.mu.Lock()
	c.start, c.end, c.cursor = r.Start, r.End, r.Start
	c.hasRange = true
	c.fallback = fallback
	st := c.statusLocked()
	c.mu.Unlock()

	c.publish(st)
	return st
}

// Status returns the current status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// State returns the playback state.
func (c *Controller) State() State {
	return c.Status().State
}

// Cursor returns the cursor position.
func (c *Controller) Cursor() time.Time {
	return c.Status().Cursor
}

// Range returns the playback range.
func (c *Controller) Range() (models.DateRange, bool) {
	st := c.Status()
	return models.DateRange{Start: st.Start, End: st.End}, st.HasRange
}

func (c *Controller) statusLocked() Status {
	st := Status{
		State:    c.state,
		Cursor:   c.cursor,
		Start:    c.start,
		End:      c.end,
		Fallback: c.fallback,
		HasRange: c.hasRange,
	}
	if span := c.end.Sub(c.start); span > 0 {
		st.Progress = float64(c.cursor.Sub(c.start)) / float64(span)
	}
	return st
}

// Play starts the tick goroutine. Playing an already playing controller is a
// no-op.
func (c *Controller) Play() error {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case !c.hasRange:
		c.mu.Unlock()
		return ErrNoRange
	case c.state == StatePlaying:
		c.mu.Unlock()
		return nil
	}
	prev := c.done
	c.mu.Unlock()

	// A goroutine that stopped itself at range end may still be finishing.
	if prev != nil {
		<-prev
	}

	c.mu.Lock()
	if c.closed || c.state == StatePlaying {
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return ErrClosed
		}
		return nil
	}
	stop, done := make(chan struct{}), make(chan struct{})
	c.stop, c.done, c.state = stop, done, StatePlaying
	ticker := c.clock.NewTicker(c.interval)
	st := c.statusLocked()
	c.mu.Unlock()

	go c.run(ticker, stop, done)

	metrics.SetPlaying(true)
	logging.Debug().Time("cursor", st.Cursor).Msg("Timeline playing")
	c.publish(st)
	return nil
}

// Pause stops playback and waits for the tick goroutine to exit. After Pause
// returns no further tick is delivered.
func (c *Controller) Pause() Status {
	c.mu.Lock()
	stop, done := c.stop, c.done
	wasPlaying := c.state == StatePlaying
	if stop != nil {
		close(stop)
		c.stop = nil
	}
	c.done = nil
	c.state = StateStopped
	c.mu.Unlock()

	if done != nil {
		<-done
	}

	st := c.Status()
	if wasPlaying {
		metrics.SetPlaying(false)
		logging.Debug().Time("cursor", st.Cursor).Msg("Timeline paused")
		c.publish(st)
	}
	return st
}

// Seek moves the cursor to t, clamped into the range, and writes the
// derived date filter. It is allowed while playing.
func (c *Controller) Seek(t time.Time) (Status, error) {
	c.mu.Lock()
	if !c.hasRange {
		c.mu.Unlock()
		return Status{}, ErrNoRange
	}
	switch {
	case t.Before(c.start):
		t = c.start
	case t.After(c.end):
		t = c.end
	}
	c.cursor = t
	r := models.DateRange{Start: c.start, End: c.cursor}
	st := c.statusLocked()
	c.mu.Unlock()

	c.write(r)
	c.publish(st)
	return st, nil
}

// Tick advances the cursor by one step, as the tick goroutine does. At the
// range end the cursor wraps to the start and any playback stops.
func (c *Controller) Tick() (Status, error) {
	st, wrapped, err := c.advance(nil)
	if err != nil {
		return Status{}, err
	}
	if wrapped {
		c.reap()
	}
	return st, nil
}

// reap waits for a tick goroutine that is no longer playing.
func (c *Controller) reap() {
	c.mu.Lock()
	var done chan struct{}
	if c.stop == nil {
		done, c.done = c.done, nil
	}
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// advance moves the cursor one step. A non-nil stop identifies the calling
// tick goroutine; if playback was paused or restarted since, nothing
// happens. It reports whether the cursor wrapped.
func (c *Controller) advance(stop chan struct{}) (Status, bool, error) {
	c.mu.Lock()
	if stop != nil && c.stop != stop {
		c.mu.Unlock()
		return Status{}, false, nil
	}
	if !c.hasRange {
		c.mu.Unlock()
		return Status{}, false, ErrNoRange
	}

	wrapped := false
	next := c.cursor.Add(c.step)
	if next.After(c.end) {
		c.cursor = c.start
		wrapped = true
		if c.stop != nil {
			close(c.stop)
			c.stop = nil
		}
		c.state = StateStopped
	} else {
		c.cursor = next
	}
	r := models.DateRange{Start: c.start, End: c.cursor}
	st := c.statusLocked()
	c.mu.Unlock()

	metrics.PlaybackTicksTotal.Inc()
	c.write(r)
	if wrapped {
		metrics.SetPlaying(false)
		logging.Info().Time("start", r.Start).Msg("Timeline reached mission end, wrapped to start")
	}
	c.publish(st)
	return st, wrapped, nil
}

func (c *Controller) run(t Ticker, stop chan struct{}, done chan struct{}) {
	defer close(done)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			if _, wrapped, _ := c.advance(stop); wrapped {
				return
			}
		}
	}
}

func (c *Controller) write(r models.DateRange) {
	if c.sink != nil {
		c.sink.SetDateRange(r)
	}
}

func (c *Controller) publish(st Status) {
	c.mu.Lock()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(st)
	}
}

// Close stops playback for good.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.Pause()
}

// Serve runs until ctx is done, then closes the controller. It lets the
// controller sit in a supervisor tree.
func (c *Controller) Serve(ctx context.Context) error {
	<-ctx.Done()
	c.Close()
	return ctx.Err()
}

func (c *Controller) String() string { return "timeline" }
