// Package fixture selects the next upcoming fixture from an unordered collection.
package fixture

import (
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/carlosx8664/skyy-fc/model"
)

// Upcoming returns the events that start strictly after now, earliest first.
// Events with an unparsable start are dropped. Ties keep collection order.
func Upcoming(events []model.Event, now time.Time) []model.Event {
	type timed struct {
		event model.Event
		start time.Time
	}

	var future []timed
	for _, e := range events {
		start, ok := e.StartTime()
		if !ok || !start.After(now) {
			continue
		}
		future = append(future, timed{event: e, start: start})
	}

	slices.SortStableFunc(future, func(a, b timed) int {
		return a.start.Compare(b.start)
	})

	out := make([]model.Event, len(future))
	for i, f := range future {
		out[i] = f.event
	}
	return out
}

// Next returns the event to show as "next": the earliest future event, or the
// first event of the collection when nothing is upcoming.
func Next(events []model.Event, now time.Time) (model.Event, bool) {
	if upcoming := Upcoming(events, now); len(upcoming) > 0 {
		return upcoming[0], true
	}
	if len(events) > 0 {
		return events[0], true
	}
	return model.Event{}, false
}

// Row is an event annotated for list display.
type Row struct {
	model.Event
	Past       bool   `json:"past"`
	DateTag    string `json:"dateLabel"`
	KickOffTag string `json:"kickOffLabel"`
}

// Reconciler holds the current selection for one view. The selection only
// changes on Update; past flags are recomputed on every call to Rows.
type Reconciler struct {
	clock clockwork.Clock

	mu     sync.RWMutex
	events []model.Event
	next   model.Event
	found  bool
}

// NewReconciler creates a Reconciler using clock for "now".
func NewReconciler(clock clockwork.Clock) *Reconciler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Reconciler{clock: clock}
}

// Update replaces the collection and re-selects the next event.
func (r *Reconciler) Update(events []model.Event) (model.Event, bool) {
	next, found := Next(events, r.clock.Now())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = slices.Clone(events)
	r.next = next
	r.found = found
	return next, found
}

// Next returns the selection made by the last Update.
func (r *Reconciler) Next() (model.Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.next, r.found
}

// Rows returns up to limit events in collection order with their past flag
// evaluated against the current time. A limit <= 0 returns every event.
func (r *Reconciler) Rows(limit int) []Row {
	r.mu.RLock()
	events := r.events
	r.mu.RUnlock()

	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return Annotate(events, r.clock.Now())
}

// Annotate builds display rows for events at now.
func Annotate(events []model.Event, now time.Time) []Row {
	rows := make([]Row, len(events))
	for i, e := range events {
		rows[i] = Row{
			Event:      e,
			Past:       e.IsPast(now),
			DateTag:    e.DateLabel(),
			KickOffTag: e.KickOffLabel(),
		}
	}
	return rows
}
