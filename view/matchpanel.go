package view

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/carlosx8664/skyy-fc/content"
	"github.com/carlosx8664/skyy-fc/countdown"
	"github.com/carlosx8664/skyy-fc/fixture"
	"github.com/carlosx8664/skyy-fc/model"
)

// DefaultUpcoming is the number of fixture rows the panel lists.
const DefaultUpcoming = 3

// Panel is a point-in-time rendering of a MatchPanel.
type Panel struct {
	Next      *fixture.Row        `json:"next"`
	Countdown countdown.Remaining `json:"countdown"`
	Venue     string              `json:"venue"`
	Upcoming  []fixture.Row       `json:"upcoming"`
}

// MatchPanel shows the next fixture with a live countdown and a short list
// of fixtures. The countdown ticker is held from the first Load until Close.
type MatchPanel struct {
	src      content.Source
	clock    clockwork.Clock
	upcoming int

	scope    Scope
	fixtures *fixture.Reconciler
	engine   *countdown.Engine
}

// NewMatchPanel creates a panel reading fixtures from src. onTick, if set,
// receives every countdown value and must not block for long.
func NewMatchPanel(src content.Source, clock clockwork.Clock, upcoming int, onTick func(countdown.Remaining)) *MatchPanel {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if upcoming <= 0 {
		upcoming = DefaultUpcoming
	}
	return &MatchPanel{
		src:      src,
		clock:    clock,
		upcoming: upcoming,
		fixtures: fixture.NewReconciler(clock),
		engine:   countdown.NewEngine(clock, onTick),
	}
}

// Load fetches the fixtures and re-selects the next one. A failed fetch is
// logged and shown as no fixtures. It reports whether the result was applied.
func (p *MatchPanel) Load(ctx context.Context) bool {
	t := p.scope.Begin()

	events, err := content.Fixtures(ctx, p.src)
	if err != nil {
		log.Warn().Err(err).Msg("fixtures unavailable")
		events = nil
	}

	return p.scope.Apply(t, func() {
		next, ok := p.fixtures.Update(events)
		target := ""
		if ok {
			target = next.Date
		}
		p.engine.SetTarget(target)
	})
}

// Next returns the selected fixture.
func (p *MatchPanel) Next() (model.Event, bool) {
	return p.fixtures.Next()
}

// Target returns the instant the countdown runs to.
func (p *MatchPanel) Target() string {
	return p.engine.Target()
}

// Snapshot renders the panel at the current time.
func (p *MatchPanel) Snapshot() Panel {
	panel := Panel{
		Countdown: p.engine.Current(),
		Venue:     model.TBD,
		Upcoming:  p.fixtures.Rows(p.upcoming),
	}

	if next, ok := p.fixtures.Next(); ok {
		row := fixture.Annotate([]model.Event{next}, p.clock.Now())[0]
		panel.Next = &row
		panel.Venue = next.VenueLabel()
	}
	return panel
}

// Close stops the countdown and drops any load still in flight.
func (p *MatchPanel) Close() {
	p.scope.Close()
	p.engine.Stop()
}
