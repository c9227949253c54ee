package view

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/carlosx8664/skyy-fc/broadcast"
	"github.com/carlosx8664/skyy-fc/content"
	"github.com/carlosx8664/skyy-fc/model"
)

// ReplayFeed is an additional source of replays, such as a channel feed.
type ReplayFeed interface {
	Replays(ctx context.Context) ([]model.ReplayItem, error)
}

// WatchPage shows either the live broadcast or a chosen replay.
type WatchPage struct {
	src  content.Source
	feed ReplayFeed

	scope    Scope
	selector *broadcast.Selector
}

// NewWatchPage creates a watch page reading from src. feed may be nil.
func NewWatchPage(src content.Source, feed ReplayFeed) *WatchPage {
	return &WatchPage{
		src:      src,
		feed:     feed,
		selector: broadcast.NewSelector(),
	}
}

// Refresh fetches the live stream and replays concurrently and feeds the
// selector. Each source that fails is logged and counts as empty. It
// reports whether the result was applied.
func (w *WatchPage) Refresh(ctx context.Context) bool {
	t := w.scope.Begin()

	var (
		live        *model.LiveStream
		cmsReplays  []model.ReplayItem
		feedReplays []model.ReplayItem
	)

	// Each source logs its own failure and returns nil, so one failing
	// source never cancels the others.
	var g errgroup.Group
	g.Go(func() error {
		stream, err := content.LiveStream(ctx, w.src)
		if err != nil {
			log.Warn().Err(err).Msg("live stream unavailable")
			return nil
		}
		live = stream
		return nil
	})
	g.Go(func() error {
		cmsReplays = content.FetchOrEmpty[model.ReplayItem](ctx, w.src, content.ReplaysQuery)
		return nil
	})
	if w.feed != nil {
		g.Go(func() error {
			items, err := w.feed.Replays(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("replay feed unavailable")
				return nil
			}
			feedReplays = items
			return nil
		})
	}
	g.Wait()

	snap := broadcast.Snapshot{
		Live:    live,
		Replays: broadcast.MergeReplays(cmsReplays, feedReplays),
	}
	return w.scope.Apply(t, func() {
		w.selector.Refresh(snap)
	})
}

// Select picks a replay by id.
func (w *WatchPage) Select(id string) (broadcast.State, error) {
	var (
		state broadcast.State
		err   error
	)
	if !w.scope.Do(func() { state, err = w.selector.Select(id) }) {
		return w.selector.State(), ErrClosed
	}
	return state, err
}

// State returns the current broadcast state.
func (w *WatchPage) State() broadcast.State {
	return w.selector.State()
}

// View renders the current state.
func (w *WatchPage) View() broadcast.View {
	return broadcast.Render(w.selector.State())
}

// Close drops any refresh still in flight.
func (w *WatchPage) Close() {
	w.scope.Close()
}
