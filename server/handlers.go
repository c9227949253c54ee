package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carlosx8664/skyy-fc/broadcast"
	"github.com/carlosx8664/skyy-fc/content"
	"github.com/carlosx8664/skyy-fc/model"
	"github.com/carlosx8664/skyy-fc/store"
	"github.com/carlosx8664/skyy-fc/view"
)

// pinger is implemented by sources backed by a local database.
type pinger interface {
	Ping(ctx context.Context) error
}

func handleHealth(src content.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := src.(pinger)
		if !ok {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			log.Error().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleNext(opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upcoming, ok := intParam(r, "upcoming", view.DefaultUpcoming)
		if !ok || upcoming < 1 {
			writeError(w, http.StatusBadRequest, "upcoming must be a positive integer")
			return
		}

		panel := view.NewMatchPanel(opts.Source, opts.Clock, upcoming, nil)
		defer panel.Close()

		panel.Load(r.Context())
		writeJSON(w, http.StatusOK, panel.Snapshot())
	}
}

func handleWatch(opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := view.NewWatchPage(opts.Source, opts.Feed)
		defer page.Close()

		page.Refresh(r.Context())

		if id := r.URL.Query().Get("select"); id != "" {
			if _, err := page.Select(id); err != nil {
				if errors.Is(err, broadcast.ErrUnknownReplay) {
					writeError(w, http.StatusNotFound, "replay not found")
					return
				}
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}

		writeJSON(w, http.StatusOK, page.View())
	}
}

// handleListing serves one page of a listing mounted for the request.
func handleListing[T any](mount func() *view.Listing[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := intParam(r, "page", 0)
		if !ok {
			writeError(w, http.StatusBadRequest, "page must be an integer")
			return
		}

		l := mount()
		defer l.Close()

		l.Load(r.Context())
		l.SetPage(p)
		writeJSON(w, http.StatusOK, l.Window())
	}
}

func handleFixtures(opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := intParam(r, "page", 0)
		if !ok {
			writeError(w, http.StatusBadRequest, "page must be an integer")
			return
		}

		l := view.NewFixtures(opts.Source)
		defer l.Close()

		l.Load(r.Context())
		l.SetPage(p)
		writeJSON(w, http.StatusOK, view.FixtureRows(l.Window(), opts.Clock.Now()))
	}
}

func handleResults(opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var since *time.Time
		if raw := r.URL.Query().Get("since"); raw != "" {
			t, err := store.SinceToTime(raw, opts.Clock.Now())
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			since = &t
		}

		handleListing(func() *view.Listing[model.Result] {
			return view.NewResults(opts.Source, since)
		})(w, r)
	}
}
