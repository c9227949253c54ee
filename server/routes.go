package server

import (
	"github.com/go-chi/chi/v5"

	"github.com/carlosx8664/skyy-fc/model"
	"github.com/carlosx8664/skyy-fc/view"
)

func addRoutes(r chi.Router, opts Options) {
	r.Get("/healthz", handleHealth(opts.Source))

	r.Route("/api", func(r chi.Router) {
		r.Get("/fixtures/next", handleNext(opts))
		r.Get("/fixtures/countdown", handleCountdown(opts))
		r.Get("/fixtures", handleFixtures(opts))
		r.Get("/watch", handleWatch(opts))
		r.Get("/results", handleResults(opts))

		r.Get("/standings", handleListing(func() *view.Listing[model.Standing] {
			return view.NewStandings(opts.Source)
		}))
		r.Get("/news", handleListing(func() *view.Listing[model.Story] {
			return view.NewNews(opts.Source)
		}))
		r.Get("/squad", handleListing(func() *view.Listing[model.Player] {
			return view.NewSquad(opts.Source)
		}))
		r.Get("/gallery", handleListing(func() *view.Listing[model.Album] {
			return view.NewGallery(opts.Source)
		}))
	})
}
