package view

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carlosx8664/skyy-fc/content"
	"github.com/carlosx8664/skyy-fc/fixture"
	"github.com/carlosx8664/skyy-fc/model"
	"github.com/carlosx8664/skyy-fc/paging"
)

// Page sizes of the listings.
const (
	StandingsPageSize = 8
	NewsPageSize      = 6
	SquadPageSize     = 6
	ResultsPageSize   = 8
	FixturesPageSize  = 8
	GalleryPageSize   = 9
)

// FetchFunc reads one collection.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Listing is a paged view over one fetched collection.
type Listing[T any] struct {
	name  string
	fetch FetchFunc[T]

	scope Scope
	pager *paging.Pager[T]
}

// NewListing creates an empty listing. name is used in log messages.
func NewListing[T any](name string, size int, fetch FetchFunc[T]) *Listing[T] {
	return &Listing[T]{
		name:  name,
		fetch: fetch,
		pager: paging.New[T](nil, size),
	}
}

// Load fetches the collection. The current page is kept, clamped into the
// new range. A failed fetch is logged and shown as an empty collection.
func (l *Listing[T]) Load(ctx context.Context) bool {
	t := l.scope.Begin()

	items, err := l.fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Str("listing", l.name).Msg("collection unavailable")
		items = nil
	}

	return l.scope.Apply(t, func() {
		l.pager.SetItems(items)
	})
}

// SetPage moves to page p, clamped. It returns the resulting page.
func (l *Listing[T]) SetPage(p int) int {
	return l.pager.SetPage(p)
}

// Next moves forward one page.
func (l *Listing[T]) Next() int {
	return l.pager.Next()
}

// Prev moves back one page.
func (l *Listing[T]) Prev() int {
	return l.pager.Prev()
}

// Window returns the current page.
func (l *Listing[T]) Window() paging.Window[T] {
	return l.pager.Window()
}

// Close drops any load still in flight.
func (l *Listing[T]) Close() {
	l.scope.Close()
}

// NewStandings lists the league table.
func NewStandings(src content.Source) *Listing[model.Standing] {
	return NewListing("standings", StandingsPageSize, func(ctx context.Context) ([]model.Standing, error) {
		return content.Standings(ctx, src)
	})
}

// NewNews lists news stories, newest first.
func NewNews(src content.Source) *Listing[model.Story] {
	return NewListing("news", NewsPageSize, func(ctx context.Context) ([]model.Story, error) {
		return content.Stories(ctx, src)
	})
}

// NewSquad lists players by shirt number.
func NewSquad(src content.Source) *Listing[model.Player] {
	return NewListing("squad", SquadPageSize, func(ctx context.Context) ([]model.Player, error) {
		return content.Players(ctx, src)
	})
}

// NewResults lists results, newest first, optionally since an instant.
func NewResults(src content.Source, since *time.Time) *Listing[model.Result] {
	return NewListing("results", ResultsPageSize, func(ctx context.Context) ([]model.Result, error) {
		return content.Results(ctx, src, since)
	})
}

// NewGallery lists photo albums, newest first.
func NewGallery(src content.Source) *Listing[model.Album] {
	return NewListing("gallery", GalleryPageSize, func(ctx context.Context) ([]model.Album, error) {
		return content.Gallery(ctx, src)
	})
}

// NewFixtures lists fixtures in date order.
func NewFixtures(src content.Source) *Listing[model.Event] {
	return NewListing("fixtures", FixturesPageSize, func(ctx context.Context) ([]model.Event, error) {
		return content.Fixtures(ctx, src)
	})
}

// FixtureRows annotates a page of fixtures with past flags evaluated at now.
func FixtureRows(w paging.Window[model.Event], now time.Time) paging.Window[fixture.Row] {
	return paging.Window[fixture.Row]{
		Page:       w.Page,
		TotalPages: w.TotalPages,
		PageSize:   w.PageSize,
		Total:      w.Total,
		Items:      fixture.Annotate(w.Items, now),
	}
}
