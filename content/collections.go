package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carlosx8664/skyy-fc/model"
)

// Queries for each collection the site reads.
var (
	FixturesQuery = Query{
		Type:  "fixture",
		Order: Order{Field: "date"},
		Projection: `_id, date, venue, kickOff, matchday,
  "homeTeam": homeTeam->name,
  "awayTeam": awayTeam->name`,
	}

	ResultsQuery = Query{
		Type:  "result",
		Order: Order{Field: "date", Desc: true},
		Projection: `_id, date, homeScore, awayScore, outcome, report,
  "homeTeam": homeTeam->name,
  "awayTeam": awayTeam->name`,
	}

	LiveStreamQuery = Query{
		Type:       "liveStream",
		Limit:      1,
		Projection: `isLive, youtubeUrl, matchTitle`,
	}

	ReplaysQuery = Query{
		Type:       "news",
		Defined:    []string{"videoUrl"},
		Order:      Order{Field: "date", Desc: true},
		Projection: `_id, title, "videoUrl": videoUrl, date`,
	}

	StoriesQuery = Query{
		Type:       "stories",
		Order:      Order{Field: "date", Desc: true},
		Projection: `_id, title, date, excerpt, author, videoUrl`,
	}

	StandingsQuery = Query{
		Type:       "leagueTable",
		Order:      Order{Field: "position"},
		Projection: `position, "team": team->name, played, won, drawn, lost, gf, ga, points, isSkyy`,
	}

	PlayersQuery = Query{
		Type:       "player",
		Order:      Order{Field: "number"},
		Projection: `_id, name, number, category, position, nationality, isCaptain`,
	}

	GalleryQuery = Query{
		Type:  "gallery",
		Order: Order{Field: "date", Desc: true},
		Projection: `_id, title, date, matchday, category,
  "imageCount": count(images),
  "captions": images[defined(caption)].caption`,
	}
)

// AllQueries lists every collection, used for dataset export.
var AllQueries = []Query{
	FixturesQuery, ResultsQuery, LiveStreamQuery, ReplaysQuery,
	StoriesQuery, StandingsQuery, PlayersQuery, GalleryQuery,
}

// Fetch runs q against src and decodes each record into T. Records that do
// not decode are skipped and logged.
func Fetch[T any](ctx context.Context, src Source, q Query) ([]T, error) {
	raw, err := src.FetchCollection(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", q.Type, err)
	}

	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			log.Warn().Err(err).Str("collection", q.Type).Int("index", i).Msg("skipping malformed record")
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// FetchOrEmpty is Fetch that treats a failed fetch as an empty collection.
func FetchOrEmpty[T any](ctx context.Context, src Source, q Query) []T {
	out, err := Fetch[T](ctx, src, q)
	if err != nil {
		log.Warn().Err(err).Str("collection", q.Type).Msg("fetch failed, showing no data")
		return nil
	}
	return out
}

// Fixtures reads the fixture list.
func Fixtures(ctx context.Context, src Source) ([]model.Event, error) {
	return Fetch[model.Event](ctx, src, FixturesQuery)
}

// Results reads match results, optionally only those since a given instant.
func Results(ctx context.Context, src Source, since *time.Time) ([]model.Result, error) {
	q := ResultsQuery
	q.Since = since
	return Fetch[model.Result](ctx, src, q)
}

// LiveStream reads the live stream document. It returns nil if there is none.
func LiveStream(ctx context.Context, src Source) (*model.LiveStream, error) {
	streams, err := Fetch[model.LiveStream](ctx, src, LiveStreamQuery)
	if err != nil {
		return nil, err
	}
	if len(streams) == 0 {
		return nil, nil
	}
	return &streams[0], nil
}

// Replays reads news items that carry a video.
func Replays(ctx context.Context, src Source) ([]model.ReplayItem, error) {
	return Fetch[model.ReplayItem](ctx, src, ReplaysQuery)
}

// Stories reads news stories, newest first.
func Stories(ctx context.Context, src Source) ([]model.Story, error) {
	return Fetch[model.Story](ctx, src, StoriesQuery)
}

// Standings reads the league table.
func Standings(ctx context.Context, src Source) ([]model.Standing, error) {
	return Fetch[model.Standing](ctx, src, StandingsQuery)
}

// Gallery reads photo albums, newest first.
func Gallery(ctx context.Context, src Source) ([]model.Album, error) {
	return Fetch[model.Album](ctx, src, GalleryQuery)
}

// Players reads the squad ordered by shirt number.
func Players(ctx context.Context, src Source) ([]model.Player, error) {
	return Fetch[model.Player](ctx, src, PlayersQuery)
}
