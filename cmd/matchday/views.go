package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/carlosx8664/skyy-fc/broadcast"
	"github.com/carlosx8664/skyy-fc/countdown"
	"github.com/carlosx8664/skyy-fc/server"
	"github.com/carlosx8664/skyy-fc/store"
	"github.com/carlosx8664/skyy-fc/view"
)

func showNext(c *cli.Context) error {
	if c.Int("upcoming") < 1 {
		return cli.Exit("--upcoming must be at least 1", ExitUsageError)
	}

	src, release, err := getSource(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer release()

	panel := view.NewMatchPanel(src, nil, c.Int("upcoming"), nil)
	defer panel.Close()

	panel.Load(c.Context)
	return outputJSON(panel.Snapshot())
}

// countdownLine is one line of the countdown stream.
type countdownLine struct {
	Target string `json:"target"`
	countdown.Remaining
	Label string `json:"label"`
}

func streamCountdown(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, release, err := getSource(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer release()

	ticks := make(chan countdownLine, 4)
	var panel *view.MatchPanel
	panel = view.NewMatchPanel(src, nil, 1, func(rem countdown.Remaining) {
		select {
		case ticks <- countdownLine{Target: panel.Target(), Remaining: rem, Label: rem.String()}:
		default:
		}
	})
	defer panel.Close()

	var refresh <-chan time.Time
	if d := c.Duration("refresh"); d > 0 {
		t := time.NewTicker(d)
		defer t.Stop()
		refresh = t.C
	}

	panel.Load(ctx)

	encoder := json.NewEncoder(os.Stdout)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line := <-ticks:
			if err := encoder.Encode(line); err != nil {
				return err
			}
			if line.IsZero() {
				return nil
			}
		case <-refresh:
			panel.Load(ctx)
		}
	}
}

func listFixtures(c *cli.Context) error {
	src, release, err := getSource(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer release()

	l := view.NewFixtures(src)
	defer l.Close()

	l.Load(c.Context)
	l.SetPage(c.Int("page"))
	return outputJSON(view.FixtureRows(l.Window(), time.Now()))
}

func listResults(c *cli.Context) error {
	var since *time.Time
	if raw := c.String("since"); raw != "" {
		t, err := store.SinceToTime(raw, time.Now())
		if err != nil {
			return cli.Exit(fmt.Sprintf("Invalid --since: %v", err), ExitUsageError)
		}
		since = &t
	}

	src, release, err := getSource(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer release()

	return outputListing(c, view.NewResults(src, since))
}

func listStandings(c *cli.Context) error {
	src, release, err := getSource(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer release()

	return outputListing(c, view.NewStandings(src))
}

func listNews(c *cli.Context) error {
	src, release, err := getSource(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer release()

	return outputListing(c, view.NewNews(src))
}

func listSquad(c *cli.Context) error {
	src, release, err := getSource(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer release()

	return outputListing(c, view.NewSquad(src))
}

func listGallery(c *cli.Context) error {
	src, release, err := getSource(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer release()

	return outputListing(c, view.NewGallery(src))
}

func outputListing[T any](c *cli.Context, l *view.Listing[T]) error {
	defer l.Close()

	l.Load(c.Context)
	l.SetPage(c.Int("page"))
	return outputJSON(l.Window())
}

func showWatch(c *cli.Context) error {
	src, release, err := getSource(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer release()

	page := view.NewWatchPage(src, getFeed(c))
	defer page.Close()

	page.Refresh(c.Context)

	if id := c.String("select"); id != "" {
		if _, err := page.Select(id); err != nil {
			if errors.Is(err, broadcast.ErrUnknownReplay) {
				return cli.Exit(fmt.Sprintf("No replay with ID %q", id), ExitUsageError)
			}
			return cli.Exit(err.Error(), ExitGeneralError)
		}
	}

	return outputJSON(page.View())
}

func serve(c *cli.Context) error {
	cfg := getConfig(c)
	addr := cfg.HTTPAddr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, release, err := getSource(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer release()

	srv := server.New(addr, server.Options{
		Source:      src,
		Feed:        getFeed(c),
		Refresh:     cfg.RefreshInterval,
		CORSOrigins: cfg.CORSOrigins,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", addr).Str("source", cfg.ContentSource).Msg("starting http server")
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		return cli.Exit(err.Error(), ExitGeneralError)
	}
	return nil
}
