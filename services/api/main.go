package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/config"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/db"
	httpserver "github.com/02loveslollipop/ecosense-dashboard/services/api/http"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/hub"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/incidents"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/layout"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/poller"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/sensorapi"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/simulate"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/views"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config error")
	}
	logger = newLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	locations, err := layout.Load(cfg.SensorLayoutFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("sensor layout error")
	}

	store, closeStore, err := openIncidentStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connection error")
	}
	defer closeStore()

	board := views.NewBoard()
	stream := hub.New(func() any { return board.View() }, logger)

	client := sensorapi.New(cfg.ReadURL, cfg.WriteURL, cfg.RequestTimeout)
	gen := simulate.NewGenerator(simulate.DefaultProfiles(cfg.Thresholds.Air, cfg.Thresholds.Water, cfg.Thresholds.Soil), nil)
	dash := poller.New(client, gen, views.Fanout{board, stream}, poller.Options{
		Interval:       cfg.PollInterval,
		RequestTimeout: cfg.RequestTimeout,
		ChartPoints:    cfg.ChartPoints,
		Simulate:       cfg.SimulateWrites,
		Locations:      locations,
	}, logger)

	srv := httpserver.New(cfg, httpserver.Deps{
		Dashboard: dash,
		Board:     board,
		Incidents: incidents.NewService(store, nil),
		Stream:    http.HandlerFunc(stream.ServeWS),
	}, logger)

	go stream.Run(ctx)

	polling := make(chan struct{})
	go func() {
		defer close(polling)
		_ = dash.Run(ctx)
	}()

	logger.Info().
		Str("addr", cfg.ListenAddr()).
		Str("read_url", cfg.ReadURL).
		Dur("poll_interval", cfg.PollInterval).
		Bool("simulate", cfg.SimulateWrites).
		Int("sensors", len(locations)).
		Msg("dashboard API listening")

	if err := srv.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
	<-polling
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if strings.EqualFold(cfg.LogFormat, "console") {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Str("service", "ecosense-api").Logger()
}

// openIncidentStore uses Postgres when a database URL is set and keeps
// incidents in memory otherwise.
func openIncidentStore(ctx context.Context, databaseURL string) (incidents.Store, func(), error) {
	if databaseURL == "" {
		return incidents.NewMemoryStore(), func() {}, nil
	}

	store, err := db.New(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, store.Close, nil
}
