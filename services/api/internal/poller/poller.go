package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/pipeline"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/sensorapi"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/views"
)

// ErrRefreshInProgress is returned when a manual refresh is already running.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// Source is the remote sensor API.
type Source interface {
	FetchPayload(ctx context.Context) (models.Payload, error)
	WriteReadings(ctx context.Context, req sensorapi.WriteRequest) error
}

// Simulator produces readings for the write cycle.
type Simulator interface {
	Next() sensorapi.WriteRequest
}

// Options tune the poll cycle.
type Options struct {
	Interval       time.Duration
	RequestTimeout time.Duration
	ChartPoints    int
	// Simulate enables the simulated write on every tick. Manual refreshes
	// write whenever a Simulator is set.
	Simulate  bool
	Locations []models.SensorLocation
	Now       func() time.Time
}

// Poller owns the dashboard state. It fetches on startup and on every tick,
// runs simulated write cycles and republishes every view after each fetch.
type Poller struct {
	source Source
	sim    Simulator
	render views.Renderer
	opts   Options
	log    zerolog.Logger

	state     State
	publishMu sync.Mutex
	busy      atomic.Bool
	wg        sync.WaitGroup
}

// New builds a poller. render may be nil when nothing consumes the views.
func New(source Source, sim Simulator, render views.Renderer, opts Options, log zerolog.Logger) *Poller {
	if render == nil {
		render = views.Fanout{}
	}
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	if opts.ChartPoints <= 0 {
		opts.ChartPoints = views.DefaultChartSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Poller{
		source: source,
		sim:    sim,
		render: render,
		opts:   opts,
		log:    log.With().Str("component", "poller").Logger(),
	}
}

// State exposes the shared snapshot holder.
func (p *Poller) State() *State { return &p.state }

// Snapshot returns the latest published snapshot.
func (p *Poller) Snapshot() Snapshot { return p.state.Snapshot() }

// Locations returns the configured sensor map.
func (p *Poller) Locations() []models.SensorLocation { return p.opts.Locations }

// Refreshing reports whether a manual refresh is running.
func (p *Poller) Refreshing() bool { return p.busy.Load() }

// Run fetches once, then on every interval fetches again and, if enabled,
// starts a simulated write cycle. Cycles run concurrently and may overlap.
// Failures are logged and never stop the loop. Run returns after ctx is done
// and in-flight cycles have finished.
func (p *Poller) Run(ctx context.Context) error {
	p.spawn(ctx, "startup", p.fetch)

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.wg.Wait()
			return nil
		case <-ticker.C:
			p.spawn(ctx, "interval", p.fetch)
			if p.opts.Simulate && p.sim != nil {
				p.spawn(ctx, "simulate", p.writeAndFetch)
			}
		}
	}
}

func (p *Poller) spawn(ctx context.Context, trigger string, task func(context.Context, zerolog.Logger) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		_ = task(ctx, p.cycleLogger(trigger))
	}()
}

func (p *Poller) cycleLogger(trigger string) zerolog.Logger {
	return p.log.With().Str("cycle", uuid.NewString()).Str("trigger", trigger).Logger()
}

// Fetch reads the remote payload and republishes it. On failure the
// previous state and views stay as they were, except the status line.
func (p *Poller) Fetch(ctx context.Context) error {
	return p.fetch(ctx, p.cycleLogger("fetch"))
}

// Refresh runs a manual write-then-fetch cycle. Only one manual refresh runs
// at a time; timer cycles are not affected by this guard.
func (p *Poller) Refresh(ctx context.Context) error {
	if !p.busy.CompareAndSwap(false, true) {
		return ErrRefreshInProgress
	}
	p.render.RenderRefreshing(true)
	defer func() {
		p.render.RenderRefreshing(false)
		p.busy.Store(false)
	}()

	log := p.cycleLogger("manual")
	if p.sim == nil {
		return p.fetch(ctx, log)
	}
	return p.writeAndFetch(ctx, log)
}

// requestContext detaches from caller cancellation: a started request runs
// to completion or timeout even when superseded.
func (p *Poller) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), p.opts.RequestTimeout)
}

func (p *Poller) fetch(ctx context.Context, log zerolog.Logger) error {
	reqCtx, cancel := p.requestContext(ctx)
	defer cancel()

	started := p.opts.Now()
	payload, err := p.source.FetchPayload(reqCtx)
	if err != nil {
		log.Error().Err(err).Msg("fetch sensor data")
		p.render.RenderStatus(views.FailedStatus())
		return err
	}

	snap := Snapshot{
		History:   pipeline.Normalize(payload.History),
		Current:   payload.Current,
		FetchedAt: p.opts.Now(),
	}

	p.publishMu.Lock()
	p.state.replace(snap)
	p.publish(snap)
	p.publishMu.Unlock()

	log.Info().
		Int("events", len(snap.History)).
		Dur("took", snap.FetchedAt.Sub(started)).
		Msg("sensor data refreshed")
	return nil
}

func (p *Poller) writeAndFetch(ctx context.Context, log zerolog.Logger) error {
	req := p.sim.Next()

	reqCtx, cancel := p.requestContext(ctx)
	err := p.source.WriteReadings(reqCtx, req)
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("send simulated readings")
		return err
	}

	log.Debug().
		Str("air", req.Air.Value.String()).
		Str("water", req.Water.Value.String()).
		Str("soil", req.Soil.Value.String()).
		Msg("simulated readings sent")
	return p.fetch(ctx, log)
}

func (p *Poller) publish(snap Snapshot) {
	cur := snap.Current

	p.render.RenderCards(views.QualityCards(cur))
	p.render.RenderTable(views.TableRows(snap.History, views.AllFilter))
	p.render.RenderAlerts(pipeline.AlertsFromCurrent(cur, snap.FetchedAt))
	p.render.RenderMap(views.MapPoints(p.opts.Locations, cur))

	series := make([]views.Series, 0, len(models.Kinds))
	for _, kind := range models.Kinds {
		series = append(series, views.ChartSeries(snap.History, kind, p.opts.ChartPoints))
	}
	p.render.RenderCharts(series)

	if status, ok := views.StatusLine(cur); ok {
		p.render.RenderStatus(status)
	}
}

// Detail projects the detail page for kind from the current snapshot.
func (p *Poller) Detail(kind models.SensorKind, window time.Duration) views.Detail {
	snap := p.state.Snapshot()
	return views.SensorDetail(snap.History, snap.Current, kind, window, p.opts.ChartPoints, p.opts.Now())
}
