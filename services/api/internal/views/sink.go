package views

import (
	"sync"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
)

// CardSink renders quality cards. Only the media present are passed.
type CardSink interface {
	RenderCards(cards []Card)
}

// TableSink renders the unfiltered history table.
type TableSink interface {
	RenderTable(rows []TableRow)
}

// AlertSink renders the active alert list.
type AlertSink interface {
	RenderAlerts(alerts []models.AlertRecord)
}

// MapSink renders the sensor map and its focused info box.
type MapSink interface {
	RenderMap(view MapView)
}

// ChartSink renders one chart series per medium.
type ChartSink interface {
	RenderCharts(series []Series)
}

// StatusSink renders the status line and the manual refresh control state.
type StatusSink interface {
	RenderStatus(status Status)
	RenderRefreshing(busy bool)
}

// Renderer is a target for every view.
type Renderer interface {
	CardSink
	TableSink
	AlertSink
	MapSink
	ChartSink
	StatusSink
}

// Fanout forwards every render call to each renderer in order.
type Fanout []Renderer

func (f Fanout) RenderCards(cards []Card) {
	for _, r := range f {
		r.RenderCards(cards)
	}
}

func (f Fanout) RenderTable(rows []TableRow) {
	for _, r := range f {
		r.RenderTable(rows)
	}
}

func (f Fanout) RenderAlerts(alerts []models.AlertRecord) {
	for _, r := range f {
		r.RenderAlerts(alerts)
	}
}

func (f Fanout) RenderMap(view MapView) {
	for _, r := range f {
		r.RenderMap(view)
	}
}

func (f Fanout) RenderCharts(series []Series) {
	for _, r := range f {
		r.RenderCharts(series)
	}
}

func (f Fanout) RenderStatus(status Status) {
	for _, r := range f {
		r.RenderStatus(status)
	}
}

func (f Fanout) RenderRefreshing(busy bool) {
	for _, r := range f {
		r.RenderRefreshing(busy)
	}
}

// Board keeps the last rendered content of every view in memory; the HTTP
// layer reads it back.
type Board struct {
	mu         sync.RWMutex
	cards      map[models.SensorKind]Card
	table      []TableRow
	alerts     []models.AlertRecord
	mapView    MapView
	charts     []Series
	status     Status
	refreshing bool
}

// BoardView is a copy of everything the board currently shows.
type BoardView struct {
	Cards      []Card               `json:"cards"`
	Alerts     []models.AlertRecord `json:"alerts"`
	Map        MapView              `json:"map"`
	Charts     []Series             `json:"charts"`
	Table      []TableRow           `json:"-"`
	Status     Status               `json:"status"`
	Refreshing bool                 `json:"refreshing"`
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{
		cards:   make(map[models.SensorKind]Card, len(models.Kinds)),
		table:   []TableRow{},
		alerts:  []models.AlertRecord{},
		mapView: MapView{Points: []MapPoint{}},
		charts:  []Series{},
	}
}

// RenderCards updates the given cards and keeps the others as they were.
func (b *Board) RenderCards(cards []Card) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range cards {
		b.cards[c.Kind] = c
	}
}

func (b *Board) RenderTable(rows []TableRow) {
	b.mu.Lock()
	b.table = rows
	b.mu.Unlock()
}

func (b *Board) RenderAlerts(alerts []models.AlertRecord) {
	b.mu.Lock()
	b.alerts = alerts
	b.mu.Unlock()
}

func (b *Board) RenderMap(view MapView) {
	b.mu.Lock()
	b.mapView = view
	b.mu.Unlock()
}

func (b *Board) RenderCharts(series []Series) {
	b.mu.Lock()
	b.charts = series
	b.mu.Unlock()
}

func (b *Board) RenderStatus(status Status) {
	b.mu.Lock()
	b.status = status
	b.mu.Unlock()
}

func (b *Board) RenderRefreshing(busy bool) {
	b.mu.Lock()
	b.refreshing = busy
	b.mu.Unlock()
}

// View returns a snapshot of the board. Cards follow the fixed medium order.
func (b *Board) View() BoardView {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cards := make([]Card, 0, len(b.cards))
	for _, kind := range models.Kinds {
		if c, ok := b.cards[kind]; ok {
			cards = append(cards, c)
		}
	}
	return BoardView{
		Cards:      cards,
		Alerts:     b.alerts,
		Map:        b.mapView,
		Charts:     b.charts,
		Table:      b.table,
		Status:     b.status,
		Refreshing: b.refreshing,
	}
}
