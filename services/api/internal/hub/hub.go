package hub

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/views"
)

const broadcastBuffer = 64

// Message is the envelope pushed to every websocket client.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub fans rendered views out to connected websocket clients. It implements
// views.Renderer.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	count      atomic.Int64
	done       chan struct{}
	initial    func() any
	log        zerolog.Logger
}

// New creates a hub. initial, when set, provides the snapshot sent to each
// client as it connects.
func New(initial func() any, log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		initial:    initial,
		log:        log.With().Str("component", "hub").Logger(),
	}
}

// Run owns the client set until ctx is done. It must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Store(int64(len(h.clients)))
			h.log.Debug().Str("client", c.id).Str("remote", c.remote()).Msg("websocket client registered")
			if h.initial != nil {
				if msg, err := encode("snapshot", h.initial()); err == nil {
					c.trySend(msg)
				}
			}

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.log.Debug().Str("client", c.id).Msg("websocket client unregistered")
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				if !c.trySend(msg) {
					h.log.Warn().Str("client", c.id).Msg("websocket client too slow, dropping")
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Store(int64(len(h.clients)))
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int { return int(h.count.Load()) }

func encode(kind string, payload any) ([]byte, error) {
	return json.Marshal(Message{Type: kind, Payload: payload})
}

// Publish queues a message for every client. It never blocks; when the queue
// is full the message is dropped.
func (h *Hub) Publish(kind string, payload any) {
	msg, err := encode(kind, payload)
	if err != nil {
		h.log.Error().Err(err).Str("type", kind).Msg("encode websocket message")
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Str("type", kind).Msg("websocket broadcast queue full, dropping message")
	}
}

func (h *Hub) RenderCards(cards []views.Card) { h.Publish("cards", cards) }
func (h *Hub) RenderTable(rows []views.TableRow) { h.Publish("table", rows) }
func (h *Hub) RenderAlerts(alerts []models.AlertRecord) { h.Publish("alerts", alerts) }
func (h *Hub) RenderMap(view views.MapView) { h.Publish("map", view) }
func (h *Hub) RenderCharts(series []views.Series) { h.Publish("charts", series) }
func (h *Hub) RenderStatus(status views.Status) { h.Publish("status", status) }
func (h *Hub) RenderRefreshing(busy bool) { h.Publish("refreshing", busy) }
