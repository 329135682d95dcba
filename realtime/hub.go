// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Message is the server->client envelope.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// ActionJoinPoll is the only inbound action: scope future broadcasts to
// one poll's room.
const ActionJoinPoll = "join_poll"

// ClientMessage is the client->server envelope.
type ClientMessage struct {
	Action string `json:"action"`
	PollID string `json:"poll_id"`
}

type joinRequest struct {
	conn   *Conn
	pollID string
}

type outbound struct {
	room string // "" broadcasts to every connection
	data []byte
}

// Hub fans events out to WebSocket connections. A single goroutine (Run)
// owns all membership state, so rooms and the conn->client map need no
// locks. Delivery is best-effort: a consumer that cannot keep up is
// disconnected rather than allowed to block the loop, and a client that
// missed events reconciles by re-joining the poll over HTTP.
type Hub struct {
	register   chan *Conn
	unregister chan *Conn
	joins      chan joinRequest
	send       chan outbound

	// conns maps each live connection to the client identity it presented
	// at upgrade time. Connection state is meaningless across restarts, so
	// none of this is ever persisted.
	conns  map[*Conn]string
	rooms  map[string]map[*Conn]struct{}
	roomOf map[*Conn]string
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Conn),
		unregister: make(chan *Conn),
		joins:      make(chan joinRequest),
		send:       make(chan outbound, 64),
		conns:      make(map[*Conn]string),
		rooms:      make(map[string]map[*Conn]struct{}),
		roomOf:     make(map[*Conn]string),
	}
}

// Run processes hub events until ctx is cancelled. Call it in its own
// goroutine before serving connections.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.conns[c] = c.clientID
			slog.Info("socket connected", "client_id", c.clientID)

		case c := <-h.unregister:
			h.drop(c)

		case req := <-h.joins:
			h.moveToRoom(req.conn, req.pollID)

		case msg := <-h.send:
			h.deliver(msg)

		case <-ctx.Done():
			for c := range h.conns {
				h.drop(c)
			}
			return
		}
	}
}

// Broadcast sends an event to every connection.
func (h *Hub) Broadcast(event string, data any) {
	h.enqueue("", event, data)
}

// BroadcastRoom sends an event to the connections in a poll's room.
func (h *Hub) BroadcastRoom(pollID, event string, data any) {
	if pollID == "" {
		return
	}
	h.enqueue(pollID, event, data)
}

func (h *Hub) enqueue(room, event string, data any) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		slog.Error("failed to encode event", "event", event, "error", err)
		return
	}
	h.send <- outbound{room: room, data: payload}
}

func (h *Hub) deliver(msg outbound) {
	var targets map[*Conn]struct{}
	if msg.room == "" {
		targets = make(map[*Conn]struct{}, len(h.conns))
		for c := range h.conns {
			targets[c] = struct{}{}
		}
	} else {
		targets = h.rooms[msg.room]
	}

	for c := range targets {
		select {
		case c.out <- msg.data:
		default:
			// Slow consumer; at-most-once delivery means we cut it loose.
			slog.Warn("dropping slow socket", "client_id", c.clientID)
			h.drop(c)
		}
	}
}

func (h *Hub) moveToRoom(c *Conn, pollID string) {
	if _, ok := h.conns[c]; !ok {
		return
	}
	h.leaveRoom(c)
	if pollID == "" {
		return
	}

	room, ok := h.rooms[pollID]
	if !ok {
		room = make(map[*Conn]struct{})
		h.rooms[pollID] = room
	}
	room[c] = struct{}{}
	h.roomOf[c] = pollID
	slog.Info("socket joined poll room", "client_id", c.clientID, "poll_id", pollID)
}

func (h *Hub) leaveRoom(c *Conn) {
	pollID, ok := h.roomOf[c]
	if !ok {
		return
	}
	delete(h.roomOf, c)
	if room, ok := h.rooms[pollID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, pollID)
		}
	}
}

func (h *Hub) drop(c *Conn) {
	if _, ok := h.conns[c]; !ok {
		return
	}
	h.leaveRoom(c)
	delete(h.conns, c)
	close(c.out)
	slog.Info("socket disconnected", "client_id", c.clientID)
}
