package main

import (
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

const maxNameLength = 64

// ClientMessage is an inbound websocket event from a player. Coordinates are
// pointers so a missing field is distinguishable from zero.
type ClientMessage struct {
	Type      string   `json:"type"` // "join" or "guess"
	Name      string   `json:"name,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Session is the broadcast gateway for the single live game: it owns the set
// of connected clients, validates inbound events, funnels them through the
// SessionStore, and pushes every resulting snapshot to all clients.
type Session struct {
	store *SessionStore

	// Serializes apply+broadcast so snapshots go out in the order their
	// transitions were applied.
	applyMu sync.Mutex

	mu      sync.Mutex
	clients map[*Client]bool
}

func newSession(store *SessionStore) *Session {
	return &Session{
		store:   store,
		clients: make(map[*Client]bool),
	}
}

// register admits a client and immediately sends it the current snapshot,
// so a fresh page load renders without waiting for the next event. Holding
// applyMu here means a client is either registered before a broadcast (and
// receives it) or after (and its snapshot already includes it) - never
// neither.
func (s *Session) register(cfg *Config, c *Client) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	payload, err := s.store.Snapshot()
	if err != nil {
		logf(cfg, "GAME: Snapshot failed: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients[c] = true
	if err == nil {
		select {
		case c.send <- payload:
		default:
		}
	}
}

func (s *Session) unregister(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Session) clientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.clients)
}

// apply runs one transition and broadcasts the resulting snapshot. Events
// that lose the race to a phase change still broadcast; the state machine
// has already absorbed them as no-ops.
func (s *Session) apply(cfg *Config, fn func(State) State) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	payload, err := s.store.Apply(fn)
	if err != nil {
		logf(cfg, "GAME: Serialize failed: %v", err)
		return
	}

	s.broadcast(payload)
}

func (s *Session) broadcast(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for client := range s.clients {
		select {
		case client.send <- payload:
		default:
			delete(s.clients, client)
			close(client.send)
		}
	}
}

// Advance steps the game forwards. Called by the operator producers (console
// loop, HTTP trigger), never by players.
func (s *Session) Advance(cfg *Config) {
	s.apply(cfg, advance)
	logf(cfg, "GAME: Advanced")
}

// handle validates one inbound event and dispatches it to the state machine.
// Malformed payloads are dropped here; transitions assume well-formed input.
func (s *Session) handle(cfg *Config, msg ClientMessage) {
	name := strings.TrimSpace(msg.Name)

	switch msg.Type {
	case "join":
		if name == "" || len(name) > maxNameLength {
			return
		}
		s.apply(cfg, func(state State) State {
			return addPlayer(state, name)
		})
		logf(cfg, "GAME: Player %q joined", name)

	case "guess":
		if name == "" || len(name) > maxNameLength {
			return
		}
		if msg.Latitude == nil || msg.Longitude == nil {
			return
		}
		lat, lon := *msg.Latitude, *msg.Longitude
		if !validCoords(lat, lon) {
			return
		}
		s.apply(cfg, func(state State) State {
			return submitGuess(state, name, lat, lon)
		})

	default:
		// ignore unknown types
	}
}

func (c *Client) readPump(cfg *Config, s *Session) {
	defer func() {
		s.unregister(c)
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		s.handle(cfg, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
