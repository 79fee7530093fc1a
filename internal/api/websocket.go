package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"nhooyr.io/websocket"

	"github.com/mehedi/streambox/internal/catalog"
)

// ──────────────────── WebSocket Hub ────────────────────

// WSHub fans catalog snapshots and banner rotation events out to every
// connected browsing client. Clients are read-only; the hub never expects
// inbound messages beyond keepalive pings.
type WSHub struct {
	feed *catalog.Feed

	mu      sync.RWMutex
	clients map[*WSClient]bool

	cbMu        sync.Mutex
	onSnapshot  []func(catalog.Snapshot)
	unsubscribe func()
	done        chan struct{}
	started     bool
}

type WSClient struct {
	conn *websocket.Conn
	send chan []byte
}

type WSMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func NewWSHub(feed *catalog.Feed) *WSHub {
	return &WSHub{
		feed:    feed,
		clients: make(map[*WSClient]bool),
		done:    make(chan struct{}),
	}
}

// Run starts forwarding feed snapshots to connected clients. Each update
// replaces whatever a slow client has not read yet.
func (h *WSHub) Run() {
	h.cbMu.Lock()
	if h.started {
		h.cbMu.Unlock()
		return
	}
	h.started = true
	h.cbMu.Unlock()

	updates, cancel := h.feed.Subscribe()
	h.unsubscribe = cancel

	go func() {
		defer close(h.done)
		for snap := range updates {
			h.notifySnapshot(snap)
			h.Broadcast("catalog:update", snap)
		}
	}()
}

// OnSnapshot registers a callback invoked on every feed update, before the
// snapshot is broadcast to clients.
func (h *WSHub) OnSnapshot(fn func(catalog.Snapshot)) {
	h.cbMu.Lock()
	defer h.cbMu.Unlock()
	h.onSnapshot = append(h.onSnapshot, fn)
}

func (h *WSHub) notifySnapshot(snap catalog.Snapshot) {
	h.cbMu.Lock()
	callbacks := append(([]func(catalog.Snapshot))(nil), h.onSnapshot...)
	h.cbMu.Unlock()
	for _, fn := range callbacks {
		fn(snap)
	}
}

// BroadcastBannerIndex announces that the banner carousel advanced.
func (h *WSHub) BroadcastBannerIndex(index int) {
	h.Broadcast("banner:rotate", map[string]int{"index": index})
}

func (h *WSHub) Broadcast(event string, data interface{}) {
	msg, err := json.Marshal(WSMessage{Event: event, Data: data})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		// Drop the stale message for a slow client, keep the newest.
		select {
		case <-client.send:
		default:
		}
		select {
		case client.send <- msg:
		default:
		}
	}
}

func (h *WSHub) addClient(c *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

func (h *WSHub) removeClient(c *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close detaches from the feed and disconnects every client.
func (h *WSHub) Close() {
	h.cbMu.Lock()
	started := h.started
	h.cbMu.Unlock()

	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	if started {
		<-h.done
	}

	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*WSClient]bool)
	h.mu.Unlock()
	for c := range clients {
		close(c.send)
	}
}

// ──────────────────── WebSocket Handler ────────────────────

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Printf("[api] websocket accept error: %v", err)
		return
	}

	client := &WSClient{
		conn: conn,
		send: make(chan []byte, 8),
	}
	s.hub.addClient(client)

	// New clients get the current snapshot immediately rather than waiting
	// for the next change.
	snap := s.feed.Snapshot()
	if msg, err := json.Marshal(WSMessage{Event: "catalog:update", Data: snap}); err == nil {
		client.send <- msg
	}

	ctx := r.Context()

	// Writer goroutine
	go func() {
		defer conn.Close(websocket.StatusNormalClosure, "")
		for msg := range client.send {
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}()

	// Reader loop keeps the connection alive and detects the close.
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}

	s.hub.removeClient(client)
}
