package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pulsemon/pulsemon/internal/daystore"
	"github.com/pulsemon/pulsemon/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// Envelope is the wire format for every observer message.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

const (
	TypeCurrentState       = "currentState"
	TypeNewCheck           = "newCheck"
	TypeSummaryUpdate      = "summaryUpdate"
	TypeDailySummaryUpdate = "dailySummaryUpdate"
)

// client is one connected observer. All writes to conn go through the
// writePump goroutine draining send, so the connection only ever has a
// single writer. done is closed exactly once, by drop.
type client struct {
	conn *websocket.Conn
	send chan Envelope
	done chan struct{}
}

// Hub fans monitor events out to connected observers. A dead or slow
// observer is dropped; the store and the remaining observers are
// unaffected.
type Hub struct {
	logger   *zap.Logger
	store    *daystore.Store
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]bool
}

func NewHub(logger *zap.Logger, store *daystore.Store) *Hub {
	return &Hub{
		logger: logger,
		store:  store,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]bool),
	}
}

// ServeHTTP upgrades the connection, replays the full current state to
// the new observer, and keeps it registered until its read loop ends.
// The currentState envelope is queued while the registration lock is
// held, so no broadcast can reach the observer ahead of the replay.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws_upgrade_failed", zap.Error(err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan Envelope, sendBuffer),
		done: make(chan struct{}),
	}
	snap := h.store.Snapshot()

	h.mu.Lock()
	h.clients[c] = true
	c.send <- Envelope{Type: TypeCurrentState, Payload: snap} // fresh buffered channel, never blocks
	h.mu.Unlock()

	h.logger.Info("observer_connected", zap.String("remote", r.RemoteAddr))
	go h.writePump(c)
	h.readLoop(c)
}

// ClientCount reports the number of connected observers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) PublishCheck(r domain.CheckResult) {
	h.broadcast(TypeNewCheck, r)
}

func (h *Hub) PublishSummary(s domain.Summary) {
	h.broadcast(TypeSummaryUpdate, s)
}

func (h *Hub) PublishDays(days []domain.DayBucket) {
	h.broadcast(TypeDailySummaryUpdate, days)
}

func (h *Hub) broadcast(typ string, payload any) {
	// Copy the set so the lock is not held while queueing.
	h.mu.RLock()
	conns := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	e := Envelope{Type: typ, Payload: payload}
	for _, c := range conns {
		select {
		case c.send <- e:
		default:
			// Observer is not draining its buffer; cut it loose.
			h.logger.Debug("ws_observer_too_slow", zap.String("event", typ))
			h.drop(c)
		}
	}
}

// writePump is the connection's sole writer: it drains the outbound
// queue and keeps the peer alive with pings until the client is dropped.
func (h *Hub) writePump(c *client) {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	for {
		select {
		case e := <-c.send:
			if err := writeEnvelope(c.conn, e); err != nil {
				h.logger.Debug("ws_write_failed", zap.String("event", e.Type), zap.Error(err))
				h.drop(c)
				return
			}
		case <-t.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				h.drop(c)
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.drop(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// Observers do not speak; we only drain until the peer goes away.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// drop deregisters and closes a client; safe to call more than once.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		close(c.done)
		_ = c.conn.Close()
	}
}

func writeEnvelope(c *websocket.Conn, e Envelope) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.WriteJSON(e)
}
