// Package telemetry publishes live session readouts to websocket watchers.
package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	maxWatchers   = 256
	broadcastSize = 256

	// DefaultEvery publishes one snapshot per this many HUD updates; at
	// 60 frames per second that is ten snapshots per second per session.
	DefaultEvery = 6
)

// Snapshot is one published readout. It is encoded with msgpack and sent
// as a binary websocket frame.
type Snapshot struct {
	Session  int     `msgpack:"session"`
	Player   string  `msgpack:"player"`
	Distance int     `msgpack:"distance"`
	Level    int     `msgpack:"level"`
	Energy   float64 `msgpack:"energy"`
	Status   string  `msgpack:"status"`
	At       int64   `msgpack:"at"` // unix milliseconds
}

// Options configures a Hub.
type Options struct {
	Logger *log.Logger      // discards when nil
	Every  int              // DefaultEvery when zero
	Now    func() time.Time // time.Now when nil
}

// Hub fans snapshots out to every connected watcher.
type Hub struct {
	mu       sync.RWMutex
	watchers map[*watcher]bool

	register   chan *watcher
	unregister chan *watcher
	broadcast  chan []byte
	done       chan struct{}

	upgrader websocket.Upgrader
	logger   *log.Logger
	every    int
	now      func() time.Time
}

// NewHub creates a hub. Call Run to start delivering snapshots.
func NewHub(opts Options) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	every := opts.Every
	if every <= 0 {
		every = DefaultEvery
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Hub{
		watchers:   make(map[*watcher]bool),
		register:   make(chan *watcher),
		unregister: make(chan *watcher, 16),
		broadcast:  make(chan []byte, broadcastSize),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     sameOrigin,
		},
		logger: logger,
		every:  every,
		now:    now,
	}
}

func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // Non-browser clients don't send Origin
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// Run processes register/unregister/broadcast events until ctx is done,
// then disconnects every watcher. Run must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for w := range h.watchers {
				delete(h.watchers, w)
				close(w.send)
			}
			h.mu.Unlock()
			return

		case w := <-h.register:
			h.mu.Lock()
			h.watchers[w] = true
			h.mu.Unlock()
			h.logger.Debug("watcher connected", "addr", w.addr)

		case w := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.watchers[w]; ok {
				delete(h.watchers, w)
				close(w.send)
			}
			h.mu.Unlock()
			h.logger.Debug("watcher disconnected", "addr", w.addr)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for w := range h.watchers {
				select {
				case w.send <- msg:
				default:
					// Watcher too slow, drop the frame.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Watchers returns the number of connected watchers.
func (h *Hub) Watchers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers)
}

// Publish encodes s and queues it for every watcher. It never blocks; when
// the queue is full the snapshot is dropped.
func (h *Hub) Publish(s Snapshot) {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		h.logger.Error("encode snapshot", "err", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// ServeHTTP upgrades the request to a websocket and streams snapshots to it.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Watchers() >= maxWatchers {
		http.Error(w, "too many watchers", http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade", "err", err)
		return
	}

	wt := newWatcher(h, conn, r.RemoteAddr)
	select {
	case h.register <- wt:
	case <-h.done:
		conn.Close()
		return
	}

	go wt.writePump()
	go wt.readPump()
}
