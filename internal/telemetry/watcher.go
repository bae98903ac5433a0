package telemetry

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufSize    = 64
)

// watcher is one websocket connection receiving snapshots.
type watcher struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	addr string
}

func newWatcher(hub *Hub, conn *websocket.Conn, addr string) *watcher {
	return &watcher{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufSize),
		addr: addr,
	}
}

// readPump discards incoming messages and keeps the read deadline fresh
// from pongs. It unregisters the watcher when the connection ends.
func (w *watcher) readPump() {
	defer func() {
		select {
		case w.hub.unregister <- w:
		case <-w.hub.done:
		}
		w.conn.Close()
	}()

	w.conn.SetReadLimit(maxMessageSize)
	w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		w.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.hub.logger.Debug("watcher read", "addr", w.addr, "err", err)
			}
			return
		}
	}
}

// writePump sends queued snapshots as binary frames and pings periodically.
func (w *watcher) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		w.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-w.send:
			w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				w.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := w.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
