package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	defaultStreamInterval = time.Second
	maxStreamInterval     = 10 * time.Second
	wsWriteTimeout        = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The stream is read-only state data, browsers on the LAN may
	// connect directly.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsEnvelope struct {
	Type  string `json:"type"`
	State any    `json:"state"`
}

// wsConnect upgrades the request and streams decoder state snapshots
// until the client disconnects. The first snapshot is sent immediately,
// then one per interval.
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	// Drain client frames so pings and close messages are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if !h.writeState(conn) {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !h.writeState(conn) {
				return
			}
		}
	}
}

func (h *Handler) writeState(conn *websocket.Conn) bool {
	state, err := h.services.GetState(context.Background())
	if err != nil {
		h.log.Errorf("websocket state load: %v", err)
		return false
	}
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(wsEnvelope{Type: "state", State: state}); err != nil {
		return false
	}
	return true
}

// parseInterval reads the stream period from ?interval= (Go duration)
// or ?interval_ms=, clamped to [100ms, 10s]. Defaults to one second.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if raw := c.Query("interval"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return clampInterval(d)
		}
	}
	if raw := c.Query("interval_ms"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil {
			return clampInterval(time.Duration(ms) * time.Millisecond)
		}
	}
	return defaultStreamInterval
}

func clampInterval(d time.Duration) time.Duration {
	if d < 100*time.Millisecond {
		return 100 * time.Millisecond
	}
	if d > maxStreamInterval {
		return maxStreamInterval
	}
	return d
}
