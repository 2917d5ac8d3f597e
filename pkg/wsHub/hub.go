package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/Temutjin2k/safebike-web/pkg/logger"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
	"github.com/Temutjin2k/safebike-web/pkg/metrics"
	"github.com/google/uuid"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// ConnectionHub keeps every open websocket, grouped by browser session.
// One session may have many tabs open, so a group holds many connections.
type ConnectionHub struct {
	service string
	groups  map[string]map[uuid.UUID]*Conn
	l       logger.Logger
	mu      sync.RWMutex
}

func NewConnHub(service string, l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		service: service,
		groups:  make(map[string]map[uuid.UUID]*Conn),
		l:       l,
	}
}

// Add registers a connection under its group.
func (h *ConnectionHub) Add(conn *Conn) error {
	if conn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.groups[conn.group] == nil {
		h.groups[conn.group] = make(map[uuid.UUID]*Conn)
	}
	h.groups[conn.group][conn.id] = conn
	metrics.WebSocketConnectionsGauge.WithLabelValues(h.service).Inc()

	return nil
}

// Delete removes and closes one connection.
func (h *ConnectionHub) Delete(conn *Conn) error {
	if conn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	group, ok := h.groups[conn.group]
	if ok {
		_, ok = group[conn.id]
	}
	if ok {
		delete(group, conn.id)
		if len(group) == 0 {
			delete(h.groups, conn.group)
		}
		metrics.WebSocketConnectionsGauge.WithLabelValues(h.service).Dec()
	}
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}

	if err := conn.Close(); err != nil {
		h.l.Debug(wrap.WithAction(context.Background(), "ws_connection_delete"),
			"failed to close conn", "conn_id", conn.id.String(), "err", err.Error())
	}
	return nil
}

// SendTo sends msg to every connection of a group and returns how many got it.
func (h *ConnectionHub) SendTo(group string, msg any) int {
	return h.send(h.snapshot(group), msg)
}

// Broadcast sends msg to every connection.
func (h *ConnectionHub) Broadcast(msg any) int {
	return h.send(h.snapshot(""), msg)
}

// SendWhere sends msg to every connection match accepts.
func (h *ConnectionHub) SendWhere(match func(group, label string) bool, msg any) int {
	var conns []*Conn
	for _, c := range h.snapshot("") {
		if match(c.group, c.label) {
			conns = append(conns, c)
		}
	}
	return h.send(conns, msg)
}

func (h *ConnectionHub) send(conns []*Conn, msg any) int {
	sent := 0
	for _, c := range conns {
		if err := c.Send(msg); err != nil {
			h.l.Debug(wrap.WithAction(context.Background(), "ws_send"),
				"dropping broken connection", "conn_id", c.id.String(), "err", err.Error())
			_ = h.Delete(c)
			continue
		}
		sent++
	}
	return sent
}

// snapshot copies the connections of group, or of all groups when group is empty.
func (h *ConnectionHub) snapshot(group string) []*Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var conns []*Conn
	for g, members := range h.groups {
		if group != "" && g != group {
			continue
		}
		for _, c := range members {
			conns = append(conns, c)
		}
	}
	return conns
}

// Count returns the number of open connections.
func (h *ConnectionHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, members := range h.groups {
		n += len(members)
	}
	return n
}

// Close closes every websocket connection.
func (h *ConnectionHub) Close() {
	for _, c := range h.snapshot("") {
		_ = h.Delete(c)
	}

	h.l.Info(wrap.WithAction(context.Background(), "hub_close"), "all websocket connections closed gracefully")
}
