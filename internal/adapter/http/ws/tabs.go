package wshandler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/internal/session"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/safebike-web/pkg/wsHub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// TabSync keeps one websocket per open tab, grouped by session key.
type TabSync struct {
	hub *ws.ConnectionHub
	l   logger.Logger
}

func NewTabSync(hub *ws.ConnectionHub, l logger.Logger) *TabSync {
	return &TabSync{
		hub: hub,
		l:   l,
	}
}

// ServeHTTP upgrades the request and blocks until the tab goes away.
func (h *TabSync) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ws_tab_sync")

	store := session.FromContext(ctx)
	if store.Key() == "" {
		http.Error(w, "session required", http.StatusBadRequest)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client
		h.l.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	// the hijacked connection outlives the request context
	// the role label only changes on login or logout, and both reload the tab
	conn := ws.NewConn(context.WithoutCancel(ctx), store.Key(), string(store.Role()), wsConn)
	if err := h.hub.Add(conn); err != nil {
		h.l.Error(ctx, "failed to register tab", err)
		_ = errorResponse(conn, "failed to register tab")
		_ = conn.Close()
		return
	}
	defer func() {
		if err := h.hub.Delete(conn); err != nil {
			h.l.Debug(ctx, "tab already removed", "conn_id", conn.ID().String())
		}
	}()

	h.l.Debug(ctx, "tab connected", "conn_id", conn.ID().String())

	if err := conn.Listen(func(map[string]any) error { return nil }); err != nil {
		h.l.Debug(ctx, "tab connection ended", "conn_id", conn.ID().String(), "reason", err.Error())
	}
}

// HubNotifier pushes tab messages to the tabs connected to this instance.
type HubNotifier struct {
	hub *ws.ConnectionHub
	l   logger.Logger
}

func NewHubNotifier(hub *ws.ConnectionHub, l logger.Logger) *HubNotifier {
	return &HubNotifier{
		hub: hub,
		l:   l,
	}
}

// Notify sends msg to the tabs it reaches. Tabs only learn the event type.
func (n *HubNotifier) Notify(ctx context.Context, msg models.TabMessage) {
	if msg.At.IsZero() {
		msg.At = time.Now().UTC()
	}

	signal := models.TabSignal{Type: msg.Type, At: msg.At}
	sent := n.hub.SendWhere(func(group, label string) bool {
		return msg.Reaches(group, types.Role(label))
	}, signal)

	n.l.Debug(ctx, "tab message delivered", "type", msg.Type.String(), "tabs", sent)
}
