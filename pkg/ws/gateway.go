package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"rosechat/pkg/chat"
	"rosechat/pkg/hub"
	"rosechat/pkg/logger"
	"rosechat/pkg/models"
	"rosechat/pkg/utils"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 45 * time.Second
	pingInterval      = 15 * time.Second
	defaultMaxPayload = 64 << 10
)

// InventorySource supplies a persisted inventory at join time when the
// join payload omits one. It is never consulted after join.
type InventorySource interface {
	Inventory(name string) (models.Inventory, error)
}

// Options tunes the gateway.
type Options struct {
	AllowedOrigins []string
	MaxPayload     int64
	RPS            float64
	Burst          int
}

// Gateway upgrades HTTP connections to websocket sessions and shuttles
// frames between each connection and the room.
type Gateway struct {
	room       *chat.Room
	hub        *hub.Hub
	inventory  InventorySource
	upgrader   websocket.Upgrader
	limiters   limiterPool
	maxPayload int64
}

func NewGateway(room *chat.Room, h *hub.Hub, inv InventorySource, opts Options) *Gateway {
	maxPayload := opts.MaxPayload
	if maxPayload <= 0 {
		maxPayload = defaultMaxPayload
	}
	g := &Gateway{
		room:       room,
		hub:        h,
		inventory:  inv,
		limiters:   limiterPool{rps: opts.RPS, burst: opts.Burst},
		maxPayload: maxPayload,
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}
	return g
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// ServeHTTP handles GET /v1/ws.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("ws_upgrade_failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	connID := utils.GenConnID()
	out := g.hub.Attach(connID)
	logger.Info("ws_connected", "conn", connID, "remote", r.RemoteAddr)

	go g.writePump(connID, conn, out)
	g.readPump(connID, conn)
}

// readPump consumes inbound frames until the connection drops. Transport
// teardown is the disconnect event for the session.
func (g *Gateway) readPump(connID string, conn *websocket.Conn) {
	defer func() {
		g.hub.Detach(connID)
		g.room.Leave(connID)
		g.limiters.drop(connID)
		_ = conn.Close()
		logger.Info("ws_disconnected", "conn", connID)
	}()

	conn.SetReadLimit(g.maxPayload)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws_read_error", "conn", connID, "error", err)
			}
			return
		}
		if !g.limiters.Allow(connID) {
			logger.Warn("ws_frame_throttled", "conn", connID)
			continue
		}
		var f models.Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			logger.Debug("ws_bad_frame", "conn", connID, "error", err)
			continue
		}
		g.dispatch(connID, f)
	}
}

func (g *Gateway) dispatch(connID string, f models.Frame) {
	switch f.Type {
	case models.EventJoin:
		var p models.JoinPayload
		if err := json.Unmarshal(f.Payload, &p); err != nil || p.UserName == "" {
			logger.Debug("ws_bad_join", "conn", connID)
			return
		}
		inv := p.Inventory
		if len(inv) == 0 && g.inventory != nil {
			stored, err := g.inventory.Inventory(p.UserName)
			if err == nil {
				inv = stored
			}
		}
		g.room.Join(connID, p.UserName, inv)
	case models.EventSendMessage:
		var p models.SendMessagePayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			return
		}
		_, _ = g.room.SendMessage(connID, p.Content, p.RequiredTokens)
	case models.EventSendRose:
		var p models.SendRosePayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			return
		}
		_, _ = g.room.ToggleRose(connID, p.TargetUserName, p.MessageID)
	case models.EventUpdateInventory:
		var p models.UpdateInventoryPayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			return
		}
		_ = g.room.UpdateInventory(connID, p.Inventory)
	default:
		logger.Debug("ws_unknown_event", "conn", connID, "type", f.Type)
	}
}

// writePump serializes outbound frames and keeps the connection alive
// with pings. It exits when the hub closes the connection's channel.
func (g *Gateway) writePump(connID string, conn *websocket.Conn, out <-chan models.Frame) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case f, ok := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(f); err != nil {
				logger.Debug("ws_write_failed", "conn", connID, "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
