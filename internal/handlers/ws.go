package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/taskhive-dev/taskhive/internal/metrics"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// RefreshMessage tells clients to invalidate cached queries for a resource.
type RefreshMessage struct {
	Type        string `json:"type"`
	Resource    string `json:"resource"`
	WorkspaceID uint   `json:"workspaceId"`
}

// wsClient serializes writes; gorilla connections allow one writer at a time.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return fn()
}

// Hub tracks websocket clients per workspace.
type Hub struct {
	mu       sync.RWMutex
	clients  map[uint]map[*wsClient]bool
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

func NewHub(allowedOrigins []string, log *logrus.Entry) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &Hub{
		clients: make(map[uint]map[*wsClient]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// non-browser clients send no Origin
				return origin == "" || allowed[origin]
			},
		},
		log: log,
	}
}

func (h *Hub) add(workspaceID uint, c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[workspaceID] == nil {
		h.clients[workspaceID] = make(map[*wsClient]bool)
	}
	h.clients[workspaceID][c] = true
	metrics.ActiveSockets.Inc()
}

func (h *Hub) remove(workspaceID uint, c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, exists := h.clients[workspaceID]
	if !exists || !clients[c] {
		return
	}

	delete(clients, c)
	if len(clients) == 0 {
		delete(h.clients, workspaceID)
	}
	metrics.ActiveSockets.Dec()
	c.conn.Close()
}

// Count returns the number of open connections for a workspace.
func (h *Hub) Count(workspaceID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[workspaceID])
}

func (h *Hub) BroadcastRefresh(workspaceID uint, resource string) {
	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients[workspaceID]))
	for c := range h.clients[workspaceID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	msg := RefreshMessage{Type: "refresh", Resource: resource, WorkspaceID: workspaceID}

	for _, c := range clients {
		err := c.write(func() error { return c.conn.WriteJSON(msg) })

		if err != nil {
			h.log.WithError(err).WithField("workspace_id", workspaceID).Debug("dropping websocket client")
			h.remove(workspaceID, c)
		}
	}
}

// Serve upgrades the request and blocks until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, workspaceID uint) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &wsClient{conn: conn}

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.add(workspaceID, c)
	defer h.remove(workspaceID, c)

	err = c.write(func() error {
		return conn.WriteJSON(RefreshMessage{Type: "connected", WorkspaceID: workspaceID})
	})
	if err != nil {
		return
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := c.write(func() error { return conn.WriteMessage(websocket.PingMessage, nil) }); err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).WithField("workspace_id", workspaceID).Debug("websocket closed")
			}
			return
		}
	}
}

// WebSocket subscribes a workspace member to refresh notifications.
func (h *Handler) WebSocket(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx, "workspaceId")

	if err != nil {
		fail(ctx, err)
		return
	}

	if _, err := h.authorize(ctx, workspaceID, types.PermViewOnly); err != nil {
		fail(ctx, err)
		return
	}

	h.Hub.Serve(ctx.Writer, ctx.Request, workspaceID)
}
