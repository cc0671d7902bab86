package services

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"inventra-backend/shared/config"
	"inventra-backend/shared/database/models/notification"
)

// WebSocketManager tracks one live connection per principal
type WebSocketManager struct {
	mu       sync.Mutex
	clients  map[string]*websocket.Conn
	upgrader websocket.Upgrader
}

var (
	wsManager *WebSocketManager
	once      sync.Once
)

// GetWebSocketManager returns the shared connection manager
func GetWebSocketManager() *WebSocketManager {
	once.Do(func() {
		wsManager = &WebSocketManager{
			clients: make(map[string]*websocket.Conn),
			upgrader: websocket.Upgrader{
				CheckOrigin: func(r *http.Request) bool {
					origin := r.Header.Get("Origin")
					if origin == config.GetConfig().FrontendURL {
						return true
					}
					log.Printf("🚫 WebSocket connection rejected from origin: %s", origin)
					return false
				},
			},
		}
	})
	return wsManager
}

// attach stores the connection, replacing any previous one for the principal
func (wsm *WebSocketManager) attach(principalID string, conn *websocket.Conn) {
	wsm.mu.Lock()
	if old, ok := wsm.clients[principalID]; ok {
		old.Close()
	}
	wsm.clients[principalID] = conn
	total := len(wsm.clients)
	wsm.mu.Unlock()

	log.Printf("🔌 WebSocket client connected: %s (Total: %d)", principalID, total)
}

// detach removes the connection if it is still the principal's current one
func (wsm *WebSocketManager) detach(principalID string, conn *websocket.Conn) {
	wsm.mu.Lock()
	defer wsm.mu.Unlock()

	if current, ok := wsm.clients[principalID]; ok && current == conn {
		delete(wsm.clients, principalID)
		conn.Close()
		log.Printf("🔌 WebSocket client disconnected: %s (Total: %d)", principalID, len(wsm.clients))
	}
}

// SendToPrincipal delivers a message to the principal's live connection
func (wsm *WebSocketManager) SendToPrincipal(principalID string, message *notification.WebSocketMessage) error {
	wsm.mu.Lock()
	conn, ok := wsm.clients[principalID]
	wsm.mu.Unlock()

	if !ok {
		return fmt.Errorf("principal %s not connected", principalID)
	}

	if err := conn.WriteJSON(message); err != nil {
		log.Printf("❌ Failed to send message to principal %s: %v", principalID, err)
		wsm.detach(principalID, conn)
		return err
	}

	log.Printf("📱 Message sent to principal %s: %s", principalID, message.Message)
	return nil
}

// HandleWebSocketConnection upgrades the request and serves the connection
// until the client goes away
func (wsm *WebSocketManager) HandleWebSocketConnection(c *gin.Context) {
	principalID := c.Param("principal_id")
	if principalID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Principal ID required"})
		return
	}

	conn, err := wsm.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Failed to upgrade WebSocket: %v", err)
		return
	}

	wsm.attach(principalID, conn)
	defer wsm.detach(principalID, conn)

	wsm.SendToPrincipal(principalID, &notification.WebSocketMessage{
		Type:        notification.EventConnection,
		Level:       notification.NotificationLevelInfo,
		Title:       "🔌 Connected",
		Message:     "WebSocket connection established",
		Timestamp:   notification.GetCurrentTime(),
		PrincipalID: parseUUID(principalID),
	})

	for {
		var incoming map[string]interface{}
		if err := conn.ReadJSON(&incoming); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ WebSocket error for principal %s: %v", principalID, err)
			}
			return
		}

		// Clients may ping to keep proxies from closing idle connections
		if incoming["type"] == "ping" {
			wsm.SendToPrincipal(principalID, &notification.WebSocketMessage{
				Type:        "pong",
				Level:       notification.NotificationLevelInfo,
				Message:     "pong",
				Timestamp:   notification.GetCurrentTime(),
				PrincipalID: parseUUID(principalID),
			})
		}
	}
}

// parseUUID parses a UUID string, returning uuid.Nil on failure
func parseUUID(str string) uuid.UUID {
	if id, err := uuid.Parse(str); err == nil {
		return id
	}
	return uuid.Nil
}
