package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4-minimax/internal/domain"
)

// ConnectionManager handles active WebSocket connections thread-safely
type ConnectionManager struct {
	connections map[string]*websocket.Conn

	// writeMu ensures only one goroutine writes to a specific socket at a time,
	// conn.WriteJSON is not safe for concurrent use.
	writeMu map[string]*sync.Mutex

	mu sync.RWMutex // protects the maps
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
		writeMu:     make(map[string]*sync.Mutex),
	}
}

// AddConnection registers conn for playerID, closing any older connection.
func (cm *ConnectionManager) AddConnection(playerID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if oldConn, exists := cm.connections[playerID]; exists && oldConn != conn {
		oldConn.Close()
	}

	cm.connections[playerID] = conn
	cm.writeMu[playerID] = &sync.Mutex{}
}

// RemoveConnectionIfMatching avoids closing a newer connection when cleaning
// up an old one.
func (cm *ConnectionManager) RemoveConnectionIfMatching(playerID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if currentConn, exists := cm.connections[playerID]; exists && currentConn == conn {
		currentConn.Close()
		delete(cm.connections, playerID)
		delete(cm.writeMu, playerID)
	}
}

func (cm *ConnectionManager) IsConnected(playerID string) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	_, exists := cm.connections[playerID]
	return exists
}

// SendMessage sends a JSON message to a player. Players without a socket are skipped.
func (cm *ConnectionManager) SendMessage(playerID string, message domain.ServerMessage) error {
	cm.mu.RLock()
	conn, exists := cm.connections[playerID]
	mu, muExists := cm.writeMu[playerID]
	cm.mu.RUnlock()

	if !exists || !muExists {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(message)
}

// CloseAll closes every socket, used on shutdown.
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for playerID, conn := range cm.connections {
		conn.Close()
		delete(cm.connections, playerID)
		delete(cm.writeMu, playerID)
	}
}
