package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// MockServer represents a mock streaming endpoint for testing
type MockServer struct {
	server *httptest.Server
	url    string

	mu               sync.RWMutex
	connections      map[*websocket.Conn]bool
	totalConnections int
	onConnect        func(*websocket.Conn)
	onMessage        func(*websocket.Conn, []byte)
	messageBuffer    [][]byte

	shouldRejectConnection bool
}

// NewMockServer creates a new mock streaming server
func NewMockServer() *MockServer {
	mock := &MockServer{
		connections:   make(map[*websocket.Conn]bool),
		messageBuffer: make([][]byte, 0),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handleConnection))
	mock.url = "ws" + strings.TrimPrefix(mock.server.URL, "http")

	return mock
}

// URL returns the WebSocket URL of the mock server
func (m *MockServer) URL() string {
	return m.url
}

// Close shuts down the mock server
func (m *MockServer) Close() {
	m.server.Close()
}

// SetRejectConnection configures whether the server should reject new connections
func (m *MockServer) SetRejectConnection(reject bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldRejectConnection = reject
}

// OnConnect sets a callback for when a client connects
func (m *MockServer) OnConnect(callback func(*websocket.Conn)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onConnect = callback
}

// OnMessage sets a callback for when a message is received
func (m *MockServer) OnMessage(callback func(*websocket.Conn, []byte)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onMessage = callback
}

// Broadcast sends a text message to all connected clients
func (m *MockServer) Broadcast(message []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for conn := range m.connections {
		_ = conn.WriteMessage(websocket.TextMessage, message)
	}
}

// BroadcastBinary sends a binary message to all connected clients
func (m *MockServer) BroadcastBinary(message []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for conn := range m.connections {
		_ = conn.WriteMessage(websocket.BinaryMessage, message)
	}
}

// DropConnections abruptly closes every open connection without a close
// handshake, so clients observe an abnormal closure.
func (m *MockServer) DropConnections() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for conn := range m.connections {
		_ = conn.Close()
		delete(m.connections, conn)
	}
}

// CloseConnectionsGracefully performs a server-initiated close handshake on
// every open connection (normal closure, clients must not reconnect).
func (m *MockServer) CloseConnectionsGracefully() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for conn := range m.connections {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server shutdown"))
		delete(m.connections, conn)
	}
}

// ConnectionCount returns the number of currently open connections
func (m *MockServer) ConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// TotalConnections returns the cumulative number of connections accepted
func (m *MockServer) TotalConnections() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalConnections
}

// Messages returns a copy of all data frames received so far
func (m *MockServer) Messages() [][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := make([][]byte, len(m.messageBuffer))
	copy(messages, m.messageBuffer)
	return messages
}

// ClearMessages clears the received-message buffer
func (m *MockServer) ClearMessages() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messageBuffer = make([][]byte, 0)
}

// handleConnection handles incoming WebSocket connections
func (m *MockServer) handleConnection(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	reject := m.shouldRejectConnection
	m.mu.RUnlock()
	if reject {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	m.mu.Lock()
	m.connections[conn] = true
	m.totalConnections++
	onConnect := m.onConnect
	m.mu.Unlock()

	if onConnect != nil {
		onConnect(conn)
	}

	defer func() {
		m.mu.Lock()
		delete(m.connections, conn)
		m.mu.Unlock()
		conn.Close()
	}()

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			return
		}

		if messageType == websocket.TextMessage || messageType == websocket.BinaryMessage {
			m.mu.Lock()
			m.messageBuffer = append(m.messageBuffer, message)
			onMessage := m.onMessage
			m.mu.Unlock()

			if onMessage != nil {
				onMessage(conn, message)
			}
		}
	}
}

// setupMockServer creates a mock server bound to the test lifecycle
func setupMockServer(t *testing.T) (*MockServer, string) {
	t.Helper()
	mock := NewMockServer()
	t.Cleanup(func() {
		mock.Close()
	})
	return mock, mock.URL()
}
