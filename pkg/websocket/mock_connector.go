package websocket

import (
	"context"
	"sync"
)

// MockConnector implements ChannelConnector for testing
type MockConnector struct {
	mu sync.RWMutex

	state    State
	handlers map[string]ChannelHandler
	paths    map[string]string

	// For verifying test expectations
	subscribeCalls   map[string]int
	unsubscribeCalls int

	// For simulating errors
	subscribeError   error
	unsubscribeError error
}

// NewMockConnector creates a new mock connector for testing
func NewMockConnector() *MockConnector {
	return &MockConnector{
		state:          StateUnconnected,
		handlers:       make(map[string]ChannelHandler),
		paths:          make(map[string]string),
		subscribeCalls: make(map[string]int),
	}
}

// Subscribe implements ChannelConnector interface
func (m *MockConnector) Subscribe(ctx context.Context, channel, path string, handler ChannelHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subscribeCalls[channel]++
	if m.subscribeError != nil {
		return m.subscribeError
	}
	if m.state == StateClosed {
		return ErrConnectionClosed
	}

	m.handlers[channel] = handler
	m.paths[channel] = path
	m.state = StateSubscribed
	return nil
}

// Unsubscribe implements ChannelConnector interface
func (m *MockConnector) Unsubscribe() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unsubscribeCalls++
	if m.unsubscribeError != nil {
		return m.unsubscribeError
	}

	m.handlers = make(map[string]ChannelHandler)
	m.state = StateClosed
	return nil
}

// State implements ChannelConnector interface
func (m *MockConnector) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// SimulateMessage delivers a frame to the handler registered for a channel
func (m *MockConnector) SimulateMessage(channel string, messageType int, message []byte) {
	m.mu.RLock()
	handler, exists := m.handlers[channel]
	m.mu.RUnlock()

	if exists && handler != nil {
		handler(messageType, message)
	}
}

// SetSubscribeError sets an error to be returned by Subscribe
func (m *MockConnector) SetSubscribeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribeError = err
}

// SetUnsubscribeError sets an error to be returned by Unsubscribe
func (m *MockConnector) SetUnsubscribeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unsubscribeError = err
}

// SubscribeCalls returns the number of times Subscribe was called for a channel
func (m *MockConnector) SubscribeCalls(channel string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.subscribeCalls[channel]
}

// UnsubscribeCalls returns the number of times Unsubscribe was called
func (m *MockConnector) UnsubscribeCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.unsubscribeCalls
}

// Path returns the path recorded for a subscribed channel
func (m *MockConnector) Path(channel string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paths[channel]
}
