// Package websocket maintains the single streaming connection a client holds
// against the platform and multiplexes logical channel subscriptions over it.
//
// The connection follows a small state machine: Unconnected until the first
// Subscribe, Connecting while the socket is being dialed, Subscribed once the
// signed handshake has been sent, and Closed after an explicit Unsubscribe.
// Closed is terminal. An abnormal disconnect (the socket drops without a
// close handshake) never surfaces to callers: the connector redials and
// resends every recorded handshake until the channel is alive again.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/gorilla/websocket"

	"github.com/veiloq/threecommas-connector/pkg/logging"
)

// State describes the lifecycle of the streaming connection.
type State int

const (
	// StateUnconnected means no socket exists yet
	StateUnconnected State = iota

	// StateConnecting means the socket is being dialed, handshake not yet sent
	StateConnecting

	// StateSubscribed means the handshake has been sent and inbound messages
	// are being delivered
	StateSubscribed

	// StateClosed means the connection was deliberately closed; terminal
	StateClosed
)

// String returns the string representation of a connection state
func (s State) String() string {
	switch s {
	case StateUnconnected:
		return "unconnected"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var (
	// ErrConnectionClosed is returned when subscribing on a connector that was
	// deliberately closed. A closed connector never reopens.
	ErrConnectionClosed = errors.New("streaming connection closed")

	// ErrSubscriptionFailed is returned when the subscription handshake cannot
	// be written to the socket
	ErrSubscriptionFailed = errors.New("failed to establish subscription")
)

// ChannelHandler is a callback invoked for every inbound frame on a channel.
// messageType is the WebSocket frame type (websocket.TextMessage or
// websocket.BinaryMessage). The handler runs on the connection's delivery
// loop and must not block: the next frame is not read until it returns.
type ChannelHandler func(messageType int, message []byte)

// ChannelConnector manages the single streaming socket of a client and the
// channel subscriptions layered on it.
type ChannelConnector interface {
	// Subscribe registers a channel subscription. The first call opens the
	// socket; later calls reuse it and only send a new handshake.
	Subscribe(ctx context.Context, channel, path string, handler ChannelHandler) error

	// Unsubscribe closes the socket, tearing down every channel at once. The
	// platform protocol has no per-channel unsubscribe. No reconnect is
	// attempted after Unsubscribe.
	Unsubscribe() error

	// State returns the current connection state
	State() State
}

// Config holds streaming connection configuration
type Config struct {
	URL string

	// APIKey identifies the subscriber in the handshake payload
	APIKey string

	// Signer computes the handshake signature over a channel's path. A nil
	// Signer produces empty signatures (anonymous subscription attempts).
	Signer func(path string) string

	HandshakeTimeout time.Duration

	// DialAttempts bounds the initial dial of the first Subscribe call.
	// Reconnects after an abnormal disconnect are not bounded by it.
	DialAttempts uint
	DialDelay    time.Duration

	Logger logging.Logger
}

// subscription records one logical channel and the exact handshake frame
// sent for it, so reconnects resend a byte-identical payload.
type subscription struct {
	channel string
	path    string
	handler ChannelHandler
	frame   []byte
}

// connector implements the ChannelConnector interface
type connector struct {
	config Config

	// mu serializes every state transition: concurrent Subscribe calls must
	// not race two socket opens.
	mu     sync.Mutex
	conn   *websocket.Conn
	state  State
	subs   []*subscription
	closed bool

	writeMu sync.Mutex

	logger logging.Logger
}

// NewConnector creates a new channel connector with the given configuration
func NewConnector(config Config) ChannelConnector {
	if config.HandshakeTimeout <= 0 {
		config.HandshakeTimeout = 10 * time.Second
	}
	if config.DialAttempts == 0 {
		config.DialAttempts = 3
	}
	if config.DialDelay <= 0 {
		config.DialDelay = time.Second
	}
	if config.Logger == nil {
		config.Logger = logging.NewNopLogger()
	}

	return &connector{
		config: config,
		state:  StateUnconnected,
		logger: config.Logger,
	}
}

// Subscribe implements ChannelConnector interface
func (c *connector) Subscribe(ctx context.Context, channel, path string, handler ChannelHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	frame, err := c.handshakeFrame(channel, path)
	if err != nil {
		return fmt.Errorf("building handshake for %s: %w", channel, err)
	}
	sub := &subscription{channel: channel, path: path, handler: handler, frame: frame}

	if c.conn == nil {
		c.state = StateConnecting
		conn, err := c.dial(ctx)
		if err != nil {
			c.state = StateUnconnected
			return fmt.Errorf("dialing %s: %w", c.config.URL, err)
		}
		c.conn = conn
		go c.readPump(conn)

		// Channels recorded before the socket was lost (a server-initiated
		// close keeps them registered) come back up with the fresh socket.
		for _, existing := range c.subs {
			if err := c.writeFrame(conn, existing.frame); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrSubscriptionFailed, existing.channel, err)
			}
		}
	}

	if err := c.writeFrame(c.conn, sub.frame); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSubscriptionFailed, channel, err)
	}

	c.record(sub)
	c.state = StateSubscribed

	c.logger.Info("channel subscribed",
		logging.String("channel", channel),
		logging.String("path", path),
	)
	return nil
}

// Unsubscribe implements ChannelConnector interface
func (c *connector) Unsubscribe() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.state = StateClosed
	conn := c.conn
	c.conn = nil
	c.subs = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	c.writeMu.Lock()
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "unsubscribe"))
	c.writeMu.Unlock()

	// Give the close frame a moment on the wire before tearing down
	time.Sleep(100 * time.Millisecond)

	if err := conn.Close(); err != nil && !strings.Contains(err.Error(), "use of closed network connection") {
		return err
	}

	c.logger.Info("streaming connection closed")
	return nil
}

// State implements ChannelConnector interface
func (c *connector) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// record stores a subscription, replacing any previous one for the same
// channel so a handler re-registration does not double-deliver.
func (c *connector) record(sub *subscription) {
	for i, existing := range c.subs {
		if existing.channel == sub.channel {
			c.subs[i] = sub
			return
		}
	}
	c.subs = append(c.subs, sub)
}

// dial opens the socket, retrying transient dial failures a bounded number
// of times. Callers hold c.mu.
func (c *connector) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.HandshakeTimeout,
	}

	var conn *websocket.Conn
	err := retry.Do(
		func() error {
			var err error
			conn, _, err = dialer.DialContext(ctx, c.config.URL, nil)
			return err
		},
		retry.Attempts(c.config.DialAttempts),
		retry.Delay(c.config.DialDelay),
		retry.DelayType(retry.FixedDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("dial attempt failed",
				logging.Int("attempt", int(n+1)),
				logging.Error(err),
			)
		}),
	)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// writeFrame sends a single text frame on the socket
func (c *connector) writeFrame(conn *websocket.Conn, frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, frame)
}

// handshakeFrame builds the subscription command for a channel: an outer
// envelope {identifier, command:"subscribe"} whose identifier is the JSON
// string {channel, users:[{api_key, signature}]}, with the signature computed
// over the channel's path and an empty payload.
func (c *connector) handshakeFrame(channel, path string) ([]byte, error) {
	signature := ""
	if c.config.Signer != nil {
		signature = c.config.Signer(path)
	}

	identifier, err := json.Marshal(struct {
		Channel string `json:"channel"`
		Users   []struct {
			APIKey    string `json:"api_key"`
			Signature string `json:"signature"`
		} `json:"users"`
	}{
		Channel: channel,
		Users: []struct {
			APIKey    string `json:"api_key"`
			Signature string `json:"signature"`
		}{
			{APIKey: c.config.APIKey, Signature: signature},
		},
	})
	if err != nil {
		return nil, err
	}

	return json.Marshal(struct {
		Identifier string `json:"identifier"`
		Command    string `json:"command"`
	}{
		Identifier: string(identifier),
		Command:    "subscribe",
	})
}

// readPump delivers inbound frames until the socket dies, then classifies
// the disconnect.
func (c *connector) readPump(conn *websocket.Conn) {
	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			c.handleDisconnect(conn, err)
			return
		}
		c.dispatch(messageType, message)
	}
}

// dispatch forwards a frame to the matching channel handler. Frames whose
// identifier cannot be resolved to a known channel (welcome and ping frames
// carry none) go to every handler. Delivery is synchronous: the next frame
// is not read until the handlers return.
func (c *connector) dispatch(messageType int, message []byte) {
	channel := ""
	var frame struct {
		Identifier string `json:"identifier"`
	}
	if err := json.Unmarshal(message, &frame); err == nil && frame.Identifier != "" {
		var id struct {
			Channel string `json:"channel"`
		}
		if err := json.Unmarshal([]byte(frame.Identifier), &id); err == nil {
			channel = id.Channel
		}
	}

	c.mu.Lock()
	subs := make([]*subscription, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, sub := range subs {
		if channel != "" && sub.channel != channel {
			continue
		}
		if sub.handler != nil {
			sub.handler(messageType, message)
		}
	}
}

// handleDisconnect decides whether a dead socket means a deliberate close, a
// server-initiated shutdown, or an abnormal drop that must be healed.
func (c *connector) handleDisconnect(conn *websocket.Conn, err error) {
	c.mu.Lock()
	if c.conn != conn {
		// A stale pump from a connection already replaced. Close it so it
		// cannot linger half-open.
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	c.conn = nil
	_ = conn.Close()

	if c.closed {
		c.state = StateClosed
		c.mu.Unlock()
		return
	}

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		// The server completed a close handshake. Not an abnormal drop, so
		// no automatic recovery.
		c.state = StateUnconnected
		c.mu.Unlock()
		c.logger.Info("streaming connection closed by server", logging.Error(err))
		return
	}

	c.state = StateUnconnected
	c.mu.Unlock()

	c.logger.Warn("abnormal streaming disconnect", logging.Error(err))
	c.reconnect()
}

// reconnect re-runs the open+handshake sequence after an abnormal drop. The
// loop is unconditional, immediate and unbounded: the channel is kept alive
// at all costs, accepting the risk of reconnect storms under a persistent
// failure.
func (c *connector) reconnect() {
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		if c.conn != nil {
			// A Subscribe call already reopened the socket in the window
			// between the disconnect bookkeeping and this loop. Dialing again
			// would orphan its connection.
			c.mu.Unlock()
			return
		}

		c.state = StateConnecting
		conn, err := c.dial(context.Background())
		if err != nil {
			c.state = StateUnconnected
			c.mu.Unlock()
			c.logger.Warn("reconnect dial failed", logging.Error(err))
			continue
		}

		resent := true
		for _, sub := range c.subs {
			if err := c.writeFrame(conn, sub.frame); err != nil {
				c.logger.Warn("handshake resend failed",
					logging.String("channel", sub.channel),
					logging.Error(err),
				)
				_ = conn.Close()
				c.state = StateUnconnected
				resent = false
				break
			}
		}
		if !resent {
			c.mu.Unlock()
			continue
		}

		c.conn = conn
		c.state = StateSubscribed
		channels := len(c.subs)
		c.mu.Unlock()

		go c.readPump(conn)

		c.logger.Info("streaming connection reestablished",
			logging.Int("channels", channels),
		)
		return
	}
}
