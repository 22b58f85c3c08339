package threecommas

import (
	"context"
	"errors"

	"github.com/veiloq/threecommas-connector/pkg/websocket"
)

// Streaming channels the platform exposes and the paths their subscription
// handshakes are signed over.
const (
	SmartTradesChannel     = "SmartTradesChannel"
	SmartTradesChannelPath = "/smart_trades"

	DealsChannel     = "DealsChannel"
	DealsChannelPath = "/deals"
)

// StreamHandler receives every inbound frame addressed to the subscribed
// channel. messageType is the WebSocket frame type. The handler runs on the
// connection's delivery loop and must not block.
type StreamHandler = websocket.ChannelHandler

// SubscribeSmartTrade opens a streaming subscription for smart trade events.
// The first subscription on a client dials the socket; further subscriptions
// share it. A dropped connection is redialed transparently.
func (c *Client) SubscribeSmartTrade(ctx context.Context, handler StreamHandler) error {
	return c.subscribeChannel(ctx, SmartTradesChannel, SmartTradesChannelPath, handler)
}

// SubscribeDeal opens a streaming subscription for deal events
func (c *Client) SubscribeDeal(ctx context.Context, handler StreamHandler) error {
	return c.subscribeChannel(ctx, DealsChannel, DealsChannelPath, handler)
}

func (c *Client) subscribeChannel(ctx context.Context, channel, path string, handler StreamHandler) error {
	err := c.stream.Subscribe(ctx, channel, path, handler)
	if errors.Is(err, websocket.ErrConnectionClosed) {
		return ErrStreamClosed
	}
	return err
}

// Unsubscribe closes the streaming connection, tearing down every channel at
// once. The platform protocol has no per-channel unsubscribe. The client's
// REST methods keep working; streaming cannot be reopened on this client.
func (c *Client) Unsubscribe() error {
	return c.stream.Unsubscribe()
}

// StreamState reports the current state of the streaming connection
func (c *Client) StreamState() websocket.State {
	return c.stream.State()
}
