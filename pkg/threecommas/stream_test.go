package threecommas

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veiloq/threecommas-connector/pkg/websocket"
)

// newStreamTestClient swaps the real connector for a mock so channel wiring
// can be verified without a socket
func newStreamTestClient(t *testing.T) (*Client, *websocket.MockConnector) {
	t.Helper()

	client, err := NewClient(NewOptions().WithCredentials(testAPIKey, testSecret))
	require.NoError(t, err)

	mock := websocket.NewMockConnector()
	client.stream = mock
	return client, mock
}

func TestSubscribeDealWiresChannelAndPath(t *testing.T) {
	client, mock := newStreamTestClient(t)

	err := client.SubscribeDeal(context.Background(), func(messageType int, message []byte) {})
	require.NoError(t, err)

	assert.Equal(t, 1, mock.SubscribeCalls(DealsChannel))
	assert.Equal(t, DealsChannelPath, mock.Path(DealsChannel))
	assert.Equal(t, websocket.StateSubscribed, client.StreamState())
}

func TestSubscribeSmartTradeWiresChannelAndPath(t *testing.T) {
	client, mock := newStreamTestClient(t)

	err := client.SubscribeSmartTrade(context.Background(), func(messageType int, message []byte) {})
	require.NoError(t, err)

	assert.Equal(t, 1, mock.SubscribeCalls(SmartTradesChannel))
	assert.Equal(t, SmartTradesChannelPath, mock.Path(SmartTradesChannel))
}

func TestStreamMessagesReachHandler(t *testing.T) {
	client, mock := newStreamTestClient(t)

	var received [][]byte
	err := client.SubscribeDeal(context.Background(), func(messageType int, message []byte) {
		received = append(received, message)
	})
	require.NoError(t, err)

	payload := []byte(`{"identifier":"{\"channel\":\"DealsChannel\"}","message":{"id":42}}`)
	mock.SimulateMessage(DealsChannel, 1, payload)

	require.Len(t, received, 1)
	assert.Equal(t, payload, received[0])
}

func TestUnsubscribeClosesStreamForGood(t *testing.T) {
	client, mock := newStreamTestClient(t)

	require.NoError(t, client.SubscribeDeal(context.Background(), func(messageType int, message []byte) {}))
	require.NoError(t, client.Unsubscribe())

	assert.Equal(t, 1, mock.UnsubscribeCalls())
	assert.Equal(t, websocket.StateClosed, client.StreamState())

	err := client.SubscribeSmartTrade(context.Background(), func(messageType int, message []byte) {})
	assert.ErrorIs(t, err, ErrStreamClosed)
}

func TestSubscribeErrorPassesThrough(t *testing.T) {
	client, mock := newStreamTestClient(t)
	mock.SetSubscribeError(websocket.ErrSubscriptionFailed)

	err := client.SubscribeDeal(context.Background(), func(messageType int, message []byte) {})
	assert.ErrorIs(t, err, websocket.ErrSubscriptionFailed)
}
