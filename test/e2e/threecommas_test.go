package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/avast/retry-go"
	"github.com/stretchr/testify/require"

	"github.com/veiloq/threecommas-connector/pkg/logging"
	"github.com/veiloq/threecommas-connector/pkg/threecommas"
)

// TestThreeCommas_E2E exercises the client against the live platform.
//
// To run this test:
// THREECOMMAS_API_KEY=your_api_key THREECOMMAS_API_SECRET=your_api_secret go test -v ./test/e2e
func TestThreeCommas_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	logger := logging.NewLogger(logging.WithDebugLevel())

	apiKey := os.Getenv("THREECOMMAS_API_KEY")
	apiSecret := os.Getenv("THREECOMMAS_API_SECRET")
	runningInCI := os.Getenv("CI") != ""

	options := threecommas.NewOptions().WithCredentials(apiKey, apiSecret)
	options.ForcedMode = threecommas.ForcedModePaper
	options.Logger = logger

	client, err := threecommas.NewClient(options)
	require.NoError(t, err, "failed to create client")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Anonymous endpoints work without credentials
	t.Run("Ping", func(t *testing.T) {
		err := retry.Do(
			func() error { return client.Ping(ctx) },
			retry.Attempts(3),
			retry.Delay(time.Second),
			retry.Context(ctx),
		)
		require.NoError(t, err, "failed to ping platform")
	})

	t.Run("Time", func(t *testing.T) {
		serverTime, err := client.Time(ctx)
		require.NoError(t, err, "failed to get server time")
		require.Greater(t, serverTime.ServerTime, int64(0))
	})

	t.Run("MarketList", func(t *testing.T) {
		markets, err := client.MarketList(ctx)
		require.NoError(t, err, "failed to get market list")
		require.NotEmpty(t, markets, "no markets returned")
		require.NotEmpty(t, markets[0].Code)
	})

	t.Run("CurrencyRates", func(t *testing.T) {
		rate, err := client.CurrencyRates(ctx, &threecommas.CurrencyRatesParams{
			MarketCode: "binance",
			Pair:       "USDT_BTC",
		})
		require.NoError(t, err, "failed to get currency rates")
		require.True(t, rate.Last.IsPositive(), "last price not positive")
	})

	// Signed endpoints need real credentials
	t.Run("SignedEndpoints", func(t *testing.T) {
		if apiKey == "" || apiSecret == "" {
			t.Skip("skipping signed endpoint tests - credentials not set")
		}

		accounts, err := client.ListAccounts(ctx)
		require.NoError(t, err, "failed to list accounts")

		deals, err := client.ListDeals(ctx, &threecommas.DealsListParams{Limit: 5})
		require.NoError(t, err, "failed to list deals")

		bots, err := client.ListBots(ctx, &threecommas.BotsListParams{Limit: 5})
		require.NoError(t, err, "failed to list bots")

		logger.Info("signed endpoints reachable",
			logging.Int("accounts", len(accounts)),
			logging.Int("deals", len(deals)),
			logging.Int("bots", len(bots)),
		)
	})

	// Streaming needs credentials and an open network path
	t.Run("Streaming", func(t *testing.T) {
		if apiKey == "" || apiSecret == "" || runningInCI {
			t.Skip("skipping streaming test - requires credentials and not running in CI")
		}

		received := make(chan []byte, 10)
		err := client.SubscribeDeal(ctx, func(messageType int, message []byte) {
			select {
			case received <- message:
			default:
			}
		})
		require.NoError(t, err, "failed to subscribe to deal events")
		defer client.Unsubscribe()

		// The platform sends a welcome frame shortly after subscribing
		select {
		case <-received:
		case <-time.After(30 * time.Second):
			t.Fatal("no streaming frame received within 30s")
		}
	})
}
