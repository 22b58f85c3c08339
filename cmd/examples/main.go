package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veiloq/threecommas-connector/pkg/logging"
	"github.com/veiloq/threecommas-connector/pkg/threecommas"
)

func main() {
	// Create logger
	logger := logging.NewLogger(logging.WithDebugLevel())

	// Create client options. Credentials come from the environment; without
	// them only the anonymous endpoints work.
	options := threecommas.NewOptions().
		WithCredentials(os.Getenv("THREECOMMAS_API_KEY"), os.Getenv("THREECOMMAS_API_SECRET"))
	options.Timeout = 15 * time.Second
	options.RequestsPerSecond = 5
	options.ForcedMode = threecommas.ForcedModePaper
	options.Logger = logger

	client, err := threecommas.NewClient(options)
	if err != nil {
		logger.Error("failed to create client", logging.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Check connectivity
	logger.Info("pinging platform")
	if err := client.Ping(ctx); err != nil {
		logger.Error("ping failed", logging.Error(err))
		os.Exit(1)
	}

	serverTime, err := client.Time(ctx)
	if err != nil {
		logger.Error("failed to get server time", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("platform reachable", logging.Int64("server_time", serverTime.ServerTime))

	// List active deals
	deals, err := client.ListDeals(ctx, &threecommas.DealsListParams{
		Scope: "active",
		Limit: 10,
	})
	if err != nil {
		logger.Error("failed to list deals", logging.Error(err))
		os.Exit(1)
	}
	for _, deal := range deals {
		logger.Info("active deal",
			logging.Int64("id", deal.ID),
			logging.String("pair", deal.Pair),
			logging.String("status", deal.Status),
			logging.String("take_profit", deal.TakeProfit.String()),
		)
	}

	// Subscribe to real-time deal events
	logger.Info("subscribing to deal events")
	err = client.SubscribeDeal(ctx, func(messageType int, message []byte) {
		logger.Info("deal event", logging.String("payload", string(message)))
	})
	if err != nil {
		logger.Error("failed to subscribe", logging.Error(err))
		os.Exit(1)
	}
	defer client.Unsubscribe()

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
}
