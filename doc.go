// Package threecommasconnector provides a typed Go client for the 3Commas
// trading platform, covering its versioned REST API and its streaming
// WebSocket channels.
//
// The library is a pure protocol-facing adapter: given API credentials it
// produces correctly signed requests, routes them to the right versioned
// endpoint, and surfaces the platform's responses and errors unchanged. It
// implements none of the platform's business logic and persists no data.
//
// Core Features:
//
//   - HMAC-SHA256 request signing over the relative request path and payload
//   - Typed convenience methods for accounts, deals, bots and smart trades
//   - A generic CustomRequest passthrough for undocumented endpoints
//   - Streaming subscriptions (deals, smart trades) multiplexed over a single
//     WebSocket connection with automatic recovery after abnormal disconnects
//   - Rate limiting of outbound REST calls
//
// # Authentication
//
// Every authenticated request carries an APIKEY header and a Signature header
// computed over the relative URL and the serialized payload. Anonymous
// endpoints such as Ping and Time work with empty credentials, which produce
// an empty signature.
//
// # Errors
//
// Requests rejected by the platform return a *threecommas.APIError holding
// the platform's error body verbatim. Transport failures (network, timeout)
// return the underlying error wrapped with context. An optional ErrorHandler
// configured on the client observes every platform error before it is
// returned and may translate it.
//
// # Example
//
//	options := threecommas.NewOptions()
//	options.APIKey = os.Getenv("THREECOMMAS_API_KEY")
//	options.Secret = os.Getenv("THREECOMMAS_SECRET")
//
//	client, err := threecommas.NewClient(options)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if err := client.Ping(ctx); err != nil {
//	    log.Fatalf("ping failed: %v", err)
//	}
//
//	deals, err := client.ListDeals(ctx, &threecommas.DealsListParams{
//	    Scope: "active",
//	    Limit: 50,
//	})
//
// Streaming:
//
//	err = client.SubscribeDeal(ctx, func(messageType int, message []byte) {
//	    fmt.Printf("deal update: %s\n", message)
//	})
//	defer client.Unsubscribe()
//
// The streaming connection is shared: subscribing to a second channel reuses
// the open socket. Unsubscribe closes the socket and tears down every channel
// at once; the platform protocol has no per-channel unsubscribe.
package threecommasconnector
