// Package deezerclient provides the primary entry point for constructing a
// Deezer API client that implements the deezer.Client interface.
//
// It layers configuration defaults, the rate limited HTTP transport, the
// response cache and authentication on top of the resource interfaces and
// records defined in the deezer package.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/deezer/pkg/deezer"
//	  "github.com/fivetwenty-io/deezer/pkg/deezerclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // The public catalog needs no credentials.
//	  cli, err := deezerclient.New(ctx, &deezer.Config{})
//	  if err != nil { log.Fatal(err) }
//
//	  track, err := cli.Tracks().Get(ctx, 3135556)
//	  if err != nil { log.Fatal(err) }
//	  _ = track
//
//	  // Paginated endpoints are lazy; every pass starts from the first page.
//	  albums := cli.Artists().Albums(27, deezer.NewQueryParams().WithLimit(50))
//	  for album, err := range albums.Seq(ctx) {
//	    if err != nil { log.Fatal(err) }
//	    _ = album
//	  }
//	}
//
// # Rate limiting
//
// Deezer allows 50 calls per 5 seconds. Every attempt, retries included,
// takes a slot from a budget shared by all goroutines using the client, so a
// single client should be shared rather than one built per request.
//
// # Helpers
//
// The package also provides convenience constructors NewWithEndpoint,
// NewWithToken and NewWithConnectCode for common setups.
package deezerclient
