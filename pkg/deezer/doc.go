// Package deezer provides types, interfaces, and helpers for working with the
// Deezer public REST API.
//
// # Overview
//
// The deezer package defines the catalog records (Track, Album, Artist,
// Playlist, Genre, Radio, User, Editorial, Podcast, Episode, Chart) and the
// interfaces of the resource clients (TracksClient, AlbumsClient, ...). A
// concrete implementation is provided by the deezerclient package, which wires
// configuration, the rate limited transport, caching, and authentication.
// Most consumers should import deezerclient to construct a client and then use
// the resource clients exposed here.
//
// Getting a client
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
//	  cli, err := deezerclient.New(ctx, &deezer.Config{})
//	  if err != nil { log.Fatal(err) }
//
//	  album, err := cli.Albums().Get(ctx, 302127)
//	  if err != nil { log.Fatal(err) }
//	  _ = album
//	}
//
// # Queries and pagination
//
// List endpoints return a Pager. Nothing is fetched until a pass starts, and
// every pass starts again from the first page:
//
//	tracks := cli.Albums().Tracks(302127, deezer.NewQueryParams().WithLimit(50))
//	for track, err := range tracks.Seq(ctx) {
//	  if err != nil { break }
//	  _ = track
//	}
//
// or fetch a bounded number of pages at once:
//
//	all, err := deezer.FetchAllPages(ctx, tracks, deezer.DefaultPaginationOptions())
//
// Searches are described with SearchOptions, which renders the advanced
// field filters (artist, album, track, label, dur_min, dur_max, bpm_min,
// bpm_max) into the q parameter.
//
// # Errors
//
// Every failed call returns an *APIError whose Kind is one of network,
// rate-limited, not-found, decode-failure, unauthorized, or invalid-request.
// Deezer reports most errors in a JSON envelope with HTTP 200; those are
// classified by envelope code. Use errors.Is with the Err* sentinels, or the
// IsNotFound family of helpers.
//
// # Interceptors and caching
//
// The package includes request and response interceptors (logging, headers,
// pacing, metrics, circuit breaking) and a pluggable Cache with memory, Redis,
// NATS JetStream KV, and no-op backends. BatchExecutor and GetMany run lookups
// concurrently while sharing the client's rate limit budget.
package deezer
