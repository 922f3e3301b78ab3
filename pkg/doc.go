// Package pkg provides the core libraries for Waterfall masonry layouts.
//
// # Overview
//
// Waterfall arranges variable-height items into a fixed number of columns,
// always appending the next item to the currently shortest column. The pkg
// directory is organized into a few areas:
//
//  1. [masonry] - The placement engine (columns, heights, reflow)
//  2. [feed] - Paged item sources (seeded random, sample, Picsum)
//  3. [gallery] - A stateful wall combining a feed loader with an engine
//  4. [render] - Scene positioning and SVG/JSON/PNG/PDF sinks
//  5. [pipeline] - Orchestration (feed → layout → render) with caching
//
// # Architecture
//
// The typical data flow through Waterfall:
//
//	Feed source (random / sample / picsum)
//	         ↓
//	    [feed] package (paged photos with heights)
//	         ↓
//	    [masonry] package (shortest-column placement)
//	         ↓
//	    [render] package (geometry + visualization)
//	         ↓
//	    SVG/PDF/PNG/JSON output
//
// # Quick Start
//
// Place a handful of items and render them to SVG:
//
//	import (
//	    "github.com/matzehuels/waterfall/pkg/masonry"
//	    "github.com/matzehuels/waterfall/pkg/render"
//	)
//
//	e, _ := masonry.New(2)
//	e.PlaceAll([]masonry.Item{
//	    {ID: "a", Height: 300},
//	    {ID: "b", Height: 120},
//	    {ID: "c", Height: 200},
//	})
//
//	scene := render.Position(e.Snapshot(), render.DefaultGeometry())
//	svg := render.RenderSVG(scene)
//
// # Main Packages
//
// [masonry] - Greedy column placement. Ties go to the lowest column index,
// and an invalid item is rejected without touching any column.
//
// [feed] - The [feed.Source] interface plus a [feed.Loader] that tracks the
// next page, guards against concurrent loads, and supports refresh.
//
// [gallery] - Local-first gallery state used by the TUI and HTTP server:
// load more, refresh, change column count, and snapshot the wall.
//
// [integrations/picsum] - HTTP client for the Picsum photo listing API.
//
// [render] - Converts a layout snapshot into positioned cards and renders it.
// [render/styles] provides the visual styles (simple, card).
//
// [io] - JSON item and layout files shared by the CLI subcommands.
//
// ## Infrastructure
//
// [cache] - Cache backends (file, bolt, redis, null) and key derivation.
//
// [config] - TOML or YAML user configuration.
//
// [errors] - Coded errors and input validation.
//
// [httputil] - Retrying HTTP client with rate-limit handling.
//
// [observability] - Hook registries for pipeline, gallery, cache, and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/masonry/...            # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include integration tests
//
// [masonry]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/masonry
// [feed]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/feed
// [gallery]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/gallery
// [render]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/render
// [render/styles]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/render/styles
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/pipeline
// [integrations/picsum]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/integrations/picsum
// [io]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/observability
package pkg
