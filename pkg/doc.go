// Package pkg provides the core libraries for Digibouquet.
//
// # Overview
//
// Digibouquet arranges a handful of flowers into a bouquet, renders it, and
// lets a sender share it with a card. Every layout is a pure function of the
// flower counts, a seed and a greenery style, so a bouquet can be stored or
// sent as a few bytes and redrawn identically anywhere. The pkg directory is
// organized into these areas:
//
//  1. [core] - Domain logic (flower catalog, seeded randomness, layout, rendering)
//  2. [pipeline] - Orchestration (spec → layout → artifacts) with caching
//  3. [share] - Composing, storing and linking bouquets with cards
//  4. [store], [cache] - Persistence and memoization backends
//  5. [codec] - Compact share-link payload encoding
//
// # Architecture
//
// The typical data flow:
//
//	Flower counts + seed + greenery
//	         ↓
//	    [core/bouquet] package (validated spec)
//	         ↓
//	    [core/render/layout] package (flower placement + foliage)
//	         ↓
//	    [core/render/sink] package (SVG, PNG, PDF, JSON, DOT)
//
// # Quick Start
//
// Lay out and render a bouquet:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/digibouquet/pkg/core/bouquet"
//	    "github.com/matzehuels/digibouquet/pkg/pipeline"
//	)
//
//	spec := bouquet.New(map[string]int{"roses": 3, "tulips": 3}, 42, bouquet.GreeneryClassic)
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Spec:    spec,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// Share it as a self-contained link:
//
//	svc := share.New(nil, nil, share.WithBaseURL("https://example.com"))
//	_, url, _ := svc.EncodeLink(share.Draft{
//	    SenderName:   "Ana",
//	    ReceiverName: "Ben",
//	    Message:      "Happy birthday!",
//	    Spec:         spec,
//	})
//
// # Main Packages
//
// [core/flower] holds the catalog of flower types with their colors and sizes.
// [core/prng] is the seeded generator that makes layouts reproducible.
// [core/render/layout] places flowers and computes foliage; its output is
// what the JSON format serializes.
//
// [pipeline] ties layout and rendering together behind a [pipeline.Runner]
// that both the CLI and the HTTP API use, so caching behaves the same in
// both.
//
// [share] composes bouquets with a card, stores them through [store], and
// encodes share links through [codec]. [observability] exposes hooks that
// the API turns into Prometheus metrics.
//
// [core]: https://pkg.go.dev/github.com/matzehuels/digibouquet/pkg/core
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/digibouquet/pkg/pipeline
// [share]: https://pkg.go.dev/github.com/matzehuels/digibouquet/pkg/share
// [store]: https://pkg.go.dev/github.com/matzehuels/digibouquet/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/digibouquet/pkg/cache
// [codec]: https://pkg.go.dev/github.com/matzehuels/digibouquet/pkg/codec
// [observability]: https://pkg.go.dev/github.com/matzehuels/digibouquet/pkg/observability
// [core/flower]: https://pkg.go.dev/github.com/matzehuels/digibouquet/pkg/core/flower
// [core/prng]: https://pkg.go.dev/github.com/matzehuels/digibouquet/pkg/core/prng
// [core/bouquet]: https://pkg.go.dev/github.com/matzehuels/digibouquet/pkg/core/bouquet
// [core/render/layout]: https://pkg.go.dev/github.com/matzehuels/digibouquet/pkg/core/render/layout
// [core/render/sink]: https://pkg.go.dev/github.com/matzehuels/digibouquet/pkg/core/render/sink
package pkg
