// Package pipeline provides the bouquet pipeline for digibouquet.
//
// This package implements the spec → layout → render pipeline shared by the
// CLI and the HTTP API. By centralizing this logic, every entry point places
// and draws a bouquet the same way and hits the same cache entries.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: Place the flowers of a [bouquet.Spec] and grow its greenery
//  2. Render: Generate output in various formats (SVG, PNG, PDF, JSON, ...)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Spec:    bouquet.New(map[string]int{"roses": 3, "daisies": 3}, 7, bouquet.GreeneryClassic),
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	l, err := runner.GenerateLayout(ctx, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/digibouquet/pkg/cache"
	"github.com/matzehuels/digibouquet/pkg/core/bouquet"
	"github.com/matzehuels/digibouquet/pkg/core/render/layout"
	"github.com/matzehuels/digibouquet/pkg/core/render/sink"
	"github.com/matzehuels/digibouquet/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 480.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 560.0

	// MaxDimension bounds width and height.
	MaxDimension = 4096.0

	// DefaultSeed is the layout seed used when a caller does not pick one.
	DefaultSeed = int64(42)

	// DefaultScale is the PNG rasterization scale.
	DefaultScale = 2

	// MaxScale bounds the PNG rasterization scale.
	MaxScale = 8
)

// Style constants for visual styles.
const (
	StyleSimple    = "simple"
	StyleHanddrawn = "handdrawn"
)

// DefaultStyle is the default visual style.
const DefaultStyle = StyleHanddrawn

// Format constants for output formats.
const (
	FormatSVG       = "svg"
	FormatPNG       = "png"
	FormatPDF       = "pdf"
	FormatJSON      = "json"
	FormatThumbnail = "thumbnail"
	FormatDOT       = "dot"     // arrangement diagram source
	FormatDiagram   = "diagram" // arrangement diagram rendered to SVG
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:       true,
	FormatPNG:       true,
	FormatPDF:       true,
	FormatJSON:      true,
	FormatThumbnail: true,
	FormatDOT:       true,
	FormatDiagram:   true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	StyleSimple:    true,
	StyleHanddrawn: true,
}

// ContentTypes maps formats to their HTTP content type.
var ContentTypes = map[string]string{
	FormatSVG:       "image/svg+xml",
	FormatPNG:       "image/png",
	FormatPDF:       "application/pdf",
	FormatJSON:      "application/json",
	FormatThumbnail: "image/png",
	FormatDOT:       "text/vnd.graphviz",
	FormatDiagram:   "image/svg+xml",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the bouquet pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Bouquet
	Spec bouquet.Spec `json:"bouquet"`

	// Layout options
	Width  float64  `json:"width,omitempty"`
	Height float64  `json:"height,omitempty"`
	Jitter *float64 `json:"jitter,omitempty"` // nil keeps layout.DefaultJitter

	// Render options
	Formats    []string       `json:"formats,omitempty"`
	Style      string         `json:"style,omitempty"`
	Card       *sink.CardText `json:"card,omitempty"`
	Scale      int            `json:"scale,omitempty"`
	ThumbSize  int            `json:"thumb_size,omitempty"`
	NoGreenery bool           `json:"no_greenery,omitempty"`
	Refresh    bool           `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the placed bouquet.
	Layout layout.Layout

	// SpecHash is the content hash of the bouquet spec.
	SpecHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	FlowerCount int
	StemCount   int
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, thumbnail, dot, diagram)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: simple, handdrawn)", style)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the spec and applies defaults for the full pipeline.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Spec.Greenery == "" {
		o.Spec.Greenery = bouquet.DefaultGreenery
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.Spec.Validate(); err != nil {
		return err
	}
	if o.Width < 0 || o.Width > MaxDimension || o.Height < 0 || o.Height > MaxDimension {
		return errors.New(errors.ErrCodeInvalidInput, "frame must be at most %gx%g, got %gx%g",
			MaxDimension, MaxDimension, o.Width, o.Height)
	}
	if o.Jitter != nil && *o.Jitter < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "jitter must not be negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.ThumbSize == 0 {
		o.ThumbSize = sink.DefaultThumbnailSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 1 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be between 1 and %d", MaxScale)
	}
	if o.ThumbSize < 16 || o.ThumbSize > 1024 {
		return errors.New(errors.ErrCodeInvalidInput, "thumbnail size must be between 16 and 1024")
	}
	return ValidateStyle(o.Style)
}

// JitterAmount returns the configured jitter or layout.DefaultJitter.
func (o *Options) JitterAmount() float64 {
	if o.Jitter == nil {
		return layout.DefaultJitter
	}
	return *o.Jitter
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:  o.Width,
		Height: o.Height,
		Jitter: o.JitterAmount(),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Inputs that do not affect a format are left out of its key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:   format,
		Greenery: !o.NoGreenery,
	}
	switch format {
	case FormatJSON, FormatDOT, FormatDiagram:
		opts.Greenery = false
		return opts
	case FormatPNG:
		opts.Scale = o.Scale
	case FormatThumbnail:
		opts.Thumb = o.ThumbSize
	}
	opts.Style = o.Style
	if o.Card != nil && format != FormatThumbnail {
		opts.Card = cache.Hash([]byte(o.Card.To + "\x00" + o.Card.From + "\x00" + o.Card.Message))
	}
	return opts
}
