package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/digibouquet/pkg/core/render"
	"github.com/matzehuels/digibouquet/pkg/core/render/layout"
	"github.com/matzehuels/digibouquet/pkg/core/render/nodelink"
	"github.com/matzehuels/digibouquet/pkg/core/render/sink"
	"github.com/matzehuels/digibouquet/pkg/core/render/styles"
	"github.com/matzehuels/digibouquet/pkg/core/render/styles/handdrawn"
)

// =============================================================================
// Rendering
// =============================================================================

// Render generates every format in opts.Formats from l. The bouquet SVG is
// drawn once; conversions run concurrently.
func Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(l, opts)
	svg := sink.RenderSVG(l, svgOpts...)

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(gctx, format, l, svg, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, format string, l layout.Layout, svg []byte, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return svg, nil
	case FormatPNG:
		return render.ToPNG(ctx, svg, float64(opts.Scale))
	case FormatPDF:
		return render.ToPDF(ctx, svg)
	case FormatJSON:
		return sink.RenderJSON(l)
	case FormatThumbnail:
		// Previews never carry the message.
		thumbOpts := buildSVGOptions(l, Options{Style: opts.Style, NoGreenery: opts.NoGreenery})
		return sink.RenderThumbnail(ctx, l, opts.ThumbSize, thumbOpts...)
	case FormatDOT:
		return []byte(nodelink.ToDOT(l, nodelink.Options{Detailed: true})), nil
	case FormatDiagram:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(l, nodelink.Options{Detailed: true}))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(l layout.Layout, opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption

	switch opts.Style {
	case StyleHanddrawn:
		svgOpts = append(svgOpts, sink.WithStyle(handdrawn.New(l.Seed)))
	case StyleSimple:
		svgOpts = append(svgOpts, sink.WithStyle(styles.Simple{}))
	}
	if opts.NoGreenery {
		svgOpts = append(svgOpts, sink.WithoutGreenery())
	}
	if opts.Card != nil {
		svgOpts = append(svgOpts, sink.WithCard(*opts.Card))
	}
	return svgOpts
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(ctx context.Context, layoutData []byte, opts Options) (map[string][]byte, error) {
	l, err := layout.Unmarshal(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	return Render(ctx, l, opts)
}
