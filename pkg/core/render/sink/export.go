package sink

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/nfnt/resize"

	"github.com/matzehuels/digibouquet/pkg/core/render"
	"github.com/matzehuels/digibouquet/pkg/core/render/layout"
)

// DefaultThumbnailSize bounds the longer edge of a thumbnail in pixels.
const DefaultThumbnailSize = 240

// RenderJSON returns the layout as JSON.
func RenderJSON(l layout.Layout) ([]byte, error) {
	return layout.Marshal(l)
}

// RenderPNG renders l to SVG and rasterizes it at the given scale.
func RenderPNG(ctx context.Context, l layout.Layout, scale float64, opts ...SVGOption) ([]byte, error) {
	return render.ToPNG(ctx, RenderSVG(l, opts...), scale)
}

// RenderPDF renders l to SVG and converts it to PDF.
func RenderPDF(ctx context.Context, l layout.Layout, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(l, opts...))
}

// RenderThumbnail renders a PNG whose longer edge is at most size pixels.
func RenderThumbnail(ctx context.Context, l layout.Layout, size int, opts ...SVGOption) ([]byte, error) {
	full, err := RenderPNG(ctx, l, 1, opts...)
	if err != nil {
		return nil, err
	}
	return Thumbnail(full, size)
}

// Thumbnail downsizes PNG data so its longer edge is at most size pixels.
// Images already within bounds are re-encoded unchanged.
func Thumbnail(pngData []byte, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	thumb := resize.Thumbnail(uint(size), uint(size), img, resize.Lanczos3)
	return encodePNG(thumb)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
