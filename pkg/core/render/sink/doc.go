// Package sink turns a placed bouquet into output artifacts.
//
// [RenderSVG] draws a [layout.Layout] with a [styles.Style]. Elements are
// emitted back to front: stems, leaves, the paper wrap, then flowers in
// ascending Z so front flowers overlap those behind them. An optional
// message card is appended below the bouquet.
//
// The remaining sinks build on the SVG:
//
//   - [RenderJSON]: the layout itself, for clients that draw natively
//   - [RenderPNG], [RenderPDF]: rsvg-convert conversions
//   - [RenderThumbnail]: a small PNG for link previews
//
// Output is byte-for-byte deterministic for a given layout and options.
package sink
