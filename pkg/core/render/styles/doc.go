// Package styles defines visual styles for bouquet rendering.
//
// # Overview
//
// A style decides how each visual element of a bouquet is drawn. The sink
// package computes geometry and hands styles ready-to-draw values in pixel
// space:
//
//   - [Stem], [Leaf]: foliage behind the flowers
//   - [Wrap]: the paper cone and ribbon holding the stems
//   - [Flower]: one placed flower head
//   - [Card]: the optional message card under the bouquet
//
// Two styles ship with the module:
//
//   - [Simple]: flat fills and clean outlines
//   - handdrawn: wobbly doubled strokes and a paper texture (subpackage)
//
// Styles must be deterministic. The handdrawn style derives every wobble
// from its seed, so rendering the same layout twice yields identical bytes
// and artifacts can be cached by content hash.
//
// Usage:
//
//	svg := sink.RenderSVG(l, sink.WithStyle(styles.Simple{}))
package styles
