// Package handdrawn provides a sketchbook style for bouquets.
//
// Outlines are drawn twice with small seeded offsets, stems bend a little
// off their ideal curve, and an SVG turbulence filter roughens every edge.
// The result looks inked by hand while staying fully reproducible:
//
//	style := handdrawn.New(layout.Seed)
//	svg := sink.RenderSVG(layout, sink.WithStyle(style))
//
// Every offset comes from the prng package keyed by the style seed and the
// element ID, so the same layout rendered twice yields identical bytes.
package handdrawn
