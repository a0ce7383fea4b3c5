// Package nodelink draws the arrangement of a bouquet as a Graphviz diagram.
//
// The diagram is a debugging aid for the slot assignment: one node per
// flower group on the left, one node per slot on the right, and an edge for
// every placed flower labelled with its sequence index and stacking order.
// Flowers that wrapped around the slot table (lap > 0) are drawn dashed.
//
//	Layout → ToDOT() → DOT → RenderSVG() → SVG
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed. PNG and PDF go through
// rsvg-convert like every other artifact.
package nodelink
