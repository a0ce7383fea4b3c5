package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/digibouquet/pkg/core/flower"
	"github.com/matzehuels/digibouquet/pkg/core/render"
	"github.com/matzehuels/digibouquet/pkg/core/render/layout"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed adds coordinates, rotation and scale to edge labels.
	Detailed bool

	// Slots is the slot table used to build the layout. Defaults to
	// layout.DefaultSlots.
	Slots []layout.Slot
}

// ToDOT converts a layout into a left-to-right Graphviz digraph.
func ToDOT(l layout.Layout, opts Options) string {
	slots := opts.Slots
	if len(slots) == 0 {
		slots = layout.DefaultSlots
	}

	var buf bytes.Buffer
	buf.WriteString("digraph bouquet {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	fmt.Fprintf(&buf, "  label=%q;\n", fmt.Sprintf("seed %d · %s greenery", l.Seed, l.Greenery))
	buf.WriteString("\n")

	counts := make(map[string]int)
	var order []string
	for _, f := range l.Flowers {
		if counts[f.Type] == 0 {
			order = append(order, f.Type)
		}
		counts[f.Type]++
	}
	for _, key := range order {
		t := flower.Get(key)
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n",
			"type:"+key, fmt.Sprintf("%s ×%d\n%s", t.Name, counts[key], t.Size), t.PetalColor)
	}

	used := make(map[int]bool)
	for _, f := range l.Flowers {
		used[f.Slot] = true
	}
	buf.WriteString("\n")
	for i, s := range slots {
		if !used[i] {
			continue
		}
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=white];\n",
			slotID(i), fmt.Sprintf("slot %d\n(%.0f, %.0f) depth %d", i, s.X, s.Y, s.Depth))
	}

	buf.WriteString("\n")
	for _, f := range l.Flowers {
		attrs := []string{fmt.Sprintf("label=%q", edgeLabel(f, opts.Detailed))}
		if f.Lap > 0 {
			attrs = append(attrs, `style="dashed"`)
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", "type:"+f.Type, slotID(f.Slot), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func slotID(i int) string { return "slot:" + strconv.Itoa(i) }

func edgeLabel(f layout.PlacedFlower, detailed bool) string {
	label := fmt.Sprintf("#%d z%d", f.Index, f.Z)
	if detailed {
		label += fmt.Sprintf("\n(%.1f, %.1f) %.1f° ×%.2f", f.X, f.Y, f.Rotation, f.Scale)
	}
	return label
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one
// whose viewBox starts at the origin and whose size matches the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
