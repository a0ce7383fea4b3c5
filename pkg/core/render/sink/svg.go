package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/digibouquet/pkg/core/flower"
	"github.com/matzehuels/digibouquet/pkg/core/render/greenery"
	"github.com/matzehuels/digibouquet/pkg/core/render/layout"
	"github.com/matzehuels/digibouquet/pkg/core/render/styles"
)

// Frame proportions, relative to the layout frame.
const (
	flowerRadius   = 0.085 // of min(width, height)
	wrapTop        = 0.70
	wrapBottom     = 0.985
	wrapHalfWidth  = 0.16
	cardMargin     = 16.0
	cardMaxLines   = 8
	wrapPaperColor = "#f3e5d0"
)

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

// CardText is the message printed on the card.
type CardText struct {
	To      string
	From    string
	Message string
}

type svgRenderer struct {
	style      styles.Style
	card       *CardText
	foliage    bool
	wrap       bool
	background string
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithCard(c CardText) SVGOption     { return func(r *svgRenderer) { r.card = &c } }
func WithoutGreenery() SVGOption        { return func(r *svgRenderer) { r.foliage = false } }
func WithoutWrap() SVGOption            { return func(r *svgRenderer) { r.wrap = false } }

// WithBackground fills the canvas. The default is transparent.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG draws l as a standalone SVG document.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple{}, foliage: true, wrap: true}
	for _, opt := range opts {
		opt(&r)
	}

	var card styles.Card
	width, height := l.Width, l.Height
	if r.card != nil {
		lines := styles.CardLines(r.card.Message, cardMaxLines)
		card = styles.Card{
			X:     cardMargin,
			Y:     l.Height + cardMargin,
			W:     l.Width - 2*cardMargin,
			H:     styles.CardHeight(len(lines)),
			To:    r.card.To,
			From:  r.card.From,
			Lines: lines,
		}
		height = card.Y + card.H + cardMargin
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	r.style.RenderDefs(&buf)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", styles.EscapeXML(r.background))
	}

	buf.WriteString(`  <g class="bouquet">` + "\n")
	if r.foliage && !l.Empty() {
		renderFoliage(&buf, r.style, l)
	}
	if r.wrap && !l.Empty() {
		r.style.RenderWrap(&buf, buildWrap(l))
	}
	for _, f := range buildFlowers(l) {
		r.style.RenderFlower(&buf, f)
	}
	buf.WriteString("  </g>\n")

	if r.card != nil {
		r.style.RenderCard(&buf, card)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderFoliage(buf *bytes.Buffer, s styles.Style, l layout.Layout) {
	sx, sy := l.Width/100, l.Height/100
	for i, st := range l.Foliage.Stems {
		s.RenderStem(buf, scaleStem(i, st, sx, sy))
	}
	for i, lf := range l.Foliage.Leaves {
		s.RenderLeaf(buf, scaleLeaf(i, lf, sx, sy))
	}
}

func scaleStem(i int, st greenery.Stem, sx, sy float64) styles.Stem {
	return styles.Stem{
		ID: fmt.Sprintf("stem-%d", i),
		X0: float64(st.X0 * sx), Y0: float64(st.Y0 * sy),
		CX: float64(st.CX * sx), CY: float64(st.CY * sy),
		X1: float64(st.X1 * sx), Y1: float64(st.Y1 * sy),
		Width: st.Width,
		Color: st.Color,
	}
}

func scaleLeaf(i int, lf greenery.Leaf, sx, sy float64) styles.Leaf {
	// Leaf radii are in percent of the frame width so leaves keep their
	// aspect ratio in non-square frames.
	return styles.Leaf{
		ID:       fmt.Sprintf("leaf-%d", i),
		CX:       float64(lf.X * sx),
		CY:       float64(lf.Y * sy),
		RX:       float64(lf.RX * sx),
		RY:       float64(lf.RY * sx),
		Rotation: lf.Rotation,
		Color:    lf.Color,
	}
}

func buildWrap(l layout.Layout) styles.Wrap {
	return styles.Wrap{
		CX:        l.Width / 2,
		Top:       float64(l.Height * wrapTop),
		Bottom:    float64(l.Height * wrapBottom),
		HalfWidth: float64(l.Width * wrapHalfWidth),
		Paper:     wrapPaperColor,
		Ribbon:    flower.Get(l.Dominant).PetalColor,
	}
}

func buildFlowers(l layout.Layout) []styles.Flower {
	base := float64(min(l.Width, l.Height) * flowerRadius)
	placed := l.ByZ()
	out := make([]styles.Flower, len(placed))
	for i, p := range placed {
		t := flower.Get(p.Type)
		out[i] = styles.Flower{
			ID:          fmt.Sprintf("flower-%d", p.Index),
			Key:         t.Key,
			Name:        t.Name,
			CX:          float64(p.X * l.Width / 100),
			CY:          float64(p.Y * l.Height / 100),
			R:           float64(base * p.Scale),
			Rotation:    p.Rotation,
			Petals:      t.Petals,
			PetalColor:  t.PetalColor,
			CenterColor: t.CenterColor,
			Outline:     t.Outline,
		}
	}
	return out
}
