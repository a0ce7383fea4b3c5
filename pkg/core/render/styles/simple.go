package styles

import (
	"bytes"
	"fmt"
	"math"
)

// Simple is a flat style with solid fills.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer) {}

func (Simple) RenderStem(buf *bytes.Buffer, s Stem) {
	fmt.Fprintf(buf, `    <path id="%s" class="stem" d="M %.2f %.2f Q %.2f %.2f %.2f %.2f" fill="none" stroke="%s" stroke-width="%.2f" stroke-linecap="round"/>`+"\n",
		EscapeXML(s.ID), s.X0, s.Y0, s.CX, s.CY, s.X1, s.Y1, s.Color, s.Width)
}

func (Simple) RenderLeaf(buf *bytes.Buffer, l Leaf) {
	fmt.Fprintf(buf, `    <ellipse id="%s" class="leaf" cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" transform="rotate(%.2f %.2f %.2f)" fill="%s"/>`+"\n",
		EscapeXML(l.ID), l.CX, l.CY, l.RX, l.RY, l.Rotation, l.CX, l.CY, l.Color)
}

func (Simple) RenderWrap(buf *bytes.Buffer, w Wrap) {
	fmt.Fprintf(buf, `    <path class="wrap" d="M %.2f %.2f L %.2f %.2f L %.2f %.2f Z" fill="%s" stroke="#8d6e63" stroke-width="1.5"/>`+"\n",
		w.CX-w.HalfWidth, w.Top, w.CX+w.HalfWidth, w.Top, w.CX, w.Bottom, w.Paper)
	ry := RibbonY(w)
	fmt.Fprintf(buf, `    <ellipse class="ribbon" cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" fill="%s"/>`+"\n",
		w.CX, ry, w.HalfWidth*0.35, w.HalfWidth*0.12, w.Ribbon)
}

func (Simple) RenderFlower(buf *bytes.Buffer, f Flower) {
	fmt.Fprintf(buf, `    <g id="%s" class="flower flower-%s" transform="translate(%.2f %.2f) rotate(%.2f)">`+"\n",
		EscapeXML(f.ID), EscapeXML(f.Key), f.CX, f.CY, f.Rotation)
	fmt.Fprintf(buf, "      <title>%s</title>\n", EscapeXML(f.Name))
	for _, p := range Petals(f) {
		fmt.Fprintf(buf, `      <ellipse cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" transform="rotate(%.2f %.2f %.2f)" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			p.CX, p.CY, p.RX, p.RY, p.Rotation, p.CX, p.CY, f.PetalColor, f.Outline)
	}
	fmt.Fprintf(buf, `      <circle cx="0" cy="0" r="%.2f" fill="%s"/>`+"\n", f.R*CenterRatio, f.CenterColor)
	buf.WriteString("    </g>\n")
}

func (Simple) RenderCard(buf *bytes.Buffer, c Card) {
	fmt.Fprintf(buf, `  <g class="card">`+"\n")
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="6" fill="#fffdf7" stroke="#d9cbb8"/>`+"\n",
		c.X, c.Y, c.W, c.H)
	renderCardText(buf, c, `font-family="Georgia, serif"`)
	buf.WriteString("  </g>\n")
}

// renderCardText writes the greeting, message lines and signature.
func renderCardText(buf *bytes.Buffer, c Card, font string) {
	x := c.X + CardPadding
	y := c.Y + CardPadding + CardLineHeight*0.8
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" %s font-size="15" font-weight="bold" fill="#4a3b2f">Dear %s,</text>`+"\n",
		x, y, font, EscapeXML(c.To))
	for _, line := range c.Lines {
		y += CardLineHeight
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" %s font-size="13" fill="#4a3b2f">%s</text>`+"\n",
			x, y, font, EscapeXML(line))
	}
	y += CardLineHeight * 1.4
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" %s font-size="13" font-style="italic" text-anchor="end" fill="#4a3b2f">With love, %s</text>`+"\n",
		c.X+c.W-CardPadding, y, font, EscapeXML(c.From))
}

// Card metrics shared by styles and the sink's height calculation.
const (
	CardPadding    = 16.0
	CardLineHeight = 18.0
)

// CardHeight returns the height needed for a card with n message lines.
func CardHeight(n int) float64 {
	return 2*CardPadding + CardLineHeight*(float64(n)+2.4)
}

// CenterRatio is the flower center radius relative to the head radius.
const CenterRatio = 0.32

// Petal is one petal ellipse in flower-local coordinates.
type Petal struct {
	CX, CY, RX, RY, Rotation float64
}

// Petals lays out f.Petals ellipses evenly around the flower center.
func Petals(f Flower) []Petal {
	n := max(f.Petals, 3)
	ps := make([]Petal, n)
	step := 360.0 / float64(n)
	rx := f.R * math.Min(0.55, 2.2/float64(n)+0.12)
	ry := f.R * 0.5
	for i := range ps {
		a := float64(i) * step
		rad := a * math.Pi / 180
		d := f.R * 0.5
		ps[i] = Petal{
			CX:       round2(d * math.Sin(rad)),
			CY:       round2(-d * math.Cos(rad)),
			RX:       round2(rx),
			RY:       round2(ry),
			Rotation: round2(a),
		}
	}
	return ps
}

// RibbonY returns the vertical position of the ribbon knot on w.
func RibbonY(w Wrap) float64 {
	return w.Top + (w.Bottom-w.Top)*0.3
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

var _ Style = Simple{}
