package handdrawn

import (
	"bytes"
	"fmt"
	"hash/fnv"

	"github.com/matzehuels/digibouquet/pkg/core/prng"
	"github.com/matzehuels/digibouquet/pkg/core/render/styles"
)

const (
	wobbleAmount = 1.6 // max pixel offset of a control point
	strokeJitter = 0.8 // max pixel offset of the second outline
	font         = `font-family="'Comic Neue', 'Comic Sans MS', 'Segoe Print', cursive"`
)

// HandDrawn renders bouquets with wobbly doubled outlines.
type HandDrawn struct {
	seed int64
}

// New creates a hand-drawn style. The seed controls every wobble.
func New(seed int64) *HandDrawn {
	return &HandDrawn{seed: seed}
}

func (h *HandDrawn) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <filter id="hd-rough" x="-10%%" y="-10%%" width="120%%" height="120%%">
      <feTurbulence type="fractalNoise" baseFrequency="0.035" numOctaves="2" seed="%d" result="noise"/>
      <feDisplacementMap in="SourceGraphic" in2="noise" scale="2.2" xChannelSelector="R" yChannelSelector="G"/>
    </filter>
`, h.seed%1000)
	buf.WriteString(`    <pattern id="hd-paper" width="8" height="8" patternUnits="userSpaceOnUse">
      <rect width="8" height="8" fill="#f6ead7"/>
      <path d="M 0 8 L 8 0" stroke="#e6d3b3" stroke-width="0.8"/>
    </pattern>
`)
	buf.WriteString("  </defs>\n")
}

func (h *HandDrawn) RenderStem(buf *bytes.Buffer, s styles.Stem) {
	k := h.key(s.ID)
	cx := s.CX + prng.Jitter(h.seed, k, wobbleAmount)
	cy := s.CY + prng.Jitter(h.seed, k+1, wobbleAmount)
	fmt.Fprintf(buf, `    <path id="%s" class="stem" d="M %.2f %.2f Q %.2f %.2f %.2f %.2f" fill="none" stroke="%s" stroke-width="%.2f" stroke-linecap="round" filter="url(#hd-rough)"/>`+"\n",
		styles.EscapeXML(s.ID), s.X0, s.Y0, cx, cy, s.X1, s.Y1, s.Color, s.Width)

	dx := prng.Jitter(h.seed, k+2, strokeJitter)
	fmt.Fprintf(buf, `    <path class="stem-sketch" d="M %.2f %.2f Q %.2f %.2f %.2f %.2f" fill="none" stroke="#2f3e1f" stroke-opacity="0.35" stroke-width="0.8"/>`+"\n",
		s.X0+dx, s.Y0, s.CX+dx, s.CY, s.X1+dx, s.Y1)
}

func (h *HandDrawn) RenderLeaf(buf *bytes.Buffer, l styles.Leaf) {
	k := h.key(l.ID)
	rx := l.RX * (1 + prng.Jitter(h.seed, k, 0.08))
	ry := l.RY * (1 + prng.Jitter(h.seed, k+1, 0.08))
	fmt.Fprintf(buf, `    <ellipse id="%s" class="leaf" cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" transform="rotate(%.2f %.2f %.2f)" fill="%s" stroke="#2f3e1f" stroke-width="0.9" filter="url(#hd-rough)"/>`+"\n",
		styles.EscapeXML(l.ID), l.CX, l.CY, rx, ry, l.Rotation, l.CX, l.CY, l.Color)
	if l.RX != l.RY {
		// Midrib along the long axis.
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" transform="rotate(%.2f %.2f %.2f)" stroke="#2f3e1f" stroke-opacity="0.5" stroke-width="0.7"/>`+"\n",
			l.CX-rx*0.8, l.CY, l.CX+rx*0.8, l.CY, l.Rotation, l.CX, l.CY)
	}
}

func (h *HandDrawn) RenderWrap(buf *bytes.Buffer, w styles.Wrap) {
	left, right := w.CX-w.HalfWidth, w.CX+w.HalfWidth
	fmt.Fprintf(buf, `    <path class="wrap" d="M %.2f %.2f L %.2f %.2f L %.2f %.2f Z" fill="url(#hd-paper)" stroke="#8d6e63" stroke-width="1.6" filter="url(#hd-rough)"/>`+"\n",
		left, w.Top, right, w.Top, w.CX, w.Bottom)
	for i := range 2 {
		off := prng.Jitter(h.seed, 9000+i, strokeJitter)
		fmt.Fprintf(buf, `    <path class="wrap-sketch" d="M %.2f %.2f L %.2f %.2f" stroke="#8d6e63" stroke-opacity="0.4" stroke-width="0.8"/>`+"\n",
			left+off, w.Top+off, w.CX+off, w.Bottom)
	}
	ry := styles.RibbonY(w)
	fmt.Fprintf(buf, `    <path class="ribbon" d="M %.2f %.2f q %.2f %.2f %.2f 0 q %.2f %.2f %.2f 0" fill="none" stroke="%s" stroke-width="3" stroke-linecap="round" filter="url(#hd-rough)"/>`+"\n",
		w.CX-w.HalfWidth*0.4, ry, w.HalfWidth*0.2, -w.HalfWidth*0.15, w.HalfWidth*0.4,
		w.HalfWidth*0.2, w.HalfWidth*0.15, w.HalfWidth*0.4, w.Ribbon)
}

func (h *HandDrawn) RenderFlower(buf *bytes.Buffer, f styles.Flower) {
	k := h.key(f.ID)
	fmt.Fprintf(buf, `    <g id="%s" class="flower flower-%s" transform="translate(%.2f %.2f) rotate(%.2f)" filter="url(#hd-rough)">`+"\n",
		styles.EscapeXML(f.ID), styles.EscapeXML(f.Key), f.CX, f.CY, f.Rotation)
	fmt.Fprintf(buf, "      <title>%s</title>\n", styles.EscapeXML(f.Name))
	for i, p := range styles.Petals(f) {
		stretch := 1 + prng.Jitter(h.seed, k+i, 0.1)
		fmt.Fprintf(buf, `      <ellipse cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" transform="rotate(%.2f %.2f %.2f)" fill="%s" stroke="%s" stroke-width="1.2"/>`+"\n",
			p.CX, p.CY, p.RX, p.RY*stretch, p.Rotation, p.CX, p.CY, f.PetalColor, f.Outline)
	}
	r := f.R * styles.CenterRatio
	fmt.Fprintf(buf, `      <circle cx="0" cy="0" r="%.2f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n", r, f.CenterColor, f.Outline)
	fmt.Fprintf(buf, `      <circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-opacity="0.5" stroke-width="0.8"/>`+"\n",
		prng.Jitter(h.seed, k+100, strokeJitter), prng.Jitter(h.seed, k+101, strokeJitter), r*1.05, f.Outline)
	buf.WriteString("    </g>\n")
}

func (h *HandDrawn) RenderCard(buf *bytes.Buffer, c styles.Card) {
	buf.WriteString(`  <g class="card">` + "\n")
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" fill="#fffdf5" stroke="#6d5c4b" stroke-width="1.4" filter="url(#hd-rough)"/>`+"\n",
		c.X, c.Y, c.W, c.H)
	x := c.X + styles.CardPadding
	y := c.Y + styles.CardPadding + styles.CardLineHeight*0.8
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" %s font-size="16" font-weight="bold" fill="#3b2f25">Dear %s,</text>`+"\n",
		x, y, font, styles.EscapeXML(c.To))
	for _, line := range c.Lines {
		y += styles.CardLineHeight
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" %s font-size="14" fill="#3b2f25">%s</text>`+"\n",
			x, y, font, styles.EscapeXML(line))
	}
	y += styles.CardLineHeight * 1.4
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" %s font-size="14" text-anchor="end" fill="#3b2f25">With love, %s</text>`+"\n",
		c.X+c.W-styles.CardPadding, y, font, styles.EscapeXML(c.From))
	buf.WriteString("  </g>\n")
}

// key maps an element ID to a prng index range so each element wobbles
// independently of render order.
func (h *HandDrawn) key(id string) int {
	f := fnv.New32a()
	f.Write([]byte(id))
	return int(f.Sum32()%1_000_000) * 8
}

var _ styles.Style = (*HandDrawn)(nil)
