package styles

import "bytes"

// Style renders the visual elements of a bouquet into an SVG buffer.
type Style interface {
	RenderDefs(buf *bytes.Buffer)
	RenderStem(buf *bytes.Buffer, s Stem)
	RenderLeaf(buf *bytes.Buffer, l Leaf)
	RenderWrap(buf *bytes.Buffer, w Wrap)
	RenderFlower(buf *bytes.Buffer, f Flower)
	RenderCard(buf *bytes.Buffer, c Card)
}

// Stem is a quadratic curve in pixel space.
type Stem struct {
	ID             string
	X0, Y0, CX, CY float64
	X1, Y1         float64
	Width          float64
	Color          string
}

// Leaf is an ellipse (or circle when RX == RY) in pixel space.
type Leaf struct {
	ID       string
	CX, CY   float64
	RX, RY   float64
	Rotation float64
	Color    string
}

// Wrap is the paper cone. (CX, Top) is the center of its opening and
// (CX, Bottom) its tip.
type Wrap struct {
	CX, Top, Bottom float64
	HalfWidth       float64
	Paper, Ribbon   string
}

// Flower is one flower head in pixel space.
type Flower struct {
	ID          string
	Key         string
	Name        string
	CX, CY      float64
	R           float64
	Rotation    float64
	Petals      int
	PetalColor  string
	CenterColor string
	Outline     string
}

// Card is the message card drawn under the bouquet.
type Card struct {
	X, Y, W, H float64
	To         string
	From       string
	Lines      []string
}
