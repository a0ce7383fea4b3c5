// Package greenery generates the stems and leaves drawn behind a bouquet.
//
// Each preset defines how many stems fan out from a shared base point below
// the flowers, how wide the fan is, how much the stems curl, and what leaves
// hang off them. Generation is a pure function of (seed, style): the same
// pair always yields the same shapes.
//
// Presets draw from the pseudo-random source with their own seed offset so
// switching style on one bouquet gives unrelated foliage instead of the same
// shapes in a new colour.
package greenery

import (
	"fmt"
	"math"

	"github.com/matzehuels/digibouquet/pkg/core/bouquet"
	"github.com/matzehuels/digibouquet/pkg/core/prng"
)

// Base is the point every stem grows from, in percent of the frame.
const (
	BaseX = 50.0
	BaseY = 92.0
)

// Shape is the primitive used to draw a leaf.
type Shape string

const (
	ShapeEllipse Shape = "ellipse"
	ShapeCircle  Shape = "circle"
)

// Stem is a quadratic Bézier curve from the base to a point under the flowers.
type Stem struct {
	X0    float64 `json:"x0" bson:"x0"`
	Y0    float64 `json:"y0" bson:"y0"`
	CX    float64 `json:"cx" bson:"cx"`
	CY    float64 `json:"cy" bson:"cy"`
	X1    float64 `json:"x1" bson:"x1"`
	Y1    float64 `json:"y1" bson:"y1"`
	Width float64 `json:"width" bson:"width"`
	Color string  `json:"color" bson:"color"`
}

// Leaf is an ellipse or circle attached near a stem.
type Leaf struct {
	Stem     int     `json:"stem" bson:"stem"`
	Shape    Shape   `json:"shape" bson:"shape"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	RX       float64 `json:"rx" bson:"rx"`
	RY       float64 `json:"ry" bson:"ry"`
	Rotation float64 `json:"rotation" bson:"rotation"`
	Color    string  `json:"color" bson:"color"`
}

// Set is the foliage for one bouquet.
type Set struct {
	Style  bouquet.Greenery `json:"style" bson:"style"`
	Stems  []Stem           `json:"stems" bson:"stems"`
	Leaves []Leaf           `json:"leaves" bson:"leaves"`
}

type params struct {
	offset     int64
	stems      int
	spread     float64 // total fan angle in degrees
	length     [2]float64
	curl       float64
	stemWidth  float64
	stemColor  string
	leaves     int
	shape      Shape
	leafRX     [2]float64
	leafRY     [2]float64
	leafTilt   float64
	leafColors []string
}

var presets = map[bouquet.Greenery]params{
	bouquet.GreeneryClassic: {
		offset: 101, stems: 7, spread: 56, length: [2]float64{52, 62}, curl: 4,
		stemWidth: 0.9, stemColor: "#2b8a3e",
		leaves: 6, shape: ShapeEllipse,
		leafRX: [2]float64{3.2, 4.2}, leafRY: [2]float64{1.3, 1.7}, leafTilt: 38,
		leafColors: []string{"#37b24d", "#2f9e44"},
	},
	bouquet.GreeneryWild: {
		offset: 211, stems: 9, spread: 84, length: [2]float64{46, 68}, curl: 9,
		stemWidth: 0.7, stemColor: "#5c940d",
		leaves: 10, shape: ShapeEllipse,
		leafRX: [2]float64{3.6, 5.4}, leafRY: [2]float64{0.9, 1.3}, leafTilt: 55,
		leafColors: []string{"#74b816", "#66a80f", "#94d82d"},
	},
	bouquet.GreeneryEucalyptus: {
		offset: 307, stems: 5, spread: 44, length: [2]float64{54, 64}, curl: 3,
		stemWidth: 0.8, stemColor: "#5f7f7a",
		leaves: 12, shape: ShapeCircle,
		leafRX: [2]float64{1.6, 2.3}, leafRY: [2]float64{1.6, 2.3}, leafTilt: 0,
		leafColors: []string{"#87a8a4", "#9fbfb9", "#6f918c"},
	},
}

// Generate returns the foliage for seed in the given style. Unknown styles
// fall back to the default preset.
func Generate(seed int64, style bouquet.Greenery) Set {
	if !style.Valid() {
		style = bouquet.DefaultGreenery
	}
	p := presets[style]
	s := seed + p.offset
	set := Set{Style: style}

	angles := make([]float64, p.stems)
	for k := range p.stems {
		t := 0.5
		if p.stems > 1 {
			t = float64(k) / float64(p.stems-1)
		}
		i := k * 4
		step := p.spread / float64(max(p.stems-1, 1))
		angle := -p.spread/2 + float64(t*p.spread) + prng.Jitter(s, i, float64(step*0.3))
		angles[k] = angle
		length := prng.Between(s, i+1, p.length[0], p.length[1])
		set.Stems = append(set.Stems, stem(angle, length, prng.Jitter(s, i+2, p.curl), p))
	}

	for j := range p.leaves {
		k := j % p.stems
		i := 1000 + j*4
		st := set.Stems[k]
		t := prng.Between(s, i, 0.35, 0.85)
		x, y := st.point(t)
		side := 1.0
		if j%2 == 1 {
			side = -1
		}
		rx := prng.Between(s, i+1, p.leafRX[0], p.leafRX[1])
		ry := rx
		if p.shape == ShapeEllipse {
			ry = prng.Between(s, i+2, p.leafRY[0], p.leafRY[1])
		}
		set.Leaves = append(set.Leaves, Leaf{
			Stem:     k,
			Shape:    p.shape,
			X:        prng.Round(x + float64(side*rx*0.6)),
			Y:        prng.Round(y),
			RX:       prng.Round(rx),
			RY:       prng.Round(ry),
			Rotation: prng.Round(angles[k] + float64(side*p.leafTilt) + prng.Jitter(s, i+3, 8)),
			Color:    p.leafColors[j%len(p.leafColors)],
		})
	}
	return set
}

func stem(angleDeg, length, curl float64, p params) Stem {
	rad := angleDeg * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	x1 := BaseX + float64(dx*length)
	y1 := BaseY + float64(dy*length)
	// Control point sits at the midpoint, pushed sideways along the normal.
	cx := (BaseX+x1)/2 + float64(-dy*curl)
	cy := (BaseY+y1)/2 + float64(dx*curl)
	return Stem{
		X0: BaseX, Y0: BaseY,
		CX: prng.Round(cx), CY: prng.Round(cy),
		X1: prng.Round(x1), Y1: prng.Round(y1),
		Width: p.stemWidth,
		Color: p.stemColor,
	}
}

// point evaluates the stem's Bézier curve at t in [0, 1].
func (s Stem) point(t float64) (float64, float64) {
	u := 1 - t
	a, b, c := float64(u*u), float64(2*u*t), float64(t*t)
	x := float64(a*s.X0) + float64(b*s.CX) + float64(c*s.X1)
	y := float64(a*s.Y0) + float64(b*s.CY) + float64(c*s.Y1)
	return x, y
}

// Path returns the SVG path data for the stem scaled to a w×h frame.
func (s Stem) Path(w, h float64) string {
	sx, sy := w/100, h/100
	return fmt.Sprintf("M %.2f %.2f Q %.2f %.2f %.2f %.2f",
		s.X0*sx, s.Y0*sy, s.CX*sx, s.CY*sy, s.X1*sx, s.Y1*sy)
}
