package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/digibouquet/pkg/core/bouquet"
	"github.com/matzehuels/digibouquet/pkg/core/flower"
	"github.com/matzehuels/digibouquet/pkg/core/prng"
	"github.com/matzehuels/digibouquet/pkg/core/render/greenery"
)

// Slot is an anchor in the slot table. X and Y are percentages; Depth orders
// slots back (low) to front (high).
type Slot struct {
	X, Y  float64
	Depth int
}

// DefaultSlots is the dome-shaped slot table. Slot 0 is the front center,
// so the dominant flower anchors the bouquet.
var DefaultSlots = []Slot{
	{50, 42, 9},
	{36, 34, 7},
	{64, 34, 7},
	{50, 26, 4},
	{24, 48, 8},
	{76, 48, 8},
	{30, 20, 2},
	{70, 20, 2},
	{16, 34, 5},
	{84, 34, 5},
}

// DefaultJitter is the positional jitter amplitude in percent used by Build.
const DefaultJitter = 2.5

const (
	scaleMax    = 1.15
	scaleMin    = 0.9
	scaleJitter = 0.04
	tilt        = 0.6 // degrees of rotation per percent from center
	tiltJitter  = 6.0
	lapPull     = 0.18 // fraction pulled toward center per extra lap
	minBound    = 4.0
	maxBound    = 96.0
)

// PlacedFlower is the render description of one flower.
type PlacedFlower struct {
	Type     string  `json:"type" bson:"type"`
	Index    int     `json:"index" bson:"index"`
	Slot     int     `json:"slot" bson:"slot"`
	Lap      int     `json:"lap,omitempty" bson:"lap,omitempty"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Rotation float64 `json:"rotation" bson:"rotation"`
	Scale    float64 `json:"scale" bson:"scale"`
	Z        int     `json:"z" bson:"z"`
}

// Layout is a fully placed bouquet.
type Layout struct {
	Width    float64          `json:"width" bson:"width"`
	Height   float64          `json:"height" bson:"height"`
	Seed     int64            `json:"seed" bson:"seed"`
	Greenery bouquet.Greenery `json:"greenery" bson:"greenery"`
	Dominant string           `json:"dominant" bson:"dominant"`
	Flowers  []PlacedFlower   `json:"flowers" bson:"flowers"`
	Foliage  greenery.Set     `json:"foliage" bson:"foliage"`
}

// Option configures Build.
type Option func(*config)

type config struct {
	slots  []Slot
	jitter float64
}

// WithSlots replaces the slot table. An empty table is ignored.
func WithSlots(slots []Slot) Option {
	return func(c *config) {
		if len(slots) > 0 {
			c.slots = slots
		}
	}
}

// WithJitter sets the positional jitter amplitude in percent. It is clamped
// so that neighbouring slots can never trade places.
func WithJitter(amount float64) Option {
	return func(c *config) { c.jitter = amount }
}

// Build places every flower of s in a width×height frame.
// A spec without flowers yields a layout with no flowers and no foliage.
func Build(s bouquet.Spec, width, height float64, opts ...Option) Layout {
	cfg := config{slots: DefaultSlots, jitter: DefaultJitter}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.jitter = min(max(cfg.jitter, 0), maxJitter(cfg.slots))

	greeneryStyle := s.Greenery
	if !greeneryStyle.Valid() {
		greeneryStyle = bouquet.DefaultGreenery
	}

	l := Layout{
		Width:    width,
		Height:   height,
		Seed:     s.Seed,
		Greenery: greeneryStyle,
		Dominant: flower.Resolve(s.Dominant()),
		Flowers:  []PlacedFlower{},
	}

	seq := s.Sequence()
	if len(seq) == 0 {
		l.Foliage = greenery.Set{Style: greeneryStyle}
		return l
	}

	n := len(seq)
	for i, key := range seq {
		l.Flowers = append(l.Flowers, place(s.Seed, i, n, key, cfg))
	}
	assignZ(l.Flowers, cfg.slots)
	l.Foliage = greenery.Generate(s.Seed, greeneryStyle)
	return l
}

func place(seed int64, i, n int, key string, cfg config) PlacedFlower {
	slotIdx := i % len(cfg.slots)
	lap := i / len(cfg.slots)
	slot := cfg.slots[slotIdx]

	x, y := slot.X, slot.Y
	if lap > 0 {
		pull := max(1-float64(lapPull*float64(lap)), 0.4)
		x = 50 + float64((x-50)*pull)
		y = 34 + float64((y-34)*pull)
	}
	r := i * 4
	x += prng.Jitter(seed, r, cfg.jitter)
	y += prng.Jitter(seed, r+1, cfg.jitter)
	x = min(max(x, minBound), maxBound)
	y = min(max(y, minBound), maxBound)

	rotation := float64((x-50)*tilt) + prng.Jitter(seed, r+2, tiltJitter)

	falloff := 0.0
	if n > 1 {
		falloff = float64(i) / float64(n-1)
	}
	base := scaleMax - float64((scaleMax-scaleMin)*falloff)
	scale := float64(base*flower.Get(key).Size.ScaleFactor()) + prng.Jitter(seed, r+3, scaleJitter)

	return PlacedFlower{
		Type:     key,
		Index:    i,
		Slot:     slotIdx,
		Lap:      lap,
		X:        prng.Round(x),
		Y:        prng.Round(y),
		Rotation: prng.Round(rotation),
		Scale:    prng.Round(scale),
	}
}

// assignZ ranks flowers 1..n by (slot depth, lap desc, index desc).
func assignZ(fs []PlacedFlower, slots []Slot) {
	order := make([]int, len(fs))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		fa, fb := fs[a], fs[b]
		if d := cmp.Compare(slots[fa.Slot].Depth, slots[fb.Slot].Depth); d != 0 {
			return d
		}
		if d := cmp.Compare(fb.Lap, fa.Lap); d != 0 {
			return d
		}
		return cmp.Compare(fb.Index, fa.Index)
	})
	for rank, idx := range order {
		fs[idx].Z = rank + 1
	}
}

// maxJitter returns the largest jitter that keeps distinct slot coordinates
// in order on both axes: strictly less than half the smallest gap.
func maxJitter(slots []Slot) float64 {
	xs := make([]float64, len(slots))
	ys := make([]float64, len(slots))
	for i, s := range slots {
		xs[i], ys[i] = s.X, s.Y
	}
	gap := min(minGap(xs), minGap(ys))
	return float64(gap * 0.45)
}

func minGap(vs []float64) float64 {
	slices.Sort(vs)
	vs = slices.Compact(vs)
	gap := 100.0
	for i := 1; i < len(vs); i++ {
		gap = min(gap, vs[i]-vs[i-1])
	}
	return gap
}

// ByZ returns the flowers sorted back to front.
func (l Layout) ByZ() []PlacedFlower {
	fs := slices.Clone(l.Flowers)
	slices.SortFunc(fs, func(a, b PlacedFlower) int { return cmp.Compare(a.Z, b.Z) })
	return fs
}

// Empty reports whether the layout has nothing to draw.
func (l Layout) Empty() bool { return len(l.Flowers) == 0 }
