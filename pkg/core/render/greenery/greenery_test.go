package greenery

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/digibouquet/pkg/core/bouquet"
)

func TestGenerateCounts(t *testing.T) {
	tests := []struct {
		style      bouquet.Greenery
		stems      int
		leaves     int
		shape      Shape
		roundLeafs bool
	}{
		{bouquet.GreeneryClassic, 7, 6, ShapeEllipse, false},
		{bouquet.GreeneryWild, 9, 10, ShapeEllipse, false},
		{bouquet.GreeneryEucalyptus, 5, 12, ShapeCircle, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			set := Generate(7, tt.style)
			if set.Style != tt.style {
				t.Errorf("Style = %q, want %q", set.Style, tt.style)
			}
			if len(set.Stems) != tt.stems {
				t.Errorf("stems = %d, want %d", len(set.Stems), tt.stems)
			}
			if len(set.Leaves) != tt.leaves {
				t.Errorf("leaves = %d, want %d", len(set.Leaves), tt.leaves)
			}
			for _, l := range set.Leaves {
				if l.Shape != tt.shape {
					t.Errorf("leaf shape = %q, want %q", l.Shape, tt.shape)
				}
				if tt.roundLeafs && l.RX != l.RY {
					t.Errorf("circle leaf has rx=%v ry=%v", l.RX, l.RY)
				}
				if l.Stem < 0 || l.Stem >= len(set.Stems) {
					t.Errorf("leaf attached to missing stem %d", l.Stem)
				}
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	for _, style := range bouquet.GreeneryStyles {
		a := Generate(42, style)
		b := Generate(42, style)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Generate(42, %s) is not deterministic", style)
		}
	}
}

func TestGenerateSeedChangesShapes(t *testing.T) {
	a := Generate(7, bouquet.GreeneryClassic)
	b := Generate(8, bouquet.GreeneryClassic)
	if reflect.DeepEqual(a.Stems, b.Stems) {
		t.Error("different seeds should produce different stems")
	}
}

func TestStemsFanFromBase(t *testing.T) {
	for _, style := range bouquet.GreeneryStyles {
		set := Generate(3, style)
		for i, s := range set.Stems {
			if s.X0 != BaseX || s.Y0 != BaseY {
				t.Errorf("%s stem %d starts at (%v,%v)", style, i, s.X0, s.Y0)
			}
			if s.Y1 >= BaseY {
				t.Errorf("%s stem %d grows downward to y=%v", style, i, s.Y1)
			}
			if s.X1 < 0 || s.X1 > 100 || s.Y1 < 0 {
				t.Errorf("%s stem %d ends outside frame (%v,%v)", style, i, s.X1, s.Y1)
			}
		}
		// The fan runs left to right.
		if first, last := set.Stems[0], set.Stems[len(set.Stems)-1]; first.X1 >= last.X1 {
			t.Errorf("%s fan not ordered: first x=%v last x=%v", style, first.X1, last.X1)
		}
	}
}

func TestUnknownStyleFallsBack(t *testing.T) {
	got := Generate(5, "fern")
	want := Generate(5, bouquet.DefaultGreenery)
	if !reflect.DeepEqual(got, want) {
		t.Error("unknown style should fall back to the default preset")
	}
}

func TestStemPath(t *testing.T) {
	s := Stem{X0: 50, Y0: 92, CX: 48, CY: 60, X1: 40, Y1: 30}
	p := s.Path(200, 100)
	if !strings.HasPrefix(p, "M 100.00 92.00 Q") {
		t.Errorf("Path() = %q", p)
	}
	if !strings.HasSuffix(p, "80.00 30.00") {
		t.Errorf("Path() = %q", p)
	}
}
