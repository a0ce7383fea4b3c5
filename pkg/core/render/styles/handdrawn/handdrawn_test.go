package handdrawn

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/digibouquet/pkg/core/render/styles"
)

func render(h *HandDrawn) string {
	var buf bytes.Buffer
	h.RenderDefs(&buf)
	h.RenderStem(&buf, styles.Stem{ID: "stem-0", X0: 240, Y0: 515, CX: 230, CY: 400, X1: 200, Y1: 300, Width: 2.5, Color: "#3a5a40"})
	h.RenderLeaf(&buf, styles.Leaf{ID: "leaf-0", CX: 220, CY: 380, RX: 12, RY: 5, Rotation: -30, Color: "#588157"})
	h.RenderWrap(&buf, styles.Wrap{CX: 240, Top: 380, Bottom: 540, HalfWidth: 70, Paper: "#f3e5d0", Ribbon: "#e64980"})
	h.RenderFlower(&buf, styles.Flower{ID: "flower-0", Key: "daisies", Name: "Daisy", CX: 240, CY: 230, R: 30, Petals: 12, PetalColor: "#fff9db", CenterColor: "#fcc419", Outline: "#adb5bd"})
	h.RenderCard(&buf, styles.Card{X: 20, Y: 580, W: 440, H: 120, To: "Ada", From: "Tom", Lines: []string{"Happy spring!"}})
	return buf.String()
}

func TestNew(t *testing.T) {
	h := New(42)
	if h.seed != 42 {
		t.Errorf("seed = %d, want 42", h.seed)
	}
}

func TestRenderDefs(t *testing.T) {
	var buf bytes.Buffer
	New(42).RenderDefs(&buf)
	out := buf.String()
	for _, want := range []string{"<defs>", `id="hd-rough"`, `seed="42"`, `id="hd-paper"`, "</defs>"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderDefs() missing %q", want)
		}
	}
}

func TestDeterministic(t *testing.T) {
	if render(New(7)) != render(New(7)) {
		t.Error("same seed should render identical output")
	}
	if render(New(7)) == render(New(8)) {
		t.Error("different seeds should wobble differently")
	}
}

func TestRenderFlowerUsesFilter(t *testing.T) {
	out := render(New(1))
	for _, want := range []string{
		`class="flower flower-daisies"`,
		`filter="url(#hd-rough)"`,
		`<title>Daisy</title>`,
		`fill="url(#hd-paper)"`,
		`Dear Ada,`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestCircleLeafHasNoMidrib(t *testing.T) {
	var buf bytes.Buffer
	New(1).RenderLeaf(&buf, styles.Leaf{ID: "l", CX: 1, CY: 1, RX: 3, RY: 3, Color: "#000"})
	if strings.Contains(buf.String(), "<line") {
		t.Error("round leaves should not draw a midrib")
	}
}
