package styles

import (
	"bytes"
	"strings"
	"testing"
)

func TestSimpleRenderDefs(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderDefs(&buf)
	if buf.Len() != 0 {
		t.Errorf("RenderDefs() wrote %d bytes, want 0", buf.Len())
	}
}

func TestSimpleRender(t *testing.T) {
	s := Simple{}

	tests := []struct {
		name     string
		render   func(*bytes.Buffer)
		contains []string
	}{
		{
			name: "stem",
			render: func(b *bytes.Buffer) {
				s.RenderStem(b, Stem{ID: "stem-0", X0: 10, Y0: 90, CX: 20, CY: 60, X1: 30, Y1: 40, Width: 2, Color: "#3a5a40"})
			},
			contains: []string{`id="stem-0"`, `d="M 10.00 90.00 Q 20.00 60.00 30.00 40.00"`, `stroke="#3a5a40"`},
		},
		{
			name: "leaf",
			render: func(b *bytes.Buffer) {
				s.RenderLeaf(b, Leaf{ID: "leaf-1", CX: 5, CY: 6, RX: 4, RY: 2, Rotation: 30, Color: "#588157"})
			},
			contains: []string{`<ellipse`, `id="leaf-1"`, `rotate(30.00 5.00 6.00)`},
		},
		{
			name: "flower",
			render: func(b *bytes.Buffer) {
				s.RenderFlower(b, Flower{ID: "flower-0", Key: "roses", Name: "Rose", CX: 100, CY: 80, R: 20, Petals: 8, PetalColor: "#d6336c", CenterColor: "#a61e4d", Outline: "#7a1538"})
			},
			contains: []string{`class="flower flower-roses"`, `translate(100.00 80.00)`, `<title>Rose</title>`, `fill="#d6336c"`, `<circle`},
		},
		{
			name: "wrap",
			render: func(b *bytes.Buffer) {
				s.RenderWrap(b, Wrap{CX: 100, Top: 200, Bottom: 300, HalfWidth: 40, Paper: "#f3e5d0", Ribbon: "#e64980"})
			},
			contains: []string{`class="wrap"`, `M 60.00 200.00 L 140.00 200.00 L 100.00 300.00 Z`, `class="ribbon"`},
		},
		{
			name: "card escapes text",
			render: func(b *bytes.Buffer) {
				s.RenderCard(b, Card{X: 0, Y: 0, W: 200, H: 100, To: "<Ada>", From: "Tom & Jerry", Lines: []string{"hi"}})
			},
			contains: []string{`Dear &lt;Ada&gt;,`, `With love, Tom &amp; Jerry`, `>hi</text>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.render(&buf)
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestPetals(t *testing.T) {
	ps := Petals(Flower{R: 20, Petals: 6})
	if len(ps) != 6 {
		t.Fatalf("len = %d, want 6", len(ps))
	}
	if ps[0].CX != 0 || ps[0].CY != -10 {
		t.Errorf("first petal at (%v, %v), want (0, -10)", ps[0].CX, ps[0].CY)
	}
	if ps[3].Rotation != 180 {
		t.Errorf("petal 3 rotation = %v, want 180", ps[3].Rotation)
	}

	if got := len(Petals(Flower{R: 10, Petals: 0})); got != 3 {
		t.Errorf("zero petals should clamp to 3, got %d", got)
	}
}

func TestEscapeXML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello", "hello"},
		{"a & b", "a &amp; b"},
		{"<b>", "&lt;b&gt;"},
		{`say "hi"`, "say &#34;hi&#34;"},
		{"it's", "it&#39;s"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := EscapeXML(tt.input); got != tt.want {
				t.Errorf("EscapeXML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{"fits", "hello world", 20, []string{"hello world"}},
		{"wraps", "hello there world", 11, []string{"hello there", "world"}},
		{"newlines kept", "a\nb", 10, []string{"a", "b"}},
		{"long word cut", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"multibyte", "🌸🌸🌸 🌷", 3, []string{"🌸🌸🌸", "🌷"}},
		{"empty", "", 5, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.in, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("WrapText(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestCardLines(t *testing.T) {
	msg := strings.Repeat("lovely flowers for you ", 20)
	lines := CardLines(msg, 4)
	if len(lines) != 4 {
		t.Fatalf("len = %d, want 4", len(lines))
	}
	if !strings.HasSuffix(lines[3], "…") {
		t.Errorf("truncated card should end with an ellipsis: %q", lines[3])
	}
	if got := CardLines("short", 4); len(got) != 1 || got[0] != "short" {
		t.Errorf("CardLines(short) = %q", got)
	}
}

func TestCardHeightGrows(t *testing.T) {
	if CardHeight(3) <= CardHeight(1) {
		t.Error("CardHeight should grow with line count")
	}
}
