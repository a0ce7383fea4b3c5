package codec

import (
	"encoding/base64"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/digibouquet/pkg/core/bouquet"
	"github.com/matzehuels/digibouquet/pkg/errors"
)

func TestThemeRoundTrip(t *testing.T) {
	tests := []bouquet.Spec{
		bouquet.New(map[string]int{"roses": 3, "daisies": 3}, 7, bouquet.GreeneryClassic),
		bouquet.New(map[string]int{"lotus": 4, "cherry": 2, "lily": 4}, 9999, bouquet.GreeneryEucalyptus),
		bouquet.New(map[string]int{"tulips": 6}, 0, bouquet.GreeneryWild),
	}

	for _, want := range tests {
		t.Run(want.Dominant(), func(t *testing.T) {
			theme := EncodeTheme(want)
			if !strings.HasPrefix(theme, ThemePrefix) {
				t.Fatalf("EncodeTheme() = %q, missing prefix", theme)
			}
			got, err := DecodeTheme(theme)
			if err != nil {
				t.Fatalf("DecodeTheme() error: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip = %+v, want %+v", got, want)
			}
		})
	}
}

func TestEncodeThemeCarriesDominant(t *testing.T) {
	theme := EncodeTheme(bouquet.New(map[string]int{"tulips": 4, "roses": 2}, 1, bouquet.GreeneryClassic))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(theme, ThemePrefix))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"dominant":"tulips"`) || !strings.Contains(string(raw), `"v":2`) {
		t.Errorf("payload = %s", raw)
	}
}

func TestDecodeThemeRejects(t *testing.T) {
	enc := func(s string) string { return ThemePrefix + base64.StdEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name  string
		theme string
	}{
		{"no prefix", "roses"},
		{"prefix only", "v2:"},
		{"bad base64", "v2:***"},
		{"bad json", enc("{")},
		{"wrong version", enc(`{"v":3,"flowers":{"roses":6},"layoutSeed":1,"greeneryStyle":"classic"}`)},
		{"missing version", enc(`{"flowers":{"roses":6},"layoutSeed":1}`)},
		{"missing seed", enc(`{"v":2,"flowers":{"roses":6},"greeneryStyle":"classic"}`)},
		{"missing flowers", enc(`{"v":2,"layoutSeed":1,"greeneryStyle":"classic"}`)},
		{"bad greenery", enc(`{"v":2,"flowers":{"roses":6},"layoutSeed":1,"greeneryStyle":"fern"}`)},
		{"counts wrap the total", enc(`{"v":2,"flowers":{"roses":9223372036854775807,"lily":9223372036854775807},"layoutSeed":1,"greeneryStyle":"classic"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTheme(tt.theme)
			if !errors.Is(err, errors.ErrCodeInvalidPayload) {
				t.Errorf("DecodeTheme(%q) error = %v, want INVALID_PAYLOAD", tt.theme, err)
			}
		})
	}
}

func TestResolveThemeLegacy(t *testing.T) {
	tests := []struct {
		theme  string
		main   string
		accent string
	}{
		{"tulips", "tulips", "roses"},
		{"roses", "roses", "sunflowers"},
		{"🌹", "roses", "sunflowers"},
		{"", "roses", "sunflowers"},
	}

	for _, tt := range tests {
		t.Run(tt.theme, func(t *testing.T) {
			s, err := ResolveTheme(tt.theme)
			if err != nil {
				t.Fatalf("ResolveTheme(%q) error: %v", tt.theme, err)
			}
			want := map[string]int{tt.main: 4, tt.accent: 2}
			if !reflect.DeepEqual(s.Flowers, want) {
				t.Errorf("Flowers = %v, want %v", s.Flowers, want)
			}
			if s.Seed != 7 || s.Greenery != bouquet.GreeneryClassic {
				t.Errorf("seed=%d greenery=%q, want 7 classic", s.Seed, s.Greenery)
			}
		})
	}
}

func TestResolveThemeMalformedVersioned(t *testing.T) {
	if _, err := ResolveTheme("v2:not base64!"); err == nil {
		t.Error("a tagged but malformed payload must not fall back to a legacy key")
	}
}
