package codec

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/matzehuels/digibouquet/pkg/core/bouquet"
	"github.com/matzehuels/digibouquet/pkg/core/flower"
)

const (
	// ThemeVersion is the payload version carried in the JSON body.
	ThemeVersion = 2

	// ThemePrefix tags a versioned theme payload.
	ThemePrefix = "v2:"

	// Legacy theme strings expand to this composition.
	legacySeed        = 7
	legacyMainCount   = 4
	legacyAccentCount = 2
)

type themeWire struct {
	V             int              `json:"v"`
	Flowers       map[string]int   `json:"flowers"`
	LayoutSeed    *int64           `json:"layoutSeed"`
	GreeneryStyle bouquet.Greenery `json:"greeneryStyle"`
	Dominant      string           `json:"dominant"`
}

// EncodeTheme serializes s into a versioned theme payload.
func EncodeTheme(s bouquet.Spec) string {
	g := s.Greenery
	if !g.Valid() {
		g = bouquet.DefaultGreenery
	}
	seed := s.Seed
	data, err := json.Marshal(themeWire{
		V:             ThemeVersion,
		Flowers:       s.Flowers,
		LayoutSeed:    &seed,
		GreeneryStyle: g,
		Dominant:      s.Dominant(),
	})
	if err != nil {
		// Unreachable for map[string]int; a bare key still renders.
		return s.Dominant()
	}
	return ThemePrefix + base64.StdEncoding.EncodeToString(data)
}

// DecodeTheme parses a versioned theme payload. Strings without the version
// prefix are rejected; use ResolveTheme to accept legacy values too.
func DecodeTheme(theme string) (bouquet.Spec, error) {
	if !strings.HasPrefix(theme, ThemePrefix) {
		return bouquet.Spec{}, invalid(nil, "theme payload missing %q tag", ThemePrefix)
	}
	body := strings.TrimRight(strings.TrimSpace(theme[len(ThemePrefix):]), "=")
	data, err := base64.RawStdEncoding.DecodeString(body)
	if err != nil {
		return bouquet.Spec{}, invalid(err, "theme payload is not valid base64")
	}

	var w themeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return bouquet.Spec{}, invalid(err, "theme payload is not valid JSON")
	}
	if w.V != ThemeVersion {
		return bouquet.Spec{}, invalid(nil, "unsupported theme version %d", w.V)
	}
	if w.LayoutSeed == nil {
		return bouquet.Spec{}, invalid(nil, "theme payload missing layoutSeed")
	}
	if w.Flowers == nil {
		return bouquet.Spec{}, invalid(nil, "theme payload missing flowers")
	}
	g := w.GreeneryStyle
	if g == "" {
		g = bouquet.DefaultGreenery
	}
	s := bouquet.New(w.Flowers, *w.LayoutSeed, g)
	if err := s.Validate(); err != nil {
		return bouquet.Spec{}, invalid(err, "theme payload holds an unusable bouquet")
	}
	return s, nil
}

// ResolveTheme decodes any stored theme string. A versioned payload is
// decoded strictly. Anything else is treated as a single legacy flower key
// and expanded to four of that flower plus two of a contrasting accent.
func ResolveTheme(theme string) (bouquet.Spec, error) {
	if strings.HasPrefix(theme, ThemePrefix) {
		return DecodeTheme(theme)
	}
	return LegacySpec(theme), nil
}

// LegacySpec expands a bare flower key into a default bouquet.
func LegacySpec(key string) bouquet.Spec {
	key = flower.Resolve(strings.TrimSpace(key))
	return bouquet.New(map[string]int{
		key:                legacyMainCount,
		flower.Accent(key): legacyAccentCount,
	}, legacySeed, bouquet.GreeneryClassic)
}
