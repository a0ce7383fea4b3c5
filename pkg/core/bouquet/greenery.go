package bouquet

import "fmt"

// Greenery is a foliage preset.
type Greenery string

const (
	GreeneryClassic    Greenery = "classic"
	GreeneryWild       Greenery = "wild"
	GreeneryEucalyptus Greenery = "eucalyptus"
)

// DefaultGreenery is used when no style is given.
const DefaultGreenery = GreeneryClassic

// GreeneryStyles lists the presets in cycling order.
var GreeneryStyles = []Greenery{GreeneryClassic, GreeneryWild, GreeneryEucalyptus}

// Valid reports whether g is a known preset.
func (g Greenery) Valid() bool {
	switch g {
	case GreeneryClassic, GreeneryWild, GreeneryEucalyptus:
		return true
	}
	return false
}

// Next returns the preset after g, wrapping around. Unknown values restart
// the cycle at the default.
func (g Greenery) Next() Greenery {
	for i, s := range GreeneryStyles {
		if s == g {
			return GreeneryStyles[(i+1)%len(GreeneryStyles)]
		}
	}
	return DefaultGreenery
}

func (g Greenery) String() string { return string(g) }

// ParseGreenery converts s to a Greenery. The empty string yields the default.
func ParseGreenery(s string) (Greenery, error) {
	if s == "" {
		return DefaultGreenery, nil
	}
	g := Greenery(s)
	if !g.Valid() {
		return "", fmt.Errorf("invalid greenery style: %q (must be one of: classic, wild, eucalyptus)", s)
	}
	return g, nil
}
