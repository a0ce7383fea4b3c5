// Package flower holds the static catalog of flower types a bouquet can be
// built from.
//
// The catalog is assembled once at package init and never mutated. Callers
// receive copies, so nothing outside this package can change a type's
// visual parameters at runtime.
//
// # Unknown keys
//
// [Lookup] never fails. A key that is not in the catalog resolves to
// [DefaultKey] so a bouquet with a stale or hand-edited flower key still
// renders instead of erroring out.
package flower

import (
	"slices"
	"strings"
)

// DefaultKey is the flower type used whenever a key is unknown.
const DefaultKey = "roses"

// Size is the visual size category of a flower type.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Weight returns the grouping weight of a size category. Heavier groups are
// placed first so visually dominant flowers anchor the front of the bouquet.
func (s Size) Weight() int {
	switch s {
	case SizeLarge:
		return 3
	case SizeMedium:
		return 2
	default:
		return 1
	}
}

// ScaleFactor returns the base scale multiplier for the category.
func (s Size) ScaleFactor() float64 {
	switch s {
	case SizeLarge:
		return 1.08
	case SizeMedium:
		return 1.0
	default:
		return 0.9
	}
}

// Type describes one flower in the catalog.
type Type struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Size        Size   `json:"size"`
	Petals      int    `json:"petals"`
	PetalColor  string `json:"petal_color"`
	CenterColor string `json:"center_color"`
	Outline     string `json:"outline"`
}

// Weight is shorthand for t.Size.Weight().
func (t Type) Weight() int { return t.Size.Weight() }

// catalog is ordered; the order is the one shown in pickers and the one used
// when choosing an accent flower.
var catalog = []Type{
	{Key: "roses", Name: "Rose", Emoji: "🌹", Size: SizeLarge, Petals: 8, PetalColor: "#d6336c", CenterColor: "#a61e4d", Outline: "#7a1538"},
	{Key: "sunflowers", Name: "Sunflower", Emoji: "🌻", Size: SizeLarge, Petals: 14, PetalColor: "#fab005", CenterColor: "#6f4e37", Outline: "#b07d02"},
	{Key: "lavender", Name: "Lavender", Emoji: "💜", Size: SizeSmall, Petals: 6, PetalColor: "#9775fa", CenterColor: "#7048e8", Outline: "#5f3dc4"},
	{Key: "tulips", Name: "Tulip", Emoji: "🌷", Size: SizeMedium, Petals: 3, PetalColor: "#f06595", CenterColor: "#e64980", Outline: "#a61e4d"},
	{Key: "daisies", Name: "Daisy", Emoji: "🌼", Size: SizeSmall, Petals: 12, PetalColor: "#fff9db", CenterColor: "#fcc419", Outline: "#adb5bd"},
	{Key: "mixed", Name: "Mixed", Emoji: "💐", Size: SizeMedium, Petals: 7, PetalColor: "#ff8787", CenterColor: "#ffd43b", Outline: "#c92a2a"},
	{Key: "cherry", Name: "Cherry Blossom", Emoji: "🌸", Size: SizeSmall, Petals: 5, PetalColor: "#ffdeeb", CenterColor: "#f783ac", Outline: "#e599b7"},
	{Key: "hibiscus", Name: "Hibiscus", Emoji: "🌺", Size: SizeLarge, Petals: 5, PetalColor: "#fa5252", CenterColor: "#ffe066", Outline: "#c92a2a"},
	{Key: "orchid", Name: "Orchid", Emoji: "🪻", Size: SizeMedium, Petals: 5, PetalColor: "#da77f2", CenterColor: "#f8f0fc", Outline: "#9c36b5"},
	{Key: "lotus", Name: "Lotus", Emoji: "🪷", Size: SizeLarge, Petals: 9, PetalColor: "#faa2c1", CenterColor: "#ffec99", Outline: "#c2255c"},
	{Key: "carnation", Name: "Carnation", Emoji: "🏵️", Size: SizeMedium, Petals: 10, PetalColor: "#ff922b", CenterColor: "#e8590c", Outline: "#d9480f"},
	{Key: "lily", Name: "Lily", Emoji: "💮", Size: SizeLarge, Petals: 6, PetalColor: "#ffffff", CenterColor: "#ffa94d", Outline: "#ced4da"},
}

var byKey = func() map[string]Type {
	m := make(map[string]Type, len(catalog))
	for _, t := range catalog {
		m[t.Key] = t
	}
	return m
}()

// Lookup returns the flower type for key, falling back to the default type.
// The boolean reports whether key was found.
func Lookup(key string) (Type, bool) {
	if t, ok := byKey[key]; ok {
		return t, true
	}
	return byKey[DefaultKey], false
}

// Get returns the flower type for key, or the default type when unknown.
func Get(key string) Type {
	t, _ := Lookup(key)
	return t
}

// Resolve normalizes key to a catalog key. Unknown keys resolve to DefaultKey.
func Resolve(key string) string {
	if _, ok := byKey[key]; ok {
		return key
	}
	return DefaultKey
}

// Known reports whether key is in the catalog.
func Known(key string) bool {
	_, ok := byKey[key]
	return ok
}

// All returns a copy of the catalog in display order.
func All() []Type {
	return slices.Clone(catalog)
}

// Keys returns the catalog keys in display order.
func Keys() []string {
	keys := make([]string, len(catalog))
	for i, t := range catalog {
		keys[i] = t.Key
	}
	return keys
}

// Accent returns the first catalog key that differs from key. It is used to
// pair a single legacy flower with a contrasting companion.
func Accent(key string) string {
	for _, t := range catalog {
		if t.Key != key {
			return t.Key
		}
	}
	return "daisies"
}

// Search returns catalog entries whose key or name contains q (case-insensitive).
func Search(q string) []Type {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return All()
	}
	var out []Type
	for _, t := range catalog {
		if strings.Contains(t.Key, q) || strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, t)
		}
	}
	return out
}
