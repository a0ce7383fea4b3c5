package layout

import (
	"encoding/json"
	"fmt"
)

// Marshal serializes l to JSON. Output is deterministic for a given layout.
func Marshal(l Layout) ([]byte, error) {
	return json.Marshal(l)
}

// Unmarshal parses a layout produced by Marshal.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Flowers == nil {
		l.Flowers = []PlacedFlower{}
	}
	return l, nil
}
