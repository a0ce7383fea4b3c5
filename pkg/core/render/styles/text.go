package styles

import (
	"bytes"
	"encoding/xml"
	"strings"
	"unicode/utf8"
)

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// WrapText breaks s into lines of at most width runes, splitting on
// whitespace. Explicit newlines are kept. Words longer than width are cut.
func WrapText(s string, width int) []string {
	if width <= 0 {
		width = 1
	}
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, w := range words {
			for utf8.RuneCountInString(w) > width {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				r := []rune(w)
				lines = append(lines, string(r[:width]))
				w = string(r[width:])
			}
			switch {
			case line == "":
				line = w
			case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) <= width:
				line += " " + w
			default:
				lines = append(lines, line)
				line = w
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// CardTextWidth is the wrap width, in runes, used for card messages.
const CardTextWidth = 38

// CardLines wraps message for a card and caps the result at limit lines,
// marking truncation with an ellipsis.
func CardLines(message string, limit int) []string {
	lines := WrapText(strings.TrimSpace(message), CardTextWidth)
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
		lines[limit-1] = strings.TrimRight(lines[limit-1], " ") + "…"
	}
	return lines
}
