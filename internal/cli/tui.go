package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/digibouquet/pkg/core/bouquet"
	"github.com/matzehuels/digibouquet/pkg/core/flower"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PickerModel - Interactive flower selection
// =============================================================================

// PickerModel is the bubbletea model for picking the flowers of a bouquet.
type PickerModel struct {
	Types    []flower.Type
	Counts   map[string]int
	Greenery bouquet.Greenery
	Cursor   int

	// Done is set when the user confirms a valid selection; Cancelled when
	// they quit.
	Done      bool
	Cancelled bool

	// notice is a one-line hint shown under the table.
	notice string
}

// NewPickerModel creates a picker over the full catalog, optionally
// pre-filled with counts.
func NewPickerModel(counts map[string]int, g bouquet.Greenery) PickerModel {
	m := PickerModel{
		Types:    flower.All(),
		Counts:   make(map[string]int),
		Greenery: g,
	}
	for k, n := range counts {
		m.Counts[flower.Resolve(k)] += n
	}
	if !m.Greenery.Valid() {
		m.Greenery = bouquet.DefaultGreenery
	}
	return m
}

// Total returns the number of picked flowers.
func (m PickerModel) Total() int {
	n := 0
	for _, c := range m.Counts {
		n += c
	}
	return n
}

// Spec returns the selection as a bouquet spec with the given seed.
func (m PickerModel) Spec(seed int64) bouquet.Spec {
	counts := make(map[string]int, len(m.Counts))
	for k, n := range m.Counts {
		if n > 0 {
			counts[k] = n
		}
	}
	return bouquet.New(counts, seed, m.Greenery)
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.notice = ""

	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.Cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Types)-1 {
			m.Cursor++
		}
	case "right", "l", "+", " ":
		if m.Total() >= bouquet.MaxFlowers {
			m.notice = fmt.Sprintf("A bouquet holds at most %d flowers.", bouquet.MaxFlowers)
			break
		}
		m.Counts[m.Types[m.Cursor].Key]++
	case "left", "h", "-":
		if k := m.Types[m.Cursor].Key; m.Counts[k] > 0 {
			m.Counts[k]--
		}
	case "g":
		m.Greenery = m.Greenery.Next()
	case "enter":
		if n := m.Total(); n < bouquet.MinAuthoringFlowers {
			m.notice = fmt.Sprintf("Pick at least %d flowers (%d so far).", bouquet.MinAuthoringFlowers, n)
			break
		}
		m.Done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Pick Your Flowers"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ←/→ remove/add  g greenery  ⏎ done  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Types))
	for i, t := range m.Types {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		count := ""
		if n := m.Counts[t.Key]; n > 0 {
			count = fmt.Sprintf("×%d", n)
		}
		rows[i] = []string{cursor, t.Emoji, t.Name, string(t.Size), count}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Flower", "Size", "Count").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			picked := m.Counts[m.Types[row].Key] > 0
			switch {
			case row == m.Cursor:
				return listSelectedStyle
			case picked:
				return listNormalStyle
			default:
				return listDimStyle
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	total := m.Total()
	counter := fmt.Sprintf("%d/%d flowers", total, bouquet.MaxFlowers)
	if total >= bouquet.MinAuthoringFlowers {
		counter = StyleSuccess.Render(counter)
	} else {
		counter = listDimStyle.Render(counter)
	}
	b.WriteString("  " + counter + listDimStyle.Render("  ·  greenery: ") + StyleHighlight.Render(string(m.Greenery)))
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString("  " + StyleWarning.Render(m.notice) + "\n")
	}

	return b.String()
}
