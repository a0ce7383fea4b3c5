package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/digibouquet/pkg/core/bouquet"
	"github.com/matzehuels/digibouquet/pkg/core/flower"
)

// flowersCommand lists the flower catalog.
func (c *CLI) flowersCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "flowers [query]",
		Short: "List the flowers a bouquet can hold",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types := flower.All()
			if len(args) == 1 {
				types = flower.Search(args[0])
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(types)
			}
			if len(types) == 0 {
				printInfo("No flowers match %q", args[0])
				return nil
			}
			fmt.Println(flowerTable(types))
			printNewline()
			printDetail("Bouquets hold %d to %d flowers. Unknown keys become %s.",
				bouquet.MinAuthoringFlowers, bouquet.MaxFlowers, flower.DefaultKey)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}

// flowerTable renders the catalog with a color swatch per flower.
func flowerTable(types []flower.Type) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(types))
	for i, t := range types {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(t.PetalColor)).Render("●●") +
			lipgloss.NewStyle().Foreground(lipgloss.Color(t.CenterColor)).Render("●")
		rows[i] = []string{t.Emoji, t.Key, t.Name, string(t.Size), strconv.Itoa(t.Petals), swatch}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Key", "Flower", "Size", "Petals", "Colors").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 1:
				return lipgloss.NewStyle().Foreground(colorPink)
			case 3, 4:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
