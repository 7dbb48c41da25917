package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/staffsheet/pkg/pitch"
)

// pitchesCommand lists the vocabulary with its staff positions.
func (c *CLI) pitchesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pitches",
		Short: "List the pitches and where they sit on the staff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := pitchRows()
			if err != nil {
				return err
			}
			fmt.Println(pitchTable(rows).Render())
			return nil
		},
	}
}

// pitchRows resolves every pitch into string, name, offset, position and
// ledger line columns.
func pitchRows() ([][]string, error) {
	var rows [][]string
	for _, s := range pitch.Strings() {
		for _, name := range s.Pitches {
			res, err := pitch.Resolve(name)
			if err != nil {
				return nil, err
			}
			rows = append(rows, []string{
				s.Name,
				string(res.Name),
				strconv.Itoa(res.Offset),
				positionColumn(res.Position),
				ledgerColumn(res.LedgerLines),
			})
		}
	}
	return rows, nil
}

func positionColumn(p pitch.Position) string {
	if p.Kind == pitch.OnLine {
		return fmt.Sprintf("%s %d", p.Kind, p.Line+1)
	}
	return p.Kind.String()
}

func ledgerColumn(lines []float64) string {
	if len(lines) == 0 {
		return "—"
	}
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = strconv.FormatFloat(l, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}

func pitchTable(rows [][]string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("String", "Pitch", "Offset", "Position", "Ledger lines").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1:
				return StyleHighlight
			case col == 4 && rows[row][4] != "—":
				return StyleWarning
			}
			return StyleDim
		})
}
