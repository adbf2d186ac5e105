package grid

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// EmptyMark is shown for an unoccupied seat.
const EmptyMark = "·"

// Render writes the grid as an aligned table, one line per row.
func Render(w io.Writer, title string, g Grid) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if title != "" {
		fmt.Fprintf(tw, "%s (%d/%d seated)\n", title, g.Occupied(), g.Capacity)
	}
	if len(g.Rows) == 0 {
		fmt.Fprintln(tw, "No seats.")
		return tw.Flush()
	}

	for _, row := range g.Rows {
		parts := make([]string, len(row))
		for i, c := range row {
			parts[i] = CellLabel(c)
		}
		fmt.Fprintln(tw, strings.Join(parts, "\t")+"\t")
	}
	return tw.Flush()
}

// CellLabel is the text of one cell: the seat code followed by the
// registration and department, or the empty mark.
func CellLabel(c Cell) string {
	if c.Empty() {
		return c.Code + " " + EmptyMark
	}
	a := c.Allocation
	if a.Department == "" {
		return c.Code + " " + a.RegistrationNumber
	}
	return fmt.Sprintf("%s %s (%s)", c.Code, a.RegistrationNumber, a.Department)
}
