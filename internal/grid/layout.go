package grid

import (
	"strings"

	"github.com/stemsi/seatdesk/internal/model"
)

// Columns is the fixed width of every room grid.
const Columns = 5

// Cell is one seat position. Allocation is nil for an empty seat.
type Cell struct {
	Row        string
	Column     int
	Code       string
	Allocation *model.Allocation
}

// Empty reports whether nobody is seated here.
func (c Cell) Empty() bool { return c.Allocation == nil }

// Grid is a room laid out row by row. The last row may be short.
type Grid struct {
	Capacity int
	Rows     [][]Cell
}

// RowCount returns ceil(capacity/Columns).
func RowCount(capacity int) int {
	if capacity <= 0 {
		return 0
	}
	return (capacity + Columns - 1) / Columns
}

// Layout places allocs onto a grid of capacity cells. Each cell is matched by
// row letter and column; allocations outside the grid are not shown.
func Layout(capacity int, allocs []model.Allocation) Grid {
	index := make(map[string]*model.Allocation, len(allocs))
	for i := range allocs {
		a := &allocs[i]
		code := a.SeatCode
		if a.Row != "" && a.Column > 0 {
			code = model.SeatCode(a.Row, a.Column)
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		if _, ok := index[code]; !ok {
			index[code] = a
		}
	}

	rows := RowCount(capacity)
	g := Grid{Capacity: capacity, Rows: make([][]Cell, rows)}
	for r := 0; r < rows; r++ {
		width := Columns
		if r == rows-1 {
			width = capacity - Columns*(rows-1)
		}
		letter := model.RowLetter(r)
		cells := make([]Cell, width)
		for c := range cells {
			code := model.SeatCode(letter, c+1)
			cells[c] = Cell{Row: letter, Column: c + 1, Code: code, Allocation: index[code]}
		}
		g.Rows[r] = cells
	}
	return g
}

// Cells returns the number of cells, which equals the capacity.
func (g Grid) Cells() int {
	n := 0
	for _, row := range g.Rows {
		n += len(row)
	}
	return n
}

// Occupied returns the number of seated cells.
func (g Grid) Occupied() int {
	n := 0
	for _, row := range g.Rows {
		for _, c := range row {
			if !c.Empty() {
				n++
			}
		}
	}
	return n
}

// Lookup finds the cell at row letter and 1-based column.
func (g Grid) Lookup(row string, column int) (Cell, bool) {
	row = strings.ToUpper(strings.TrimSpace(row))
	for _, cells := range g.Rows {
		if len(cells) == 0 || cells[0].Row != row {
			continue
		}
		if column < 1 || column > len(cells) {
			return Cell{}, false
		}
		return cells[column-1], true
	}
	return Cell{}, false
}

// LookupCode finds the cell for a seat code such as "B3".
func (g Grid) LookupCode(code string) (Cell, bool) {
	row, col := model.SplitSeatCode(strings.ToUpper(code))
	return g.Lookup(row, col)
}
