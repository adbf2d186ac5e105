package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table renders a list as aligned columns. It satisfies
// collection.Renderer.
type Table[T any] struct {
	out     io.Writer
	header  []string
	columns func(T) []string
}

// NewTable creates a Table with the given header and row formatter.
func NewTable[T any](out io.Writer, header []string, columns func(T) []string) *Table[T] {
	return &Table[T]{out: out, header: header, columns: columns}
}

// Rows draws the header and one line per item.
func (t *Table[T]) Rows(items []T) {
	tw := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.header, "\t"))
	for _, it := range items {
		fmt.Fprintln(tw, strings.Join(t.columns(it), "\t"))
	}
	_ = tw.Flush()
}

// Placeholder draws a single message instead of the table.
func (t *Table[T]) Placeholder(message string) {
	fmt.Fprintf(t.out, "  %s\n", message)
}
