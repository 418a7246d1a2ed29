package query

import (
	"bytes"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

type Align int

const (
	Left Align = iota
	Right
)

// Table is a text table with a border, one space padding and per column
// alignment.
type Table struct {
	Columns []string
	Align   []Align
	Rows    [][]string
}

// NewTable returns a table with all columns left aligned except the last.
func NewTable(columns []string) *Table {
	align := make([]Align, len(columns))
	if len(align) > 0 {
		align[len(align)-1] = Right
	}
	return &Table{Columns: columns, Align: align}
}

func (t *Table) AddRow(row []string) {
	t.Rows = append(t.Rows, row)
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.Columns))
	measure := func(i int, cell string) {
		for _, line := range strings.Split(cell, "\n") {
			if w := runewidth.StringWidth(line); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i, c := range t.Columns {
		measure(i, c)
	}
	for _, row := range t.Rows {
		for i := range t.Columns {
			if i < len(row) {
				measure(i, row[i])
			}
		}
	}
	return widths
}

func (t *Table) String() string {
	buf := &bytes.Buffer{}
	t.WriteTo(buf)
	return buf.String()
}

func (t *Table) WriteTo(w io.Writer) (int64, error) {
	widths := t.widths()
	buf := &bytes.Buffer{}

	sep := &strings.Builder{}
	sep.WriteString("+")
	for _, width := range widths {
		sep.WriteString(strings.Repeat("-", width+2))
		sep.WriteString("+")
	}
	sep.WriteString("\n")

	buf.WriteString(sep.String())
	t.writeRow(buf, widths, t.Columns)
	buf.WriteString(sep.String())
	for _, row := range t.Rows {
		t.writeRow(buf, widths, row)
	}
	buf.WriteString(sep.String())

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// writeRow writes a row. Cells with newlines span multiple lines.
func (t *Table) writeRow(buf *bytes.Buffer, widths []int, row []string) {
	cells := make([][]string, len(widths))
	height := 1
	for i := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = strings.Split(cell, "\n")
		if len(cells[i]) > height {
			height = len(cells[i])
		}
	}
	for l := 0; l < height; l++ {
		buf.WriteString("|")
		for i, width := range widths {
			line := ""
			if l < len(cells[i]) {
				line = cells[i][l]
			}
			pad := strings.Repeat(" ", width-runewidth.StringWidth(line))
			buf.WriteString(" ")
			if t.Align[i] == Right {
				buf.WriteString(pad + line)
			} else {
				buf.WriteString(line + pad)
			}
			buf.WriteString(" |")
		}
		buf.WriteString("\n")
	}
}
