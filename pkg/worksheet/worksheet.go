package worksheet

import (
	"strconv"
	"strings"
)

// View is a random-access, read-only grid of decoded spreadsheet cells.
type View interface {
	Rows() int
	Cols() int
	Cell(row, col int) Cell
}

type Kind int

const (
	Empty Kind = iota
	Text
	Number
)

type Cell struct {
	Kind   Kind
	Text   string
	Number float64
}

func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: Text, Text: s}
}

func NumberCell(f float64) Cell {
	return Cell{Kind: Number, Number: f}
}

func (c Cell) IsEmpty() bool {
	return c.Kind == Empty
}

// String renders numbers in their shortest decimal form so 2020.0 prints as "2020".
func (c Cell) String() string {
	switch c.Kind {
	case Text:
		return c.Text
	case Number:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	}
	return ""
}

// Int returns the cell as an integer. Text is accepted when it holds a number.
func (c Cell) Int() (int, bool) {
	switch c.Kind {
	case Number:
		return int(c.Number), true
	case Text:
		f, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

// Grid is an in-memory View. Rows may be ragged; missing cells read as empty.
type Grid struct {
	cells [][]Cell
	cols  int
}

func NewGrid(cells [][]Cell) *Grid {
	g := &Grid{cells: cells}
	for _, row := range cells {
		// trailing empties do not widen the sheet
		n := len(row)
		for n > 0 && row[n-1].IsEmpty() {
			n--
		}
		if n > g.cols {
			g.cols = n
		}
	}
	return g
}

// FromValues builds a Grid from loosely typed values: string, float64, int and nil.
func FromValues(rows [][]interface{}) *Grid {
	cells := make([][]Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]Cell, len(row))
		for j, v := range row {
			cells[i][j] = ValueCell(v)
		}
	}
	return NewGrid(cells)
}

func ValueCell(v interface{}) Cell {
	switch t := v.(type) {
	case nil:
		return Cell{}
	case string:
		return TextCell(t)
	case float64:
		return NumberCell(t)
	case float32:
		return NumberCell(float64(t))
	case int:
		return NumberCell(float64(t))
	case int64:
		return NumberCell(float64(t))
	case bool:
		if t {
			return NumberCell(1)
		}
		return NumberCell(0)
	case Cell:
		return t
	}
	return Cell{}
}

func (g *Grid) Rows() int { return len(g.cells) }

func (g *Grid) Cols() int { return g.cols }

func (g *Grid) Cell(row, col int) Cell {
	if row < 0 || row >= len(g.cells) || col < 0 || col >= len(g.cells[row]) {
		return Cell{}
	}
	return g.cells[row][col]
}
