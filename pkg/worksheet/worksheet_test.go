package worksheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellString(t *testing.T) {
	tests := []struct {
		cell Cell
		want string
	}{
		{Cell{}, ""},
		{TextCell("Jan"), "Jan"},
		{NumberCell(2020), "2020"},
		{NumberCell(1.25), "1.25"},
		{NumberCell(-3), "-3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cell.String())
	}
}

func TestCellInt(t *testing.T) {
	n, ok := NumberCell(2019).Int()
	assert.True(t, ok)
	assert.Equal(t, 2019, n)

	n, ok = TextCell(" 2020 ").Int()
	assert.True(t, ok)
	assert.Equal(t, 2020, n)

	_, ok = TextCell("Jan").Int()
	assert.False(t, ok)

	_, ok = Cell{}.Int()
	assert.False(t, ok)
}

func TestTextCellEmpty(t *testing.T) {
	assert.True(t, TextCell("").IsEmpty())
}

func TestGrid(t *testing.T) {
	g := FromValues([][]interface{}{
		{2020, "Jan", 1.5},
		{nil, 5},
		{"", "", "x", nil, nil},
	})
	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 3, g.Cols())
	assert.Equal(t, NumberCell(2020), g.Cell(0, 0))
	assert.Equal(t, TextCell("Jan"), g.Cell(0, 1))
	assert.True(t, g.Cell(1, 0).IsEmpty())
	assert.True(t, g.Cell(1, 2).IsEmpty())
	assert.True(t, g.Cell(9, 9).IsEmpty())
	assert.True(t, g.Cell(-1, 0).IsEmpty())
}
