package cellstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCellPos(t *testing.T) {
	tests := []struct {
		in   string
		want CellPos
	}{
		{"A1", NewCellPos(0, 0)},
		{"b7", NewCellPos(1, 6)},
		{"$AA$10", NewCellPos(26, 9)},
		{"Sheet1!C3", NewCellPos(2, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCellPos(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCellPos_Invalid(t *testing.T) {
	for _, in := range []string{"", "A", "12", "A0", "A-1", "1A"} {
		_, err := ParseCellPos(in)
		assert.Error(t, err, in)
	}
}

func TestColNames(t *testing.T) {
	for col, name := range map[int]string{0: "A", 25: "Z", 26: "AA", 701: "ZZ", 702: "AAA"} {
		assert.Equal(t, name, ColToName(col))
		got, err := NameToCol(name)
		require.NoError(t, err)
		assert.Equal(t, col, got)
	}
	_, err := NameToCol("A1")
	assert.Error(t, err)
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("C5:A1")
	require.NoError(t, err)
	assert.Equal(t, "A1:C5", r.String())
	assert.Equal(t, 3, r.Width())
	assert.Equal(t, 5, r.Height())
	assert.True(t, r.Contains(NewCellPos(1, 2)))
	assert.False(t, r.Contains(NewCellPos(3, 0)))

	single, err := ParseRange("B2")
	require.NoError(t, err)
	assert.Equal(t, SingleCell(NewCellPos(1, 1)), single)
	assert.Equal(t, "B2", single.String())

	_, err = ParseRange("A1:")
	assert.Error(t, err)
}

func TestRange_ContainsRangeAndEach(t *testing.T) {
	outer := NewRange(NewCellPos(0, 0), NewCellPos(2, 2))
	assert.True(t, outer.ContainsRange(NewRange(NewCellPos(1, 1), NewCellPos(2, 2))))
	assert.False(t, outer.ContainsRange(NewRange(NewCellPos(1, 1), NewCellPos(3, 2))))

	var seen []string
	NewRange(NewCellPos(0, 0), NewCellPos(1, 1)).Each(func(p CellPos) {
		seen = append(seen, p.String())
	})
	assert.Equal(t, []string{"A1", "B1", "A2", "B2"}, seen)

	assert.False(t, Range{Start: NewCellPos(2, 0), End: NewCellPos(1, 0)}.Valid())
	assert.Equal(t, NewCellPos(3, 1), NewCellPos(1, 0).Offset(2, 1))
}
