package cellstyle

import (
	"fmt"
	"strconv"
	"strings"
)

// CellPos is a 0-based (column, row) position inside a sheet.
type CellPos struct {
	Col int
	Row int
}

// NewCellPos creates a CellPos.
func NewCellPos(col, row int) CellPos {
	return CellPos{Col: col, Row: row}
}

// ParseCellPos parses a cell name like "A1" or "$B$7". A sheet prefix
// ("Sheet1!A1") is accepted and ignored.
func ParseCellPos(s string) (CellPos, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CellPos{}, fmt.Errorf("empty cell reference")
	}
	if idx := strings.LastIndex(s, "!"); idx >= 0 {
		s = s[idx+1:]
	}
	name := strings.ReplaceAll(s, "$", "")

	i := 0
	for i < len(name) && isAlpha(name[i]) {
		i++
	}
	if i == 0 || i == len(name) {
		return CellPos{}, fmt.Errorf("invalid cell reference: %q", s)
	}
	col, err := NameToCol(name[:i])
	if err != nil {
		return CellPos{}, fmt.Errorf("invalid cell reference %q: %w", s, err)
	}
	row, err := strconv.Atoi(name[i:])
	if err != nil || row < 1 {
		return CellPos{}, fmt.Errorf("invalid row in cell reference: %q", s)
	}
	return CellPos{Col: col, Row: row - 1}, nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// String formats the position as "A1".
func (p CellPos) String() string {
	return ColToName(p.Col) + strconv.Itoa(p.Row+1)
}

// Offset returns the position moved by dc columns and dr rows.
func (p CellPos) Offset(dc, dr int) CellPos {
	return CellPos{Col: p.Col + dc, Row: p.Row + dr}
}

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA"
func ColToName(col int) string {
	result := ""
	col++
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// NameToCol converts a column name to a 0-based column index.
func NameToCol(name string) (int, error) {
	name = strings.ToUpper(name)
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	col := 0
	for _, ch := range name {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column name: %q", name)
		}
		col = col*26 + int(ch-'A') + 1
	}
	return col - 1, nil
}

// Range is an inclusive rectangle of cells.
type Range struct {
	Start CellPos
	End   CellPos
}

// NewRange creates a normalized Range from two corners.
func NewRange(a, b CellPos) Range {
	r := Range{Start: a, End: b}
	if r.Start.Col > r.End.Col {
		r.Start.Col, r.End.Col = r.End.Col, r.Start.Col
	}
	if r.Start.Row > r.End.Row {
		r.Start.Row, r.End.Row = r.End.Row, r.Start.Row
	}
	return r
}

// SingleCell returns the 1x1 range covering pos.
func SingleCell(pos CellPos) Range {
	return Range{Start: pos, End: pos}
}

// ParseRange parses "A1:C5" or a single cell "B2".
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, ":", 2)
	first, err := ParseCellPos(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	if len(parts) == 1 {
		return SingleCell(first), nil
	}
	last, err := ParseCellPos(parts[1])
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	return NewRange(first, last), nil
}

// String formats the range as "A1:C5", or "A1" for a single cell.
func (r Range) String() string {
	if r.Start == r.End {
		return r.Start.String()
	}
	return r.Start.String() + ":" + r.End.String()
}

// Width is the number of columns covered.
func (r Range) Width() int { return r.End.Col - r.Start.Col + 1 }

// Height is the number of rows covered.
func (r Range) Height() int { return r.End.Row - r.Start.Row + 1 }

// Valid reports whether the range is non-empty and non-negative.
func (r Range) Valid() bool {
	return r.Start.Col >= 0 && r.Start.Row >= 0 &&
		r.End.Col >= r.Start.Col && r.End.Row >= r.Start.Row
}

// Contains returns true if pos lies within the range.
func (r Range) Contains(pos CellPos) bool {
	return pos.Row >= r.Start.Row && pos.Row <= r.End.Row &&
		pos.Col >= r.Start.Col && pos.Col <= r.End.Col
}

// ContainsRange returns true if o lies entirely within r.
func (r Range) ContainsRange(o Range) bool {
	return r.Contains(o.Start) && r.Contains(o.End)
}

// Each calls fn for every position in row-major order.
func (r Range) Each(fn func(pos CellPos)) {
	for row := r.Start.Row; row <= r.End.Row; row++ {
		for col := r.Start.Col; col <= r.End.Col; col++ {
			fn(CellPos{Col: col, Row: row})
		}
	}
}
