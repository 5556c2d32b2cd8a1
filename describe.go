package cellstyle

import (
	"fmt"
	"sort"
	"strings"
)

// Describe returns a human-readable dump of a sheet: every cell with its
// value or formula, array formula extents, the styles set on cells and any
// conditional rules. Useful for debugging.
func Describe(s *Sheet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sheet: %s (%d cells, %d styles)\n", s.name, len(s.cells), s.styles.Len())

	cells := s.Cells()
	if len(cells) > 0 {
		b.WriteString("  Cells:\n")
	}
	for _, c := range cells {
		describeCell(&b, c)
	}

	positions := make([]CellPos, 0, len(s.styles.styles))
	for pos := range s.styles.styles {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		a, c := positions[i], positions[j]
		if a.Row != c.Row {
			return a.Row < c.Row
		}
		return a.Col < c.Col
	})
	if len(positions) > 0 {
		b.WriteString("  Styles:\n")
	}
	for _, pos := range positions {
		st := s.styles.styles[pos]
		fmt.Fprintf(&b, "    %s: %s\n", pos, st)
		if conds, ok := st.Conditions(); ok && conds != nil {
			for i, r := range conds.rules {
				fmt.Fprintf(&b, "      rule %d: %s\n", i, r)
			}
		}
	}
	return b.String()
}

func describeCell(b *strings.Builder, c *Cell) {
	switch {
	case c.IsArrayCorner():
		r, _ := c.ArrayBounds()
		fmt.Fprintf(b, "    %s: {%s} array %s -> %s\n", c.pos, c.expr, r, c.value)
	case c.array != nil:
		// members are covered by their corner's line
	case c.expr != nil:
		fmt.Fprintf(b, "    %s: %s -> %s\n", c.pos, c.expr, c.value)
	default:
		line := fmt.Sprintf("    %s: %s [%s]", c.pos, c.value, strings.ToLower(c.value.Type().String()))
		if c.format != nil {
			line += " format " + c.format.Code()
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
}
