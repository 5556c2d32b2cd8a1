package cellstyle

import "sync"

// LineType is a border line style. The numbering matches the excel border
// style indices.
type LineType int

const (
	LineNone LineType = iota
	LineThin
	LineMedium
	LineDashed
	LineDotted
	LineThick
	LineDouble
	LineHair
	LineMediumDash
	LineDashDot
	LineMediumDashDot
	LineDashDotDot
	LineMediumDashDotDot
	LineSlantedDashDot
)

var lineNames = [...]string{
	"none", "thin", "medium", "dashed", "dotted", "thick", "double", "hair",
	"medium-dash", "dash-dot", "medium-dash-dot", "dash-dot-dot",
	"medium-dash-dot-dot", "slanted-dash-dot",
}

// String returns a human-readable name for the LineType.
func (t LineType) String() string {
	if t >= 0 && int(t) < len(lineNames) {
		return lineNames[t]
	}
	return "unknown"
}

// Orientation is the direction a border is drawn in.
type Orientation int

const (
	OrientHorizontal Orientation = iota
	OrientVertical
	OrientDiagonal
)

// Border is an interned, immutable border edge. Obtain one through
// FetchBorder; two fetches with the same arguments return the same pointer.
type Border struct {
	Line   LineType
	Color  Color
	Orient Orientation
}

type borderKey struct {
	line   LineType
	color  Color
	orient Orientation
}

var (
	borderCache sync.Map // borderKey → *Border
	borderNone  = &Border{Line: LineNone, Color: AutoPatternColor()}
)

// BorderNone returns the shared "no line" border.
func BorderNone() *Border { return borderNone }

// FetchBorder returns the interned border for the given line, colour and
// orientation. Every LineNone request yields BorderNone.
func FetchBorder(line LineType, color Color, orient Orientation) *Border {
	if line == LineNone {
		return borderNone
	}
	key := borderKey{line: line, color: color, orient: orient}
	if b, ok := borderCache.Load(key); ok {
		return b.(*Border)
	}
	b, _ := borderCache.LoadOrStore(key, &Border{Line: line, Color: color, Orient: orient})
	return b.(*Border)
}

// Visible reports whether the border draws anything on an empty cell.
func (b *Border) Visible() bool {
	return b != nil && b.Line != LineNone
}

// Equal compares line style, colour and orientation.
func (b *Border) Equal(o *Border) bool {
	if b == o {
		return true
	}
	if b == nil || o == nil {
		return false
	}
	if b.Line == LineNone && o.Line == LineNone {
		return true
	}
	return b.Line == o.Line && b.Orient == o.Orient && b.Color.Equal(o.Color)
}

func (b *Border) hash() uint32 {
	if b == nil || b.Line == LineNone {
		return 0
	}
	return uint32(b.Line)<<24 ^ uint32(b.Orient)<<28 ^ b.Color.hash()
}
