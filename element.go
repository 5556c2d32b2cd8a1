package cellstyle

import (
	"math/bits"
	"strings"
)

// Element identifies one attribute kind of a style.
type Element int

const (
	ElemBackColor Element = iota
	ElemPatternColor
	ElemBorderTop
	ElemBorderBottom
	ElemBorderLeft
	ElemBorderRight
	ElemBorderRevDiagonal
	ElemBorderDiagonal
	ElemPattern
	ElemFontColor
	ElemFontName
	ElemFontBold
	ElemFontItalic
	ElemFontUnderline
	ElemFontStrike
	ElemFontSize
	ElemFormat
	ElemAlignH
	ElemAlignV
	ElemIndent
	ElemRotation
	ElemTextDir
	ElemWrapText
	ElemShrinkToFit
	ElemContentsLocked
	ElemContentsHidden
	// Elements from ElemValidation on are ignored by the XL variants of
	// equality and hashing.
	ElemValidation
	ElemHyperlink
	ElemInputMsg
	ElemConditions

	numElements
)

var elementNames = [numElements]string{
	"back-color", "pattern-color",
	"border-top", "border-bottom", "border-left", "border-right",
	"border-rev-diagonal", "border-diagonal",
	"pattern", "font-color", "font-name", "font-bold", "font-italic",
	"font-underline", "font-strike", "font-size", "format",
	"align-h", "align-v", "indent", "rotation", "text-dir",
	"wrap-text", "shrink-to-fit", "contents-locked", "contents-hidden",
	"validation", "hyperlink", "input-msg", "conditions",
}

// String returns the element name, e.g. "font-bold".
func (e Element) String() string {
	if e >= 0 && e < numElements {
		return elementNames[e]
	}
	return "unknown"
}

// IsBorder reports whether e is one of the six border edges.
func (e Element) IsBorder() bool {
	return e >= ElemBorderTop && e <= ElemBorderDiagonal
}

// affectsFont reports whether changing e invalidates the derived font.
func (e Element) affectsFont() bool {
	switch e {
	case ElemFontName, ElemFontBold, ElemFontItalic, ElemFontSize:
		return true
	}
	return false
}

// affectsTextAttrs reports whether changing e invalidates the text attributes.
func (e Element) affectsTextAttrs() bool {
	switch e {
	case ElemFontColor, ElemFontUnderline, ElemFontStrike:
		return true
	}
	return e.affectsFont()
}

// Orientation returns the drawing orientation of a border element.
func (e Element) Orientation() Orientation {
	switch e {
	case ElemBorderLeft, ElemBorderRight:
		return OrientVertical
	case ElemBorderRevDiagonal, ElemBorderDiagonal:
		return OrientDiagonal
	}
	return OrientHorizontal
}

// ElementSet is a bitmask of elements.
type ElementSet uint32

// AllElements contains every element.
const AllElements ElementSet = 1<<numElements - 1

// xlElements are the elements that participate in XL equality and hashing.
const xlElements ElementSet = 1<<ElemValidation - 1

// Has reports whether e is in the set.
func (s ElementSet) Has(e Element) bool { return s&(1<<e) != 0 }

// With returns the set with e added.
func (s ElementSet) With(e Element) ElementSet { return s | 1<<e }

// Without returns the set with e removed.
func (s ElementSet) Without(e Element) ElementSet { return s &^ (1 << e) }

// Len returns the number of elements in the set.
func (s ElementSet) Len() int { return bits.OnesCount32(uint32(s)) }

// Elements lists the members in ascending order.
func (s ElementSet) Elements() []Element {
	var out []Element
	for e := Element(0); e < numElements; e++ {
		if s.Has(e) {
			out = append(out, e)
		}
	}
	return out
}

// String lists the member names separated by commas.
func (s ElementSet) String() string {
	names := make([]string, 0, s.Len())
	for _, e := range s.Elements() {
		names = append(names, e.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
