package cellstyle

// HAlign is the horizontal alignment of cell content.
type HAlign int

const (
	HAlignGeneral HAlign = iota
	HAlignLeft
	HAlignRight
	HAlignCenter
	HAlignFill
	HAlignJustify
	HAlignCenterAcrossSelection
	HAlignDistributed
)

var halignNames = [...]string{"general", "left", "right", "center", "fill", "justify", "centerContinuous", "distributed"}

// String returns the excel spelling of the alignment.
func (a HAlign) String() string {
	if a >= 0 && int(a) < len(halignNames) {
		return halignNames[a]
	}
	return "general"
}

// ParseHAlign maps an excel alignment name to an HAlign.
func ParseHAlign(s string) HAlign {
	for i, n := range halignNames {
		if n == s {
			return HAlign(i)
		}
	}
	return HAlignGeneral
}

// VAlign is the vertical alignment of cell content.
type VAlign int

const (
	VAlignBottom VAlign = iota
	VAlignTop
	VAlignCenter
	VAlignJustify
	VAlignDistributed
)

var valignNames = [...]string{"bottom", "top", "center", "justify", "distributed"}

// String returns the excel spelling of the alignment.
func (a VAlign) String() string {
	if a >= 0 && int(a) < len(valignNames) {
		return valignNames[a]
	}
	return "bottom"
}

// ParseVAlign maps an excel alignment name to a VAlign.
func ParseVAlign(s string) VAlign {
	for i, n := range valignNames {
		if n == s {
			return VAlign(i)
		}
	}
	return VAlignBottom
}

// Underline is the font underline kind.
type Underline int

const (
	UnderlineNone Underline = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineSingleLow
	UnderlineDoubleLow
)

var underlineNames = [...]string{"none", "single", "double", "singleAccounting", "doubleAccounting"}

// String returns the excel spelling of the underline kind.
func (u Underline) String() string {
	if u >= 0 && int(u) < len(underlineNames) {
		return underlineNames[u]
	}
	return "none"
}

// ParseUnderline maps an excel underline name to an Underline.
func ParseUnderline(s string) Underline {
	for i, n := range underlineNames {
		if n == s {
			return Underline(i)
		}
	}
	return UnderlineNone
}

// TextDir is the reading direction of cell text.
type TextDir int

const (
	TextDirContext TextDir = iota
	TextDirLTR
	TextDirRTL
)
