package cellstyle

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/bits"
	"strings"
)

// DefaultFontName and DefaultFontSize populate NewDefaultStyle.
const (
	DefaultFontName = "Sans"
	DefaultFontSize = 10.0
)

// elements is the partially populated attribute bag shared by Style and
// StyleBuilder. A field is meaningful only when its bit is in set.
type elements struct {
	set        ElementSet
	backColor  Color
	patColor   Color
	fontColor  Color
	borders    [6]*Border
	pattern    int
	fontName   string
	fontBold   bool
	fontItalic bool
	underline  Underline
	strike     bool
	fontSize   float64
	format     *Format
	halign     HAlign
	valign     VAlign
	indent     int
	rotation   int
	textDir    TextDir
	wrap       bool
	shrink     bool
	locked     bool
	hidden     bool
	validation *Validation
	hlink      *Hyperlink
	inputMsg   *InputMsg
	conds      *Conditions
}

func pick[T any](s ElementSet, e Element, v T) (T, bool) {
	if !s.Has(e) {
		var zero T
		return zero, false
	}
	return v, true
}

// Elements returns the set of populated elements.
func (s *elements) Elements() ElementSet { return s.set }

// Has reports whether element e is populated.
func (s *elements) Has(e Element) bool { return s.set.Has(e) }

// IsEmpty reports whether no element is populated.
func (s *elements) IsEmpty() bool { return s.set == 0 }

func (s *elements) BackColor() (Color, bool)    { return pick(s.set, ElemBackColor, s.backColor) }
func (s *elements) PatternColor() (Color, bool) { return pick(s.set, ElemPatternColor, s.patColor) }
func (s *elements) FontColor() (Color, bool)    { return pick(s.set, ElemFontColor, s.fontColor) }
func (s *elements) Pattern() (int, bool)        { return pick(s.set, ElemPattern, s.pattern) }
func (s *elements) FontName() (string, bool)    { return pick(s.set, ElemFontName, s.fontName) }
func (s *elements) FontBold() (bool, bool)      { return pick(s.set, ElemFontBold, s.fontBold) }
func (s *elements) FontItalic() (bool, bool)    { return pick(s.set, ElemFontItalic, s.fontItalic) }
func (s *elements) FontUnderline() (Underline, bool) {
	return pick(s.set, ElemFontUnderline, s.underline)
}
func (s *elements) FontStrike() (bool, bool)     { return pick(s.set, ElemFontStrike, s.strike) }
func (s *elements) FontSize() (float64, bool)    { return pick(s.set, ElemFontSize, s.fontSize) }
func (s *elements) Format() (*Format, bool)      { return pick(s.set, ElemFormat, s.format) }
func (s *elements) AlignH() (HAlign, bool)       { return pick(s.set, ElemAlignH, s.halign) }
func (s *elements) AlignV() (VAlign, bool)       { return pick(s.set, ElemAlignV, s.valign) }
func (s *elements) Indent() (int, bool)          { return pick(s.set, ElemIndent, s.indent) }
func (s *elements) Rotation() (int, bool)        { return pick(s.set, ElemRotation, s.rotation) }
func (s *elements) TextDir() (TextDir, bool)     { return pick(s.set, ElemTextDir, s.textDir) }
func (s *elements) WrapText() (bool, bool)       { return pick(s.set, ElemWrapText, s.wrap) }
func (s *elements) ShrinkToFit() (bool, bool)    { return pick(s.set, ElemShrinkToFit, s.shrink) }
func (s *elements) ContentsLocked() (bool, bool) { return pick(s.set, ElemContentsLocked, s.locked) }
func (s *elements) ContentsHidden() (bool, bool) { return pick(s.set, ElemContentsHidden, s.hidden) }
func (s *elements) Validation() (*Validation, bool) {
	return pick(s.set, ElemValidation, s.validation)
}
func (s *elements) Hyperlink() (*Hyperlink, bool) { return pick(s.set, ElemHyperlink, s.hlink) }
func (s *elements) InputMsg() (*InputMsg, bool)   { return pick(s.set, ElemInputMsg, s.inputMsg) }
func (s *elements) Conditions() (*Conditions, bool) {
	return pick(s.set, ElemConditions, s.conds)
}

// Border returns the border of edge e. ok is false when e is not a border
// element or the edge is not set.
func (s *elements) Border(e Element) (*Border, bool) {
	if !e.IsBorder() {
		return nil, false
	}
	return pick(s.set, e, s.borders[e-ElemBorderTop])
}

// assign copies element e from src, including its presence bit.
func (s *elements) assign(src *elements, e Element) {
	if !src.set.Has(e) {
		s.clear(e)
		return
	}
	switch e {
	case ElemBackColor:
		s.backColor = src.backColor
	case ElemPatternColor:
		s.patColor = src.patColor
	case ElemBorderTop, ElemBorderBottom, ElemBorderLeft, ElemBorderRight,
		ElemBorderRevDiagonal, ElemBorderDiagonal:
		s.borders[e-ElemBorderTop] = src.borders[e-ElemBorderTop]
	case ElemPattern:
		s.pattern = src.pattern
	case ElemFontColor:
		s.fontColor = src.fontColor
	case ElemFontName:
		s.fontName = src.fontName
	case ElemFontBold:
		s.fontBold = src.fontBold
	case ElemFontItalic:
		s.fontItalic = src.fontItalic
	case ElemFontUnderline:
		s.underline = src.underline
	case ElemFontStrike:
		s.strike = src.strike
	case ElemFontSize:
		s.fontSize = src.fontSize
	case ElemFormat:
		s.format = src.format
	case ElemAlignH:
		s.halign = src.halign
	case ElemAlignV:
		s.valign = src.valign
	case ElemIndent:
		s.indent = src.indent
	case ElemRotation:
		s.rotation = src.rotation
	case ElemTextDir:
		s.textDir = src.textDir
	case ElemWrapText:
		s.wrap = src.wrap
	case ElemShrinkToFit:
		s.shrink = src.shrink
	case ElemContentsLocked:
		s.locked = src.locked
	case ElemContentsHidden:
		s.hidden = src.hidden
	case ElemValidation:
		s.validation = src.validation
	case ElemHyperlink:
		s.hlink = src.hlink
	case ElemInputMsg:
		s.inputMsg = src.inputMsg
	case ElemConditions:
		s.conds = src.conds
	}
	s.set = s.set.With(e)
}

// clear drops element e and its owned value.
func (s *elements) clear(e Element) {
	switch e {
	case ElemBorderTop, ElemBorderBottom, ElemBorderLeft, ElemBorderRight,
		ElemBorderRevDiagonal, ElemBorderDiagonal:
		s.borders[e-ElemBorderTop] = nil
	case ElemFormat:
		s.format = nil
	case ElemValidation:
		s.validation = nil
	case ElemHyperlink:
		s.hlink = nil
	case ElemInputMsg:
		s.inputMsg = nil
	case ElemConditions:
		s.conds = nil
	}
	s.set = s.set.Without(e)
}

// elemEqual compares element e of two bags. Both must have e set.
func (s *elements) elemEqual(o *elements, e Element) bool {
	switch e {
	case ElemBackColor:
		return s.backColor.Equal(o.backColor)
	case ElemPatternColor:
		return s.patColor.Equal(o.patColor)
	case ElemBorderTop, ElemBorderBottom, ElemBorderLeft, ElemBorderRight,
		ElemBorderRevDiagonal, ElemBorderDiagonal:
		return s.borders[e-ElemBorderTop].Equal(o.borders[e-ElemBorderTop])
	case ElemPattern:
		return s.pattern == o.pattern
	case ElemFontColor:
		return s.fontColor.Equal(o.fontColor)
	case ElemFontName:
		return s.fontName == o.fontName
	case ElemFontBold:
		return s.fontBold == o.fontBold
	case ElemFontItalic:
		return s.fontItalic == o.fontItalic
	case ElemFontUnderline:
		return s.underline == o.underline
	case ElemFontStrike:
		return s.strike == o.strike
	case ElemFontSize:
		return s.fontSize == o.fontSize
	case ElemFormat:
		return s.format == o.format
	case ElemAlignH:
		return s.halign == o.halign
	case ElemAlignV:
		return s.valign == o.valign
	case ElemIndent:
		return s.indent == o.indent
	case ElemRotation:
		return s.rotation == o.rotation
	case ElemTextDir:
		return s.textDir == o.textDir
	case ElemWrapText:
		return s.wrap == o.wrap
	case ElemShrinkToFit:
		return s.shrink == o.shrink
	case ElemContentsLocked:
		return s.locked == o.locked
	case ElemContentsHidden:
		return s.hidden == o.hidden
	case ElemValidation:
		return s.validation.Equal(o.validation)
	case ElemHyperlink:
		return s.hlink.Equal(o.hlink)
	case ElemInputMsg:
		return s.inputMsg.Equal(o.inputMsg)
	case ElemConditions:
		return s.conds == o.conds
	}
	return false
}

func boolHash(b bool) uint32 {
	if b {
		return 0x2f
	}
	return 0x11
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// elemHash hashes element e consistently with elemEqual.
func (s *elements) elemHash(e Element) uint32 {
	switch e {
	case ElemBackColor:
		return s.backColor.hash()
	case ElemPatternColor:
		return s.patColor.hash()
	case ElemBorderTop, ElemBorderBottom, ElemBorderLeft, ElemBorderRight,
		ElemBorderRevDiagonal, ElemBorderDiagonal:
		return s.borders[e-ElemBorderTop].hash()
	case ElemPattern:
		return uint32(s.pattern)
	case ElemFontColor:
		return s.fontColor.hash()
	case ElemFontName:
		return hashString(s.fontName)
	case ElemFontBold:
		return boolHash(s.fontBold)
	case ElemFontItalic:
		return boolHash(s.fontItalic)
	case ElemFontUnderline:
		return uint32(s.underline)
	case ElemFontStrike:
		return boolHash(s.strike)
	case ElemFontSize:
		if s.fontSize == 0 {
			return 0 // -0 equals 0
		}
		b := math.Float64bits(s.fontSize)
		return uint32(b) ^ uint32(b>>32)
	case ElemFormat:
		if s.format == nil {
			return 0
		}
		return s.format.hash
	case ElemAlignH:
		return uint32(s.halign)
	case ElemAlignV:
		return uint32(s.valign)
	case ElemIndent:
		return uint32(s.indent)
	case ElemRotation:
		return uint32(s.rotation)
	case ElemTextDir:
		return uint32(s.textDir)
	case ElemWrapText:
		return boolHash(s.wrap)
	case ElemShrinkToFit:
		return boolHash(s.shrink)
	case ElemContentsLocked:
		return boolHash(s.locked)
	case ElemContentsHidden:
		return boolHash(s.hidden)
	case ElemValidation:
		return s.validation.hash()
	case ElemHyperlink:
		return s.hlink.hash()
	case ElemInputMsg:
		return s.inputMsg.hash()
	case ElemConditions:
		if s.conds == nil {
			return 0
		}
		return s.conds.id
	}
	return 0
}

// equalOver compares the elements in mask: both bags must populate the same
// elements and agree on each of them.
func (s *elements) equalOver(o *elements, mask ElementSet) bool {
	if s.set&mask != o.set&mask {
		return false
	}
	for e := Element(0); e < numElements; e++ {
		if mask.Has(e) && s.set.Has(e) && !s.elemEqual(o, e) {
			return false
		}
	}
	return true
}

// hashOver mixes the elements in mask with a rotate-xor accumulator.
func (s *elements) hashOver(mask ElementSet) uint32 {
	var h uint32
	for e := Element(0); e < numElements; e++ {
		if !mask.Has(e) {
			continue
		}
		h = bits.RotateLeft32(h, 7)
		if s.set.Has(e) {
			h ^= s.elemHash(e) ^ uint32(e+1)*0x9e3779b1
		} else {
			h ^= 0x5bd1e995
		}
	}
	return h
}

// visibleInBlank reports whether the bag paints anything on an empty cell.
func (s *elements) visibleInBlank() bool {
	if s.set.Has(ElemPattern) && s.pattern > 0 {
		return true
	}
	for e := ElemBorderTop; e <= ElemBorderDiagonal; e++ {
		if s.set.Has(e) && s.borders[e-ElemBorderTop].Visible() {
			return true
		}
	}
	return false
}

func (s *elements) elemString(e Element) string {
	switch e {
	case ElemBackColor:
		return s.backColor.String()
	case ElemPatternColor:
		return s.patColor.String()
	case ElemBorderTop, ElemBorderBottom, ElemBorderLeft, ElemBorderRight,
		ElemBorderRevDiagonal, ElemBorderDiagonal:
		b := s.borders[e-ElemBorderTop]
		if !b.Visible() {
			return "none"
		}
		return b.Line.String() + " " + b.Color.String()
	case ElemPattern:
		return fmt.Sprint(s.pattern)
	case ElemFontColor:
		return s.fontColor.String()
	case ElemFontName:
		return fmt.Sprintf("%q", s.fontName)
	case ElemFontBold:
		return fmt.Sprint(s.fontBold)
	case ElemFontItalic:
		return fmt.Sprint(s.fontItalic)
	case ElemFontUnderline:
		return s.underline.String()
	case ElemFontStrike:
		return fmt.Sprint(s.strike)
	case ElemFontSize:
		return fmt.Sprint(s.fontSize)
	case ElemFormat:
		return fmt.Sprintf("%q", s.format.Code())
	case ElemAlignH:
		return s.halign.String()
	case ElemAlignV:
		return s.valign.String()
	case ElemIndent:
		return fmt.Sprint(s.indent)
	case ElemRotation:
		return fmt.Sprint(s.rotation)
	case ElemTextDir:
		return fmt.Sprint(int(s.textDir))
	case ElemWrapText:
		return fmt.Sprint(s.wrap)
	case ElemShrinkToFit:
		return fmt.Sprint(s.shrink)
	case ElemContentsLocked:
		return fmt.Sprint(s.locked)
	case ElemContentsHidden:
		return fmt.Sprint(s.hidden)
	case ElemValidation, ElemHyperlink, ElemInputMsg, ElemConditions:
		if s.isNilRef(e) {
			return "none"
		}
		return "set"
	}
	return "?"
}

func (s *elements) isNilRef(e Element) bool {
	switch e {
	case ElemValidation:
		return s.validation == nil
	case ElemHyperlink:
		return s.hlink == nil
	case ElemInputMsg:
		return s.inputMsg == nil
	case ElemConditions:
		return s.conds == nil
	}
	return false
}

// describe lists populated elements as "name=value" pairs.
func (s *elements) describe(mask ElementSet) string {
	var parts []string
	for _, e := range (s.set & mask).Elements() {
		parts = append(parts, e.String()+"="+s.elemString(e))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FontSpec is the font a style resolves to.
type FontSpec struct {
	Name   string
	Size   float64
	Bold   bool
	Italic bool
}

// TextAttrKind identifies a text rendering attribute.
type TextAttrKind int

const (
	AttrFont TextAttrKind = iota
	AttrForeground
	AttrUnderline
	AttrStrikethrough
)

// TextAttr is one entry of the text attribute list derived from a style.
type TextAttr struct {
	Kind      TextAttrKind
	Font      *FontSpec
	Color     Color
	Underline Underline
}

func (s *elements) buildFont() *FontSpec {
	f := &FontSpec{Name: DefaultFontName, Size: DefaultFontSize}
	if v, ok := s.FontName(); ok {
		f.Name = v
	}
	if v, ok := s.FontSize(); ok {
		f.Size = v
	}
	f.Bold, _ = s.FontBold()
	f.Italic, _ = s.FontItalic()
	return f
}

func (s *elements) buildTextAttrs(font *FontSpec) []TextAttr {
	attrs := []TextAttr{{Kind: AttrFont, Font: font}}
	if c, ok := s.FontColor(); ok {
		attrs = append(attrs, TextAttr{Kind: AttrForeground, Color: c})
	}
	if u, ok := s.FontUnderline(); ok && u != UnderlineNone {
		attrs = append(attrs, TextAttr{Kind: AttrUnderline, Underline: u})
	}
	if st, ok := s.FontStrike(); ok && st {
		attrs = append(attrs, TextAttr{Kind: AttrStrikethrough})
	}
	return attrs
}

// Style is a shared, read-only attribute set. Styles are built with a
// StyleBuilder and never change afterwards, so one Style can back any number
// of cells. Derived data (hashes, font, text attributes, conditional
// overlays) is computed on first use.
//
// A Style is not safe for concurrent use: the lazy caches are unsynchronized.
type Style struct {
	elements

	font      memo[*FontSpec]
	textAttrs memo[[]TextAttr]
	hash      memo[uint32]
	hashXL    memo[uint32]

	overlays        memo[[]*Style]
	overlaysVersion uint64

	linkCount   int
	linkedSheet *Sheet
}

// NewEmptyStyle returns a style with no element set.
func NewEmptyStyle() *Style {
	return &Style{}
}

// NewDefaultStyle returns a style with every element set to its canonical
// default: Sans 10, General format, automatic colours, no borders, no
// pattern, locked contents.
func NewDefaultStyle() *Style {
	b := NewStyleBuilder().
		SetBackColor(AutoBackColor()).
		SetPatternColor(AutoPatternColor()).
		SetPattern(0).
		SetFontColor(AutoFontColor()).
		SetFontName(DefaultFontName).
		SetFontBold(false).
		SetFontItalic(false).
		SetFontUnderline(UnderlineNone).
		SetFontStrike(false).
		SetFontSize(DefaultFontSize).
		SetFormat(GeneralFormat()).
		SetAlignH(HAlignGeneral).
		SetAlignV(VAlignBottom).
		SetIndent(0).
		SetRotation(0).
		SetTextDir(TextDirContext).
		SetWrapText(false).
		SetShrinkToFit(false).
		SetContentsLocked(true).
		SetContentsHidden(false).
		SetValidation(nil).
		SetHyperlink(nil).
		SetInputMsg(nil).
		SetConditions(nil)
	for e := ElemBorderTop; e <= ElemBorderDiagonal; e++ {
		b.SetBorder(e, BorderNone())
	}
	return b.Build()
}

// Merge returns a new style holding, for every element, overlay's value when
// overlay sets it and base's value otherwise. A nil argument acts as an empty
// style.
func Merge(base, overlay *Style) *Style {
	if base == nil {
		base = NewEmptyStyle()
	}
	if overlay == nil {
		overlay = NewEmptyStyle()
	}
	b := NewStyleBuilder()
	for e := Element(0); e < numElements; e++ {
		switch {
		case overlay.set.Has(e):
			b.assign(&overlay.elements, e)
		case base.set.Has(e):
			b.assign(&base.elements, e)
		}
	}
	return b.Build()
}

// Dup returns an independently mutable copy of s. The derived font and text
// attributes are shared until the builder changes an element they depend on.
func (s *Style) Dup() *StyleBuilder {
	return &StyleBuilder{elements: s.elements, font: s.font, textAttrs: s.textAttrs}
}

// Equal compares every element, including validation, hyperlink, input
// message and conditions.
func (s *Style) Equal(o *Style) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	return s.equalOver(&o.elements, AllElements)
}

// EqualXL compares only the elements that the XL file formats store in a
// cell format record: validation, hyperlink, input message and conditions
// are ignored.
func (s *Style) EqualXL(o *Style) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	return s.equalOver(&o.elements, xlElements)
}

// Hash is consistent with Equal.
func (s *Style) Hash() uint32 {
	return s.hash.get(func() uint32 { return s.hashOver(AllElements) })
}

// HashXL is consistent with EqualXL.
func (s *Style) HashXL() uint32 {
	return s.hashXL.get(func() uint32 { return s.hashOver(xlElements) })
}

// Font returns the derived font. Unset font elements fall back to defaults.
func (s *Style) Font() *FontSpec {
	return s.font.get(s.buildFont)
}

// TextAttrs returns the derived text attribute list.
func (s *Style) TextAttrs() []TextAttr {
	return s.textAttrs.get(func() []TextAttr { return s.buildTextAttrs(s.Font()) })
}

// VisibleInBlank reports whether the style would produce ink on an empty
// cell: a fill pattern or any visible border.
func (s *Style) VisibleInBlank() bool {
	return s.visibleInBlank()
}

// Overlays returns, for each conditional rule attached to s, s merged with
// the rule's overlay. The result is cached and rebuilt when the rule set
// changes. It is nil when s carries no conditions.
func (s *Style) Overlays() []*Style {
	conds, ok := s.Conditions()
	if !ok || conds == nil {
		return nil
	}
	if s.overlays.valid() && s.overlaysVersion != conds.version {
		s.overlays.reset()
	}
	s.overlaysVersion = conds.version
	return s.overlays.get(func() []*Style { return conds.Overlay(s) })
}

// LinkCount returns the number of outstanding links.
func (s *Style) LinkCount() int { return s.linkCount }

// LinkedSheet returns the sheet s is linked to, or nil.
func (s *Style) LinkedSheet() *Sheet { return s.linkedSheet }

// LinkToSheet binds the style to sh and returns the style to use from now
// on, which may be a new object. A style already linked elsewhere is copied
// first. Automatic pattern and border colours are resolved to the sheet's
// automatic pattern colour; at most one copy is made however many colours
// need resolving. The receiver is never modified apart from its link state.
func (s *Style) LinkToSheet(sh *Sheet) *Style {
	st := s
	if st.linkedSheet != nil {
		st = st.Dup().Build()
	}

	auto := sh.Styles().AutoPatternColor()
	var b *StyleBuilder
	cow := func() *StyleBuilder {
		if b == nil {
			b = st.Dup()
		}
		return b
	}

	if c, ok := st.PatternColor(); ok && c.Auto && c != auto {
		cow().SetPatternColor(auto)
	}
	for e := ElemBorderTop; e <= ElemBorderDiagonal; e++ {
		bd, ok := st.Border(e)
		if !ok || !bd.Visible() || !bd.Color.Auto || bd.Color == auto {
			continue
		}
		cow().SetBorder(e, FetchBorder(bd.Line, auto, e.Orientation()))
	}
	if b != nil {
		st = b.Build()
	}

	st.linkedSheet = sh
	st.linkCount = 1
	return st
}

// Link adds one link to an already linked style.
func (s *Style) Link() error {
	return s.LinkMultiple(1)
}

// LinkMultiple adds n links to an already linked style.
func (s *Style) LinkMultiple(n int) error {
	if s.linkCount <= 0 {
		return ErrNotLinked
	}
	s.linkCount += n
	return nil
}

// Unlink drops one link. Dropping the last link detaches the style from its
// sheet and tells the sheet's style table to forget it.
func (s *Style) Unlink() error {
	if s.linkCount <= 0 {
		return ErrNotLinked
	}
	s.linkCount--
	if s.linkCount == 0 {
		if s.linkedSheet != nil {
			s.linkedSheet.Styles().forget(s)
		}
		s.linkedSheet = nil
	}
	return nil
}

// detach clears the link state of a style that was linked but not kept.
func (s *Style) detach() {
	s.linkCount = 0
	s.linkedSheet = nil
}

// String lists the populated elements.
func (s *Style) String() string {
	return s.describe(AllElements)
}

// StyleBuilder is a uniquely owned, mutable attribute set. Setters return the
// builder so calls can be chained; Build publishes a read-only Style.
type StyleBuilder struct {
	elements

	font      memo[*FontSpec]
	textAttrs memo[[]TextAttr]
}

// NewStyleBuilder returns an empty builder.
func NewStyleBuilder() *StyleBuilder {
	return &StyleBuilder{}
}

// Build publishes the current elements as a read-only Style. The builder
// stays usable; later changes do not affect the returned style.
func (b *StyleBuilder) Build() *Style {
	return &Style{elements: b.elements, font: b.font, textAttrs: b.textAttrs}
}

// Font returns the derived font.
func (b *StyleBuilder) Font() *FontSpec {
	return b.font.get(b.buildFont)
}

// changed drops derived data that depends on e.
func (b *StyleBuilder) changed(e Element) {
	if e.affectsFont() {
		b.font.reset()
	}
	if e.affectsTextAttrs() {
		b.textAttrs.reset()
	}
}

func (b *StyleBuilder) mark(e Element) *StyleBuilder {
	b.set = b.set.With(e)
	b.changed(e)
	return b
}

func (b *StyleBuilder) SetBackColor(c Color) *StyleBuilder {
	b.backColor = c
	return b.mark(ElemBackColor)
}

func (b *StyleBuilder) SetPatternColor(c Color) *StyleBuilder {
	b.patColor = c
	return b.mark(ElemPatternColor)
}

func (b *StyleBuilder) SetFontColor(c Color) *StyleBuilder {
	b.fontColor = c
	return b.mark(ElemFontColor)
}

// SetBorder sets border edge e. Non-border elements are ignored; a nil
// border means BorderNone.
func (b *StyleBuilder) SetBorder(e Element, bd *Border) *StyleBuilder {
	if !e.IsBorder() {
		return b
	}
	if bd == nil {
		bd = BorderNone()
	}
	b.borders[e-ElemBorderTop] = bd
	return b.mark(e)
}

// SetPattern sets the fill pattern index; 0 is no fill, 1 is solid.
func (b *StyleBuilder) SetPattern(p int) *StyleBuilder {
	b.pattern = p
	return b.mark(ElemPattern)
}

func (b *StyleBuilder) SetFontName(name string) *StyleBuilder {
	b.fontName = name
	return b.mark(ElemFontName)
}

func (b *StyleBuilder) SetFontBold(v bool) *StyleBuilder {
	b.fontBold = v
	return b.mark(ElemFontBold)
}

func (b *StyleBuilder) SetFontItalic(v bool) *StyleBuilder {
	b.fontItalic = v
	return b.mark(ElemFontItalic)
}

func (b *StyleBuilder) SetFontUnderline(u Underline) *StyleBuilder {
	b.underline = u
	return b.mark(ElemFontUnderline)
}

func (b *StyleBuilder) SetFontStrike(v bool) *StyleBuilder {
	b.strike = v
	return b.mark(ElemFontStrike)
}

func (b *StyleBuilder) SetFontSize(size float64) *StyleBuilder {
	b.fontSize = size
	return b.mark(ElemFontSize)
}

// SetFormat sets the number format; nil means General.
func (b *StyleBuilder) SetFormat(f *Format) *StyleBuilder {
	if f == nil {
		f = GeneralFormat()
	}
	b.format = f
	return b.mark(ElemFormat)
}

func (b *StyleBuilder) SetAlignH(a HAlign) *StyleBuilder {
	b.halign = a
	return b.mark(ElemAlignH)
}

func (b *StyleBuilder) SetAlignV(a VAlign) *StyleBuilder {
	b.valign = a
	return b.mark(ElemAlignV)
}

func (b *StyleBuilder) SetIndent(n int) *StyleBuilder {
	b.indent = n
	return b.mark(ElemIndent)
}

func (b *StyleBuilder) SetRotation(deg int) *StyleBuilder {
	b.rotation = deg
	return b.mark(ElemRotation)
}

func (b *StyleBuilder) SetTextDir(d TextDir) *StyleBuilder {
	b.textDir = d
	return b.mark(ElemTextDir)
}

func (b *StyleBuilder) SetWrapText(v bool) *StyleBuilder {
	b.wrap = v
	return b.mark(ElemWrapText)
}

func (b *StyleBuilder) SetShrinkToFit(v bool) *StyleBuilder {
	b.shrink = v
	return b.mark(ElemShrinkToFit)
}

func (b *StyleBuilder) SetContentsLocked(v bool) *StyleBuilder {
	b.locked = v
	return b.mark(ElemContentsLocked)
}

func (b *StyleBuilder) SetContentsHidden(v bool) *StyleBuilder {
	b.hidden = v
	return b.mark(ElemContentsHidden)
}

func (b *StyleBuilder) SetValidation(v *Validation) *StyleBuilder {
	b.validation = v
	return b.mark(ElemValidation)
}

func (b *StyleBuilder) SetHyperlink(h *Hyperlink) *StyleBuilder {
	b.hlink = h
	return b.mark(ElemHyperlink)
}

func (b *StyleBuilder) SetInputMsg(m *InputMsg) *StyleBuilder {
	b.inputMsg = m
	return b.mark(ElemInputMsg)
}

func (b *StyleBuilder) SetConditions(c *Conditions) *StyleBuilder {
	b.conds = c
	return b.mark(ElemConditions)
}

// Unset clears element e.
func (b *StyleBuilder) Unset(e Element) *StyleBuilder {
	b.clear(e)
	b.changed(e)
	return b
}

// MergeElement copies exactly element e from src, replacing whatever the
// builder had. If src does not set e, the builder's element is cleared.
func (b *StyleBuilder) MergeElement(src *Style, e Element) *StyleBuilder {
	b.assign(&src.elements, e)
	b.changed(e)
	return b
}

// FindConflicts folds overlay into the builder for "what do these cells have
// in common" queries. Elements the builder lacks are copied from overlay;
// elements present in both with different values are added to the returned
// conflict set. Elements already in conflicts are never touched again.
func (b *StyleBuilder) FindConflicts(overlay *Style, conflicts ElementSet) ElementSet {
	for e := Element(0); e < numElements; e++ {
		if conflicts.Has(e) || !overlay.set.Has(e) {
			continue
		}
		if !b.set.Has(e) {
			b.assign(&overlay.elements, e)
			b.changed(e)
		} else if !b.elemEqual(&overlay.elements, e) {
			conflicts = conflicts.With(e)
		}
	}
	return conflicts
}

// String lists the populated elements.
func (b *StyleBuilder) String() string {
	return b.describe(AllElements)
}
