package cellstyle

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

var excelBorderEdges = []struct {
	elem Element
	name string
}{
	{ElemBorderLeft, "left"},
	{ElemBorderRight, "right"},
	{ElemBorderTop, "top"},
	{ElemBorderBottom, "bottom"},
	{ElemBorderDiagonal, "diagonalUp"},
	{ElemBorderRevDiagonal, "diagonalDown"},
}

// StyleToExcelize converts the XL-relevant elements of st into an excelize
// style. Automatic colours are written as empty (excel's "automatic").
func StyleToExcelize(st *Style) *excelize.Style {
	xs := &excelize.Style{}
	hex := func(c Color) string {
		if c.Auto {
			return ""
		}
		return c.Hex()
	}

	for _, edge := range excelBorderEdges {
		b, ok := st.Border(edge.elem)
		if !ok || !b.Visible() {
			continue
		}
		xs.Border = append(xs.Border, excelize.Border{Type: edge.name, Color: hex(b.Color), Style: int(b.Line)})
	}

	if p, ok := st.Pattern(); ok && p > 0 {
		fill := excelize.Fill{Type: "pattern", Pattern: p}
		c, _ := st.BackColor()
		if p != 1 {
			c, _ = st.PatternColor()
		}
		if h := hex(c); h != "" {
			fill.Color = []string{h}
		}
		xs.Fill = fill
	}

	font := &excelize.Font{}
	font.Family, _ = st.FontName()
	font.Size, _ = st.FontSize()
	font.Bold, _ = st.FontBold()
	font.Italic, _ = st.FontItalic()
	font.Strike, _ = st.FontStrike()
	if u, ok := st.FontUnderline(); ok && u != UnderlineNone {
		font.Underline = u.String()
	}
	if c, ok := st.FontColor(); ok {
		font.Color = hex(c)
	}
	if *font != (excelize.Font{}) {
		xs.Font = font
	}

	align := &excelize.Alignment{}
	if h, ok := st.AlignH(); ok && h != HAlignGeneral {
		align.Horizontal = h.String()
	}
	if v, ok := st.AlignV(); ok && v != VAlignBottom {
		align.Vertical = v.String()
	}
	align.Indent, _ = st.Indent()
	align.TextRotation, _ = st.Rotation()
	align.WrapText, _ = st.WrapText()
	align.ShrinkToFit, _ = st.ShrinkToFit()
	if d, ok := st.TextDir(); ok {
		align.ReadingOrder = uint64(d)
	}
	if *align != (excelize.Alignment{}) {
		xs.Alignment = align
	}

	locked, lok := st.ContentsLocked()
	hidden, hok := st.ContentsHidden()
	if lok || hok {
		xs.Protection = &excelize.Protection{Locked: locked, Hidden: hidden}
	}

	if f, ok := st.Format(); ok && f != nil && !f.IsGeneral() {
		code := f.Code()
		xs.CustomNumFmt = &code
	}
	return xs
}

// StyleFromExcelize converts an excelize style into a partial Style that
// sets only what the excelize style specifies.
func StyleFromExcelize(xs *excelize.Style) *Style {
	b := NewStyleBuilder()
	color := func(hex string, auto Color) Color {
		if hex == "" {
			return auto
		}
		c, err := ParseHexColor(hex)
		if err != nil {
			return auto
		}
		return c
	}

	for _, xb := range xs.Border {
		for _, edge := range excelBorderEdges {
			if edge.name == xb.Type {
				line := LineType(xb.Style)
				b.SetBorder(edge.elem, FetchBorder(line, color(xb.Color, AutoPatternColor()), edge.elem.Orientation()))
			}
		}
	}

	if xs.Fill.Type == "pattern" && xs.Fill.Pattern > 0 {
		b.SetPattern(xs.Fill.Pattern)
		c := AutoBackColor()
		if len(xs.Fill.Color) > 0 {
			c = color(xs.Fill.Color[0], AutoBackColor())
		}
		if xs.Fill.Pattern == 1 {
			b.SetBackColor(c)
		} else {
			b.SetPatternColor(c)
		}
	}

	if f := xs.Font; f != nil {
		if f.Family != "" {
			b.SetFontName(f.Family)
		}
		if f.Size > 0 {
			b.SetFontSize(f.Size)
		}
		b.SetFontBold(f.Bold).SetFontItalic(f.Italic).SetFontStrike(f.Strike)
		if f.Underline != "" {
			b.SetFontUnderline(ParseUnderline(f.Underline))
		}
		if f.Color != "" {
			b.SetFontColor(color(f.Color, AutoFontColor()))
		}
	}

	if a := xs.Alignment; a != nil {
		if a.Horizontal != "" {
			b.SetAlignH(ParseHAlign(a.Horizontal))
		}
		if a.Vertical != "" {
			b.SetAlignV(ParseVAlign(a.Vertical))
		}
		b.SetIndent(a.Indent).SetRotation(a.TextRotation).
			SetWrapText(a.WrapText).SetShrinkToFit(a.ShrinkToFit).
			SetTextDir(TextDir(a.ReadingOrder))
	}

	if p := xs.Protection; p != nil {
		b.SetContentsLocked(p.Locked).SetContentsHidden(p.Hidden)
	}

	switch {
	case xs.CustomNumFmt != nil && *xs.CustomNumFmt != "":
		b.SetFormat(FormatFor(*xs.CustomNumFmt))
	case xs.NumFmt != 0:
		if code, ok := builtinNumFmts[xs.NumFmt]; ok {
			b.SetFormat(FormatFor(code))
		}
	}
	return b.Build()
}

// builtinNumFmts are the excel built-in number formats with a fixed code.
var builtinNumFmts = map[int]string{
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	49: "@",
}

// ImportSheet reads the cells of sheet name from f into dst: values,
// formulas (translated with FromExcelFormula, keeping the cached value) and
// cell styles.
func ImportSheet(f *excelize.File, name string, dst *Sheet) error {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("read rows from sheet %q: %w", name, err)
	}
	styleCache := make(map[int]*Style) // excelize style ID → converted style

	for rowIdx, row := range rows {
		for colIdx, raw := range row {
			pos := NewCellPos(colIdx, rowIdx)
			cellName := pos.String()

			formula, err := f.GetCellFormula(name, cellName)
			if err != nil {
				return fmt.Errorf("read formula %s!%s: %w", name, cellName, err)
			}
			styleID, err := f.GetCellStyle(name, cellName)
			if err != nil {
				return fmt.Errorf("read style %s!%s: %w", name, cellName, err)
			}
			if raw == "" && formula == "" && styleID == 0 {
				continue
			}

			if raw != "" || formula != "" {
				if err := importCell(f, name, cellName, raw, formula, dst.FetchCell(colIdx, rowIdx)); err != nil {
					return err
				}
			}

			if styleID != 0 {
				st, ok := styleCache[styleID]
				if !ok {
					xs, err := f.GetStyle(styleID)
					if err != nil {
						return fmt.Errorf("read style %d: %w", styleID, err)
					}
					st = StyleFromExcelize(xs)
					styleCache[styleID] = st
				}
				if err := dst.Styles().SetStyle(SingleCell(pos), st); err != nil {
					return err
				}
			}

			hasLink, target, err := f.GetCellHyperLink(name, cellName)
			if err != nil {
				return fmt.Errorf("read hyperlink %s!%s: %w", name, cellName, err)
			}
			if hasLink {
				link := NewStyleBuilder().SetHyperlink(NewHyperlink(target, "")).Build()
				if err := dst.Styles().ApplyStyle(SingleCell(pos), link); err != nil {
					return err
				}
			}
		}
	}
	dst.log.WithField("rows", len(rows)).Debug("sheet imported")
	return nil
}

func importCell(f *excelize.File, sheet, cellName, raw, formula string, c *Cell) error {
	val, err := importValue(f, sheet, cellName, raw)
	if err != nil {
		return err
	}
	if formula == "" {
		err = c.SetValue(val, nil)
	} else {
		var e *Expr
		e, err = ParseExpr(FromExcelFormula(formula))
		if err != nil {
			return fmt.Errorf("parse formula %s!%s: %w", sheet, cellName, err)
		}
		err = c.SetExprAndValue(e, val, nil)
	}
	if err != nil {
		return fmt.Errorf("import %s!%s: %w", sheet, cellName, err)
	}
	return nil
}

func importValue(f *excelize.File, sheet, cell, raw string) (Value, error) {
	if raw == "" {
		return Empty(), nil
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return Value{}, fmt.Errorf("read type %s!%s: %w", sheet, cell, err)
	}
	switch typ {
	case excelize.CellTypeBool:
		return NewBool(raw == "1" || raw == "TRUE"), nil
	case excelize.CellTypeError:
		if k, ok := ParseErrorKind(raw); ok {
			return NewError(k), nil
		}
		return NewError(ErrorValue), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return NewString(raw), nil
	}
	if x, err := strconv.ParseFloat(raw, 64); err == nil {
		return NewFloat(x), nil
	}
	return NewString(raw), nil
}

// ExportSheet writes the cells and cell styles of src into sheet name of f,
// creating the sheet if needed.
func ExportSheet(src *Sheet, f *excelize.File, name string) error {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return fmt.Errorf("look up sheet %q: %w", name, err)
	}
	if idx < 0 {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
	}

	for _, c := range src.Cells() {
		if err := exportCell(f, name, c); err != nil {
			return err
		}
	}

	ids := make(map[*Style]int) // merged style → excelize style ID
	for pos := range src.styles.styles {
		cellName := pos.String()
		st := src.styles.StyleFor(pos.Col, pos.Row)
		id, ok := ids[st]
		if !ok {
			id, err = f.NewStyle(StyleToExcelize(st))
			if err != nil {
				return fmt.Errorf("create style for %s: %w", cellName, err)
			}
			ids[st] = id
		}
		if err := f.SetCellStyle(name, cellName, cellName, id); err != nil {
			return fmt.Errorf("set style %s!%s: %w", name, cellName, err)
		}
		if h, ok := st.Hyperlink(); ok && h != nil {
			if err := exportHyperlink(f, name, cellName, h); err != nil {
				return err
			}
		}
	}
	return nil
}

func exportCell(f *excelize.File, sheet string, c *Cell) error {
	cellName := c.pos.String()
	if err := exportValue(f, sheet, cellName, c.value); err != nil {
		return err
	}
	var err error
	switch {
	case c.IsArrayCorner() && c.IsPartialArray():
		r, _ := c.ArrayBounds()
		ref := r.String()
		typ := excelize.STCellFormulaTypeArray
		err = f.SetCellFormula(sheet, cellName, ToExcelFormula(c.expr.Text()),
			excelize.FormulaOpts{Type: &typ, Ref: &ref})
	case c.expr != nil:
		err = f.SetCellFormula(sheet, cellName, ToExcelFormula(c.expr.Text()))
	}
	if err != nil {
		return fmt.Errorf("write formula %s!%s: %w", sheet, cellName, err)
	}
	return nil
}

func exportHyperlink(f *excelize.File, sheet, cellName string, h *Hyperlink) error {
	linkType := "External"
	if h.Kind == LinkCurrentWorkbook {
		linkType = "Location"
	}
	var opts []excelize.HyperlinkOpts
	if h.Tip != "" {
		tip := h.Tip
		opts = append(opts, excelize.HyperlinkOpts{Tooltip: &tip})
	}
	if err := f.SetCellHyperLink(sheet, cellName, h.Target, linkType, opts...); err != nil {
		return fmt.Errorf("write hyperlink %s!%s: %w", sheet, cellName, err)
	}
	return nil
}

func exportValue(f *excelize.File, sheet, cell string, v Value) error {
	var err error
	switch v.Type() {
	case ValueEmpty:
		return nil
	case ValueBool:
		err = f.SetCellBool(sheet, cell, v.Bool())
	case ValueFloat:
		err = f.SetCellFloat(sheet, cell, v.Float(), -1, 64)
	case ValueError:
		if v.ErrorKind() == ErrorRecalc {
			return nil
		}
		err = f.SetCellStr(sheet, cell, v.String())
	default:
		err = f.SetCellStr(sheet, cell, v.String())
	}
	if err != nil {
		return fmt.Errorf("write value %s!%s: %w", sheet, cell, err)
	}
	return nil
}
