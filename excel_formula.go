package cellstyle

import (
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

// FromExcelFormula translates an excel formula ("=SUM(A1:B2)*2%") into the
// formula language of Expr. Sheet prefixes are dropped from references.
func FromExcelFormula(formula string) string {
	formula = strings.TrimPrefix(strings.TrimSpace(formula), "=")
	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)

	var b strings.Builder
	for _, tok := range tokens {
		switch tok.TType {
		case efp.TokenTypeOperand:
			switch tok.TSubType {
			case efp.TokenSubTypeText:
				b.WriteString(strconv.Quote(tok.TValue))
			case efp.TokenSubTypeLogical:
				b.WriteString(strings.ToLower(tok.TValue))
			case efp.TokenSubTypeRange:
				ref := tok.TValue
				if i := strings.LastIndex(ref, "!"); i >= 0 {
					ref = ref[i+1:]
				}
				b.WriteString(ref)
			default:
				b.WriteString(tok.TValue)
			}
		case efp.TokenTypeFunction:
			if tok.TSubType == efp.TokenSubTypeStart {
				b.WriteString(strings.ToUpper(tok.TValue))
				b.WriteByte('(')
			} else {
				b.WriteByte(')')
			}
		case efp.TokenTypeSubexpression:
			if tok.TSubType == efp.TokenSubTypeStart {
				b.WriteByte('(')
			} else {
				b.WriteByte(')')
			}
		case efp.TokenTypeArgument:
			b.WriteString(", ")
		case efp.TokenTypeOperatorPrefix:
			b.WriteString(tok.TValue)
		case efp.TokenTypeOperatorInfix:
			b.WriteByte(' ')
			b.WriteString(infixFromExcel(tok.TValue))
			b.WriteByte(' ')
		case efp.TokenTypeOperatorPostfix:
			if tok.TValue == "%" {
				b.WriteString(" / 100")
			}
		}
	}
	return b.String()
}

func infixFromExcel(op string) string {
	switch op {
	case "=":
		return "=="
	case "<>":
		return "!="
	case "^":
		return "**"
	case "&":
		return "+"
	}
	return op
}

// ToExcelFormula translates Expr text back into excel syntax, without the
// leading '='. Only the operators and literals FromExcelFormula produces
// are mapped.
func ToExcelFormula(text string) string {
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case ch == '"':
			j := i + 1
			for j < len(text) && text[j] != '"' {
				if text[j] == '\\' {
					j++
				}
				j++
			}
			end := min(j+1, len(text))
			s, err := strconv.Unquote(text[i:end])
			if err != nil {
				s = strings.Trim(text[i:end], `"`)
			}
			b.WriteString(`"` + strings.ReplaceAll(s, `"`, `""`) + `"`)
			i = end - 1
		case strings.HasPrefix(text[i:], "=="):
			b.WriteByte('=')
			i++
		case strings.HasPrefix(text[i:], "!="):
			b.WriteString("<>")
			i++
		case strings.HasPrefix(text[i:], "**"):
			b.WriteByte('^')
			i++
		case isAlpha(ch) && (i == 0 || !isIdentByte(text[i-1])):
			j := i
			for j < len(text) && isIdentByte(text[j]) {
				j++
			}
			word := text[i:j]
			switch word {
			case "true", "false":
				word = strings.ToUpper(word)
			}
			b.WriteString(word)
			i = j - 1
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
