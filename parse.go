package cellstyle

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Input is the interpretation of text typed into a cell. Exactly one of
// Expr and Value is meaningful: Expr is non-nil for formulas.
type Input struct {
	Value  Value
	Expr   *Expr
	Format *Format // inferred format, nil for General
}

// ParseInput interprets text the way a user entry is read:
//   - a leading apostrophe forces the rest to be a string
//   - a leading '=' starts a formula
//   - TRUE and FALSE in any case are booleans
//   - "#DIV/0!" style text is an error value
//   - numbers use the locale's separators; a trailing '%' divides by 100
//   - ISO dates (2024-03-31) and times (14:30, 14:30:15) become serial numbers
//
// Anything else is a string. Parsing never fails.
func ParseInput(text string, tag language.Tag) Input {
	if strings.HasPrefix(text, "'") {
		return Input{Value: NewString(text[1:])}
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		if text == "" {
			return Input{Value: Empty()}
		}
		return Input{Value: NewString(text)}
	}
	if strings.HasPrefix(trimmed, "=") && len(trimmed) > 1 {
		if e, err := ParseExpr(trimmed); err == nil {
			return Input{Expr: e}
		}
	}
	switch strings.ToUpper(trimmed) {
	case "TRUE":
		return Input{Value: NewBool(true)}
	case "FALSE":
		return Input{Value: NewBool(false)}
	}
	if k, ok := ParseErrorKind(trimmed); ok && k != ErrorRecalc {
		return Input{Value: NewError(k)}
	}
	if in, ok := parseNumber(trimmed, message.NewPrinter(tag)); ok {
		return in
	}
	if in, ok := parseDateTime(trimmed); ok {
		return in
	}
	return Input{Value: NewString(text)}
}

func parseNumber(s string, p *message.Printer) (Input, bool) {
	group, dec := localeSeparators(p)
	percent := strings.HasSuffix(s, "%")
	if percent {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	grouped := false
	if group != "" && strings.Contains(s, group) {
		if !validGrouping(s, group, dec) {
			return Input{}, false
		}
		s = strings.ReplaceAll(s, group, "")
		grouped = true
	}
	decimals := 0
	if i := strings.Index(s, dec); i >= 0 {
		decimals = len(s) - i - len(dec)
		if dec != "." {
			s = s[:i] + "." + s[i+len(dec):]
		}
	}
	if !looksNumeric(s) || (grouped && strings.ContainsAny(s, "eE")) {
		return Input{}, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Input{}, false
	}
	switch {
	case percent:
		return Input{Value: NewFloat(f / 100), Format: FormatFor("0" + fraction(decimals) + "%")}, true
	case grouped:
		return Input{Value: NewFloat(f), Format: FormatFor("#,##0" + fraction(decimals))}, true
	}
	return Input{Value: NewFloat(f)}, true
}

// looksNumeric rejects the words strconv accepts ("Inf", "NaN") and hex.
func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch b := s[i]; {
		case b >= '0' && b <= '9', b == '.', b == '+', b == '-', b == 'e', b == 'E':
		default:
			return false
		}
	}
	return true
}

// validGrouping checks that every group after the first has three digits.
func validGrouping(s, group, dec string) bool {
	intPart := s
	if i := strings.Index(s, dec); i >= 0 {
		intPart = s[:i]
	}
	intPart = strings.TrimLeft(intPart, "+-")
	parts := strings.Split(intPart, group)
	if len(parts[0]) == 0 || len(parts[0]) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}

func fraction(decimals int) string {
	if decimals <= 0 {
		return ""
	}
	return "." + strings.Repeat("0", decimals)
}

var dateTimeLayouts = []struct {
	layout string
	format string
}{
	{"2006-01-02", "yyyy-mm-dd"},
	{"2006-01-02 15:04", "yyyy-mm-dd hh:mm"},
	{"2006-01-02 15:04:05", "yyyy-mm-dd hh:mm:ss"},
	{"15:04", "hh:mm"},
	{"15:04:05", "hh:mm:ss"},
}

func parseDateTime(s string) (Input, bool) {
	for _, l := range dateTimeLayouts {
		t, err := time.Parse(l.layout, s)
		if err != nil {
			continue
		}
		var serial float64
		if strings.HasPrefix(l.layout, "15") {
			serial = float64(t.Hour()*3600+t.Minute()*60+t.Second()) / 86400
		} else {
			serial = DateToSerial(t)
		}
		return Input{Value: NewFloat(serial), Format: FormatFor(l.format)}, true
	}
	return Input{}, false
}
