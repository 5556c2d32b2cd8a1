package cellstyle

import (
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/nfp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatKind classifies a number format code.
type FormatKind int

const (
	FormatKindGeneral FormatKind = iota
	FormatKindNumber
	FormatKindPercent
	FormatKindDate
	FormatKindText
)

// String returns a human-readable name for the FormatKind.
func (k FormatKind) String() string {
	switch k {
	case FormatKindGeneral:
		return "General"
	case FormatKindNumber:
		return "Number"
	case FormatKindPercent:
		return "Percent"
	case FormatKindDate:
		return "Date"
	case FormatKindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Format is an interned number format. Obtain one through FormatFor; equal
// codes share one pointer, so pointer equality is content equality.
type Format struct {
	code     string
	kind     FormatKind
	decimals int
	grouping bool
	layout   string // time layout for date formats
	hash     uint32
}

var formatCache sync.Map // code → *Format

const generalCode = "General"

// GeneralFormat returns the "General" format.
func GeneralFormat() *Format { return FormatFor(generalCode) }

// FormatFor returns the interned format for code.
func FormatFor(code string) *Format {
	if code == "" || strings.EqualFold(code, generalCode) {
		code = generalCode
	}
	if f, ok := formatCache.Load(code); ok {
		return f.(*Format)
	}
	f, _ := formatCache.LoadOrStore(code, parseFormat(code))
	return f.(*Format)
}

// parseFormat classifies the first section of a format code.
func parseFormat(code string) *Format {
	h := fnv.New32a()
	h.Write([]byte(code))
	f := &Format{code: code, hash: h.Sum32()}
	if code == generalCode {
		return f
	}

	p := nfp.NumberFormatParser()
	sections := p.Parse(code)
	if len(sections) == 0 {
		return f
	}
	afterPoint := false
	hasNumber := false
	var layout strings.Builder
	items := sections[0].Items
	for i, tok := range items {
		switch tok.TType {
		case nfp.TokenTypeGeneral:
			f.kind = FormatKindGeneral
		case nfp.TokenTypeTextPlaceHolder:
			if !hasNumber && f.kind != FormatKindDate {
				f.kind = FormatKindText
			}
		case nfp.TokenTypeZeroPlaceHolder, nfp.TokenTypeHashPlaceHolder:
			hasNumber = true
			if afterPoint {
				f.decimals += len(tok.TValue)
			}
		case nfp.TokenTypeDecimalPoint:
			afterPoint = true
		case nfp.TokenTypeThousandsSeparator:
			f.grouping = true
		case nfp.TokenTypePercent:
			f.kind = FormatKindPercent
		case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
			f.kind = FormatKindDate
			layout.WriteString(dateToken(tok.TValue, items, i))
		case nfp.TokenTypeLiteral:
			layout.WriteString(tok.TValue)
		}
	}
	if f.kind == FormatKindGeneral && hasNumber {
		f.kind = FormatKindNumber
	}
	if f.kind == FormatKindDate {
		f.layout = layout.String()
	}
	return f
}

// dateToken maps one date/time token to a Go time layout fragment. "m" means
// minutes when it follows an hour token or precedes a seconds token.
func dateToken(tok string, items []nfp.Token, idx int) string {
	lower := strings.ToLower(tok)
	switch lower {
	case "yyyy", "yyy":
		return "2006"
	case "yy", "y":
		return "06"
	case "dd":
		return "02"
	case "d":
		return "2"
	case "ddd":
		return "Mon"
	case "dddd":
		return "Monday"
	case "mmm":
		return "Jan"
	case "mmmm":
		return "January"
	case "hh", "h":
		return "15"
	case "ss", "s":
		return "05"
	case "am/pm", "a/p":
		return "PM"
	case "mm", "m":
		if isMinute(items, idx) {
			if lower == "mm" {
				return "04"
			}
			return "4"
		}
		if lower == "mm" {
			return "01"
		}
		return "1"
	}
	return tok
}

func isMinute(items []nfp.Token, idx int) bool {
	for i := idx - 1; i >= 0; i-- {
		if items[i].TType == nfp.TokenTypeDateTimes || items[i].TType == nfp.TokenTypeElapsedDateTimes {
			l := strings.ToLower(items[i].TValue)
			return strings.HasPrefix(l, "h")
		}
	}
	for i := idx + 1; i < len(items); i++ {
		if items[i].TType == nfp.TokenTypeDateTimes || items[i].TType == nfp.TokenTypeElapsedDateTimes {
			l := strings.ToLower(items[i].TValue)
			return strings.HasPrefix(l, "s")
		}
	}
	return false
}

// Code returns the format code.
func (f *Format) Code() string { return f.code }

// Kind returns the format classification.
func (f *Format) Kind() FormatKind { return f.kind }

// IsGeneral reports whether f is the General format.
func (f *Format) IsGeneral() bool { return f.code == generalCode }

// IsDate reports whether f renders date or time values.
func (f *Format) IsDate() bool { return f.kind == FormatKindDate }

// Decimals returns the number of fraction digits the format shows.
func (f *Format) Decimals() int { return f.decimals }

// String returns the format code.
func (f *Format) String() string { return f.code }

// serialEpoch is day zero of spreadsheet date serial numbers.
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// DateToSerial converts a time to a spreadsheet serial number.
func DateToSerial(t time.Time) float64 {
	d := t.Sub(serialEpoch)
	return d.Hours() / 24
}

// SerialToDate converts a spreadsheet serial number to a time.
func SerialToDate(serial float64) time.Time {
	ms := math.Round(serial * 24 * 60 * 60 * 1000)
	return serialEpoch.Add(time.Duration(ms) * time.Millisecond)
}

// Render formats v according to f using the locale of p.
func (f *Format) Render(v Value, p *message.Printer) string {
	if p == nil {
		p = message.NewPrinter(language.AmericanEnglish)
	}
	if v.Type() == ValueArray {
		v = v.At(0, 0)
	}
	if v.Type() != ValueFloat {
		return v.String()
	}
	x := v.Float()
	switch f.kind {
	case FormatKindNumber:
		return renderDecimal(p, x, f.decimals, f.grouping)
	case FormatKindPercent:
		return renderDecimal(p, x*100, f.decimals, f.grouping) + "%"
	case FormatKindDate:
		return SerialToDate(x).Format(f.layout)
	case FormatKindText:
		return v.String()
	}
	return renderGeneral(p, x)
}

func renderDecimal(p *message.Printer, x float64, decimals int, grouping bool) string {
	opts := []number.Option{number.MinFractionDigits(decimals), number.MaxFractionDigits(decimals)}
	if !grouping {
		opts = append(opts, number.NoSeparator())
	}
	return p.Sprint(number.Decimal(x, opts...))
}

// renderGeneral shows up to ten significant digits, switching to scientific
// notation for very large or very small magnitudes.
func renderGeneral(p *message.Printer, x float64) string {
	ax := math.Abs(x)
	if ax != 0 && (ax >= 1e11 || ax < 1e-9) {
		return strconv.FormatFloat(x, 'E', 5, 64)
	}
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s) > 11 {
		s = strconv.FormatFloat(x, 'f', max(0, 10-dot), 64)
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	_, dec := localeSeparators(p)
	if dec != "." {
		s = strings.Replace(s, ".", dec, 1)
	}
	return s
}

// localeSeparators derives the grouping and decimal separators of a locale
// by rendering a known number.
func localeSeparators(p *message.Printer) (group, decimal string) {
	s := []rune(p.Sprint(number.Decimal(1234.5, number.MinFractionDigits(1), number.MaxFractionDigits(1))))
	if len(s) < 6 {
		return ",", "."
	}
	return string(s[1]), string(s[len(s)-2])
}
