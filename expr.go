package cellstyle

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// EvalFlags modify expression evaluation.
type EvalFlags int

const (
	// EvalPermitNonScalar keeps array results instead of reducing them to
	// their top-left element.
	EvalPermitNonScalar EvalFlags = 1 << iota
)

// Expr is a parsed formula. The formula language is expr-lang with cell
// references ("A1", "$B$2", "A1:C3") bound to the referenced cell values and
// spreadsheet functions in upper case (SUM, IF, ...). Exprs are immutable and
// may be shared between cells.
type Expr struct {
	text   string // as entered, without the leading '='
	src    string // compiled form: references replaced by identifiers
	refs   []exprRef
	broken bool // holds a deleted reference; evaluates to #REF!
}

type exprRef struct {
	ident string
	rng   Range
}

// refPattern matches a cell or range reference with optional '$' markers.
var refPattern = regexp.MustCompile(`\$?([A-Za-z]{1,3})\$?([0-9]+)(?::\$?([A-Za-z]{1,3})\$?([0-9]+))?`)

const refErrorText = "#REF!"

// ParseExpr parses formula text; a leading '=' is optional. Syntax errors
// are not reported here: such a formula evaluates to #NAME?.
func ParseExpr(text string) (*Expr, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "=")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNoExpression
	}
	e := &Expr{text: text}
	var src strings.Builder
	last := 0
	seen := make(map[string]bool)
	scanRefs(text, func(start, end int, r Range) {
		ident := refIdent(r)
		src.WriteString(text[last:start])
		src.WriteString(ident)
		last = end
		if !seen[ident] {
			seen[ident] = true
			e.refs = append(e.refs, exprRef{ident: ident, rng: r})
		}
	})
	src.WriteString(text[last:])
	e.src = src.String()
	e.broken = containsOutsideStrings(text, refErrorText)
	return e, nil
}

// MustParseExpr is like ParseExpr but panics on error.
func MustParseExpr(text string) *Expr {
	e, err := ParseExpr(text)
	if err != nil {
		panic(fmt.Sprintf("parse expression %q: %v", text, err))
	}
	return e
}

// String returns the formula as displayed, with a leading '='.
func (e *Expr) String() string { return "=" + e.text }

// Text returns the formula without the leading '='.
func (e *Expr) Text() string { return e.text }

// Refs returns the distinct cell ranges the formula reads, in order of first
// appearance.
func (e *Expr) Refs() []Range {
	out := make([]Range, len(e.refs))
	for i, r := range e.refs {
		out[i] = r.rng
	}
	return out
}

// Equal compares formula text.
func (e *Expr) Equal(o *Expr) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.text == o.text
}

func refIdent(r Range) string {
	if r.Start == r.End {
		return r.Start.String()
	}
	return r.Start.String() + "_" + r.End.String()
}

// stringSpans returns the [start, end) byte spans of quoted literals.
func stringSpans(s string) [][2]int {
	var spans [][2]int
	for i := 0; i < len(s); i++ {
		q := s[i]
		if q != '"' && q != '\'' && q != '`' {
			continue
		}
		j := i + 1
		for j < len(s) && s[j] != q {
			if s[j] == '\\' && q != '`' {
				j++
			}
			j++
		}
		spans = append(spans, [2]int{i, min(j+1, len(s))})
		i = j
	}
	return spans
}

func inSpans(spans [][2]int, pos int) bool {
	for _, sp := range spans {
		if pos >= sp[0] && pos < sp[1] {
			return true
		}
	}
	return false
}

func containsOutsideStrings(s, sub string) bool {
	spans := stringSpans(s)
	for off := 0; ; {
		i := strings.Index(s[off:], sub)
		if i < 0 {
			return false
		}
		if !inSpans(spans, off+i) {
			return true
		}
		off += i + len(sub)
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '.' || b == '$' || isAlpha(b) || (b >= '0' && b <= '9')
}

// scanRefs calls fn for every reference outside string literals that is not
// part of a longer identifier or a function name.
func scanRefs(s string, fn func(start, end int, r Range)) {
	spans := stringSpans(s)
	for _, m := range refPattern.FindAllStringSubmatchIndex(s, -1) {
		start, end := m[0], m[1]
		if inSpans(spans, start) {
			continue
		}
		if start > 0 && isIdentByte(s[start-1]) {
			continue
		}
		if end < len(s) && (isIdentByte(s[end]) || s[end] == '(') {
			continue
		}
		r, err := ParseRange(s[start:end])
		if err != nil {
			continue
		}
		fn(start, end, r)
	}
}

// Evaluator computes the value of an expression at a sheet position.
// Evaluation never fails: problems are reported as error values.
type Evaluator interface {
	Eval(e *Expr, sh *Sheet, pos CellPos, flags EvalFlags) Value
}

// ExprEvaluator is the default Evaluator, backed by expr-lang/expr.
type ExprEvaluator struct {
	cache sync.Map // compiled source → *vm.Program
}

// NewExprEvaluator creates an evaluator with an empty program cache.
func NewExprEvaluator() *ExprEvaluator {
	return &ExprEvaluator{}
}

// Eval evaluates e at pos. Compile errors yield #NAME?, runtime errors
// #VALUE!, infinite results #DIV/0! and NaN #NUM!. An error held by any
// referenced cell is returned as is.
func (ev *ExprEvaluator) Eval(e *Expr, sh *Sheet, pos CellPos, flags EvalFlags) Value {
	if e == nil {
		return Empty()
	}
	if e.broken {
		return NewError(ErrorRef)
	}
	program, err := ev.compile(e.src)
	if err != nil {
		return NewError(ErrorName)
	}
	env, errVal, ok := e.env(sh, pos)
	if !ok {
		return errVal
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return NewError(ErrorValue)
	}
	v := valueFromGo(out)
	if v.Type() == ValueArray && flags&EvalPermitNonScalar == 0 {
		v = v.At(0, 0)
	}
	return v
}

// Check reports the compile error of e, if any.
func (ev *ExprEvaluator) Check(e *Expr) error {
	if e.broken {
		return fmt.Errorf("formula %q has a deleted reference", e.text)
	}
	_, err := ev.compile(e.src)
	return err
}

func (ev *ExprEvaluator) compile(src string) (*vm.Program, error) {
	if cached, ok := ev.cache.Load(src); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(src, compileOptions...)
	if err != nil {
		return nil, err
	}
	ev.cache.Store(src, program)
	return program, nil
}

// env binds every reference of e plus the _row (1-based) and _col (0-based)
// position variables. ok is false when a referenced cell holds an error,
// which is then returned.
func (e *Expr) env(sh *Sheet, pos CellPos) (map[string]any, Value, bool) {
	env := make(map[string]any, len(e.refs)+2)
	env["_row"] = pos.Row + 1
	env["_col"] = pos.Col
	for _, ref := range e.refs {
		if ref.rng.Start == ref.rng.End {
			v := sh.valueAt(ref.rng.Start)
			if v.IsError() {
				return nil, v, false
			}
			if v.IsEmpty() {
				env[ref.ident] = 0.0
			} else {
				env[ref.ident] = goFromValue(v)
			}
			continue
		}
		items := make([]any, 0, ref.rng.Width()*ref.rng.Height())
		var errVal *Value
		ref.rng.Each(func(p CellPos) {
			v := sh.valueAt(p)
			if v.IsError() && errVal == nil {
				errVal = &v
			}
			items = append(items, goFromValue(v))
		})
		if errVal != nil {
			return nil, *errVal, false
		}
		env[ref.ident] = items
	}
	return env, Value{}, true
}

var compileOptions = []expr.Option{
	expr.AllowUndefinedVariables(),
	expr.Function("SUM", fnSum),
	expr.Function("AVERAGE", fnAverage),
	expr.Function("MIN", fnMin),
	expr.Function("MAX", fnMax),
	expr.Function("COUNT", fnCount),
	expr.Function("COUNTA", fnCountA),
	expr.Function("IF", fnIf),
	expr.Function("AND", fnAnd),
	expr.Function("OR", fnOr),
	expr.Function("NOT", fnNot),
	expr.Function("ABS", fnAbs),
	expr.Function("ROUND", fnRound),
	expr.Function("LEN", fnLen),
	expr.Function("UPPER", fnUpper),
	expr.Function("LOWER", fnLower),
	expr.Function("CONCAT", fnConcat),
}

// flatten expands range arguments into their items.
func flatten(params []any) []any {
	var out []any
	for _, p := range params {
		if list, ok := p.([]any); ok {
			out = append(out, flatten(list)...)
			continue
		}
		out = append(out, p)
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func numbers(params []any) []float64 {
	var out []float64
	for _, p := range flatten(params) {
		if _, isBool := p.(bool); isBool {
			continue
		}
		if f, ok := toFloat(p); ok {
			out = append(out, f)
		}
	}
	return out
}

func fnSum(params ...any) (any, error) {
	var total float64
	for _, f := range numbers(params) {
		total += f
	}
	return total, nil
}

func fnAverage(params ...any) (any, error) {
	nums := numbers(params)
	if len(nums) == 0 {
		return math.Inf(1), nil
	}
	var total float64
	for _, f := range nums {
		total += f
	}
	return total / float64(len(nums)), nil
}

func fnMin(params ...any) (any, error) {
	nums := numbers(params)
	if len(nums) == 0 {
		return 0.0, nil
	}
	m := nums[0]
	for _, f := range nums[1:] {
		m = math.Min(m, f)
	}
	return m, nil
}

func fnMax(params ...any) (any, error) {
	nums := numbers(params)
	if len(nums) == 0 {
		return 0.0, nil
	}
	m := nums[0]
	for _, f := range nums[1:] {
		m = math.Max(m, f)
	}
	return m, nil
}

func fnCount(params ...any) (any, error) {
	return len(numbers(params)), nil
}

func fnCountA(params ...any) (any, error) {
	n := 0
	for _, p := range flatten(params) {
		if p != nil {
			n++
		}
	}
	return n, nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return strings.EqualFold(x, "TRUE")
	case nil:
		return false
	}
	f, _ := toFloat(v)
	return f != 0
}

func fnIf(params ...any) (any, error) {
	if len(params) < 2 || len(params) > 3 {
		return nil, fmt.Errorf("IF takes 2 or 3 arguments, got %d", len(params))
	}
	if truthy(params[0]) {
		return params[1], nil
	}
	if len(params) == 3 {
		return params[2], nil
	}
	return false, nil
}

func fnAnd(params ...any) (any, error) {
	for _, p := range flatten(params) {
		if !truthy(p) {
			return false, nil
		}
	}
	return true, nil
}

func fnOr(params ...any) (any, error) {
	for _, p := range flatten(params) {
		if truthy(p) {
			return true, nil
		}
	}
	return false, nil
}

func fnNot(params ...any) (any, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("NOT takes 1 argument, got %d", len(params))
	}
	return !truthy(params[0]), nil
}

func fnAbs(params ...any) (any, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("ABS takes 1 argument, got %d", len(params))
	}
	f, ok := toFloat(params[0])
	if !ok {
		return nil, fmt.Errorf("ABS: not a number: %v", params[0])
	}
	return math.Abs(f), nil
}

func fnRound(params ...any) (any, error) {
	if len(params) < 1 || len(params) > 2 {
		return nil, fmt.Errorf("ROUND takes 1 or 2 arguments, got %d", len(params))
	}
	f, ok := toFloat(params[0])
	if !ok {
		return nil, fmt.Errorf("ROUND: not a number: %v", params[0])
	}
	digits := 0.0
	if len(params) == 2 {
		digits, _ = toFloat(params[1])
	}
	scale := math.Pow(10, math.Trunc(digits))
	return math.Round(f*scale) / scale, nil
}

func fnLen(params ...any) (any, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("LEN takes 1 argument, got %d", len(params))
	}
	return len([]rune(valueFromGo(params[0]).String())), nil
}

func fnUpper(params ...any) (any, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("UPPER takes 1 argument, got %d", len(params))
	}
	return strings.ToUpper(valueFromGo(params[0]).String()), nil
}

func fnLower(params ...any) (any, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("LOWER takes 1 argument, got %d", len(params))
	}
	return strings.ToLower(valueFromGo(params[0]).String()), nil
}

func fnConcat(params ...any) (any, error) {
	var b strings.Builder
	for _, p := range flatten(params) {
		b.WriteString(valueFromGo(p).String())
	}
	return b.String(), nil
}
