package cellstyle

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// Options holds configuration for a Sheet.
type Options struct {
	logger       logrus.FieldLogger
	dependents   Dependents
	evaluator    Evaluator
	autoPattern  Color
	locale       language.Tag
	defaultStyle *Style
}

func defaultOptions() *Options {
	return &Options{
		logger:      logrus.StandardLogger(),
		autoPattern: AutoPatternColor(),
		locale:      language.AmericanEnglish,
	}
}

// SheetOption configures a Sheet.
type SheetOption func(*Options)

// WithLogger sets the logger. The sheet adds a "sheet" field to it.
func WithLogger(l logrus.FieldLogger) SheetOption {
	return func(o *Options) { o.logger = l }
}

// WithDependents replaces the dependency tracker (default: a new DepGraph).
func WithDependents(d Dependents) SheetOption {
	return func(o *Options) { o.dependents = d }
}

// WithEvaluator replaces the formula evaluator (default: NewExprEvaluator()).
func WithEvaluator(e Evaluator) SheetOption {
	return func(o *Options) { o.evaluator = e }
}

// WithAutoPatternColor sets the concrete colour automatic pattern and border
// colours resolve to when a style is linked to the sheet.
func WithAutoPatternColor(c Color) SheetOption {
	return func(o *Options) {
		c.Auto = true
		o.autoPattern = c
	}
}

// WithLocale sets the locale used to parse input text and render numbers.
func WithLocale(tag language.Tag) SheetOption {
	return func(o *Options) { o.locale = tag }
}

// WithDefaultStyle sets the sheet's base style. Elements it leaves unset are
// taken from NewDefaultStyle.
func WithDefaultStyle(s *Style) SheetOption {
	return func(o *Options) { o.defaultStyle = s }
}
