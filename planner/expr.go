package planner

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"mit.edu/dsg/pulldb/storage"
)

// Predicate is a unary row condition used by Filter. Implementations must be pure:
// evaluating a predicate may not change any engine state.
type Predicate interface {
	Eval(t storage.Tuple) bool
	String() string
}

// PredicateFunc adapts an ordinary function to the Predicate interface.
type PredicateFunc func(t storage.Tuple) bool

func (f PredicateFunc) Eval(t storage.Tuple) bool {
	return f(t)
}

func (f PredicateFunc) String() string {
	return "<func>"
}

// JoinPredicate is the theta condition evaluated over one row from each side of a join.
type JoinPredicate interface {
	Eval(outer, inner storage.Tuple) bool
	String() string
}

// JoinPredicateFunc adapts an ordinary function to the JoinPredicate interface.
type JoinPredicateFunc func(outer, inner storage.Tuple) bool

func (f JoinPredicateFunc) Eval(outer, inner storage.Tuple) bool {
	return f(outer, inner)
}

func (f JoinPredicateFunc) String() string {
	return "<func>"
}

type ComparisonType int

const (
	Equal ComparisonType = iota
	NotEqual
	GreaterThan
	LessThan
	GreaterThanOrEqual
	LessThanOrEqual
)

func (c ComparisonType) String() string {
	switch c {
	case Equal:
		return "="
	case NotEqual:
		return "!="
	case GreaterThan:
		return ">"
	case LessThan:
		return "<"
	case GreaterThanOrEqual:
		return ">="
	case LessThanOrEqual:
		return "<="
	}
	return "???"
}

func (c ComparisonType) holds(cmp int) bool {
	switch c {
	case Equal:
		return cmp == 0
	case NotEqual:
		return cmp != 0
	case GreaterThan:
		return cmp > 0
	case LessThan:
		return cmp < 0
	case GreaterThanOrEqual:
		return cmp >= 0
	case LessThanOrEqual:
		return cmp <= 0
	}
	return false
}

// ComparisonPredicate compares a column against a constant. Text mode compares bytes
// lexicographically; numeric mode parses both sides as decimals. A row without the
// column, or (in numeric mode) with a non-numeric value, never satisfies the predicate.
type ComparisonPredicate struct {
	column   string
	constant string
	compType ComparisonType
	numeric  bool
	number   float64
}

func NewComparisonPredicate(column string, compType ComparisonType, constant string) *ComparisonPredicate {
	return &ComparisonPredicate{column: column, constant: constant, compType: compType}
}

func NewNumericComparisonPredicate(column string, compType ComparisonType, constant float64) *ComparisonPredicate {
	return &ComparisonPredicate{
		column:   column,
		constant: strconv.FormatFloat(constant, 'g', -1, 64),
		compType: compType,
		numeric:  true,
		number:   constant,
	}
}

func (e *ComparisonPredicate) Eval(t storage.Tuple) bool {
	val, ok := t.Get(e.column)
	if !ok {
		return false
	}
	if !e.numeric {
		return e.compType.holds(strings.Compare(val, e.constant))
	}
	n, err := ParseNumber(val)
	if err != nil {
		return false
	}
	return e.compType.holds(compareFloats(n, e.number))
}

func (e *ComparisonPredicate) String() string {
	if e.numeric {
		return fmt.Sprintf("(%s %s %s)", e.column, e.compType.String(), e.constant)
	}
	return fmt.Sprintf("(%s %s '%s')", e.column, e.compType.String(), e.constant)
}

// ParseNumber parses a textual value as a decimal number, ignoring surrounding spaces.
// NaN and infinities are rejected so they never reach a comparison or an aggregate.
func ParseNumber(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return n, nil
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

type BinaryLogicType int

const (
	And BinaryLogicType = iota
	Or
)

func (l BinaryLogicType) String() string {
	switch l {
	case And:
		return "AND"
	case Or:
		return "OR"
	}
	return "???"
}

type BinaryLogicPredicate struct {
	left      Predicate
	right     Predicate
	logicType BinaryLogicType
}

func NewAndPredicate(left, right Predicate) *BinaryLogicPredicate {
	return &BinaryLogicPredicate{left: left, right: right, logicType: And}
}

func NewOrPredicate(left, right Predicate) *BinaryLogicPredicate {
	return &BinaryLogicPredicate{left: left, right: right, logicType: Or}
}

func (e *BinaryLogicPredicate) Eval(t storage.Tuple) bool {
	switch e.logicType {
	case And:
		return e.left.Eval(t) && e.right.Eval(t)
	case Or:
		return e.left.Eval(t) || e.right.Eval(t)
	default:
		panic("unknown logic type")
	}
}

func (e *BinaryLogicPredicate) String() string {
	return fmt.Sprintf("(%s %s %s)", e.left.String(), e.logicType.String(), e.right.String())
}

type NegationPredicate struct {
	child Predicate
}

func NewNotPredicate(child Predicate) *NegationPredicate {
	return &NegationPredicate{child: child}
}

func (e *NegationPredicate) Eval(t storage.Tuple) bool {
	return !e.child.Eval(t)
}

func (e *NegationPredicate) String() string {
	return fmt.Sprintf("!(%s)", e.child.String())
}

// LikePredicate matches a column against a SQL LIKE pattern: % matches any run of
// characters, _ matches exactly one, and a backslash escapes either wildcard.
type LikePredicate struct {
	column  string
	pattern string
	re      *regexp.Regexp
}

func NewLikePredicate(column, pattern string) *LikePredicate {
	return &LikePredicate{column: column, pattern: pattern, re: compileLike(pattern)}
}

func compileLike(pattern string) *regexp.Regexp {
	// QuoteMeta does not escape % or _, so the pattern is translated rune by rune.
	var regexPattern strings.Builder
	regexPattern.WriteString("^")
	chars := []rune(pattern)
	for i := 0; i < len(chars); i++ {
		c := chars[i]
		switch {
		case c == '\\' && i+1 < len(chars) && (chars[i+1] == '%' || chars[i+1] == '_'):
			regexPattern.WriteString(regexp.QuoteMeta(string(chars[i+1])))
			i++
		case c == '%':
			regexPattern.WriteString("(?s:.*)")
		case c == '_':
			regexPattern.WriteString("(?s:.)")
		default:
			regexPattern.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	regexPattern.WriteString("$")
	return regexp.MustCompile(regexPattern.String())
}

func (e *LikePredicate) Eval(t storage.Tuple) bool {
	val, ok := t.Get(e.column)
	return ok && e.re.MatchString(val)
}

func (e *LikePredicate) String() string {
	return fmt.Sprintf("(%s LIKE '%s')", e.column, e.pattern)
}

// ColumnsEqualPredicate joins rows whose outer and inner columns hold equal text.
type ColumnsEqualPredicate struct {
	outerColumn string
	innerColumn string
}

func NewColumnsEqualPredicate(outerColumn, innerColumn string) *ColumnsEqualPredicate {
	return &ColumnsEqualPredicate{outerColumn: outerColumn, innerColumn: innerColumn}
}

func (e *ColumnsEqualPredicate) Eval(outer, inner storage.Tuple) bool {
	a, ok := outer.Get(e.outerColumn)
	if !ok {
		return false
	}
	b, ok := inner.Get(e.innerColumn)
	return ok && a == b
}

func (e *ColumnsEqualPredicate) String() string {
	return fmt.Sprintf("(outer.%s = inner.%s)", e.outerColumn, e.innerColumn)
}
