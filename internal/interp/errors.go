package interp

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/you-not-fish/gizmo/internal/frame"
	"github.com/you-not-fish/gizmo/internal/syntax"
)

// ErrorKind classifies runtime failures.
type ErrorKind uint8

const (
	RuntimeError ErrorKind = iota
	TypeError
	IndexError
	DivisionByZero
	InvalidFrame
	UndefinedVariable
	UndefinedFunction
	ArgumentError
)

var errorKindNames = [...]string{
	RuntimeError:      "runtime error",
	TypeError:         "type error",
	IndexError:        "index error",
	DivisionByZero:    "division by zero",
	InvalidFrame:      "invalid frame",
	UndefinedVariable: "undefined variable",
	UndefinedFunction: "undefined function",
	ArgumentError:     "argument error",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Error is a failure raised while executing a script.
type Error struct {
	Kind ErrorKind
	Msg  string     // detail, may be empty
	Name string     // offending identifier for the Undefined kinds
	Pos  syntax.Pos // position of the failing node, if known
	Hint string     // closest known name, if any
}

func (e *Error) Error() string {
	var s string
	switch {
	case e.Kind == UndefinedVariable || e.Kind == UndefinedFunction:
		s = fmt.Sprintf("%s: %s", e.Kind, e.Name)
		if e.Hint != "" {
			s += fmt.Sprintf(" (did you mean %s?)", e.Hint)
		}
	case e.Msg == "":
		s = e.Kind.String()
	default:
		s = fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + s
	}
	return s
}

// KindOf returns the kind of a runtime error, or false if err is not one.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func typeErrorf(format string, args ...interface{}) *Error {
	return errorf(TypeError, format, args...)
}

func argErrorf(format string, args ...interface{}) *Error {
	return errorf(ArgumentError, format, args...)
}

// fromFrame converts a frame package error into a runtime error.
func fromFrame(err error) error {
	var fe *frame.Error
	if !errors.As(err, &fe) {
		return err
	}
	if fe.Kind == frame.Bounds {
		return errorf(IndexError, "%s", fe.Msg)
	}
	return errorf(InvalidFrame, "%s", fe.Msg)
}

// at attaches pos to err if it is a runtime error without a position.
func at(err error, pos syntax.Pos) error {
	var e *Error
	if errors.As(err, &e) && !e.Pos.IsValid() {
		e.Pos = pos
	}
	return err
}

// Suggest returns the candidate that best matches name, or "". A fuzzy
// subsequence match wins; otherwise the nearest name within edit distance 2.
func Suggest(name string, candidates []string) string {
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", 3
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
