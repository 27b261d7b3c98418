package check

import (
	"fmt"

	"github.com/you-not-fish/gizmo/internal/syntax"
)

// Error is a problem found by the checker.
type Error struct {
	Pos syntax.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ErrorHandler is called for each problem.
type ErrorHandler func(pos syntax.Pos, msg string)

func (c *Checker) errorf(pos syntax.Pos, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	if c.errors == 0 {
		c.first = &Error{Pos: pos, Msg: msg}
	}
	c.errors++

	if c.conf.Error != nil {
		c.conf.Error(pos, msg)
	}
}

// withHint appends a suggestion to msg when there is one.
func withHint(msg, hint string) string {
	if hint == "" {
		return msg
	}
	return fmt.Sprintf("%s (did you mean %s?)", msg, hint)
}
