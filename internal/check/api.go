// Package check finds mistakes in Gizmo programs without running them.
//
// Gizmo is dynamically typed, so the checker only reports what is certain
// to fail when the code runs: calls to unknown functions, wrong argument
// counts, names that are never bound, constant division by zero, and
// declarations or operands whose kind is known statically and wrong.
package check

import (
	"github.com/you-not-fish/gizmo/internal/syntax"
	"github.com/you-not-fish/gizmo/internal/value"
)

// Config specifies the configuration for checking.
type Config struct {
	// Error is called for each problem found.
	// If nil, problems are only counted.
	Error ErrorHandler
}

// Info holds the results of checking.
type Info struct {
	// Kinds maps expressions to the value kind they are known to produce.
	// Expressions whose kind depends on runtime state are absent.
	Kinds map[syntax.Expr]value.Kind
}

// Check inspects prog and returns the first problem found, or nil. Every
// problem is also passed to conf.Error. info may be nil.
func Check(prog *syntax.Program, conf *Config, info *Info) error {
	if conf == nil {
		conf = &Config{}
	}
	c := &Checker{
		conf:  conf,
		info:  info,
		bound: make(map[string]bool),
	}
	c.checkProgram(prog)
	if c.first == nil {
		return nil
	}
	return c.first
}
