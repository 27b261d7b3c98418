// Package interp implements the tree-walking interpreter for Gizmo scripts.
//
// An Interpreter owns a persistent global scope, the registered event
// handlers, the output frames and the playback state. The host drives it:
// Execute runs a parsed script once, Update advances playback by a time
// delta, and HandleClickEvent/HandleIdleEvent run stored handler bodies.
// An Interpreter is not safe for concurrent use.
package interp

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/you-not-fish/gizmo/internal/frame"
	"github.com/you-not-fish/gizmo/internal/syntax"
	"github.com/you-not-fish/gizmo/internal/value"
)

// Interpreter executes Gizmo programs.
type Interpreter struct {
	env *Env
	cur int // active scope

	handlers map[string]*syntax.BlockStmt

	output   []*frame.Frame
	anim     *frame.Animation
	duration int64 // ms per frame for the next play/loop
	clock    int64 // ms

	out io.Writer
	log *slog.Logger
	rng *rand.Rand
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets the writer used by print. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithLogger sets the logger for debug events. Nothing is logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) { in.log = l }
}

// WithSeed makes random() deterministic.
func WithSeed(seed uint64) Option {
	return func(in *Interpreter) { in.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithClock sets the starting clock value in milliseconds. The default is
// the current Unix time.
func WithClock(ms int64) Option {
	return func(in *Interpreter) { in.clock = ms }
}

// WithDuration sets the frame duration play and loop use until a script
// changes it.
func WithDuration(ms int64) Option {
	return func(in *Interpreter) { in.duration = frame.ClampDuration(ms) }
}

// New returns an Interpreter with an empty global scope.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		env:      newEnv(),
		cur:      globalScope,
		handlers: make(map[string]*syntax.BlockStmt),
		duration: frame.DefaultDuration,
		clock:    time.Now().UnixMilli(),
		out:      os.Stdout,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.env.define(globalScope, "true", value.True)
	in.env.define(globalScope, "false", value.False)
	return in
}

// Execute runs the top-level statements of prog in order. The first error
// stops execution; state changed by earlier statements is kept. A
// top-level return ends the program without error.
func (in *Interpreter) Execute(prog *syntax.Program) error {
	_, err := in.execStmts(prog.Stmts)
	return err
}

// Eval parses and runs src against the global scope and returns the value
// of its last expression statement, or nil if there is none.
func (in *Interpreter) Eval(src string) (value.Value, error) {
	prog, err := syntax.Parse("", strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	var last value.Value
	for _, s := range prog.Stmts {
		if es, ok := s.(*syntax.ExprStmt); ok {
			v, err := in.eval(es.X)
			if err != nil {
				return nil, err
			}
			last = v
			continue
		}
		last = nil
		o, err := in.exec(s)
		if err != nil {
			return nil, err
		}
		if o.returned {
			return o.value, nil
		}
	}
	return last, nil
}

// ----------------------------------------------------------------------------
// Host surface

// AnimationFrames returns the frames most recently passed to play or loop.
func (in *Interpreter) AnimationFrames() []*frame.Frame {
	return in.output
}

// CurrentFrame returns the frame playback is showing, or the first output
// frame when nothing is playing.
func (in *Interpreter) CurrentFrame() (*frame.Frame, bool) {
	if in.anim != nil {
		if f, ok := in.anim.Current(); ok {
			return f, true
		}
	}
	if len(in.output) > 0 {
		return in.output[0], true
	}
	return nil, false
}

// FrameDurationMs returns the per-frame playback duration.
func (in *Interpreter) FrameDurationMs() int64 {
	if in.anim != nil {
		return in.anim.DurationMs()
	}
	return in.duration
}

// Update advances the clock by deltaMs and playback by at most one frame.
// It returns the frame now showing, if any.
func (in *Interpreter) Update(deltaMs int64) (*frame.Frame, bool) {
	in.clock += deltaMs
	if in.anim == nil {
		return in.CurrentFrame()
	}
	return in.anim.Update(in.clock)
}

// Playing reports whether an animation is active.
func (in *Interpreter) Playing() bool {
	return in.anim != nil
}

// Animation returns the active playback state, or nil.
func (in *Interpreter) Animation() *frame.Animation {
	return in.anim
}

// Global returns the value bound to name in the global scope.
func (in *Interpreter) Global(name string) (value.Value, bool) {
	v, ok := in.env.scopes[globalScope].vars[name]
	return v, ok
}

// Globals returns the names bound in the global scope, sorted.
func (in *Interpreter) Globals() []string {
	return in.env.names(globalScope)
}

// Clock returns the interpreter clock in milliseconds.
func (in *Interpreter) Clock() int64 {
	return in.clock
}
