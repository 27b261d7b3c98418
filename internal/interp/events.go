package interp

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/you-not-fish/gizmo/internal/syntax"
	"github.com/you-not-fish/gizmo/internal/value"
)

const (
	clickedKey = "clicked"
	idlePrefix = "idle_"
)

func idleKey(ms int64) string {
	return idlePrefix + strconv.FormatInt(ms, 10)
}

// execWhen stores the handler body. It does not run it.
func (in *Interpreter) execWhen(s *syntax.WhenStmt) error {
	key := clickedKey
	if s.Event == syntax.EventIdle {
		v, err := in.eval(s.Idle)
		if err != nil {
			return err
		}
		n, err := value.ToNumber(v)
		if err != nil {
			return at(typeErrorf("idle threshold: %v", err), s.Idle.Pos())
		}
		n = math.Trunc(n)
		if math.IsNaN(n) || math.Abs(n) > maxInt {
			return at(errorf(RuntimeError, "idle threshold %s is out of range", value.FormatNumber(n)), s.Idle.Pos())
		}
		key = idleKey(int64(n))
	}
	in.handlers[key] = s.Body
	in.log.Debug("handler registered", "event", key)
	return nil
}

// HandleClickEvent runs the clicked handler, if one is registered.
func (in *Interpreter) HandleClickEvent() error {
	return in.runHandler(clickedKey)
}

// HandleIdleEvent runs the handler registered for exactly ms of idle
// time, if any.
func (in *Interpreter) HandleIdleEvent(ms int64) error {
	return in.runHandler(idleKey(ms))
}

func (in *Interpreter) runHandler(key string) error {
	body, ok := in.handlers[key]
	if !ok {
		return nil
	}
	in.log.Debug("handler run", "event", key)

	saved := in.cur
	in.cur = globalScope
	defer func() { in.cur = saved }()

	_, err := in.execStmts(body.Stmts)
	return err
}

// HasClickHandler reports whether a clicked handler is registered.
func (in *Interpreter) HasClickHandler() bool {
	_, ok := in.handlers[clickedKey]
	return ok
}

// IdleThresholds returns the idle times with a registered handler, in
// increasing order.
func (in *Interpreter) IdleThresholds() []int64 {
	var ms []int64
	for key := range in.handlers {
		if rest, ok := strings.CutPrefix(key, idlePrefix); ok {
			if n, err := strconv.ParseInt(rest, 10, 64); err == nil {
				ms = append(ms, n)
			}
		}
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i] < ms[j] })
	return ms
}
