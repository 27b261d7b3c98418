package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/you-not-fish/gizmo/internal/frame"
	"github.com/you-not-fish/gizmo/internal/interp"
	"github.com/you-not-fish/gizmo/internal/syntax"
	"github.com/you-not-fish/gizmo/internal/value"
)

const (
	historyFile = ".gizmo_history"
	promptMain  = "gizmo> "
	promptCont  = "  ...> "
)

const replHelp = `:click          deliver a click
:idle <ms>      deliver an idle event
:frame          show the current frame
:frames         list the playing frames
:globals        list global names
:quit           exit`

// session is the state behind the interactive prompt.
type session struct {
	in    *interp.Interpreter
	out   io.Writer
	errw  io.Writer
	style frame.Style
}

// handle runs one complete input. It reports false when the session should
// end.
func (s *session) handle(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return true
	}
	if strings.HasPrefix(code, ":") {
		return s.command(code)
	}

	v, err := s.in.Eval(code)
	if err != nil {
		fmt.Fprintf(s.errw, "error: %v\n", err)
		return true
	}
	if v != nil {
		fmt.Fprintln(s.out, describe(v))
	}
	return true
}

func (s *session) command(code string) bool {
	fields := strings.Fields(strings.ToLower(code))
	switch fields[0] {
	case ":quit", ":q":
		return false
	case ":help":
		fmt.Fprintln(s.out, replHelp)
	case ":click":
		if err := s.in.HandleClickEvent(); err != nil {
			fmt.Fprintf(s.errw, "error: %v\n", err)
		}
	case ":idle":
		if len(fields) != 2 {
			fmt.Fprintln(s.errw, "usage: :idle <ms>")
			break
		}
		ms, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || ms < 0 {
			fmt.Fprintf(s.errw, "error: bad idle time %q\n", fields[1])
			break
		}
		if err := s.in.HandleIdleEvent(ms); err != nil {
			fmt.Fprintf(s.errw, "error: %v\n", err)
		}
	case ":frame":
		f, ok := s.in.CurrentFrame()
		if !ok {
			fmt.Fprintln(s.out, "no frame")
			break
		}
		frame.Fprint(s.out, f, s.style)
	case ":frames":
		frames := s.in.AnimationFrames()
		if len(frames) == 0 {
			fmt.Fprintln(s.out, "no frames")
			break
		}
		frame.FprintAll(s.out, frames, s.style)
	case ":globals":
		for _, name := range s.in.Globals() {
			v, _ := s.in.Global(name)
			fmt.Fprintf(s.out, "%-12s %s\n", name, value.Format(v))
		}
	default:
		fmt.Fprintf(s.errw, "unknown command %s. Type :help for a list.\n", fields[0])
	}
	return true
}

// complete offers keywords, builtins and global names for the word under
// the cursor.
func (s *session) complete(line string, pos int) (head string, completions []string, tail string) {
	start := pos
	for start > 0 && isWordByte(line[start-1]) {
		start--
	}
	head, word, tail := line[:start], line[start:pos], line[pos:]
	if word == "" {
		return head, nil, tail
	}

	seen := map[string]bool{}
	for _, set := range [][]string{syntax.Keywords(), interp.BuiltinNames(), s.in.Globals()} {
		for _, c := range set {
			if strings.HasPrefix(c, word) && !seen[c] {
				seen[c] = true
				completions = append(completions, c)
			}
		}
	}
	sort.Strings(completions)
	return head, completions, tail
}

func isWordByte(b byte) bool {
	return b == '_' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9'
}

func cmdRepl(args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "usage: gizmo repl")
		return 2
	}
	h, err := newHost(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	st, err := frameStyle(h.cfg.Style)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Printf("Gizmo %s. Type :help for commands, :quit to exit.\n", Version)

	s := &session{
		in:    interp.New(h.options(os.Stdout)...),
		out:   os.Stdout,
		errw:  os.Stderr,
		style: st,
	}

	histPath := filepath.Join(h.dir, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetWordCompleter(s.complete)

	defer func() {
		if err := os.MkdirAll(h.dir, 0o755); err != nil {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}
		if !s.handle(code) {
			return 0
		}
		if strings.TrimSpace(code) != "" {
			ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		}
	}
}

// frameStyle picks a concrete style for the REPL, which always writes to
// the terminal it runs in.
func frameStyle(name string) (frame.Style, error) {
	if name == "auto" {
		name = "blocks"
	}
	st, ok := frame.StyleByName(name)
	if !ok {
		return st, fmt.Errorf("unknown style %q", name)
	}
	return st, nil
}

// readByParseProbe reads lines until they parse, or fail to parse for a
// reason other than missing input. Ctrl-C discards the pending input.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !needsMore(src) {
			return src, true
		}
	}
}

// needsMore reports whether src is an unfinished statement.
func needsMore(src string) bool {
	_, err := syntax.ParseString(src)
	return syntax.IsIncomplete(err)
}
