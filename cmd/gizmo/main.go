// Package main implements the gizmo command.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/you-not-fish/gizmo/internal/check"
	"github.com/you-not-fish/gizmo/internal/config"
	"github.com/you-not-fish/gizmo/internal/frame"
	"github.com/you-not-fish/gizmo/internal/interp"
	"github.com/you-not-fish/gizmo/internal/syntax"
	"github.com/you-not-fish/gizmo/internal/value"
)

// Global flags
var (
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST    = flag.Bool("emit-ast", false, "Output AST")
	astFormat  = flag.String("ast-format", "text", "AST output format (text or json)")
	version    = flag.Bool("version", false, "Print version")
	verbose    = flag.Bool("v", false, "Log debug detail to stderr")
	stateDir   = flag.String("state-dir", "", "State directory (default $GIZMO_HOME or the user config directory)")
)

// Version information
const Version = "0.1.0-dev"

const usageText = `Usage: gizmo [options] <command> [arguments]

Commands:
  run <file.gzmo>        Execute a script and print its frames
  check <file.gzmo>...   Report mistakes without running
  play <file.gzmo>       Play a script in the terminal (Enter clicks, Ctrl-C quits)
  export <file.gzmo>     Write the script's frames as a GIF or PNG
  repl                   Interactive session
  start <file.gzmo>      Start the background player
  stop                   Stop the background player
  restart [file.gzmo]    Restart the background player
  status                 Show the background player

A bare <file.gzmo> is the same as "run <file.gzmo>".

Options:
`

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Gizmo %s\n\n", Version)
		fmt.Fprint(os.Stderr, usageText)
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("gizmo version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no command or input file")
		fmt.Fprintln(os.Stderr, "usage: gizmo [options] <command> [arguments]")
		os.Exit(1)
	}

	// Handle -emit-tokens
	if *emitTokens {
		os.Exit(runEmitTokens(args[0]))
	}

	// Handle -emit-ast
	if *emitAST {
		os.Exit(runEmitAST(args[0]))
	}

	os.Exit(dispatch(args))
}

func dispatch(args []string) int {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "run":
		return cmdRun(rest)
	case "check":
		return cmdCheck(rest)
	case "play":
		return cmdPlay(rest)
	case "serve":
		return cmdServe(rest)
	case "export":
		return cmdExport(rest)
	case "repl":
		return cmdRepl(rest)
	case "start":
		return cmdStart(rest)
	case "stop":
		return cmdStop(rest)
	case "restart":
		return cmdRestart(rest)
	case "status":
		return cmdStatus(rest)
	case "help":
		flag.Usage()
		return 0
	}
	if strings.HasSuffix(cmd, ".gzmo") {
		return cmdRun(args)
	}
	fmt.Fprintf(os.Stderr, "error: unknown command %q\n", cmd)
	return 2
}

// host is the configuration shared by every command.
type host struct {
	dir string
	cfg config.Config
	log *slog.Logger
}

// newHost resolves the state directory and loads its configuration. A
// broken configuration file is reported and replaced by the defaults.
func newHost(logOut io.Writer) (*host, error) {
	dir := *stateDir
	if dir == "" {
		var err error
		if dir, err = config.Dir(); err != nil {
			return nil, err
		}
	}

	cfg, cfgErr := config.Load(dir)
	level, _ := cfg.Level()
	if *verbose {
		level = slog.LevelDebug
	}
	h := &host{
		dir: dir,
		cfg: cfg,
		log: slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level})),
	}
	if cfgErr != nil {
		h.log.Warn("using default configuration", "err", cfgErr)
	}
	return h, nil
}

// options returns the interpreter options for the configuration.
func (h *host) options(out io.Writer) []interp.Option {
	opts := []interp.Option{
		interp.WithOutput(out),
		interp.WithLogger(h.log),
		interp.WithDuration(h.cfg.DurationMs),
	}
	if h.cfg.Seed != 0 {
		opts = append(opts, interp.WithSeed(h.cfg.Seed))
	}
	return opts
}

// load parses and executes filename. The interpreter is returned even
// when execution fails, holding the state reached before the error.
func (h *host) load(filename string, out io.Writer) (*interp.Interpreter, error) {
	in := interp.New(h.options(out)...)

	f, err := os.Open(filename)
	if err != nil {
		return in, err
	}
	defer f.Close()

	prog, err := syntax.Parse(filename, f)
	if err != nil {
		return in, err
	}
	h.log.Debug("parsed", "file", filename, "statements", len(prog.Stmts))
	return in, in.Execute(prog)
}

// cmdRun executes a script, prints its frames and exits.
func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	style := fs.String("style", "ascii", "Frame style (ascii or blocks)")
	clicks := fs.Int("clicks", 0, "Deliver N clicks before printing")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gizmo run [-style s] [-clicks n] <file.gzmo>")
		return 2
	}
	st, ok := frame.StyleByName(*style)
	if !ok {
		fmt.Fprintf(os.Stderr, "error: unknown style %q\n", *style)
		return 2
	}

	h, err := newHost(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	in, err := h.load(fs.Arg(0), os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	for i := 0; i < *clicks; i++ {
		if err := in.HandleClickEvent(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}

	if err := frame.FprintAll(os.Stdout, in.AnimationFrames(), st); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// cmdCheck parses and checks each file, reporting every problem found.
func cmdCheck(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: gizmo check <file.gzmo>...")
		return 2
	}

	code := 0
	for _, filename := range args {
		errh := func(pos syntax.Pos, msg string) {
			fmt.Fprintf(os.Stderr, "%s: %s\n", pos, msg)
			code = 1
		}

		f, err := os.Open(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			code = 1
			continue
		}
		p := syntax.NewParser(filename, f, errh)
		prog := p.Parse()
		f.Close()
		if p.FirstError() != nil {
			continue
		}
		check.Check(prog, &check.Config{Error: errh}, nil)
	}
	return code
}

// runEmitAST parses the input file and outputs the AST.
func runEmitAST(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	var errs []string
	errh := func(pos syntax.Pos, msg string) {
		errs = append(errs, fmt.Sprintf("%s: %s", pos, msg))
	}

	p := syntax.NewParser(filename, f, errh)
	prog := p.Parse()

	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e)
	}

	switch *astFormat {
	case "json":
		if err := syntax.FprintJSON(os.Stdout, prog); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	default:
		syntax.Fprint(os.Stdout, prog)
	}

	if len(errs) > 0 {
		return 1
	}
	return 0
}

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	var errors []string
	errh := func(line, col uint32, msg string) {
		errors = append(errors, fmt.Sprintf("%s:%d:%d: %s", filename, line, col, msg))
	}

	s := syntax.NewScanner(filename, f, errh)

	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Printf("%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))

	for {
		s.Next()
		tok := s.Token()
		fmt.Printf("%-20s %-12s %s\n", s.Pos(), tok, formatLiteral(s.Literal()))
		if tok.IsEOF() {
			break
		}
	}

	if len(errors) > 0 {
		fmt.Println()
		fmt.Println("Errors:")
		for _, e := range errors {
			fmt.Printf("  %s\n", e)
		}
		return 1
	}
	return 0
}

// formatLiteral quotes a literal for display with control characters
// escaped.
func formatLiteral(lit string) string {
	if lit == "" {
		return `""`
	}

	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// describe renders a REPL result.
func describe(v value.Value) string {
	if f, ok := v.(value.Frame); ok {
		return value.Format(v) + "\n" + strings.TrimSuffix(f.F.String(), "\n")
	}
	return value.Format(v)
}
