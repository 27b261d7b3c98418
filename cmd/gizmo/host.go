package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/you-not-fish/gizmo/internal/daemon"
	"github.com/you-not-fish/gizmo/internal/export"
	"github.com/you-not-fish/gizmo/internal/frame"
	"github.com/you-not-fish/gizmo/internal/interp"
	"github.com/you-not-fish/gizmo/internal/player"
)

// loadForPlayback executes filename for a host that keeps going when the
// script fails: the error is logged and the player falls back to whatever
// frames exist, or the smiley.
func (h *host) loadForPlayback(filename string, out io.Writer) *interp.Interpreter {
	in, err := h.load(filename, out)
	if err != nil {
		h.log.Error("script failed", "file", filename, "err", err)
	}
	return in
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// cmdPlay plays a script in the terminal. Each line on stdin is a click.
func cmdPlay(args []string) int {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	style := fs.String("style", "", "Frame style (auto, ascii or blocks; default from config)")
	tick := fs.Duration("tick", 0, "Update interval (default from config)")
	limit := fs.Duration("for", 0, "Stop after this long (0 plays until interrupted)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gizmo play [-style s] [-tick d] [-for d] <file.gzmo>")
		return 2
	}

	h, err := newHost(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if *style == "" {
		*style = h.cfg.Style
	}
	st, err := player.ResolveStyle(*style, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if *tick <= 0 {
		*tick = time.Duration(h.cfg.TickMs) * time.Millisecond
	}

	in := h.loadForPlayback(fs.Arg(0), os.Stderr)

	ctx, stop := signalContext()
	defer stop()
	if *limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *limit)
		defer cancel()
	}

	sink := &player.TermSink{
		W:        os.Stdout,
		Style:    st,
		MaxWidth: h.cfg.MaxWidth,
		Clear:    player.IsTerminal(os.Stdout),
	}
	p := player.New(in, sink, player.Options{Tick: *tick, Log: h.log})
	if err := p.Run(ctx, player.LineClicks(ctx, os.Stdin)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// cmdServe is the background player started by "gizmo start". It renders
// into the state directory's frame file until terminated.
func cmdServe(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: gizmo serve <file.gzmo>")
		return 2
	}

	h, err := newHost(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	st, err := player.ResolveStyle(h.cfg.Style, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	mgr := h.manager()
	in := h.loadForPlayback(args[0], io.Discard)

	ctx, stop := signalContext()
	defer stop()

	h.log.Info("serving", "file", args[0], "pid", os.Getpid(), "frames", mgr.FramePath())
	sink := &player.FileSink{Path: mgr.FramePath(), Style: st}
	p := player.New(in, sink, player.Options{
		Tick: time.Duration(h.cfg.TickMs) * time.Millisecond,
		Log:  h.log,
	})
	if err := p.Run(ctx, nil); err != nil {
		h.log.Error("player failed", "err", err)
		return 1
	}
	h.log.Info("shutting down")
	return 0
}

// cmdExport writes a script's frames as an image file.
func cmdExport(args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	output := fs.String("o", "", "Output file, .gif or .png (default: script name with .gif)")
	scale := fs.Int("scale", 0, "Image pixels per frame pixel (default from config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gizmo export [-o file] [-scale n] <file.gzmo>")
		return 2
	}
	filename := fs.Arg(0)

	h, err := newHost(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if *output == "" {
		*output = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".gif"
	}
	if *scale <= 0 {
		*scale = h.cfg.ExportScale
	}

	in := h.loadForPlayback(filename, io.Discard)
	frames := in.AnimationFrames()
	if len(frames) == 0 {
		h.log.Warn("script produced no frames, exporting the default frame")
		frames = []*frame.Frame{frame.Smiley()}
	}

	loop := in.Animation() != nil && in.Animation().Loop()
	n, err := export.WriteFile(*output, frames, export.Options{
		Scale:      *scale,
		DurationMs: in.FrameDurationMs(),
		Loop:       loop,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("wrote %s (%d %s, %s)\n", *output, len(frames), plural(len(frames), "frame"), humanize.Bytes(uint64(n)))
	return 0
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func (h *host) manager() *daemon.Manager {
	return &daemon.Manager{Dir: h.dir, Log: h.log}
}

func cmdStart(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: gizmo start <file.gzmo>")
		return 2
	}
	h, err := newHost(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	st, err := h.manager().Start(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("started %s (pid %d)\n", st.File, st.PID)
	return 0
}

func cmdStop(args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "usage: gizmo stop")
		return 2
	}
	h, err := newHost(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if err := h.manager().Stop(context.Background()); err != nil {
		if errors.Is(err, daemon.ErrNotRunning) {
			fmt.Println("not running")
			return 1
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Println("stopped")
	return 0
}

func cmdRestart(args []string) int {
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "usage: gizmo restart [file.gzmo]")
		return 2
	}
	h, err := newHost(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	var file string
	if len(args) == 1 {
		file = args[0]
	}
	st, err := h.manager().Restart(context.Background(), file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("restarted %s (pid %d)\n", st.File, st.PID)
	return 0
}

func cmdStatus(args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "usage: gizmo status")
		return 2
	}
	h, err := newHost(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	mgr := h.manager()
	st, running, err := mgr.Status()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if !running {
		fmt.Println("not running")
		return 0
	}
	fmt.Printf("running %s\n", st.File)
	fmt.Printf("  pid:     %d\n", st.PID)
	fmt.Printf("  started: %s\n", humanize.Time(st.Started))
	fmt.Printf("  frame:   %s\n", mgr.FramePath())
	fmt.Printf("  log:     %s\n", mgr.LogPath())
	return 0
}
