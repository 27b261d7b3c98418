// Package player drives an interpreter in real time: it advances the
// clock, delivers click and idle events, and shows the current frame on a
// Sink.
package player

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/you-not-fish/gizmo/internal/frame"
	"github.com/you-not-fish/gizmo/internal/interp"
)

// DefaultTick is the update interval used when none is configured.
const DefaultTick = 16 * time.Millisecond

// Sink displays frames.
type Sink interface {
	Show(f *frame.Frame) error
}

// Options configures a Player.
type Options struct {
	Tick time.Duration
	Log  *slog.Logger
}

// Player runs the host side of a script: time, events and display.
type Player struct {
	in   *interp.Interpreter
	sink Sink
	tick time.Duration
	log  *slog.Logger

	shown    *frame.Frame
	fallback *frame.Frame

	idleMs int64          // time since the last click
	fired  map[int64]bool // idle thresholds already handled since the last click
}

// New returns a player for an interpreter that has already executed its
// script.
func New(in *interp.Interpreter, sink Sink, opts Options) *Player {
	p := &Player{
		in:    in,
		sink:  sink,
		tick:  opts.Tick,
		log:   opts.Log,
		fired: make(map[int64]bool),
	}
	if p.tick <= 0 {
		p.tick = DefaultTick
	}
	if p.log == nil {
		p.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p
}

// Run updates the player every tick until ctx is done. Each value
// received from clicks is a click; a nil or closed channel delivers none.
func (p *Player) Run(ctx context.Context, clicks <-chan struct{}) error {
	if err := p.show(p.in.CurrentFrame()); err != nil {
		return err
	}

	t := time.NewTicker(p.tick)
	defer t.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case _, ok := <-clicks:
			if !ok {
				clicks = nil
				continue
			}
			if err := p.Click(); err != nil {
				return err
			}

		case now := <-t.C:
			delta := now.Sub(last).Milliseconds()
			last = last.Add(time.Duration(delta) * time.Millisecond)
			if err := p.Step(delta); err != nil {
				return err
			}
		}
	}
}

// Step advances time by deltaMs. Idle handlers whose threshold has been
// reached since the last click run once, in increasing threshold order,
// before playback advances.
func (p *Player) Step(deltaMs int64) error {
	p.idleMs += deltaMs
	for _, ms := range p.in.IdleThresholds() {
		if ms > p.idleMs || p.fired[ms] {
			continue
		}
		p.fired[ms] = true
		if err := p.in.HandleIdleEvent(ms); err != nil {
			p.log.Error("idle handler failed", "threshold_ms", ms, "err", err)
		}
	}
	return p.show(p.in.Update(deltaMs))
}

// Click delivers a click, resets the idle time and shows the resulting
// frame.
func (p *Player) Click() error {
	p.idleMs = 0
	clear(p.fired)
	if err := p.in.HandleClickEvent(); err != nil {
		p.log.Error("click handler failed", "err", err)
	}
	return p.show(p.in.CurrentFrame())
}

// IdleMs returns the time since the last click.
func (p *Player) IdleMs() int64 {
	return p.idleMs
}

// show sends f to the sink unless it is already showing. Without a frame
// the default smiley is shown.
func (p *Player) show(f *frame.Frame, ok bool) error {
	if !ok {
		if p.fallback == nil {
			p.fallback = frame.Smiley()
		}
		f = p.fallback
	}
	if f == p.shown {
		return nil
	}
	p.shown = f
	return p.sink.Show(f)
}
