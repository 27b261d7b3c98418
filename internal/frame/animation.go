package frame

// Duration bounds for playback, in milliseconds.
const (
	MinDuration     int64 = 1
	MaxDuration     int64 = 10000
	DefaultDuration int64 = 100
)

// DurationFromMs converts a script number to a clamped duration. Values
// outside the int64 range and NaN clamp like any other out-of-range value.
func DurationFromMs(ms float64) int64 {
	switch {
	case !(ms >= float64(MinDuration)):
		return MinDuration
	case ms > float64(MaxDuration):
		return MaxDuration
	}
	return ClampDuration(int64(ms))
}

// ClampDuration limits ms to [MinDuration, MaxDuration].
func ClampDuration(ms int64) int64 {
	if ms < MinDuration {
		return MinDuration
	}
	if ms > MaxDuration {
		return MaxDuration
	}
	return ms
}

// Animation tracks playback through a frame sequence. It only moves when
// Update is called.
type Animation struct {
	frames   []*Frame
	loop     bool
	duration int64 // per-frame duration in ms
	index    int
	last     int64 // clock value of the last advance
}

// NewAnimation starts playback of frames at clock value nowMs.
func NewAnimation(frames []*Frame, loop bool, durationMs, nowMs int64) *Animation {
	return &Animation{
		frames:   frames,
		loop:     loop,
		duration: ClampDuration(durationMs),
		last:     nowMs,
	}
}

// Update advances by at most one frame when a full frame duration has
// elapsed since the last advance. At the end of the sequence it wraps when
// looping and stays on the last frame otherwise. It returns the current
// frame, if any.
func (a *Animation) Update(nowMs int64) (*Frame, bool) {
	if len(a.frames) == 0 {
		return nil, false
	}
	if nowMs-a.last >= a.duration {
		a.last = nowMs
		switch {
		case a.index+1 < len(a.frames):
			a.index++
		case a.loop:
			a.index = 0
		}
	}
	return a.frames[a.index], true
}

// Current returns the frame at the current index.
func (a *Animation) Current() (*Frame, bool) {
	if len(a.frames) == 0 {
		return nil, false
	}
	return a.frames[a.index], true
}

// Reset rewinds to the first frame at clock value nowMs.
func (a *Animation) Reset(nowMs int64) {
	a.index = 0
	a.last = nowMs
}

// Finished reports whether a non-looping animation sits on its last frame.
func (a *Animation) Finished() bool {
	return !a.loop && a.index >= len(a.frames)-1
}

func (a *Animation) Index() int        { return a.index }
func (a *Animation) Len() int          { return len(a.frames) }
func (a *Animation) Loop() bool        { return a.loop }
func (a *Animation) DurationMs() int64 { return a.duration }
func (a *Animation) Frames() []*Frame  { return a.frames }
