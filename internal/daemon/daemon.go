// Package daemon manages the detached background player.
//
// A running player is described by a state file in the state directory.
// The file records the player's process id, the script it plays and when
// it started. Start refuses to launch a second player while the recorded
// process is alive; Status and Start discard state left behind by a
// process that has exited.
package daemon

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Files inside the state directory.
const (
	StateFile = "state.yaml"
	FrameFile = "frame.txt"
	LogFile   = "gizmo.log"
)

// ScriptExt is the extension Start requires.
const ScriptExt = ".gzmo"

var (
	ErrNotRunning     = errors.New("no background player is running")
	ErrAlreadyRunning = errors.New("a background player is already running")
)

// State describes a running background player.
type State struct {
	PID     int       `yaml:"pid"`
	File    string    `yaml:"file"`
	Started time.Time `yaml:"started"`
}

// Manager starts and stops the background player for one state
// directory.
type Manager struct {
	Dir string

	// Exe is the program to launch. It is run as "Exe serve FILE" and
	// defaults to the running executable.
	Exe string

	// StopTimeout bounds how long Stop waits for the player to exit
	// before killing it.
	StopTimeout time.Duration

	Log *slog.Logger
}

func (m *Manager) logger() *slog.Logger {
	if m.Log != nil {
		return m.Log
	}
	return slog.Default()
}

// FramePath is where the background player renders its current frame.
func (m *Manager) FramePath() string { return filepath.Join(m.Dir, FrameFile) }

// LogPath is the background player's log file.
func (m *Manager) LogPath() string { return filepath.Join(m.Dir, LogFile) }

func (m *Manager) statePath() string { return filepath.Join(m.Dir, StateFile) }

// ReadState returns the recorded state. ok is false when there is none.
func (m *Manager) ReadState() (st State, ok bool, err error) {
	data, err := os.ReadFile(m.statePath())
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, errors.Wrap(err, "read state")
	}
	if err := yaml.Unmarshal(data, &st); err != nil {
		return State{}, false, errors.Wrapf(err, "parse %s", m.statePath())
	}
	return st, true, nil
}

// WriteState records st.
func (m *Manager) WriteState(st State) error {
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return errors.Wrap(err, "create state directory")
	}
	data, err := yaml.Marshal(&st)
	if err != nil {
		return errors.Wrap(err, "encode state")
	}
	return errors.Wrap(os.WriteFile(m.statePath(), data, 0o644), "write state")
}

// ClearState removes the state file. A missing file is not an error.
func (m *Manager) ClearState() error {
	err := os.Remove(m.statePath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return errors.Wrap(err, "remove state")
}

// Status returns the state of the running player. A state file whose
// process has exited is removed and reported as not running.
func (m *Manager) Status() (State, bool, error) {
	st, ok, err := m.ReadState()
	if err != nil || !ok {
		return State{}, false, err
	}
	if !alive(st.PID) {
		m.logger().Debug("discarding stale state", "pid", st.PID)
		return State{}, false, m.ClearState()
	}
	return st, true, nil
}

// Start launches a detached player for file.
func (m *Manager) Start(file string) (State, error) {
	if !strings.EqualFold(filepath.Ext(file), ScriptExt) {
		return State{}, errors.Errorf("%s: not a %s script", file, ScriptExt)
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return State{}, errors.Wrap(err, "resolve script path")
	}
	if _, err := os.Stat(abs); err != nil {
		return State{}, errors.Wrap(err, "script")
	}

	if _, running, err := m.Status(); err != nil {
		return State{}, err
	} else if running {
		return State{}, ErrAlreadyRunning
	}

	exe := m.Exe
	if exe == "" {
		if exe, err = os.Executable(); err != nil {
			return State{}, errors.Wrap(err, "locate executable")
		}
	}

	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return State{}, errors.Wrap(err, "create state directory")
	}
	logf, err := os.OpenFile(m.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return State{}, errors.Wrap(err, "open log")
	}
	defer logf.Close()

	cmd := exec.Command(exe, "serve", abs)
	cmd.Dir = filepath.Dir(abs)
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.SysProcAttr = detached()
	if err := cmd.Start(); err != nil {
		return State{}, errors.Wrap(err, "spawn player")
	}

	st := State{PID: cmd.Process.Pid, File: abs, Started: time.Now().Truncate(time.Second)}
	if err := m.WriteState(st); err != nil {
		_ = cmd.Process.Kill()
		return State{}, err
	}
	m.logger().Info("player started", "pid", st.PID, "file", st.File)
	return st, cmd.Process.Release()
}

// Stop terminates the running player and removes the state file.
func (m *Manager) Stop(ctx context.Context) error {
	st, running, err := m.Status()
	if err != nil {
		return err
	}
	if !running {
		return ErrNotRunning
	}

	proc, err := os.FindProcess(st.PID)
	if err != nil {
		return errors.Wrapf(err, "find process %d", st.PID)
	}
	if err := terminate(proc); err != nil {
		return errors.Wrapf(err, "signal process %d", st.PID)
	}

	timeout := m.StopTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for alive(st.PID) {
		select {
		case <-ctx.Done():
			m.logger().Warn("player did not exit, killing it", "pid", st.PID)
			if err := proc.Kill(); err != nil {
				return errors.Wrapf(err, "kill process %d", st.PID)
			}
			return m.ClearState()
		case <-tick.C:
		}
	}

	m.logger().Info("player stopped", "pid", st.PID)
	return m.ClearState()
}

// Restart stops the running player, if any, and starts a new one. An
// empty file restarts the script that was playing.
func (m *Manager) Restart(ctx context.Context, file string) (State, error) {
	prev, running, err := m.Status()
	if err != nil {
		return State{}, err
	}
	if file == "" {
		if !running {
			return State{}, errors.Wrap(ErrNotRunning, "restart needs a script")
		}
		file = prev.File
	}
	if running {
		if err := m.Stop(ctx); err != nil && !errors.Is(err, ErrNotRunning) {
			return State{}, err
		}
	}
	return m.Start(file)
}
