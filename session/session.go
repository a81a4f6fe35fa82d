// This file is part of Gopher8bit.
//
// Gopher8bit is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher8bit is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher8bit.  If not, see <https://www.gnu.org/licenses/>.

package session

import (
	"errors"
	"sync"
	"time"

	"github.com/jetsetilly/gopher8bit/audio"
	"github.com/jetsetilly/gopher8bit/audio/headless"
	"github.com/jetsetilly/gopher8bit/audio/tape"
	"github.com/jetsetilly/gopher8bit/curated"
	"github.com/jetsetilly/gopher8bit/debugger"
	"github.com/jetsetilly/gopher8bit/govern"
	"github.com/jetsetilly/gopher8bit/hardware"
	"github.com/jetsetilly/gopher8bit/logger"
	"github.com/jetsetilly/gopher8bit/scheduler"
	"github.com/jetsetilly/gopher8bit/trace"
	"github.com/jetsetilly/gopher8bit/wavwriter"
)

// Sentinel error patterns.
const (
	AlreadyStarted = "session: already started"
	NotStarted     = "session: not started"
)

// Session is an emulated machine and the goroutines that run it.
type Session struct {
	Prefs   *Preferences
	Machine *hardware.Machine

	Trace     *trace.Buffer
	Pacer     *audio.Pacer
	Scheduler *scheduler.Scheduler
	Bridge    *debugger.Bridge

	crit     sync.Mutex
	started  bool
	stopped  bool
	backend  audio.Backend
	recorder *wavwriter.WavWriter
	tape     *tape.Tape
}

// New is the preferred method of initialisation for the Session type. If
// machine is nil a new machine is created according to the preferences.
func New(prf *Preferences, machine *hardware.Machine) (*Session, error) {
	if prf == nil {
		var err error
		prf, err = NewPreferences()
		if err != nil {
			return nil, err
		}
	}

	spec, err := prf.MachineSpec()
	if err != nil {
		return nil, err
	}

	if machine == nil {
		machine = hardware.NewMachine(spec)
	} else {
		spec = machine.Spec
	}

	sess := &Session{
		Prefs:   prf,
		Machine: machine,
	}

	sess.Trace, err = trace.NewBuffer(prf.TraceDepth.Get().(int))
	if err != nil {
		return nil, curated.Errorf("session: %v", err)
	}

	// the pacer's clock is the scheduler, which doesn't exist yet
	clock := audio.ClockFunc(func() uint64 {
		return sess.Scheduler.Cycles()
	})
	sess.Pacer, err = audio.NewPacer(prf.audioSpec(spec), clock)
	if err != nil {
		return nil, curated.Errorf("session: %v", err)
	}

	sess.Bridge = debugger.NewBridge(sess.Trace, prf.NotifyInterval.Get().(time.Duration))

	sess.Scheduler, err = scheduler.New(prf.schedulerConfig(spec), machine.Collaborators(), sess.Trace, sess.Pacer, sess.Bridge)
	if err != nil {
		return nil, curated.Errorf("session: %v", err)
	}

	sess.Bridge.Attach(sess.Scheduler)

	err = machine.AttachAudio(sess.Pacer, sess.Scheduler)
	if err != nil {
		return nil, curated.Errorf("session: %v", err)
	}

	return sess, nil
}

// AttachBackend sets the audio back end. The back end must have been created
// with the session's Pacer. If no back end is attached when the session is
// started a headless back end is used.
func (sess *Session) AttachBackend(backend audio.Backend) error {
	sess.crit.Lock()
	defer sess.crit.Unlock()

	if sess.started {
		return curated.Errorf(AlreadyStarted)
	}
	sess.backend = backend
	return nil
}

// AttachRecorder records the mixed audio output to a WAV file. The file is
// written when the session is stopped.
func (sess *Session) AttachRecorder(filename string) error {
	sess.crit.Lock()
	defer sess.crit.Unlock()

	if sess.recorder != nil {
		return curated.Errorf("session: %v", "recorder already attached")
	}

	aw, err := wavwriter.New(filename)
	if err != nil {
		return curated.Errorf("session: %v", err)
	}

	sess.Pacer.AddTap(aw)
	sess.recorder = aw

	return nil
}

// AttachTape loads a tape and starts playing it through the Pacer.
func (sess *Session) AttachTape(filename string) error {
	sess.crit.Lock()
	defer sess.crit.Unlock()

	if sess.tape != nil {
		sess.tape.Detach()
		sess.tape = nil
	}

	tap, err := tape.Load(filename)
	if err != nil {
		return curated.Errorf("session: %v", err)
	}

	err = tap.Attach(sess.Pacer, sess.Pacer.Spec().SampleRate)
	if err != nil {
		return curated.Errorf("session: %v", err)
	}
	tap.Play()

	sess.tape = tap

	return nil
}

// Tape returns the attached tape. Returns nil if no tape is attached.
func (sess *Session) Tape() *tape.Tape {
	sess.crit.Lock()
	defer sess.crit.Unlock()
	return sess.tape
}

// Start the audio back end and the scheduler. The emulation begins in the
// Paused state.
func (sess *Session) Start() error {
	sess.crit.Lock()
	defer sess.crit.Unlock()

	if sess.started {
		return curated.Errorf(AlreadyStarted)
	}

	if sess.backend == nil {
		sess.backend = headless.NewAudio(sess.Pacer)
	}

	err := sess.backend.Start()
	if err != nil {
		return curated.Errorf("session: %v", err)
	}

	err = sess.Scheduler.Start()
	if err != nil {
		_ = sess.backend.End()
		return curated.Errorf("session: %v", err)
	}

	sess.started = true
	logger.Logf(logger.Allow, "session", "started %s", sess.Machine.Spec.ID)

	return nil
}

// Run changes the emulation state to Running or RunningFullSpeed.
func (sess *Session) Run(fullSpeed bool) error {
	if fullSpeed {
		return sess.Scheduler.RequestStateChange(govern.RunFullSpeed)
	}
	return sess.Scheduler.RequestStateChange(govern.Run)
}

// Stop the scheduler and the audio back end, and write any recording to
// disk. The returned error includes the error that ended the scheduler
// goroutine, if any. Calling Stop() more than once has no effect.
func (sess *Session) Stop() error {
	sess.crit.Lock()
	defer sess.crit.Unlock()

	if !sess.started {
		return curated.Errorf(NotStarted)
	}
	if sess.stopped {
		return nil
	}
	sess.stopped = true

	sess.Scheduler.Stop()

	var errs []error
	if err := sess.Scheduler.Err(); err != nil {
		errs = append(errs, err)
	}
	if err := sess.backend.End(); err != nil {
		errs = append(errs, err)
	}
	if sess.tape != nil {
		sess.tape.Detach()
	}
	if sess.recorder != nil {
		if err := sess.recorder.End(); err != nil {
			errs = append(errs, err)
		}
	}

	logger.Logf(logger.Allow, "session", "stopped after %d frames", sess.Scheduler.Frames())

	return errors.Join(errs...)
}

// Done returns a channel that is closed when the scheduler goroutine ends.
func (sess *Session) Done() <-chan struct{} {
	return sess.Scheduler.Done()
}
