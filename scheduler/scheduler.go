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

package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/gopher8bit/curated"
	"github.com/jetsetilly/gopher8bit/govern"
	"github.com/jetsetilly/gopher8bit/logger"
	"github.com/jetsetilly/gopher8bit/performance"
	"github.com/jetsetilly/gopher8bit/trace"
)

// Sentinel error patterns.
const (
	LoopNotRunning    = "scheduler: loop not running"
	AlreadyStarted    = "scheduler: already started"
	CollaboratorErr   = "scheduler: %w"
	CollaboratorPanic = "scheduler: panic: %v"
)

// NoBreakpoint is the value of the breakpoint when no breakpoint is set.
const NoBreakpoint = -1

// lifecycle of the scheduler goroutine.
const (
	unstarted = iota
	started
	stopped
)

// a command is sent from the controlling goroutine to the scheduler goroutine.
// a command is either a state change request or a request to step one
// instruction
type command struct {
	request govern.Request
	step    bool
}

// Scheduler runs the emulation in a background goroutine. Create with New().
type Scheduler struct {
	cfg Config

	cpu      CPU
	mem      Memory
	peeker   Peeker
	video    Video
	resetter Resetter

	trace    *trace.Buffer
	pacer    Pacer
	notifier Notifier
	meter    *performance.Meter

	state      atomic.Int32
	breakpoint atomic.Int64
	cycles     atomic.Uint64
	frames     atomic.Uint64

	// the state before the most recent Pause. only accessed by the scheduler
	// goroutine
	prePause    govern.State
	hasPrePause bool

	// the next synchronisation point. only accessed by the scheduler goroutine
	targetCycle uint64

	// a breakpoint interrupted the scanline before it was rendered. the
	// scanline is completed on the next call to RunOneFrame()
	scanlinePending bool

	// emulated cycles that have not yet been paid for with a pacing permit.
	// only accessed by the scheduler goroutine
	owed float64

	// the instruction currently being executed. only accessed by the
	// scheduler goroutine
	inflight struct {
		begun  bool
		pc     uint16
		bytes  [trace.SnapshotLen]uint8
		cycles int
	}

	// crit serialises commands from the controlling goroutine so that only
	// one request is ever in flight
	crit     sync.Mutex
	requests chan command
	acks     chan error

	// wake is signalled to end a wait in the scheduler goroutine early
	wake chan struct{}

	// running is true while the scheduler goroutine is accepting commands
	running atomic.Bool

	// halt is set by Stop() and checked by the scheduler goroutine after
	// every instruction
	halt atomic.Bool

	lifecycleCrit sync.Mutex
	lifecycle     int

	// done is closed when the scheduler goroutine ends. err is written
	// before done is closed and not at all after
	done chan struct{}
	err  error
}

// New is the preferred method of initialisation for the Scheduler type. The
// pacer and the notifier can be nil.
func New(cfg Config, c Collaborators, history *trace.Buffer, pacer Pacer, notifier Notifier) (*Scheduler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if c.CPU == nil || c.Memory == nil || c.Video == nil {
		return nil, fmt.Errorf("scheduler: CPU, memory and video are all required")
	}
	if history == nil {
		return nil, fmt.Errorf("scheduler: trace buffer is required")
	}

	s := &Scheduler{
		cfg:      cfg,
		cpu:      c.CPU,
		mem:      c.Memory,
		video:    c.Video,
		resetter: c.Resetter,
		trace:    history,
		pacer:    pacer,
		notifier: notifier,
		meter:    performance.NewMeter(cfg.NominalFPS),
		requests: make(chan command, 1),
		acks:     make(chan error, 1),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	if p, ok := c.Memory.(Peeker); ok {
		s.peeker = p
	}

	s.state.Store(int32(govern.Paused))
	s.breakpoint.Store(NoBreakpoint)

	return s, nil
}

// Start the scheduler goroutine. The emulation begins in the Paused state.
// A Scheduler can only be started once.
func (s *Scheduler) Start() error {
	s.lifecycleCrit.Lock()
	defer s.lifecycleCrit.Unlock()

	if s.lifecycle != unstarted {
		return curated.Errorf(AlreadyStarted)
	}
	s.lifecycle = started

	s.running.Store(true)
	go s.loop()

	logger.Log(logger.Allow, "scheduler", "started")

	return nil
}

// Stop the scheduler goroutine. Does not return until the goroutine has
// ended. Calling Stop() more than once, or on a Scheduler that was never
// started, has no effect.
func (s *Scheduler) Stop() {
	s.lifecycleCrit.Lock()
	defer s.lifecycleCrit.Unlock()

	if s.lifecycle != started {
		return
	}
	s.lifecycle = stopped

	s.halt.Store(true)
	s.running.Store(false)
	s.signal()
	<-s.done

	logger.Log(logger.Allow, "scheduler", "stopped")
}

// Done returns a channel that is closed when the scheduler goroutine ends.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that caused the scheduler goroutine to end. Returns
// nil if the goroutine is still running or was stopped normally.
func (s *Scheduler) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// RequestStateChange asks the scheduler goroutine to change state. The
// function blocks until the request has been serviced. The NoChange request
// returns immediately.
//
// Returns the LoopNotRunning error if the scheduler goroutine is not running,
// or if it ends before the request is serviced.
func (s *Scheduler) RequestStateChange(request govern.Request) error {
	if request == govern.NoChange {
		return nil
	}
	return s.submit(command{request: request})
}

// StepInto executes exactly one instruction. A forced notification is always
// raised afterwards.
//
// StepInto is intended to be used when the emulation is paused. It is not an
// error to call it while the emulation is running. In that case the
// instruction is executed between frames and the emulation continues running
// afterwards.
//
// If the Scheduler has not been started the instruction is executed by the
// calling goroutine.
func (s *Scheduler) StepInto() error {
	s.lifecycleCrit.Lock()
	lifecycle := s.lifecycle
	s.lifecycleCrit.Unlock()

	if lifecycle == unstarted {
		s.crit.Lock()
		defer s.crit.Unlock()
		return s.stepInto()
	}

	return s.submit(command{step: true})
}

func (s *Scheduler) submit(cmd command) error {
	s.crit.Lock()
	defer s.crit.Unlock()

	if !s.running.Load() {
		return curated.Errorf(LoopNotRunning)
	}

	// clear any stale acknowledgement
	select {
	case <-s.acks:
	default:
	}

	select {
	case s.requests <- cmd:
	case <-s.done:
		return curated.Errorf(LoopNotRunning)
	}

	s.signal()

	select {
	case err := <-s.acks:
		return err
	case <-s.done:
		// the goroutine may have acknowledged the request before ending
		select {
		case err := <-s.acks:
			return err
		default:
		}
		return curated.Errorf(LoopNotRunning)
	}
}

// SetBreakpoint sets the address at which the emulation will pause. The
// address is not validated. An address outside the range of the program
// counter never matches. Use NoBreakpoint to clear.
func (s *Scheduler) SetBreakpoint(address int) {
	s.breakpoint.Store(int64(address))
}

// Breakpoint returns the breakpoint address or NoBreakpoint.
func (s *Scheduler) Breakpoint() int {
	return int(s.breakpoint.Load())
}

// State returns the current state of the emulation.
func (s *Scheduler) State() govern.State {
	return govern.State(s.state.Load())
}

// Cycles returns the number of cycles executed since the scheduler was
// created. The value never decreases, not even on a Reset request.
func (s *Scheduler) Cycles() uint64 {
	return s.cycles.Load()
}

// Frames returns the number of completed frames.
func (s *Scheduler) Frames() uint64 {
	return s.frames.Load()
}

// PC returns the program counter of the CPU. Only meaningful when the
// emulation is paused.
func (s *Scheduler) PC() uint16 {
	return s.cpu.PC()
}

// History returns the most recently published instruction history.
func (s *Scheduler) History() *trace.History {
	return s.trace.History()
}

// FPS returns the measured frame rate and its ratio to the nominal frame rate.
func (s *Scheduler) FPS() (float32, float32) {
	return s.meter.Measure()
}

// NominalFPS returns the frame rate of the machine on real hardware.
func (s *Scheduler) NominalFPS() float32 {
	return s.meter.Nominal()
}

func (s *Scheduler) notify(forced bool) {
	if s.notifier != nil {
		s.notifier.Notify(forced)
	}
}

// setState must only be called by the scheduler goroutine.
func (s *Scheduler) setState(state govern.State) {
	prev := s.State()
	if state == prev {
		return
	}

	if state == govern.Paused {
		s.prePause = prev
		s.hasPrePause = true
		s.owed = 0
	} else if !prev.IsRunning() {
		// the meter would otherwise include the time spent paused
		s.meter.Reset()
	}

	s.state.Store(int32(state))
	logger.Logf(logger.Allow, "scheduler", "%s -> %s", prev, state)
}

// service a command. called by the scheduler goroutine.
func (s *Scheduler) service(cmd command) error {
	if cmd.step {
		return s.stepInto()
	}

	switch cmd.request {
	case govern.Run, govern.RunFullSpeed:
		state, _ := cmd.request.Target()
		s.hasPrePause = false
		s.setState(state)
	case govern.Pause:
		if s.State().IsRunning() {
			s.setState(govern.Paused)
			s.notify(true)
		}
	case govern.Restore:
		if s.hasPrePause {
			s.hasPrePause = false
			s.setState(s.prePause)
		}
	case govern.Reset:
		if s.resetter != nil {
			if err := s.resetter.Reset(); err != nil {
				return curated.Errorf(CollaboratorErr, err)
			}
		}
		s.inflight.begun = false
		s.scanlinePending = false
		s.trace.Reset()
		s.targetCycle = s.cycles.Load()
		if s.State() == govern.Paused {
			s.notify(true)
		}
	}

	return nil
}

func (s *Scheduler) loop() {
	defer close(s.done)
	defer func() {
		if r := recover(); r != nil {
			s.fatal(curated.Errorf(CollaboratorPanic, r))
		}
	}()

	pausedTimer := time.NewTimer(s.cfg.PausedTimeout)
	defer pausedTimer.Stop()

	s.targetCycle = s.cycles.Load()

	for s.running.Load() {
		// at most one request is serviced per iteration
		select {
		case cmd := <-s.requests:
			err := s.service(cmd)
			if err != nil {
				s.fatal(err)
			}
			s.acks <- err
			if err != nil {
				return
			}
		default:
		}

		switch s.State() {
		case govern.Running, govern.RunningFullSpeed:
			full := s.State() == govern.RunningFullSpeed

			consumed, err := s.RunOneFrame()
			if err != nil {
				s.fatal(err)
				return
			}

			// a breakpoint may have paused the emulation
			if s.State() == govern.Paused {
				s.notify(true)
				continue
			}

			s.notify(false)

			if !full && s.pacer != nil {
				s.pace(consumed)
			}

		case govern.Paused:
			pausedTimer.Reset(s.cfg.PausedTimeout)
			select {
			case <-s.wake:
			case <-pausedTimer.C:
			}
			if !pausedTimer.Stop() {
				select {
				case <-pausedTimer.C:
				default:
				}
			}
		}
	}
}

// pace waits for enough permits to cover the consumed cycles. cycles that
// don't make up a whole permit are carried to the next frame.
func (s *Scheduler) pace(consumed uint64) {
	if s.cfg.CyclesPerPermit <= 0 {
		s.pacer.Wait(s.cfg.PacingTimeout, s.wake)
		return
	}

	s.owed += float64(consumed)
	for s.owed >= s.cfg.CyclesPerPermit {
		s.owed -= s.cfg.CyclesPerPermit
		if !s.pacer.Wait(s.cfg.PacingTimeout, s.wake) {
			// timed out or woken by a request. the debt is cleared
			s.owed = 0
			return
		}
	}
}

// fatal records the error that is ending the scheduler goroutine.
func (s *Scheduler) fatal(err error) {
	s.err = err
	s.running.Store(false)
	logger.Log(logger.Allow, "scheduler", err)
}
