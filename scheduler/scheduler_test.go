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

package scheduler_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jetsetilly/gopher8bit/curated"
	"github.com/jetsetilly/gopher8bit/debugger"
	"github.com/jetsetilly/gopher8bit/govern"
	"github.com/jetsetilly/gopher8bit/scheduler"
	"github.com/jetsetilly/gopher8bit/test"
	"github.com/jetsetilly/gopher8bit/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cpu executes one byte instructions of two cycles each. the program counter
// wraps back to origin after length instructions
type cpu struct {
	origin uint16
	length uint16
	pc     uint16

	steps int

	// if failAt is non-zero then Step() returns an error (or panics) on that
	// step
	failAt    int
	failPanic bool

	irq bool
}

func (c *cpu) Step() (int, error) {
	c.steps++
	if c.failAt > 0 && c.steps >= c.failAt {
		if c.failPanic {
			panic("bad opcode")
		}
		return 0, errors.New("bad opcode")
	}
	c.pc++
	if c.pc >= c.origin+c.length {
		c.pc = c.origin
	}
	return 2, nil
}

func (c *cpu) InstructionDone() bool {
	return true
}

func (c *cpu) PC() uint16 {
	return c.pc
}

func (c *cpu) InterruptPending() bool {
	return c.irq
}

func (c *cpu) Int() (int, error) {
	c.irq = false
	return 7, nil
}

type memory struct {
	contention int
	resets     int
}

func (m *memory) Read(address uint16) uint8 {
	return uint8(address)
}

func (m *memory) VideoMemAccessCount() int {
	return m.contention
}

func (m *memory) ResetVideoMemAccessCount() {
	m.resets++
}

type video struct {
	scanlinesPerFrame int
	scanline          int
}

func (v *video) RenderScanline() (bool, error) {
	v.scanline++
	if v.scanline >= v.scanlinesPerFrame {
		v.scanline = 0
		return true, nil
	}
	return false, nil
}

type resetter struct {
	count atomic.Int32
}

func (r *resetter) Reset() error {
	r.count.Add(1)
	return nil
}

type pacer struct {
	waits atomic.Int32
}

func (p *pacer) Wait(timeout time.Duration, cancel <-chan struct{}) bool {
	p.waits.Add(1)
	select {
	case <-time.After(time.Millisecond):
	case <-cancel:
	}
	return true
}

// notifier counts notifications before passing them to a bridge
type notifier struct {
	bridge *debugger.Bridge
	forced atomic.Int32
	total  atomic.Int32
}

func (n *notifier) Notify(forced bool) {
	n.total.Add(1)
	if forced {
		n.forced.Add(1)
	}
	n.bridge.Notify(forced)
}

type fixture struct {
	cpu      *cpu
	mem      *memory
	video    *video
	resetter *resetter
	pacer    *pacer
	notifier *notifier
	trace    *trace.Buffer
	sched    *scheduler.Scheduler
}

func newFixture(t *testing.T, opts ...func(*scheduler.Config)) *fixture {
	t.Helper()

	f := &fixture{
		cpu:      &cpu{origin: 0x0300, length: 0x40, pc: 0x0300},
		mem:      &memory{},
		video:    &video{scanlinesPerFrame: 2},
		resetter: &resetter{},
		pacer:    &pacer{},
	}

	var err error
	f.trace, err = trace.NewBuffer(16)
	test.DemandSuccess(t, err)

	f.notifier = &notifier{bridge: debugger.NewBridge(f.trace, 0)}

	cfg := scheduler.DefaultConfig
	cfg.CyclesPerScanline = 10
	cfg.PausedTimeout = 10 * time.Millisecond
	for _, o := range opts {
		o(&cfg)
	}

	f.sched, err = scheduler.New(cfg, scheduler.Collaborators{
		CPU:      f.cpu,
		Memory:   f.mem,
		Video:    f.video,
		Resetter: f.resetter,
	}, f.trace, f.pacer, f.notifier)
	test.DemandSuccess(t, err)

	return f
}

func TestNew(t *testing.T) {
	buf, err := trace.NewBuffer(2)
	test.DemandSuccess(t, err)

	_, err = scheduler.New(scheduler.DefaultConfig, scheduler.Collaborators{}, buf, nil, nil)
	test.ExpectFailure(t, err)

	cfg := scheduler.DefaultConfig
	cfg.CyclesPerScanline = 0
	_, err = scheduler.New(cfg, scheduler.Collaborators{
		CPU:    &cpu{},
		Memory: &memory{},
		Video:  &video{},
	}, buf, nil, nil)
	test.ExpectFailure(t, err)
}

func TestStateChange(t *testing.T) {
	f := newFixture(t)
	s := f.sched

	test.ExpectEquality(t, s.State(), govern.Paused)

	// requests are not possible until the scheduler has started
	err := s.RequestStateChange(govern.Run)
	test.ExpectSuccess(t, curated.Is(err, scheduler.LoopNotRunning))

	test.DemandSuccess(t, s.Start())
	defer s.Stop()

	test.ExpectFailure(t, s.Start())

	requests := []struct {
		request govern.Request
		state   govern.State
	}{
		{govern.Run, govern.Running},
		{govern.NoChange, govern.Running},
		{govern.RunFullSpeed, govern.RunningFullSpeed},
		{govern.NoChange, govern.RunningFullSpeed},
		{govern.Pause, govern.Paused},
		{govern.NoChange, govern.Paused},
		{govern.Run, govern.Running},
		{govern.Pause, govern.Paused},
		{govern.RunFullSpeed, govern.RunningFullSpeed},
	}

	for _, r := range requests {
		err := s.RequestStateChange(r.request)
		test.ExpectSuccess(t, err, r.request)
		test.ExpectEquality(t, s.State(), r.state, r.request)
	}

	test.ExpectSuccess(t, s.Err())
}

func TestStop(t *testing.T) {
	f := newFixture(t)
	s := f.sched

	// stopping a scheduler that hasn't been started has no effect
	s.Stop()

	test.DemandSuccess(t, s.Start())
	test.DemandSuccess(t, s.RequestStateChange(govern.RunFullSpeed))

	s.Stop()
	s.Stop()

	select {
	case <-s.Done():
	default:
		t.Fatalf("scheduler goroutine has not ended")
	}
	test.ExpectSuccess(t, s.Err())

	err := s.RequestStateChange(govern.Pause)
	test.ExpectSuccess(t, curated.Is(err, scheduler.LoopNotRunning))

	err = s.StepInto()
	test.ExpectSuccess(t, curated.Is(err, scheduler.LoopNotRunning))

	// a scheduler can't be restarted
	test.ExpectFailure(t, s.Start())
}

func TestRunOneFrame(t *testing.T) {
	f := newFixture(t)
	s := f.sched

	// a breakpoint that never matches doesn't prevent the frame from
	// completing
	s.SetBreakpoint(0x10000)

	// two scanlines of ten cycles each
	consumed, err := s.RunOneFrame()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, consumed, uint64(20))
	test.ExpectEquality(t, s.Frames(), uint64(1))
	test.ExpectEquality(t, f.cpu.pc, 0x030a)
	test.ExpectEquality(t, f.mem.resets, 2)

	s.SetBreakpoint(scheduler.NoBreakpoint)
	test.ExpectEquality(t, s.Breakpoint(), scheduler.NoBreakpoint)

	for range 10 {
		_, err := s.RunOneFrame()
		test.ExpectSuccess(t, err)
	}
	test.ExpectEquality(t, s.Frames(), uint64(11))
}

func TestClockStretching(t *testing.T) {
	f := newFixture(t)
	s := f.sched

	f.mem.contention = 3

	// first scanline: five instructions reach the target of 10 cycles and
	// contention adds four more. second scanline: three instructions reach
	// the target of 20 cycles and contention adds four more
	consumed, err := s.RunOneFrame()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, consumed, uint64(24))
	test.ExpectEquality(t, s.Cycles(), uint64(24))
	test.ExpectEquality(t, f.cpu.steps, 8)
}

func TestInterrupt(t *testing.T) {
	f := newFixture(t)
	s := f.sched

	f.cpu.irq = true
	s.SetBreakpoint(0x0301)

	// the first instruction is followed by an interrupt. the breakpoint stops
	// the frame immediately
	consumed, err := s.RunOneFrame()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, consumed, uint64(9))
	test.ExpectEquality(t, s.State(), govern.Paused)
	test.ExpectEquality(t, s.Frames(), uint64(0))

	f.trace.UpdateHistory()
	e, ok := s.History().At(0)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, e.PC, 0x0300)
	test.ExpectEquality(t, e.Cycles, 9)
	test.ExpectEquality(t, e.Bytes, [trace.SnapshotLen]uint8{0x00, 0x01, 0x02})
}

func TestBreakpoint(t *testing.T) {
	f := newFixture(t)
	s := f.sched

	const bp = 0x0320
	s.SetBreakpoint(bp)
	test.ExpectEquality(t, s.Breakpoint(), bp)

	test.DemandSuccess(t, s.Start())
	defer s.Stop()

	test.DemandSuccess(t, s.RequestStateChange(govern.Run))
	require.Eventually(t, func() bool {
		return s.State() == govern.Paused
	}, time.Second, time.Millisecond)

	// the request/ack handshake makes the CPU safe to inspect
	test.DemandSuccess(t, s.RequestStateChange(govern.Pause))
	test.ExpectEquality(t, s.PC(), bp)
	test.ExpectEquality(t, f.cpu.steps, bp-0x0300)

	// the most recent instruction in the history is the one before the
	// breakpoint
	e, ok := s.History().At(0)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, e.PC, bp-1)
	test.ExpectEquality(t, e.Bytes[0], uint8((bp-1)&0xff))

	// one forced notification for the breakpoint. the pause request doesn't
	// change the state so there is no notification for it
	test.ExpectEquality(t, f.notifier.forced.Load(), int32(1))

	// the emulation doesn't move while paused
	cycles := s.Cycles()
	time.Sleep(30 * time.Millisecond)
	test.ExpectEquality(t, s.Cycles(), cycles)
	test.ExpectEquality(t, f.notifier.forced.Load(), int32(1))
}

func TestBreakpointResume(t *testing.T) {
	f := newFixture(t)
	s := f.sched

	// the breakpoint is reached part way through the first scanline
	s.SetBreakpoint(0x0302)
	consumed, err := s.RunOneFrame()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, consumed, uint64(4))
	test.ExpectEquality(t, f.video.scanline, 0)

	// resuming completes the interrupted scanline rather than starting a new
	// one. the frame is exactly two scanlines of ten cycles
	s.SetBreakpoint(scheduler.NoBreakpoint)
	consumed, err = s.RunOneFrame()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, consumed, uint64(16))
	test.ExpectEquality(t, s.Cycles(), uint64(20))
	test.ExpectEquality(t, s.Frames(), uint64(1))
	test.ExpectEquality(t, f.mem.resets, 2)

	// the next frame is unaffected
	consumed, err = s.RunOneFrame()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, consumed, uint64(20))
	test.ExpectEquality(t, s.Cycles(), uint64(40))
}

func TestBreakpointResumeStretching(t *testing.T) {
	f := newFixture(t)
	s := f.sched

	f.mem.contention = 3

	// clock stretching is applied once per scanline, when the scanline is
	// complete. the totals are the same as a frame without a breakpoint
	s.SetBreakpoint(0x0302)
	consumed, err := s.RunOneFrame()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, consumed, uint64(4))

	s.SetBreakpoint(scheduler.NoBreakpoint)
	_, err = s.RunOneFrame()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s.Cycles(), uint64(24))
	test.ExpectEquality(t, f.cpu.steps, 8)
}

func TestBreakpointSingleStop(t *testing.T) {
	f := newFixture(t)
	s := f.sched

	s.SetBreakpoint(0x0310)

	var stops atomic.Int32
	f.notifier.bridge.OnStopped(func(m debugger.Machine) {
		stops.Add(1)
	})
	quit := make(chan struct{})
	defer close(quit)
	go f.notifier.bridge.Dispatch(quit)

	test.DemandSuccess(t, s.Start())
	defer s.Stop()

	test.DemandSuccess(t, s.RequestStateChange(govern.RunFullSpeed))
	require.Eventually(t, func() bool {
		return stops.Load() == 1
	}, time.Second, time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), stops.Load())
	assert.Equal(t, int32(1), f.notifier.forced.Load())
	assert.Equal(t, govern.Paused, s.State())

	// running again starts from the breakpoint. it doesn't stop again
	// immediately
	test.DemandSuccess(t, s.RequestStateChange(govern.RunFullSpeed))
	require.Eventually(t, func() bool {
		return stops.Load() == 2
	}, time.Second, time.Millisecond)
	test.DemandSuccess(t, s.RequestStateChange(govern.Pause))
	assert.Equal(t, uint16(0x0310), s.PC())
	assert.Greater(t, f.cpu.steps, 0x40)
}

func TestRestore(t *testing.T) {
	f := newFixture(t)
	s := f.sched

	test.DemandSuccess(t, s.Start())
	defer s.Stop()

	// restore without a prior pause has no effect
	test.DemandSuccess(t, s.RequestStateChange(govern.Restore))
	test.ExpectEquality(t, s.State(), govern.Paused)

	test.DemandSuccess(t, s.RequestStateChange(govern.RunFullSpeed))
	test.DemandSuccess(t, s.RequestStateChange(govern.Pause))
	test.DemandSuccess(t, s.RequestStateChange(govern.Restore))
	test.ExpectEquality(t, s.State(), govern.RunningFullSpeed)

	// the pause has been consumed
	test.DemandSuccess(t, s.RequestStateChange(govern.Restore))
	test.ExpectEquality(t, s.State(), govern.RunningFullSpeed)

	// pausing twice doesn't lose the state before the first pause
	test.DemandSuccess(t, s.RequestStateChange(govern.Run))
	test.DemandSuccess(t, s.RequestStateChange(govern.Pause))
	test.DemandSuccess(t, s.RequestStateChange(govern.Pause))
	test.DemandSuccess(t, s.RequestStateChange(govern.Restore))
	test.ExpectEquality(t, s.State(), govern.Running)
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	s := f.sched

	test.DemandSuccess(t, s.Start())
	defer s.Stop()

	test.DemandSuccess(t, s.RequestStateChange(govern.RunFullSpeed))
	require.Eventually(t, func() bool {
		return s.Cycles() > 100
	}, time.Second, time.Millisecond)

	cycles := s.Cycles()
	test.DemandSuccess(t, s.RequestStateChange(govern.Reset))
	test.ExpectEquality(t, s.State(), govern.RunningFullSpeed)
	test.ExpectEquality(t, f.resetter.count.Load(), int32(1))
	test.ExpectSuccess(t, s.Cycles() >= cycles)

	test.DemandSuccess(t, s.RequestStateChange(govern.Pause))
	test.DemandSuccess(t, s.RequestStateChange(govern.Reset))
	test.ExpectEquality(t, s.State(), govern.Paused)
	test.ExpectEquality(t, f.resetter.count.Load(), int32(2))

	// the trace is emptied by a reset
	_, ok := s.History().At(0)
	test.ExpectFailure(t, ok)
}

func TestStepInto(t *testing.T) {
	f := newFixture(t)
	s := f.sched

	// before the scheduler has started the step happens on this goroutine
	test.DemandSuccess(t, s.StepInto())
	test.ExpectEquality(t, f.cpu.pc, 0x0301)
	test.ExpectEquality(t, s.Cycles(), uint64(2))
	test.ExpectEquality(t, f.notifier.forced.Load(), int32(1))

	e, ok := s.History().At(0)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, e.PC, 0x0300)

	test.DemandSuccess(t, s.Start())
	defer s.Stop()

	for i := range 3 {
		test.DemandSuccess(t, s.StepInto())
		test.ExpectEquality(t, s.State(), govern.Paused)
		test.ExpectEquality(t, s.PC(), uint16(0x0302+i))
	}
	test.ExpectEquality(t, f.notifier.forced.Load(), int32(4))

	e, ok = s.History().At(0)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, e.PC, 0x0303)
	e, ok = s.History().At(3)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, e.PC, 0x0300)

	// stepping while running executes one extra instruction between frames
	// and doesn't change the state
	test.DemandSuccess(t, s.RequestStateChange(govern.Run))
	test.DemandSuccess(t, s.StepInto())
	test.ExpectEquality(t, s.State(), govern.Running)
	test.ExpectEquality(t, f.notifier.forced.Load(), int32(5))
}

func TestPacing(t *testing.T) {
	f := newFixture(t)
	s := f.sched

	test.DemandSuccess(t, s.Start())
	defer s.Stop()

	test.DemandSuccess(t, s.RequestStateChange(govern.Run))
	require.Eventually(t, func() bool {
		return f.pacer.waits.Load() > 5
	}, time.Second, time.Millisecond)

	// no pacing at full speed
	test.DemandSuccess(t, s.RequestStateChange(govern.RunFullSpeed))
	waits := f.pacer.waits.Load()
	frames := s.Frames()
	require.Eventually(t, func() bool {
		return s.Frames() > frames+100
	}, time.Second, time.Millisecond)
	test.ExpectEquality(t, f.pacer.waits.Load(), waits)

	// no pacing while paused
	test.DemandSuccess(t, s.RequestStateChange(govern.Pause))
	waits = f.pacer.waits.Load()
	time.Sleep(30 * time.Millisecond)
	test.ExpectEquality(t, f.pacer.waits.Load(), waits)
}

func TestPacingPerPeriod(t *testing.T) {
	// one permit for every fifteen cycles. a frame is twenty cycles
	f := newFixture(t, func(cfg *scheduler.Config) {
		cfg.CyclesPerPermit = 15
	})
	s := f.sched

	test.DemandSuccess(t, s.Start())
	defer s.Stop()

	test.DemandSuccess(t, s.RequestStateChange(govern.Run))
	require.Eventually(t, func() bool {
		return s.Frames() > 30
	}, time.Second, time.Millisecond)
	test.DemandSuccess(t, s.RequestStateChange(govern.Pause))

	frames := s.Frames()
	test.ExpectEquality(t, s.Cycles(), frames*20)
	test.ExpectEquality(t, uint64(f.pacer.waits.Load()), frames*20/15)
}

func TestFatalError(t *testing.T) {
	for _, panics := range []bool{false, true} {
		f := newFixture(t)
		s := f.sched
		f.cpu.failAt = 50
		f.cpu.failPanic = panics

		test.DemandSuccess(t, s.Start())
		test.DemandSuccess(t, s.RequestStateChange(govern.RunFullSpeed))

		select {
		case <-s.Done():
		case <-time.After(time.Second):
			t.Fatalf("scheduler goroutine did not end")
		}

		err := s.Err()
		test.DemandFailure(t, err)
		if panics {
			test.ExpectSuccess(t, curated.Is(err, scheduler.CollaboratorPanic))
		} else {
			test.ExpectSuccess(t, curated.Is(err, scheduler.CollaboratorErr))
			test.ExpectEquality(t, err.Error(), "scheduler: bad opcode")
		}

		// requests fail rather than block
		err = s.RequestStateChange(govern.Pause)
		test.ExpectSuccess(t, curated.Is(err, scheduler.LoopNotRunning))

		s.Stop()
	}
}
