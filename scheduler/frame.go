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
	"github.com/jetsetilly/gopher8bit/curated"
	"github.com/jetsetilly/gopher8bit/govern"
)

// RunOneFrame executes scanlines until the video reports a completed frame,
// the Scheduler is stopped or a breakpoint is reached. Returns the number of
// cycles consumed.
//
// Must only be called by the scheduler goroutine, or by a test before the
// Scheduler has been started.
func (s *Scheduler) RunOneFrame() (uint64, error) {
	var consumed uint64

	for {
		bp, err := s.runScanline(&consumed)
		if err != nil {
			return consumed, err
		}
		if bp {
			return consumed, nil
		}

		complete, err := s.video.RenderScanline()
		if err != nil {
			return consumed, curated.Errorf(CollaboratorErr, err)
		}
		if complete {
			s.frames.Add(1)
			s.meter.Frame()
			return consumed, nil
		}

		if s.halt.Load() {
			return consumed, nil
		}
	}
}

// runScanline steps the CPU until the target cycle for the scanline has been
// reached. Returns true if a breakpoint was reached.
//
// A scanline interrupted by a breakpoint is resumed with the same target
// cycle and contention count. Clock stretching is only applied once the
// scanline is complete.
func (s *Scheduler) runScanline(consumed *uint64) (bool, error) {
	if s.scanlinePending {
		s.scanlinePending = false
	} else {
		s.targetCycle += uint64(s.cfg.CyclesPerScanline)
		s.mem.ResetVideoMemAccessCount()
	}

	var bp bool

	for s.cycles.Load() < s.targetCycle {
		n, retired, err := s.step()
		if err != nil {
			return false, err
		}
		s.addCycles(consumed, n)

		if retired && s.atBreakpoint() {
			s.setState(govern.Paused)
			bp = true
			break
		}

		if s.halt.Load() {
			break
		}
	}

	if bp {
		s.scanlinePending = true
		return true, nil
	}

	// clock stretching
	if n := s.mem.VideoMemAccessCount(); n > 0 {
		s.addCycles(consumed, n+1)
	}

	return bp, nil
}

func (s *Scheduler) addCycles(consumed *uint64, n int) {
	*consumed += uint64(n)
	s.cycles.Add(uint64(n))
}

func (s *Scheduler) atBreakpoint() bool {
	return s.breakpoint.Load() == int64(s.cpu.PC())
}

// step the CPU once. Returns the cycles consumed and whether an instruction
// retired. The instruction is added to the trace buffer when it retires and
// any pending interrupt is serviced.
func (s *Scheduler) step() (int, bool, error) {
	if !s.inflight.begun {
		s.inflight.begun = true
		s.inflight.pc = s.cpu.PC()
		s.inflight.cycles = 0
		for i := range s.inflight.bytes {
			a := s.inflight.pc + uint16(i)
			if s.peeker != nil {
				s.inflight.bytes[i] = s.peeker.Peek(a)
			} else {
				s.inflight.bytes[i] = s.mem.Read(a)
			}
		}
	}

	n, err := s.cpu.Step()
	if err != nil {
		return 0, false, curated.Errorf(CollaboratorErr, err)
	}
	s.inflight.cycles += n

	if !s.cpu.InstructionDone() {
		return n, false, nil
	}

	if s.cpu.InterruptPending() {
		m, err := s.cpu.Int()
		if err != nil {
			return n, false, curated.Errorf(CollaboratorErr, err)
		}
		n += m
		s.inflight.cycles += m
	}

	e := s.trace.NextEmptySlot()
	e.PC = s.inflight.pc
	e.Bytes = s.inflight.bytes
	e.Cycles = s.inflight.cycles
	s.inflight.begun = false

	return n, true, nil
}

// stepInto executes CPU steps until one instruction has retired. The state is
// not changed.
func (s *Scheduler) stepInto() error {
	for {
		n, retired, err := s.step()
		if err != nil {
			return err
		}
		s.cycles.Add(uint64(n))
		if retired {
			break
		}
	}
	s.notify(true)
	return nil
}
