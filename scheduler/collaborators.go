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

import "time"

// CPU is the processor being scheduled. All functions are called only from the
// scheduler goroutine.
type CPU interface {
	// advance the CPU and return the number of cycles consumed
	Step() (int, error)

	// true if the most recent call to Step() completed an instruction
	InstructionDone() bool

	// the address of the next instruction
	PC() uint16

	// true if an interrupt should be serviced at the next retirement
	// boundary
	InterruptPending() bool

	// service the pending interrupt and return the number of cycles consumed
	Int() (int, error)
}

// Memory is the address space of the CPU.
type Memory interface {
	Read(address uint16) uint8

	// number of times video memory has been accessed since the last reset
	VideoMemAccessCount() int
	ResetVideoMemAccessCount()
}

// Peeker is an optional interface for Memory implementations. Peek() must
// return the value at the address without side effects. If the Memory does not
// implement Peeker, Read() is used to snapshot instruction bytes.
type Peeker interface {
	Peek(address uint16) uint8
}

// Video generates the display, one scanline at a time.
type Video interface {
	// returns true when the scanline completes a frame
	RenderScanline() (bool, error)
}

// Resetter is an optional interface for the machine. It is used to service
// the govern.Reset request. If the machine does not implement Resetter the
// request is a no-op.
type Resetter interface {
	Reset() error
}

// Pacer is the source of pacing permits. Implemented by audio.Pacer.
type Pacer interface {
	// wait for a permit. the wait ends early if the cancel channel is
	// signalled
	Wait(timeout time.Duration, cancel <-chan struct{}) bool
}

// Notifier receives notifications from the scheduler goroutine. Implemented
// by debugger.Bridge. Notify() must not block.
type Notifier interface {
	Notify(forced bool)
}

// Collaborators bundles the parts of the machine needed by the Scheduler.
type Collaborators struct {
	CPU    CPU
	Memory Memory
	Video  Video

	// optional. the Reset request is ignored if Resetter is nil
	Resetter Resetter
}
