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

package debugger

import (
	"github.com/jetsetilly/gopher8bit/govern"
	"github.com/jetsetilly/gopher8bit/trace"
)

// Machine is the view of the emulation given to notification handlers. It is
// a reference to the live emulation, not a copy. Values that are owned by the
// scheduler goroutine are only safe to inspect in a Stopped handler.
type Machine interface {
	// the current emulation state. safe to call at any time
	State() govern.State

	// the number of cycles executed since the start of the session. safe to
	// call at any time
	Cycles() uint64

	// the program counter of the CPU. only meaningful in a Stopped handler
	PC() uint16

	// the current breakpoint address or -1 if there is no breakpoint. safe to
	// call at any time
	Breakpoint() int

	// the most recently published instruction history. safe to call at any
	// time
	History() *trace.History

	// the measured emulation speed. safe to call at any time
	FPS() (actual float32, ratio float32)
}
