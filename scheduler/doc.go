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

// Package scheduler runs the emulation in real time. A single Scheduler owns a
// background goroutine that is the only mutator of the CPU, memory and video
// collaborators for the lifetime of a session.
//
// The goroutine executes one frame at a time. In the Running state each frame
// is followed by a bounded wait for a pacing permit from the audio pacer,
// meaning that the emulation runs only as quickly as audio is consumed. In the
// RunningFullSpeed state there is no wait. In the Paused state the goroutine
// sleeps until it is woken by a request.
//
// The controlling goroutine changes the state with RequestStateChange(). The
// function blocks until the request has been consumed by the scheduler
// goroutine:
//
//	err := sched.RequestStateChange(govern.Pause)
//	if err != nil {
//		return err
//	}
//
//	// the emulation is now guaranteed to be paused
//	fmt.Println(sched.State())
//
// A breakpoint can be set with SetBreakpoint(). When an instruction retires
// and the program counter is at the breakpoint address, the scheduler pauses
// before the instruction at that address is executed.
//
// Errors and panics from collaborators are fatal. The goroutine ends, the
// error is available from Err() and the channel returned by Done() is
// closed. Subsequent requests fail with the LoopNotRunning error.
package scheduler
