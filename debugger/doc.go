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

// Package debugger connects the scheduler goroutine to a controller. The
// Bridge type receives notifications from the scheduler and raises signals
// that the controller can select on, poll or dispatch to handlers.
//
// Notifications are coalesced. A controller that is slow to respond sees the
// most recent state of the machine rather than a queue of stale states:
//
//	bridge := debugger.NewBridge(history, debugger.DefaultInterval)
//	bridge.OnStopped(func(m debugger.Machine) {
//		fmt.Printf("stopped at $%04x\n", m.PC())
//	})
//	go bridge.Dispatch(quit)
//
// A keyboard controller is found in the terminal sub-package.
package debugger
