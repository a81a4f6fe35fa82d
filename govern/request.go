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

package govern

// Request is a one-shot command for the scheduler. It is consumed exactly once
// at a loop boundary.
type Request int

// List of possible requests.
//
// Restore returns the emulation to whatever State it was in before the most
// recent Pause. It is a silent no-op if there has been no Pause since the
// last Restore.
//
// Reset resets the machine but does not change the State.
const (
	NoChange Request = iota
	Run
	RunFullSpeed
	Pause
	Restore
	Reset
)

func (r Request) String() string {
	switch r {
	case NoChange:
		return "NoChange"
	case Run:
		return "Run"
	case RunFullSpeed:
		return "RunFullSpeed"
	case Pause:
		return "Pause"
	case Restore:
		return "Restore"
	case Reset:
		return "Reset"
	}

	return ""
}

// Target returns the State that the request leads to directly. The second
// return value is false for requests that do not name a State.
func (r Request) Target() (State, bool) {
	switch r {
	case Run:
		return Running, true
	case RunFullSpeed:
		return RunningFullSpeed, true
	case Pause:
		return Paused, true
	}
	return Paused, false
}
