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

// State indicates the emulation's state.
type State int

// List of possible emulation states.
//
// Running is paced by the consumption of audio. RunningFullSpeed is not paced
// at all and will use as much CPU time as the host allows.
const (
	Paused State = iota
	Running
	RunningFullSpeed
)

func (s State) String() string {
	switch s {
	case Paused:
		return "Paused"
	case Running:
		return "Running"
	case RunningFullSpeed:
		return "RunningFullSpeed"
	}

	return ""
}

// IsRunning returns true for either of the running states.
func (s State) IsRunning() bool {
	return s == Running || s == RunningFullSpeed
}
