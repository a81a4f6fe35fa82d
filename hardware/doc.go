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

// Package hardware is the base package for the demonstration machine. The
// machine is made of a CPU, a flat memory with video and speaker areas, a
// scanline counting video generator and a one bit speaker. Each part is
// implemented in a sub-package.
//
// The Machine type wires the parts together and provides the collaborators
// needed by the scheduler:
//
//	m := hardware.NewMachine(clocks.SpecNTSC)
//	err := m.LoadDemo()
//
//	sched, err := scheduler.New(cfg, m.Collaborators(), history, pacer, bridge)
//
// The speaker is connected to an audio mixer with AttachAudio().
package hardware
