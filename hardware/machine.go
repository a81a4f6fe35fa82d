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

package hardware

import (
	"fmt"
	"os"

	"github.com/jetsetilly/gopher8bit/audio"
	"github.com/jetsetilly/gopher8bit/hardware/clocks"
	"github.com/jetsetilly/gopher8bit/hardware/cpu"
	"github.com/jetsetilly/gopher8bit/hardware/memory"
	"github.com/jetsetilly/gopher8bit/hardware/speaker"
	"github.com/jetsetilly/gopher8bit/hardware/video"
	"github.com/jetsetilly/gopher8bit/scheduler"
)

// DefaultOrigin is the address at which programs are loaded unless otherwise
// specified.
const DefaultOrigin uint16 = 0x0300

// Machine is the main container for the emulated components of the
// demonstration machine.
type Machine struct {
	Spec clocks.Spec

	CPU     *cpu.CPU
	Mem     *memory.Memory
	Video   *video.Video
	Speaker *speaker.Speaker
}

// NewMachine creates a new Machine and everything associated with the
// hardware. A program should be loaded before the machine is scheduled.
func NewMachine(spec clocks.Spec) *Machine {
	m := &Machine{
		Spec:    spec,
		Mem:     memory.NewMemory(),
		Speaker: speaker.NewSpeaker(),
	}
	m.CPU = cpu.NewCPU(m.Mem)
	m.Video = video.NewVideo(spec, m.CPU.SetIRQ)
	m.Mem.SetSpeaker(m.Speaker.Toggle)
	m.Mem.SetVBLAck(m.Video.Acknowledge)
	return m
}

func (m *Machine) String() string {
	return fmt.Sprintf("%s %s", m.CPU, m.Video)
}

// Collaborators returns the parts of the machine required by the scheduler.
func (m *Machine) Collaborators() scheduler.Collaborators {
	return scheduler.Collaborators{
		CPU:      m.CPU,
		Memory:   m.Mem,
		Video:    m.Video,
		Resetter: m,
	}
}

// AttachAudio connects the speaker to the mixer.
func (m *Machine) AttachAudio(mixer speaker.Mixer, clock audio.Clock) error {
	return m.Speaker.Attach(mixer, clock)
}

// LoadProgram copies the program into memory at the origin, points the reset
// vector at the origin and resets the machine.
func (m *Machine) LoadProgram(program []uint8, origin uint16) error {
	if err := m.Mem.Load(program, origin); err != nil {
		return fmt.Errorf("hardware: %w", err)
	}
	m.Mem.PokeVector(cpu.ResetVector, origin)
	return m.Reset()
}

// LoadFile loads a raw binary file. See LoadProgram().
func (m *Machine) LoadFile(filename string, origin uint16) error {
	program, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("hardware: %w", err)
	}
	return m.LoadProgram(program, origin)
}

// Reset emulates the reset switch. Memory is not cleared.
//   - reset the CPU and load the reset address into the PC
//   - reset the video counters
//   - reset the speaker cone
//
// Implements the scheduler.Resetter interface.
func (m *Machine) Reset() error {
	if err := m.CPU.Reset(); err != nil {
		return fmt.Errorf("hardware: %w", err)
	}
	m.Video.Reset()
	m.Speaker.Reset()
	return nil
}
