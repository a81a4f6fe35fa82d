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

import "github.com/jetsetilly/gopher8bit/hardware/cpu"

// DemoProgram toggles the speaker to make a 440Hz tone and writes to video
// memory once per toggle. The vertical blank interrupt handler acknowledges
// the interrupt and writes to a second location in video memory.
//
// The program must be loaded at DefaultOrigin and requires LoadDemo() to set
// the IRQ vector.
var DemoProgram = []uint8{
	0x58,             // $0300 CLI
	0xad, 0x30, 0xc0, // $0301 LDA $C030
	0xa2, 0xe5,       // $0304 LDX #$E5
	0xca,             // $0306 DEX
	0xd0, 0xfd,       // $0307 BNE $0306
	0x8d, 0x00, 0x04, // $0309 STA $0400
	0x4c, 0x01, 0x03, // $030c JMP $0301
}

// the vertical blank interrupt handler
var demoHandler = []uint8{
	0xad, 0x19, 0xc0, // LDA $C019
	0xa9, 0x01,       // LDA #$01
	0x8d, 0x01, 0x04, // STA $0401
	0x40,             // RTI
}

const demoHandlerOrigin uint16 = 0x0380

// LoadDemo loads the demonstration program and enables the vertical blank
// interrupt.
func (m *Machine) LoadDemo() error {
	if err := m.Mem.Load(demoHandler, demoHandlerOrigin); err != nil {
		return err
	}
	m.Mem.PokeVector(cpu.IRQVector, demoHandlerOrigin)
	m.Video.VBLInterrupt = true
	return m.LoadProgram(DemoProgram, DefaultOrigin)
}
