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

// Package cpu emulates a subset of the 6502 microprocessor. It is enough to
// drive the demonstration machine and to exercise the scheduler. Like all
// 8-bit processors of the era, the 6502 executes instructions according to the
// single byte value read from an address pointed to by the program counter.
// This single byte is the opcode and is looked up in the instruction table.
//
// Unlike a cycle accurate emulation, the CPU executes one whole instruction on
// every call to Step(). The number of cycles the instruction took is
// returned.
//
//	mc := cpu.NewCPU(mem)
//	err := mc.Reset()
//
//	for {
//		cycles, err := mc.Step()
//		if err != nil {
//			return err
//		}
//		if mc.InterruptPending() {
//			cycles, err = mc.Int()
//		}
//	}
//
// The IRQ line is raised and lowered by other parts of the machine with
// SetIRQ(). The interrupt is only serviced if the interrupt disable flag is
// clear.
//
// The BRK instruction is treated as a fault. Any opcode not in the
// instruction table is also a fault.
package cpu
