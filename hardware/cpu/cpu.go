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

package cpu

import (
	"fmt"

	"github.com/jetsetilly/gopher8bit/curated"
)

// Sentinel error patterns.
const (
	Unimplemented = "cpu: unimplemented instruction (%#02x) at (%#04x)"
	Break         = "cpu: BRK at (%#04x)"
)

// Addresses of the vectors.
const (
	ResetVector uint16 = 0xfffc
	IRQVector   uint16 = 0xfffe
)

// the stack lives in page one
const stackPage uint16 = 0x0100

// Memory defines the memory operations required by the CPU.
type Memory interface {
	Read(address uint16) uint8
	Write(address uint16, data uint8)
}

// Status register flags. Only the flags used by the implemented instructions
// are emulated.
type Status struct {
	Zero             bool
	Sign             bool
	InterruptDisable bool
}

// Value returns the status register as it would be pushed to the stack.
func (sr Status) Value() uint8 {
	v := uint8(0x20)
	if sr.Sign {
		v |= 0x80
	}
	if sr.InterruptDisable {
		v |= 0x04
	}
	if sr.Zero {
		v |= 0x02
	}
	return v
}

// Load the status register from a value pulled from the stack.
func (sr *Status) Load(v uint8) {
	sr.Sign = v&0x80 == 0x80
	sr.InterruptDisable = v&0x04 == 0x04
	sr.Zero = v&0x02 == 0x02
}

func (sr Status) String() string {
	s := []byte("nzi")
	if sr.Sign {
		s[0] = 'N'
	}
	if sr.Zero {
		s[1] = 'Z'
	}
	if sr.InterruptDisable {
		s[2] = 'I'
	}
	return string(s)
}

// Result records the most recent instruction.
type Result struct {
	Address uint16
	Defn    *Definition
	Cycles  int

	// the operand of the instruction if it has one
	InstructionData uint16

	// false if the instruction did not complete
	Final bool
}

// CPU implements a subset of the 6502.
type CPU struct {
	// the program counter is accessed with PC() and SetPC()
	pc uint16

	A      uint8
	X      uint8
	SP     uint8
	Status Status

	mem Memory

	// the state of the IRQ line
	irq bool

	// last result
	LastResult Result
}

// NewCPU is the preferred method of initialisation for the CPU type. Reset()
// should be called before the first Step().
func NewCPU(mem Memory) *CPU {
	return &CPU{
		mem: mem,
	}
}

func (mc *CPU) String() string {
	return fmt.Sprintf("PC=%04x A=%02x X=%02x SP=%02x SR=%s", mc.pc, mc.A, mc.X, mc.SP, mc.Status)
}

// Reset reinitialises all registers and loads the PC from the reset vector.
func (mc *CPU) Reset() error {
	mc.A = 0
	mc.X = 0
	mc.SP = 0xff
	mc.Status = Status{InterruptDisable: true}
	mc.irq = false
	mc.LastResult = Result{}
	mc.pc = mc.read16(ResetVector)
	return nil
}

// SetIRQ sets the state of the IRQ line.
func (mc *CPU) SetIRQ(active bool) {
	mc.irq = active
}

// PC returns the address of the next instruction.
func (mc *CPU) PC() uint16 {
	return mc.pc
}

// SetPC loads the program counter.
func (mc *CPU) SetPC(address uint16) {
	mc.pc = address
}

// InstructionDone returns true if the most recent call to Step() completed an
// instruction. Always true for this CPU once an instruction has been executed.
func (mc *CPU) InstructionDone() bool {
	return mc.LastResult.Final
}

// InterruptPending returns true if the IRQ line is active and interrupts are
// not disabled.
func (mc *CPU) InterruptPending() bool {
	return mc.irq && !mc.Status.InterruptDisable
}

// Int services an interrupt request. The PC and status register are pushed to
// the stack and the PC is loaded from the IRQ vector. Returns the number of
// cycles consumed.
func (mc *CPU) Int() (int, error) {
	mc.push(uint8(mc.pc >> 8))
	mc.push(uint8(mc.pc))
	mc.push(mc.Status.Value())
	mc.Status.InterruptDisable = true
	mc.pc = mc.read16(IRQVector)
	return 7, nil
}

func (mc *CPU) read16(address uint16) uint16 {
	lo := mc.mem.Read(address)
	hi := mc.mem.Read(address + 1)
	return (uint16(hi) << 8) | uint16(lo)
}

func (mc *CPU) push(v uint8) {
	mc.mem.Write(stackPage|uint16(mc.SP), v)
	mc.SP--
}

func (mc *CPU) pull() uint8 {
	mc.SP++
	return mc.mem.Read(stackPage | uint16(mc.SP))
}

func (mc *CPU) setZeroSign(v uint8) {
	mc.Status.Zero = v == 0
	mc.Status.Sign = v&0x80 == 0x80
}

// Step executes one instruction and returns the number of cycles consumed.
func (mc *CPU) Step() (int, error) {
	mc.LastResult = Result{
		Address: mc.pc,
	}

	opcode := mc.mem.Read(mc.pc)
	defn := Lookup(opcode)
	if defn == nil {
		return 0, curated.Errorf(Unimplemented, opcode, mc.pc)
	}
	if defn.Operator == "BRK" {
		return 0, curated.Errorf(Break, mc.pc)
	}

	mc.LastResult.Defn = defn
	mc.LastResult.Cycles = defn.Cycles
	mc.pc++

	// operand
	switch defn.Bytes {
	case 2:
		mc.LastResult.InstructionData = uint16(mc.mem.Read(mc.pc))
		mc.pc++
	case 3:
		mc.LastResult.InstructionData = mc.read16(mc.pc)
		mc.pc += 2
	}

	// effective address for instructions that access memory
	address := mc.LastResult.InstructionData
	if defn.AddressingMode == AbsoluteIndexedX {
		address += uint16(mc.X)
	}

	switch defn.Operator {
	case "NOP":
	case "CLI":
		mc.Status.InterruptDisable = false
	case "SEI":
		mc.Status.InterruptDisable = true
	case "LDA":
		if defn.AddressingMode == Immediate {
			mc.A = uint8(mc.LastResult.InstructionData)
		} else {
			mc.A = mc.mem.Read(address)
		}
		mc.setZeroSign(mc.A)
	case "LDX":
		mc.X = uint8(mc.LastResult.InstructionData)
		mc.setZeroSign(mc.X)
	case "STA":
		mc.mem.Write(address, mc.A)
	case "INX":
		mc.X++
		mc.setZeroSign(mc.X)
	case "DEX":
		mc.X--
		mc.setZeroSign(mc.X)
	case "BNE":
		if !mc.Status.Zero {
			mc.LastResult.Cycles++
			target := mc.pc + uint16(int8(mc.LastResult.InstructionData))
			if target&0xff00 != mc.pc&0xff00 {
				mc.LastResult.Cycles++
			}
			mc.pc = target
		}
	case "JMP":
		mc.pc = address
	case "RTI":
		mc.Status.Load(mc.pull())
		lo := mc.pull()
		hi := mc.pull()
		mc.pc = (uint16(hi) << 8) | uint16(lo)
	}

	mc.LastResult.Final = true

	return mc.LastResult.Cycles, nil
}
