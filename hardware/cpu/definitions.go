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

// AddressingMode describes the method data for the instruction should be
// received.
type AddressingMode int

// List of supported addressing modes.
const (
	Implied AddressingMode = iota
	Immediate
	Relative
	Absolute
	AbsoluteIndexedX
)

// Definition is the property list for each instruction.
type Definition struct {
	OpCode         uint8
	Operator       string
	Bytes          int
	Cycles         int
	AddressingMode AddressingMode

	// an additional cycle is used if the branch is taken and another if the
	// branch crosses a page boundary
	PageSensitive bool
}

var definitions = []Definition{
	{OpCode: 0x00, Operator: "BRK", Bytes: 1, Cycles: 7, AddressingMode: Implied},
	{OpCode: 0x40, Operator: "RTI", Bytes: 1, Cycles: 6, AddressingMode: Implied},
	{OpCode: 0x4c, Operator: "JMP", Bytes: 3, Cycles: 3, AddressingMode: Absolute},
	{OpCode: 0x58, Operator: "CLI", Bytes: 1, Cycles: 2, AddressingMode: Implied},
	{OpCode: 0x78, Operator: "SEI", Bytes: 1, Cycles: 2, AddressingMode: Implied},
	{OpCode: 0x8d, Operator: "STA", Bytes: 3, Cycles: 4, AddressingMode: Absolute},
	{OpCode: 0x9d, Operator: "STA", Bytes: 3, Cycles: 5, AddressingMode: AbsoluteIndexedX},
	{OpCode: 0xa2, Operator: "LDX", Bytes: 2, Cycles: 2, AddressingMode: Immediate},
	{OpCode: 0xa9, Operator: "LDA", Bytes: 2, Cycles: 2, AddressingMode: Immediate},
	{OpCode: 0xad, Operator: "LDA", Bytes: 3, Cycles: 4, AddressingMode: Absolute},
	{OpCode: 0xca, Operator: "DEX", Bytes: 1, Cycles: 2, AddressingMode: Implied},
	{OpCode: 0xd0, Operator: "BNE", Bytes: 2, Cycles: 2, AddressingMode: Relative, PageSensitive: true},
	{OpCode: 0xe8, Operator: "INX", Bytes: 1, Cycles: 2, AddressingMode: Implied},
	{OpCode: 0xea, Operator: "NOP", Bytes: 1, Cycles: 2, AddressingMode: Implied},
}

// the instruction table indexed by opcode. nil entries are unimplemented
// opcodes
var instructions [256]*Definition

func init() {
	for i := range definitions {
		instructions[definitions[i].OpCode] = &definitions[i]
	}
}

// Lookup returns the definition for the opcode or nil if the opcode is not
// implemented.
func Lookup(opcode uint8) *Definition {
	return instructions[opcode]
}
