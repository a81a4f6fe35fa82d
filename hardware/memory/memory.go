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

package memory

import "fmt"

// Memory map.
const (
	VideoOrigin uint16 = 0x0400
	VideoMemtop uint16 = 0x07ff
	VBLAck      uint16 = 0xc019
	Speaker     uint16 = 0xc030
)

// Memory is the 64KiB address space.
type Memory struct {
	ram [0x10000]uint8

	// number of accesses to video memory since the last reset
	videoAccess int

	// called whenever the speaker soft switch is accessed
	speaker func()

	// called whenever the vertical blank acknowledge soft switch is accessed
	vblAck func()
}

// NewMemory is the preferred method of initialisation for the Memory type.
func NewMemory() *Memory {
	return &Memory{}
}

func (mem *Memory) String() string {
	return fmt.Sprintf("video accesses: %d", mem.videoAccess)
}

// SetSpeaker sets the function called when the speaker soft switch is
// accessed.
func (mem *Memory) SetSpeaker(f func()) {
	mem.speaker = f
}

// SetVBLAck sets the function called when the vertical blank acknowledge
// soft switch is accessed.
func (mem *Memory) SetVBLAck(f func()) {
	mem.vblAck = f
}

func (mem *Memory) access(address uint16) {
	switch {
	case address >= VideoOrigin && address <= VideoMemtop:
		mem.videoAccess++
	case address == Speaker:
		if mem.speaker != nil {
			mem.speaker()
		}
	case address == VBLAck:
		if mem.vblAck != nil {
			mem.vblAck()
		}
	}
}

// Read implements the cpu.Memory interface.
func (mem *Memory) Read(address uint16) uint8 {
	mem.access(address)
	return mem.ram[address]
}

// Write implements the cpu.Memory interface. Writes to a soft switch trigger
// the switch but do not change the value stored at the address.
func (mem *Memory) Write(address uint16, data uint8) {
	mem.access(address)
	if address == Speaker || address == VBLAck {
		return
	}
	mem.ram[address] = data
}

// Peek returns the value at the address without side effects.
func (mem *Memory) Peek(address uint16) uint8 {
	return mem.ram[address]
}

// Poke sets the value at the address without side effects.
func (mem *Memory) Poke(address uint16, data uint8) {
	mem.ram[address] = data
}

// VideoMemAccessCount returns the number of accesses to video memory since the
// last call to ResetVideoMemAccessCount().
func (mem *Memory) VideoMemAccessCount() int {
	return mem.videoAccess
}

// ResetVideoMemAccessCount sets the video memory access count to zero.
func (mem *Memory) ResetVideoMemAccessCount() {
	mem.videoAccess = 0
}

// Load copies the program into memory starting at the origin.
func (mem *Memory) Load(program []uint8, origin uint16) error {
	if len(program) == 0 {
		return fmt.Errorf("memory: program is empty")
	}
	if int(origin)+len(program) > len(mem.ram) {
		return fmt.Errorf("memory: program of %d bytes does not fit at origin %#04x", len(program), origin)
	}
	copy(mem.ram[origin:], program)
	return nil
}

// PokeVector writes a little-endian address at the vector location.
func (mem *Memory) PokeVector(vector uint16, address uint16) {
	mem.ram[vector] = uint8(address)
	mem.ram[vector+1] = uint8(address >> 8)
}

// VideoMemory returns a copy of the video memory.
func (mem *Memory) VideoMemory() []uint8 {
	v := make([]uint8, int(VideoMemtop-VideoOrigin)+1)
	copy(v, mem.ram[VideoOrigin:VideoMemtop+1])
	return v
}
