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

// Package memory implements the address space of the demonstration machine.
//
// The memory is a flat 64KiB of RAM with some special areas:
//
//	$0400 - $07ff	video memory. accesses are counted for clock stretching
//	$c019		vertical blank acknowledge. any access lowers the interrupt
//	$c030		speaker soft switch. any access toggles the speaker
//
// The CPU accesses memory through Read() and Write(). The debugger and the
// scheduler's instruction trace access memory through Peek(), which has no
// side effects.
package memory
