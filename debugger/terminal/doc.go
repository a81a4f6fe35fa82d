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

// Package terminal is a keyboard controller for a running session. Keys are
// read one at a time from the terminal, without waiting for the return key,
// and translated into requests to the scheduler. Notifications from the
// debug event bridge are shown as a status line.
//
// Keys:
//
//	space	run/pause
//	f	run at full speed
//	s	step one instruction
//	r	reset
//	u	restore the state before the most recent pause
//	t	print the instruction history
//	y	print the instruction history as YAML
//	m	write a graphviz view of the machine
//	q	quit
package terminal
