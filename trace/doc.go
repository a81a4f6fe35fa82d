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

// Package trace keeps a bounded history of retired CPU instructions.
//
// The Buffer has two sides. The write side is a fixed pool of entries that
// the scheduler overwrites in place, one entry per retired instruction, with
// no allocation and no locking. The read side is a History, which is a copy of
// the write pool taken by UpdateHistory(). UpdateHistory() is only called at
// debugger notification boundaries, not for every instruction.
//
// A History is never changed once it has been published so a reader holding
// one cannot see a torn entry, however long it holds on to it.
package trace
