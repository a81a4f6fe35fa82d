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

package trace

import (
	"fmt"
	"sync/atomic"
)

// SnapshotLen is the number of bytes copied from memory at the start address
// of each instruction. It is the length of the longest instruction.
const SnapshotLen = 3

// DefaultDepth is the default number of entries in the buffer.
const DefaultDepth = 256

// Entry records a single retired instruction.
type Entry struct {
	// address of the first byte of the instruction
	PC uint16

	// number of cycles the instruction took, including any interrupt
	// dispatched at the end of the instruction
	Cycles int

	// raw bytes at PC when the instruction began
	Bytes [SnapshotLen]uint8
}

func (e Entry) String() string {
	return fmt.Sprintf("$%04x: % x (%d cycles)", e.PC, e.Bytes, e.Cycles)
}

// Buffer is the write side of the instruction history. NextEmptySlot() must
// only ever be called by the goroutine that is executing instructions.
type Buffer struct {
	pool []Entry

	// index of the most recently returned slot. walks backwards through the
	// pool
	idx int

	// number of slots used since the last Reset(). saturates at len(pool)
	filled int

	history atomic.Pointer[History]
}

// NewBuffer is the preferred method of initialisation for the Buffer type.
// Depth must be at least two.
func NewBuffer(depth int) (*Buffer, error) {
	if depth < 2 {
		return nil, fmt.Errorf("trace: depth must be at least two (%d)", depth)
	}
	b := &Buffer{
		pool: make([]Entry, depth),
	}
	b.history.Store(&History{})
	return b, nil
}

// Depth returns the number of entries that the buffer holds.
func (b *Buffer) Depth() int {
	return len(b.pool)
}

// NextEmptySlot returns the next pooled entry for the caller to overwrite.
// The entry is the most recent one until the next call.
func (b *Buffer) NextEmptySlot() *Entry {
	b.idx--
	if b.idx < 0 {
		b.idx = len(b.pool) - 1
	}
	if b.filled < len(b.pool) {
		b.filled++
	}
	return &b.pool[b.idx]
}

// UpdateHistory copies the write pool into a new History and publishes it.
func (b *Buffer) UpdateHistory() {
	h := &History{
		entries: make([]Entry, len(b.pool)),
		newest:  b.idx,
		filled:  b.filled,
	}
	copy(h.entries, b.pool)
	b.history.Store(h)
}

// Reset forgets all entries. Like NextEmptySlot() it must only be called by
// the goroutine executing instructions. The published History is emptied too.
func (b *Buffer) Reset() {
	clear(b.pool)
	b.idx = 0
	b.filled = 0
	b.history.Store(&History{})
}

// History returns the most recently published History. Safe to call from any
// goroutine.
func (b *Buffer) History() *History {
	return b.history.Load()
}

// At is a convenience function equivalent to History().At(i).
func (b *Buffer) At(i int) (Entry, bool) {
	return b.History().At(i)
}

// History is an immutable copy of the write pool.
type History struct {
	entries []Entry
	newest  int
	filled  int
}

// Len returns the number of entries that are available in the History.
func (h *History) Len() int {
	return h.filled
}

// At returns the i-th most recent entry. Index zero is the most recently
// retired instruction. The second return value is false if there is no entry
// at that index.
func (h *History) At(i int) (Entry, bool) {
	if i < 0 || i >= h.filled {
		return Entry{}, false
	}
	return h.entries[(h.newest+i)%len(h.entries)], true
}

// Entries returns up to n entries, most recent first.
func (h *History) Entries(n int) []Entry {
	n = min(n, h.filled)
	e := make([]Entry, n)
	for i := range e {
		e[i], _ = h.At(i)
	}
	return e
}
