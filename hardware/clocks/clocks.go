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

// Package clocks defines the timing of the demonstration machine. The values
// are those of an 8-bit home computer with a 14.31818MHz master crystal
// divided down to a CPU clock of roughly 1MHz.
package clocks

import (
	"fmt"
	"strings"
)

// CPU clock rates in MHz.
const (
	NTSC = 1.020484
	PAL  = 1.015625
)

// Spec describes the timing of one video standard.
type Spec struct {
	ID string

	// CPU clock rate in Hz
	ClockRate float64

	CyclesPerScanline int
	ScanlinesPerFrame int

	// the scanline on which the vertical blank begins
	VBlankScanline int
}

// Specifications of the supported video standards.
var (
	SpecNTSC = Spec{
		ID:                "NTSC",
		ClockRate:         NTSC * 1000000,
		CyclesPerScanline: 65,
		ScanlinesPerFrame: 262,
		VBlankScanline:    192,
	}

	SpecPAL = Spec{
		ID:                "PAL",
		ClockRate:         PAL * 1000000,
		CyclesPerScanline: 65,
		ScanlinesPerFrame: 312,
		VBlankScanline:    192,
	}
)

// FPS returns the number of frames per second produced by real hardware.
func (s Spec) FPS() float32 {
	return float32(s.ClockRate / float64(s.CyclesPerScanline*s.ScanlinesPerFrame))
}

// SpecByID returns the Spec with the matching ID. The ID is not case
// sensitive.
func SpecByID(id string) (Spec, error) {
	switch strings.ToUpper(id) {
	case "NTSC":
		return SpecNTSC, nil
	case "PAL":
		return SpecPAL, nil
	}
	return Spec{}, fmt.Errorf("clocks: unknown specification (%s)", id)
}
