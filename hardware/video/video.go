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

// Package video is the display generator of the demonstration machine. It
// does not produce pixels. It counts scanlines and frames and raises the
// vertical blank interrupt.
package video

import (
	"fmt"

	"github.com/jetsetilly/gopher8bit/hardware/clocks"
)

// Video counts scanlines and frames.
type Video struct {
	spec clocks.Spec

	Scanline int
	Frame    int

	// if VBLInterrupt is true the irq function is called with true at the
	// start of the vertical blank. it is called with false when the interrupt
	// is acknowledged or at the end of the frame
	VBLInterrupt bool
	irq          func(bool)
}

// NewVideo is the preferred method of initialisation for the Video type.
func NewVideo(spec clocks.Spec, irq func(bool)) *Video {
	return &Video{
		spec: spec,
		irq:  irq,
	}
}

func (vid *Video) String() string {
	return fmt.Sprintf("%s frame: %d scanline: %d", vid.spec.ID, vid.Frame, vid.Scanline)
}

// Reset the scanline and frame counters.
func (vid *Video) Reset() {
	vid.Scanline = 0
	vid.Frame = 0
	if vid.irq != nil {
		vid.irq(false)
	}
}

// Acknowledge the vertical blank interrupt.
func (vid *Video) Acknowledge() {
	if vid.irq != nil {
		vid.irq(false)
	}
}

// RenderScanline advances to the next scanline. Returns true if the scanline
// completed a frame.
func (vid *Video) RenderScanline() (bool, error) {
	vid.Scanline++

	if vid.Scanline == vid.spec.VBlankScanline && vid.VBLInterrupt && vid.irq != nil {
		vid.irq(true)
	}

	if vid.Scanline >= vid.spec.ScanlinesPerFrame {
		vid.Scanline = 0
		vid.Frame++
		if vid.irq != nil {
			vid.irq(false)
		}
		return true, nil
	}

	return false, nil
}
