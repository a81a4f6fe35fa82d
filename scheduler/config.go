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

package scheduler

import (
	"fmt"
	"time"
)

// Config for the Scheduler.
type Config struct {
	// the number of CPU cycles in one scanline
	CyclesPerScanline int

	// the maximum time to wait for a pacing permit in the Running state. this
	// guarantees that the emulation keeps moving even if the audio back end
	// has stalled
	PacingTimeout time.Duration

	// the maximum time the goroutine sleeps in the Paused state before
	// checking whether it has been stopped
	PausedTimeout time.Duration

	// the frame rate of the machine on real hardware. used by the performance
	// meter
	NominalFPS float32

	// the number of emulated cycles covered by one pacing permit. this is the
	// length of one audio period in CPU cycles. zero means one permit per
	// frame
	CyclesPerPermit float64
}

// DefaultConfig is suitable for a machine with a 1MHz CPU clock and a 60Hz
// display.
var DefaultConfig = Config{
	CyclesPerScanline: 65,
	PacingTimeout:     40 * time.Millisecond,
	PausedTimeout:     time.Second,
	NominalFPS:        59.92,
}

func (cfg Config) validate() error {
	if cfg.CyclesPerScanline <= 0 {
		return fmt.Errorf("scheduler: cycles per scanline must be positive")
	}
	if cfg.PacingTimeout <= 0 || cfg.PausedTimeout <= 0 {
		return fmt.Errorf("scheduler: timeouts must be positive")
	}
	if cfg.CyclesPerPermit < 0 {
		return fmt.Errorf("scheduler: cycles per permit must not be negative")
	}
	return nil
}
