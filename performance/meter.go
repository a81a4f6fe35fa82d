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

package performance

import (
	"math"
	"sync/atomic"
	"time"
)

// the largest number of frames counted between measurements
const maxTarget = 1000

// Meter measures the actual frame rate of the emulation. Frame() should be
// called by the goroutine running the emulation at the end of every frame.
// Measure() can be called from any goroutine.
type Meter struct {
	nominal float32

	// number of frames since the reference time. the measurement is taken
	// when count reaches target
	count   int
	target  int
	refTime time.Time

	// float32 bits of the most recent measurement
	actual atomic.Uint32
}

// NewMeter is the preferred method of initialisation for the Meter type. The
// nominal frame rate is the rate at which the emulated machine would produce
// frames on real hardware.
func NewMeter(nominal float32) *Meter {
	m := &Meter{
		nominal: nominal,
	}
	m.Reset()
	return m
}

// Reset the measurement. Should be called whenever the emulation has not been
// running for a while (eg. after a pause) otherwise the next measurement will
// be too low.
func (m *Meter) Reset() {
	m.count = 0
	m.target = 1
	m.refTime = time.Now()
}

// Frame is called every frame to calculate the actual frame rate.
func (m *Meter) Frame() {
	m.count++
	if m.count < m.target {
		return
	}

	t := time.Now()
	elapsed := t.Sub(m.refTime).Seconds()

	// no measurable time has passed. keep counting until there is
	if elapsed <= 0 {
		return
	}

	actual := float32(float64(m.count) / elapsed)
	m.actual.Store(math.Float32bits(actual))

	// the number of frames to count before taking the next measurement is set
	// to the current frame rate. this means that we remeasure about once a
	// second. if the frame rate is very low then we remeasure every frame
	m.target = int(min(max(actual, 1), maxTarget))

	m.refTime = t
	m.count = 0
}

// Measure returns the most recent frame rate measurement and the ratio of that
// measurement to the nominal frame rate.
func (m *Meter) Measure() (actual float32, ratio float32) {
	actual = math.Float32frombits(m.actual.Load())
	if m.nominal <= 0 {
		return actual, 0
	}
	return actual, actual / m.nominal
}

// Nominal returns the frame rate the emulated machine would run at on real
// hardware.
func (m *Meter) Nominal() float32 {
	return m.nominal
}
