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
	"testing"
	"time"

	"github.com/jetsetilly/gopher8bit/test"
)

func TestMeterNoElapsedTime(t *testing.T) {
	m := NewMeter(60)

	// a reference time that hasn't been reached yet means no time has
	// elapsed. no measurement is taken and the frame is still counted
	m.refTime = time.Now().Add(time.Hour)
	m.Frame()
	actual, _ := m.Measure()
	test.ExpectEquality(t, actual, 0.0)
	test.ExpectEquality(t, m.count, 1)
	test.ExpectEquality(t, m.target, 1)

	// a very high frame rate doesn't produce an unbounded target
	m.refTime = time.Now().Add(-time.Nanosecond)
	m.Frame()
	actual, _ = m.Measure()
	test.ExpectFailure(t, math.IsInf(float64(actual), 0))
	test.ExpectEquality(t, m.target, maxTarget)
	test.ExpectEquality(t, m.count, 0)
}
