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

package performance_test

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jetsetilly/gopher8bit/performance"
	"github.com/jetsetilly/gopher8bit/test"
)

func TestCalcFPS(t *testing.T) {
	fps, accuracy := performance.CalcFPS(120, 2, 60)
	test.ExpectEquality(t, fps, 60.0)
	test.ExpectEquality(t, accuracy, 100.0)

	fps, accuracy = performance.CalcFPS(120, 0, 60)
	test.ExpectEquality(t, fps, 0.0)
	test.ExpectEquality(t, accuracy, 0.0)
}

func TestMeter(t *testing.T) {
	m := performance.NewMeter(50)

	actual, ratio := m.Measure()
	test.ExpectEquality(t, actual, 0.0)
	test.ExpectEquality(t, ratio, 0.0)

	// the first frame is always measured
	time.Sleep(10 * time.Millisecond)
	m.Frame()
	actual, ratio = m.Measure()
	test.ExpectSuccess(t, actual > 0)
	test.ExpectSuccess(t, actual <= 100)
	test.ExpectApproximate(t, ratio, actual/50, 0.001)
}

func TestParseProfile(t *testing.T) {
	p, err := performance.ParseProfileString("cpu,MEM")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileCPU|performance.ProfileMem)

	p, err = performance.ParseProfileString("none")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileNone)

	_, err = performance.ParseProfileString("gpu")
	test.ExpectFailure(t, err)
}

type target struct {
	frames  atomic.Uint64
	quit    chan struct{}
	done    chan struct{}
	stopped bool
}

func (tgt *target) Start() error {
	tgt.quit = make(chan struct{})
	tgt.done = make(chan struct{})
	go func() {
		defer close(tgt.done)
		for {
			select {
			case <-tgt.quit:
				return
			case <-time.After(time.Millisecond):
				tgt.frames.Add(1)
			}
		}
	}()
	return nil
}

func (tgt *target) Stop() error {
	if !tgt.stopped {
		tgt.stopped = true
		close(tgt.quit)
		<-tgt.done
	}
	return nil
}

func (tgt *target) Frames() uint64 {
	return tgt.frames.Load()
}

func (tgt *target) NominalFPS() float32 {
	return 1000
}

func (tgt *target) Done() <-chan struct{} {
	return tgt.done
}

func TestCheck(t *testing.T) {
	performance.Leadtime = 10 * time.Millisecond

	var s strings.Builder
	tgt := &target{}
	err := performance.Check(&s, performance.ProfileNone, tgt, 50*time.Millisecond)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, tgt.stopped)
	test.ExpectSuccess(t, strings.Contains(s.String(), "fps"))
}
