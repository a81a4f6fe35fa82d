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

package headless_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jetsetilly/gopher8bit/audio"
	"github.com/jetsetilly/gopher8bit/audio/headless"
	"github.com/jetsetilly/gopher8bit/test"
	"github.com/stretchr/testify/require"
)

type clock struct{}

func (clock) Cycles() uint64 {
	return 0
}

type tap struct {
	periods atomic.Int32
}

func (t *tap) Period(_ []float32, _ int) {
	t.periods.Add(1)
}

func TestRealTime(t *testing.T) {
	// a period every 10ms
	spec := audio.Spec{
		ClockRate:  1000000,
		SampleRate: 10000,
		PeriodLen:  100,
		Permits:    2,
	}
	p, err := audio.NewPacer(spec, clock{})
	test.DemandSuccess(t, err)

	tp := &tap{}
	p.AddTap(tp)

	aud := headless.NewAudio(p)
	test.DemandSuccess(t, aud.Start())

	require.Eventually(t, func() bool {
		return tp.periods.Load() >= 5
	}, time.Second, time.Millisecond)

	// permits are available to the emulation
	test.ExpectSuccess(t, p.Wait(100*time.Millisecond, nil))

	test.ExpectSuccess(t, aud.End())
	test.ExpectSuccess(t, aud.End())

	// no more periods after the back end has ended
	n := tp.periods.Load()
	time.Sleep(30 * time.Millisecond)
	test.ExpectEquality(t, tp.periods.Load(), n)
}

func TestEndWithoutStart(t *testing.T) {
	p, err := audio.NewPacer(audio.DefaultSpec, clock{})
	test.DemandSuccess(t, err)
	aud := headless.NewAudio(p)
	test.ExpectSuccess(t, aud.End())
}
