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

package audio_test

import (
	"testing"
	"time"

	"github.com/jetsetilly/gopher8bit/audio"
	"github.com/jetsetilly/gopher8bit/test"
)

type clock uint64

func (c *clock) Cycles() uint64 {
	return uint64(*c)
}

// one sample is exactly ten cycles
var testSpec = audio.Spec{
	ClockRate:  441000,
	SampleRate: 44100,
	PeriodLen:  64,
	Permits:    2,
}

func constant(v float32) audio.RenderFunc {
	return func(buf []float32) {
		for i := range buf {
			buf[i] += v
		}
	}
}

func counting(n *int) audio.RenderFunc {
	return func(buf []float32) {
		*n += len(buf)
	}
}

func TestSpec(t *testing.T) {
	_, err := audio.NewPacer(audio.Spec{}, new(clock))
	test.ExpectFailure(t, err)

	s := audio.Spec{ClockRate: 1000, SampleRate: 1000, PeriodLen: 500, Permits: 1}
	test.ExpectEquality(t, s.PeriodDuration(), 500*time.Millisecond)
}

func TestSilence(t *testing.T) {
	p, err := audio.NewPacer(testSpec, new(clock))
	test.DemandSuccess(t, err)

	out := p.FinishPeriod()
	test.DemandEquality(t, len(out), testSpec.PeriodLen)
	for i := range out {
		test.ExpectEquality(t, out[i], 0.0, i)
	}

	// a channel that renders into the mix buffer and is then closed leaves
	// nothing behind
	id := p.OpenChannel(constant(1.0))
	test.DemandInequality(t, id, audio.NoSlot)
	p.AdvanceChannel(id, 100)
	p.CloseChannel(id)

	out = p.FinishPeriod()
	for i := range out {
		test.ExpectEquality(t, out[i], 0.0, i)
	}

	// and the mix buffer was cleared too
	id = p.OpenChannel(constant(0.0))
	out = p.FinishPeriod()
	for i := range out {
		test.ExpectEquality(t, out[i], 0.0, i)
	}
	p.CloseChannel(id)
}

func TestMonotonicity(t *testing.T) {
	c := clock(1000)
	p, err := audio.NewPacer(testSpec, &c)
	test.DemandSuccess(t, err)

	var n int
	id := p.OpenChannel(counting(&n))

	test.ExpectEquality(t, p.AdvanceChannel(id, 1000), 0)
	test.ExpectEquality(t, p.AdvanceChannel(id, 500), 0)
	test.ExpectEquality(t, p.AdvanceChannel(id, 1100), 10)
	test.ExpectEquality(t, p.AdvanceChannel(id, 1100), 0)
	test.ExpectEquality(t, p.AdvanceChannel(id, 1050), 0)
	test.ExpectEquality(t, n, 10)

	// fractional samples are carried forward
	test.ExpectEquality(t, p.AdvanceChannel(id, 1105), 0)
	test.ExpectEquality(t, p.AdvanceChannel(id, 1110), 1)
}

func TestClamp(t *testing.T) {
	p, err := audio.NewPacer(testSpec, new(clock))
	test.DemandSuccess(t, err)

	var n int
	id := p.OpenChannel(counting(&n))

	// far more cycles than one period can hold
	test.ExpectEquality(t, p.AdvanceChannel(id, 100000), testSpec.PeriodLen)
	test.ExpectEquality(t, p.AdvanceChannel(id, 100100), 0)
	test.ExpectEquality(t, n, testSpec.PeriodLen)

	// the channel is synced to the target so the next period starts from there
	p.FinishPeriod()
	test.ExpectEquality(t, p.AdvanceChannel(id, 100200), 10)
}

func TestFrozenClock(t *testing.T) {
	c := clock(0)
	p, err := audio.NewPacer(testSpec, &c)
	test.DemandSuccess(t, err)

	var n int
	id := p.OpenChannel(counting(&n))

	// many periods are consumed while the emulated clock doesn't move
	for range 86 {
		p.FinishPeriod()
	}
	test.ExpectEquality(t, n, 86*testSpec.PeriodLen)

	// when the clock moves again the channel renders from the current cycle
	c = clock(10 * testSpec.PeriodLen)
	test.ExpectEquality(t, p.AdvanceChannel(id, uint64(c)), testSpec.PeriodLen)

	p.FinishPeriod()
	c += 100
	test.ExpectEquality(t, p.AdvanceChannel(id, uint64(c)), 10)

	// when the clock is ahead of the channel the catch up moves the channel
	// forward by one period and no further
	p.FinishPeriod()
	c += clock(20 * testSpec.PeriodLen)
	p.FinishPeriod()
	test.ExpectEquality(t, p.AdvanceChannel(id, uint64(c)), testSpec.PeriodLen)
}

func TestFairMix(t *testing.T) {
	for _, channels := range []int{1, 2, 3, 7} {
		p, err := audio.NewPacer(testSpec, new(clock))
		test.DemandSuccess(t, err)

		for i := 0; i < channels; i++ {
			id := p.OpenChannel(constant(0.25))
			test.DemandInequality(t, id, audio.NoSlot)

			// some channels are advanced part way, some are left for
			// FinishPeriod() to catch up
			if i%2 == 0 {
				p.AdvanceChannel(id, uint64(10*(i+1)))
			}
		}

		out := p.FinishPeriod()
		for i := range out {
			test.ExpectEquality(t, out[i], float32(0.25), channels, i)
		}

		// second period is the same
		out = p.FinishPeriod()
		for i := range out {
			test.ExpectEquality(t, out[i], float32(0.25), channels, i)
		}
	}
}

func TestSlotTable(t *testing.T) {
	p, err := audio.NewPacer(testSpec, new(clock))
	test.DemandSuccess(t, err)

	for i := 0; i < audio.MaxChannels; i++ {
		test.ExpectEquality(t, p.OpenChannel(constant(0)), i)
	}
	test.ExpectEquality(t, p.OpenChannel(constant(0)), audio.NoSlot)
	test.ExpectEquality(t, p.OpenChannels(), audio.MaxChannels)

	// slots are reused by index
	p.CloseChannel(3)
	p.CloseChannel(3)
	test.ExpectEquality(t, p.OpenChannels(), audio.MaxChannels-1)
	test.ExpectEquality(t, p.OpenChannel(constant(0)), 3)

	// advancing a closed or invalid slot does nothing
	p.CloseChannel(5)
	test.ExpectEquality(t, p.AdvanceChannel(5, 1000), 0)
	test.ExpectEquality(t, p.AdvanceChannel(audio.NoSlot, 1000), 0)
	test.ExpectEquality(t, p.AdvanceChannel(audio.MaxChannels, 1000), 0)
}

func TestPermits(t *testing.T) {
	p, err := audio.NewPacer(testSpec, new(clock))
	test.DemandSuccess(t, err)

	// no permit available
	test.ExpectFailure(t, p.Wait(time.Millisecond, nil))

	// releases beyond the capacity are lost
	for range 10 {
		p.FinishPeriod()
	}
	test.ExpectSuccess(t, p.Wait(time.Millisecond, nil))
	test.ExpectSuccess(t, p.Wait(time.Millisecond, nil))
	test.ExpectFailure(t, p.Wait(time.Millisecond, nil))

	// cancel channel ends the wait early
	cancel := make(chan struct{})
	close(cancel)
	start := time.Now()
	test.ExpectFailure(t, p.Wait(time.Hour, cancel))
	test.ExpectSuccess(t, time.Since(start) < time.Second)
}

type tap struct {
	periods int
	last    float32
}

func (tp *tap) Period(samples []float32, _ int) {
	tp.periods++
	tp.last = samples[len(samples)-1]
}

func TestTap(t *testing.T) {
	p, err := audio.NewPacer(testSpec, new(clock))
	test.DemandSuccess(t, err)

	tp := &tap{}
	p.AddTap(tp)
	p.OpenChannel(constant(0.5))
	p.FinishPeriod()
	p.FinishPeriod()
	test.ExpectEquality(t, tp.periods, 2)
	test.ExpectEquality(t, tp.last, float32(0.5))
}
