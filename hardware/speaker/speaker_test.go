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

package speaker_test

import (
	"testing"

	"github.com/jetsetilly/gopher8bit/audio"
	"github.com/jetsetilly/gopher8bit/hardware/speaker"
	"github.com/jetsetilly/gopher8bit/test"
)

type clock struct {
	cycles uint64
}

func (c *clock) Cycles() uint64 {
	return c.cycles
}

func TestSquareWave(t *testing.T) {
	// one sample every ten cycles. ten samples in a period
	spec := audio.Spec{
		ClockRate:  1000,
		SampleRate: 100,
		PeriodLen:  10,
		Permits:    1,
	}

	clk := &clock{}
	p, err := audio.NewPacer(spec, clk)
	test.DemandSuccess(t, err)

	spk := speaker.NewSpeaker()
	test.DemandSuccess(t, spk.Attach(p, clk))
	test.ExpectEquality(t, p.OpenChannels(), 1)

	// low for four samples, high for three samples and then low for the
	// remainder of the period
	clk.cycles = 40
	spk.Toggle()
	clk.cycles = 70
	spk.Toggle()

	out := p.FinishPeriod()
	test.DemandEquality(t, len(out), 10)
	for i, v := range out {
		if i >= 4 && i < 7 {
			test.ExpectEquality(t, v, float32(speaker.Amplitude), i)
		} else {
			test.ExpectEquality(t, v, float32(-speaker.Amplitude), i)
		}
	}
	test.ExpectEquality(t, spk.Toggles(), 2)

	spk.Detach()
	test.ExpectEquality(t, p.OpenChannels(), 0)

	// toggling while detached is harmless
	spk.Toggle()
}

type fullMixer struct{}

func (fullMixer) OpenChannel(_ audio.RenderFunc) int {
	return audio.NoSlot
}

func (fullMixer) CloseChannel(_ int) {}

func (fullMixer) AdvanceChannel(_ int, _ uint64) int {
	return 0
}

func TestNoSlot(t *testing.T) {
	spk := speaker.NewSpeaker()
	test.ExpectFailure(t, spk.Attach(fullMixer{}, &clock{}))
}
