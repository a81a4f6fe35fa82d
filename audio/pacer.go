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

package audio

import (
	"fmt"
	"sync"
	"time"
)

// NoSlot is returned by OpenChannel() when there are no free slots.
const NoSlot = -1

// MaxChannels is the number of slots in the channel table.
const MaxChannels = 16

// RenderFunc adds samples to buf. The length of buf is the number of samples
// to render. Values already in buf belong to other channels and must be added
// to, not overwritten.
type RenderFunc func(buf []float32)

// Clock is the source of the current emulated cycle.
type Clock interface {
	Cycles() uint64
}

// ClockFunc allows an ordinary function to be used as a Clock.
type ClockFunc func() uint64

// Cycles implements the Clock interface.
func (f ClockFunc) Cycles() uint64 {
	return f()
}

// Spec describes the relationship between emulated time and audio time.
type Spec struct {
	// the rate of the emulated CPU clock in Hz
	ClockRate float64

	// the output sample rate in Hz
	SampleRate int

	// the number of samples in one period
	PeriodLen int

	// the maximum number of outstanding pacing permits
	Permits int
}

// DefaultSpec is suitable for a machine with a 1MHz CPU clock.
var DefaultSpec = Spec{
	ClockRate:  1020484,
	SampleRate: 44100,
	PeriodLen:  512,
	Permits:    2,
}

// PeriodDuration returns the wall clock duration of one period.
func (s Spec) PeriodDuration() time.Duration {
	return time.Duration(float64(s.PeriodLen) / float64(s.SampleRate) * float64(time.Second))
}

type slot struct {
	open   bool
	render RenderFunc

	// the cycle position up to which the channel has been rendered. fractional
	// because a sample is not a whole number of cycles
	synced float64

	// the number of samples rendered into the current period
	cursor int
}

// Pacer is the audio mixer and the source of pacing permits.
type Pacer struct {
	spec  Spec
	clock Clock

	cyclesPerSample float64

	// crit protects the mix buffer, the output buffer and the slot table
	crit  sync.Mutex
	mix   []float32
	out   []float32
	slots [MaxChannels]slot
	open  int

	permits chan struct{}

	taps []Tap
}

// Tap is given a copy of every period of mixed output. Period() is called with
// the Pacer's critical section held and must not call back into the Pacer.
type Tap interface {
	Period(samples []float32, sampleRate int)
}

// NewPacer is the preferred method of initialisation for the Pacer type.
func NewPacer(spec Spec, clock Clock) (*Pacer, error) {
	if spec.ClockRate <= 0 || spec.SampleRate <= 0 {
		return nil, fmt.Errorf("audio: clock rate and sample rate must be positive")
	}
	if spec.PeriodLen <= 0 {
		return nil, fmt.Errorf("audio: period length must be positive")
	}
	if spec.Permits <= 0 {
		return nil, fmt.Errorf("audio: permit capacity must be positive")
	}

	return &Pacer{
		spec:            spec,
		clock:           clock,
		cyclesPerSample: spec.ClockRate / float64(spec.SampleRate),
		mix:             make([]float32, spec.PeriodLen),
		out:             make([]float32, spec.PeriodLen),
		permits:         make(chan struct{}, spec.Permits),
	}, nil
}

// Spec returns the specification the Pacer was created with.
func (p *Pacer) Spec() Spec {
	return p.spec
}

// AddTap adds a Tap to the Pacer.
func (p *Pacer) AddTap(t Tap) {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.taps = append(p.taps, t)
}

// OpenChannel finds a free slot for the render function. Returns NoSlot if
// the table is full.
func (p *Pacer) OpenChannel(render RenderFunc) int {
	p.crit.Lock()
	defer p.crit.Unlock()

	for i := range p.slots {
		if !p.slots[i].open {
			p.slots[i] = slot{
				open:   true,
				render: render,
				synced: float64(p.clock.Cycles()),
			}
			p.open++
			return i
		}
	}

	return NoSlot
}

// CloseChannel marks the slot as free.
func (p *Pacer) CloseChannel(id int) {
	p.crit.Lock()
	defer p.crit.Unlock()

	if id < 0 || id >= MaxChannels || !p.slots[id].open {
		return
	}
	p.slots[id] = slot{}
	p.open--
}

// OpenChannels returns the number of open channels.
func (p *Pacer) OpenChannels() int {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.open
}

// AdvanceChannel renders the channel up to the target cycle. Returns the
// number of samples rendered.
//
// If the number of elapsed samples is more than the space remaining in the
// current period then the excess is dropped and the channel is considered
// synced to the target cycle.
func (p *Pacer) AdvanceChannel(id int, targetCycle uint64) int {
	p.crit.Lock()
	defer p.crit.Unlock()

	if id < 0 || id >= MaxChannels || !p.slots[id].open {
		return 0
	}

	return p.advance(&p.slots[id], float64(targetCycle))
}

// advance must be called with the critical section held.
func (p *Pacer) advance(s *slot, target float64) int {
	if target <= s.synced {
		return 0
	}

	n := int((target - s.synced) / p.cyclesPerSample)
	if n == 0 {
		return 0
	}

	remaining := len(p.mix) - s.cursor
	if n > remaining {
		n = remaining
		s.synced = target
	} else {
		s.synced += float64(n) * p.cyclesPerSample
	}

	if n > 0 {
		s.render(p.mix[s.cursor : s.cursor+n])
		s.cursor += n
	}

	return n
}

// FinishPeriod is called by the audio back end when one period of audio has
// been consumed. The returned slice is the mixed output for the period. It is
// owned by the Pacer and is only valid until the next call to FinishPeriod().
func (p *Pacer) FinishPeriod() []float32 {
	p.crit.Lock()
	defer p.crit.Unlock()

	if p.open == 0 {
		clear(p.out)
		clear(p.mix)
	} else {
		now := float64(p.clock.Cycles())

		for i := range p.slots {
			s := &p.slots[i]
			if !s.open {
				continue
			}

			// catch up any channel that hasn't been advanced to the end of the
			// period. the sync point never moves past the emulated clock,
			// otherwise a paused or slow emulation would leave the channel
			// unable to render when it next advances
			if n := len(p.mix) - s.cursor; n > 0 {
				s.render(p.mix[s.cursor:])
				synced := s.synced + float64(n)*p.cyclesPerSample
				if synced > now {
					synced = max(s.synced, now)
				}
				s.synced = synced
			}
			s.cursor = 0
		}

		div := float32(p.open)
		for i := range p.mix {
			p.out[i] = p.mix[i] / div
		}
		clear(p.mix)
	}

	for _, t := range p.taps {
		t.Period(p.out, p.spec.SampleRate)
	}

	p.Release()

	return p.out
}

// Release adds one pacing permit. Releasing more permits than the capacity
// has no effect.
func (p *Pacer) Release() {
	select {
	case p.permits <- struct{}{}:
	default:
	}
}

// Wait for a pacing permit. Returns true if a permit was taken and false if
// the timeout expired or the cancel channel was closed or signalled.
func (p *Pacer) Wait(timeout time.Duration, cancel <-chan struct{}) bool {
	// fast path if there is a permit waiting
	select {
	case <-p.permits:
		return true
	default:
	}

	tmr := time.NewTimer(timeout)
	defer tmr.Stop()

	select {
	case <-p.permits:
		return true
	case <-tmr.C:
	case <-cancel:
	}
	return false
}
