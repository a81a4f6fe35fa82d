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

// Package speaker implements the one bit speaker of the demonstration
// machine. Every access to the soft switch toggles the speaker cone between
// two positions. A program produces a tone by toggling the speaker at a
// regular interval.
//
// The speaker renders into one channel of an audio mixer. The channel is
// advanced to the current cycle before every toggle so that the toggle is
// placed at the correct sample.
package speaker

import (
	"fmt"
	"sync/atomic"

	"github.com/jetsetilly/gopher8bit/audio"
)

// Mixer is the part of the audio.Pacer used by the speaker.
type Mixer interface {
	OpenChannel(render audio.RenderFunc) int
	CloseChannel(id int)
	AdvanceChannel(id int, targetCycle uint64) int
}

// Amplitude of the speaker output.
const Amplitude = 0.25

// Speaker is a sound producing collaborator of the scheduler.
type Speaker struct {
	mixer Mixer
	clock audio.Clock
	slot  int

	// cone position. written by the emulation goroutine and read by the
	// render function, which may be called by the audio goroutine
	high atomic.Bool

	toggles int
}

// NewSpeaker is the preferred method of initialisation for the Speaker type.
// The speaker makes no sound until Attach() is called.
func NewSpeaker() *Speaker {
	return &Speaker{
		slot: audio.NoSlot,
	}
}

func (spk *Speaker) String() string {
	return fmt.Sprintf("slot: %d toggles: %d", spk.slot, spk.toggles)
}

// Attach the speaker to a mixer. The clock is the source of the current
// emulated cycle.
func (spk *Speaker) Attach(mixer Mixer, clock audio.Clock) error {
	spk.Detach()

	slot := mixer.OpenChannel(spk.render)
	if slot == audio.NoSlot {
		return fmt.Errorf("speaker: no free audio channel")
	}

	spk.mixer = mixer
	spk.clock = clock
	spk.slot = slot

	return nil
}

// Detach the speaker from the mixer.
func (spk *Speaker) Detach() {
	if spk.mixer == nil {
		return
	}
	spk.mixer.CloseChannel(spk.slot)
	spk.mixer = nil
	spk.clock = nil
	spk.slot = audio.NoSlot
}

// Toggle the speaker cone.
func (spk *Speaker) Toggle() {
	if spk.mixer != nil {
		spk.mixer.AdvanceChannel(spk.slot, spk.clock.Cycles())
	}
	spk.high.Store(!spk.high.Load())
	spk.toggles++
}

// Toggles returns the number of times the speaker has been toggled.
func (spk *Speaker) Toggles() int {
	return spk.toggles
}

// Reset the cone position.
func (spk *Speaker) Reset() {
	if spk.mixer != nil {
		spk.mixer.AdvanceChannel(spk.slot, spk.clock.Cycles())
	}
	spk.high.Store(false)
}

func (spk *Speaker) render(buf []float32) {
	v := float32(-Amplitude)
	if spk.high.Load() {
		v = Amplitude
	}
	for i := range buf {
		buf[i] += v
	}
}
