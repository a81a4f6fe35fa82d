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

// Package headless is an audio back end with no output device. It consumes
// one period of audio every period duration of wall clock time, which means
// the emulation runs at the correct speed without sound.
//
// Mixed audio is still produced and given to any Tap attached to the Pacer.
// This makes the headless back end suitable for recording to a WAV file.
package headless

import (
	"sync"
	"time"

	"github.com/jetsetilly/gopher8bit/audio"
)

// Audio consumes audio at the real time rate.
type Audio struct {
	pacer  *audio.Pacer
	period time.Duration

	quit    chan struct{}
	done    chan struct{}
	started bool
	once    sync.Once
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio(pacer *audio.Pacer) *Audio {
	return &Audio{
		pacer:  pacer,
		period: pacer.Spec().PeriodDuration(),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start implements the audio.Backend interface.
func (aud *Audio) Start() error {
	aud.started = true
	go aud.loop()
	return nil
}

func (aud *Audio) loop() {
	defer close(aud.done)

	// the sleep duration is adjusted every period to correct for the time
	// taken to mix the period and for any oversleeping
	adjusted := aud.period
	t := time.Now()

	tmr := time.NewTimer(adjusted)
	defer tmr.Stop()

	for {
		select {
		case <-aud.quit:
			return
		case <-tmr.C:
		}

		aud.pacer.FinishPeriod()

		nt := time.Now()
		adjusted -= nt.Sub(t) - aud.period
		adjusted = max(0, min(adjusted, aud.period*2))
		t = nt

		tmr.Reset(adjusted)
	}
}

// End implements the audio.Backend interface.
func (aud *Audio) End() error {
	aud.once.Do(func() {
		close(aud.quit)
		if aud.started {
			<-aud.done
		}
	})
	return nil
}
