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

// Package sdlaudio is an audio back end that pushes mixed audio to an SDL
// audio device.
//
// SDL is given audio with QueueAudio(). A ticker checks the amount of audio
// still queued on the device once every period. When the queue is running low
// another period is requested from the Pacer, which releases a pacing permit.
// The emulation therefore runs at the rate at which the device plays audio.
package sdlaudio

import (
	"sync"
	"time"

	"github.com/jetsetilly/gopher8bit/audio"
	"github.com/jetsetilly/gopher8bit/curated"
	"github.com/jetsetilly/gopher8bit/logger"

	"github.com/veandco/go-sdl2/sdl"
)

// the number of periods that are kept queued on the device. the precise value
// is not critical. too many and the sound lags behind the emulation. too few
// and there will be gaps in the sound.
const queuedPeriods = 3

// Audio outputs sound using SDL.
type Audio struct {
	pacer *audio.Pacer

	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	// length of one period in bytes
	periodBytes uint32

	buffer []uint8

	quit    chan struct{}
	done    chan struct{}
	started bool
	once    sync.Once
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio(pacer *audio.Pacer) (*Audio, error) {
	aud := &Audio{
		pacer: pacer,
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	err := sdl.InitSubSystem(sdl.INIT_AUDIO)
	if err != nil {
		return nil, curated.Errorf(audio.BackendFailed, err)
	}

	ps := pacer.Spec()
	spec := &sdl.AudioSpec{
		Freq:     int32(ps.SampleRate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  uint16(ps.PeriodLen),
	}

	aud.id, err = sdl.OpenAudioDevice("", false, spec, &aud.spec, 0)
	if err != nil {
		return nil, curated.Errorf(audio.BackendFailed, err)
	}

	aud.periodBytes = uint32(ps.PeriodLen * 2)
	aud.buffer = make([]uint8, 0, aud.periodBytes)

	logger.Logf(logger.Allow, "sdlaudio", "frequency: %d samples/sec", aud.spec.Freq)
	logger.Logf(logger.Allow, "sdlaudio", "buffer size: %d samples", aud.spec.Samples)

	return aud, nil
}

// Start implements the audio.Backend interface.
func (aud *Audio) Start() error {
	aud.started = true
	go aud.loop()
	sdl.PauseAudioDevice(aud.id, false)
	return nil
}

func (aud *Audio) loop() {
	defer close(aud.done)

	tck := time.NewTicker(aud.pacer.Spec().PeriodDuration())
	defer tck.Stop()

	// queue errors are logged once. the pacer is still serviced so that the
	// emulation continues at the correct speed, albeit silently
	var failed bool

	for {
		select {
		case <-aud.quit:
			return
		case <-tck.C:
		}

		for sdl.GetQueuedAudioSize(aud.id) < aud.periodBytes*queuedPeriods {
			aud.buffer = audio.ToS16LE(aud.buffer[:0], aud.pacer.FinishPeriod())

			if failed {
				break
			}

			err := sdl.QueueAudio(aud.id, aud.buffer)
			if err != nil {
				logger.Log(logger.Allow, "sdlaudio", curated.Errorf(audio.BackendFailed, err))
				failed = true
			}
		}
	}
}

// End implements the audio.Backend interface.
func (aud *Audio) End() error {
	aud.once.Do(func() {
		close(aud.quit)
		if aud.started {
			<-aud.done
		}
		sdl.ClearQueuedAudio(aud.id)
		sdl.CloseAudioDevice(aud.id)
	})
	return nil
}
