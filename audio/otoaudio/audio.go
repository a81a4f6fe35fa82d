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

// Package otoaudio is an audio back end that uses the oto library. Unlike the
// SDL back end, oto pulls audio from the emulation. The Read() function asks
// the Pacer for a new period whenever the previous period has been read
// completely.
package otoaudio

import (
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/jetsetilly/gopher8bit/audio"
	"github.com/jetsetilly/gopher8bit/curated"
	"github.com/jetsetilly/gopher8bit/logger"
)

// Audio outputs sound using oto.
type Audio struct {
	pacer *audio.Pacer

	ctx    *oto.Context
	player *oto.Player

	// the current period and the read position in it. the period is a copy
	// because the Pacer may reuse its buffer
	period []float32
	pos    int

	crit  sync.Mutex
	ended bool
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio(pacer *audio.Pacer) (*Audio, error) {
	spec := pacer.Spec()

	op := &oto.NewContextOptions{
		SampleRate:   spec.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   spec.PeriodDuration() * 2,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, curated.Errorf(audio.BackendFailed, err)
	}
	<-ready

	aud := &Audio{
		pacer:  pacer,
		ctx:    ctx,
		period: make([]float32, spec.PeriodLen),
	}

	// start with an exhausted period so that the first Read() fetches a new
	// one
	aud.pos = len(aud.period)

	aud.player = ctx.NewPlayer(aud)

	logger.Logf(logger.Allow, "otoaudio", "frequency: %d samples/sec", spec.SampleRate)

	return aud, nil
}

// Read implements the io.Reader interface. Called by oto.
func (aud *Audio) Read(p []byte) (int, error) {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	var n int
	for n+4 <= len(p) {
		if aud.pos >= len(aud.period) {
			if aud.ended {
				clear(aud.period)
			} else {
				copy(aud.period, aud.pacer.FinishPeriod())
			}
			aud.pos = 0
		}

		m := min(len(aud.period)-aud.pos, (len(p)-n)/4)
		n += audio.ToF32LE(p[n:], aud.period[aud.pos:aud.pos+m])
		aud.pos += m
	}

	return n, nil
}

// Start implements the audio.Backend interface.
func (aud *Audio) Start() error {
	aud.player.Play()
	return nil
}

// End implements the audio.Backend interface.
func (aud *Audio) End() error {
	aud.crit.Lock()
	if aud.ended {
		aud.crit.Unlock()
		return nil
	}
	aud.ended = true
	aud.crit.Unlock()

	err := aud.player.Close()
	if err != nil {
		return curated.Errorf(audio.BackendFailed, err)
	}
	return nil
}
