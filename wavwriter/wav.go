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

// Package wavwriter allows writing of audio data to disk as a WAV file. Note
// that audio data is buffered in memory in its entirety, and written to disk
// when End() is called. It is therefore probably only suitable for testing
// purposes.
//
// The WavWriter type implements the audio.Tap interface and so receives a
// copy of every period of mixed audio from the Pacer.
package wavwriter

import (
	"os"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jetsetilly/gopher8bit/curated"
	"github.com/jetsetilly/gopher8bit/logger"
)

// the bit depth of the WAV file
const bitDepth = 16

// WavWriter implements the audio.Tap interface.
type WavWriter struct {
	filename string

	crit       sync.Mutex
	buffer     []int
	sampleRate int
	ended      bool
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string) (*WavWriter, error) {
	if filename == "" {
		return nil, curated.Errorf("wavwriter: %v", "no filename")
	}

	aw := &WavWriter{
		filename: filename,
		buffer:   make([]int, 0),
	}

	return aw, nil
}

// Period implements the audio.Tap interface.
func (aw *WavWriter) Period(samples []float32, sampleRate int) {
	aw.crit.Lock()
	defer aw.crit.Unlock()

	if aw.ended {
		return
	}

	aw.sampleRate = sampleRate
	for _, s := range samples {
		s = max(-1.0, min(1.0, s))
		aw.buffer = append(aw.buffer, int(s*(1<<(bitDepth-1)-1)))
	}
}

// Len returns the number of samples buffered so far.
func (aw *WavWriter) Len() int {
	aw.crit.Lock()
	defer aw.crit.Unlock()
	return len(aw.buffer)
}

// End writes the buffered audio to the WAV file. Audio received after End()
// has been called is discarded.
func (aw *WavWriter) End() (rerr error) {
	aw.crit.Lock()
	defer aw.crit.Unlock()

	if aw.ended {
		return nil
	}
	aw.ended = true

	if aw.sampleRate == 0 {
		logger.Logf(logger.Allow, "wavwriter", "no audio to write to %s", aw.filename)
		return nil
	}

	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	enc := wav.NewEncoder(f, aw.sampleRate, bitDepth, 1, 1)
	if enc == nil {
		return curated.Errorf("wavwriter: %v", "bad parameters for wav encoding")
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  aw.sampleRate,
		},
		Data:           aw.buffer,
		SourceBitDepth: bitDepth,
	}

	logger.Logf(logger.Allow, "wavwriter", "writing audio to %s", aw.filename)

	err = enc.Write(buf)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	err = enc.Close()
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}
