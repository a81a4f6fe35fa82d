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

// Package tape plays a recorded cassette through a channel of the audio
// Pacer. WAV and MP3 files are supported. Audio is decoded in full when the
// tape is loaded and converted to mono float32 samples.
//
// The tape moves at the rate the audio back end consumes periods from the
// Pacer and not with emulated time.
package tape

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jetsetilly/gopher8bit/audio"
	"github.com/jetsetilly/gopher8bit/curated"
	"github.com/jetsetilly/gopher8bit/logger"
)

// Mixer is the part of the audio.Pacer used by the tape.
type Mixer interface {
	OpenChannel(render audio.RenderFunc) int
	CloseChannel(id int)
}

// Volume of tape playback.
const Volume = 0.5

// Tape is a decoded cassette recording.
type Tape struct {
	Filename   string
	SampleRate int

	crit    sync.Mutex
	data    []float32
	pos     float64
	step    float64
	playing bool

	mixer Mixer
	slot  int
}

// Load decodes the named file. The file extension decides the format.
func Load(filename string) (*Tape, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf("tape: %v", err)
	}
	defer f.Close()

	var tap *Tape

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		tap, err = decodeWAV(f)
	case ".mp3":
		tap, err = decodeMP3(f)
	default:
		err = fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
	if err != nil {
		return nil, curated.Errorf("tape: %v", err)
	}

	tap.Filename = filename
	tap.slot = audio.NoSlot

	logger.Logf(logger.Allow, "tape", "loaded %s (%d samples at %dHz)", filepath.Base(filename), len(tap.data), tap.SampleRate)

	return tap, nil
}

func decodeWAV(r io.ReadSeeker) (*Tape, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	chans := buf.Format.NumChannels
	if chans < 1 {
		return nil, fmt.Errorf("no audio channels in wav file")
	}

	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = int(dec.BitDepth)
	}
	scale := float32(int(1) << (depth - 1))

	// first channel only
	floatBuf := buf.AsFloat32Buffer()
	tap := &Tape{
		SampleRate: buf.Format.SampleRate,
		data:       make([]float32, 0, len(floatBuf.Data)/chans),
	}
	for i := 0; i < len(floatBuf.Data); i += chans {
		tap.data = append(tap.data, floatBuf.Data[i]/scale)
	}

	return tap, nil
}

func decodeMP3(r io.Reader) (*Tape, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}

	tap := &Tape{
		SampleRate: dec.SampleRate(),
		data:       make([]float32, 0, dec.Length()/4),
	}

	// decoded data is always 16bit little-endian stereo. each chunk is one
	// sample for the left and right channels and only the left is used
	chunk := make([]byte, 4)
	for {
		_, err := io.ReadFull(dec, chunk)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, err
		}
		v := int16(uint16(chunk[0]) | uint16(chunk[1])<<8)
		tap.data = append(tap.data, float32(v)/32768.0)
	}

	return tap, nil
}

func (tap *Tape) String() string {
	tap.crit.Lock()
	defer tap.crit.Unlock()
	return fmt.Sprintf("%s %d/%d", filepath.Base(tap.Filename), int(tap.pos), len(tap.data))
}

// Attach the tape to a mixer running at the given sample rate. Playback
// doesn't begin until Play() is called.
func (tap *Tape) Attach(mixer Mixer, sampleRate int) error {
	if sampleRate <= 0 {
		return curated.Errorf("tape: %v", "bad sample rate")
	}

	tap.Detach()

	slot := mixer.OpenChannel(tap.render)
	if slot == audio.NoSlot {
		return curated.Errorf("tape: %v", "no free audio channel")
	}

	tap.crit.Lock()
	defer tap.crit.Unlock()
	tap.mixer = mixer
	tap.slot = slot
	tap.step = float64(tap.SampleRate) / float64(sampleRate)

	return nil
}

// Detach the tape from the mixer.
func (tap *Tape) Detach() {
	tap.crit.Lock()
	mixer := tap.mixer
	slot := tap.slot
	tap.mixer = nil
	tap.slot = audio.NoSlot
	tap.crit.Unlock()

	// the mixer calls render() with its own lock held so the channel must be
	// closed outside of the tape's critical section
	if mixer != nil {
		mixer.CloseChannel(slot)
	}
}

// Play starts the tape.
func (tap *Tape) Play() {
	tap.crit.Lock()
	defer tap.crit.Unlock()
	tap.playing = true
}

// Pause stops the tape without rewinding.
func (tap *Tape) Pause() {
	tap.crit.Lock()
	defer tap.crit.Unlock()
	tap.playing = false
}

// Rewind the tape to the beginning.
func (tap *Tape) Rewind() {
	tap.crit.Lock()
	defer tap.crit.Unlock()
	tap.pos = 0
}

// Position returns the current sample and the total number of samples.
func (tap *Tape) Position() (int, int) {
	tap.crit.Lock()
	defer tap.crit.Unlock()
	return int(tap.pos), len(tap.data)
}

// Ended returns true if the tape has played to the end.
func (tap *Tape) Ended() bool {
	tap.crit.Lock()
	defer tap.crit.Unlock()
	return int(tap.pos) >= len(tap.data)
}

// called by the Pacer with its lock held. nearest-neighbour resampling from
// the tape's sample rate to the mixer's
func (tap *Tape) render(buf []float32) {
	tap.crit.Lock()
	defer tap.crit.Unlock()

	if !tap.playing {
		return
	}

	for i := range buf {
		p := int(tap.pos)
		if p >= len(tap.data) {
			tap.playing = false
			return
		}
		buf[i] += tap.data[p] * Volume
		tap.pos += tap.step
	}
}
