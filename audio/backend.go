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
	"encoding/binary"
	"math"
)

// Sentinel error patterns.
const (
	BackendFailed = "audio: backend: %v"
)

// Backend consumes mixed audio from the Pacer. It calls FinishPeriod() each
// time it has consumed one period. The back end decides the rate at which the
// emulation runs in the govern.Running state.
type Backend interface {
	// start consuming audio
	Start() error

	// stop consuming audio and release any resources. the Backend can not be
	// restarted
	End() error
}

// ToS16LE converts the samples to signed 16 bit little-endian PCM, appending
// them to dst. Samples outside the range -1.0 to 1.0 are clipped.
func ToS16LE(dst []byte, samples []float32) []byte {
	for _, s := range samples {
		v := int16(math.Round(float64(clip(s)) * math.MaxInt16))
		dst = binary.LittleEndian.AppendUint16(dst, uint16(v))
	}
	return dst
}

// ToF32LE converts the samples to 32 bit float little-endian PCM, writing them
// to dst. dst must be at least four times the length of samples. Returns the
// number of bytes written.
func ToF32LE(dst []byte, samples []float32) int {
	for i, s := range samples {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(clip(s)))
	}
	return len(samples) * 4
}

func clip(s float32) float32 {
	return max(-1.0, min(1.0, s))
}
