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

package session

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/jetsetilly/gopher8bit/audio"
	"github.com/jetsetilly/gopher8bit/curated"
	"github.com/jetsetilly/gopher8bit/debugger"
	"github.com/jetsetilly/gopher8bit/hardware/clocks"
	"github.com/jetsetilly/gopher8bit/prefs"
	"github.com/jetsetilly/gopher8bit/scheduler"
	"github.com/jetsetilly/gopher8bit/trace"
)

// DefaultPrefsFile is the name of the prefs file in the user's home
// directory.
const DefaultPrefsFile = ".gopher8bit.yaml"

// Preferences for a session. Timing values describe the emulated machine and
// the audio output. The remaining values tune the scheduler.
type Preferences struct {
	dsk *prefs.Disk

	// the specification that the timing values are based on
	Spec prefs.String

	ClockRate         prefs.Float
	CyclesPerScanline prefs.Int
	ScanlinesPerFrame prefs.Int

	SampleRate prefs.Int
	PeriodLen  prefs.Int
	Permits    prefs.Int

	PacingTimeout  prefs.Duration
	PausedTimeout  prefs.Duration
	NotifyInterval prefs.Duration
	TraceDepth     prefs.Int
}

func (p *Preferences) String() string {
	if p.dsk == nil {
		return "preferences not attached to disk"
	}
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are set to the defaults for the NTSC
// specification.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()
	return p, nil
}

// SetDefaults reverts all preferences to their default value.
func (p *Preferences) SetDefaults() {
	p.Spec.Set(clocks.SpecNTSC.ID)
	p.SampleRate.Set(audio.DefaultSpec.SampleRate)
	p.setTiming(clocks.SpecNTSC)
	p.Permits.Set(audio.DefaultSpec.Permits)
	p.PacingTimeout.Set(scheduler.DefaultConfig.PacingTimeout)
	p.PausedTimeout.Set(scheduler.DefaultConfig.PausedTimeout)
	p.NotifyInterval.Set(debugger.DefaultInterval)
	p.TraceDepth.Set(trace.DefaultDepth)
}

// SetSpec changes the specification and resets the timing values to those of
// the specification.
func (p *Preferences) SetSpec(id string) error {
	spec, err := clocks.SpecByID(id)
	if err != nil {
		return curated.Errorf("session: %v", err)
	}
	if err := p.Spec.Set(spec.ID); err != nil {
		return err
	}
	return p.setTiming(spec)
}

func (p *Preferences) setTiming(spec clocks.Spec) error {
	if err := p.ClockRate.Set(spec.ClockRate); err != nil {
		return err
	}
	if err := p.CyclesPerScanline.Set(spec.CyclesPerScanline); err != nil {
		return err
	}
	if err := p.ScanlinesPerFrame.Set(spec.ScanlinesPerFrame); err != nil {
		return err
	}

	// one audio period for every frame
	return p.PeriodLen.Set(int(math.Round(float64(p.SampleRate.Get().(int)) / float64(spec.FPS()))))
}

// DefaultPrefsPath returns the path to the prefs file in the user's home
// directory.
func DefaultPrefsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", curated.Errorf("session: %v", err)
	}
	return filepath.Join(home, DefaultPrefsFile), nil
}

// Load preferences from the prefs file at path. A missing file is not an
// error. The Disk instance is retained for future calls to Save().
func (p *Preferences) Load(path string) error {
	dsk, err := prefs.NewDisk(path)
	if err != nil {
		return err
	}

	keys := []struct {
		key string
		val interface {
			Set(prefs.Value) error
			Get() prefs.Value
			Reset() error
			String() string
		}
	}{
		{"hardware.spec", &p.Spec},
		{"hardware.clockrate", &p.ClockRate},
		{"hardware.cyclesperscanline", &p.CyclesPerScanline},
		{"hardware.scanlinesperframe", &p.ScanlinesPerFrame},
		{"audio.samplerate", &p.SampleRate},
		{"audio.periodlen", &p.PeriodLen},
		{"audio.permits", &p.Permits},
		{"scheduler.pacingtimeout", &p.PacingTimeout},
		{"scheduler.pausedtimeout", &p.PausedTimeout},
		{"debugger.notifyinterval", &p.NotifyInterval},
		{"debugger.tracedepth", &p.TraceDepth},
	}
	for _, k := range keys {
		if err := dsk.Add(k.key, k.val); err != nil {
			return err
		}
	}

	err = dsk.Load()
	if err != nil && !curated.Is(err, prefs.NoPrefsFile) {
		return err
	}

	p.dsk = dsk

	return nil
}

// Save current preferences to disk. Load() must have been called.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return curated.Errorf("session: %v", "preferences not loaded")
	}
	return p.dsk.Save()
}

// MachineSpec returns the timing of the emulated machine.
func (p *Preferences) MachineSpec() (clocks.Spec, error) {
	spec, err := clocks.SpecByID(p.Spec.String())
	if err != nil {
		return clocks.Spec{}, curated.Errorf("session: %v", err)
	}

	spec.ClockRate = p.ClockRate.Get().(float64)
	spec.CyclesPerScanline = p.CyclesPerScanline.Get().(int)
	spec.ScanlinesPerFrame = p.ScanlinesPerFrame.Get().(int)

	if spec.ClockRate <= 0 || spec.CyclesPerScanline <= 0 || spec.ScanlinesPerFrame <= 0 {
		return clocks.Spec{}, curated.Errorf("session: %v", "timing values must be positive")
	}
	spec.VBlankScanline = min(spec.VBlankScanline, spec.ScanlinesPerFrame-1)

	if spec != clocks.SpecNTSC && spec != clocks.SpecPAL {
		spec.ID = fmt.Sprintf("%s (custom)", spec.ID)
	}

	return spec, nil
}

func (p *Preferences) schedulerConfig(spec clocks.Spec) scheduler.Config {
	return scheduler.Config{
		CyclesPerScanline: spec.CyclesPerScanline,
		PacingTimeout:     p.PacingTimeout.Get().(time.Duration),
		PausedTimeout:     p.PausedTimeout.Get().(time.Duration),
		NominalFPS:        spec.FPS(),
		CyclesPerPermit:   spec.ClockRate * float64(p.PeriodLen.Get().(int)) / float64(p.SampleRate.Get().(int)),
	}
}

func (p *Preferences) audioSpec(spec clocks.Spec) audio.Spec {
	return audio.Spec{
		ClockRate:  spec.ClockRate,
		SampleRate: p.SampleRate.Get().(int),
		PeriodLen:  p.PeriodLen.Get().(int),
		Permits:    p.Permits.Get().(int),
	}
}
