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

package performance

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Target is the emulation being measured by Check().
type Target interface {
	// start the emulation running as fast as possible
	Start() error

	// stop the emulation. the return value is any error that caused the
	// emulation to stop prematurely
	Stop() error

	// number of frames produced since the start of the emulation. must be
	// safe to call while the emulation is running
	Frames() uint64

	// frame rate the emulated machine would run at on real hardware
	NominalFPS() float32

	// closed if the emulation stops of its own accord
	Done() <-chan struct{}
}

// Leadtime is the amount of time the emulation runs before measurement
// begins. This allows the frame rate to settle.
var Leadtime = 2 * time.Second

// Check the performance of the emulation. The emulation runs for the
// specified duration, after a short leadtime, and the frame rate is written to
// the output.
func Check(output io.Writer, profile Profile, target Target, duration time.Duration) error {
	var numFrames uint64

	runner := func() error {
		if err := target.Start(); err != nil {
			return err
		}

		var startFrame uint64

		select {
		case <-time.After(Leadtime):
			startFrame = target.Frames()
		case <-target.Done():
			return target.Stop()
		}

		select {
		case <-time.After(duration):
			numFrames = target.Frames() - startFrame
		case <-target.Done():
			return target.Stop()
		}

		return target.Stop()
	}

	err := RunProfiler(profile, "performance", runner)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	if numFrames == 0 {
		return errors.New("performance: no frames were produced")
	}

	fps, accuracy := CalcFPS(numFrames, duration.Seconds(), target.NominalFPS())
	fmt.Fprintf(output, "%.2f fps (%d frames in %.2f seconds) %.1f%%\n", fps, numFrames, duration.Seconds(), accuracy)

	return nil
}
