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

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/jetsetilly/gopher8bit/audio"
	"github.com/jetsetilly/gopher8bit/audio/headless"
	"github.com/jetsetilly/gopher8bit/audio/otoaudio"
	"github.com/jetsetilly/gopher8bit/audio/sdlaudio"
	"github.com/jetsetilly/gopher8bit/curated"
	"github.com/jetsetilly/gopher8bit/debugger/terminal"
	"github.com/jetsetilly/gopher8bit/hardware"
	"github.com/jetsetilly/gopher8bit/logger"
	"github.com/jetsetilly/gopher8bit/scheduler"
	"github.com/jetsetilly/gopher8bit/session"
	"github.com/jetsetilly/gopher8bit/statsview"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run [program]",
	Short: "Run a program with a keyboard controller",
	Long: `Loads a raw binary program and runs it in real time. The keyboard
controls the emulation:

  space  run/pause          f  full speed
  s      step instruction   r  reset
  u      restore            t  print trace
  y      trace as YAML      m  memviz dump
  q      quit

Without a program the built in demonstration program is run.

Example:
  gopher8bit run --audio sdl --wav out.wav program.bin
  gopher8bit run --break '$0306'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.String("audio", "sdl", "audio back end (sdl, oto, headless or none)")
	f.String("wav", "", "record audio to WAV file")
	f.String("tape", "", "play a WAV or MP3 file through the tape channel")
	f.String("break", "", "pause when the program counter reaches this address")
	f.String("origin", fmt.Sprintf("$%04x", hardware.DefaultOrigin), "address at which the program is loaded")
	f.Bool("fullspeed", false, "run without audio pacing")
	f.Bool("statsview", false, "launch the runtime statistics server")
	f.String("memviz", terminal.DefaultMemvizFile, "file written by the memviz key")

	for _, name := range []string{"audio", "wav", "tape", "break", "origin", "fullspeed", "statsview", "memviz"} {
		cobra.CheckErr(viper.BindPFlag("run."+name, f.Lookup(name)))
	}
}

// UnknownBackend is returned by newBackend() for an unrecognised name.
const UnknownBackend = "unknown audio back end: %s"

// the audio back ends that open a device. replaced in tests
var devices = map[string]func(*audio.Pacer) (audio.Backend, error){
	"sdl": func(pacer *audio.Pacer) (audio.Backend, error) {
		return sdlaudio.NewAudio(pacer)
	},
	"oto": func(pacer *audio.Pacer) (audio.Backend, error) {
		return otoaudio.NewAudio(pacer)
	},
}

// newBackend creates the named audio back end for the pacer. If the audio
// device can't be opened the failure is logged and the headless back end is
// used instead, so that the emulation is still paced to real time.
func newBackend(name string, pacer *audio.Pacer) (audio.Backend, error) {
	name = strings.ToLower(name)

	switch name {
	case "headless", "none", "":
		return headless.NewAudio(pacer), nil
	}

	open, ok := devices[name]
	if !ok {
		return nil, curated.Errorf(UnknownBackend, name)
	}

	b, err := open(pacer)
	if err != nil {
		logger.Log(logger.Allow, "run", err)
		logger.Logf(logger.Allow, "run", "using headless audio instead of %s", name)
		return headless.NewAudio(pacer), nil
	}
	return b, nil
}

// loadProgram loads the program named in the arguments or the demonstration
// program if there are no arguments.
func loadProgram(m *hardware.Machine, args []string, origin string) error {
	if len(args) == 0 {
		return m.LoadDemo()
	}

	org, err := parseAddress(origin)
	if err != nil {
		return err
	}
	return m.LoadFile(args[0], org)
}

func runRun(cmd *cobra.Command, args []string) error {
	prf, err := loadPreferences()
	if err != nil {
		return err
	}

	sess, err := session.New(prf, nil)
	if err != nil {
		return err
	}

	err = loadProgram(sess.Machine, args, viper.GetString("run.origin"))
	if err != nil {
		return err
	}

	backend, err := newBackend(viper.GetString("run.audio"), sess.Pacer)
	if err != nil {
		return err
	}
	err = sess.AttachBackend(backend)
	if err != nil {
		return err
	}

	if fn := viper.GetString("run.wav"); fn != "" {
		if err := sess.AttachRecorder(fn); err != nil {
			return err
		}
	}

	if fn := viper.GetString("run.tape"); fn != "" {
		if err := sess.AttachTape(fn); err != nil {
			return err
		}
	}

	if bp := viper.GetString("run.break"); bp != "" {
		addr, err := parseAddress(bp)
		if err != nil {
			return err
		}
		sess.Scheduler.SetBreakpoint(int(addr))
	} else {
		sess.Scheduler.SetBreakpoint(scheduler.NoBreakpoint)
	}

	if viper.GetBool("run.statsview") {
		stop := statsview.Launch(cmd.OutOrStdout())
		defer stop()
	}

	// keyboard input. if there is no terminal the controller reads from stdin
	// and will quit when stdin is exhausted
	in, err := terminal.OpenTTY(terminal.TTY)
	if err != nil {
		logger.Logf(logger.Allow, "run", "%v: reading from stdin", err)
		in = os.Stdin
	} else {
		defer in.Close()
	}

	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt)
	defer signal.Stop(intr)

	ctrl := terminal.NewController(sess.Scheduler, sess.Bridge, cmd.OutOrStdout())
	ctrl.Memviz = sess.Machine
	ctrl.MemvizFile = viper.GetString("run.memviz")
	ctrl.Interrupt = intr

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", sess.Machine.Spec.ID)
	ctrl.Help()

	err = sess.Start()
	if err != nil {
		return err
	}

	err = sess.Run(viper.GetBool("run.fullspeed"))
	if err == nil {
		err = ctrl.Run(in)
	}

	return errors.Join(err, sess.Stop())
}
