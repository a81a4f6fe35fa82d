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
	"fmt"
	"time"

	"github.com/jetsetilly/gopher8bit/audio/headless"
	"github.com/jetsetilly/gopher8bit/hardware"
	"github.com/jetsetilly/gopher8bit/performance"
	"github.com/jetsetilly/gopher8bit/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var benchCmd = &cobra.Command{
	Use:   "bench [program]",
	Short: "Measure the speed of the emulation",
	Long: `Runs a program at full speed without a controller and reports the
number of frames per second, and the speed relative to real hardware.

Example:
  gopher8bit bench --duration 10s
  gopher8bit bench --profile cpu,mem program.bin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBench,
}

func init() {
	f := benchCmd.Flags()
	f.Duration("duration", 5*time.Second, "length of measurement")
	f.String("profile", "none", "profiles to create (cpu, mem, trace or none)")
	f.String("origin", fmt.Sprintf("$%04x", hardware.DefaultOrigin), "address at which the program is loaded")

	for _, name := range []string{"duration", "profile", "origin"} {
		cobra.CheckErr(viper.BindPFlag("bench."+name, f.Lookup(name)))
	}
}

func runBench(cmd *cobra.Command, args []string) error {
	profile, err := performance.ParseProfileString(viper.GetString("bench.profile"))
	if err != nil {
		return err
	}

	prf, err := loadPreferences()
	if err != nil {
		return err
	}

	sess, err := session.New(prf, nil)
	if err != nil {
		return err
	}

	err = loadProgram(sess.Machine, args, viper.GetString("bench.origin"))
	if err != nil {
		return err
	}

	err = sess.AttachBackend(headless.NewAudio(sess.Pacer))
	if err != nil {
		return err
	}

	return performance.Check(cmd.OutOrStdout(), profile, sess.Bench(), viper.GetDuration("bench.duration"))
}
