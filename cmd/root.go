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

// Package cmd is the command line interface of gopher8bit.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jetsetilly/gopher8bit/logger"
	"github.com/jetsetilly/gopher8bit/prefs"
	"github.com/jetsetilly/gopher8bit/session"
	"github.com/jetsetilly/gopher8bit/version"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logJSON  string
	prefsArg string
	specArg  string

	// closed when the command completes
	logFile io.Closer
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "gopher8bit",
	Short: "A real-time scheduler for an 8-bit machine",
	Long: `Gopher8bit runs an emulated 8-bit machine in real time, paced by the
consumption of audio.

Without a program the built in demonstration program is run.`,
	Version:            version.String(),
	SilenceUsage:       true,
	PersistentPreRunE:  setupLogging,
	PersistentPostRunE: closeLogging,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("prefs file (default is $HOME/%s)", session.DefaultPrefsFile))
	RootCmd.PersistentFlags().StringVar(&logJSON, "log-json", "", "also write the log to this file as JSON")
	RootCmd.PersistentFlags().StringVar(&prefsArg, "prefs", "", `override preferences. eg. "audio.samplerate::22050; scheduler.pacingtimeout::20ms"`)
	RootCmd.PersistentFlags().StringVar(&specArg, "spec", "", "machine specification (NTSC or PAL). overrides all timing preferences")

	RootCmd.AddCommand(runCmd, benchCmd, prefsCmd)
}

// initConfig prepares viper so that flags can also be set from the
// environment.
func initConfig() {
	viper.SetEnvPrefix(prefs.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

// setupLogging forwards the central log to stderr and optionally to a JSON
// file.
func setupLogging(cmd *cobra.Command, args []string) error {
	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}

	if logJSON != "" {
		f, err := os.Create(logJSON)
		if err != nil {
			return fmt.Errorf("log: %w", err)
		}
		logFile = f
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	logger.SetHandler(slogmulti.Fanout(handlers...))

	return nil
}

func closeLogging(cmd *cobra.Command, args []string) error {
	logger.SetHandler(nil)
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

// loadPreferences from the prefs file, the environment and the --prefs and
// --spec flags, in that order.
func loadPreferences() (*session.Preferences, error) {
	prf, err := session.NewPreferences()
	if err != nil {
		return nil, err
	}

	path := cfgFile
	if path == "" {
		path, err = session.DefaultPrefsPath()
		if err != nil {
			return nil, err
		}
	}

	if prefsArg != "" {
		prefs.PushCommandLineStack(prefsArg)
		defer func() {
			if unused := prefs.PopCommandLineStack(); unused != "" {
				logger.Logf(logger.Allow, "prefs", "unused preferences: %s", unused)
			}
		}()
	}

	err = prf.Load(path)
	if err != nil {
		return nil, err
	}

	// the specification flag resets all timing values
	if specArg != "" {
		if err := prf.SetSpec(specArg); err != nil {
			return nil, err
		}
	}

	return prf, nil
}

// parseAddress accepts decimal, hexadecimal with a 0x prefix, or hexadecimal
// with a $ prefix.
func parseAddress(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "$") {
		s = "0x" + s[1:]
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("bad address: %s", s)
	}
	return uint16(v), nil
}
