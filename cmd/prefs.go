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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or save preferences",
	Long: `Shows the preferences after the prefs file, the environment and the
command line have been applied. With --save the preferences are written to
the prefs file.`,
	Args: cobra.NoArgs,
	RunE: runPrefs,
}

func init() {
	prefsCmd.Flags().Bool("save", false, "save preferences to the prefs file")
	cobra.CheckErr(viper.BindPFlag("prefs.save", prefsCmd.Flags().Lookup("save")))
}

func runPrefs(cmd *cobra.Command, args []string) error {
	prf, err := loadPreferences()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), prf.String())

	if viper.GetBool("prefs.save") {
		return prf.Save()
	}

	return nil
}
