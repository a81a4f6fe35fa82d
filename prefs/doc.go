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

// Package prefs facilitates the storage of preferential values in the
// Gopher8bit system. Values are held by the types in this package (Bool, Int,
// Float, Duration and String) which can be read and written concurrently.
//
// A Disk instance associates values with keys and loads/saves them to a YAML
// file. Keys use a dotted notation to group related values:
//
//	dsk, err := prefs.NewDisk(filename)
//	var rate prefs.Int
//	err = dsk.Add("audio.rate", &rate)
//	err = dsk.Load()
//
// The value of a key can be overridden by an environment variable. The name
// of the variable is the key in upper case, with dots replaced by
// underscores, prefixed with GOPHER8BIT_. For example:
//
//	GOPHER8BIT_AUDIO_RATE=22050
//
// Finally, values can be overridden by a command line group. See
// PushCommandLineStack() for the format of the group.
package prefs
