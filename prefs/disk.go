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

package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/jetsetilly/gopher8bit/curated"
	"github.com/jetsetilly/gopher8bit/logger"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// WarningBoilerPlate is written to the top of every prefs file.
const WarningBoilerPlate = "# gopher8bit preferences. edit with care"

// EnvPrefix is the prefix for environment variables that override a
// preference.
const EnvPrefix = "GOPHER8BIT"

// Sentinel error patterns.
const (
	NoPrefsFile  = "prefs: no prefs file (%s)"
	DuplicateKey = "prefs: duplicate key (%s)"
)

// Disk represents preference values as stored on disk.
type Disk struct {
	path    string
	v       *viper.Viper
	entries map[string]pref
}

func (dsk *Disk) String() string {
	keys := dsk.keys()

	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s :: %s\n", k, dsk.entries[k]))
	}
	return s.String()
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	if path == "" {
		return nil, curated.Errorf("prefs: %v", "no path for prefs file")
	}

	dsk := &Disk{
		path:    path,
		v:       viper.New(),
		entries: make(map[string]pref),
	}

	dsk.v.SetConfigFile(path)
	dsk.v.SetConfigType("yaml")
	dsk.v.SetEnvPrefix(EnvPrefix)
	dsk.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	dsk.v.AutomaticEnv()

	return dsk, nil
}

// Path returns the filename of the prefs file.
func (dsk *Disk) Path() string {
	return dsk.path
}

// Add preference value to list of values to store/load from Disk. Keys are
// not case sensitive.
func (dsk *Disk) Add(key string, p pref) error {
	key = strings.ToLower(key)
	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf(DuplicateKey, key)
	}
	dsk.entries[key] = p
	return nil
}

func (dsk *Disk) keys() []string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Load preference values from disk. Values are overridden by environment
// variables and then by the command line group at the top of the stack.
//
// A missing prefs file is not fatal. Environment and command line values are
// still applied but the NoPrefsFile error is returned.
func (dsk *Disk) Load() error {
	var missing bool

	err := dsk.v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return curated.Errorf("prefs: %v", err)
		}
		missing = true
	}

	for _, k := range dsk.keys() {
		p := dsk.entries[k]

		if ok, v := GetCommandLinePref(k); ok {
			err = p.Set(v)
		} else if dsk.v.IsSet(k) {
			err = p.Set(dsk.v.Get(k))
		}
		if err != nil {
			return curated.Errorf("prefs: %s: %v", k, err)
		}
	}

	if missing {
		logger.Logf(logger.Allow, "prefs", "no prefs file at %s", dsk.path)
		return curated.Errorf(NoPrefsFile, dsk.path)
	}

	return nil
}

// Save current preference values to disk. Entries in the prefs file that are
// not known to the Disk instance are preserved.
func (dsk *Disk) Save() error {
	tree := make(map[string]any)

	data, err := os.ReadFile(dsk.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return curated.Errorf("prefs: %v", err)
		}
	} else {
		err = yaml.Unmarshal(data, &tree)
		if err != nil {
			return curated.Errorf("prefs: %v", err)
		}
		if tree == nil {
			tree = make(map[string]any)
		}
	}

	for _, k := range dsk.keys() {
		v := dsk.entries[k].Get()
		if d, ok := v.(time.Duration); ok {
			v = d.String()
		}
		insert(tree, strings.Split(k, "."), v)
	}

	var b bytes.Buffer
	b.WriteString(WarningBoilerPlate)
	b.WriteString("\n")

	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	err = enc.Encode(tree)
	if err != nil {
		return curated.Errorf("prefs: %v", err)
	}
	err = enc.Close()
	if err != nil {
		return curated.Errorf("prefs: %v", err)
	}

	err = os.WriteFile(dsk.path, b.Bytes(), 0o600)
	if err != nil {
		return curated.Errorf("prefs: %v", err)
	}

	return nil
}

// insert value into the tree at the path, creating intermediate maps as
// required. a leaf value in the way of the path is replaced.
func insert(tree map[string]any, path []string, v any) {
	if len(path) == 1 {
		tree[path[0]] = v
		return
	}

	sub, ok := tree[path[0]].(map[string]any)
	if !ok {
		sub = make(map[string]any)
		tree[path[0]] = sub
	}
	insert(sub, path[1:], v)
}
