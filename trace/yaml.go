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

package trace

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlEntry struct {
	PC     string `yaml:"pc"`
	Bytes  string `yaml:"bytes"`
	Cycles int    `yaml:"cycles"`
}

// WriteYAML writes up to depth entries of the History as a YAML sequence,
// most recent first.
func (h *History) WriteYAML(w io.Writer, depth int) error {
	entries := h.Entries(depth)
	out := make([]yamlEntry, len(entries))
	for i, e := range entries {
		out[i] = yamlEntry{
			PC:     fmt.Sprintf("$%04x", e.PC),
			Bytes:  fmt.Sprintf("% x", e.Bytes),
			Cycles: e.Cycles,
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	return enc.Close()
}
