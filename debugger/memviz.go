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

package debugger

import (
	"io"

	"github.com/bradleyjkemp/memviz"
)

// DumpMemviz writes a graphviz representation of v to w. Useful for seeing
// how the parts of a machine refer to one another.
//
// The output can be turned into an image with the dot program. eg.
//
//	dot -Tsvg machine.dot > machine.svg
func DumpMemviz(w io.Writer, v any) {
	memviz.Map(w, v)
}
