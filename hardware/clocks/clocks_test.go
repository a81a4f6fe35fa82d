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

package clocks_test

import (
	"testing"

	"github.com/jetsetilly/gopher8bit/hardware/clocks"
	"github.com/jetsetilly/gopher8bit/test"
)

func TestFPS(t *testing.T) {
	test.ExpectApproximate(t, clocks.SpecNTSC.FPS(), 59.92, 0.001)
	test.ExpectApproximate(t, clocks.SpecPAL.FPS(), 50.08, 0.001)
}

func TestSpecByID(t *testing.T) {
	spec, err := clocks.SpecByID("pal")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, spec.ID, "PAL")

	_, err = clocks.SpecByID("SECAM")
	test.ExpectFailure(t, err)
}
