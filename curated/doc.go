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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error.
//
// The Is() function checks whether an error was created with a specific
// pattern. Patterns that are tested for should be stored as a const string,
// suitably named and commented, in the package that raises them. For example:
//
//	const LoopNotRunning = "scheduler: loop not running"
//
//	err := curated.Errorf(LoopNotRunning)
//	if curated.Is(err, LoopNotRunning) {
//		fmt.Println("true")
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain.
//
//	e := curated.Errorf("audio: %v", curated.Errorf(BackendFailed, "sdl"))
//	curated.Has(e, BackendFailed) == true
//	curated.Is(e, BackendFailed) == false
//
// The Error() function normalises the chain by removing duplicate adjacent
// parts. Parts are separated by the sub-string ": ", so this
//
//	curated.Errorf("scheduler: %v", curated.Errorf("scheduler: cpu fault"))
//
// reads as "scheduler: cpu fault" and not "scheduler: scheduler: cpu fault".
//
// Any error value given as a placeholder value is reachable through Unwrap(),
// meaning that the errors.Is() and errors.As() functions in the standard
// library see through curated errors.
package curated
