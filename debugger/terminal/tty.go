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

//go:build !windows

package terminal

import (
	"fmt"
	"io"

	"github.com/pkg/term"
)

// TTY is the default device for keyboard input.
const TTY = "/dev/tty"

type tty struct {
	*term.Term
}

// Close restores the terminal to its original mode before closing it.
func (t tty) Close() error {
	err := t.Term.Restore()
	if cerr := t.Term.Close(); err == nil {
		err = cerr
	}
	return err
}

// OpenTTY opens the named terminal device in cbreak mode. Keys are available
// to Read() as soon as they are pressed. Closing the returned value restores
// the terminal.
func OpenTTY(name string) (io.ReadCloser, error) {
	t, err := term.Open(name, term.CBreakMode)
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	return tty{Term: t}, nil
}
