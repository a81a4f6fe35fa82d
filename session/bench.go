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

package session

import (
	"github.com/jetsetilly/gopher8bit/performance"
)

// bench adapts a Session to the performance.Target interface.
type bench struct {
	sess *Session
}

// Bench returns the session as a performance.Target. The session should not
// have been started.
func (sess *Session) Bench() performance.Target {
	return bench{sess: sess}
}

func (b bench) Start() error {
	if err := b.sess.Start(); err != nil {
		return err
	}
	return b.sess.Run(true)
}

func (b bench) Stop() error {
	return b.sess.Stop()
}

func (b bench) Frames() uint64 {
	return b.sess.Scheduler.Frames()
}

func (b bench) NominalFPS() float32 {
	return b.sess.Scheduler.NominalFPS()
}

func (b bench) Done() <-chan struct{} {
	return b.sess.Done()
}
