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

// Package session assembles a machine, the scheduler and everything around
// it into one runnable unit. A session owns the trace buffer, the audio
// Pacer, the scheduler and the debug event bridge. Audio back ends, a WAV
// recorder and a tape can be attached before the session is started.
//
// A typical session:
//
//	prf, _ := session.NewPreferences()
//	sess, _ := session.New(prf, nil)
//	sess.Machine.LoadDemo()
//	sess.AttachBackend(headless.NewAudio(sess.Pacer))
//	sess.Start()
//	sess.Scheduler.RequestStateChange(govern.Run)
//	...
//	sess.Stop()
package session
