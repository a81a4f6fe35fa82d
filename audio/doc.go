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

// Package audio mixes any number of sound sources into a single stream of
// fixed rate samples and paces the emulation to the speed at which that
// stream is consumed.
//
// Sound sources open a channel on the Pacer and are given a slot number. Each
// time the state of a source is about to change (a register write to a sound
// chip, say) the source calls AdvanceChannel() with the current CPU cycle.
// The Pacer works out how many samples have elapsed since the last call and
// asks the source to render them with the render function given to
// OpenChannel(). The render function adds its samples to the shared mix
// buffer, which means the render function is always called with the Pacer's
// critical section held.
//
// The audio back end calls FinishPeriod() when it has consumed one period
// of audio. FinishPeriod() brings every channel up to the end of the period,
// produces the mixed output and releases one pacing permit. The scheduler
// calls Wait() once per frame when running at normal speed. The number of
// permits is capped so that a back end running ahead of the emulation cannot
// allow the emulation to run in an unthrottled burst later.
package audio
