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
	"sync"
	"time"

	"github.com/jetsetilly/gopher8bit/trace"
)

// DefaultInterval is the minimum time between unforced notifications.
const DefaultInterval = 200 * time.Millisecond

// Bridge delivers notifications from the scheduler goroutine to the
// controller goroutine. Notify() never blocks. Notifications are coalesced so
// that a slow controller does not cause the queue to grow. It only ever sees
// the most recent state of the machine anyway.
//
// There are two kinds of notification. A refresh notification is a hint that
// the display of the machine should be updated. A stopped notification
// indicates that the emulation has paused and that the full machine state is
// safe to inspect.
type Bridge struct {
	history  *trace.Buffer
	interval time.Duration

	// time of the last notification. only accessed by the scheduler goroutine
	last time.Time

	refresh chan struct{}
	stopped chan struct{}

	crit      sync.Mutex
	machine   Machine
	onRefresh []func(Machine)
	onStopped []func(Machine)
}

// NewBridge is the preferred method of initialisation for the Bridge type. An
// interval of zero or less means that every notification is delivered.
func NewBridge(history *trace.Buffer, interval time.Duration) *Bridge {
	return &Bridge{
		history:  history,
		interval: interval,
		refresh:  make(chan struct{}, 1),
		stopped:  make(chan struct{}, 1),
	}
}

// Attach the machine that is given to notification handlers.
func (b *Bridge) Attach(m Machine) {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.machine = m
}

// OnRefresh adds a handler for refresh notifications.
func (b *Bridge) OnRefresh(f func(Machine)) {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.onRefresh = append(b.onRefresh, f)
}

// OnStopped adds a handler for stopped notifications.
func (b *Bridge) OnStopped(f func(Machine)) {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.onStopped = append(b.onStopped, f)
}

// Notify is called by the scheduler goroutine. Unforced notifications are
// dropped if the previous notification was less than the bridge interval ago.
// Forced notifications are always raised and also raise the stopped signal.
//
// The instruction history is updated before any signal is raised.
func (b *Bridge) Notify(forced bool) {
	now := time.Now()
	if !forced && now.Sub(b.last) < b.interval {
		return
	}
	b.last = now

	b.history.UpdateHistory()

	post(b.refresh)
	if forced {
		post(b.stopped)
	}
}

func post(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
		// a signal is already pending. the controller will see the same
		// machine when it gets round to it
	}
}

// Refreshed returns the channel on which refresh notifications are signalled.
// Useful for controllers that have their own event loop. The handlers
// registered with OnRefresh() are not called for signals received this way.
func (b *Bridge) Refreshed() <-chan struct{} {
	return b.refresh
}

// Stopped returns the channel on which stopped notifications are signalled.
// The handlers registered with OnStopped() are not called for signals received
// this way.
func (b *Bridge) Stopped() <-chan struct{} {
	return b.stopped
}

// Poll runs the handlers for any pending notifications. It does not block.
// Returns true if any notification was pending.
func (b *Bridge) Poll() bool {
	var pending bool

	// refresh handlers run before stopped handlers so that a controller sees
	// the refresh and then the stop, in the order they were raised
	select {
	case <-b.refresh:
		b.run(b.handlers(false))
		pending = true
	default:
	}

	select {
	case <-b.stopped:
		b.run(b.handlers(true))
		pending = true
	default:
	}

	return pending
}

// Dispatch runs handlers as notifications arrive, until the quit channel is
// closed. It should be called by the controller goroutine.
func (b *Bridge) Dispatch(quit <-chan struct{}) {
	for {
		select {
		case <-quit:
			return
		case <-b.refresh:
			b.run(b.handlers(false))
		case <-b.stopped:
			// a stop may be pending at the same time as a refresh. make sure the
			// refresh is seen first
			select {
			case <-b.refresh:
				b.run(b.handlers(false))
			default:
			}
			b.run(b.handlers(true))
		}
	}
}

func (b *Bridge) handlers(stopped bool) (Machine, []func(Machine)) {
	b.crit.Lock()
	defer b.crit.Unlock()
	if stopped {
		return b.machine, b.onStopped
	}
	return b.machine, b.onRefresh
}

func (b *Bridge) run(m Machine, handlers []func(Machine)) {
	for _, f := range handlers {
		f(m)
	}
}
