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

package debugger_test

import (
	"testing"
	"time"

	"github.com/jetsetilly/gopher8bit/debugger"
	"github.com/jetsetilly/gopher8bit/govern"
	"github.com/jetsetilly/gopher8bit/test"
	"github.com/jetsetilly/gopher8bit/trace"
)

type machine struct {
	buf *trace.Buffer
}

func (m *machine) State() govern.State {
	return govern.Paused
}

func (m *machine) Cycles() uint64 {
	return 100
}

func (m *machine) PC() uint16 {
	return 0x0300
}

func (m *machine) Breakpoint() int {
	return -1
}

func (m *machine) History() *trace.History {
	return m.buf.History()
}

func (m *machine) FPS() (float32, float32) {
	return 60, 1
}

func newBridge(t *testing.T, interval time.Duration) (*debugger.Bridge, *trace.Buffer) {
	t.Helper()
	buf, err := trace.NewBuffer(4)
	test.DemandSuccess(t, err)
	b := debugger.NewBridge(buf, interval)
	b.Attach(&machine{buf: buf})
	return b, buf
}

func TestThrottle(t *testing.T) {
	b, _ := newBridge(t, time.Hour)

	var refreshes int
	b.OnRefresh(func(_ debugger.Machine) {
		refreshes++
	})

	// the first notification is always delivered because the previous
	// notification was a long time ago
	b.Notify(false)
	b.Notify(false)
	b.Notify(false)
	test.ExpectSuccess(t, b.Poll())
	test.ExpectEquality(t, refreshes, 1)

	// nothing is pending
	test.ExpectFailure(t, b.Poll())
	test.ExpectEquality(t, refreshes, 1)

	// forced notifications ignore the interval
	b.Notify(true)
	test.ExpectSuccess(t, b.Poll())
	test.ExpectEquality(t, refreshes, 2)
}

func TestNoThrottle(t *testing.T) {
	b, _ := newBridge(t, 0)

	var refreshes int
	b.OnRefresh(func(_ debugger.Machine) {
		refreshes++
	})

	for range 3 {
		b.Notify(false)
		b.Poll()
	}
	test.ExpectEquality(t, refreshes, 3)
}

func TestStopped(t *testing.T) {
	b, _ := newBridge(t, time.Hour)

	var order []string
	b.OnRefresh(func(_ debugger.Machine) {
		order = append(order, "refresh")
	})
	b.OnStopped(func(m debugger.Machine) {
		test.ExpectEquality(t, m.PC(), 0x0300)
		order = append(order, "stopped")
	})

	// unforced notifications never raise the stopped signal
	b.Notify(false)
	b.Poll()
	test.ExpectEquality(t, len(order), 1)

	b.Notify(true)
	b.Poll()
	test.DemandEquality(t, len(order), 3)
	test.ExpectEquality(t, order[1], "refresh")
	test.ExpectEquality(t, order[2], "stopped")
}

func TestCoalesce(t *testing.T) {
	b, _ := newBridge(t, 0)

	var stops int
	b.OnStopped(func(_ debugger.Machine) {
		stops++
	})

	// nobody is listening. none of these calls should block
	for range 100 {
		b.Notify(true)
	}
	b.Poll()
	test.ExpectEquality(t, stops, 1)
}

func TestHistoryUpdatedBeforeSignal(t *testing.T) {
	b, buf := newBridge(t, time.Hour)

	e := buf.NextEmptySlot()
	e.PC = 0x1234

	// history has not been published yet
	_, ok := buf.At(0)
	test.ExpectFailure(t, ok)

	b.Notify(true)

	select {
	case <-b.Stopped():
	default:
		t.Fatalf("expected stopped signal")
	}

	e2, ok := buf.At(0)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, e2.PC, 0x1234)
}

func TestDispatch(t *testing.T) {
	b, _ := newBridge(t, 0)

	stopped := make(chan debugger.Machine, 1)
	b.OnStopped(func(m debugger.Machine) {
		stopped <- m
	})

	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		b.Dispatch(quit)
		close(done)
	}()

	b.Notify(true)

	select {
	case m := <-stopped:
		test.ExpectEquality(t, m.State(), govern.Paused)
	case <-time.After(time.Second):
		t.Fatalf("stopped handler was not called")
	}

	close(quit)
	<-done
}
