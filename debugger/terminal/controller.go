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

package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jetsetilly/gopher8bit/curated"
	"github.com/jetsetilly/gopher8bit/debugger"
	"github.com/jetsetilly/gopher8bit/govern"
	"github.com/jetsetilly/gopher8bit/logger"
	"github.com/jetsetilly/gopher8bit/scheduler"
)

// DefaultMemvizFile is the file written by the memviz key if no other file
// has been specified.
const DefaultMemvizFile = "gopher8bit_memviz.dot"

// Emulation is the part of the scheduler used by the controller.
type Emulation interface {
	debugger.Machine
	RequestStateChange(request govern.Request) error
	StepInto() error
	Done() <-chan struct{}
	Err() error
}

// Controller translates key presses into scheduler requests.
type Controller struct {
	emu    Emulation
	bridge *debugger.Bridge
	out    io.Writer

	// the value written by the memviz key. if nil the emulation is used
	Memviz any

	// the file written by the memviz key
	MemvizFile string

	// number of instructions printed by the trace keys
	TraceDepth int

	// the controller quits when a signal is received. can be nil
	Interrupt <-chan os.Signal

	status  *color.Color
	stopped *color.Color
	trace   *color.Color
	err     *color.Color
	help    *color.Color
}

// NewController is the preferred method of initialisation for the Controller
// type.
func NewController(emu Emulation, bridge *debugger.Bridge, out io.Writer) *Controller {
	return &Controller{
		emu:        emu,
		bridge:     bridge,
		out:        out,
		MemvizFile: DefaultMemvizFile,
		TraceDepth: 16,
		status:     color.New(color.FgCyan),
		stopped:    color.New(color.FgCyan, color.Bold),
		trace:      color.New(color.FgYellow),
		err:        color.New(color.FgRed),
		help:       color.New(color.Faint),
	}
}

// Help prints the list of keys.
func (c *Controller) Help() {
	c.help.Fprintln(c.out, "space run/pause  f full speed  s step  r reset  u restore")
	c.help.Fprintln(c.out, "t trace  y trace (yaml)  m memviz  q quit")
}

type key struct {
	b   byte
	err error
}

func readKeys(in io.Reader, keys chan<- key, quit <-chan struct{}) {
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		var k key
		if n > 0 {
			k.b = buf[0]
		} else if err != nil {
			k.err = err
		} else {
			continue
		}

		select {
		case keys <- k:
		case <-quit:
			return
		}

		if k.err != nil {
			return
		}
	}
}

// Run reads keys from the input until the quit key is pressed, the input is
// exhausted, an interrupt is received or the scheduler goroutine ends. Notifications from the bridge
// are handled while waiting for input.
//
// The returned error is the error that ended the scheduler goroutine, if
// any.
func (c *Controller) Run(in io.Reader) error {
	keys := make(chan key)
	quit := make(chan struct{})
	defer close(quit)

	go readKeys(in, keys, quit)

	for {
		select {
		case k := <-keys:
			if k.err != nil {
				if errors.Is(k.err, io.EOF) {
					return nil
				}
				return fmt.Errorf("terminal: %w", k.err)
			}

			done, err := c.handleKey(k.b)
			if err != nil {
				if curated.Is(err, scheduler.LoopNotRunning) {
					return c.emu.Err()
				}
				c.err.Fprintf(c.out, "\n* %v\n", err)
			}
			if done {
				fmt.Fprintln(c.out)
				return nil
			}

		case <-c.bridge.Refreshed():
			c.refresh()

		case <-c.bridge.Stopped():
			// the refresh is always raised with the stop
			select {
			case <-c.bridge.Refreshed():
				c.refresh()
			default:
			}
			c.showStopped()

		case <-c.emu.Done():
			fmt.Fprintln(c.out)
			return c.emu.Err()

		case <-c.Interrupt:
			fmt.Fprintln(c.out)
			return nil
		}
	}
}

// handleKey returns true if the key indicates that the controller should
// quit.
func (c *Controller) handleKey(k byte) (bool, error) {
	switch k {
	case ' ':
		if c.emu.State().IsRunning() {
			return false, c.emu.RequestStateChange(govern.Pause)
		}
		return false, c.emu.RequestStateChange(govern.Run)
	case 'f':
		return false, c.emu.RequestStateChange(govern.RunFullSpeed)
	case 's':
		return false, c.emu.StepInto()
	case 'r':
		return false, c.emu.RequestStateChange(govern.Reset)
	case 'u':
		return false, c.emu.RequestStateChange(govern.Restore)
	case 't':
		c.printTrace()
	case 'y':
		fmt.Fprintln(c.out)
		return false, c.emu.History().WriteYAML(c.out, c.TraceDepth)
	case 'm':
		return false, c.writeMemviz()
	case 'q':
		return true, nil
	case '?', 'h':
		fmt.Fprintln(c.out)
		c.Help()
	}
	return false, nil
}

func (c *Controller) refresh() {
	actual, ratio := c.emu.FPS()
	c.status.Fprintf(c.out, "\r%-16s %6.2f fps (%5.1f%%) %12d cycles", c.emu.State(), actual, ratio*100, c.emu.Cycles())
}

func (c *Controller) showStopped() {
	fmt.Fprintln(c.out)
	c.stopped.Fprintf(c.out, "%s at $%04x", c.emu.State(), c.emu.PC())
	if bp := c.emu.Breakpoint(); bp != scheduler.NoBreakpoint && bp == int(c.emu.PC()) {
		c.stopped.Fprintf(c.out, " (breakpoint)")
	}
	fmt.Fprintln(c.out)
	if e, ok := c.emu.History().At(0); ok {
		c.trace.Fprintln(c.out, e.String())
	}
}

func (c *Controller) printTrace() {
	fmt.Fprintln(c.out)
	entries := c.emu.History().Entries(c.TraceDepth)
	if len(entries) == 0 {
		c.help.Fprintln(c.out, "no instruction history")
		return
	}

	// oldest first
	for i := len(entries) - 1; i >= 0; i-- {
		c.trace.Fprintln(c.out, entries[i].String())
	}
}

func (c *Controller) writeMemviz() error {
	v := c.Memviz
	if v == nil {
		v = c.emu
	}

	f, err := os.Create(c.MemvizFile)
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer f.Close()

	debugger.DumpMemviz(f, v)

	logger.Logf(logger.Allow, "terminal", "memviz written to %s", c.MemvizFile)
	fmt.Fprintf(c.out, "\nmemviz written to %s\n", c.MemvizFile)

	return nil
}
