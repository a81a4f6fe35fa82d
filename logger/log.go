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

package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Entry represents a single line/entry in the log
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	Repeated  int
}

func (e *Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.Tag, e.Detail))
	if e.Repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.Repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

var (
	tagPen   = color.New(color.FgCyan)
	errorPen = color.New(color.FgRed, color.Bold)
)

// Logger is a bounded list of log entries. Most code should use the central
// logger through the package level functions.
type Logger struct {
	crit       sync.Mutex
	maxEntries int
	entries    []Entry

	// the index of the first entry that has not been seen by WriteRecent()
	recent int

	echo    io.Writer
	handler slog.Handler
}

// NewLogger is the preferred method of initialisation for the Logger type.
func NewLogger(maxEntries int) *Logger {
	maxEntries = max(1, maxEntries)
	return &Logger{
		maxEntries: maxEntries,
		entries:    make([]Entry, 0, maxEntries),
	}
}

// Log adds an entry to the logger. The detail argument can be any type but
// error and fmt.Stringer types are handled explicitly.
func (l *Logger) Log(perm Permission, tag string, detail any) {
	if perm != Allow && !perm.AllowLogging() {
		return
	}

	switch d := detail.(type) {
	case string:
		l.log(tag, d)
	case error:
		l.log(tag, d.Error())
	case fmt.Stringer:
		l.log(tag, d.String())
	default:
		l.log(tag, fmt.Sprintf("%v", d))
	}
}

// Logf adds a formatted entry to the logger.
func (l *Logger) Logf(perm Permission, tag, detail string, args ...any) {
	if perm != Allow && !perm.AllowLogging() {
		return
	}
	l.log(tag, fmt.Sprintf(detail, args...))
}

func (l *Logger) log(tag, detail string) {
	// remove all newline characters from tag and detail string
	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	l.crit.Lock()
	defer l.crit.Unlock()

	var e *Entry
	if n := len(l.entries); n > 0 && l.entries[n-1].Tag == tag && l.entries[n-1].Detail == detail {
		e = &l.entries[n-1]
		e.Repeated++
		e.Timestamp = time.Now()
	} else {
		l.entries = append(l.entries, Entry{Timestamp: time.Now(), Tag: tag, Detail: detail})
		e = &l.entries[len(l.entries)-1]
	}

	// maintain maximum length
	if len(l.entries) > l.maxEntries {
		drop := len(l.entries) - l.maxEntries
		l.entries = append(l.entries[:0], l.entries[drop:]...)
		l.recent = max(0, l.recent-drop)
		e = &l.entries[len(l.entries)-1]
	}

	if l.echo != nil {
		l.writeEcho(e)
	}

	if l.handler != nil {
		r := slog.NewRecord(e.Timestamp, levelFor(tag, detail), detail, 0)
		r.AddAttrs(slog.String("tag", tag))
		if e.Repeated > 0 {
			r.AddAttrs(slog.Int("repeat", e.Repeated+1))
		}
		_ = l.handler.Handle(context.Background(), r)
	}
}

func (l *Logger) writeEcho(e *Entry) {
	pen := tagPen
	if strings.Contains(strings.ToLower(e.Detail), "error") {
		pen = errorPen
	}
	pen.Fprintf(l.echo, "%s: ", e.Tag)
	io.WriteString(l.echo, strings.TrimPrefix(e.String(), e.Tag+": "))
}

// entries containing the word "error" are forwarded as errors. everything
// else is informational
func levelFor(tag, detail string) slog.Level {
	if strings.Contains(strings.ToLower(detail), "error") || strings.Contains(strings.ToLower(tag), "error") {
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Clear all entries.
func (l *Logger) Clear() {
	l.crit.Lock()
	defer l.crit.Unlock()
	l.entries = l.entries[:0]
	l.recent = 0
}

// Write contents of the log to io.Writer.
func (l *Logger) Write(output io.Writer) {
	l.crit.Lock()
	defer l.crit.Unlock()
	for i := range l.entries {
		io.WriteString(output, l.entries[i].String())
	}
}

// WriteRecent writes only the entries added since the last call to
// WriteRecent.
func (l *Logger) WriteRecent(output io.Writer) {
	l.crit.Lock()
	defer l.crit.Unlock()
	for i := l.recent; i < len(l.entries); i++ {
		io.WriteString(output, l.entries[i].String())
	}
	l.recent = len(l.entries)
}

// Tail writes the last N entries to io.Writer.
func (l *Logger) Tail(output io.Writer, number int) {
	l.crit.Lock()
	defer l.crit.Unlock()

	// cap number to the number of entries
	number = min(number, len(l.entries))

	for i := len(l.entries) - number; i < len(l.entries); i++ {
		io.WriteString(output, l.entries[i].String())
	}
}

// SetEcho prints log entries to io.Writer as they are made. A nil writer
// stops the echo. If writeRecent is true, entries not yet seen by
// WriteRecent() are written immediately.
func (l *Logger) SetEcho(output io.Writer, writeRecent bool) {
	if output != nil && writeRecent {
		l.WriteRecent(output)
	}
	l.crit.Lock()
	defer l.crit.Unlock()
	l.echo = output
}

// SetHandler forwards every new entry to the slog.Handler. A nil handler
// stops forwarding.
func (l *Logger) SetHandler(h slog.Handler) {
	l.crit.Lock()
	defer l.crit.Unlock()
	l.handler = h
}

// BorrowLog gives the provided function the critical section and access to the
// list of log entries.
func (l *Logger) BorrowLog(f func([]Entry)) {
	l.crit.Lock()
	defer l.crit.Unlock()
	f(l.entries)
}
