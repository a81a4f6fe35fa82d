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

// Package logger is the central log for the application. Entries are tagged
// with the area of the program making the entry and identical consecutive
// entries are collapsed into one, with a repeat count.
//
// Logging requests are made with a Permission. The Allow value is always
// permitted. Other implementations can use the AllowLogging() function to
// suppress logging in certain contexts, for example during a benchmark run.
//
//	logger.Log(logger.Allow, "scheduler", "state changed to Running")
//	logger.Logf(logger.Allow, "audio", "device opened at %dHz", rate)
//
// Entries can be echoed as they are made with SetEcho(), and forwarded to a
// log/slog handler with SetHandler(). The handler is how structured output
// (JSON to a file, say) is produced.
package logger
