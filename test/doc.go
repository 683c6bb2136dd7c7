// This file is part of Gopher65.
//
// Gopher65 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher65 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher65.  If not, see <https://www.gnu.org/licenses/>.

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The Expect*() functions report a failure with t.Errorf() and allow the test
// to continue. The Demand*() functions report with t.Fatalf() and stop the
// test immediately. Use the Demand*() form when the remainder of the test makes
// no sense if the condition is not met, for example when a constructor fails.
//
// It is worth describing how ExpectSuccess() and ExpectFailure() handle the nil
// type because it is not obvious. The nil type is considered a success. This
// may not be how we want to interpret nil in all situations but because of how
// errors usually work (nil to indicate no error) we *need* to interpret nil in
// this way.
//
// All functions accept an optional list of tags. The tags are printed as part
// of the failure message and are useful for identifying the failing iteration
// of a loop.
//
// The RingWriter type implements the io.Writer interface and keeps only the
// most recent output. Useful for capturing the output of long running
// processes.
package test
