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

// Package statsview serves runtime statistics of the emulator over HTTP. The
// server is only available when the program is built with the statsview
// build tag. Without the tag, Launch() does nothing and Available() returns
// false.
//
// The graphs are provided by "github.com/go-echarts/statsview" and are
// viewable at:
//
//	localhost:12650/debug/statsview
//
// Standard Go pprof statistics are available at:
//
//	localhost:12650/debug/pprof/
package statsview
