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

package hardware

import (
	"github.com/gopher65/gopher65/hardware/clocks"
	"github.com/gopher65/gopher65/hardware/dma"
	"github.com/gopher65/gopher65/hardware/io"
	"github.com/gopher65/gopher65/hardware/memory"
)

// State stores the machine sub-systems. It is produced by the Snapshot()
// function and can be restored with the Plumb() function
//
// State is an in-memory copy. The hardware/snapshot package is used to write
// the machine state to a file.
type State struct {
	Mem   *memory.Memory
	IO    *io.Dispatcher
	DMA   *dma.Engine
	Clock clocks.Counter
}

// Snapshot creates a copy of a previously snapshotted machine State
func (s *State) Snapshot() *State {
	return &State{
		Mem:   s.Mem.Snapshot(),
		IO:    s.IO.Snapshot(),
		DMA:   s.DMA.Snapshot(),
		Clock: s.Clock,
	}
}

// Snapshot the state of the machine sub-systems
func (m *Machine) Snapshot() *State {
	return &State{
		Mem:   m.Mem.Snapshot(),
		IO:    m.IO.Snapshot(),
		DMA:   m.DMA.Snapshot(),
		Clock: *m.Clock,
	}
}

// Plumb a previously snapshotted machine.
func (m *Machine) Plumb(state *State) {
	if state == nil {
		panic("machine: cannot plumb in a nil state")
	}

	// take another snapshot of the state before plumbing. we don't want the
	// machine to change what we have stored in our state
	m.Mem = state.Mem.Snapshot()
	m.IO = state.IO.Snapshot()
	m.DMA = state.DMA.Snapshot()
	*m.Clock = state.Clock

	m.Mem.Plumb(m.Env, m.IO)
	m.IO.Plumb(m.Env, m.Mem)
	m.DMA.Plumb(m.Env, m.Mem)
	m.IO.AttachDMA(m.DMA)
}
