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
	"fmt"
	"strings"

	"github.com/gopher65/gopher65/environment"
	"github.com/gopher65/gopher65/hardware/clocks"
	"github.com/gopher65/gopher65/hardware/dma"
	"github.com/gopher65/gopher65/hardware/io"
	"github.com/gopher65/gopher65/hardware/memory"
	"github.com/gopher65/gopher65/hardware/memory/bus"
	"github.com/gopher65/gopher65/hardware/memory/memorymap"
)

// CPU is the interface to the processor driving the machine.
// ExecuteInstruction() executes exactly one instruction and returns the
// number of cycles it took.
type CPU interface {
	ExecuteInstruction(mem bus.CPUBus) (int, error)
}

// Machine is the emulated machine, less the CPU.
type Machine struct {
	Env *environment.Environment

	Mem *memory.Memory
	IO  *io.Dispatcher
	DMA *dma.Engine

	Variant memorymap.Variant

	// cycles executed by the CPU and by the DMA engine
	Clock *clocks.Counter
}

// NewMachine creates a new machine and everything associated with the
// hardware. The machine variant is taken from the preferences in the
// environment. The machine is reset before returning.
func NewMachine(env *environment.Environment) (*Machine, error) {
	m := &Machine{
		Env:   env,
		Clock: &clocks.Counter{},
	}

	// random numbers are differentiated by the cycle count of this machine
	env.Random.Plumb(m.Clock)

	var err error

	m.Mem, err = memory.NewMemory(env)
	if err != nil {
		return nil, fmt.Errorf("machine: %w", err)
	}
	m.Variant = m.Mem.Variant()

	m.IO = io.NewDispatcher(env, m.Mem)
	m.Mem.AttachIO(m.IO)

	m.DMA = dma.NewEngine(env, m.Variant, m.Mem)
	m.IO.AttachDMA(m.DMA)

	m.Reset()

	return m, nil
}

// Reset the machine. The ROM area of physical memory is left alone so a loaded
// ROM survives the reset. Everything else returns to its power-on state.
func (m *Machine) Reset() {
	m.Clock.Reset()
	m.DMA.Reset()
	m.IO.Reset()
	m.Mem.Reset()
}

func (m *Machine) String() string {
	return fmt.Sprintf("%s: %s: dma %s", m.Variant, m.IO.Personality(), m.DMA)
}

// Summary returns a multiline description of the machine. Including the
// translation table of the current bank configuration.
func (m *Machine) Summary() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s (%d cycles)\n", m.Variant, m.Clock.Cycles()))
	s.WriteString(fmt.Sprintf("i/o: %s\n", m.IO.Personality()))
	s.WriteString(fmt.Sprintf("dma: %s\n", m.DMA))
	s.WriteString(m.Mem.Summary())
	return s.String()
}
