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
)

// Step the machine by one CPU instruction. If the DMA engine is busy then the
// CPU is held and the engine is stepped instead.
//
// Any error from the CPU or from the DMA engine is returned. In the case of
// the DMA engine it will wrap dma.ErrRunaway.
func (m *Machine) Step(cpu CPU) error {
	if m.DMA.IsBusy() {
		return m.stepDMA()
	}

	cycles, err := cpu.ExecuteInstruction(m.Mem)
	m.Clock.Add(cycles)
	if err != nil {
		return fmt.Errorf("machine: %w", err)
	}

	// a job started by a register write during the instruction may have
	// failed. under the DRAIN policy this is the only way of finding out
	if err := m.DMA.Err(); err != nil {
		return fmt.Errorf("machine: %w", err)
	}

	return nil
}

func (m *Machine) stepDMA() error {
	n := max(m.Env.Prefs.DMAStepsPerInstruction.Get().(int), 1)
	for range n {
		if !m.DMA.IsBusy() {
			break
		}
		cycles, err := m.DMA.Step()
		m.Clock.Add(cycles)
		if err != nil {
			return fmt.Errorf("machine: %w", err)
		}
	}
	return nil
}
