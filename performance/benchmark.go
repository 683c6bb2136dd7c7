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

package performance

import (
	"github.com/gopher65/gopher65/hardware"
	"github.com/gopher65/gopher65/hardware/memory/bus"
)

// physical address of the DMA list used by the benchmark
const benchmarkList = uint32(0x8000)

// Benchmark is a CPU that starts a DMA job with every instruction. The jobs
// alternate between copying and mixing a 4KB block of memory.
type Benchmark struct {
	primed bool
}

// NewBenchmark writes the DMA list used by the benchmark into the machine.
func NewBenchmark(m *hardware.Machine) *Benchmark {
	list := []uint8{
		// chained copy of $1000 to $3000
		0x04, 0x00, 0x10, 0x00, 0x10, 0x00, 0x00, 0x30, 0x00, 0x00, 0x00,
		// xor of $3000 with $4000
		0x61, 0x00, 0x10, 0x00, 0x40, 0x00, 0x00, 0x30, 0x00, 0x00, 0x00,
	}
	for i, v := range list {
		m.Mem.WritePhysical(benchmarkList+uint32(i), v)
	}
	return &Benchmark{}
}

// ExecuteInstruction implements the hardware.CPU interface.
func (b *Benchmark) ExecuteInstruction(mem bus.CPUBus) (int, error) {
	if !b.primed {
		// unlock the VIC-III personality and set the list address
		for _, w := range [][2]uint16{{0xd02f, 0xa5}, {0xd02f, 0x96}, {0xd702, 0x00}, {0xd701, uint16(benchmarkList >> 8)}} {
			if err := mem.Write(w[0], uint8(w[1])); err != nil {
				return 0, err
			}
		}
		b.primed = true
	}

	if err := mem.Write(0xd700, uint8(benchmarkList & 0xff)); err != nil {
		return 0, err
	}

	return 4, nil
}
