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

package hardware_test

import (
	"errors"
	"testing"

	"github.com/gopher65/gopher65/environment"
	"github.com/gopher65/gopher65/govern"
	"github.com/gopher65/gopher65/hardware"
	"github.com/gopher65/gopher65/hardware/dma"
	"github.com/gopher65/gopher65/hardware/io"
	"github.com/gopher65/gopher65/hardware/memory/bus"
	"github.com/gopher65/gopher65/hardware/preferences"
	"github.com/gopher65/gopher65/test"
)

// a CPU that runs one function per instruction. once the functions have been
// exhausted every instruction does nothing
type scriptedCPU struct {
	instructions []func(mem bus.CPUBus) error
	executed     int
}

func (c *scriptedCPU) ExecuteInstruction(mem bus.CPUBus) (int, error) {
	if c.executed < len(c.instructions) {
		if err := c.instructions[c.executed](mem); err != nil {
			return 0, err
		}
	}
	c.executed++
	return 2, nil
}

func writes(pairs ...uint16) func(mem bus.CPUBus) error {
	return func(mem bus.CPUBus) error {
		for i := 0; i < len(pairs); i += 2 {
			if err := mem.Write(pairs[i], uint8(pairs[i+1])); err != nil {
				return err
			}
		}
		return nil
	}
}

func newMachine(t *testing.T, variant string, setup func(p *preferences.Preferences)) *hardware.Machine {
	t.Helper()
	t.Chdir(t.TempDir())

	env, err := environment.NewEnvironment(environment.MainEmulation, nil, nil)
	test.DemandSuccess(t, err)
	env.Normalise()
	test.DemandSuccess(t, env.Prefs.Variant.Set(variant))
	if setup != nil {
		setup(env.Prefs)
	}

	m, err := hardware.NewMachine(env)
	test.DemandSuccess(t, err)
	return m
}

// a F018A fill descriptor
func fill(value uint8, length uint16, dst uint32) []uint8 {
	return []uint8{
		0x03, uint8(length), uint8(length >> 8),
		value, 0x00, 0x00,
		uint8(dst), uint8(dst >> 8), uint8(dst >> 16),
		0x00, 0x00,
	}
}

func TestInterleave(t *testing.T) {
	m := newMachine(t, "C65", func(p *preferences.Preferences) {
		_ = p.DMAPolicy.Set(preferences.PolicyInterleave)
	})

	for i, v := range fill(0x5a, 10, 0x4000) {
		m.Mem.WritePhysical(0x8000+uint32(i), v)
	}

	cpu := &scriptedCPU{
		instructions: []func(bus.CPUBus) error{
			writes(0xd02f, 0xa5, 0xd02f, 0x96),
			writes(0xd702, 0x00, 0xd701, 0x80, 0xd700, 0x00),
		},
	}

	test.DemandSuccess(t, m.Step(cpu))
	test.ExpectEquality(t, m.IO.Personality(), io.VICIII)
	test.DemandSuccess(t, m.Step(cpu))
	test.ExpectEquality(t, m.DMA.IsBusy(), true)
	test.ExpectEquality(t, m.Clock.Cycles(), uint64(4))

	// the CPU is held while the job is in progress. one fetch and ten bytes
	// at two steps per instruction
	var held int
	for m.DMA.IsBusy() {
		test.DemandSuccess(t, m.Step(cpu))
		held++
	}
	test.ExpectEquality(t, held, 6)
	test.ExpectEquality(t, cpu.executed, 2)
	test.ExpectEquality(t, m.Clock.Cycles(), uint64(4+11+10))
	test.ExpectEquality(t, m.Mem.ReadPhysical(0x4009), uint8(0x5a))

	test.DemandSuccess(t, m.Step(cpu))
	test.ExpectEquality(t, cpu.executed, 3)
}

func TestDrain(t *testing.T) {
	m := newMachine(t, "C65", nil)

	for i, v := range fill(0x5a, 10, 0x4000) {
		m.Mem.WritePhysical(0x8000+uint32(i), v)
	}

	cpu := &scriptedCPU{
		instructions: []func(bus.CPUBus) error{
			writes(0xd02f, 0xa5, 0xd02f, 0x96, 0xd702, 0x00, 0xd701, 0x80, 0xd700, 0x00),
		},
	}

	// the job completes inside the instruction that starts it
	test.DemandSuccess(t, m.Step(cpu))
	test.ExpectEquality(t, m.DMA.IsBusy(), false)
	test.ExpectEquality(t, m.Mem.ReadPhysical(0x4009), uint8(0x5a))
}

// fills the 64KB bank with chained enhanced descriptors. the list pointer
// wraps within the bank so the job never ends
func runawayList(m *hardware.Machine) {
	desc := []uint8{
		0x06, 0x06, 0x06, 0x06, 0x00,
		0x04, 0x01, 0x00,
		0x00, 0x01, 0x00,
		0x00, 0x20, 0x00,
		0x00, 0x00,
	}
	for a := uint32(0x10000); a < 0x20000; a += uint32(len(desc)) {
		for i, v := range desc {
			m.Mem.WritePhysical(a+uint32(i), v)
		}
	}
}

func TestRunaway(t *testing.T) {
	m := newMachine(t, "MEGA65", nil)
	runawayList(m)

	cpu := &scriptedCPU{
		instructions: []func(bus.CPUBus) error{
			writes(0xd02f, 0x47, 0xd02f, 0x53, 0xd702, 0x01, 0xd701, 0x00, 0xd705, 0x00),
		},
	}

	err := m.Step(cpu)
	test.ExpectEquality(t, errors.Is(err, dma.ErrRunaway), true)
	test.ExpectEquality(t, m.DMA.IsBusy(), false)

	// the error is only reported once
	test.ExpectSuccess(t, m.Step(cpu))
}

func TestRun(t *testing.T) {
	m := newMachine(t, "C65", nil)
	cpu := &scriptedCPU{}

	var checks int
	err := m.Run(cpu, func() (govern.State, error) {
		checks++
		if checks == 5 {
			return govern.Ending, nil
		}
		return govern.Running, nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, cpu.executed, 5)

	cpu = &scriptedCPU{
		instructions: []func(bus.CPUBus) error{
			func(_ bus.CPUBus) error { return errors.New("halted") },
		},
	}
	test.ExpectFailure(t, m.Run(cpu, nil))

	test.ExpectSuccess(t, m.RunForInstructionCount(&scriptedCPU{}, 10))
}

func TestSnapshot(t *testing.T) {
	m := newMachine(t, "C65", nil)

	test.DemandSuccess(t, m.Mem.Write(0x1000, 0x01))
	state := m.Snapshot()

	test.DemandSuccess(t, m.Mem.Write(0x1000, 0x02))
	test.DemandSuccess(t, m.Mem.Write(0xd02f, 0xa5))
	test.DemandSuccess(t, m.Mem.Write(0xd02f, 0x96))
	test.ExpectEquality(t, m.IO.Personality(), io.VICIII)

	m.Plumb(state)
	v, err := m.Mem.Read(0x1000)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint8(0x01))
	test.ExpectEquality(t, m.IO.Personality(), io.C64)

	// the plumbed memory and i/o are connected to each other
	test.DemandSuccess(t, m.Mem.Write(0xd800, 0x07))
	test.ExpectEquality(t, m.Mem.ReadPhysical(0x1f800), uint8(0x07))

	// the stored state is unaffected by the machine
	v, err = state.Mem.Read(0x1000)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint8(0x01))
}

func TestReset(t *testing.T) {
	m := newMachine(t, "C65", nil)

	test.DemandSuccess(t, m.Mem.LoadROM([]uint8{0x01, 0x02, 0x03}))
	m.Mem.WritePhysical(0x1000, 0x55)
	m.Mem.Map(0x00, 0x00, 0x00, 0xf1)
	m.Clock.Add(10)

	m.Reset()

	// the ROM survives but RAM, banking and the clock do not
	test.ExpectEquality(t, m.Mem.ReadPhysical(0x20000), uint8(0x01))
	test.ExpectEquality(t, m.Mem.ReadPhysical(0x20002), uint8(0x03))
	test.ExpectEquality(t, m.Mem.ReadPhysical(0x1000), uint8(0xff))
	test.ExpectEquality(t, m.Mem.Config().MapMask, uint8(0x00))
	test.ExpectEquality(t, m.Clock.Cycles(), uint64(0))
}
