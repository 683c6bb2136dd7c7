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

package script_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gopher65/gopher65/environment"
	"github.com/gopher65/gopher65/hardware"
	"github.com/gopher65/gopher65/hardware/dma"
	"github.com/gopher65/gopher65/script"
	"github.com/gopher65/gopher65/test"
)

func newScript(t *testing.T, variant string) (*script.Script, *hardware.Machine, *test.RingWriter) {
	t.Helper()
	t.Chdir(t.TempDir())

	env, err := environment.NewEnvironment(environment.MainEmulation, nil, nil)
	test.DemandSuccess(t, err)
	env.Normalise()
	test.DemandSuccess(t, env.Prefs.Variant.Set(variant))

	m, err := hardware.NewMachine(env)
	test.DemandSuccess(t, err)

	out, err := test.NewRingWriter(256)
	test.DemandSuccess(t, err)

	s := script.NewScript(m, out)
	t.Cleanup(s.Close)

	return s, m, out
}

func TestMemoryFunctions(t *testing.T) {
	s, m, out := newScript(t, "C65")

	err := s.RunString(`
		poke(0x1000, 0x42)
		write(0x1001, 0x43)
		phys_write(0x1002, 0x44)
		print(peek(0x1000), read(0x1001), phys_read(0x1002))
	`)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out.String(), "66\t67\t68\n")
	test.ExpectEquality(t, m.Mem.ReadPhysical(0x1001), uint8(0x43))

	// the cpu port
	test.ExpectSuccess(t, s.RunString(`write(0x0001, 0x00)`))
	test.ExpectEquality(t, m.Mem.Config().PortData, uint8(0x00))
}

func TestMap(t *testing.T) {
	s, m, _ := newScript(t, "C65")

	// map the upper 32KB to physical $10000
	test.ExpectSuccess(t, s.RunString(`map(0x00, 0x00, 0x00, 0xf1)`))
	test.ExpectEquality(t, m.Mem.Config().MapMask, uint8(0xf0))
	test.ExpectSuccess(t, s.RunString(`write(0x8000, 0x99)`))
	test.ExpectEquality(t, m.Mem.ReadPhysical(0x18000), uint8(0x99))
}

func TestOverlay(t *testing.T) {
	s, m, out := newScript(t, "C65")

	test.ExpectSuccess(t, s.RunString(`print(overlay(0x20))`))
	test.ExpectEquality(t, out.String(), "0\n")
	test.ExpectEquality(t, m.Mem.ROMOverlay(), uint8(0x20))

	out.Reset()
	test.ExpectSuccess(t, s.RunString(`print(overlay())`))
	test.ExpectEquality(t, out.String(), "32\n")
}

func TestDMA(t *testing.T) {
	s, m, out := newScript(t, "C65")

	err := s.RunString(`
		local list = {0x03, 0x08, 0x00, 0x77, 0x00, 0x00, 0x00, 0x40, 0x00, 0x00, 0x00}
		for i, v in ipairs(list) do
			phys_write(0x8000 + i - 1, v)
		end
		dma(0x8000)
		print(dma_status(), phys_read(0x4007), phys_read(0x4008))
	`)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out.String(), "0\t119\t255\n")
	test.ExpectEquality(t, m.DMA.IsBusy(), false)
}

func TestRunaway(t *testing.T) {
	s, m, _ := newScript(t, "MEGA65")

	// a bank full of chained enhanced descriptors never ends
	err := s.RunString(`
		local desc = {0x06, 0x06, 0x06, 0x06, 0x00,
			0x04, 0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x20, 0x00, 0x00, 0x00}
		for a = 0x10000, 0x1ffff, 16 do
			for i, v in ipairs(desc) do
				phys_write(a + i - 1, v)
			end
		end
		dma(0x10000, true)
	`)
	test.ExpectEquality(t, errors.Is(err, dma.ErrRunaway), true)

	// started from inside instruction()
	err = s.RunString(`
		function instruction()
			dma(0x10000, true)
			return 1
		end
		step(1)
	`)
	test.DemandFailure(t, err)
	test.ExpectEquality(t, errors.Is(err, dma.ErrRunaway), true)
	test.ExpectEquality(t, strings.Count(err.Error(), "runaway"), 1)

	// started by a write to the DMA registers
	err = s.RunString(`
		instruction = nil
		write(0xd02f, 0x47)
		write(0xd02f, 0x53)
		write(0xd702, 0x01)
		write(0xd701, 0x00)
		write(0xd705, 0x00)
		phys_write(0x3000, 0x99)
	`)
	test.ExpectEquality(t, errors.Is(err, dma.ErrRunaway), true)
	test.ExpectEquality(t, m.Mem.ReadPhysical(0x3000), uint8(0xff))
	test.ExpectSuccess(t, m.DMA.Err())

	// the same but with poke()
	err = s.RunString(`poke(0xd705, 0x00)`)
	test.ExpectEquality(t, errors.Is(err, dma.ErrRunaway), true)

	// a failed job left behind by the machine is reported when the next
	// script ends
	test.DemandSuccess(t, m.Mem.Write(0xd705, 0x00))
	err = s.RunString(`x = 1`)
	test.ExpectEquality(t, errors.Is(err, dma.ErrRunaway), true)
	test.ExpectSuccess(t, s.RunString(`x = 2`))
}

func TestInstruction(t *testing.T) {
	s, m, out := newScript(t, "C65")

	err := s.RunString(`
		count = 0
		function instruction()
			count = count + 1
			write(0x2000, count)
			return 3
		end
		step(5)
		print(count, read(0x2000))
	`)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out.String(), "5\t5\n")
	test.ExpectEquality(t, m.Clock.Cycles(), uint64(15))

	// without an instruction() function every instruction is a single cycle
	test.ExpectSuccess(t, s.RunString(`instruction = nil; step(2)`))
	test.ExpectEquality(t, m.Clock.Cycles(), uint64(17))

	// errors in the instruction stop the script
	err = s.RunString(`
		function instruction()
			error("halt")
		end
		step()
	`)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, strings.Contains(err.Error(), "halt"), true)
}

func TestSummary(t *testing.T) {
	_, m, _ := newScript(t, "MEGA65")

	// the summary includes the translation table and is too long for the
	// ring used by the other tests
	out, err := test.NewRingWriter(4096)
	test.DemandSuccess(t, err)
	s := script.NewScript(m, out)
	defer s.Close()

	test.ExpectSuccess(t, s.RunString(`print(summary())`))
	test.ExpectEquality(t, strings.HasPrefix(out.String(), "MEGA65"), true)
	test.ExpectEquality(t, strings.HasSuffix(out.String(), "\n"), true)
}

func TestRunFile(t *testing.T) {
	s, m, _ := newScript(t, "C65")

	fn := filepath.Join(t.TempDir(), "test.lua")
	test.DemandSuccess(t, os.WriteFile(fn, []byte("phys_write(0x3000, 0x12)\n"), 0o644))
	test.ExpectSuccess(t, s.RunFile(fn))
	test.ExpectEquality(t, m.Mem.ReadPhysical(0x3000), uint8(0x12))

	test.ExpectFailure(t, s.RunFile(filepath.Join(t.TempDir(), "missing.lua")))
}
