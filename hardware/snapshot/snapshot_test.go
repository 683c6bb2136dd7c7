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

package snapshot_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gopher65/gopher65/environment"
	"github.com/gopher65/gopher65/hardware"
	"github.com/gopher65/gopher65/hardware/io"
	"github.com/gopher65/gopher65/hardware/preferences"
	"github.com/gopher65/gopher65/hardware/snapshot"
	"github.com/gopher65/gopher65/test"
)

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

func save(t *testing.T, m *hardware.Machine) []byte {
	t.Helper()
	var b bytes.Buffer
	test.DemandSuccess(t, snapshot.Save(&b, m))
	return b.Bytes()
}

func TestRoundTrip(t *testing.T) {
	m := newMachine(t, "MEGA65", nil)

	m.Mem.WritePhysical(0x1234, 0x56)
	m.Mem.WritePhysical(0x12345, 0x78)
	test.DemandSuccess(t, m.Mem.Write(0xd02f, 0x47))
	test.DemandSuccess(t, m.Mem.Write(0xd02f, 0x53))
	test.DemandSuccess(t, m.Mem.Write(0xd703, 0x01))
	test.DemandSuccess(t, m.Mem.Write(0xd701, 0x80))
	m.Mem.Map(0x00, 0x31, 0x00, 0x00)
	m.Mem.SetCPUPort(0x07, 0x05)

	data := save(t, m)

	n := newMachine(t, "MEGA65", nil)
	test.DemandSuccess(t, snapshot.Load(bytes.NewReader(data), n))

	test.ExpectEquality(t, n.Mem.Physical().Equal(m.Mem.Physical()), true)
	test.ExpectEquality(t, n.Mem.Config(), m.Mem.Config())
	mt := m.Mem.Table()
	nt := n.Mem.Table()
	test.ExpectEquality(t, nt.Equal(&mt), true)
	test.ExpectEquality(t, n.IO.Personality(), io.VICIV)
	test.ExpectEquality(t, n.IO.VIC.Registers(), m.IO.VIC.Registers())
	test.ExpectEquality(t, n.DMA.State(), m.DMA.State())
}

func TestTrailingElision(t *testing.T) {
	m := newMachine(t, "C65", nil)
	m.Mem.WritePhysical(0x100, 0x00)

	c, err := snapshot.Read(bytes.NewReader(save(t, m)))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(c.Memory), 0x101)
	test.ExpectEquality(t, c.Memory[0x100], uint8(0x00))
	test.ExpectEquality(t, c.Variant(), m.Variant)

	// loading into a machine with different memory contents restores the
	// elided bytes
	n := newMachine(t, "C65", nil)
	n.Mem.WritePhysical(0x8000, 0x00)
	test.DemandSuccess(t, c.Apply(n))
	test.ExpectEquality(t, n.Mem.ReadPhysical(0x8000), uint8(0xff))
	test.ExpectEquality(t, n.Mem.Physical().Equal(m.Mem.Physical()), true)
}

func TestDrainBeforeSave(t *testing.T) {
	m := newMachine(t, "C65", func(p *preferences.Preferences) {
		_ = p.DMAPolicy.Set(preferences.PolicyInterleave)
	})

	desc := []uint8{0x03, 0x10, 0x00, 0x33, 0x00, 0x00, 0x00, 0x40, 0x00, 0x00, 0x00}
	for i, v := range desc {
		m.Mem.WritePhysical(0x8000+uint32(i), v)
	}
	test.DemandSuccess(t, m.DMA.Start(0x8000, false))
	test.ExpectEquality(t, m.DMA.IsBusy(), true)

	data := save(t, m)
	test.ExpectEquality(t, m.DMA.IsBusy(), false)

	n := newMachine(t, "C65", nil)
	test.DemandSuccess(t, snapshot.Load(bytes.NewReader(data), n))
	test.ExpectEquality(t, n.Mem.ReadPhysical(0x400f), uint8(0x33))
}

func TestRejection(t *testing.T) {
	m := newMachine(t, "C65", nil)
	data := save(t, m)

	load := func(d []byte) error {
		n := newMachine(t, "C65", nil)
		return snapshot.Load(bytes.NewReader(d), n)
	}

	test.ExpectSuccess(t, load(data))

	bad := bytes.Clone(data)
	bad[0] = 'g'
	test.ExpectEquality(t, errors.Is(load(bad), snapshot.ErrMagic), true)

	test.ExpectEquality(t, errors.Is(load(data[:5]), snapshot.ErrMagic), true)

	bad = bytes.Clone(data)
	bad[12] = 0xff
	test.ExpectEquality(t, errors.Is(load(bad), snapshot.ErrVersion), true)

	// the CRC follows the magic, version and variant
	bad = bytes.Clone(data)
	bad[15] ^= 0xff
	test.ExpectEquality(t, errors.Is(load(bad), snapshot.ErrCRC), true)

	n := newMachine(t, "MEGA65", nil)
	err := snapshot.Load(bytes.NewReader(data), n)
	test.ExpectEquality(t, errors.Is(err, snapshot.ErrVariant), true)

	hdr, err := snapshot.ReadHeader(bytes.NewReader(data))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, hdr.Version, uint16(1))
}
