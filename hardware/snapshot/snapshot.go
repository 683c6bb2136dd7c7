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

package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/gopher65/gopher65/hardware"
	"github.com/gopher65/gopher65/hardware/dma"
	chips "github.com/gopher65/gopher65/hardware/io"
	"github.com/gopher65/gopher65/hardware/memory/banking"
	"github.com/gopher65/gopher65/hardware/memory/memorymap"
)

// Sentinel errors returned by Read() and Load().
var (
	ErrMagic   = errors.New("not a snapshot file")
	ErrVersion = errors.New("unsupported snapshot version")
	ErrVariant = errors.New("snapshot is for a different machine variant")
	ErrCRC     = errors.New("snapshot data is corrupted")
)

const (
	magic   = "Gopher65Snap"
	version = 1
)

// Header is the uncompressed part of the snapshot file.
type Header struct {
	Magic   [12]byte
	Version uint16
	Variant uint8
	CRC     uint32
}

type bankingRecord struct {
	MapMask      uint8
	OffsetLow    uint32
	OffsetHigh   uint32
	MegabyteLow  uint32
	MegabyteHigh uint32
	PortDDR      uint8
	PortData     uint8
	ROMOverlay   uint8
}

type ioRecord struct {
	Personality uint8
	VIC         [0x80]uint8
}

type dmaRecord struct {
	Registers   [16]uint8
	Revision    uint8
	ListBase    uint32
	ListPointer uint32
}

// Contents is the decoded content of a snapshot file.
type Contents struct {
	Header

	Config      banking.Config
	Personality chips.Personality
	VIC         [0x80]uint8
	DMA         dma.State

	// physical memory with the trailing 0xff bytes removed
	Memory []uint8
}

// Variant of the machine that created the snapshot.
func (c *Contents) Variant() memorymap.Variant {
	return memorymap.Variant(c.Header.Variant)
}

func (c *Contents) String() string {
	return fmt.Sprintf("version %d: %s: %s: %d bytes of memory", c.Version, c.Variant(), c.Personality, len(c.Memory))
}

// Save the state of the machine to the io.Writer.
func Save(w io.Writer, m *hardware.Machine) error {
	if m.DMA.IsBusy() {
		if _, err := m.DMA.Drain(); err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
	}

	cfg := m.Mem.Config()
	st := m.DMA.State()

	records := []any{
		bankingRecord{
			MapMask:      cfg.MapMask,
			OffsetLow:    cfg.OffsetLow,
			OffsetHigh:   cfg.OffsetHigh,
			MegabyteLow:  cfg.MegabyteLow,
			MegabyteHigh: cfg.MegabyteHigh,
			PortDDR:      cfg.PortDDR,
			PortData:     cfg.PortData,
			ROMOverlay:   cfg.ROMOverlay,
		},
		ioRecord{
			Personality: uint8(m.IO.Personality()),
			VIC:         m.IO.VIC.Registers(),
		},
		dmaRecord{
			Registers:   st.Registers,
			Revision:    uint8(st.DefaultRevision),
			ListBase:    st.ListBase,
			ListPointer: st.ListPointer,
		},
	}

	var body bytes.Buffer
	for _, r := range records {
		if err := binary.Write(&body, binary.BigEndian, r); err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
	}

	dump := m.Mem.Physical().Dump()
	if err := binary.Write(&body, binary.BigEndian, uint32(len(dump))); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	body.Write(dump)

	hdr := Header{
		Version: version,
		Variant: uint8(m.Variant),
		CRC:     crc32.ChecksumIEEE(body.Bytes()),
	}
	copy(hdr.Magic[:], magic)

	if err := binary.Write(w, binary.BigEndian, hdr); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if _, err := enc.Write(body.Bytes()); err != nil {
		enc.Close()
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	return nil
}

// ReadHeader reads and checks the uncompressed header of a snapshot.
func ReadHeader(r io.Reader) (Header, error) {
	var hdr Header
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return hdr, fmt.Errorf("snapshot: %w", ErrMagic)
		}
		return hdr, fmt.Errorf("snapshot: %w", err)
	}
	if string(hdr.Magic[:]) != magic {
		return hdr, fmt.Errorf("snapshot: %w", ErrMagic)
	}
	if hdr.Version > version {
		return hdr, fmt.Errorf("snapshot: %w (%d)", ErrVersion, hdr.Version)
	}
	return hdr, nil
}

// Read and decode a snapshot without applying it to a machine.
func Read(r io.Reader) (*Contents, error) {
	hdr, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	defer dec.Close()

	body, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	if crc32.ChecksumIEEE(body) != hdr.CRC {
		return nil, fmt.Errorf("snapshot: %w", ErrCRC)
	}

	var b bankingRecord
	var i ioRecord
	var d dmaRecord
	var n uint32

	br := bytes.NewReader(body)
	for _, r := range []any{&b, &i, &d, &n} {
		if err := binary.Read(br, binary.BigEndian, r); err != nil {
			return nil, fmt.Errorf("snapshot: truncated body: %w", err)
		}
	}

	if chips.Personality(i.Personality) > chips.VICIV {
		return nil, fmt.Errorf("snapshot: unknown i/o personality (%d)", i.Personality)
	}

	if int(n) != br.Len() {
		return nil, fmt.Errorf("snapshot: memory record is %d bytes but %d bytes remain", n, br.Len())
	}

	c := &Contents{
		Header: hdr,
		Config: banking.Config{
			MapMask:      b.MapMask,
			OffsetLow:    b.OffsetLow,
			OffsetHigh:   b.OffsetHigh,
			MegabyteLow:  b.MegabyteLow,
			MegabyteHigh: b.MegabyteHigh,
			PortDDR:      b.PortDDR,
			PortData:     b.PortData,
			ROMOverlay:   b.ROMOverlay,
		},
		Personality: chips.Personality(i.Personality),
		VIC:         i.VIC,
		DMA: dma.State{
			Registers:       d.Registers,
			DefaultRevision: dma.Revision(d.Revision),
			ListBase:        d.ListBase,
			ListPointer:     d.ListPointer,
		},
		Memory: body[len(body)-int(n):],
	}

	return c, nil
}

// Load a snapshot into the machine. The snapshot must have been made by a
// machine of the same variant.
func Load(r io.Reader, m *hardware.Machine) error {
	c, err := Read(r)
	if err != nil {
		return err
	}
	return c.Apply(m)
}

// Apply the contents of a snapshot to the machine.
func (c *Contents) Apply(m *hardware.Machine) error {
	if c.Variant() != m.Variant {
		return fmt.Errorf("snapshot: %w (%s not %s)", ErrVariant, c.Variant(), m.Variant)
	}

	if err := m.Mem.Physical().Restore(c.Memory); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	// setting the config writes the CPU port registers and recomputes the
	// translation table
	m.Mem.SetConfig(c.Config)

	m.IO.Reset()
	m.IO.VIC.SetRegisters(c.VIC)
	m.IO.SetPersonality(c.Personality)

	m.DMA.SetState(c.DMA)

	return nil
}
