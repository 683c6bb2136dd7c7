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

// Package preferences defines the preference values used by the emulated
// hardware. Values are stored on disk in the common preferences file and can
// be overridden from the command line with the prefs command line stack.
package preferences

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gopher65/gopher65/hardware/memory/memorymap"
	"github.com/gopher65/gopher65/paths"
	"github.com/gopher65/gopher65/prefs"
)

// List of valid values for the DMA revision preference.
const (
	RevisionF018A = "F018A"
	RevisionF018B = "F018B"
)

// List of valid values for the DMA policy preference.
const (
	PolicyDrain      = "DRAIN"
	PolicyInterleave = "INTERLEAVE"
)

// Preferences defines and collates all the preference values used by the
// hardware.
type Preferences struct {
	dsk *prefs.Disk

	// the machine being emulated. C65 or MEGA65
	Variant prefs.String

	// initialise RAM to random values on reset
	RandomState prefs.Bool

	// expansion RAM fitted to the C65 in kilobytes
	Expansion prefs.Int

	// protect the ROM area of the MEGA65 from writes
	ROMProtect prefs.Bool

	// the DMA list format used when a DMA session doesn't specify one
	DMARevision prefs.String

	// whether a DMA job completes immediately or is interleaved with CPU
	// instructions
	DMAPolicy prefs.String

	// number of DMA steps run in place of a CPU instruction when the DMA
	// policy is INTERLEAVE
	DMAStepsPerInstruction prefs.Int

	// honour the modulo flag in DMA descriptors
	DMAModulo prefs.Bool
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{}

	p.Variant.SetHookPre(func(v prefs.Value) error {
		_, err := memorymap.ParseVariant(v.(string))
		return err
	})
	p.Expansion.SetHookPre(func(v prefs.Value) error {
		if !memorymap.Expansion(v.(int)).Valid() {
			return fmt.Errorf("expansion RAM must be 0, 256, 512 or 768 (not %d)", v)
		}
		return nil
	})
	p.DMARevision.SetHookPre(func(v prefs.Value) error {
		return oneOf(v.(string), RevisionF018A, RevisionF018B)
	})
	p.DMAPolicy.SetHookPre(func(v prefs.Value) error {
		return oneOf(v.(string), PolicyDrain, PolicyInterleave)
	})
	p.DMAStepsPerInstruction.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 1 {
			return fmt.Errorf("steps per instruction must be at least one (not %d)", v)
		}
		return nil
	})

	p.SetDefaults()

	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}

	for _, k := range []struct {
		key string
		p   prefs.Pref
	}{
		{"hardware.variant", &p.Variant},
		{"hardware.randstate", &p.RandomState},
		{"hardware.expansion", &p.Expansion},
		{"hardware.romprotect", &p.ROMProtect},
		{"dma.revision", &p.DMARevision},
		{"dma.policy", &p.DMAPolicy},
		{"dma.stepsPerInstruction", &p.DMAStepsPerInstruction},
		{"dma.modulo", &p.DMAModulo},
	} {
		if err := p.dsk.Add(k.key, k.p); err != nil {
			return nil, fmt.Errorf("preferences: %w", err)
		}
	}

	err = p.dsk.Load()
	if err != nil {
		// ignore missing prefs file errors
		if !errors.Is(err, prefs.ErrNoPrefsFile) {
			return nil, fmt.Errorf("preferences: %w", err)
		}
	}

	return p, nil
}

func oneOf(v string, valid ...string) error {
	for _, s := range valid {
		if strings.EqualFold(v, s) {
			return nil
		}
	}
	return fmt.Errorf("%q is not one of %s", v, strings.Join(valid, ", "))
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	// the defaults are all valid so errors from the hooks can be ignored
	_ = p.Variant.Set(memorymap.C65.String())
	_ = p.RandomState.Set(false)
	_ = p.Expansion.Set(0)
	_ = p.ROMProtect.Set(false)
	_ = p.DMARevision.Set(RevisionF018A)
	_ = p.DMAPolicy.Set(PolicyDrain)
	_ = p.DMAStepsPerInstruction.Set(2)
	_ = p.DMAModulo.Set(false)
}

// Load current hardware preferences from disk.
func (p *Preferences) Load() error {
	err := p.dsk.Load()
	if errors.Is(err, prefs.ErrNoPrefsFile) {
		return nil
	}
	return err
}

// Save current hardware preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// MachineVariant returns the variant preference as a memorymap.Variant.
func (p *Preferences) MachineVariant() memorymap.Variant {
	// the hook guarantees that the value can be parsed
	v, _ := memorymap.ParseVariant(p.Variant.String())
	return v
}

// ExpansionRAM returns the expansion preference as a memorymap.Expansion.
// Expansion RAM is only available to the C65.
func (p *Preferences) ExpansionRAM() memorymap.Expansion {
	if p.MachineVariant() != memorymap.C65 {
		return 0
	}
	return memorymap.Expansion(p.Expansion.Get().(int))
}

// F018B returns true if the DMA revision preference is F018B.
func (p *Preferences) F018B() bool {
	return strings.EqualFold(p.DMARevision.String(), RevisionF018B)
}

// Interleave returns true if the DMA policy preference is INTERLEAVE.
func (p *Preferences) Interleave() bool {
	return strings.EqualFold(p.DMAPolicy.String(), PolicyInterleave)
}
