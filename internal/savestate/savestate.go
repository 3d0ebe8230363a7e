// Package savestate implements the framed save-state stream: one
// component's SaveState/LoadState call per component, in a single fixed
// order: CPU registers, pipeline, APU channels 1-4, DMA channels 0-3,
// timers 0-3, PPU memory+registers+affine refs, System Control registers,
// keypad. The CPU's registers and pipeline are written by one combined
// call (they live on the same struct); every other component maps to
// exactly one SaveState/LoadState call, matching the order named above.
package savestate

import (
	"fmt"
	"io"

	"gbacore/internal/apu"
	"gbacore/internal/cpu"
	"gbacore/internal/dma"
	"gbacore/internal/keypad"
	"gbacore/internal/ppu"
	"gbacore/internal/syscontrol"
	"gbacore/internal/timer"
)

// Machine is the subset of gba.Container's component accessors a save
// state needs; satisfied by *gba.Container without an import cycle
// (savestate is used by gba, not the reverse).
type Machine interface {
	CPU() *cpu.CPU
	APU() *apu.APU
	DMA() *dma.Controller
	Timers() *timer.Controller
	PPU() *ppu.PPU
	IRQs() *syscontrol.Controller
	Keypad() *keypad.Keypad
}

// Save writes every component's state to w in the fixed order named above.
func Save(w io.Writer, m Machine) error {
	steps := []func(interface{ Write([]byte) (int, error) }) error{
		m.CPU().SaveState,
		m.APU().SaveState,
		m.DMA().SaveState,
		m.Timers().SaveState,
		m.PPU().SaveState,
		m.IRQs().SaveState,
		m.Keypad().SaveState,
	}
	for i, step := range steps {
		if err := step(w); err != nil {
			return fmt.Errorf("savestate: writing component %d: %w", i, err)
		}
	}
	return nil
}

// Load restores every component's state from r in the same fixed order.
// A short or malformed stream leaves the machine partially restored; the
// caller should treat any error as "discard this attempt", not resume
// emulation on the partially-loaded state.
func Load(r io.Reader, m Machine) error {
	steps := []func(interface{ Read([]byte) (int, error) }) error{
		m.CPU().LoadState,
		m.APU().LoadState,
		m.DMA().LoadState,
		m.Timers().LoadState,
		m.PPU().LoadState,
		m.IRQs().LoadState,
		m.Keypad().LoadState,
	}
	for i, step := range steps {
		if err := step(r); err != nil {
			return fmt.Errorf("savestate: reading component %d: %w", i, err)
		}
	}
	return nil
}
