// Package debug implements the engine's debug surface: CPU register
// inspection, background/sprite/channel state snapshots, arbitrary memory
// reads, and disassembly, aggregating each component's own debug hooks
// behind one entry point. Everything here is read-only with respect to
// emulation state; it never drives the scheduler or bus side effects
// beyond what a plain memory read does.
package debug

import (
	"gbacore/internal/apu"
	"gbacore/internal/bus"
	"gbacore/internal/cpu"
	"gbacore/internal/cpu/disasm"
	"gbacore/internal/ppu"
)

// CPURegState mirrors the consumer surface's get_cpu_debug_info snapshot:
// the 16 registers visible in the current mode, CPSR and SPSR, plus decoded
// CPSR fields.
type CPURegState struct {
	R        [16]uint32
	CPSR     uint32
	SPSR     uint32
	Mode     uint8
	Thumb    bool
	N, Z, C, V bool
	IRQDisabled, FIQDisabled bool
}

// Debugger aggregates read access to every component the debug surface
// exposes. The gba.Container owns one and forwards each consumer-surface
// debug method into it.
type Debugger struct {
	cpu *cpu.CPU
	bus *bus.Bus
	ppu *ppu.PPU
	apu *apu.APU
}

// New builds a Debugger over the already-constructed components a
// gba.Container owns.
func New(c *cpu.CPU, b *bus.Bus, p *ppu.PPU, a *apu.APU) *Debugger {
	return &Debugger{cpu: c, bus: b, ppu: p, apu: a}
}

// CPUDebugInfo reports the full register file and flag state, for
// get_cpu_debug_info.
func (d *Debugger) CPUDebugInfo() CPURegState {
	r := d.cpu.Regs
	var s CPURegState
	for i := 0; i < 16; i++ {
		s.R[i] = r.GetReg(uint8(i))
	}
	s.CPSR = r.CPSR
	s.SPSR = r.GetSPSR()
	s.Mode = r.GetMode()
	s.Thumb = r.IsThumb()
	s.N, s.Z, s.C, s.V = r.GetFlagN(), r.GetFlagZ(), r.GetFlagC(), r.GetFlagV()
	s.IRQDisabled, s.FIQDisabled = r.IsIRQDisabled(), r.IsFIQDisabled()
	return s
}

// BGDebugInfo forwards to the PPU's background snapshot for
// get_bg_debug_info(index).
func (d *Debugger) BGDebugInfo(index int) ppu.BGDebugInfo { return d.ppu.BGDebugInfo(index) }

// SpriteDebugInfo forwards to the PPU's OAM snapshot for
// get_sprite_debug_info(index).
func (d *Debugger) SpriteDebugInfo(index int) ppu.SpriteDebugInfo {
	return d.ppu.SpriteDebugInfo(index)
}

// ChannelDebugInfo forwards to the APU's PSG channel snapshot.
func (d *Debugger) ChannelDebugInfo(index int) apu.ChannelDebugInfo {
	return d.apu.ChannelDebugInfo(index)
}

// ReadRegister reads width bytes (1, 2, or 4) from addr through the bus,
// for debug_read_register(addr, width). Open-bus and out-of-range
// behavior is identical to a CPU-issued read.
func (d *Debugger) ReadRegister(addr uint32, width int) uint32 {
	var w bus.Width
	switch width {
	case 1:
		w = bus.Byte
	case 2:
		w = bus.Half
	default:
		w = bus.Word
	}
	v, _, _ := d.bus.Read(addr, w)
	return v
}

// DisassembleARM decodes one 32-bit ARM instruction into its mnemonic, for
// disassemble_arm.
func (d *Debugger) DisassembleARM(instruction uint32) string { return disasm.ARM(instruction) }

// DisassembleTHUMB decodes one 16-bit THUMB instruction into its mnemonic,
// for disassemble_thumb.
func (d *Debugger) DisassembleTHUMB(instruction uint16) string { return disasm.THUMB(instruction) }
