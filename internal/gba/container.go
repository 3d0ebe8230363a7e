// Package gba wires every component into the running machine and exposes
// the consumer surface a host embeds: initialize/power_off, the
// emulation loop, frame/audio buffer handoff, keypad input, and the debug
// hooks. Nothing outside this package constructs a Bus, CPU, PPU or APU
// directly.
package gba

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"gbacore/internal/apu"
	"gbacore/internal/bus"
	"gbacore/internal/cartridge"
	"gbacore/internal/clock"
	"gbacore/internal/cpu"
	"gbacore/internal/debug"
	"gbacore/internal/dma"
	"gbacore/internal/keypad"
	"gbacore/internal/memory"
	"gbacore/internal/ppu"
	"gbacore/internal/savestate"
	"gbacore/internal/scheduler"
	"gbacore/internal/syscontrol"
	"gbacore/internal/timer"
)

// Container owns every emulated component and is the sole entry point a
// host program (cmd/gbacore, or an embedding application) talks to.
type Container struct {
	log *slog.Logger

	sched *scheduler.Scheduler
	clock *clock.Manager

	bios    *memory.BIOS
	gamepak *cartridge.GamePak

	cpu    *cpu.CPU
	bus    *bus.Bus
	ppu    *ppu.PPU
	apu    *apu.APU
	dma    *dma.Controller
	timers *timer.Controller
	keys   *keypad.Keypad
	irqs   *syscontrol.Controller

	dbg         *debug.Debugger
	breakpoints map[uint32]struct{}

	vblankCB     func()
	breakpointCB func(addr uint32)

	frameCount uint64
}

// Config bundles the parameters initialize() needs, mirroring the
// consumer surface's initialize(bios_path, rom_path, log_dir, ...).
type Config struct {
	BIOSPath     string
	ROMPath      string
	SavePath     string // optional; empty means no persisted backup to restore
	LogDir       string // empty disables file logging; falls back to stderr
	LogLevel     slog.Level
	VBlankCB     func()
	BreakpointCB func(addr uint32)
}

// Initialize loads the BIOS and ROM images, detects the cartridge's backup
// media from an existing save file (if any), and wires every component
// together. A missing or unreadable BIOS/ROM file is a structured
// initialization failure: the GBA is never
// partially constructed.
func Initialize(cfg Config) (*Container, error) {
	logger, err := newLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("gba: building logger: %w", err)
	}

	biosData, err := os.ReadFile(cfg.BIOSPath)
	if err != nil {
		return nil, fmt.Errorf("gba: reading BIOS file %q: %w", cfg.BIOSPath, err)
	}
	romData, err := os.ReadFile(cfg.ROMPath)
	if err != nil {
		return nil, fmt.Errorf("gba: reading ROM file %q: %w", cfg.ROMPath, err)
	}

	backup, err := loadBackup(cfg.SavePath)
	if err != nil {
		return nil, fmt.Errorf("gba: reading save file %q: %w", cfg.SavePath, err)
	}

	c := &Container{
		log:     logger,
		sched:   scheduler.New(),
		clock:   clock.New(),
		bios:    memory.NewBIOS(biosData),
		gamepak: cartridge.NewGamePak(romData, backup),

		vblankCB:     cfg.VBlankCB,
		breakpointCB: cfg.BreakpointCB,
		breakpoints:  make(map[uint32]struct{}),
	}

	c.irqs = syscontrol.New()
	c.keys = keypad.New(c.irqs)
	c.timers = timer.New(c.sched, c.irqs)
	c.ppu = ppu.New(c.sched, c.irqs)
	c.apu = apu.New(c.sched, c.clock)
	c.timers.AttachAPU(c.apu)

	// bus.New requires a *dma.Controller, but dma.New requires a dma.Bus
	// built from the *bus.Bus being constructed: AttachDMA patches the
	// controller in right after, breaking the cycle.
	c.bus = bus.New(c.bios, c.ppu, c.apu, nil, c.timers, c.keys, c.irqs, c.gamepak)
	c.dma = dma.New(bus.DMABus(c.bus), c.sched, c.irqs, c.gamepak)
	c.bus.AttachDMA(c.dma)
	c.ppu.AttachDMA(c.dma)
	c.apu.AttachDMA(c.dma)

	c.cpu = cpu.New(c.bus, c.sched, c.irqs)
	c.bus.AttachCPU(c.cpu)
	c.cpu.OnBreakpoint(func(addr uint32) {
		if c.breakpointCB != nil {
			c.breakpointCB(addr)
		}
	})

	c.cpu.Reset(biosResetVector)
	c.ppu.Start()
	c.apu.Start()
	c.dbg = debug.New(c.cpu, c.bus, c.ppu, c.apu)

	c.log.Info("initialized", "bios", cfg.BIOSPath, "rom", cfg.ROMPath, "backup", backupKindName(backup))
	return c, nil
}

const biosResetVector = 0x00000000

// PowerOff flushes any dirty backup media to disk and logs shutdown. A
// failed flush is logged and never crashes the host.
func (c *Container) PowerOff(savePath string) {
	if err := flushBackup(savePath, c.gamepak.Backup); err != nil {
		c.log.Error("backup flush failed", "path", savePath, "error", err)
		return
	}
	c.log.Info("power off")
}

// RunFrame steps the CPU until one video frame has been produced, the unit
// the headless runner and the embedding host both drive the loop by
// (run_emulation_loop is this, called once per host frame tick).
func (c *Container) RunFrame() {
	for !c.ppu.IsFrameReady() {
		c.cpu.Step()
	}
	c.frameCount++
	if c.vblankCB != nil {
		c.vblankCB()
	}
}

// GetFrameBuffer returns the most recently completed frame, or nil if none
// has been produced yet.
func (c *Container) GetFrameBuffer() *image.RGBA {
	if !c.ppu.IsFrameReady() {
		return nil
	}
	return c.ppu.ConsumeFrame()
}

// FillAudioBuffer drains up to len(out) float values (interleaved L,R) into
// out, returning the number actually written; short writes mean the ring
// buffer ran dry.
func (c *Container) FillAudioBuffer(out []float32) int {
	return c.apu.FillBuffer(out)
}

// GetFPSCounter reports frames produced since initialize().
func (c *Container) GetFPSCounter() uint64 { return c.frameCount }

// UpdateKeypad applies a raw KEYINPUT-format bitmask (bits 0-9, active
// low: 0 means pressed), the wire format the consumer surface's
// update_keypad(keyinput_u16) is specified in terms of.
func (c *Container) UpdateKeypad(keyinput uint16) {
	for _, b := range []keypad.Button{
		keypad.ButtonA, keypad.ButtonB, keypad.ButtonSelect, keypad.ButtonStart,
		keypad.ButtonRight, keypad.ButtonLeft, keypad.ButtonUp, keypad.ButtonDown,
		keypad.ButtonR, keypad.ButtonL,
	} {
		pressed := keyinput&uint16(b) == 0
		c.keys.SetPressed(b, pressed)
	}
}

// SingleStep executes exactly one CPU Step, for the debug surface's
// single_step operation.
func (c *Container) SingleStep() { c.cpu.Step() }

// SetBreakpoint arms a breakpoint at addr.
func (c *Container) SetBreakpoint(addr uint32) {
	c.cpu.AddBreakpoint(addr)
	c.breakpoints[addr] = struct{}{}
}

// RemoveBreakpoint disarms a previously armed breakpoint.
func (c *Container) RemoveBreakpoint(addr uint32) {
	c.cpu.RemoveBreakpoint(addr)
	delete(c.breakpoints, addr)
}

// GetBreakpoints returns every currently armed breakpoint address.
func (c *Container) GetBreakpoints() []uint32 {
	out := make([]uint32, 0, len(c.breakpoints))
	for addr := range c.breakpoints {
		out = append(out, addr)
	}
	return out
}

// GetCPUDebugInfo returns the full register file and flag snapshot.
func (c *Container) GetCPUDebugInfo() debug.CPURegState { return c.dbg.CPUDebugInfo() }

// GetBGDebugInfo returns background layer index's register snapshot.
func (c *Container) GetBGDebugInfo(index int) ppu.BGDebugInfo { return c.dbg.BGDebugInfo(index) }

// GetSpriteDebugInfo returns OAM entry index's attribute snapshot.
func (c *Container) GetSpriteDebugInfo(index int) ppu.SpriteDebugInfo {
	return c.dbg.SpriteDebugInfo(index)
}

// DebugReadRegister reads width bytes from addr through the bus.
func (c *Container) DebugReadRegister(addr uint32, width int) uint32 {
	return c.dbg.ReadRegister(addr, width)
}

// DisassembleARM decodes one 32-bit ARM instruction into its mnemonic.
func (c *Container) DisassembleARM(instruction uint32) string {
	return c.dbg.DisassembleARM(instruction)
}

// DisassembleTHUMB decodes one 16-bit THUMB instruction into its mnemonic.
func (c *Container) DisassembleTHUMB(instruction uint16) string {
	return c.dbg.DisassembleTHUMB(instruction)
}

// CPU exposes the underlying core for debug/disasm/savestate callers that
// need direct register or pipeline access.
func (c *Container) CPU() *cpu.CPU { return c.cpu }

// Bus exposes the unified bus for debug-surface register reads.
func (c *Container) Bus() *bus.Bus { return c.bus }

// PPU exposes the video core for debug-surface background/sprite info.
func (c *Container) PPU() *ppu.PPU { return c.ppu }

// APU exposes the audio core for debug-surface channel info.
func (c *Container) APU() *apu.APU { return c.apu }

// Timers exposes the timer controller for savestate/debug access.
func (c *Container) Timers() *timer.Controller { return c.timers }

// DMA exposes the DMA controller for savestate/debug access.
func (c *Container) DMA() *dma.Controller { return c.dma }

// IRQs exposes System Control for savestate/debug access.
func (c *Container) IRQs() *syscontrol.Controller { return c.irqs }

// Keypad exposes the keypad for savestate access.
func (c *Container) Keypad() *keypad.Keypad { return c.keys }

// SaveState writes a full save-state snapshot to w, in the save-state's
// fixed component order.
func (c *Container) SaveState(w io.Writer) error { return savestate.Save(w, c) }

// LoadState restores a full save-state snapshot from r, written by an
// earlier SaveState call.
func (c *Container) LoadState(r io.Reader) error { return savestate.Load(r, c) }
