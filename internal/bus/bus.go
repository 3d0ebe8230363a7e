package bus

import (
	"gbacore/internal/apu"
	"gbacore/internal/cartridge"
	"gbacore/internal/dma"
	"gbacore/internal/keypad"
	"gbacore/internal/memory"
	"gbacore/internal/ppu"
	"gbacore/internal/syscontrol"
	"gbacore/internal/timer"
)

// Page boundaries, bits 27-24 of the address.
const (
	pageBIOS   = 0x0
	pageEWRAM  = 0x2
	pageIWRAM  = 0x3
	pageIO     = 0x4
	pagePRAM   = 0x5
	pageVRAM   = 0x6
	pageOAM    = 0x7
	pageROM0Lo = 0x8
	pageROM2Hi = 0xD
	pageSRAM0  = 0xE
	pageSRAM1  = 0xF
)

// cpuPCProvider lets the bus answer "is PC currently inside BIOS" for
// open-bus gating without importing package cpu (which imports bus.Bus).
type cpuPCProvider interface {
	PC() uint32
}

// Bus is the single read/write dispatch point: it owns every
// memory-backed component and routes accesses by page, charging wait
// states and applying each region's mirroring and byte-write rules.
type Bus struct {
	bios  *memory.BIOS
	ewram *memory.RAM
	iwram *memory.RAM

	ppu      *ppu.PPU
	apu      *apu.APU
	dma      *dma.Controller
	timers   *timer.Controller
	keypad   *keypad.Keypad
	irqs     *syscontrol.Controller
	waits    *syscontrol.WaitStates
	prefetch *syscontrol.Prefetch

	gamepak *cartridge.GamePak

	cpu cpuPCProvider

	lastSeqAddr uint32
}

func New(
	bios *memory.BIOS,
	ppuComp *ppu.PPU,
	apuComp *apu.APU,
	dmaComp *dma.Controller,
	timers *timer.Controller,
	kp *keypad.Keypad,
	irqs *syscontrol.Controller,
	gamepak *cartridge.GamePak,
) *Bus {
	return &Bus{
		bios:     bios,
		ewram:    memory.NewRAM(memory.EWRAMSize),
		iwram:    memory.NewRAM(memory.IWRAMSize),
		ppu:      ppuComp,
		apu:      apuComp,
		dma:      dmaComp,
		timers:   timers,
		keypad:   kp,
		irqs:     irqs,
		waits:    syscontrol.NewWaitStates(),
		prefetch: syscontrol.NewPrefetch(8),
		gamepak:  gamepak,
	}
}

// AttachCPU wires the PC provider used for open-bus gating; called once the
// CPU exists (the CPU itself is constructed holding this Bus).
func (b *Bus) AttachCPU(c cpuPCProvider) { b.cpu = c }

// AttachDMA wires the DMA controller once it exists. dma.New requires a
// dma.Bus built from this *Bus (via DMABus), so New is called with a nil
// dmaComp and the controller is patched in afterward, breaking the
// construction cycle between the two packages.
func (b *Bus) AttachDMA(d *dma.Controller) { b.dma = d }

// Read performs a CPU-facing read, returning the value, its wait-state cost
// in cycles, and whether the access fell through to open-bus.
func (b *Bus) Read(addr uint32, width Width) (uint32, int, bool) {
	page := (addr >> 24) & 0xFF

	switch {
	case page == pageBIOS:
		if b.cpu != nil && b.cpu.PC() >= memory.BIOSSize {
			return b.openBus(), 1, true
		}
		return b.readSized(addr%memory.BIOSSize, width, b.bios.Read8, b.bios.Read16, b.bios.Read32), 1, false

	case page == pageEWRAM:
		off := addr % memory.EWRAMSize
		return b.readSized(off, width, b.ewram.Read8, b.ewram.Read16, b.ewram.Read32), 3, false

	case page == pageIWRAM:
		off := addr % memory.IWRAMSize
		return b.readSized(off, width, b.iwram.Read8, b.iwram.Read16, b.iwram.Read32), 1, false

	case page == pageIO:
		return b.readIO(addr, width), 1, false

	case page == pagePRAM:
		off := addr % 0x400
		return b.readSized(off, width, b.ppu.ReadPRAM8, b.ppu.ReadPRAM16, b.ppu.ReadPRAM32), 1, false

	case page == pageVRAM:
		off := b.vramMirror(addr)
		return b.readSized(off, width, b.ppu.ReadVRAM8, b.ppu.ReadVRAM16, b.ppu.ReadVRAM32), 1, false

	case page == pageOAM:
		off := addr % 0x400
		return b.readSized(off, width, b.ppu.ReadOAM8, b.ppu.ReadOAM16, b.ppu.ReadOAM32), 1, false

	case page >= pageROM0Lo && page <= pageROM2Hi:
		window := int((page - pageROM0Lo) / 2)
		if b.gamepak.HasBackup() && b.gamepak.Backup.Kind() >= cartridge.KindEEPROM512 && b.gamepak.IsEEPROMAddr(addr) {
			// Non-DMA reads of the EEPROM window observe the serial line
			// idle-high; DMA3 drives the actual bit-serial protocol.
			return 1, b.waits.SRAMCycles(), false
		}
		seq := addr == b.lastSeqAddr+uint32(width)
		cycles := b.romCycles(addr, window, width, seq)
		b.lastSeqAddr = addr
		romOff := addr & 0x01FFFFFF
		return b.readROM(romOff, width), cycles, false

	case page == pageSRAM0 || page == pageSRAM1:
		if b.gamepak.HasBackup() {
			return uint32(b.gamepak.Backup.ReadByte(addr)), b.waits.SRAMCycles(), false
		}
		return b.openBus(), b.waits.SRAMCycles(), true

	default:
		return b.openBus(), 1, true
	}
}

// Write performs a CPU-facing write and returns its wait-state cost.
func (b *Bus) Write(addr uint32, value uint32, width Width) int {
	page := (addr >> 24) & 0xFF

	switch {
	case page == pageEWRAM:
		b.writeSized(addr%memory.EWRAMSize, value, width, b.ewram.Write8, b.ewram.Write16, b.ewram.Write32)
		return 3
	case page == pageIWRAM:
		b.writeSized(addr%memory.IWRAMSize, value, width, b.iwram.Write8, b.iwram.Write16, b.iwram.Write32)
		return 1
	case page == pageIO:
		b.writeIO(addr, value, width)
		return 1
	case page == pagePRAM:
		off := addr % 0x400
		if width == Byte {
			b.ppu.WritePRAM8(off, uint8(value))
		} else {
			b.writeSized(off, value, width, nil, b.ppu.WritePRAM16, b.ppu.WritePRAM32)
		}
		return 1
	case page == pageVRAM:
		off := b.vramMirror(addr)
		if width == Byte {
			b.ppu.WriteVRAM8(off, uint8(value))
		} else {
			b.writeSized(off, value, width, nil, b.ppu.WriteVRAM16, b.ppu.WriteVRAM32)
		}
		return 1
	case page == pageOAM:
		off := addr % 0x400
		if width != Byte {
			b.writeSized(off, value, width, nil, b.ppu.WriteOAM16, b.ppu.WriteOAM32)
		}
		return 1
	case page >= pageROM0Lo && page <= pageROM2Hi:
		if b.gamepak.HasBackup() && b.gamepak.Backup.Kind() >= cartridge.KindEEPROM512 && b.gamepak.IsEEPROMAddr(addr) {
			return b.waits.SRAMCycles() // the bit-serial write itself is driven by DMA3, not the CPU
		}
		return 1 // GamePak ROM is read-only
	case page == pageSRAM0 || page == pageSRAM1:
		if b.gamepak.HasBackup() {
			b.gamepak.Backup.WriteByte(addr, uint8(value))
		}
		return b.waits.SRAMCycles()
	default:
		return 1
	}
}

func (b *Bus) vramMirror(addr uint32) uint32 {
	off := addr % 0x20000
	if off >= 0x18000 {
		off -= 0x8000
	}
	return off
}

func (b *Bus) romCycles(addr uint32, window int, width Width, sequential bool) int {
	if b.waits.PrefetchEnabled() {
		if cycles, ok := b.prefetch.Access(addr, sequential); ok {
			return cycles
		}
	} else {
		b.prefetch.Invalidate()
	}
	return b.waits.ROMCycles(window, syscontrol.AccessWidth(width), sequential)
}

func (b *Bus) readROM(off uint32, width Width) uint32 {
	switch width {
	case Byte:
		return uint32(b.gamepak.ReadROM8(off))
	case Half:
		return uint32(b.gamepak.ReadROM8(off)) | uint32(b.gamepak.ReadROM8(off+1))<<8
	default:
		return uint32(b.gamepak.ReadROM8(off)) | uint32(b.gamepak.ReadROM8(off+1))<<8 |
			uint32(b.gamepak.ReadROM8(off+2))<<16 | uint32(b.gamepak.ReadROM8(off+3))<<24
	}
}

// openBus returns 0 for every open-bus read; the last fetched value is not
// tracked, so reads of unmapped addresses do not see it.
func (b *Bus) openBus() uint32 { return 0 }

func (b *Bus) readSized(off uint32, width Width, r8 func(uint32) uint8, r16 func(uint32) uint16, r32 func(uint32) uint32) uint32 {
	switch width {
	case Byte:
		return uint32(r8(off))
	case Half:
		return uint32(r16(off &^ 1))
	default:
		return r32(off &^ 3)
	}
}

func (b *Bus) writeSized(off uint32, value uint32, width Width, w8 func(uint32, uint8), w16 func(uint32, uint16), w32 func(uint32, uint32)) {
	switch width {
	case Byte:
		if w8 != nil {
			w8(off, uint8(value))
		}
	case Half:
		w16(off&^1, uint16(value))
	default:
		w32(off&^3, value)
	}
}

// dmaAdapter satisfies dma.Bus, letting DMA channels issue the same page
// dispatch as the CPU without an import cycle (dma is constructed with a
// *Bus, not the reverse). The cycle counts Read and Write return are
// dropped here, so DMA transfers are not charged any cycles.
type dmaAdapter struct{ bus *Bus }

// DMABus wraps bus in the adapter dma.New expects.
func DMABus(bus *Bus) dma.Bus { return dmaAdapter{bus} }

func (a dmaAdapter) Read(addr uint32, width int) uint32 {
	v, _, _ := a.bus.Read(addr, Width(width))
	return v
}

func (a dmaAdapter) Write(addr uint32, value uint32, width int) {
	a.bus.Write(addr, value, Width(width))
}
