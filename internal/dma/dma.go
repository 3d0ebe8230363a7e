// Package dma implements the four GamePak/internal DMA channels:
// immediate, HBlank, VBlank and FIFO timing modes, the per-operand
// address-control modes, and the EEPROM bit-serial adapter DMA3 drives.
// DMA3's special (video-capture) timing can be selected, but nothing
// triggers it, so such a transfer never runs.
package dma

import (
	"gbacore/internal/cartridge"
	"gbacore/internal/scheduler"
	"gbacore/internal/syscontrol"
)

// AddrControl selects how SAD/DAD step after each unit transferred.
type AddrControl uint8

const (
	AddrIncrement     AddrControl = 0
	AddrDecrement     AddrControl = 1
	AddrFixed         AddrControl = 2
	AddrIncrementReload AddrControl = 3
)

// StartTiming selects when a channel's transfer begins.
type StartTiming uint8

const (
	StartImmediate StartTiming = 0
	StartVBlank    StartTiming = 1
	StartHBlank    StartTiming = 2
	StartSpecial   StartTiming = 3 // FIFO (DMA1/2) or video capture (DMA3)
)

// Bus is the minimal surface a channel needs to move bytes; satisfied by
// the adapter bus.DMABus wraps around the concrete *bus.Bus, without an
// import cycle (dma is wired into bus, not the reverse).
type Bus interface {
	Read(addr uint32, width int) uint32
	Write(addr uint32, value uint32, width int)
}

var irqSources = [4]syscontrol.IRQSource{
	syscontrol.IRQDMA0, syscontrol.IRQDMA1, syscontrol.IRQDMA2, syscontrol.IRQDMA3,
}

// Channel holds one DMA unit's registers and in-flight state.
type Channel struct {
	index int

	sad, dad uint32
	count    uint16
	control  uint16 // bit5-6 dest ctrl, bit7-8 src ctrl, bit9 repeat, bit10 width,
	// bit11 Game Pak DRQ (DMA3), bit12-13 timing, bit14 irq, bit15 enable

	internalSAD, internalDAD uint32
	internalCount            uint32

	// eepromBits is carried through save states only; runEEPROM keeps its
	// bit-serial progress in the EEPROM itself and never updates it.
	eepromBits int
}

func (c *Channel) destControl() AddrControl  { return AddrControl((c.control >> 5) & 0x3) }
func (c *Channel) srcControl() AddrControl   { return AddrControl((c.control >> 7) & 0x3) }
func (c *Channel) repeat() bool              { return c.control&(1<<9) != 0 }
func (c *Channel) wordWidth() bool           { return c.control&(1<<10) != 0 }
func (c *Channel) timing() StartTiming       { return StartTiming((c.control >> 12) & 0x3) }
func (c *Channel) irqEnabled() bool          { return c.control&(1<<14) != 0 }
func (c *Channel) enabled() bool             { return c.control&(1<<15) != 0 }

// Controller owns all four channels and the scheduler/IRQ/bus wiring
// needed to run them.
type Controller struct {
	channels [4]Channel
	bus      Bus
	sched    *scheduler.Scheduler
	irqs     *syscontrol.Controller
	gamepak  *cartridge.GamePak

	// fifoLowA/fifoLowB are never set: RequestFIFORefill services a refill
	// request immediately instead of recording it.
	fifoLowA, fifoLowB bool
}

func New(bus Bus, sched *scheduler.Scheduler, irqs *syscontrol.Controller, gamepak *cartridge.GamePak) *Controller {
	c := &Controller{bus: bus, sched: sched, irqs: irqs, gamepak: gamepak}
	for i := 0; i < 4; i++ {
		c.channels[i].index = i
	}
	return c
}

// WriteSAD/WriteDAD/WriteCount set the user-visible registers, masked to
// each channel's addressable range (DMA0 has no GamePak access, so its
// SAD/DAD top bits are narrower on real hardware; the mask is not enforced
// here since out-of-range source/dest is a ROM bug, not a core concern).
func (c *Controller) WriteSAD(i int, v uint32)   { c.channels[i].sad = v }
func (c *Controller) WriteDAD(i int, v uint32)   { c.channels[i].dad = v }
func (c *Controller) WriteCount(i int, v uint16) { c.channels[i].count = v }

// WriteSADLow/High and WriteDADLow/High let the bus apply the two
// halfword-sized writes real software issues to SAD/DAD independently,
// without needing to track the other half itself.
func (c *Controller) WriteSADLow(i int, v uint16) {
	c.channels[i].sad = (c.channels[i].sad &^ 0xFFFF) | uint32(v)
}
func (c *Controller) WriteSADHigh(i int, v uint16) {
	c.channels[i].sad = (c.channels[i].sad &^ 0xFFFF0000) | uint32(v)<<16
}
func (c *Controller) WriteDADLow(i int, v uint16) {
	c.channels[i].dad = (c.channels[i].dad &^ 0xFFFF) | uint32(v)
}
func (c *Controller) WriteDADHigh(i int, v uint16) {
	c.channels[i].dad = (c.channels[i].dad &^ 0xFFFF0000) | uint32(v)<<16
}

func (c *Controller) ReadControl(i int) uint16 { return c.channels[i].control }

// WriteControl applies a DMAxCNT_H write. A 0->1 transition on the enable
// bit latches SAD/DAD/count into the channel's internal working copies and,
// for immediate timing, runs the transfer right away.
func (c *Controller) WriteControl(i int, v uint16) {
	ch := &c.channels[i]
	wasEnabled := ch.enabled()
	ch.control = v

	if !ch.enabled() {
		return
	}
	if wasEnabled {
		return // already running (repeat mode waits for its trigger)
	}

	ch.internalSAD = ch.sad
	ch.internalDAD = ch.dad
	ch.internalCount = uint32(ch.count)
	if ch.internalCount == 0 {
		ch.internalCount = maxCountFor(i)
	}

	if ch.timing() == StartImmediate {
		c.run(i)
	}
}

func maxCountFor(i int) uint32 {
	if i == 3 {
		return 0x10000
	}
	return 0x4000
}

// TriggerHBlank and TriggerVBlank are called by the PPU at the
// corresponding scheduler events to fire any channel armed for that
// timing.
func (c *Controller) TriggerHBlank() { c.triggerTiming(StartHBlank) }
func (c *Controller) TriggerVBlank() { c.triggerTiming(StartVBlank) }

func (c *Controller) triggerTiming(timing StartTiming) {
	for i := 0; i < 4; i++ {
		ch := &c.channels[i]
		if ch.enabled() && ch.timing() == timing {
			c.run(i)
		}
	}
}

// RequestFIFORefill is called by the APU when FIFO A (fifoAddr==0x040000A0)
// or FIFO B (0x040000A4) drops below the refill threshold; any DMA1/2
// channel in special timing targeting that FIFO address fires.
func (c *Controller) RequestFIFORefill(fifoAddr uint32) {
	for i := 1; i <= 2; i++ {
		ch := &c.channels[i]
		if ch.enabled() && ch.timing() == StartSpecial && ch.dad == fifoAddr {
			c.runFIFO(i)
		}
	}
}

// run executes a full immediate/HBlank/VBlank transfer of internalCount
// units in one call, since these are not cycle-stepped at the bus level by
// this core's scope.
func (c *Controller) run(i int) {
	ch := &c.channels[i]
	width := 2
	if ch.wordWidth() {
		width = 4
	}

	eepromWrite := c.gamepak != nil && c.gamepak.HasBackup() &&
		c.gamepak.Backup.Kind() >= cartridge.KindEEPROM512 &&
		c.gamepak.IsEEPROMAddr(ch.internalDAD)
	eepromRead := c.gamepak != nil && c.gamepak.HasBackup() &&
		c.gamepak.Backup.Kind() >= cartridge.KindEEPROM512 &&
		c.gamepak.IsEEPROMAddr(ch.internalSAD)

	if i == 3 && (eepromWrite || eepromRead) {
		c.runEEPROM(ch, eepromRead)
	} else {
		for n := uint32(0); n < ch.internalCount; n++ {
			v := c.bus.Read(ch.internalSAD, width)
			c.bus.Write(ch.internalDAD, v, width)
			c.stepAddr(&ch.internalSAD, ch.srcControl(), width)
			c.stepAddr(&ch.internalDAD, ch.destControl(), width)
		}
	}

	c.finish(i)
}

// runFIFO copies 4 words (16 bytes) of PCM data to the FIFO address, per
// the FIFO timing mode's fixed 32-bit word x4 transfer: the destination
// stays fixed and the source steps by its address-control mode.
func (c *Controller) runFIFO(i int) {
	ch := &c.channels[i]
	for n := 0; n < 4; n++ {
		v := c.bus.Read(ch.internalSAD, 4)
		c.bus.Write(ch.internalDAD, v, 4)
		c.stepAddr(&ch.internalSAD, ch.srcControl(), 4)
	}
	if ch.irqEnabled() {
		c.irqs.RequestInterrupt(irqSources[i])
	}
}

// runEEPROM drives the DMA3-to-EEPROM bit-serial protocol: the word
// count alone tells us which command this transfer is (set-index,
// write-dword or read-dword), since each halfword transferred carries one
// serial bit in its LSB (write) or receives one bit (read).
func (c *Controller) runEEPROM(ch *Channel, isRead bool) {
	ee, _ := c.gamepak.Backup.(*cartridge.EEPROM)
	if ee == nil {
		return
	}
	count := ch.internalCount

	if isRead {
		switch count {
		case 68:
			ee.BeginRead()
			for n := uint32(0); n < count; n++ {
				v := uint32(ee.NextBit())
				c.bus.Write(ch.internalDAD, v, 2)
				c.stepAddr(&ch.internalDAD, ch.destControl(), 2)
			}
			ee.End()
		}
		return
	}

	// The first two units carry the command code, not index bits.
	for n := 0; n < 2; n++ {
		c.stepAddr(&ch.internalSAD, ch.srcControl(), 2)
	}

	switch count {
	case 9, 17:
		indexBits := 6
		if count == 17 {
			indexBits = 14
		}
		ee.BeginSetIndex(indexBits)
		for n := uint32(0); n < uint32(indexBits); n++ {
			v := c.bus.Read(ch.internalSAD, 2)
			ee.PushBit(uint8(v & 1))
			c.stepAddr(&ch.internalSAD, ch.srcControl(), 2)
		}
		// trailing "end of stream" bit shares the same opcode framing
		if count > uint32(indexBits) {
			v := c.bus.Read(ch.internalSAD, 2)
			_ = v
			c.stepAddr(&ch.internalSAD, ch.srcControl(), 2)
		}
		ee.End()
	case 73, 81:
		indexBits := 6
		if count == 81 {
			indexBits = 14
		}
		ee.BeginSetIndex(indexBits)
		for n := 0; n < indexBits; n++ {
			v := c.bus.Read(ch.internalSAD, 2)
			ee.PushBit(uint8(v & 1))
			c.stepAddr(&ch.internalSAD, ch.srcControl(), 2)
		}
		ee.BeginWrite()
		for n := 0; n < 64; n++ {
			v := c.bus.Read(ch.internalSAD, 2)
			ee.PushBit(uint8(v & 1))
			c.stepAddr(&ch.internalSAD, ch.srcControl(), 2)
		}
		ee.End()
	}
}

func (c *Controller) stepAddr(addr *uint32, ctrl AddrControl, width int) {
	switch ctrl {
	case AddrIncrement, AddrIncrementReload:
		*addr += uint32(width)
	case AddrDecrement:
		*addr -= uint32(width)
	case AddrFixed:
	}
}

// finish applies the transfer's completion rule: raise the completion IRQ
// if armed, clear enable unless repeat is set and timing is not immediate,
// and when repeating re-latch count (and DAD, for increment-reload) for the
// next trigger.
func (c *Controller) finish(i int) {
	ch := &c.channels[i]

	if ch.irqEnabled() {
		c.irqs.RequestInterrupt(irqSources[i])
	}

	if !ch.repeat() || ch.timing() == StartImmediate {
		ch.control &^= 1 << 15
		return
	}

	ch.internalCount = uint32(ch.count)
	if ch.internalCount == 0 {
		ch.internalCount = maxCountFor(i)
	}
	if ch.destControl() == AddrIncrementReload {
		ch.internalDAD = ch.dad
	}
}
