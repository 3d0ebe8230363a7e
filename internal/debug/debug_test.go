package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gbacore/internal/apu"
	"gbacore/internal/bus"
	"gbacore/internal/cartridge"
	"gbacore/internal/clock"
	"gbacore/internal/cpu"
	"gbacore/internal/keypad"
	"gbacore/internal/memory"
	"gbacore/internal/ppu"
	"gbacore/internal/scheduler"
	"gbacore/internal/syscontrol"
	"gbacore/internal/timer"
)

// newTestDebugger wires the same component graph gba.Container does, minus
// DMA (nil is fine; nothing here issues DMA-owned bus traffic), so the
// debug surface can be exercised without a BIOS/ROM fixture.
func newTestDebugger() *Debugger {
	sched := scheduler.New()
	clk := clock.New()
	irqs := syscontrol.New()
	kp := keypad.New(irqs)
	timers := timer.New(sched, irqs)
	p := ppu.New(sched, irqs)
	a := apu.New(sched, clk)
	timers.AttachAPU(a)
	gamepak := cartridge.NewGamePak(make([]byte, 0x1000), nil)

	b := bus.New(memory.NewBIOS(make([]byte, 0x4000)), p, a, nil, timers, kp, irqs, gamepak)
	c := cpu.New(b, sched, irqs)
	b.AttachCPU(c)
	c.Reset(0)

	return New(c, b, p, a)
}

func TestCPUDebugInfoReportsRegistersAndFlags(t *testing.T) {
	d := newTestDebugger()
	d.cpu.Regs.SetReg(3, 0xCAFEBABE)
	d.cpu.Regs.SetFlagZ(true)

	info := d.CPUDebugInfo()
	assert.Equal(t, uint32(0xCAFEBABE), info.R[3])
	assert.True(t, info.Z)
	assert.False(t, info.Thumb)
}

func TestBGDebugInfoForwardsToPPU(t *testing.T) {
	d := newTestDebugger()
	d.ppu.WriteReg16(0x08, 1|2<<2) // BG0CNT: priority 1, char base 2

	info := d.BGDebugInfo(0)
	assert.Equal(t, 0, info.Index)
	assert.Equal(t, 1, info.Priority)
	assert.Equal(t, uint32(2)*0x4000, info.CharBase)
}

func TestSpriteDebugInfoForwardsToPPU(t *testing.T) {
	d := newTestDebugger()
	d.ppu.WriteOAM16(0, uint16(10)) // attr0: y=10, square shape
	d.ppu.WriteOAM16(2, uint16(20)) // attr1: x=20, size 0
	d.ppu.WriteOAM16(4, uint16(3)|1<<10) // attr2: tile base 3, priority 1

	info := d.SpriteDebugInfo(0)
	assert.Equal(t, 10, info.Y)
	assert.Equal(t, 20, info.X)
	assert.Equal(t, 3, info.TileBase)
	assert.False(t, info.Hidden)
}

func TestChannelDebugInfoForwardsToAPU(t *testing.T) {
	d := newTestDebugger()
	info := d.ChannelDebugInfo(0)
	assert.Equal(t, 0, info.Index)
}

func TestReadRegisterReadsThroughBusAtGivenWidth(t *testing.T) {
	d := newTestDebugger()
	v := d.ReadRegister(0x03000000, 4) // IWRAM, freshly zeroed
	assert.Equal(t, uint32(0), v)
}

func TestDisassembleARMDecodesMnemonic(t *testing.T) {
	d := newTestDebugger()
	assert.Contains(t, d.DisassembleARM(0xE3A00005), "MOV")
}

func TestDisassembleTHUMBDecodesMnemonic(t *testing.T) {
	d := newTestDebugger()
	assert.Contains(t, d.DisassembleTHUMB(0xE008), "B")
}
