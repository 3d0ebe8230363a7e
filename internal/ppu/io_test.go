package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteReg16DISPCNTRoundTrips(t *testing.T) {
	p := newTestPPU()
	p.WriteReg16(0x00, 0x1234)
	assert.Equal(t, uint16(0x1234), p.ReadReg16(0x00))
}

func TestWriteReg16DISPSTATOnlyTouchesWritableBits(t *testing.T) {
	p := newTestPPU()
	p.regs.DISPSTAT = 0x0007 // VBlank/HBlank/VCounter flags set by hardware
	p.WriteReg16(0x04, 0xFFFF)

	assert.Equal(t, uint16(0x0007), p.ReadReg16(0x04)&0x0007) // read-only flags untouched
	assert.Equal(t, uint16(0xFFF8), p.ReadReg16(0x04)&0xFFF8)
}

func TestWriteReg16BGCNTIndexesByOffset(t *testing.T) {
	p := newTestPPU()
	p.WriteReg16(0x0E, 0xABCD)
	assert.Equal(t, uint16(0xABCD), p.ReadReg16(0x0E))
	assert.Equal(t, uint16(0xABCD), p.regs.BGCNT[3])
}

func TestWriteReg16ScrollRegistersMaskTo9Bits(t *testing.T) {
	p := newTestPPU()
	p.WriteReg16(0x10, 0xFFFF)
	assert.Equal(t, uint16(0x1FF), p.regs.BGHOFS[0])
}

func TestWriteReg16AffineParamsAndWindows(t *testing.T) {
	p := newTestPPU()
	p.WriteReg16(0x20, 0x0100)
	p.WriteReg16(0x48, 0x0102)
	assert.Equal(t, uint16(0x0100), p.regs.BG2PA)
	assert.Equal(t, uint16(0x0102), p.ReadReg16(0x48))
}

func TestWriteBG2XYSignExtendsAndLoadsLiveRef(t *testing.T) {
	p := newTestPPU()
	p.WriteBG2XLow(0x0000)
	p.WriteBG2XHigh(0xFFF8) // full 28-bit value is negative

	assert.Equal(t, p.regs.BG2X, p.bg2RefX)
	assert.Less(t, p.bg2RefX, int32(0))
}

func TestWriteBG3YLowThenHighComposesFullValue(t *testing.T) {
	p := newTestPPU()
	p.WriteBG3YLow(0x5678)
	p.WriteBG3YHigh(0x0001)

	assert.Equal(t, int32(0x15678), p.regs.BG3Y)
	assert.Equal(t, p.regs.BG3Y, p.bg3RefY)
}

func TestPRAMVRAMOAMReadWriteRoundTripAndMirror(t *testing.T) {
	p := newTestPPU()
	p.WritePRAM16(0, 0x1111)
	assert.Equal(t, uint16(0x1111), p.ReadPRAM16(0x400)) // mirrors every 0x400

	p.WriteVRAM32(0, 0xAABBCCDD)
	assert.Equal(t, uint32(0xAABBCCDD), p.ReadVRAM32(0))

	p.WriteOAM16(0, 0x42) // OAM ignores byte writes
	assert.Equal(t, uint8(0x42), p.ReadOAM8(0x400))
}

func TestWriteVRAM8HonorsBitmapBoundaryInModeThree(t *testing.T) {
	p := newTestPPU()
	p.WriteReg16(0x00, 3) // mode 3 bitmap

	p.WriteVRAM8(0x12000, 0x55) // within the larger bitmap OBJ boundary
	assert.Equal(t, uint8(0x55), p.ReadVRAM8(0x12000))
}
