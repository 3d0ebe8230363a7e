package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRegistersResetsToSupervisorWithIRQFIQDisabled(t *testing.T) {
	r := NewRegisters()
	assert.Equal(t, uint8(SVCMode), r.GetMode())
	assert.True(t, r.IsIRQDisabled())
	assert.True(t, r.IsFIQDisabled())
	assert.False(t, r.IsThumb())
}

func TestSetRegGetRegLowRegistersAreUnbanked(t *testing.T) {
	r := NewRegisters()
	r.SetReg(3, 0x1234)
	r.SetMode(IRQMode)
	assert.Equal(t, uint32(0x1234), r.GetReg(3))
}

func TestSPAndLRAreBankedPerMode(t *testing.T) {
	r := NewRegisters()

	r.SetMode(SVCMode)
	r.SetReg(13, 0x1000)
	r.SetReg(14, 0x2000)

	r.SetMode(IRQMode)
	r.SetReg(13, 0x3000)
	r.SetReg(14, 0x4000)

	r.SetMode(SVCMode)
	assert.Equal(t, uint32(0x1000), r.GetReg(13))
	assert.Equal(t, uint32(0x2000), r.GetReg(14))

	r.SetMode(IRQMode)
	assert.Equal(t, uint32(0x3000), r.GetReg(13))
	assert.Equal(t, uint32(0x4000), r.GetReg(14))
}

func TestFIQBanksR8ThroughR12Separately(t *testing.T) {
	r := NewRegisters()

	r.SetMode(USRMode)
	r.SetReg(8, 0xAAAA)

	r.SetMode(FIQMode)
	r.SetReg(8, 0xBBBB)

	r.SetMode(USRMode)
	assert.Equal(t, uint32(0xAAAA), r.GetReg(8))

	r.SetMode(FIQMode)
	assert.Equal(t, uint32(0xBBBB), r.GetReg(8))
}

func TestGetRegR15ReturnsRawPC(t *testing.T) {
	r := NewRegisters()
	r.PC = 0x08001234
	assert.Equal(t, uint32(0x08001234), r.GetReg(15))
}

func TestSetRegR15WritesPCDirectly(t *testing.T) {
	r := NewRegisters()
	r.SetReg(15, 0x08005678)
	assert.Equal(t, uint32(0x08005678), r.PC)
}

func TestGetRegPanicsOnOutOfRangeRegister(t *testing.T) {
	r := NewRegisters()
	assert.Panics(t, func() { r.GetReg(16) })
}

func TestSPSRIsBankedAndAbsentInUserMode(t *testing.T) {
	r := NewRegisters()

	r.SetMode(SVCMode)
	r.SetSPSR(0x1111)
	assert.Equal(t, uint32(0x1111), r.GetSPSR())

	r.SetMode(USRMode)
	assert.Equal(t, uint32(0), r.GetSPSR())
}

func TestFlagSettersAndGetters(t *testing.T) {
	r := NewRegisters()

	r.SetFlagN(true)
	r.SetFlagZ(true)
	r.SetFlagC(true)
	r.SetFlagV(true)
	assert.True(t, r.GetFlagN())
	assert.True(t, r.GetFlagZ())
	assert.True(t, r.GetFlagC())
	assert.True(t, r.GetFlagV())

	r.SetFlagN(false)
	assert.False(t, r.GetFlagN())
}

func TestSetThumbStateTogglesIsThumb(t *testing.T) {
	r := NewRegisters()
	r.SetThumbState(true)
	assert.True(t, r.IsThumb())
	r.SetThumbState(false)
	assert.False(t, r.IsThumb())
}
