package syscontrol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestInterruptSetsIFBit(t *testing.T) {
	c := New()
	c.RequestInterrupt(IRQVBlank)
	assert.Equal(t, uint16(IRQVBlank), c.ReadIF())
}

func TestWriteIFAcknowledgesWriteOneToClear(t *testing.T) {
	c := New()
	c.RequestInterrupt(IRQVBlank)
	c.RequestInterrupt(IRQTimer0)

	c.WriteIF(uint16(IRQVBlank))
	assert.Equal(t, uint16(0), c.ReadIF()&uint16(IRQVBlank))
	assert.Equal(t, uint16(IRQTimer0), c.ReadIF()&uint16(IRQTimer0))
}

func TestConsumeIRQLineRequiresIMEAndIE(t *testing.T) {
	c := New()
	c.RequestInterrupt(IRQVBlank)
	assert.False(t, c.ConsumeIRQLine(false), "IME/IE not yet enabled")

	c.WriteIE(uint16(IRQVBlank))
	c.WriteIME(true)
	assert.True(t, c.ConsumeIRQLine(false))
	assert.False(t, c.ConsumeIRQLine(true), "CPSR.I masks the line")
}

func TestHaltUnhaltsOnPendingInterrupt(t *testing.T) {
	c := New()
	c.WriteIE(uint16(IRQVBlank))
	c.WriteIME(true)
	c.WriteHALTCNT(0)
	assert.True(t, c.Halted())

	woke := false
	c.OnUnhalt(func() { woke = true })
	c.RequestInterrupt(IRQVBlank)

	assert.False(t, c.Halted())
	assert.True(t, woke)
}
