package keypad

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gbacore/internal/syscontrol"
)

func TestNewKeypadStartsWithNothingPressed(t *testing.T) {
	k := New(syscontrol.New())
	assert.Equal(t, uint16(allButtons), k.ReadKEYINPUT())
}

func TestSetPressedClearsBitActiveLow(t *testing.T) {
	k := New(syscontrol.New())

	k.SetPressed(ButtonA, true)
	assert.Equal(t, uint16(0), k.ReadKEYINPUT()&uint16(ButtonA), "pressed button bit must read 0")

	k.SetPressed(ButtonA, false)
	assert.NotEqual(t, uint16(0), k.ReadKEYINPUT()&uint16(ButtonA), "released button bit must read 1")
}

func TestKeypadIRQOnAnyCondition(t *testing.T) {
	irqs := syscontrol.New()
	k := New(irqs)

	// KEYCNT: IRQ enable (bit14), OR condition (bit15=0), select A+B.
	k.WriteKEYCNT(1<<14 | uint16(ButtonA) | uint16(ButtonB))
	k.SetPressed(ButtonA, true)

	assert.NotEqual(t, uint16(0), irqs.ReadIF()&uint16(syscontrol.IRQKeypad))
}

func TestKeypadIRQRequiresAllKeysOnANDCondition(t *testing.T) {
	irqs := syscontrol.New()
	k := New(irqs)

	// AND condition (bit15=1), select A+B.
	k.WriteKEYCNT(1<<14 | 1<<15 | uint16(ButtonA) | uint16(ButtonB))
	k.SetPressed(ButtonA, true)
	assert.Equal(t, uint16(0), irqs.ReadIF()&uint16(syscontrol.IRQKeypad), "only one of two required keys pressed")

	k.SetPressed(ButtonB, true)
	assert.NotEqual(t, uint16(0), irqs.ReadIF()&uint16(syscontrol.IRQKeypad))
}
