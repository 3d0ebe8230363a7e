package disasm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestARMDisassemblesBranchExchange(t *testing.T) {
	// BX r14, condition AL.
	got := ARM(0xE12FFF1E)
	assert.Contains(t, got, "BX")
	assert.Contains(t, got, "r14")
}

func TestARMDisassemblesSoftwareInterrupt(t *testing.T) {
	got := ARM(0xEF000042)
	assert.True(t, strings.Contains(got, "SWI") || strings.Contains(got, "SWI"))
}

func TestARMNeverPanics(t *testing.T) {
	words := []uint32{0x00000000, 0xFFFFFFFF, 0xE3A00001, 0xE0812003, 0xE5901000}
	for _, w := range words {
		assert.NotPanics(t, func() { ARM(w) })
	}
}

func TestTHUMBDisassemblesSoftwareInterrupt(t *testing.T) {
	got := THUMB(0xDF05)
	assert.Contains(t, got, "SWI")
	assert.Contains(t, got, "5")
}

func TestTHUMBNeverPanics(t *testing.T) {
	words := []uint16{0x0000, 0xFFFF, 0x4800, 0xB500, 0x2001}
	for _, w := range words {
		assert.NotPanics(t, func() { THUMB(w) })
	}
}
