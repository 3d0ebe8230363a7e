package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadROM8MirrorsAcrossActualSize(t *testing.T) {
	rom := []byte{0x11, 0x22, 0x33}
	g := NewGamePak(rom, nil)

	assert.Equal(t, uint8(0x11), g.ReadROM8(0))
	assert.Equal(t, uint8(0x11), g.ReadROM8(3)) // wraps
}

func TestReadROM8OnEmptyROMReturnsZero(t *testing.T) {
	g := NewGamePak(nil, nil)
	assert.Equal(t, uint8(0), g.ReadROM8(0))
}

func TestHasBackupReflectsAttachedMedium(t *testing.T) {
	g := NewGamePak(nil, nil)
	assert.False(t, g.HasBackup())

	g2 := NewGamePak(nil, NewSRAM(nil))
	assert.True(t, g2.HasBackup())
}

func TestIsEEPROMAddrUsesSmallWindowUnderThreshold(t *testing.T) {
	g := NewGamePak(make([]byte, 1024), nil)

	assert.True(t, g.IsEEPROMAddr(0x0D000000))
	assert.True(t, g.IsEEPROMAddr(0x0DFFFFFF))
	assert.False(t, g.IsEEPROMAddr(0x0CFFFFFF))
}

func TestIsEEPROMAddrUsesNarrowWindowOverThreshold(t *testing.T) {
	g := NewGamePak(make([]byte, 32*1024*1024), nil)

	assert.False(t, g.IsEEPROMAddr(0x0D000000))
	assert.True(t, g.IsEEPROMAddr(0x0DFFFF00))
	assert.True(t, g.IsEEPROMAddr(0x0DFFFFFF))
}
