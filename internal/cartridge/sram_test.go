package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSRAMReadWriteWraps(t *testing.T) {
	s := NewSRAM(nil)
	s.WriteByte(0, 0x7A)
	s.WriteByte(sramSize, 0x11) // wraps to offset 0

	assert.Equal(t, uint8(0x11), s.ReadByte(0))
	assert.Equal(t, KindSRAM, s.Kind())
}

func TestSRAMRestoresSavedBytes(t *testing.T) {
	saved := make([]byte, sramSize)
	saved[3] = 0x9C
	s := NewSRAM(saved)
	assert.Equal(t, uint8(0x9C), s.ReadByte(3))
}
