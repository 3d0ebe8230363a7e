package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func unlock(f *Flash, cmd uint8) {
	f.WriteByte(flashCmdAddr1, 0xAA)
	f.WriteByte(flashCmdAddr2, 0x55)
	f.WriteByte(flashCmdAddr1, cmd)
}

func TestFlashIDModeReportsVendorBytes(t *testing.T) {
	f := NewFlash(flash64Size, nil)
	unlock(f, 0x90)

	assert.Equal(t, uint8(0x32), f.ReadByte(0))
	assert.Equal(t, uint8(0x1B), f.ReadByte(1))
}

func TestFlashByteProgramWritesOneByte(t *testing.T) {
	f := NewFlash(flash64Size, nil)
	unlock(f, 0xA0)
	f.WriteByte(0x1000, 0x42)

	assert.Equal(t, uint8(0x42), f.ReadByte(0x1000))
}

func TestFlashChipEraseSetsAllBytesToFF(t *testing.T) {
	f := NewFlash(flash64Size, nil)
	unlock(f, 0xA0)
	f.WriteByte(0x0000, 0x00)

	f.WriteByte(flashCmdAddr1, 0xAA)
	f.WriteByte(flashCmdAddr2, 0x55)
	f.WriteByte(flashCmdAddr1, 0x80)
	f.WriteByte(flashCmdAddr1, 0xAA)
	f.WriteByte(flashCmdAddr2, 0x55)
	f.WriteByte(flashCmdAddr1, 0x10)

	assert.Equal(t, uint8(0xFF), f.ReadByte(0x0000))
	assert.Equal(t, uint8(0xFF), f.ReadByte(0x2000))
}

func TestFlash128BankSelect(t *testing.T) {
	f := NewFlash(flash128Size, nil)
	unlock(f, 0xA0)
	f.WriteByte(0x0000, 0x11) // bank 0

	unlock(f, 0xB0)
	f.WriteByte(0x0000, 1) // select bank 1

	unlock(f, 0xA0)
	f.WriteByte(0x0000, 0x22)

	assert.Equal(t, uint8(0x22), f.ReadByte(0x0000))
	assert.Equal(t, KindFlash128, f.Kind())
}

func TestFlashRestoresSavedBytes(t *testing.T) {
	saved := make([]byte, flash64Size)
	saved[100] = 0x55

	f := NewFlash(flash64Size, saved)
	assert.Equal(t, uint8(0x55), f.ReadByte(100))
}
