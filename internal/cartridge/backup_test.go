package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name string
		size int
		want Kind
	}{
		{"sram", 32 * 1024, KindSRAM},
		{"flash64", 64 * 1024, KindFlash64},
		{"flash128", 128 * 1024, KindFlash128},
		{"eeprom512", 512, KindEEPROM512},
		{"eeprom8k", 8 * 1024, KindEEPROM8K},
		{"unrecognized", 123, KindNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectKind(tt.size))
		})
	}
}

func TestNewBackupConstructsMatchingKind(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
	}{
		{"sram", KindSRAM},
		{"flash64", KindFlash64},
		{"flash128", KindFlash128},
		{"eeprom512", KindEEPROM512},
		{"eeprom8k", KindEEPROM8K},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backup := NewBackup(tt.kind, nil)
			if assert.NotNil(t, backup) {
				assert.Equal(t, tt.kind, backup.Kind())
			}
		})
	}
}

func TestNewBackupNoneYieldsNil(t *testing.T) {
	assert.Nil(t, NewBackup(KindNone, nil))
}

func TestNewBackupRestoresSavedBytes(t *testing.T) {
	saved := make([]byte, sramSize)
	saved[10] = 0x42

	backup := NewBackup(KindSRAM, saved)
	assert.Equal(t, uint8(0x42), backup.ReadByte(10))
}
