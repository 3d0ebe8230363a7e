// Package cartridge implements the GamePak: ROM storage plus the backup
// media variant a given game uses for save data. Wait-state timing
// for the ROM windows lives in packages bus and syscontrol; this package
// only owns the bytes.
package cartridge

// BackupMedia is the contract SRAM, Flash and EEPROM each satisfy. DMA3's
// EEPROM bitstream adapter (package dma) type-asserts down to *EEPROM for
// its bit-serial protocol; every other backup type is addressed as plain
// byte storage through ReadByte/WriteByte.
type BackupMedia interface {
	ReadByte(addr uint32) uint8
	WriteByte(addr uint32, value uint8)
	// Bytes exposes the raw backing store for save-file persistence and
	// save-state serialization.
	Bytes() []byte
	// Kind identifies the variant for save-file sizing and savestate tags.
	Kind() Kind
}

// Kind tags which backup variant a GamePak carries.
type Kind int

const (
	KindNone Kind = iota
	KindSRAM
	KindFlash64
	KindFlash128
	KindEEPROM512
	KindEEPROM8K
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSRAM:
		return "sram"
	case KindFlash64:
		return "flash64"
	case KindFlash128:
		return "flash128"
	case KindEEPROM512:
		return "eeprom512"
	case KindEEPROM8K:
		return "eeprom8k"
	default:
		return "unknown"
	}
}

// DetectKind guesses the backup variant from a save file's size, mirroring
// the way the original loader sized the backup store from whatever bytes
// it found on disk rather than probing cartridge headers.
func DetectKind(saveFileSize int) Kind {
	switch saveFileSize {
	case sramSize:
		return KindSRAM
	case flash64Size:
		return KindFlash64
	case flash128Size:
		return KindFlash128
	case eeprom512Size:
		return KindEEPROM512
	case eeprom8KSize:
		return KindEEPROM8K
	default:
		return KindNone
	}
}

// NewBackup constructs the concrete BackupMedia for kind, restoring saved
// if non-empty. KindNone yields a nil BackupMedia (no save hardware).
func NewBackup(kind Kind, saved []byte) BackupMedia {
	switch kind {
	case KindSRAM:
		return NewSRAM(saved)
	case KindFlash64:
		return NewFlash(flash64Size, saved)
	case KindFlash128:
		return NewFlash(flash128Size, saved)
	case KindEEPROM512:
		return NewEEPROM(eeprom512Size, saved)
	case KindEEPROM8K:
		return NewEEPROM(eeprom8KSize, saved)
	default:
		return nil
	}
}
