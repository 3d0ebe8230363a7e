package gba

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gbacore/internal/cartridge"
)

// newLogger builds the structured logger every component logs through.
// An empty logDir logs to stderr only, the sensible default for a
// headless or embedded run; a configured directory additionally tees to
// gba.log there.
func newLogger(logDir string, level slog.Level) (*slog.Logger, error) {
	var w io.Writer = os.Stderr
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(filepath.Join(logDir, "gba.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		w = io.MultiWriter(os.Stderr, f)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// loadBackup reads an existing save file, if any, and sizes the backup
// medium from its length: the save file's size distinguishes
// SRAM/Flash64/Flash128, and for EEPROM, 512 B or 8 KiB. A missing save
// file is not an error: the cart then starts with no backup medium (nil).
func loadBackup(savePath string) (cartridge.BackupMedia, error) {
	if savePath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(savePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	kind := cartridge.DetectKind(len(data))
	return cartridge.NewBackup(kind, data), nil
}

// flushBackup persists backup's bytes to savePath. A failure here
// is logged by the caller and must never crash the host.
func flushBackup(savePath string, backup cartridge.BackupMedia) error {
	if savePath == "" || backup == nil {
		return nil
	}
	return os.WriteFile(savePath, backup.Bytes(), 0o644)
}

func backupKindName(backup cartridge.BackupMedia) string {
	if backup == nil {
		return "none"
	}
	return backup.Kind().String()
}
