package gba

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gbacore/internal/cartridge"
)

func TestNewLoggerWithoutDirLogsToStderrOnly(t *testing.T) {
	logger, err := newLogger("", slog.LevelInfo)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLoggerWithDirCreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := newLogger(dir, slog.LevelWarn)
	require.NoError(t, err)
	logger.Warn("test message")

	_, err = os.Stat(filepath.Join(dir, "gba.log"))
	assert.NoError(t, err)
}

func TestLoadBackupMissingFileIsNotAnError(t *testing.T) {
	backup, err := loadBackup(filepath.Join(t.TempDir(), "missing.sav"))
	require.NoError(t, err)
	assert.Nil(t, backup)
}

func TestLoadBackupEmptyPathIsNotAnError(t *testing.T) {
	backup, err := loadBackup("")
	require.NoError(t, err)
	assert.Nil(t, backup)
}

func TestLoadBackupSizesFromFileLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.sav")
	require.NoError(t, os.WriteFile(path, make([]byte, 32*1024), 0o644))

	backup, err := loadBackup(path)
	require.NoError(t, err)
	require.NotNil(t, backup)
	assert.Equal(t, cartridge.KindSRAM, backup.Kind())
}

func TestFlushBackupWritesBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.sav")
	backup := cartridge.NewBackup(cartridge.KindSRAM, nil)
	backup.WriteByte(5, 0x99)

	require.NoError(t, flushBackup(path, backup))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x99), data[5])
}

func TestFlushBackupNoOpWithoutPathOrBackup(t *testing.T) {
	assert.NoError(t, flushBackup("", nil))
	assert.NoError(t, flushBackup(filepath.Join(t.TempDir(), "x.sav"), nil))
}

func TestBackupKindName(t *testing.T) {
	assert.Equal(t, "none", backupKindName(nil))
	assert.Equal(t, "sram", backupKindName(cartridge.NewBackup(cartridge.KindSRAM, nil)))
}
