package apu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gbacore/internal/clock"
	"gbacore/internal/scheduler"
)

func TestSaveStateRoundTrip(t *testing.T) {
	a := New(scheduler.New(), clock.New())
	a.ch1.enabled = true
	a.ch1.currentVolume = 12
	a.ch1.period = 500
	a.ch2.waveDuty = 2
	a.ch3.ram[0] = 0xAB
	a.ch3.enabled = true
	a.ch4.lfsr = 0x1234
	a.fifoA.buf[0] = -5
	a.fifoA.count = 3
	a.soundcntX = 1 << 7

	var buf bytes.Buffer
	require.NoError(t, a.SaveState(&buf))

	restored := New(scheduler.New(), clock.New())
	require.NoError(t, restored.LoadState(&buf))

	assert.Equal(t, a.ch1.enabled, restored.ch1.enabled)
	assert.Equal(t, a.ch1.currentVolume, restored.ch1.currentVolume)
	assert.Equal(t, a.ch1.period, restored.ch1.period)
	assert.Equal(t, a.ch2.waveDuty, restored.ch2.waveDuty)
	assert.Equal(t, a.ch3.ram, restored.ch3.ram)
	assert.Equal(t, a.ch4.lfsr, restored.ch4.lfsr)
	assert.Equal(t, a.fifoA.buf, restored.fifoA.buf)
	assert.Equal(t, a.fifoA.count, restored.fifoA.count)
	assert.Equal(t, a.soundcntX, restored.soundcntX)
}
