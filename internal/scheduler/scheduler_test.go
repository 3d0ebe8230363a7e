package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleFiresAtTargetCycle(t *testing.T) {
	s := New()
	fired := 0
	var extra uint64
	s.Register(VBlank, func(e uint64) { fired++; extra = e })

	s.Schedule(VBlank, 10)
	s.Step(9)
	assert.Equal(t, 0, fired)
	s.Step(1)
	assert.Equal(t, 1, fired)
	assert.Equal(t, uint64(0), extra)
}

func TestScheduleOverwritesPendingEntry(t *testing.T) {
	s := New()
	fired := 0
	s.Register(HBlank, func(uint64) { fired++ })

	s.Schedule(HBlank, 5)
	s.Schedule(HBlank, 20) // replaces the first, dropped unfired
	s.Step(5)
	assert.Equal(t, 0, fired)
	s.Step(15)
	assert.Equal(t, 1, fired)
}

func TestUnscheduleCancelsPendingEvent(t *testing.T) {
	s := New()
	fired := 0
	s.Register(VDraw, func(uint64) { fired++ })

	s.Schedule(VDraw, 5)
	s.Unschedule(VDraw)
	s.Step(100)
	assert.Equal(t, 0, fired)
	assert.False(t, s.IsScheduled(VDraw))
}

func TestFireNextEventJumpsClockForward(t *testing.T) {
	s := New()
	fired := false
	s.Register(VBlank, func(uint64) { fired = true })
	s.Schedule(VBlank, 1000)

	s.FireNextEvent()
	assert.True(t, fired)
	assert.Equal(t, uint64(1000), s.Now())
}

func TestRegisterTwiceForSameKindPanics(t *testing.T) {
	s := New()
	s.Register(VBlank, func(uint64) {})
	assert.Panics(t, func() { s.Register(VBlank, func(uint64) {}) })
}

func TestCyclesUntilReportsRemaining(t *testing.T) {
	s := New()
	s.Register(VBlank, func(uint64) {})
	s.Schedule(VBlank, 42)

	remaining, ok := s.CyclesUntil(VBlank)
	require.True(t, ok)
	assert.Equal(t, uint64(42), remaining)
}
