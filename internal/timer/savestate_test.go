package timer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gbacore/internal/scheduler"
	"gbacore/internal/syscontrol"
)

func TestSaveStateRoundTrip(t *testing.T) {
	sched := scheduler.New()
	c := New(sched, syscontrol.New())
	c.WriteReload(0, 0x8000)
	c.WriteControl(0, 1<<7|1<<6)
	sched.Step(5)

	var buf bytes.Buffer
	require.NoError(t, c.SaveState(&buf))

	restored := New(scheduler.New(), syscontrol.New())
	require.NoError(t, restored.LoadState(&buf))

	assert.Equal(t, c.timers[0].reload, restored.timers[0].reload)
	assert.Equal(t, c.timers[0].control, restored.timers[0].control)
	assert.Equal(t, c.timers[0].counterAtStart, restored.timers[0].counterAtStart)
}
