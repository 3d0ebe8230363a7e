package syscontrol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveStateRoundTrip(t *testing.T) {
	c := New()
	c.WriteIE(uint16(IRQVBlank | IRQTimer0))
	c.WriteIME(true)
	c.RequestInterrupt(IRQVBlank)
	c.WriteHALTCNT(0)

	var buf bytes.Buffer
	require.NoError(t, c.SaveState(&buf))

	restored := New()
	require.NoError(t, restored.LoadState(&buf))

	assert.Equal(t, c.ReadIE(), restored.ReadIE())
	assert.Equal(t, c.ReadIF(), restored.ReadIF())
	assert.Equal(t, c.ReadIME(), restored.ReadIME())
	assert.Equal(t, c.Halted(), restored.Halted())
}
