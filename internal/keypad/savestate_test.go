package keypad

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gbacore/internal/syscontrol"
)

func TestSaveStateRoundTrip(t *testing.T) {
	k := New(syscontrol.New())
	k.SetPressed(ButtonStart, true)
	k.WriteKEYCNT(1 << 14)

	var buf bytes.Buffer
	require.NoError(t, k.SaveState(&buf))

	restored := New(syscontrol.New())
	require.NoError(t, restored.LoadState(&buf))

	assert.Equal(t, k.ReadKEYINPUT(), restored.ReadKEYINPUT())
	assert.Equal(t, k.ReadKEYCNT(), restored.ReadKEYCNT())
}
