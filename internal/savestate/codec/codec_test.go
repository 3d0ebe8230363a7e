package codec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.U8(0xAB)
	w.Bool(true)
	w.Bool(false)
	w.U16(0x1234)
	w.U32(0xDEADBEEF)
	w.I32(-1)
	w.U64(0x0102030405060708)
	w.Bytes([]byte{1, 2, 3, 4})
	require.NoError(t, w.Err())

	r := NewReader(&buf)
	assert.Equal(t, uint8(0xAB), r.U8())
	assert.True(t, r.Bool())
	assert.False(t, r.Bool())
	assert.Equal(t, uint16(0x1234), r.U16())
	assert.Equal(t, uint32(0xDEADBEEF), r.U32())
	assert.Equal(t, int32(-1), r.I32())
	assert.Equal(t, uint64(0x0102030405060708), r.U64())
	out := make([]byte, 4)
	r.Bytes(out)
	assert.Equal(t, []byte{1, 2, 3, 4}, out)
	require.NoError(t, r.Err())
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("boom") }

func TestWriterStopsAfterFirstError(t *testing.T) {
	w := NewWriter(errWriter{})
	w.U8(1)
	require.Error(t, w.Err())
	firstErr := w.Err()
	w.U32(2)
	assert.Equal(t, firstErr, w.Err(), "subsequent writes must not overwrite the first error")
}

func TestReaderReportsShortRead(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01}))
	_ = r.U32()
	require.Error(t, r.Err())
}
