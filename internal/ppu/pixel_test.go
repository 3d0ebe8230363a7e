package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBgr555ToRGBABlackAndWhite(t *testing.T) {
	r, g, b := bgr555ToRGBA(0)
	assert.Equal(t, uint8(0), r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, uint8(0), b)

	r, g, b = bgr555ToRGBA(0x7FFF)
	assert.Equal(t, uint8(248), r)
	assert.Equal(t, uint8(248), g)
	assert.Equal(t, uint8(248), b)
}

func TestBgr555ToRGBAIsolatesChannels(t *testing.T) {
	r, g, b := bgr555ToRGBA(1<<10 | 1<<5 | 1)
	assert.Equal(t, uint8(8), r)
	assert.Equal(t, uint8(8), g)
	assert.Equal(t, uint8(8), b)
}

func TestClamp31ClampsBothEnds(t *testing.T) {
	assert.Equal(t, uint8(0), clamp31(-5))
	assert.Equal(t, uint8(31), clamp31(100))
	assert.Equal(t, uint8(16), clamp31(16))
}
