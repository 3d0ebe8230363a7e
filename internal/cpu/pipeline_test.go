package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelinePushAndFull(t *testing.T) {
	p := &pipeline{}
	assert.False(t, p.full())
	p.push(0x1000, 0xE1A00000)
	assert.False(t, p.full())
	p.push(0x1004, 0xE1A00001)
	assert.True(t, p.full())
}

func TestPipelinePopOldestShiftsRemainingDown(t *testing.T) {
	p := &pipeline{}
	p.push(0x1000, 0xAAAA)
	p.push(0x1004, 0xBBBB)

	addr, instr := p.popOldest()
	assert.Equal(t, uint32(0x1000), addr)
	assert.Equal(t, uint32(0xAAAA), instr)
	assert.Equal(t, 1, p.count)

	addr, instr = p.popOldest()
	assert.Equal(t, uint32(0x1004), addr)
	assert.Equal(t, uint32(0xBBBB), instr)
	assert.Equal(t, 0, p.count)
}

func TestPipelineFlushDropsBothSlots(t *testing.T) {
	p := &pipeline{}
	p.push(0x1000, 0xAAAA)
	p.push(0x1004, 0xBBBB)

	p.flush()
	assert.Equal(t, 0, p.count)
	assert.False(t, p.full())
}
