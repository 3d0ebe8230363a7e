package cpu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gbacore/internal/bus"
	"gbacore/internal/scheduler"
	"gbacore/internal/syscontrol"
)

type fakeBus struct{}

func (fakeBus) Read(addr uint32, width bus.Width) (uint32, int, bool)  { return 0, 1, false }
func (fakeBus) Write(addr uint32, value uint32, width bus.Width) int { return 1 }

func newTestCPU() *CPU {
	c := New(fakeBus{}, scheduler.New(), syscontrol.New())
	c.Reset(0)
	return c
}

func TestSaveStateRoundTrip(t *testing.T) {
	c := newTestCPU()
	c.Regs.R[0] = 0xCAFEBABE
	c.Regs.PC = 0x08000100
	c.Regs.CPSR = 0x6000001F
	c.pipe.count = 2
	c.pipe.addr[0] = 0x08000100
	c.pipe.instr[0] = 0xE1A00000

	var buf bytes.Buffer
	require.NoError(t, c.SaveState(&buf))

	restored := newTestCPU()
	require.NoError(t, restored.LoadState(&buf))

	assert.Equal(t, c.Regs.R[0], restored.Regs.R[0])
	assert.Equal(t, c.Regs.PC, restored.Regs.PC)
	assert.Equal(t, c.Regs.CPSR, restored.Regs.CPSR)
	assert.Equal(t, c.pipe.count, restored.pipe.count)
	assert.Equal(t, c.pipe.addr, restored.pipe.addr)
	assert.Equal(t, c.pipe.instr, restored.pipe.instr)
}
