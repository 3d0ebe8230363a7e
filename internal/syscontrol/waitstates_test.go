package syscontrol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteWAITCNTDecodesSRAMAndWindowCycles(t *testing.T) {
	w := NewWaitStates()
	w.WriteWAITCNT(0x0000)
	assert.Equal(t, uint16(0x0000), w.ReadWAITCNT())
	assert.Equal(t, 4, w.SRAMCycles()) // sramWS 0 -> table[0] = 4
	assert.False(t, w.PrefetchEnabled())
}

func TestWriteWAITCNTEnablesPrefetch(t *testing.T) {
	w := NewWaitStates()
	w.WriteWAITCNT(1 << 14)
	assert.True(t, w.PrefetchEnabled())
}

func TestROMCyclesWordCostsDoubleHalfword(t *testing.T) {
	w := NewWaitStates()
	w.WriteWAITCNT(0)

	half := w.ROMCycles(0, AccessHalf, false)
	word := w.ROMCycles(0, AccessWord, false)
	assert.Equal(t, half*2, word)
}

func TestROMCyclesSequentialUsesSCycleTable(t *testing.T) {
	w := NewWaitStates()
	w.WriteWAITCNT(0)

	// WS0 at WAITCNT 0: N=4, S=2 (WS1 would be N=4, S=4 and not tell them apart)
	nonSeq := w.ROMCycles(0, AccessHalf, false)
	seq := w.ROMCycles(0, AccessHalf, true)
	assert.NotEqual(t, nonSeq, seq)
}

func TestPrefetchWarmsUpAfterThreshold(t *testing.T) {
	p := NewPrefetch(2)

	_, ok := p.Access(0x08000000, false)
	assert.False(t, ok)

	_, ok = p.Access(0x08000002, true)
	assert.False(t, ok) // runLength 1, below threshold

	cycles, ok := p.Access(0x08000004, true)
	assert.True(t, ok)
	assert.Equal(t, 1, cycles)
}

func TestPrefetchInvalidateResetsRun(t *testing.T) {
	p := NewPrefetch(1)
	p.Access(0x08000000, false)
	p.Invalidate()

	_, ok := p.Access(0x08000002, true)
	assert.False(t, ok)
}

func TestPrefetchNonSequentialJumpResetsRun(t *testing.T) {
	p := NewPrefetch(1)
	p.Access(0x08000000, false)
	p.Access(0x08000002, true)

	_, ok := p.Access(0x08001000, true) // far jump, not contiguous
	assert.False(t, ok)
}
