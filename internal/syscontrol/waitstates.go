package syscontrol

// AccessWidth mirrors bus.Width without importing package bus, which in
// turn imports syscontrol for wait-state lookups; keeping this package
// dependency-free avoids a cycle.
type AccessWidth int

const (
	AccessByte AccessWidth = 1
	AccessHalf AccessWidth = 2
	AccessWord AccessWidth = 4
)

// nCycleTable and sCycleTableWS0/1/2 are the non-sequential and per-window
// sequential cycle tables for the GamePak ROM windows, selected by WAITCNT
// bits; sramCycleTable covers the SRAM window.
var nCycleTable = [4]int{4, 3, 2, 8}
var sCycleTableWS0 = [2]int{2, 1}
var sCycleTableWS1 = [2]int{4, 1}
var sCycleTableWS2 = [2]int{8, 1}
var sramCycleTable = [4]int{4, 3, 2, 8}

// WaitStates decodes WAITCNT into per-region, per-phase cycle counts. It
// is recomputed whenever WriteWAITCNT runs.
type WaitStates struct {
	raw        uint16
	sramWS     int
	ws0N, ws0S int
	ws1N, ws1S int
	ws2N, ws2S int
	prefetch   bool
}

func NewWaitStates() *WaitStates {
	w := &WaitStates{}
	w.WriteWAITCNT(0)
	return w
}

// WAITCNT bit layout: 0-1 SRAM wait control, 2-3 WS0 first access, 4 WS0
// second access, 5-6 WS1 first access, 7 WS1 second access, 8-9 WS2 first
// access, 10 WS2 second access, 14 prefetch buffer enable.
func (w *WaitStates) WriteWAITCNT(v uint16) {
	w.raw = v
	w.sramWS = int(v & 0x3)
	w.ws0N = nCycleTable[(v>>2)&0x3]
	w.ws0S = sCycleTableWS0[(v>>4)&0x1]
	w.ws1N = nCycleTable[(v>>5)&0x3]
	w.ws1S = sCycleTableWS1[(v>>7)&0x1]
	w.ws2N = nCycleTable[(v>>8)&0x3]
	w.ws2S = sCycleTableWS2[(v>>10)&0x1]
	w.prefetch = (v>>14)&0x1 == 1
}

func (w *WaitStates) ReadWAITCNT() uint16 { return w.raw }

// SRAMCycles returns the wait-state cost of a byte access to cartridge
// SRAM for the currently configured WAITCNT.sramWS.
func (w *WaitStates) SRAMCycles() int { return sramCycleTable[w.sramWS] }

// ROMCycles returns the cost of a GamePak ROM access in window (0, 1, 2),
// width, and whether the access is sequential to the previous one. Word
// access on the 16-bit-wide ROM bus costs two halfword cycles.
func (w *WaitStates) ROMCycles(window int, width AccessWidth, sequential bool) int {
	var n, s int
	switch window {
	case 0:
		n, s = w.ws0N, w.ws0S
	case 1:
		n, s = w.ws1N, w.ws1S
	default:
		n, s = w.ws2N, w.ws2S
	}

	cost := n + 1
	if sequential {
		cost = s + 1
	}
	if width == AccessWord {
		return 2 * cost
	}
	return cost
}

// PrefetchEnabled reports whether sequential ROM reads should consult the
// prefetch model in prefetch.go instead of the plain wait-state table.
func (w *WaitStates) PrefetchEnabled() bool { return w.prefetch }
