package syscontrol

// Prefetch models the small cache on the GamePak ROM bus that lowers
// sequential-fetch latency when WAITCNT's prefetch bit is set. Exact
// timing is underdocumented on real hardware; this models at least
// "sequential ROM reads in ARM mode drop to 1 cycle after a pipeline
// warm-up."
//
// The model: once a sequential run of fetches from the same ROM window has
// gone on long enough to fill the buffer, further sequential fetches cost
// a single cycle regardless of the window's configured S-cycle count. Only
// a non-sequential or non-contiguous ROM access resets the run: Access does
// not tell instruction fetches from CPU data reads of ROM, and accesses
// outside ROM never reach it, so neither of those resets the run.
type Prefetch struct {
	fillThreshold int
	runLength     int
	lastAddr      uint32
	valid         bool
}

// NewPrefetch creates a buffer that warms up after fillThreshold
// consecutive sequential fetches.
func NewPrefetch(fillThreshold int) *Prefetch {
	if fillThreshold < 1 {
		fillThreshold = 1
	}
	return &Prefetch{fillThreshold: fillThreshold}
}

// Access reports the cycle cost override for a sequential ROM fetch at
// addr, or ok=false if the plain wait-state table should be used instead.
func (p *Prefetch) Access(addr uint32, sequential bool) (cycles int, ok bool) {
	if !sequential || !p.valid || addr != p.lastAddr+2 && addr != p.lastAddr+4 {
		p.runLength = 0
		p.valid = true
		p.lastAddr = addr
		return 0, false
	}

	p.runLength++
	p.lastAddr = addr
	if p.runLength >= p.fillThreshold {
		return 1, true
	}
	return 0, false
}

// Invalidate resets the run. The bus calls it for ROM accesses made while
// the prefetch bit is clear; it is not called on non-ROM fetches or
// pipeline flushes.
func (p *Prefetch) Invalidate() {
	p.runLength = 0
	p.valid = false
}
