package cpu

// pipeline is the 2-slot FIFO of (address, instruction) pairs the Step loop
// fetches into and drains from.
type pipeline struct {
	addr  [2]uint32
	instr [2]uint32
	count int
}

func (p *pipeline) push(addr, instr uint32) {
	p.addr[p.count] = addr
	p.instr[p.count] = instr
	p.count++
}

func (p *pipeline) full() bool { return p.count == 2 }

// popOldest removes and returns the earliest-fetched pair, shifting any
// remaining entry down to slot 0.
func (p *pipeline) popOldest() (addr, instr uint32) {
	addr, instr = p.addr[0], p.instr[0]
	p.addr[0], p.instr[0] = p.addr[1], p.instr[1]
	p.count--
	return
}

// flush drops both slots; a branch, mode entry, or IRQ calls this so the
// next two Steps refill before anything executes again.
func (p *pipeline) flush() { p.count = 0 }
