package timer

import "gbacore/internal/savestate/codec"

// SaveState writes the four timers' registers and running state, the
// save-state's Timer0-3 components.
func (c *Controller) SaveState(w interface{ Write([]byte) (int, error) }) error {
	s := codec.NewWriter(w)
	for i := range c.timers {
		t := &c.timers[i]
		s.U16(t.reload)
		s.U16(t.control)
		s.U64(t.runningSinceCycle)
		s.U16(t.counterAtStart)
	}
	return s.Err()
}

func (c *Controller) LoadState(r interface{ Read([]byte) (int, error) }) error {
	s := codec.NewReader(r)
	for i := range c.timers {
		t := &c.timers[i]
		t.reload = s.U16()
		t.control = s.U16()
		t.runningSinceCycle = s.U64()
		t.counterAtStart = s.U16()
	}
	return s.Err()
}
