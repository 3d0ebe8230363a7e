package syscontrol

import "gbacore/internal/savestate/codec"

// SaveState writes IE/IF/IME, WAITCNT/HALTCNT/POSTFLG and the halt flag,
// the save-state's System Control component.
func (c *Controller) SaveState(w interface{ Write([]byte) (int, error) }) error {
	s := codec.NewWriter(w)
	s.U16(c.ie)
	s.U16(c.iff)
	s.Bool(c.ime)
	s.U16(c.waitcnt)
	s.U8(c.haltcnt)
	s.U8(c.postflg)
	s.Bool(c.halted)
	s.Bool(c.irqLine)
	return s.Err()
}

func (c *Controller) LoadState(r interface{ Read([]byte) (int, error) }) error {
	s := codec.NewReader(r)
	c.ie = s.U16()
	c.iff = s.U16()
	c.ime = s.Bool()
	c.waitcnt = s.U16()
	c.haltcnt = s.U8()
	c.postflg = s.U8()
	c.halted = s.Bool()
	c.irqLine = s.Bool()
	return s.Err()
}
