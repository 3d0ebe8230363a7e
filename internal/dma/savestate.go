package dma

import "gbacore/internal/savestate/codec"

// SaveState writes the four DMA channels' registers and in-flight working
// state, the save-state's DMA0-3 components.
func (c *Controller) SaveState(w interface{ Write([]byte) (int, error) }) error {
	s := codec.NewWriter(w)
	for i := range c.channels {
		ch := &c.channels[i]
		s.U32(ch.sad)
		s.U32(ch.dad)
		s.U16(ch.count)
		s.U16(ch.control)
		s.U32(ch.internalSAD)
		s.U32(ch.internalDAD)
		s.U32(ch.internalCount)
		s.I32(int32(ch.eepromBits))
	}
	s.Bool(c.fifoLowA)
	s.Bool(c.fifoLowB)
	return s.Err()
}

func (c *Controller) LoadState(r interface{ Read([]byte) (int, error) }) error {
	s := codec.NewReader(r)
	for i := range c.channels {
		ch := &c.channels[i]
		ch.sad = s.U32()
		ch.dad = s.U32()
		ch.count = s.U16()
		ch.control = s.U16()
		ch.internalSAD = s.U32()
		ch.internalDAD = s.U32()
		ch.internalCount = s.U32()
		ch.eepromBits = int(s.I32())
	}
	c.fifoLowA = s.Bool()
	c.fifoLowB = s.Bool()
	return s.Err()
}
