package cpu

import "gbacore/internal/savestate/codec"

// SaveState writes the register file and pipeline contents, the first two
// components in the save-state's fixed order.
func (c *CPU) SaveState(w interface{ Write([]byte) (int, error) }) error {
	s := codec.NewWriter(w)
	r := c.Regs
	for i := 0; i < 13; i++ {
		s.U32(r.R[i])
	}
	s.U32(r.SPUsr)
	s.U32(r.LRUsr)
	s.U32(r.SPSvc)
	s.U32(r.LRSvc)
	s.U32(r.SPAbt)
	s.U32(r.LRAbt)
	s.U32(r.SPUnd)
	s.U32(r.LRUnd)
	s.U32(r.SPIrq)
	s.U32(r.LRIrq)
	s.U32(r.R8Fiq)
	s.U32(r.R9Fiq)
	s.U32(r.R10Fiq)
	s.U32(r.R11Fiq)
	s.U32(r.R12Fiq)
	s.U32(r.SPFiq)
	s.U32(r.LRFiq)
	s.U32(r.PC)
	s.U32(r.CPSR)
	s.U32(r.SPSRSvc)
	s.U32(r.SPSRAbt)
	s.U32(r.SPSRUnd)
	s.U32(r.SPSRIrq)
	s.U32(r.SPSRFiq)

	s.I32(int32(c.pipe.count))
	s.U32(c.pipe.addr[0])
	s.U32(c.pipe.addr[1])
	s.U32(c.pipe.instr[0])
	s.U32(c.pipe.instr[1])
	s.U32(c.pcOperand)
	return s.Err()
}

// LoadState restores the register file and pipeline contents written by
// SaveState, in the same field order.
func (c *CPU) LoadState(r0 interface{ Read([]byte) (int, error) }) error {
	s := codec.NewReader(r0)
	if c.Regs == nil {
		c.Regs = NewRegisters()
	}
	r := c.Regs
	for i := 0; i < 13; i++ {
		r.R[i] = s.U32()
	}
	r.SPUsr = s.U32()
	r.LRUsr = s.U32()
	r.SPSvc = s.U32()
	r.LRSvc = s.U32()
	r.SPAbt = s.U32()
	r.LRAbt = s.U32()
	r.SPUnd = s.U32()
	r.LRUnd = s.U32()
	r.SPIrq = s.U32()
	r.LRIrq = s.U32()
	r.R8Fiq = s.U32()
	r.R9Fiq = s.U32()
	r.R10Fiq = s.U32()
	r.R11Fiq = s.U32()
	r.R12Fiq = s.U32()
	r.SPFiq = s.U32()
	r.LRFiq = s.U32()
	r.PC = s.U32()
	r.CPSR = s.U32()
	r.SPSRSvc = s.U32()
	r.SPSRAbt = s.U32()
	r.SPSRUnd = s.U32()
	r.SPSRIrq = s.U32()
	r.SPSRFiq = s.U32()

	c.pipe.count = int(s.I32())
	c.pipe.addr[0] = s.U32()
	c.pipe.addr[1] = s.U32()
	c.pipe.instr[0] = s.U32()
	c.pipe.instr[1] = s.U32()
	c.pcOperand = s.U32()
	return s.Err()
}
