package cpu

import "gbacore/internal/bus"

// executeARM decodes and executes one 32-bit ARM instruction fetched from
// addr, returning whether it flushed the pipeline (a taken branch, a write
// to r15, or an exception entry). Decode follows the standard ARM7TDMI
// bits-27-25 dispatch, with bits 7-4 disambiguating the multiply,
// single-data-swap, halfword-transfer, and BX encodings that share the
// data-processing class's top bits.
func (c *CPU) executeARM(addr, instr uint32) bool {
	cond := ARMCondition(instr >> 28)
	if !checkCondition(cond, c.Regs.CPSR) {
		return false
	}

	top3 := (instr >> 25) & 0x7

	switch top3 {
	case 0b000, 0b001:
		return c.execDataProcessingFamily(addr, instr, top3 == 0b001)
	case 0b010:
		return c.execSingleDataTransfer(instr, false)
	case 0b011:
		if instr&0x10 != 0 {
			c.enterUndefined(addr, 4)
			return true
		}
		return c.execSingleDataTransfer(instr, true)
	case 0b100:
		return c.execBlockDataTransfer(instr)
	case 0b101:
		return c.execBranch(instr)
	case 0b110:
		// Coprocessor data transfer: GBA has no coprocessor.
		c.enterUndefined(addr, 4)
		return true
	default: // 0b111
		if instr&0x0F000000 == 0x0F000000 {
			return c.execSWI(addr)
		}
		c.enterUndefined(addr, 4)
		return true
	}
}

// execDataProcessingFamily handles everything encoded under the top-level
// 000/001 bit pattern: BX, multiply, multiply-long, single-data-swap,
// halfword/signed transfer, MRS/MSR, and plain data processing. immediate
// reports whether bit 25 (the I bit) is set.
func (c *CPU) execDataProcessingFamily(addr, instr uint32, immediate bool) bool {
	if !immediate && instr&0x0FFFFFF0 == 0x012FFF10 {
		return c.execBranchExchange(instr)
	}

	bit7 := instr>>7&1 != 0
	bit4 := instr>>4&1 != 0

	if !immediate && bit7 && bit4 {
		bits6_5 := instr >> 5 & 0x3
		if bits6_5 == 0 {
			bits27_22 := instr >> 22 & 0x3F
			bits27_23 := instr >> 23 & 0x1F
			switch {
			case bits27_22 == 0:
				return c.execMultiply(instr)
			case bits27_23 == 1:
				return c.execMultiplyLong(instr)
			case bits27_23 == 2 && instr>>20&0x3 == 0:
				return c.execSingleSwap(instr)
			}
			c.enterUndefined(addr, 4)
			return true
		}
		return c.execHalfwordTransfer(instr)
	}

	opcode := ARMDataProcessingOperation(instr >> 21 & 0xF)
	s := instr>>20&1 != 0
	if !s && opcode >= TST && opcode <= CMN {
		if opcode&1 == 0 {
			return c.execMRS(instr)
		}
		return c.execMSR(instr, immediate)
	}

	return c.execDataProcessing(instr, immediate)
}

// operand2 evaluates a data-processing instruction's second operand,
// returning its value and the carry the barrel shifter produced (used only
// when the instruction sets flags).
func (c *CPU) operand2(instr uint32, immediate bool) (value uint32, shiftCarry bool) {
	carryIn := c.Regs.GetFlagC()

	if immediate {
		imm := instr & 0xFF
		rot := uint8(instr >> 8 & 0xF * 2)
		return shiftROR(imm, rot, carryIn)
	}

	rm := c.readReg(uint8(instr & 0xF))
	kind := ARMShiftType(instr >> 5 & 0x3)

	if instr>>4&1 != 0 {
		// Shift amount from a register's bottom byte; costs one internal
		// cycle and does not get the immediate-zero-means-32 treatment.
		c.stepCycles++
		rs := uint8(c.readReg(uint8(instr>>8&0xF)))
		amount := rs
		if amount == 0 {
			return rm, carryIn
		}
		return shift(kind, rm, amount, carryIn, false)
	}

	amount := uint8(instr >> 7 & 0x1F)
	return shift(kind, rm, amount, carryIn, true)
}

// execDataProcessing implements the sixteen ALU opcodes: logical
// ops latch the shifter's carry out when S=1, arithmetic ops compute their
// own carry/overflow from the addition or subtraction itself.
func (c *CPU) execDataProcessing(instr uint32, immediate bool) bool {
	opcode := ARMDataProcessingOperation(instr >> 21 & 0xF)
	s := instr>>20&1 != 0
	rn := uint8(instr >> 16 & 0xF)
	rd := uint8(instr >> 12 & 0xF)

	op2, shiftCarry := c.operand2(instr, immediate)
	rnVal := c.readReg(rn)

	var result uint32
	var carry, overflow bool
	logical := false

	switch opcode {
	case AND:
		result = rnVal & op2
		logical = true
	case EOR:
		result = rnVal ^ op2
		logical = true
	case SUB:
		result, carry, overflow = subWithFlags(rnVal, op2)
	case RSB:
		result, carry, overflow = subWithFlags(op2, rnVal)
	case ADD:
		result, carry, overflow = addWithFlags(rnVal, op2, 0)
	case ADC:
		result, carry, overflow = addWithFlags(rnVal, op2, boolBit32(c.Regs.GetFlagC()))
	case SBC:
		result, carry, overflow = subWithFlags(rnVal, op2+1-boolBit32(c.Regs.GetFlagC()))
	case RSC:
		result, carry, overflow = subWithFlags(op2, rnVal+1-boolBit32(c.Regs.GetFlagC()))
	case TST:
		result = rnVal & op2
		logical = true
	case TEQ:
		result = rnVal ^ op2
		logical = true
	case CMP:
		result, carry, overflow = subWithFlags(rnVal, op2)
	case CMN:
		result, carry, overflow = addWithFlags(rnVal, op2, 0)
	case ORR:
		result = rnVal | op2
		logical = true
	case MOV:
		result = op2
		logical = true
	case BIC:
		result = rnVal &^ op2
		logical = true
	case MVN:
		result = ^op2
		logical = true
	}

	if logical {
		carry = shiftCarry
	}

	isTestOp := opcode == TST || opcode == TEQ || opcode == CMP || opcode == CMN
	flush := false
	if !isTestOp {
		flush = c.writeReg(rd, result)
	}

	if s {
		if !isTestOp && rd == 15 {
			// When S=1 and Rd=PC, CPSR <- SPSR restores the full mode/flags
			// state an exception handler is returning from.
			c.Regs.CPSR = c.Regs.GetSPSR()
		} else {
			c.Regs.SetFlagN(result&0x80000000 != 0)
			c.Regs.SetFlagZ(result == 0)
			c.Regs.SetFlagC(carry)
			if !logical {
				c.Regs.SetFlagV(overflow)
			}
		}
	}

	return flush
}

func addWithFlags(a, b, carryIn uint32) (result uint32, carry, overflow bool) {
	sum := uint64(a) + uint64(b) + uint64(carryIn)
	result = uint32(sum)
	carry = sum > 0xFFFFFFFF
	overflow = (a^result)&(b^result)&0x80000000 != 0
	return
}

func subWithFlags(a, b uint32) (result uint32, carry, overflow bool) {
	diff := uint64(a) - uint64(b)
	result = uint32(diff)
	carry = a >= b
	overflow = (a^b)&(a^result)&0x80000000 != 0
	return
}

// execMRS implements "Rd = Psr" PSR transfer.
func (c *CPU) execMRS(instr uint32) bool {
	rd := uint8(instr >> 12 & 0xF)
	useSPSR := instr>>22&1 != 0
	var v uint32
	if useSPSR {
		v = c.Regs.GetSPSR()
	} else {
		v = c.Regs.CPSR
	}
	return c.writeReg(rd, v)
}

// execMSR implements "Psr[field] = Op", applying the field mask (control,
// extension, status, flags bytes) bits 19-16 select.
func (c *CPU) execMSR(instr uint32, immediate bool) bool {
	useSPSR := instr>>22&1 != 0

	var op uint32
	if immediate {
		imm := instr & 0xFF
		rot := uint8(instr >> 8 & 0xF * 2)
		op, _ = shiftROR(imm, rot, false)
	} else {
		op = c.readReg(uint8(instr & 0xF))
	}

	var mask uint32
	if instr>>16&1 != 0 {
		mask |= 0x000000FF // control
	}
	if instr>>17&1 != 0 {
		mask |= 0x0000FF00 // extension
	}
	if instr>>18&1 != 0 {
		mask |= 0x00FF0000 // status
	}
	if instr>>19&1 != 0 {
		mask |= 0xFF000000 // flags
	}

	if useSPSR {
		c.Regs.SetSPSR((c.Regs.GetSPSR() &^ mask) | (op & mask))
		return false
	}

	// Unprivileged (User mode) MSR can only touch the flags byte.
	if c.Regs.GetMode() == USRMode {
		mask &= 0xFF000000
	}
	c.Regs.CPSR = (c.Regs.CPSR &^ mask) | (op & mask)
	return false
}

// execMultiply implements MUL/MLA. The internal cycle count depends on how
// many of Rs's top bytes are all-zero or all-one; MLA's accumulate step
// costs one further internal cycle.
func (c *CPU) execMultiply(instr uint32) bool {
	a := instr>>21&1 != 0
	s := instr>>20&1 != 0
	rd := uint8(instr >> 16 & 0xF)
	rn := uint8(instr >> 12 & 0xF)
	rs := uint8(instr >> 8 & 0xF)
	rm := uint8(instr & 0xF)

	rsVal := c.readReg(rs)
	result := c.readReg(rm) * rsVal
	if a {
		result += c.readReg(rn)
	}

	c.stepCycles += uint64(mulCycles(rsVal))
	if a {
		c.stepCycles++
	}

	flush := c.writeReg(rd, result)
	if s {
		c.Regs.SetFlagN(result&0x80000000 != 0)
		c.Regs.SetFlagZ(result == 0)
	}
	return flush
}

// execMultiplyLong implements UMULL/UMLAL/SMULL/SMLAL, producing a 64-bit
// product split across RdHi:RdLo.
func (c *CPU) execMultiplyLong(instr uint32) bool {
	signed := instr>>22&1 != 0
	accumulate := instr>>21&1 != 0
	s := instr>>20&1 != 0
	rdHi := uint8(instr >> 16 & 0xF)
	rdLo := uint8(instr >> 12 & 0xF)
	rs := uint8(instr >> 8 & 0xF)
	rm := uint8(instr & 0xF)

	rsVal := c.readReg(rs)
	rmVal := c.readReg(rm)

	var product uint64
	if signed {
		product = uint64(int64(int32(rmVal)) * int64(int32(rsVal)))
	} else {
		product = uint64(rmVal) * uint64(rsVal)
	}
	if accumulate {
		product += uint64(c.readReg(rdHi))<<32 | uint64(c.readReg(rdLo))
	}

	c.stepCycles += uint64(mulCycles(rsVal)) + 1
	if accumulate {
		c.stepCycles++
	}

	flushLo := c.writeReg(rdLo, uint32(product))
	flushHi := c.writeReg(rdHi, uint32(product>>32))
	if s {
		c.Regs.SetFlagN(product&0x8000000000000000 != 0)
		c.Regs.SetFlagZ(product == 0)
	}
	return flushLo || flushHi
}

func mulCycles(rs uint32) int {
	switch {
	case rs&0xFFFFFF00 == 0 || rs&0xFFFFFF00 == 0xFFFFFF00:
		return 1
	case rs&0xFFFF0000 == 0 || rs&0xFFFF0000 == 0xFFFF0000:
		return 2
	case rs&0xFF000000 == 0 || rs&0xFF000000 == 0xFF000000:
		return 3
	default:
		return 4
	}
}

// execSingleSwap implements SWP/SWPB: an atomic (on this single-core
// emulation, trivially so) read-then-write of a memory byte or word.
func (c *CPU) execSingleSwap(instr uint32) bool {
	byteSwap := instr>>22&1 != 0
	rn := uint8(instr >> 16 & 0xF)
	rd := uint8(instr >> 12 & 0xF)
	rm := uint8(instr & 0xF)

	addr := c.readReg(rn)
	width := busWidthFor(byteSwap)
	old := c.busRead(addr, width)
	c.busWrite(addr, c.readReg(rm), width)
	return c.writeReg(rd, old)
}

// execHalfwordTransfer implements LDRH/STRH/LDRSB/LDRSH and their
// register- or immediate-offset addressing, pre/post-indexed.
func (c *CPU) execHalfwordTransfer(instr uint32) bool {
	p := instr>>24&1 != 0
	u := instr>>23&1 != 0
	immOffset := instr>>22&1 != 0
	w := instr>>21&1 != 0
	l := instr>>20&1 != 0
	rn := uint8(instr >> 16 & 0xF)
	rd := uint8(instr >> 12 & 0xF)
	sh := instr >> 5 & 0x3

	var offset uint32
	if immOffset {
		offset = (instr>>8&0xF)<<4 | instr&0xF
	} else {
		offset = c.readReg(uint8(instr & 0xF))
	}

	base := c.readReg(rn)
	addr := base
	if p {
		addr = applyOffset(base, offset, u)
	}

	flush := false
	switch {
	case l && sh == 0b01: // LDRH
		flush = c.writeReg(rd, c.busRead(addr, bus.Half))
	case l && sh == 0b10: // LDRSB
		v := c.busRead(addr, bus.Byte)
		flush = c.writeReg(rd, signExtend(v, 8))
	case l && sh == 0b11: // LDRSH
		v := c.busRead(addr, bus.Half)
		flush = c.writeReg(rd, signExtend(v, 16))
	case !l && sh == 0b01: // STRH
		c.busWrite(addr, c.readReg(rd), bus.Half)
	}

	if !p {
		addr = applyOffset(base, offset, u)
	}
	if (!p || w) && rn != 15 {
		c.Regs.SetReg(rn, addr)
	}

	return flush
}

// execSingleDataTransfer implements LDR/STR with byte or word width,
// immediate or (optionally shifted) register offset.
func (c *CPU) execSingleDataTransfer(instr uint32, registerOffset bool) bool {
	p := instr>>24&1 != 0
	u := instr>>23&1 != 0
	b := instr>>22&1 != 0
	w := instr>>21&1 != 0
	l := instr>>20&1 != 0
	rn := uint8(instr >> 16 & 0xF)
	rd := uint8(instr >> 12 & 0xF)

	var offset uint32
	if registerOffset {
		rm := c.readReg(uint8(instr & 0xF))
		kind := ARMShiftType(instr >> 5 & 0x3)
		amount := uint8(instr >> 7 & 0x1F)
		offset, _ = shift(kind, rm, amount, c.Regs.GetFlagC(), true)
	} else {
		offset = instr & 0xFFF
	}

	base := c.readReg(rn)
	addr := base
	if p {
		addr = applyOffset(base, offset, u)
	}

	width := busWidthFor(b)
	flush := false
	if l {
		v := c.busRead(addr, width)
		flush = c.writeReg(rd, v)
	} else {
		c.busWrite(addr, c.readReg(rd), width)
	}

	if !p {
		addr = applyOffset(base, offset, u)
	}
	// Post-indexed addressing always writes back; pre-indexed only with W.
	if (!p || w) && rn != 15 {
		c.Regs.SetReg(rn, addr)
	}

	return flush
}

// execBlockDataTransfer implements LDM/STM across all four addressing
// orderings (IB/IA/DB/DA) and the S-bit's user-bank-select / CPSR-restore
// variants.
func (c *CPU) execBlockDataTransfer(instr uint32) bool {
	p := instr>>24&1 != 0
	u := instr>>23&1 != 0
	s := instr>>22&1 != 0
	w := instr>>21&1 != 0
	l := instr>>20&1 != 0
	rn := uint8(instr >> 16 & 0xF)
	list := uint16(instr & 0xFFFF)

	regs := make([]uint8, 0, 16)
	for i := uint8(0); i < 16; i++ {
		if list&(1<<i) != 0 {
			regs = append(regs, i)
		}
	}

	count := uint32(len(regs))
	base := c.Regs.GetReg(rn)

	var start uint32
	if u {
		start = base
		if p {
			start += 4
		}
	} else {
		start = base - count*4
		if !p {
			start += 4
		}
	}

	userBank := s && (!l || list&(1<<15) == 0)
	flush := false

	addr := start
	for _, r := range regs {
		if l {
			v := c.busRead(addr, bus.Word)
			if userBank {
				c.setUserReg(r, v)
			} else {
				if c.writeReg(r, v) {
					flush = true
				}
			}
		} else {
			var v uint32
			if userBank {
				v = c.getUserReg(r)
			} else {
				v = c.readReg(r)
			}
			c.busWrite(addr, v, bus.Word)
		}
		addr += 4
	}

	if l && s && list&(1<<15) != 0 {
		// Loading PC with S set restores CPSR from SPSR (mode return).
		c.Regs.CPSR = c.Regs.GetSPSR()
	}

	if w {
		if u {
			c.Regs.SetReg(rn, base+count*4)
		} else {
			c.Regs.SetReg(rn, base-count*4)
		}
	}

	return flush
}

// getUserReg/setUserReg access r8-r14 in the User/System bank regardless of
// the current mode, for LDM/STM's S-bit user-bank-select variant.
func (c *CPU) getUserReg(n uint8) uint32 {
	if n < 8 || n == 15 {
		return c.Regs.GetReg(n)
	}
	mode := c.Regs.GetMode()
	c.Regs.SetMode(USRMode)
	v := c.Regs.GetReg(n)
	c.Regs.SetMode(mode)
	return v
}

func (c *CPU) setUserReg(n uint8, v uint32) {
	if n < 8 || n == 15 {
		c.writeReg(n, v)
		return
	}
	mode := c.Regs.GetMode()
	c.Regs.SetMode(USRMode)
	c.Regs.SetReg(n, v)
	c.Regs.SetMode(mode)
}

// execBranch implements B/BL: a PC-relative jump by a sign-extended
// 24-bit word offset, optionally latching the return address in LR.
func (c *CPU) execBranch(instr uint32) bool {
	link := instr>>24&1 != 0
	offset := signExtend(instr&0xFFFFFF, 24) << 2

	if link {
		c.Regs.SetReg(14, c.pcOperand-4)
	}
	c.Regs.PC = c.pcOperand + offset
	return true
}

// execBranchExchange implements BX: jump to Rm's address, switching to
// THUMB state if its bit 0 is set.
func (c *CPU) execBranchExchange(instr uint32) bool {
	rm := uint8(instr & 0xF)
	c.branchExchange(c.readReg(rm))
	return true
}

// execSWI raises the software-interrupt exception.
func (c *CPU) execSWI(addr uint32) bool {
	c.enterSWI(addr, 4)
	return true
}

func applyOffset(base, offset uint32, up bool) uint32 {
	if up {
		return base + offset
	}
	return base - offset
}

func signExtend(v uint32, bits uint) uint32 {
	shift := 32 - bits
	return uint32(int32(v<<shift) >> shift)
}

func busWidthFor(byteWidth bool) bus.Width {
	if byteWidth {
		return bus.Byte
	}
	return bus.Word
}
