package cpu

import "gbacore/internal/bus"

// executeThumb decodes and executes one 16-bit THUMB instruction fetched
// from addr, returning whether it flushed the pipeline. Dispatch follows
// the nineteen THUMB formats by their fixed-width top-bit prefixes.
func (c *CPU) executeThumb(addr, instr uint32) bool {
	switch {
	case instr&0xF800 == 0x1800: // 00011xx: format 2, add/subtract
		return c.thumbAddSubtract(instr)
	case instr&0xE000 == 0x0000: // 000xx, excluding the above: format 1
		return c.thumbMoveShifted(instr)
	case instr&0xE000 == 0x2000: // 001xx: format 3
		return c.thumbImmediateOp(instr)
	case instr&0xFC00 == 0x4000: // 010000: format 4, ALU ops
		return c.thumbALU(instr)
	case instr&0xFC00 == 0x4400: // 010001: format 5, Hi register ops/BX
		return c.thumbHiRegisterOp(instr)
	case instr&0xF800 == 0x4800: // 01001: format 6, PC-relative load
		return c.thumbPCRelativeLoad(instr)
	case instr&0xF200 == 0x5000: // 0101xx0: format 7, load/store reg offset
		return c.thumbLoadStoreRegOffset(instr)
	case instr&0xF200 == 0x5200: // 0101xx1: format 8, sign-extended
		return c.thumbLoadStoreSignExtended(instr)
	case instr&0xE000 == 0x6000: // 011xx: format 9, immediate offset
		return c.thumbLoadStoreImmediateOffset(instr)
	case instr&0xF000 == 0x8000: // 1000: format 10, halfword
		return c.thumbLoadStoreHalfword(instr)
	case instr&0xF000 == 0x9000: // 1001: format 11, SP-relative
		return c.thumbSPRelativeLoadStore(instr)
	case instr&0xF000 == 0xA000: // 1010: format 12, load address
		return c.thumbLoadAddress(instr)
	case instr&0xFF00 == 0xB000: // 10110000: format 13, add offset to SP
		return c.thumbAddOffsetToSP(instr)
	case instr&0xF600 == 0xB400: // 1011x10x: format 14, push/pop
		return c.thumbPushPop(instr)
	case instr&0xF000 == 0xC000: // 1100: format 15, multiple load/store
		return c.thumbMultipleLoadStore(instr)
	case instr&0xFF00 == 0xDF00: // 11011111: format 17, SWI
		return c.thumbSWI(addr)
	case instr&0xF000 == 0xD000: // 1101: format 16, conditional branch
		return c.thumbConditionalBranch(instr)
	case instr&0xF800 == 0xE000: // 11100: format 18, unconditional branch
		return c.thumbUnconditionalBranch(instr)
	case instr&0xF000 == 0xF000: // 1111: format 19, long branch with link
		return c.thumbLongBranchLink(instr)
	default:
		c.enterUndefined(addr, 2)
		return true
	}
}

// thumbMoveShifted implements format 1: LSL/LSR/ASR Rd, Rs, #offset5.
func (c *CPU) thumbMoveShifted(instr uint32) bool {
	op := instr >> 11 & 0x3
	offset := uint8(instr >> 6 & 0x1F)
	rs := uint8(instr >> 3 & 0x7)
	rd := uint8(instr & 0x7)

	kind := ARMShiftType(op)
	result, carry := shift(kind, c.readReg(rs), offset, c.Regs.GetFlagC(), true)

	flush := c.writeReg(rd, result)
	c.Regs.SetFlagN(result&0x80000000 != 0)
	c.Regs.SetFlagZ(result == 0)
	c.Regs.SetFlagC(carry)
	return flush
}

// thumbAddSubtract implements format 2: ADD/SUB Rd, Rs, Rn/#offset3.
func (c *CPU) thumbAddSubtract(instr uint32) bool {
	immediate := instr>>10&1 != 0
	subtract := instr>>9&1 != 0
	operand := uint8(instr >> 6 & 0x7)
	rs := uint8(instr >> 3 & 0x7)
	rd := uint8(instr & 0x7)

	var op2 uint32
	if immediate {
		op2 = uint32(operand)
	} else {
		op2 = c.readReg(operand)
	}

	var result uint32
	var carry, overflow bool
	if subtract {
		result, carry, overflow = subWithFlags(c.readReg(rs), op2)
	} else {
		result, carry, overflow = addWithFlags(c.readReg(rs), op2, 0)
	}

	flush := c.writeReg(rd, result)
	c.Regs.SetFlagN(result&0x80000000 != 0)
	c.Regs.SetFlagZ(result == 0)
	c.Regs.SetFlagC(carry)
	c.Regs.SetFlagV(overflow)
	return flush
}

// thumbImmediateOp implements format 3: MOV/CMP/ADD/SUB Rd, #offset8.
func (c *CPU) thumbImmediateOp(instr uint32) bool {
	op := instr >> 11 & 0x3
	rd := uint8(instr >> 8 & 0x7)
	imm := instr & 0xFF

	rdVal := c.readReg(rd)
	var result uint32
	var carry, overflow bool
	flush := false

	switch op {
	case 0b00: // MOV
		result = imm
		flush = c.writeReg(rd, result)
	case 0b01: // CMP
		result, carry, overflow = subWithFlags(rdVal, imm)
	case 0b10: // ADD
		result, carry, overflow = addWithFlags(rdVal, imm, 0)
		flush = c.writeReg(rd, result)
	default: // SUB
		result, carry, overflow = subWithFlags(rdVal, imm)
		flush = c.writeReg(rd, result)
	}

	c.Regs.SetFlagN(result&0x80000000 != 0)
	c.Regs.SetFlagZ(result == 0)
	if op != 0b00 {
		c.Regs.SetFlagC(carry)
		c.Regs.SetFlagV(overflow)
	}
	return flush
}

// thumbALU implements format 4: the two-operand ALU ops sharing THUMB's
// AND/EOR/LSL/LSR/ASR/ADC/SBC/ROR/TST/NEG/CMP/CMN/ORR/MUL/BIC/MVN block.
func (c *CPU) thumbALU(instr uint32) bool {
	op := instr >> 6 & 0xF
	rs := uint8(instr >> 3 & 0x7)
	rd := uint8(instr & 0x7)

	rdVal := c.readReg(rd)
	rsVal := c.readReg(rs)

	var result uint32
	carry := c.Regs.GetFlagC()
	overflow := c.Regs.GetFlagV()
	writesResult := true
	setsCV := false

	switch op {
	case 0x0: // AND
		result = rdVal & rsVal
	case 0x1: // EOR
		result = rdVal ^ rsVal
	case 0x2: // LSL
		result, carry = shiftLSL(rdVal, uint8(rsVal), carry)
		c.stepCycles++
	case 0x3: // LSR
		result, carry = shiftLSR(rdVal, uint8(rsVal), carry)
		c.stepCycles++
	case 0x4: // ASR
		result, carry = shiftASR(rdVal, uint8(rsVal), carry)
		c.stepCycles++
	case 0x5: // ADC
		result, carry, overflow = addWithFlags(rdVal, rsVal, boolBit32(c.Regs.GetFlagC()))
		setsCV = true
	case 0x6: // SBC
		result, carry, overflow = subWithFlags(rdVal, rsVal+1-boolBit32(c.Regs.GetFlagC()))
		setsCV = true
	case 0x7: // ROR
		result, carry = shiftROR(rdVal, uint8(rsVal), carry)
		c.stepCycles++
	case 0x8: // TST
		result = rdVal & rsVal
		writesResult = false
	case 0x9: // NEG
		result, carry, overflow = subWithFlags(0, rsVal)
		setsCV = true
	case 0xA: // CMP
		result, carry, overflow = subWithFlags(rdVal, rsVal)
		writesResult = false
		setsCV = true
	case 0xB: // CMN
		result, carry, overflow = addWithFlags(rdVal, rsVal, 0)
		writesResult = false
		setsCV = true
	case 0xC: // ORR
		result = rdVal | rsVal
	case 0xD: // MUL
		result = rdVal * rsVal
		c.stepCycles += uint64(mulCycles(rsVal))
	case 0xE: // BIC
		result = rdVal &^ rsVal
	default: // MVN
		result = ^rsVal
	}

	flush := false
	if writesResult {
		flush = c.writeReg(rd, result)
	}

	c.Regs.SetFlagN(result&0x80000000 != 0)
	c.Regs.SetFlagZ(result == 0)
	if op == 0x2 || op == 0x3 || op == 0x4 || op == 0x7 {
		c.Regs.SetFlagC(carry)
	} else if setsCV {
		c.Regs.SetFlagC(carry)
		c.Regs.SetFlagV(overflow)
	}
	return flush
}

// thumbHiRegisterOp implements format 5: ADD/CMP/MOV/BX operating on any of
// r0-r15 by way of the H1/H2 high-register-select bits.
func (c *CPU) thumbHiRegisterOp(instr uint32) bool {
	op := instr >> 8 & 0x3
	h1 := instr>>7&1 != 0
	h2 := instr>>6&1 != 0
	rs := uint8(instr >> 3 & 0x7)
	rd := uint8(instr & 0x7)

	if h2 {
		rs += 8
	}
	if h1 {
		rd += 8
	}

	switch op {
	case 0b00: // ADD
		return c.writeReg(rd, c.readReg(rd)+c.readReg(rs))
	case 0b01: // CMP
		result, carry, overflow := subWithFlags(c.readReg(rd), c.readReg(rs))
		c.Regs.SetFlagN(result&0x80000000 != 0)
		c.Regs.SetFlagZ(result == 0)
		c.Regs.SetFlagC(carry)
		c.Regs.SetFlagV(overflow)
		return false
	case 0b10: // MOV
		return c.writeReg(rd, c.readReg(rs))
	default: // BX
		c.branchExchange(c.readReg(rs))
		return true
	}
}

// thumbPCRelativeLoad implements format 6: LDR Rd, [PC, #word8*4], with PC
// word-aligned before the offset is added.
func (c *CPU) thumbPCRelativeLoad(instr uint32) bool {
	rd := uint8(instr >> 8 & 0x7)
	word8 := instr & 0xFF
	addr := (c.pcOperand &^ 3) + word8*4
	return c.writeReg(rd, c.busRead(addr, bus.Word))
}

// thumbLoadStoreRegOffset implements format 7: LDR/STR{B} Rd, [Rb, Ro].
func (c *CPU) thumbLoadStoreRegOffset(instr uint32) bool {
	l := instr>>11&1 != 0
	b := instr>>10&1 != 0
	ro := uint8(instr >> 6 & 0x7)
	rb := uint8(instr >> 3 & 0x7)
	rd := uint8(instr & 0x7)

	addr := c.readReg(rb) + c.readReg(ro)
	width := busWidthFor(b)
	if l {
		return c.writeReg(rd, c.busRead(addr, width))
	}
	c.busWrite(addr, c.readReg(rd), width)
	return false
}

// thumbLoadStoreSignExtended implements format 8: LDRH/LDSB/LDSH/STRH
// Rd, [Rb, Ro].
func (c *CPU) thumbLoadStoreSignExtended(instr uint32) bool {
	h := instr>>11&1 != 0
	s := instr>>10&1 != 0
	ro := uint8(instr >> 6 & 0x7)
	rb := uint8(instr >> 3 & 0x7)
	rd := uint8(instr & 0x7)

	addr := c.readReg(rb) + c.readReg(ro)

	switch {
	case !s && !h: // STRH
		c.busWrite(addr, c.readReg(rd), bus.Half)
		return false
	case !s && h: // LDRH
		return c.writeReg(rd, c.busRead(addr, bus.Half))
	case s && !h: // LDSB
		return c.writeReg(rd, signExtend(c.busRead(addr, bus.Byte), 8))
	default: // LDSH
		return c.writeReg(rd, signExtend(c.busRead(addr, bus.Half), 16))
	}
}

// thumbLoadStoreImmediateOffset implements format 9: LDR/STR{B}
// Rd, [Rb, #offset5].
func (c *CPU) thumbLoadStoreImmediateOffset(instr uint32) bool {
	b := instr>>12&1 != 0
	l := instr>>11&1 != 0
	offset := instr >> 6 & 0x1F
	rb := uint8(instr >> 3 & 0x7)
	rd := uint8(instr & 0x7)

	scaledOffset := offset
	if !b {
		scaledOffset *= 4
	}
	addr := c.readReg(rb) + scaledOffset

	width := busWidthFor(b)
	if l {
		return c.writeReg(rd, c.busRead(addr, width))
	}
	c.busWrite(addr, c.readReg(rd), width)
	return false
}

// thumbLoadStoreHalfword implements format 10: LDRH/STRH Rd, [Rb, #offset5*2].
func (c *CPU) thumbLoadStoreHalfword(instr uint32) bool {
	l := instr>>11&1 != 0
	offset := instr >> 6 & 0x1F * 2
	rb := uint8(instr >> 3 & 0x7)
	rd := uint8(instr & 0x7)

	addr := c.readReg(rb) + offset
	if l {
		return c.writeReg(rd, c.busRead(addr, bus.Half))
	}
	c.busWrite(addr, c.readReg(rd), bus.Half)
	return false
}

// thumbSPRelativeLoadStore implements format 11: LDR/STR Rd, [SP, #word8*4].
func (c *CPU) thumbSPRelativeLoadStore(instr uint32) bool {
	l := instr>>11&1 != 0
	rd := uint8(instr >> 8 & 0x7)
	word8 := instr & 0xFF

	addr := c.Regs.GetReg(13) + word8*4
	if l {
		return c.writeReg(rd, c.busRead(addr, bus.Word))
	}
	c.busWrite(addr, c.readReg(rd), bus.Word)
	return false
}

// thumbLoadAddress implements format 12: ADD Rd, PC/SP, #word8*4.
func (c *CPU) thumbLoadAddress(instr uint32) bool {
	sp := instr>>11&1 != 0
	rd := uint8(instr >> 8 & 0x7)
	word8 := instr & 0xFF

	var base uint32
	if sp {
		base = c.Regs.GetReg(13)
	} else {
		base = c.pcOperand &^ 3
	}
	return c.writeReg(rd, base+word8*4)
}

// thumbAddOffsetToSP implements format 13: ADD SP, #+/-word7*4.
func (c *CPU) thumbAddOffsetToSP(instr uint32) bool {
	negative := instr>>7&1 != 0
	word7 := instr & 0x7F * 4

	sp := c.Regs.GetReg(13)
	if negative {
		sp -= word7
	} else {
		sp += word7
	}
	c.Regs.SetReg(13, sp)
	return false
}

// thumbPushPop implements format 14: PUSH/POP {Rlist, LR/PC}.
func (c *CPU) thumbPushPop(instr uint32) bool {
	l := instr>>11&1 != 0
	r := instr>>8&1 != 0
	rlist := uint8(instr & 0xFF)

	sp := c.Regs.GetReg(13)
	flush := false

	if l { // POP: ascending addresses, lowest register first
		addr := sp
		for i := uint8(0); i < 8; i++ {
			if rlist&(1<<i) != 0 {
				c.writeReg(i, c.busRead(addr, bus.Word))
				addr += 4
			}
		}
		if r {
			v := c.busRead(addr, bus.Word)
			c.Regs.PC = v &^ 1
			flush = true
			addr += 4
		}
		c.Regs.SetReg(13, addr)
		return flush
	}

	// PUSH: descending addresses, store order high-to-low so the lowest
	// register ends up at the lowest address, matching POP's unwind order.
	count := 0
	for i := uint8(0); i < 8; i++ {
		if rlist&(1<<i) != 0 {
			count++
		}
	}
	if r {
		count++
	}
	addr := sp - uint32(count)*4
	c.Regs.SetReg(13, addr)

	writeAddr := addr
	for i := uint8(0); i < 8; i++ {
		if rlist&(1<<i) != 0 {
			c.busWrite(writeAddr, c.readReg(i), bus.Word)
			writeAddr += 4
		}
	}
	if r {
		c.busWrite(writeAddr, c.Regs.GetReg(14), bus.Word)
	}
	return false
}

// thumbMultipleLoadStore implements format 15: LDMIA/STMIA Rb!, {Rlist}.
func (c *CPU) thumbMultipleLoadStore(instr uint32) bool {
	l := instr>>11&1 != 0
	rb := uint8(instr >> 8 & 0x7)
	rlist := uint8(instr & 0xFF)

	addr := c.readReg(rb)
	flush := false

	for i := uint8(0); i < 8; i++ {
		if rlist&(1<<i) == 0 {
			continue
		}
		if l {
			if c.writeReg(i, c.busRead(addr, bus.Word)) {
				flush = true
			}
		} else {
			c.busWrite(addr, c.readReg(i), bus.Word)
		}
		addr += 4
	}
	c.Regs.SetReg(rb, addr)
	return flush
}

// thumbConditionalBranch implements format 16: Bcond #soffset8*2.
func (c *CPU) thumbConditionalBranch(instr uint32) bool {
	cond := ARMCondition(instr >> 8 & 0xF)
	if !checkCondition(cond, c.Regs.CPSR) {
		return false
	}
	offset := signExtend(instr&0xFF, 8) << 1
	c.Regs.PC = c.pcOperand + offset
	return true
}

// thumbSWI implements format 17.
func (c *CPU) thumbSWI(addr uint32) bool {
	c.enterSWI(addr, 2)
	return true
}

// thumbUnconditionalBranch implements format 18: B #offset11*2.
func (c *CPU) thumbUnconditionalBranch(instr uint32) bool {
	offset := signExtend(instr&0x7FF, 11) << 1
	c.Regs.PC = c.pcOperand + offset
	return true
}

// thumbLongBranchLink implements format 19: the two-halfword BL sequence.
// The first halfword (H=0) stashes PC+offset<<12 into LR; the second
// (H=1) computes the final target from LR and sets LR to the THUMB return
// address with bit 0 set, per the ARM7TDMI's BL encoding.
func (c *CPU) thumbLongBranchLink(instr uint32) bool {
	h := instr>>11&1 != 0
	offset := instr & 0x7FF

	if !h {
		c.Regs.SetReg(14, c.pcOperand+(signExtend(offset, 11)<<12))
		return false
	}

	next := c.Regs.GetReg(14) + offset<<1
	c.Regs.SetReg(14, (c.pcOperand-2)|1)
	c.Regs.PC = next
	return true
}
