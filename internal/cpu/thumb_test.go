package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecuteThumbMoveImmediateLoadsRegister(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4

	// format 3 MOV r0, #0x20 -> 001 00 000 00100000
	flush := c.executeThumb(0, 0x2020)
	assert.False(t, flush)
	assert.Equal(t, uint32(0x20), c.Regs.GetReg(0))
	assert.False(t, c.Regs.GetFlagZ())
}

func TestExecuteThumbMoveShiftedAppliesLSL(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4
	c.Regs.SetReg(1, 1)

	// format 1 LSL r0, r1, #3 -> 000 00 00011 001 000
	flush := c.executeThumb(0, 0x00C8)
	assert.False(t, flush)
	assert.Equal(t, uint32(8), c.Regs.GetReg(0))
}

func TestExecuteThumbAddSubtractImmediate(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4
	c.Regs.SetReg(1, 5)

	// format 2 SUB r0, r1, #2 -> 000111 1 010 001 000
	flush := c.executeThumb(0, 0x1E88)
	assert.False(t, flush)
	assert.Equal(t, uint32(3), c.Regs.GetReg(0))
}

func TestExecuteThumbHiRegisterBXSwitchesToARM(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4
	c.Regs.SetThumbState(true)
	c.Regs.SetReg(9, 0x08000100) // even -> ARM

	// format 5 BX hs: op=11, H2=1 (Rs is r9 = r1+8), Rs field=1
	flush := c.executeThumb(0, 0x4748)
	assert.True(t, flush)
	assert.False(t, c.Regs.IsThumb())
	assert.Equal(t, uint32(0x08000100), c.Regs.PC)
}

func TestExecuteThumbUnconditionalBranch(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4 // addr 0 + 4, THUMB PC read-ahead

	// format 18 B #0x10 -> offset11 = 0x10>>1 = 8
	flush := c.executeThumb(0, 0xE008)
	assert.True(t, flush)
	assert.Equal(t, uint32(0x14), c.Regs.PC)
}

func TestExecuteThumbConditionalBranchNotTaken(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4
	c.Regs.SetFlagZ(false)
	pcBefore := c.Regs.PC

	flush := c.executeThumb(0, 0xD0F0) // BEQ, Z clear
	assert.False(t, flush)
	assert.Equal(t, pcBefore, c.Regs.PC)
}

func TestExecuteThumbALUAnd(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4
	c.Regs.SetReg(0, 0xF0)
	c.Regs.SetReg(1, 0x3C)

	flush := c.executeThumb(0, 0x4008) // AND r0, r1
	assert.False(t, flush)
	assert.Equal(t, uint32(0x30), c.Regs.GetReg(0))
}

func TestExecuteThumbALULSLByRegisterShiftsAndSetsCarry(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4
	c.Regs.SetReg(0, 0x80000000)
	c.Regs.SetReg(2, 1)

	flush := c.executeThumb(0, 0x4090) // LSL r0, r2
	assert.False(t, flush)
	assert.Equal(t, uint32(0), c.Regs.GetReg(0))
	assert.True(t, c.Regs.GetFlagC())
}

func TestExecuteThumbALUCmpDoesNotWriteResult(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4
	c.Regs.SetReg(0, 5)
	c.Regs.SetReg(1, 5)

	flush := c.executeThumb(0, 0x4288) // CMP r0, r1
	assert.False(t, flush)
	assert.Equal(t, uint32(5), c.Regs.GetReg(0))
	assert.True(t, c.Regs.GetFlagZ())
}

func TestExecuteThumbALUOrr(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4
	c.Regs.SetReg(0, 0x0F)
	c.Regs.SetReg(1, 0xF0)

	flush := c.executeThumb(0, 0x4308) // ORR r0, r1
	assert.False(t, flush)
	assert.Equal(t, uint32(0xFF), c.Regs.GetReg(0))
}

func TestExecuteThumbALUBic(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4
	c.Regs.SetReg(0, 0xFF)
	c.Regs.SetReg(1, 0x0F)

	flush := c.executeThumb(0, 0x4388) // BIC r0, r1
	assert.False(t, flush)
	assert.Equal(t, uint32(0xF0), c.Regs.GetReg(0))
}

func TestExecuteThumbALUMvn(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4
	c.Regs.SetReg(1, 0)

	flush := c.executeThumb(0, 0x43C8) // MVN r0, r1
	assert.False(t, flush)
	assert.Equal(t, uint32(0xFFFFFFFF), c.Regs.GetReg(0))
}

func TestExecuteThumbALUMul(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4
	c.Regs.SetReg(1, 6)
	c.Regs.SetReg(2, 7)

	flush := c.executeThumb(0, 0x4351) // MUL r1, r2
	assert.False(t, flush)
	assert.Equal(t, uint32(42), c.Regs.GetReg(1))
}

func TestExecuteThumbPCRelativeLoad(t *testing.T) {
	b := newRecordingBus()
	b.mem[8] = 0xCAFEBABE
	c := newTestCPUWithBus(b)
	c.pcOperand = 0 // word-aligned; word8=2 -> addr = 0 + 8

	flush := c.executeThumb(0, 0x4802) // LDR r0, [PC, #8]
	assert.False(t, flush)
	assert.Equal(t, uint32(0xCAFEBABE), c.Regs.GetReg(0))
}

func TestExecuteThumbLoadStoreRegOffsetWord(t *testing.T) {
	b := newRecordingBus()
	b.mem[0x3000] = 0x11223344
	c := newTestCPUWithBus(b)
	c.pcOperand = 4
	c.Regs.SetReg(1, 0x3000)
	c.Regs.SetReg(2, 0)

	flush := c.executeThumb(0, 0x5888) // LDR r0, [r1, r2]
	assert.False(t, flush)
	assert.Equal(t, uint32(0x11223344), c.Regs.GetReg(0))
}

func TestExecuteThumbLoadStoreRegOffsetStoreByte(t *testing.T) {
	b := newRecordingBus()
	c := newTestCPUWithBus(b)
	c.pcOperand = 4
	c.Regs.SetReg(1, 0x3000)
	c.Regs.SetReg(2, 0)
	c.Regs.SetReg(0, 0xAABBCCDD)

	flush := c.executeThumb(0, 0x5488) // STRB r0, [r1, r2]
	assert.False(t, flush)
	assert.Equal(t, uint32(0xDD), b.mem[0x3000])
}

func TestExecuteThumbLoadStoreSignExtendedLDRH(t *testing.T) {
	b := newRecordingBus()
	b.mem[0x3000] = 0x1234
	c := newTestCPUWithBus(b)
	c.pcOperand = 4
	c.Regs.SetReg(1, 0x3000)
	c.Regs.SetReg(2, 0)

	flush := c.executeThumb(0, 0x5A88) // LDRH r0, [r1, r2]
	assert.False(t, flush)
	assert.Equal(t, uint32(0x1234), c.Regs.GetReg(0))
}

func TestExecuteThumbLoadStoreSignExtendedLDSB(t *testing.T) {
	b := newRecordingBus()
	b.mem[0x3000] = 0xFF
	c := newTestCPUWithBus(b)
	c.pcOperand = 4
	c.Regs.SetReg(1, 0x3000)
	c.Regs.SetReg(2, 0)

	flush := c.executeThumb(0, 0x5688) // LDSB r0, [r1, r2]
	assert.False(t, flush)
	assert.Equal(t, uint32(0xFFFFFFFF), c.Regs.GetReg(0))
}

func TestExecuteThumbLoadStoreSignExtendedLDSH(t *testing.T) {
	b := newRecordingBus()
	b.mem[0x3000] = 0xFFFF
	c := newTestCPUWithBus(b)
	c.pcOperand = 4
	c.Regs.SetReg(1, 0x3000)
	c.Regs.SetReg(2, 0)

	flush := c.executeThumb(0, 0x5E88) // LDSH r0, [r1, r2]
	assert.False(t, flush)
	assert.Equal(t, uint32(0xFFFFFFFF), c.Regs.GetReg(0))
}

func TestExecuteThumbLoadStoreSignExtendedSTRH(t *testing.T) {
	b := newRecordingBus()
	c := newTestCPUWithBus(b)
	c.pcOperand = 4
	c.Regs.SetReg(1, 0x3000)
	c.Regs.SetReg(2, 0)
	c.Regs.SetReg(0, 0xBEEF)

	flush := c.executeThumb(0, 0x5288) // STRH r0, [r1, r2]
	assert.False(t, flush)
	assert.Equal(t, uint32(0xBEEF), b.mem[0x3000])
}

func TestExecuteThumbLoadStoreImmediateOffsetWord(t *testing.T) {
	b := newRecordingBus()
	b.mem[0x3008] = 0xDEADBEEF
	c := newTestCPUWithBus(b)
	c.pcOperand = 4
	c.Regs.SetReg(1, 0x3000)

	flush := c.executeThumb(0, 0x6888) // LDR r0, [r1, #8]
	assert.False(t, flush)
	assert.Equal(t, uint32(0xDEADBEEF), c.Regs.GetReg(0))
}

func TestExecuteThumbLoadStoreImmediateOffsetStoreByteUnscaled(t *testing.T) {
	b := newRecordingBus()
	c := newTestCPUWithBus(b)
	c.pcOperand = 4
	c.Regs.SetReg(1, 0x3000)
	c.Regs.SetReg(0, 0x1234AB)

	flush := c.executeThumb(0, 0x70C8) // STRB r0, [r1, #3]
	assert.False(t, flush)
	assert.Equal(t, uint32(0xAB), b.mem[0x3003])
}

func TestExecuteThumbLoadStoreHalfwordScalesOffsetByTwo(t *testing.T) {
	b := newRecordingBus()
	b.mem[0x3004] = 0x5678
	c := newTestCPUWithBus(b)
	c.pcOperand = 4
	c.Regs.SetReg(1, 0x3000)

	flush := c.executeThumb(0, 0x8888) // LDRH r0, [r1, #4]
	assert.False(t, flush)
	assert.Equal(t, uint32(0x5678), c.Regs.GetReg(0))
}

func TestExecuteThumbSPRelativeLoadStore(t *testing.T) {
	b := newRecordingBus()
	b.mem[0x3008] = 0x99999999
	c := newTestCPUWithBus(b)
	c.pcOperand = 4
	c.Regs.SetReg(13, 0x3000)

	flush := c.executeThumb(0, 0x9802) // LDR r0, [SP, #8]
	assert.False(t, flush)
	assert.Equal(t, uint32(0x99999999), c.Regs.GetReg(0))
}

func TestExecuteThumbLoadAddressFromSP(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4
	c.Regs.SetReg(13, 0x3000)

	flush := c.executeThumb(0, 0xA802) // ADD r0, SP, #8
	assert.False(t, flush)
	assert.Equal(t, uint32(0x3008), c.Regs.GetReg(0))
}

func TestExecuteThumbAddOffsetToSPNegative(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4
	c.Regs.SetReg(13, 0x3000)

	flush := c.executeThumb(0, 0xB082) // ADD SP, #-8
	assert.False(t, flush)
	assert.Equal(t, uint32(0x2FF8), c.Regs.GetReg(13))
}

func TestExecuteThumbPushStoresDescendingWithLR(t *testing.T) {
	b := newRecordingBus()
	c := newTestCPUWithBus(b)
	c.pcOperand = 4
	c.Regs.SetReg(13, 0x3000)
	c.Regs.SetReg(0, 0x1111)
	c.Regs.SetReg(1, 0x2222)
	c.Regs.SetReg(14, 0x3333)

	flush := c.executeThumb(0, 0xB503) // PUSH {r0, r1, LR}
	assert.False(t, flush)
	assert.Equal(t, uint32(0x2FF4), c.Regs.GetReg(13))
	assert.Equal(t, uint32(0x1111), b.mem[0x2FF4])
	assert.Equal(t, uint32(0x2222), b.mem[0x2FF8])
	assert.Equal(t, uint32(0x3333), b.mem[0x2FFC])
}

func TestExecuteThumbPopLoadsAscendingAndFlushesOnPC(t *testing.T) {
	b := newRecordingBus()
	b.mem[0x3000] = 0x4444
	b.mem[0x3004] = 0x08000101 // odd -> stays THUMB, masked to even PC
	c := newTestCPUWithBus(b)
	c.pcOperand = 4
	c.Regs.SetReg(13, 0x3000)

	flush := c.executeThumb(0, 0xBD01) // POP {r0, PC}
	assert.True(t, flush)
	assert.Equal(t, uint32(0x4444), c.Regs.GetReg(0))
	assert.Equal(t, uint32(0x08000100), c.Regs.PC)
	assert.Equal(t, uint32(0x3008), c.Regs.GetReg(13))
}

func TestExecuteThumbStoreMultipleIncrementsBaseRegister(t *testing.T) {
	b := newRecordingBus()
	c := newTestCPUWithBus(b)
	c.pcOperand = 4
	c.Regs.SetReg(0, 0x4000)
	c.Regs.SetReg(1, 0xAAAA)
	c.Regs.SetReg(2, 0xBBBB)

	flush := c.executeThumb(0, 0xC006) // STMIA r0!, {r1, r2}
	assert.False(t, flush)
	assert.Equal(t, uint32(0xAAAA), b.mem[0x4000])
	assert.Equal(t, uint32(0xBBBB), b.mem[0x4004])
	assert.Equal(t, uint32(0x4008), c.Regs.GetReg(0))
}

func TestExecuteThumbLoadMultipleIncrementsBaseRegister(t *testing.T) {
	b := newRecordingBus()
	b.mem[0x4000] = 0x1111
	b.mem[0x4004] = 0x2222
	c := newTestCPUWithBus(b)
	c.pcOperand = 4
	c.Regs.SetReg(0, 0x4000)

	flush := c.executeThumb(0, 0xC806) // LDMIA r0!, {r1, r2}
	assert.False(t, flush)
	assert.Equal(t, uint32(0x1111), c.Regs.GetReg(1))
	assert.Equal(t, uint32(0x2222), c.Regs.GetReg(2))
	assert.Equal(t, uint32(0x4008), c.Regs.GetReg(0))
}

func TestExecuteThumbSWIEntersSupervisorMode(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4
	c.Regs.PC = 4

	flush := c.executeThumb(2, 0xDFAA) // SWI #0xAA
	assert.True(t, flush)
	assert.Equal(t, uint8(SVCMode), c.Regs.GetMode())
	assert.Equal(t, uint32(0x08), c.Regs.PC)
}

func TestExecuteThumbLongBranchLinkFirstHalfStashesLR(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4

	flush := c.executeThumb(0, 0xF010) // BL first half, offset11=0x10
	assert.False(t, flush)
	assert.Equal(t, uint32(4+(0x10<<12)), c.Regs.GetReg(14))
}

func TestExecuteThumbLongBranchLinkSecondHalfComputesTargetAndSetsLR(t *testing.T) {
	c := newTestCPU()
	c.pcOperand = 4
	c.Regs.SetReg(14, 0x1000)

	flush := c.executeThumb(0, 0xF820) // BL second half, offset11=0x20
	assert.True(t, flush)
	assert.Equal(t, uint32(0x1000+(0x20<<1)), c.Regs.PC)
	assert.Equal(t, uint32(3), c.Regs.GetReg(14)) // pcOperand-2 = 2, odd-marked
}
