// Package disasm renders raw ARM and THUMB instruction words into
// human-readable mnemonics for the debug surface's disassemble_arm and
// disassemble_thumb operations. It decodes independently of package cpu's
// execute path; correctness here only needs to match what a debugger
// displays, not bit-exact execution.
package disasm

import (
	"fmt"

	"gbacore/internal/cpu"
)

var condNames = [16]string{
	"EQ", "NE", "CS", "CC", "MI", "PL", "VS", "VC",
	"HI", "LS", "GE", "LT", "GT", "LE", "", "NV",
}

func condName(instr uint32) string {
	return condNames[instr>>28&0xF]
}

var dpMnemonics = [16]string{
	"AND", "EOR", "SUB", "RSB", "ADD", "ADC", "SBC", "RSC",
	"TST", "TEQ", "CMP", "CMN", "ORR", "MOV", "BIC", "MVN",
}

var shiftMnemonics = [4]string{"LSL", "LSR", "ASR", "ROR"}

// ARM disassembles one 32-bit ARM instruction word into a mnemonic string.
func ARM(instr uint32) string {
	cond := condName(instr)

	switch {
	case instr&0x0FFFFFF0 == 0x012FFF10:
		return fmt.Sprintf("BX%s r%d", cond, instr&0xF)

	case instr&0x0E000000 == 0x0A000000:
		offset := int32(instr&0xFFFFFF) << 8 >> 8
		op := "B"
		if instr&(1<<24) != 0 {
			op = "BL"
		}
		return fmt.Sprintf("%s%s #%d", op, cond, offset*4+8)

	case instr&0x0F000000 == 0x0F000000:
		return fmt.Sprintf("SWI%s #%#x", cond, instr&0xFFFFFF)

	case instr&0x0FBF0FFF == 0x010F0000:
		psr := "CPSR"
		if instr&(1<<22) != 0 {
			psr = "SPSR"
		}
		return fmt.Sprintf("MRS%s r%d, %s", cond, instr>>12&0xF, psr)

	case instr&0x0FB00000 == 0x03200000 || instr&0x0FB000F0 == 0x01200000:
		psr := "CPSR"
		if instr&(1<<22) != 0 {
			psr = "SPSR"
		}
		return fmt.Sprintf("MSR%s %s", cond, psr)

	case instr&0x0FC000F0 == 0x00000090:
		op := "MUL"
		if instr&(1<<21) != 0 {
			op = "MLA"
		}
		s := ""
		if instr&(1<<20) != 0 {
			s = "S"
		}
		return fmt.Sprintf("%s%s%s r%d, r%d, r%d", op, s, cond, instr>>16&0xF, instr&0xF, instr>>8&0xF)

	case instr&0x0F8000F0 == 0x00800090:
		op := "UMULL"
		switch instr >> 21 & 0x3 {
		case 1:
			op = "UMLAL"
		case 2:
			op = "SMULL"
		case 3:
			op = "SMLAL"
		}
		return fmt.Sprintf("%s%s rdlo=r%d, rdhi=r%d, r%d, r%d", op, cond, instr>>12&0xF, instr>>16&0xF, instr&0xF, instr>>8&0xF)

	case instr&0x0FB00FF0 == 0x01000090:
		op := "SWP"
		if instr&(1<<22) != 0 {
			op = "SWPB"
		}
		return fmt.Sprintf("%s%s r%d, r%d, [r%d]", op, cond, instr>>12&0xF, instr&0xF, instr>>16&0xF)

	case instr&0x0E000090 == 0x00000090 && instr&0x60 != 0:
		return disassembleHalfword(instr, cond)

	case instr&0x0C000000 == 0x04000000:
		return disassembleSingleTransfer(instr, cond)

	case instr&0x0E000000 == 0x08000000:
		return disassembleBlockTransfer(instr, cond)

	case instr&0x0C000000 == 0x00000000:
		return disassembleDataProcessing(instr, cond)

	default:
		return fmt.Sprintf("UNDEFINED%s %#08x", cond, instr)
	}
}

func disassembleDataProcessing(instr uint32, cond string) string {
	opcode := dpMnemonics[instr>>21&0xF]
	s := ""
	if instr&(1<<20) != 0 {
		s = "S"
	}
	rd := instr >> 12 & 0xF
	rn := instr >> 16 & 0xF
	op2 := operand2String(instr)

	switch cpu.ARMDataProcessingOperation(instr >> 21 & 0xF) {
	case cpu.MOV, cpu.MVN:
		return fmt.Sprintf("%s%s%s r%d, %s", opcode, s, cond, rd, op2)
	case cpu.CMP, cpu.CMN, cpu.TST, cpu.TEQ:
		return fmt.Sprintf("%s%s r%d, %s", opcode, cond, rn, op2)
	default:
		return fmt.Sprintf("%s%s%s r%d, r%d, %s", opcode, s, cond, rd, rn, op2)
	}
}

func operand2String(instr uint32) string {
	if instr&(1<<25) != 0 {
		imm := instr & 0xFF
		rot := (instr >> 8 & 0xF) * 2
		value := imm>>rot | imm<<(32-rot)
		return fmt.Sprintf("#%#x", value)
	}
	rm := instr & 0xF
	shiftType := shiftMnemonics[instr>>5&0x3]
	if instr&(1<<4) != 0 {
		return fmt.Sprintf("r%d, %s r%d", rm, shiftType, instr>>8&0xF)
	}
	amount := instr >> 7 & 0x1F
	return fmt.Sprintf("r%d, %s #%d", rm, shiftType, amount)
}

func disassembleSingleTransfer(instr uint32, cond string) string {
	op := "LDR"
	if instr&(1<<20) == 0 {
		op = "STR"
	}
	if instr&(1<<22) != 0 {
		op += "B"
	}
	rd := instr >> 12 & 0xF
	rn := instr >> 16 & 0xF
	return fmt.Sprintf("%s%s r%d, [r%d, ...]", op, cond, rd, rn)
}

func disassembleHalfword(instr uint32, cond string) string {
	op := "LDR"
	if instr&(1<<20) == 0 {
		op = "STR"
	}
	sh := instr >> 5 & 0x3
	switch sh {
	case 1:
		op += "H"
	case 2:
		op += "SB"
	case 3:
		op += "SH"
	}
	rd := instr >> 12 & 0xF
	rn := instr >> 16 & 0xF
	return fmt.Sprintf("%s%s r%d, [r%d, ...]", op, cond, rd, rn)
}

func disassembleBlockTransfer(instr uint32, cond string) string {
	op := "LDM"
	if instr&(1<<20) == 0 {
		op = "STM"
	}
	rn := instr >> 16 & 0xF
	return fmt.Sprintf("%s%s r%d, {%#04x}", op, cond, rn, instr&0xFFFF)
}
