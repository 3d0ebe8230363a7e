package disasm

import "fmt"

var thumbALUMnemonics = [16]string{
	"AND", "EOR", "LSL", "LSR", "ASR", "ADC", "SBC", "ROR",
	"TST", "NEG", "CMP", "CMN", "ORR", "MUL", "BIC", "MVN",
}

var thumbCondNames = [16]string{
	"EQ", "NE", "CS", "CC", "MI", "PL", "VS", "VC",
	"HI", "LS", "GE", "LT", "GT", "LE", "AL", "",
}

// THUMB disassembles one 16-bit THUMB instruction word into a mnemonic
// string.
func THUMB(instr uint16) string {
	switch {
	case instr&0xF800 == 0xF000: // format 19, first halfword (H=0)
		offset := int32(instr&0x7FF) << 21 >> 21
		return fmt.Sprintf("BL #hi(%#x)", offset<<12)
	case instr&0xF800 == 0xF800: // format 19, second halfword (H=1)
		return fmt.Sprintf("BL #lo(%#x)", uint32(instr&0x7FF)<<1)

	case instr&0xFF00 == 0xDF00:
		return fmt.Sprintf("SWI #%#x", instr&0xFF)

	case instr&0xF800 == 0xE000:
		offset := int32(instr&0x7FF) << 21 >> 21
		return fmt.Sprintf("B #%d", offset*2+4)

	case instr&0xF000 == 0xD000:
		cond := thumbCondNames[instr>>8&0xF]
		offset := int32(int8(instr & 0xFF))
		return fmt.Sprintf("B%s #%d", cond, offset*2+4)

	case instr&0xF000 == 0xC000:
		op := "LDMIA"
		if instr&(1<<11) == 0 {
			op = "STMIA"
		}
		return fmt.Sprintf("%s r%d!, {%#04x}", op, instr>>8&0x7, instr&0xFF)

	case instr&0xF600 == 0xB400:
		op := "PUSH"
		if instr&(1<<11) != 0 {
			op = "POP"
		}
		return fmt.Sprintf("%s {%#04x}", op, instr&0xFF)

	case instr&0xFF00 == 0xB000:
		sign := ""
		if instr&(1<<7) != 0 {
			sign = "-"
		}
		return fmt.Sprintf("ADD sp, #%s%d", sign, (instr&0x7F)*4)

	case instr&0xF000 == 0xA000:
		src := "pc"
		if instr&(1<<11) != 0 {
			src = "sp"
		}
		return fmt.Sprintf("ADD r%d, %s, #%d", instr>>8&0x7, src, (instr&0xFF)*4)

	case instr&0xF000 == 0x9000:
		op := "STR"
		if instr&(1<<11) != 0 {
			op = "LDR"
		}
		return fmt.Sprintf("%s r%d, [sp, #%d]", op, instr>>8&0x7, (instr&0xFF)*4)

	case instr&0xF000 == 0x8000:
		op := "STRH"
		if instr&(1<<11) != 0 {
			op = "LDRH"
		}
		return fmt.Sprintf("%s r%d, [r%d, #%d]", op, instr&0x7, instr>>3&0x7, (instr>>6&0x1F)*2)

	case instr&0xE000 == 0x6000:
		byteXfer := instr&(1<<12) != 0
		load := instr&(1<<11) != 0
		op := "STR"
		if byteXfer {
			op = "STRB"
		}
		if load {
			op = "LDR"
			if byteXfer {
				op = "LDRB"
			}
		}
		return fmt.Sprintf("%s r%d, [r%d, #%d]", op, instr&0x7, instr>>3&0x7, instr>>6&0x1F)

	case instr&0xF200 == 0x5200:
		mnemonics := [4]string{"STRH", "LDSB", "LDRH", "LDSH"}
		return fmt.Sprintf("%s r%d, [r%d, r%d]", mnemonics[instr>>10&0x3], instr&0x7, instr>>3&0x7, instr>>6&0x7)

	case instr&0xF200 == 0x5000:
		op := "STR"
		if instr&(1<<11) != 0 {
			op = "LDR"
		}
		if instr&(1<<10) != 0 {
			op += "B"
		}
		return fmt.Sprintf("%s r%d, [r%d, r%d]", op, instr&0x7, instr>>3&0x7, instr>>6&0x7)

	case instr&0xF800 == 0x4800:
		return fmt.Sprintf("LDR r%d, [pc, #%d]", instr>>8&0x7, (instr&0xFF)*4)

	case instr&0xFC00 == 0x4400:
		op := thumbHiOp(instr >> 8 & 0x3)
		rd := instr&0x7 | (instr>>4&0x8)
		rs := instr >> 3 & 0xF
		return fmt.Sprintf("%s r%d, r%d", op, rd, rs)

	case instr&0xFC00 == 0x4000:
		return fmt.Sprintf("%s r%d, r%d", thumbALUMnemonics[instr>>6&0xF], instr&0x7, instr>>3&0x7)

	case instr&0xE000 == 0x2000:
		ops := [4]string{"MOV", "CMP", "ADD", "SUB"}
		return fmt.Sprintf("%s r%d, #%d", ops[instr>>11&0x3], instr>>8&0x7, instr&0xFF)

	case instr&0xF800 == 0x1800:
		op := "ADD"
		if instr&(1<<9) != 0 {
			op = "SUB"
		}
		operand := fmt.Sprintf("r%d", instr>>6&0x7)
		if instr&(1<<10) != 0 {
			operand = fmt.Sprintf("#%d", instr>>6&0x7)
		}
		return fmt.Sprintf("%s r%d, r%d, %s", op, instr&0x7, instr>>3&0x7, operand)

	case instr&0xE000 == 0x0000:
		ops := [3]string{"LSL", "LSR", "ASR"}
		return fmt.Sprintf("%s r%d, r%d, #%d", ops[instr>>11&0x3], instr&0x7, instr>>3&0x7, instr>>6&0x1F)

	default:
		return fmt.Sprintf("UNDEFINED %#04x", instr)
	}
}

func thumbHiOp(op uint16) string {
	switch op {
	case 0:
		return "ADD"
	case 1:
		return "CMP"
	case 2:
		return "MOV"
	default:
		return "BX"
	}
}
