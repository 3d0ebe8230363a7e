package cpu

import (
	"fmt"
	"log/slog"
)

// ARM7TDMI CPU operating modes (CPSR bits 4:0).
const (
	USRMode = 0b10000 // User mode
	FIQMode = 0b10001 // FIQ mode (Fast Interrupt Request)
	IRQMode = 0b10010 // IRQ mode (Interrupt Request)
	SVCMode = 0b10011 // Supervisor mode
	ABTMode = 0b10111 // Abort mode
	UNDMode = 0b11011 // Undefined instruction mode
	SYSMode = 0b11111 // System mode (shares User mode registers)
)

// CPSR flag bit positions.
const (
	flagT = 5  // Thumb state
	flagF = 6  // FIQ disable
	flagI = 7  // IRQ disable
	flagV = 28 // Overflow
	flagC = 29 // Carry
	flagZ = 30 // Zero
	flagN = 31 // Negative
)

// Registers holds the full ARM7TDMI register file: r0-r15, CPSR, and one
// bank of (r13, r14, SPSR) per non-User mode plus FIQ's extra r8-r12 bank.
//
// Rather than model banking as "copy live registers out on mode switch",
// each bank is a distinct physical field and GetReg/SetReg dispatch to the
// bank matching the mode currently live in CPSR. This is observably
// identical to the hardware's register-renaming: banked register state
// for mode M reflects the values current when mode M was
// last active") without needing an explicit copy step on every transition.
type Registers struct {
	R [13]uint32 // r0-r12 for every non-FIQ mode

	SPUsr, LRUsr uint32
	SPSvc, LRSvc uint32
	SPAbt, LRAbt uint32
	SPUnd, LRUnd uint32
	SPIrq, LRIrq uint32

	R8Fiq, R9Fiq, R10Fiq, R11Fiq, R12Fiq uint32
	SPFiq, LRFiq                         uint32

	PC   uint32
	CPSR uint32

	SPSRSvc, SPSRAbt, SPSRUnd, SPSRIrq, SPSRFiq uint32
}

// NewRegisters creates a register file in the CPU's post-reset state:
// Supervisor mode, ARM state, IRQ and FIQ disabled, PC at the BIOS reset
// vector. Flags start clear.
func NewRegisters() *Registers {
	r := &Registers{}
	r.CPSR = uint32(SVCMode) | (1 << flagF) | (1 << flagI)
	return r
}

// GetMode returns the current CPU operating mode (CPSR bits 4:0).
func (r *Registers) GetMode() uint8 {
	return uint8(r.CPSR & 0x1F)
}

// SetMode rewrites the CPSR mode bits, switching which banked registers
// GetReg/SetReg resolve to. It does not touch any flag or state bit.
func (r *Registers) SetMode(mode uint8) {
	r.CPSR = (r.CPSR &^ 0x1F) | uint32(mode&0x1F)
}

// GetReg reads a logical register 0-15 for the current mode. R15 returns the
// raw PC (the CPU layer is responsible for applying the pipeline's +8/+4
// read-ahead convention when an instruction operand reads PC).
func (r *Registers) GetReg(regNum uint8) uint32 {
	if regNum > 15 {
		panic(fmt.Sprintf("cpu: read from undefined register r%d", regNum))
	}
	if regNum == 15 {
		return r.PC
	}

	mode := r.GetMode()
	if mode == FIQMode {
		switch regNum {
		case 8:
			return r.R8Fiq
		case 9:
			return r.R9Fiq
		case 10:
			return r.R10Fiq
		case 11:
			return r.R11Fiq
		case 12:
			return r.R12Fiq
		case 13:
			return r.SPFiq
		case 14:
			return r.LRFiq
		}
	}

	switch regNum {
	case 13:
		return r.bankedSP(mode)
	case 14:
		return r.bankedLR(mode)
	default:
		return r.R[regNum]
	}
}

// SetReg writes a logical register 0-15 for the current mode. Writing R15
// performs a raw PC assignment; alignment-forcing and pipeline-flushing are
// the CPU layer's responsibility: writes to PC force word-alignment in
// ARM, halfword-alignment in THUMB, and flush the pipeline.
func (r *Registers) SetReg(regNum uint8, value uint32) {
	if regNum > 15 {
		panic(fmt.Sprintf("cpu: write to undefined register r%d", regNum))
	}
	if regNum == 15 {
		r.PC = value
		return
	}

	mode := r.GetMode()
	if mode == FIQMode {
		switch regNum {
		case 8:
			r.R8Fiq = value
			return
		case 9:
			r.R9Fiq = value
			return
		case 10:
			r.R10Fiq = value
			return
		case 11:
			r.R11Fiq = value
			return
		case 12:
			r.R12Fiq = value
			return
		case 13:
			r.SPFiq = value
			return
		case 14:
			r.LRFiq = value
			return
		}
	}

	switch regNum {
	case 13:
		r.setBankedSP(mode, value)
	case 14:
		r.setBankedLR(mode, value)
	default:
		r.R[regNum] = value
	}
}

func (r *Registers) bankedSP(mode uint8) uint32 {
	switch mode {
	case USRMode, SYSMode:
		return r.SPUsr
	case SVCMode:
		return r.SPSvc
	case ABTMode:
		return r.SPAbt
	case UNDMode:
		return r.SPUnd
	case IRQMode:
		return r.SPIrq
	default:
		slog.Warn("cpu: GetReg(r13) in unknown mode", "mode", fmt.Sprintf("%#x", mode))
		return r.SPUsr
	}
}

func (r *Registers) setBankedSP(mode uint8, value uint32) {
	switch mode {
	case USRMode, SYSMode:
		r.SPUsr = value
	case SVCMode:
		r.SPSvc = value
	case ABTMode:
		r.SPAbt = value
	case UNDMode:
		r.SPUnd = value
	case IRQMode:
		r.SPIrq = value
	default:
		slog.Warn("cpu: SetReg(r13) in unknown mode", "mode", fmt.Sprintf("%#x", mode))
		r.SPUsr = value
	}
}

func (r *Registers) bankedLR(mode uint8) uint32 {
	switch mode {
	case USRMode, SYSMode:
		return r.LRUsr
	case SVCMode:
		return r.LRSvc
	case ABTMode:
		return r.LRAbt
	case UNDMode:
		return r.LRUnd
	case IRQMode:
		return r.LRIrq
	default:
		slog.Warn("cpu: GetReg(r14) in unknown mode", "mode", fmt.Sprintf("%#x", mode))
		return r.LRUsr
	}
}

func (r *Registers) setBankedLR(mode uint8, value uint32) {
	switch mode {
	case USRMode, SYSMode:
		r.LRUsr = value
	case SVCMode:
		r.LRSvc = value
	case ABTMode:
		r.LRAbt = value
	case UNDMode:
		r.LRUnd = value
	case IRQMode:
		r.LRIrq = value
	default:
		slog.Warn("cpu: SetReg(r14) in unknown mode", "mode", fmt.Sprintf("%#x", mode))
		r.LRUsr = value
	}
}

// GetSPSR returns the SPSR bank for the current mode. USR/SYS have no SPSR;
// GBATEK calls reading it there unpredictable, so it returns 0.
func (r *Registers) GetSPSR() uint32 {
	switch r.GetMode() {
	case FIQMode:
		return r.SPSRFiq
	case SVCMode:
		return r.SPSRSvc
	case ABTMode:
		return r.SPSRAbt
	case IRQMode:
		return r.SPSRIrq
	case UNDMode:
		return r.SPSRUnd
	default:
		return 0
	}
}

// SetSPSR writes the SPSR bank for the current mode. A no-op in USR/SYS mode.
func (r *Registers) SetSPSR(value uint32) {
	switch r.GetMode() {
	case FIQMode:
		r.SPSRFiq = value
	case SVCMode:
		r.SPSRSvc = value
	case ABTMode:
		r.SPSRAbt = value
	case IRQMode:
		r.SPSRIrq = value
	case UNDMode:
		r.SPSRUnd = value
	}
}

// IsThumb reports whether CPSR.T selects THUMB state.
func (r *Registers) IsThumb() bool { return (r.CPSR>>flagT)&1 == 1 }

// SetThumbState writes CPSR.T.
func (r *Registers) SetThumbState(thumb bool) { r.setFlagBit(flagT, thumb) }

// IsFIQDisabled reports whether CPSR.F is set.
func (r *Registers) IsFIQDisabled() bool { return (r.CPSR>>flagF)&1 == 1 }

// SetFIQDisabled writes CPSR.F.
func (r *Registers) SetFIQDisabled(disabled bool) { r.setFlagBit(flagF, disabled) }

// IsIRQDisabled reports whether CPSR.I is set.
func (r *Registers) IsIRQDisabled() bool { return (r.CPSR>>flagI)&1 == 1 }

// SetIRQDisabled writes CPSR.I.
func (r *Registers) SetIRQDisabled(disabled bool) { r.setFlagBit(flagI, disabled) }

// GetFlagN returns the Negative flag.
func (r *Registers) GetFlagN() bool { return (r.CPSR>>flagN)&1 == 1 }

// GetFlagZ returns the Zero flag.
func (r *Registers) GetFlagZ() bool { return (r.CPSR>>flagZ)&1 == 1 }

// GetFlagC returns the Carry flag.
func (r *Registers) GetFlagC() bool { return (r.CPSR>>flagC)&1 == 1 }

// GetFlagV returns the Overflow flag.
func (r *Registers) GetFlagV() bool { return (r.CPSR>>flagV)&1 == 1 }

// SetFlagN writes the Negative flag.
func (r *Registers) SetFlagN(set bool) { r.setFlagBit(flagN, set) }

// SetFlagZ writes the Zero flag.
func (r *Registers) SetFlagZ(set bool) { r.setFlagBit(flagZ, set) }

// SetFlagC writes the Carry flag.
func (r *Registers) SetFlagC(set bool) { r.setFlagBit(flagC, set) }

// SetFlagV writes the Overflow flag.
func (r *Registers) SetFlagV(set bool) { r.setFlagBit(flagV, set) }

func (r *Registers) setFlagBit(bit uint, set bool) {
	if set {
		r.CPSR |= 1 << bit
	} else {
		r.CPSR &^= 1 << bit
	}
}

// String renders the register file for the debug surface and trace logs.
func (r *Registers) String() string {
	modeStr := modeName(r.GetMode())
	state := "ARM"
	if r.IsThumb() {
		state = "THUMB"
	}
	return fmt.Sprintf(
		"R0 =%08X R1 =%08X R2 =%08X R3 =%08X\n"+
			"R4 =%08X R5 =%08X R6 =%08X R7 =%08X\n"+
			"R8 =%08X R9 =%08X R10=%08X R11=%08X\n"+
			"R12=%08X SP =%08X LR =%08X PC =%08X\n"+
			"CPSR=%08X (%s %s N:%t Z:%t C:%t V:%t I:%t F:%t) SPSR=%08X",
		r.GetReg(0), r.GetReg(1), r.GetReg(2), r.GetReg(3),
		r.GetReg(4), r.GetReg(5), r.GetReg(6), r.GetReg(7),
		r.GetReg(8), r.GetReg(9), r.GetReg(10), r.GetReg(11),
		r.GetReg(12), r.GetReg(13), r.GetReg(14), r.GetReg(15),
		r.CPSR, modeStr, state,
		r.GetFlagN(), r.GetFlagZ(), r.GetFlagC(), r.GetFlagV(),
		r.IsIRQDisabled(), r.IsFIQDisabled(), r.GetSPSR(),
	)
}

func modeName(mode uint8) string {
	switch mode {
	case USRMode:
		return "USR"
	case FIQMode:
		return "FIQ"
	case IRQMode:
		return "IRQ"
	case SVCMode:
		return "SVC"
	case ABTMode:
		return "ABT"
	case UNDMode:
		return "UND"
	case SYSMode:
		return "SYS"
	default:
		return fmt.Sprintf("?%02X?", mode)
	}
}
