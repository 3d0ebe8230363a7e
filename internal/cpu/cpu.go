// Package cpu implements the ARM7TDMI core: register file, 2-stage
// pipeline, ARM and THUMB decode/execute, and exception entry.
package cpu

import (
	"gbacore/internal/bus"
	"gbacore/internal/scheduler"
	"gbacore/internal/syscontrol"
)

// CPU owns the register file, the fetch pipeline, and the wiring to the bus
// and scheduler every instruction bills its cycles through.
type CPU struct {
	Regs *Registers

	bus   bus.Bus
	sched *scheduler.Scheduler
	irqs  *syscontrol.Controller

	pipe pipeline

	// stepCycles accumulates the cost of every bus access made during the
	// Step currently in progress; it is billed into the scheduler once,
	// at the end of Step, and billed into the scheduler before proceeding.
	stepCycles uint64

	// pcOperand is r15's value as read by an instruction operand during
	// the execute call in progress: the executing instruction's address
	// plus two instruction-widths, per the ARM7TDMI's convention that PC
	// reads 8 bytes ahead in ARM state, 4 ahead in THUMB.
	pcOperand uint32

	breakpoints  map[uint32]struct{}
	onBreakpoint func(addr uint32)
}

// New builds a CPU wired to bus and sched for cycle billing and irqs for
// interrupt/halt polling. Call Reset before the first Step.
func New(b bus.Bus, sched *scheduler.Scheduler, irqs *syscontrol.Controller) *CPU {
	return &CPU{
		bus:         b,
		sched:       sched,
		irqs:        irqs,
		breakpoints: make(map[uint32]struct{}),
	}
}

// Reset puts the register file in its post-reset state and starts fetching
// from entryPC (the BIOS reset vector in normal operation).
func (c *CPU) Reset(entryPC uint32) {
	c.Regs = NewRegisters()
	c.Regs.PC = entryPC
	c.pipe.flush()
}

// PC satisfies bus.cpuPCProvider so the bus can gate BIOS open-bus reads on
// whether the CPU is currently executing inside the BIOS region.
func (c *CPU) PC() uint32 { return c.Regs.PC }

// AddBreakpoint arms a breakpoint at addr. OnBreakpoint fires when Step is
// about to execute the instruction fetched at that address.
func (c *CPU) AddBreakpoint(addr uint32) { c.breakpoints[addr] = struct{}{} }

// RemoveBreakpoint disarms a previously added breakpoint.
func (c *CPU) RemoveBreakpoint(addr uint32) { delete(c.breakpoints, addr) }

// OnBreakpoint registers the callback Step invokes when the instruction it
// is about to execute matches an armed breakpoint.
func (c *CPU) OnBreakpoint(fn func(addr uint32)) { c.onBreakpoint = fn }

// Step runs one iteration of the fetch/execute loop:
//
//  1. If an IRQ is pending and CPSR.I permits it, take the exception
//     instead of fetching, and return.
//  2. Fetch the instruction at PC into the pipeline, billing the bus's
//     read cost.
//  3. If the pipeline is now full, pop the oldest (address, instruction)
//     pair and decode/execute it.
//  4. If execution flushed the pipeline (a taken branch, mode entry, or
//     state switch), drop both slots; otherwise advance PC by the
//     instruction width just fetched.
//
// Breakpoints are checked against the address about to be popped and
// executed, not against the raw PC, since the pipeline is two fetches
// ahead of whatever instruction is really retiring this Step.
func (c *CPU) Step() {
	if c.irqs.Halted() {
		c.sched.FireNextEvent()
		return
	}

	c.stepCycles = 0

	if c.irqs.ConsumeIRQLine(c.Regs.IsIRQDisabled()) {
		c.enterIRQ()
		c.sched.Step(c.stepCycles)
		return
	}

	checkAddr := c.Regs.PC
	if c.pipe.count > 0 {
		checkAddr = c.pipe.addr[0]
	}
	if c.onBreakpoint != nil {
		if _, hit := c.breakpoints[checkAddr]; hit {
			c.onBreakpoint(checkAddr)
		}
	}

	thumb := c.Regs.IsThumb()
	width := uint32(4)
	if thumb {
		width = 2
	}

	fetchAddr := c.Regs.PC
	var word uint32
	if thumb {
		word = c.busRead(fetchAddr, bus.Half)
	} else {
		word = c.busRead(fetchAddr, bus.Word)
	}
	c.pipe.push(fetchAddr, word)

	if c.pipe.full() {
		addr, instr := c.pipe.popOldest()
		c.pcOperand = addr + 2*width

		var flush bool
		if thumb {
			flush = c.executeThumb(addr, instr)
		} else {
			flush = c.executeARM(addr, instr)
		}

		if flush {
			c.pipe.flush()
		} else {
			c.Regs.PC = fetchAddr + width
		}
	} else {
		c.Regs.PC = fetchAddr + width
	}

	c.sched.Step(c.stepCycles)
}

// enterIRQ performs IRQ exception entry: bank
// into IRQ mode, force ARM state, save the resume address and CPSR, mask
// further IRQs, and vector to 0x18.
func (c *CPU) enterIRQ() {
	lr := c.Regs.PC + 4
	spsr := c.Regs.CPSR

	c.Regs.SetMode(IRQMode)
	c.Regs.SetThumbState(false)
	c.Regs.SetIRQDisabled(true)
	c.Regs.SetSPSR(spsr)
	c.Regs.SetReg(14, lr)
	c.Regs.PC = 0x18
	c.pipe.flush()
}

// enterUndefined handles the undefined-instruction exception an
// unrecognized ARM or THUMB encoding raises: bank into Undefined mode,
// force ARM state, save the return address, and vector to 0x04.
func (c *CPU) enterUndefined(instrAddr uint32, instrWidth uint32) {
	lr := instrAddr + instrWidth
	spsr := c.Regs.CPSR

	c.Regs.SetMode(UNDMode)
	c.Regs.SetThumbState(false)
	c.Regs.SetIRQDisabled(true)
	c.Regs.SetSPSR(spsr)
	c.Regs.SetReg(14, lr)
	c.Regs.PC = 0x04
}

// enterSWI handles the software-interrupt exception: bank into
// Supervisor mode, force ARM state,
// save the return address, and vector to 0x08.
func (c *CPU) enterSWI(instrAddr uint32, instrWidth uint32) {
	lr := instrAddr + instrWidth
	spsr := c.Regs.CPSR

	c.Regs.SetMode(SVCMode)
	c.Regs.SetThumbState(false)
	c.Regs.SetIRQDisabled(true)
	c.Regs.SetSPSR(spsr)
	c.Regs.SetReg(14, lr)
	c.Regs.PC = 0x08
}

func (c *CPU) busRead(addr uint32, width bus.Width) uint32 {
	v, cycles, _ := c.bus.Read(addr, width)
	c.stepCycles += uint64(cycles)
	return v
}

func (c *CPU) busWrite(addr uint32, value uint32, width bus.Width) {
	cycles := c.bus.Write(addr, value, width)
	c.stepCycles += uint64(cycles)
}

// readReg returns the value a decoded operand field referring to register n
// should see, applying the pipeline's PC read-ahead convention for r15.
func (c *CPU) readReg(n uint8) uint32 {
	if n == 15 {
		return c.pcOperand
	}
	return c.Regs.GetReg(n)
}

// writeReg performs a general-purpose register write; n==15 forces the
// alignment the current instruction set requires and reports that the
// pipeline must flush.
func (c *CPU) writeReg(n uint8, v uint32) (flush bool) {
	if n != 15 {
		c.Regs.SetReg(n, v)
		return false
	}
	if c.Regs.IsThumb() {
		c.Regs.PC = v &^ 1
	} else {
		c.Regs.PC = v &^ 3
	}
	return true
}

// branchExchange implements BX's address-bit-0 state switch: bit 0 of v
// selects THUMB (1) or ARM (0) state for the branch target.
func (c *CPU) branchExchange(v uint32) {
	thumb := v&1 != 0
	c.Regs.SetThumbState(thumb)
	if thumb {
		c.Regs.PC = v &^ 1
	} else {
		c.Regs.PC = v &^ 3
	}
}
