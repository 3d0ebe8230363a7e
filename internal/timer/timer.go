// Package timer implements the GBA's four 16-bit timers. Rather than tick
// a counter once per CPU cycle, each running timer schedules a single
// overflow event with the scheduler and recomputes its counter value
// on demand from elapsed cycles, matching the event-driven model the rest
// of the core uses.
package timer

import (
	"gbacore/internal/scheduler"
	"gbacore/internal/syscontrol"
)

var prescalerCycles = [4]uint64{1, 64, 256, 1024}

var overflowKinds = [4]scheduler.Kind{
	scheduler.Timer0Overflow,
	scheduler.Timer1Overflow,
	scheduler.Timer2Overflow,
	scheduler.Timer3Overflow,
}

var irqSources = [4]syscontrol.IRQSource{
	syscontrol.IRQTimer0,
	syscontrol.IRQTimer1,
	syscontrol.IRQTimer2,
	syscontrol.IRQTimer3,
}

// FIFORefiller is implemented by the APU so timer overflow can drive its
// two DMA sample FIFOs.
type FIFORefiller interface {
	OnTimerOverflow(timerIndex int)
}

type timerState struct {
	reload  uint16
	control uint16 // bit0-1 prescaler, bit2 cascade, bit6 irq enable, bit7 start

	runningSinceCycle uint64
	counterAtStart    uint16
}

func (t *timerState) prescaler() uint64  { return prescalerCycles[t.control&0x3] }
func (t *timerState) cascade() bool      { return t.control&(1<<2) != 0 }
func (t *timerState) irqEnabled() bool   { return t.control&(1<<6) != 0 }
func (t *timerState) running() bool      { return t.control&(1<<7) != 0 }

// Controller owns all four timers and their scheduler/IRQ wiring.
type Controller struct {
	timers [4]timerState
	sched  *scheduler.Scheduler
	irqs   *syscontrol.Controller
	apu    FIFORefiller
}

func New(sched *scheduler.Scheduler, irqs *syscontrol.Controller) *Controller {
	c := &Controller{sched: sched, irqs: irqs}
	for i := 0; i < 4; i++ {
		idx := i
		sched.Register(overflowKinds[idx], func(extraCycles uint64) { c.onOverflow(idx, extraCycles) })
	}
	return c
}

// AttachAPU wires the FIFO refill hook; called once during container setup.
func (c *Controller) AttachAPU(apu FIFORefiller) { c.apu = apu }

// counterNow computes a running timer's live counter value without
// needing a per-cycle tick, per the scheduler-event model.
func (c *Controller) counterNow(i int) uint16 {
	t := &c.timers[i]
	if !t.running() || t.cascade() {
		return t.counterAtStart
	}
	elapsed := (c.sched.Now() - t.runningSinceCycle) / t.prescaler()
	return t.counterAtStart + uint16(elapsed)
}

func (c *Controller) ReadCounter(i int) uint16 { return c.counterNow(i) }
func (c *Controller) ReadControl(i int) uint16 { return c.timers[i].control }

func (c *Controller) WriteReload(i int, v uint16) { c.timers[i].reload = v }

// WriteControl applies a TMxCNT_H write, starting/stopping the timer and
// (re)scheduling its overflow event.
func (c *Controller) WriteControl(i int, v uint16) {
	t := &c.timers[i]
	wasRunning := t.running()
	t.control = v

	if !t.running() {
		if wasRunning {
			c.sched.Unschedule(overflowKinds[i])
		}
		return
	}

	if !wasRunning {
		t.counterAtStart = t.reload
	} else {
		t.counterAtStart = c.counterNow(i)
	}
	t.runningSinceCycle = c.sched.Now()

	if !t.cascade() {
		c.scheduleOverflow(i)
	} else {
		c.sched.Unschedule(overflowKinds[i])
	}
}

func (c *Controller) scheduleOverflow(i int) {
	t := &c.timers[i]
	remaining := uint64(0x10000-uint32(t.counterAtStart)) * t.prescaler()
	c.sched.Schedule(overflowKinds[i], remaining)
}

func (c *Controller) onOverflow(i int, extraCycles uint64) {
	t := &c.timers[i]
	t.counterAtStart = t.reload
	t.runningSinceCycle = c.sched.Now() - extraCycles

	if t.irqEnabled() {
		c.irqs.RequestInterrupt(irqSources[i])
	}
	if c.apu != nil {
		c.apu.OnTimerOverflow(i)
	}

	if !t.cascade() {
		c.scheduleOverflow(i)
	}

	if i+1 < 4 && c.timers[i+1].running() && c.timers[i+1].cascade() {
		c.cascadeIncrement(i + 1)
	}
}

// cascadeIncrement handles a cascade-mode timer whose predecessor just
// overflowed: its counter increments by one, potentially cascading
// further down the chain.
func (c *Controller) cascadeIncrement(i int) {
	t := &c.timers[i]
	t.counterAtStart++
	if t.counterAtStart == 0 {
		c.onOverflow(i, 0)
	}
}
