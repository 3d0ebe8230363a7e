// Package apu implements the four PSG channels, two DMA sample FIFOs, and
// the 32768 Hz mixer. Every channel clocks itself via scheduler events
// rather than being stepped per-cycle.
package apu

import (
	"gbacore/internal/clock"
	"gbacore/internal/ringbuffer"
	"gbacore/internal/scheduler"
)

const sampleBufferCapacity = 32768 * 22 / 1000 * 4 // ~22ms of stereo samples, headroom factor

// DMARequester is implemented by *dma.Controller; FIFO underrun requests a
// refill by address the way real DMA1/2 FIFO-timing channels watch for.
type DMARequester interface {
	RequestFIFORefill(fifoAddr uint32)
}

// APU owns the four PSG channels, two FIFOs, and the mixer ring buffer the
// consumer surface drains via fill_audio_buffer().
type APU struct {
	ch1 squareChannel
	ch2 squareChannel
	ch3 waveChannel
	ch4 noiseChannel

	fifoA, fifoB fifo

	soundcntL               soundcntLReg
	soundcntH, soundcntX    uint16

	sched *scheduler.Scheduler
	clock *clock.Manager
	dma   DMARequester

	ring *ringbuffer.SPSC[stereoSample]
}

type stereoSample struct{ L, R float32 }

func New(sched *scheduler.Scheduler, clk *clock.Manager) *APU {
	a := &APU{sched: sched, clock: clk, ring: ringbuffer.New[stereoSample](sampleBufferCapacity)}
	a.ch1.hasSweep = true
	a.ch1.apu, a.ch2.apu, a.ch3.apu, a.ch4.apu = a, a, a, a
	sched.Register(scheduler.APUSampleOutput, a.onSample)
	sched.Register(scheduler.Channel1Clock, a.ch1.onDutyClock)
	sched.Register(scheduler.Channel2Clock, a.ch2.onDutyClock)
	sched.Register(scheduler.Channel3Clock, a.ch3.onClock)
	sched.Register(scheduler.Channel4Clock, a.ch4.onClock)
	sched.Register(scheduler.Channel1Envelope, a.ch1.onEnvelope)
	sched.Register(scheduler.Channel2Envelope, a.ch2.onEnvelope)
	sched.Register(scheduler.Channel1FrequencySweep, a.ch1.onFrequencySweep)
	sched.Register(scheduler.Channel1LengthTimer, a.ch1.onLengthTimer)
	sched.Register(scheduler.Channel2LengthTimer, a.ch2.onLengthTimer)
	sched.Register(scheduler.Channel3LengthTimer, a.ch3.onLengthTimer)
	sched.Register(scheduler.Channel4LengthTimer, a.ch4.onLengthTimer)
	return a
}

// AttachDMA wires the FIFO-refill-request path.
func (a *APU) AttachDMA(d DMARequester) { a.dma = d }

// Start arms the mixer's sample-output event; called once at power-on.
func (a *APU) Start() {
	a.sched.Schedule(scheduler.APUSampleOutput, uint64(a.clock.CPUCyclesPerSample()))
}

func (a *APU) onSample(extraCycles uint64) {
	l, r := a.mix()
	a.ring.Push(stereoSample{l, r})
	a.sched.Schedule(scheduler.APUSampleOutput, uint64(a.clock.CPUCyclesPerSample())-extraCycles)
}

func (a *APU) masterEnabled() bool { return a.soundcntX&(1<<7) != 0 }

// mix computes one stereo sample: PSG channels summed per the per-side
// enable bits in SOUNDCNT_L, plus the two FIFO holding registers at their
// configured relative volume.
func (a *APU) mix() (left, right float32) {
	if !a.masterEnabled() {
		return 0, 0
	}

	psgVol := [4]float32{1, 0.5, 0.25, 0.125}[a.soundcntL.psgVolumeIndex()]
	chans := [4]float32{
		a.ch1.output(), a.ch2.output(), a.ch3.output(), a.ch4.output(),
	}

	enableMask := uint16(a.soundcntL)
	var l, r float32
	for i, sample := range chans {
		s := sample / 15 * psgVol
		if enableMask&(1<<uint(i+12)) != 0 {
			l += s
		}
		if enableMask&(1<<uint(i+8)) != 0 {
			r += s
		}
	}

	dmaVol := [2]float32{0.5, 1}
	fa := float32(a.fifoA.holding) / 128 * dmaVol[(a.soundcntH>>2)&1]
	fb := float32(a.fifoB.holding) / 128 * dmaVol[(a.soundcntH>>3)&1]
	if a.soundcntH&(1<<8) != 0 {
		l += fa
	}
	if a.soundcntH&(1<<9) != 0 {
		r += fa
	}
	if a.soundcntH&(1<<12) != 0 {
		l += fb
	}
	if a.soundcntH&(1<<13) != 0 {
		r += fb
	}

	return clampf(l), clampf(r)
}

func clampf(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// FillBuffer drains up to len(out) samples into out (interleaved L,R),
// implementing fill_audio_buffer(); returns the count actually written.
func (a *APU) FillBuffer(out []float32) int {
	n := 0
	for n+1 < len(out) {
		s, ok := a.ring.Pop()
		if !ok {
			break
		}
		out[n], out[n+1] = s.L, s.R
		n += 2
	}
	return n
}

// OnTimerOverflow implements timer.FIFORefiller: pops one sample out of
// whichever FIFO is routed to the overflowing timer into its holding
// register, requesting a DMA refill once fewer than 17 samples remain.
func (a *APU) OnTimerOverflow(timerIndex int) {
	if int((a.soundcntH>>10)&1) == timerIndex {
		a.drainFIFO(&a.fifoA, 0x040000A0)
	}
	if int((a.soundcntH>>14)&1) == timerIndex {
		a.drainFIFO(&a.fifoB, 0x040000A4)
	}
}

func (a *APU) drainFIFO(f *fifo, addr uint32) {
	f.pop()
	if f.len() < 17 && a.dma != nil {
		a.dma.RequestFIFORefill(addr)
	}
}

// WriteFIFO pushes up to 4 bytes from a 32-bit DMA/CPU write into the FIFO
// at addr (0x040000A0 = A, 0x040000A4 = B).
func (a *APU) WriteFIFO(addr uint32, v uint32) {
	var f *fifo
	switch addr {
	case 0x040000A0:
		f = &a.fifoA
	case 0x040000A4:
		f = &a.fifoB
	default:
		return
	}
	for i := 0; i < 4; i++ {
		f.push(int8(byte(v >> (8 * i))))
	}
}

func (a *APU) ReadSOUNDCNT_L() uint16   { return uint16(a.soundcntL) }
func (a *APU) WriteSOUNDCNT_L(v uint16) { a.soundcntL = soundcntLReg(v) }
func (a *APU) ReadSOUNDCNT_H() uint16 { return a.soundcntH }
func (a *APU) WriteSOUNDCNT_H(v uint16) { a.soundcntH = v }
func (a *APU) ReadSOUNDCNT_X() uint16 { return a.soundcntX }

// WriteSOUNDCNT_X writes the master-enable bit; clearing it resets channel
// 3's state.
func (a *APU) WriteSOUNDCNT_X(v uint16) {
	wasEnabled := a.masterEnabled()
	a.soundcntX = (a.soundcntX &^ (1 << 7)) | (v & (1 << 7))
	if wasEnabled && !a.masterEnabled() {
		a.ch3 = waveChannel{apu: a}
	}
}

type soundcntLReg uint16

func (v soundcntLReg) psgVolumeIndex() int { return int(v>>4) & 0x3 }
