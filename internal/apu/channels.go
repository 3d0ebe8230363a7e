package apu

import "gbacore/internal/scheduler"

var dutyTable = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 0, 1}, // 12.5%
	{1, 0, 0, 0, 0, 0, 0, 1}, // 25%
	{1, 0, 0, 0, 0, 1, 1, 1}, // 50%
	{0, 1, 1, 1, 1, 1, 1, 0}, // 75%
}

// squareChannel implements PSG channels 1 and 2. Only channel 1 sets
// hasSweep.
type squareChannel struct {
	hasSweep bool

	period           uint16 // 11-bit frequency timer value
	waveDuty         uint8
	dutyPos          uint8
	initialVolume    uint8
	envelopeUp       bool
	envelopePace     uint8
	currentVolume    uint8
	initialLength    uint8
	lengthEnabled    bool
	sweepPace        uint8
	sweepDown        bool
	sweepShift       uint8
	enabled          bool

	apu *APU
}

func (c *squareChannel) output() float32 {
	if !c.enabled {
		return 0
	}
	return float32(dutyTable[c.waveDuty][c.dutyPos]) * float32(c.currentVolume)
}

func (c *squareChannel) onDutyClock(uint64) {
	c.dutyPos = (c.dutyPos + 1) % 8
	c.schedule()
}

func (c *squareChannel) schedule() {
	if c.apu == nil {
		return
	}
	period := uint64(0x800-int(c.period)) * uint64(c.apu.clock.CPUCyclesPerGBCycle())
	kind := scheduler.Channel2Clock
	if c.hasSweep {
		kind = scheduler.Channel1Clock
	}
	c.apu.sched.Schedule(kind, period)
}

func (c *squareChannel) onEnvelope(uint64) {
	if c.envelopePace == 0 {
		return
	}
	if c.envelopeUp && c.currentVolume < 15 {
		c.currentVolume++
	} else if !c.envelopeUp && c.currentVolume > 0 {
		c.currentVolume--
	}
	kind := scheduler.Channel2Envelope
	if c.hasSweep {
		kind = scheduler.Channel1Envelope
	}
	c.apu.sched.Schedule(kind, uint64(c.envelopePace)*uint64(c.apu.clock.CPUCyclesPerEnvelopeSweep()))
}

func (c *squareChannel) onLengthTimer(uint64) {
	c.enabled = false
}

func (c *squareChannel) onFrequencySweep(uint64) {
	if !c.hasSweep || c.sweepPace == 0 {
		return
	}
	delta := int(c.period) >> c.sweepShift
	if c.sweepDown {
		c.period -= uint16(delta)
	} else {
		c.period += uint16(delta)
		if c.period > 0x7FF {
			c.enabled = false
			return
		}
	}
	c.apu.sched.Schedule(scheduler.Channel1FrequencySweep, uint64(c.sweepPace)*uint64(c.apu.clock.CPUCyclesPerFrequencySweep()))
}

// Trigger restarts the channel: reload length/volume, arm the duty clock
// and, for channel 1, the sweep unit.
func (c *squareChannel) trigger() {
	c.enabled = true
	c.currentVolume = c.initialVolume
	c.schedule()
	kind := scheduler.Channel2LengthTimer
	if c.hasSweep {
		kind = scheduler.Channel1LengthTimer
	}
	if c.lengthEnabled {
		c.apu.sched.Schedule(kind, uint64(64-c.initialLength)*uint64(c.apu.clock.CPUCyclesPerSoundLength()))
	}
	if c.hasSweep && c.sweepPace != 0 {
		c.apu.sched.Schedule(scheduler.Channel1FrequencySweep, uint64(c.sweepPace)*uint64(c.apu.clock.CPUCyclesPerFrequencySweep()))
	}
}

// waveChannel implements PSG channel 3: 32 or 64 4-bit samples played back
// from Wave RAM.
type waveChannel struct {
	ram          [32]uint8 // two 32-entry banks folded into one logical bank per dimension
	dimension    uint8     // 0 = 32-sample single bank, 1 = 64-sample two banks
	playBank     uint8
	volumeCode   uint8 // 0=mute,1=100%,2=50%,3=25%; forceVolume (75%) overrides it in output()
	forceVolume  bool
	period       uint16
	position     uint8
	initialLength uint16
	lengthEnabled bool
	enabled      bool

	apu *APU
}

func (c *waveChannel) output() float32 {
	if !c.enabled {
		return 0
	}
	sample := c.ram[(uint32(c.position/2)+uint32(c.playBank)*16)%32]
	var nibble uint8
	if c.position%2 == 0 {
		nibble = sample >> 4
	} else {
		nibble = sample & 0xF
	}
	vol := map[uint8]float32{0: 0, 1: 1, 2: 0.5, 3: 0.25}[c.volumeCode]
	if c.forceVolume {
		vol = 0.75
	}
	return float32(nibble) * vol
}

func (c *waveChannel) onClock(uint64) {
	samples := uint8(32)
	if c.dimension == 1 {
		samples = 64
	}
	c.position = (c.position + 1) % samples
	if c.apu == nil {
		return
	}
	period := uint64(0x800-int(c.period)) * uint64(c.apu.clock.CPUCyclesPerGBCycle()) / 2
	c.apu.sched.Schedule(scheduler.Channel3Clock, period)
}

func (c *waveChannel) onLengthTimer(uint64) { c.enabled = false }

func (c *waveChannel) trigger() {
	c.enabled = true
	c.onClock(0)
	c.position = 0
	if c.lengthEnabled {
		c.apu.sched.Schedule(scheduler.Channel3LengthTimer, (256-uint64(c.initialLength))*uint64(c.apu.clock.CPUCyclesPerSoundLength()))
	}
}

// noiseChannel implements PSG channel 4: a 15/7-bit LFSR noise generator.
type noiseChannel struct {
	lfsr          uint16
	shortMode     bool // 7-bit LFSR when true
	shiftS        uint8
	divisorR      uint8
	initialVolume uint8
	envelopeUp    bool
	envelopePace  uint8
	currentVolume uint8
	initialLength uint8
	lengthEnabled bool
	enabled       bool

	apu *APU
}

var divisorTable = [8]uint32{8, 16, 32, 48, 64, 80, 96, 112}

func (c *noiseChannel) output() float32 {
	if !c.enabled {
		return 0
	}
	return float32(c.lfsr&1) * float32(c.currentVolume)
}

func (c *noiseChannel) onClock(uint64) {
	bit := (c.lfsr & 1) ^ ((c.lfsr >> 1) & 1)
	c.lfsr = (c.lfsr >> 1) | (bit << 14)
	if c.shortMode {
		c.lfsr = (c.lfsr &^ (1 << 6)) | (bit << 6)
	}
	if c.apu == nil {
		return
	}
	freq := c.apu.clock.CPUClockSpeed() / (divisorTable[c.divisorR] << c.shiftS)
	if freq == 0 {
		freq = 1
	}
	c.apu.sched.Schedule(scheduler.Channel4Clock, uint64(c.apu.clock.CPUClockSpeed())/uint64(freq))
}

func (c *noiseChannel) onLengthTimer(uint64) { c.enabled = false }

func (c *noiseChannel) trigger() {
	c.enabled = true
	c.currentVolume = c.initialVolume
	c.onClock(0)
	c.lfsr = 0x7FFF
	if c.lengthEnabled {
		c.apu.sched.Schedule(scheduler.Channel4LengthTimer, uint64(64-c.initialLength)*uint64(c.apu.clock.CPUCyclesPerSoundLength()))
	}
}

// fifo is a 32-byte circular buffer of signed 8-bit PCM samples feeding a
// DMA audio channel.
type fifo struct {
	buf     [32]int8
	read    int
	write   int
	count   int
	holding int8
}

func (f *fifo) push(v int8) {
	if f.count >= len(f.buf) {
		return
	}
	f.buf[f.write] = v
	f.write = (f.write + 1) % len(f.buf)
	f.count++
}

func (f *fifo) pop() {
	if f.count == 0 {
		return
	}
	f.holding = f.buf[f.read]
	f.read = (f.read + 1) % len(f.buf)
	f.count--
}

func (f *fifo) len() int { return f.count }
