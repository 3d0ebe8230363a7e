// Package clock derives the cycle-ratios every peripheral needs from a
// configurable CPU clock speed: how many CPU cycles make up one APU
// sample, one classic-Game-Boy cycle, and one envelope/length/sweep
// step, so the APU and PSG channels never hardcode a ratio themselves.
package clock

// DefaultCPUFrequencyHz is the GBA's ARM7TDMI clock speed.
const DefaultCPUFrequencyHz = 16_777_216

// APUSampleRateHz is the fixed output rate of the APU mixer.
const APUSampleRateHz = 32_768

// gbCycleHz is the classic Game Boy clock speed (1048576 Hz, i.e. 2^20)
// behind the CPU-cycles-per-GB-cycle ratio the channel 1-3 frequency timers
// use; the envelope, length and sweep periods come from hz/64, hz/256 and
// hz/128 instead.
const gbCycleHz = 1_048_576

// Manager holds the CPU clock speed and every ratio derived from it. All
// fields are recomputed whenever SetCPUClockSpeed is called so callers never
// see a stale ratio.
type Manager struct {
	cpuClockSpeed             uint32
	cpuCyclesPerSample        uint32
	cpuCyclesPerGBCycle       uint32
	cpuCyclesPerEnvelopeSweep uint32
	cpuCyclesPerSoundLength   uint32
	cpuCyclesPerFrequencySweep uint32
}

// New creates a Manager at the GBA's native clock speed.
func New() *Manager {
	m := &Manager{}
	m.SetCPUClockSpeed(DefaultCPUFrequencyHz)
	return m
}

// SetCPUClockSpeed updates the CPU clock and recomputes every ratio.
func (m *Manager) SetCPUClockSpeed(hz uint32) {
	m.cpuClockSpeed = hz
	m.cpuCyclesPerSample = hz / APUSampleRateHz
	m.cpuCyclesPerGBCycle = hz / gbCycleHz
	m.cpuCyclesPerEnvelopeSweep = hz / 64
	m.cpuCyclesPerSoundLength = hz / 256
	m.cpuCyclesPerFrequencySweep = hz / 128
}

// CPUClockSpeed returns the configured CPU clock in Hz.
func (m *Manager) CPUClockSpeed() uint32 { return m.cpuClockSpeed }

// CPUCyclesPerSample is the number of CPU cycles between APU mixer samples.
func (m *Manager) CPUCyclesPerSample() uint32 { return m.cpuCyclesPerSample }

// CPUCyclesPerGBCycle is the ratio of GBA clock speed to classic GB clock
// speed, used to derive channel 1/2/3 frequency-timer periods.
func (m *Manager) CPUCyclesPerGBCycle() uint32 { return m.cpuCyclesPerGBCycle }

// CPUCyclesPerEnvelopeSweep is the CPU-cycle period of one envelope step
// (64 Hz).
func (m *Manager) CPUCyclesPerEnvelopeSweep() uint32 { return m.cpuCyclesPerEnvelopeSweep }

// CPUCyclesPerSoundLength is the CPU-cycle period of one length-timer step
// (256 Hz).
func (m *Manager) CPUCyclesPerSoundLength() uint32 { return m.cpuCyclesPerSoundLength }

// CPUCyclesPerFrequencySweep is the CPU-cycle period of one channel-1
// frequency-sweep step (128 Hz).
func (m *Manager) CPUCyclesPerFrequencySweep() uint32 { return m.cpuCyclesPerFrequencySweep }
