package apu

import "gbacore/internal/savestate/codec"

// SaveState writes the four PSG channels' and two FIFOs' playback state,
// followed by SOUNDCNT_L/H/X, in the save-state's fixed component order.
// The mixer ring buffer is not persisted: it only holds in-flight audio.
func (a *APU) SaveState(w interface{ Write([]byte) (int, error) }) error {
	s := codec.NewWriter(w)
	saveSquare(s, &a.ch1)
	saveSquare(s, &a.ch2)
	saveWave(s, &a.ch3)
	saveNoise(s, &a.ch4)
	saveFIFO(s, &a.fifoA)
	saveFIFO(s, &a.fifoB)
	s.U16(uint16(a.soundcntL))
	s.U16(a.soundcntH)
	s.U16(a.soundcntX)
	return s.Err()
}

func (a *APU) LoadState(r interface{ Read([]byte) (int, error) }) error {
	s := codec.NewReader(r)
	loadSquare(s, &a.ch1)
	loadSquare(s, &a.ch2)
	loadWave(s, &a.ch3)
	loadNoise(s, &a.ch4)
	loadFIFO(s, &a.fifoA)
	loadFIFO(s, &a.fifoB)
	a.soundcntL = soundcntLReg(s.U16())
	a.soundcntH = s.U16()
	a.soundcntX = s.U16()
	return s.Err()
}

func saveSquare(s *codec.Writer, c *squareChannel) {
	s.Bool(c.hasSweep)
	s.U16(c.period)
	s.U8(c.waveDuty)
	s.U8(c.dutyPos)
	s.U8(c.initialVolume)
	s.Bool(c.envelopeUp)
	s.U8(c.envelopePace)
	s.U8(c.currentVolume)
	s.U8(c.initialLength)
	s.Bool(c.lengthEnabled)
	s.U8(c.sweepPace)
	s.Bool(c.sweepDown)
	s.U8(c.sweepShift)
	s.Bool(c.enabled)
}

func loadSquare(s *codec.Reader, c *squareChannel) {
	c.hasSweep = s.Bool()
	c.period = s.U16()
	c.waveDuty = s.U8()
	c.dutyPos = s.U8()
	c.initialVolume = s.U8()
	c.envelopeUp = s.Bool()
	c.envelopePace = s.U8()
	c.currentVolume = s.U8()
	c.initialLength = s.U8()
	c.lengthEnabled = s.Bool()
	c.sweepPace = s.U8()
	c.sweepDown = s.Bool()
	c.sweepShift = s.U8()
	c.enabled = s.Bool()
}

func saveWave(s *codec.Writer, c *waveChannel) {
	s.Bytes(c.ram[:])
	s.U8(c.dimension)
	s.U8(c.playBank)
	s.U8(c.volumeCode)
	s.Bool(c.forceVolume)
	s.U16(c.period)
	s.U8(c.position)
	s.U16(c.initialLength)
	s.Bool(c.lengthEnabled)
	s.Bool(c.enabled)
}

func loadWave(s *codec.Reader, c *waveChannel) {
	s.Bytes(c.ram[:])
	c.dimension = s.U8()
	c.playBank = s.U8()
	c.volumeCode = s.U8()
	c.forceVolume = s.Bool()
	c.period = s.U16()
	c.position = s.U8()
	c.initialLength = s.U16()
	c.lengthEnabled = s.Bool()
	c.enabled = s.Bool()
}

func saveNoise(s *codec.Writer, c *noiseChannel) {
	s.U16(c.lfsr)
	s.Bool(c.shortMode)
	s.U8(c.shiftS)
	s.U8(c.divisorR)
	s.U8(c.initialVolume)
	s.Bool(c.envelopeUp)
	s.U8(c.envelopePace)
	s.U8(c.currentVolume)
	s.U8(c.initialLength)
	s.Bool(c.lengthEnabled)
	s.Bool(c.enabled)
}

func loadNoise(s *codec.Reader, c *noiseChannel) {
	c.lfsr = s.U16()
	c.shortMode = s.Bool()
	c.shiftS = s.U8()
	c.divisorR = s.U8()
	c.initialVolume = s.U8()
	c.envelopeUp = s.Bool()
	c.envelopePace = s.U8()
	c.currentVolume = s.U8()
	c.initialLength = s.U8()
	c.lengthEnabled = s.Bool()
	c.enabled = s.Bool()
}

func saveFIFO(s *codec.Writer, f *fifo) {
	var raw [32]byte
	for i, v := range f.buf {
		raw[i] = byte(v)
	}
	s.Bytes(raw[:])
	s.I32(int32(f.read))
	s.I32(int32(f.write))
	s.I32(int32(f.count))
	s.U8(byte(f.holding))
}

func loadFIFO(s *codec.Reader, f *fifo) {
	var raw [32]byte
	s.Bytes(raw[:])
	for i, b := range raw {
		f.buf[i] = int8(b)
	}
	f.read = int(s.I32())
	f.write = int(s.I32())
	f.count = int(s.I32())
	f.holding = int8(s.U8())
}
