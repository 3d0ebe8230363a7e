package cartridge

const (
	eeprom512Size = 512
	eeprom8KSize  = 8 * 1024
	dwordSize     = 8
)

// eepromPhase tracks where a bit-serial transaction sits. EEPROM is driven
// exclusively by DMA3: the DMA controller feeds this type one
// bit per halfword transferred, and the controller decides which phase to
// enter from the DMA's word count (9/17 = set index, 73/81 = write, 68 =
// read) before starting the stream.
type eepromPhase int

const (
	eepromIdle eepromPhase = iota
	eepromReceivingIndex
	eepromReceivingData
	eepromSendingData
)

// EEPROM is the bit-serial backup variant. Storage is an array of 8-byte
// dwords addressed by a 6-bit (512 B) or 14-bit (8 KiB) index. Capacity is
// fixed by NewEEPROM from the size it is given; BeginSetIndex changes only
// the index width, and the storage is never resized by the first command's
// index width. Indexes past the capacity wrap modulo the dword count.
type EEPROM struct {
	dwords    [][dwordSize]byte
	indexBits int
	phase     eepromPhase

	shiftReg   uint64
	shiftCount int
	index      int
	outBitPos  int
}

// NewEEPROM creates a device with capacity matching size (512 B or 8 KiB).
// Saved content, if any, is restored verbatim.
func NewEEPROM(size int, saved []byte) *EEPROM {
	count := size / dwordSize
	e := &EEPROM{dwords: make([][dwordSize]byte, count)}
	for i := 0; i < count && i*dwordSize < len(saved); i++ {
		copy(e.dwords[i][:], saved[i*dwordSize:])
	}
	if size == eeprom512Size {
		e.indexBits = 6
	} else {
		e.indexBits = 14
	}
	return e
}

func (e *EEPROM) Kind() Kind {
	if len(e.dwords)*dwordSize == eeprom512Size {
		return KindEEPROM512
	}
	return KindEEPROM8K
}

// BeginSetIndex starts a "set read index" command; indexBits is 6 or 14
// depending on the DMA word count the controller observed (9 or 17 words).
func (e *EEPROM) BeginSetIndex(indexBits int) {
	e.indexBits = indexBits
	e.phase = eepromReceivingIndex
	e.shiftReg, e.shiftCount = 0, 0
}

// BeginWrite starts a "write dword at index" command (DMA word count 73 or
// 81: indexBits index bits followed by 64 data bits).
func (e *EEPROM) BeginWrite() {
	e.phase = eepromReceivingData
	e.shiftReg, e.shiftCount = 0, 0
}

// BeginRead starts a "read dword" command (DMA word count 68) using the
// index most recently set by BeginSetIndex.
func (e *EEPROM) BeginRead() {
	e.phase = eepromSendingData
	e.outBitPos = 0
}

// PushBit feeds one serial bit in during a receive phase (index or write).
// It returns true once the full field (index or 64-bit dword) has been
// consumed, at which point the controller should call End.
func (e *EEPROM) PushBit(bit uint8) (done bool) {
	e.shiftReg = (e.shiftReg << 1) | uint64(bit&1)
	e.shiftCount++

	switch e.phase {
	case eepromReceivingIndex:
		if e.shiftCount == e.indexBits {
			e.index = int(e.shiftReg) % len(e.dwords)
			return true
		}
	case eepromReceivingData:
		if e.shiftCount == 64 {
			e.storeDword(e.index, e.shiftReg)
			return true
		}
	}
	return false
}

// NextBit returns the next serial bit during a send phase (read), MSB
// first, preceded by 4 prefix zero bits ahead of the 64-bit payload.
func (e *EEPROM) NextBit() uint8 {
	const prefixBits = 4
	bit := uint8(0)
	if e.outBitPos >= prefixBits {
		dataBit := e.outBitPos - prefixBits
		dword := e.loadDword(e.index)
		bit = uint8((dword >> (63 - dataBit)) & 1)
	}
	e.outBitPos++
	return bit
}

// End closes out the current transaction.
func (e *EEPROM) End() { e.phase = eepromIdle }

func (e *EEPROM) storeDword(index int, v uint64) {
	for i := 0; i < dwordSize; i++ {
		e.dwords[index][i] = byte(v >> (8 * (dwordSize - 1 - i)))
	}
}

func (e *EEPROM) loadDword(index int) uint64 {
	var v uint64
	for i := 0; i < dwordSize; i++ {
		v = v<<8 | uint64(e.dwords[index][i])
	}
	return v
}

// ReadByte/WriteByte satisfy BackupMedia for save-state and save-file
// framing; the live bit-serial protocol goes through PushBit/NextBit, not
// these, since EEPROM is addressed by DMA3 rather than a byte-wide CPU bus.
func (e *EEPROM) ReadByte(addr uint32) uint8 {
	return e.Bytes()[int(addr)%(len(e.dwords)*dwordSize)]
}

func (e *EEPROM) WriteByte(addr uint32, value uint8) {
	b := e.Bytes()
	b[int(addr)%len(b)] = value
	for i := range e.dwords {
		copy(e.dwords[i][:], b[i*dwordSize:(i+1)*dwordSize])
	}
}

func (e *EEPROM) Bytes() []byte {
	out := make([]byte, len(e.dwords)*dwordSize)
	for i, d := range e.dwords {
		copy(out[i*dwordSize:], d[:])
	}
	return out
}
