package memory

// BIOS is the GBA's 16 KiB internal boot ROM. It is loaded once from an
// external file at power-on and never mutated. Reads
// outside the BIOS's own execution are open-bus; that PC-gating decision is
// made by package bus, which is the only caller that knows the CPU's
// current PC.
type BIOS struct {
	data [BIOSSize]byte
}

// NewBIOS creates a BIOS bank from the bytes loaded from bios_path at
// initialize() time. Data shorter than BIOSSize is zero-padded.
func NewBIOS(data []byte) *BIOS {
	b := &BIOS{}
	copy(b.data[:], data)
	return b
}

func (b *BIOS) Read8(offset uint32) uint8 { return b.data[offset] }

func (b *BIOS) Read16(offset uint32) uint16 {
	return uint16(b.data[offset]) | uint16(b.data[offset+1])<<8
}

func (b *BIOS) Read32(offset uint32) uint32 {
	return uint32(b.data[offset]) | uint32(b.data[offset+1])<<8 |
		uint32(b.data[offset+2])<<16 | uint32(b.data[offset+3])<<24
}
