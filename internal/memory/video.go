package memory

// PRAM, VRAM and OAM each follow the GBA's VRAM byte-write rule (and its
// PRAM/OAM analogues), rather than a plain byte-indexed write: a byte
// write to PRAM or most of VRAM duplicates into
// both halves of the addressed halfword, a byte write to OBJ tiles is
// ignored, and a byte write to OAM is ignored entirely.

// PRAM is the 1 KiB BGR555 palette bank (256 BG entries + 256 OBJ entries,
// 2 bytes each).
type PRAM struct {
	data [PRAMSize]byte
}

func NewPRAM() *PRAM { return &PRAM{} }

func (p *PRAM) Read8(offset uint32) uint8 { return p.data[offset] }
func (p *PRAM) Read16(offset uint32) uint16 {
	return uint16(p.data[offset]) | uint16(p.data[offset+1])<<8
}
func (p *PRAM) Read32(offset uint32) uint32 {
	return uint32(p.data[offset]) | uint32(p.data[offset+1])<<8 |
		uint32(p.data[offset+2])<<16 | uint32(p.data[offset+3])<<24
}

// Write8 duplicates the byte into both halves of the containing halfword.
func (p *PRAM) Write8(offset uint32, v uint8) {
	base := offset &^ 1
	p.data[base] = v
	p.data[base+1] = v
}
func (p *PRAM) Write16(offset uint32, v uint16) {
	p.data[offset] = byte(v)
	p.data[offset+1] = byte(v >> 8)
}
func (p *PRAM) Write32(offset uint32, v uint32) {
	p.data[offset] = byte(v)
	p.data[offset+1] = byte(v >> 8)
	p.data[offset+2] = byte(v >> 16)
	p.data[offset+3] = byte(v >> 24)
}

func (p *PRAM) Bytes() []byte { return p.data[:] }

// VRAM is the 96 KiB tile/bitmap/OBJ bank. The byte-write duplication
// boundary depends on the current BG mode and is supplied by the caller
// (the PPU, via Bus) as objBoundary: below it, a byte write duplicates into
// the halfword; at or above it (the OBJ character region), byte writes are
// ignored.
type VRAM struct {
	data [VRAMSize]byte
}

func NewVRAM() *VRAM { return &VRAM{} }

func (v *VRAM) Read8(offset uint32) uint8 { return v.data[offset] }
func (v *VRAM) Read16(offset uint32) uint16 {
	return uint16(v.data[offset]) | uint16(v.data[offset+1])<<8
}
func (v *VRAM) Read32(offset uint32) uint32 {
	return uint32(v.data[offset]) | uint32(v.data[offset+1])<<8 |
		uint32(v.data[offset+2])<<16 | uint32(v.data[offset+3])<<24
}

// Write8 implements the duplication rule. objBoundary is 0x10000 in
// modes 0-2 (64 KiB of BG character/map data) or 0x14000 in modes 3-5
// (bitmap modes reserve more of VRAM for BG).
func (v *VRAM) Write8(offset uint32, val uint8, objBoundary uint32) {
	if offset >= objBoundary {
		return
	}
	base := offset &^ 1
	v.data[base] = val
	v.data[base+1] = val
}
func (v *VRAM) Write16(offset uint32, val uint16) {
	v.data[offset] = byte(val)
	v.data[offset+1] = byte(val >> 8)
}
func (v *VRAM) Write32(offset uint32, val uint32) {
	v.data[offset] = byte(val)
	v.data[offset+1] = byte(val >> 8)
	v.data[offset+2] = byte(val >> 16)
	v.data[offset+3] = byte(val >> 24)
}

func (v *VRAM) Bytes() []byte { return v.data[:] }

// OAM is the 1 KiB object attribute memory (128 8-byte sprite entries
// interleaved with 32 affine matrices). Byte writes are ignored entirely.
type OAM struct {
	data [OAMSize]byte
}

func NewOAM() *OAM { return &OAM{} }

func (o *OAM) Read8(offset uint32) uint8 { return o.data[offset] }
func (o *OAM) Read16(offset uint32) uint16 {
	return uint16(o.data[offset]) | uint16(o.data[offset+1])<<8
}
func (o *OAM) Read32(offset uint32) uint32 {
	return uint32(o.data[offset]) | uint32(o.data[offset+1])<<8 |
		uint32(o.data[offset+2])<<16 | uint32(o.data[offset+3])<<24
}

// Write8 is a no-op: OAM byte writes are ignored.
func (o *OAM) Write8(uint32, uint8) {}
func (o *OAM) Write16(offset uint32, v uint16) {
	o.data[offset] = byte(v)
	o.data[offset+1] = byte(v >> 8)
}
func (o *OAM) Write32(offset uint32, v uint32) {
	o.data[offset] = byte(v)
	o.data[offset+1] = byte(v >> 8)
	o.data[offset+2] = byte(v >> 16)
	o.data[offset+3] = byte(v >> 24)
}

func (o *OAM) Bytes() []byte { return o.data[:] }
