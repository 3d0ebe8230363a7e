package ppu

// ReadReg16/WriteReg16 dispatch the LCD I/O block (0x04000000-0x0400005F,
// offsets relative to 0x04000000) for the bus's I/O page handler.
func (p *PPU) ReadReg16(offset uint32) uint16 {
	switch offset {
	case 0x00:
		return p.regs.DISPCNT
	case 0x04:
		return p.regs.DISPSTAT
	case 0x06:
		return p.regs.VCOUNT
	case 0x08, 0x0A, 0x0C, 0x0E:
		return p.regs.BGCNT[(offset-0x08)/2]
	case 0x48:
		return p.regs.WININ
	case 0x4A:
		return p.regs.WINOUT
	case 0x4C:
		return p.regs.MOSAIC
	case 0x50:
		return p.regs.BLDCNT
	case 0x52:
		return p.regs.BLDALPHA
	case 0x54:
		return p.regs.BLDY
	default:
		return 0
	}
}

func (p *PPU) WriteReg16(offset uint32, v uint16) {
	switch offset {
	case 0x00:
		p.regs.DISPCNT = v
	case 0x04:
		p.regs.DISPSTAT = (p.regs.DISPSTAT &^ 0xFFF8) | (v & 0xFFF8)
	case 0x08, 0x0A, 0x0C, 0x0E:
		p.regs.BGCNT[(offset-0x08)/2] = v
	case 0x10:
		p.regs.BGHOFS[0] = v & 0x1FF
	case 0x12:
		p.regs.BGVOFS[0] = v & 0x1FF
	case 0x14:
		p.regs.BGHOFS[1] = v & 0x1FF
	case 0x16:
		p.regs.BGVOFS[1] = v & 0x1FF
	case 0x18:
		p.regs.BGHOFS[2] = v & 0x1FF
	case 0x1A:
		p.regs.BGVOFS[2] = v & 0x1FF
	case 0x1C:
		p.regs.BGHOFS[3] = v & 0x1FF
	case 0x1E:
		p.regs.BGVOFS[3] = v & 0x1FF
	case 0x20:
		p.regs.BG2PA = v
	case 0x22:
		p.regs.BG2PB = v
	case 0x24:
		p.regs.BG2PC = v
	case 0x26:
		p.regs.BG2PD = v
	case 0x30:
		p.regs.BG3PA = v
	case 0x32:
		p.regs.BG3PB = v
	case 0x34:
		p.regs.BG3PC = v
	case 0x36:
		p.regs.BG3PD = v
	case 0x40:
		p.regs.WIN0H = v
	case 0x42:
		p.regs.WIN1H = v
	case 0x44:
		p.regs.WIN0V = v
	case 0x46:
		p.regs.WIN1V = v
	case 0x48:
		p.regs.WININ = v
	case 0x4A:
		p.regs.WINOUT = v
	case 0x4C:
		p.regs.MOSAIC = v
	case 0x50:
		p.regs.BLDCNT = v
	case 0x52:
		p.regs.BLDALPHA = v
	case 0x54:
		p.regs.BLDY = v
	}
}

// WriteBG2X/Y and WriteBG3X/Y take the 28-bit signed fixed-point reference
// point writes (low/high halfword), reloading the live affine accumulator
// immediately per GBATEK (a mid-frame write takes effect on the next line).
func (p *PPU) WriteBG2XLow(v uint16)  { p.setAffineRef(&p.regs.BG2X, &p.bg2RefX, v, false) }
func (p *PPU) WriteBG2XHigh(v uint16) { p.setAffineRef(&p.regs.BG2X, &p.bg2RefX, v, true) }
func (p *PPU) WriteBG2YLow(v uint16)  { p.setAffineRef(&p.regs.BG2Y, &p.bg2RefY, v, false) }
func (p *PPU) WriteBG2YHigh(v uint16) { p.setAffineRef(&p.regs.BG2Y, &p.bg2RefY, v, true) }
func (p *PPU) WriteBG3XLow(v uint16)  { p.setAffineRef(&p.regs.BG3X, &p.bg3RefX, v, false) }
func (p *PPU) WriteBG3XHigh(v uint16) { p.setAffineRef(&p.regs.BG3X, &p.bg3RefX, v, true) }
func (p *PPU) WriteBG3YLow(v uint16)  { p.setAffineRef(&p.regs.BG3Y, &p.bg3RefY, v, false) }
func (p *PPU) WriteBG3YHigh(v uint16) { p.setAffineRef(&p.regs.BG3Y, &p.bg3RefY, v, true) }

func (p *PPU) setAffineRef(reg, live *int32, v uint16, high bool) {
	raw := uint32(*reg)
	if high {
		raw = (raw &^ 0xFFFF0000) | uint32(v)<<16
	} else {
		raw = (raw &^ 0xFFFF) | uint32(v)
	}
	signExtended := int32(raw<<4) >> 4 // sign-extend from 28 bits
	*reg = signExtended
	*live = signExtended
}

// PRAM/VRAM/OAM access for the bus's memory-mapped regions.

func (p *PPU) ReadPRAM8(offset uint32) uint8    { return p.pram.Read8(offset % 0x400) }
func (p *PPU) ReadPRAM16(offset uint32) uint16  { return p.pram.Read16(offset % 0x400) }
func (p *PPU) ReadPRAM32(offset uint32) uint32  { return p.pram.Read32(offset % 0x400) }
func (p *PPU) WritePRAM8(offset uint32, v uint8) { p.pram.Write8(offset%0x400, v) }
func (p *PPU) WritePRAM16(offset uint32, v uint16) { p.pram.Write16(offset%0x400, v) }
func (p *PPU) WritePRAM32(offset uint32, v uint32) { p.pram.Write32(offset%0x400, v) }

func (p *PPU) ReadVRAM8(offset uint32) uint8   { return p.vram.Read8(offset % 0x18000) }
func (p *PPU) ReadVRAM16(offset uint32) uint16 { return p.vram.Read16(offset % 0x18000) }
func (p *PPU) ReadVRAM32(offset uint32) uint32 { return p.vram.Read32(offset % 0x18000) }

func (p *PPU) WriteVRAM8(offset uint32, v uint8) {
	offset %= 0x18000
	boundary := uint32(0x10000)
	if p.regs.bgMode() >= 3 {
		boundary = 0x14000
	}
	p.vram.Write8(offset, v, boundary)
}
func (p *PPU) WriteVRAM16(offset uint32, v uint16) { p.vram.Write16(offset%0x18000, v) }
func (p *PPU) WriteVRAM32(offset uint32, v uint32) { p.vram.Write32(offset%0x18000, v) }

func (p *PPU) ReadOAM8(offset uint32) uint8    { return p.oam.Read8(offset % 0x400) }
func (p *PPU) ReadOAM16(offset uint32) uint16  { return p.oam.Read16(offset % 0x400) }
func (p *PPU) ReadOAM32(offset uint32) uint32  { return p.oam.Read32(offset % 0x400) }
func (p *PPU) WriteOAM8(offset uint32, v uint8) { p.oam.Write8(offset%0x400, v) }
func (p *PPU) WriteOAM16(offset uint32, v uint16) { p.oam.Write16(offset%0x400, v) }
func (p *PPU) WriteOAM32(offset uint32, v uint32) { p.oam.Write32(offset%0x400, v) }
