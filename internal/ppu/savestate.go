package ppu

import "gbacore/internal/savestate/codec"

// SaveState writes PRAM/VRAM/OAM, the full LCD register block, and the
// affine reference points: the save-state's PPU memory, registers, and
// affine refs component.
func (p *PPU) SaveState(w interface{ Write([]byte) (int, error) }) error {
	s := codec.NewWriter(w)
	s.Bytes(p.pram.Bytes())
	s.Bytes(p.vram.Bytes())
	s.Bytes(p.oam.Bytes())

	r := &p.regs
	s.U16(r.DISPCNT)
	s.U16(r.DISPSTAT)
	s.U16(r.VCOUNT)
	for i := 0; i < 4; i++ {
		s.U16(r.BGCNT[i])
		s.U16(r.BGHOFS[i])
		s.U16(r.BGVOFS[i])
	}
	s.U16(r.BG2PA)
	s.U16(r.BG2PB)
	s.U16(r.BG2PC)
	s.U16(r.BG2PD)
	s.I32(r.BG2X)
	s.I32(r.BG2Y)
	s.U16(r.BG3PA)
	s.U16(r.BG3PB)
	s.U16(r.BG3PC)
	s.U16(r.BG3PD)
	s.I32(r.BG3X)
	s.I32(r.BG3Y)
	s.U16(r.WIN0H)
	s.U16(r.WIN1H)
	s.U16(r.WIN0V)
	s.U16(r.WIN1V)
	s.U16(r.WININ)
	s.U16(r.WINOUT)
	s.U16(r.MOSAIC)
	s.U16(r.BLDCNT)
	s.U16(r.BLDALPHA)
	s.U16(r.BLDY)

	s.I32(p.bg2RefX)
	s.I32(p.bg2RefY)
	s.I32(p.bg3RefX)
	s.I32(p.bg3RefY)
	s.Bool(p.frameReady)
	return s.Err()
}

func (p *PPU) LoadState(reader interface{ Read([]byte) (int, error) }) error {
	s := codec.NewReader(reader)
	s.Bytes(p.pram.Bytes())
	s.Bytes(p.vram.Bytes())
	s.Bytes(p.oam.Bytes())

	r := &p.regs
	r.DISPCNT = s.U16()
	r.DISPSTAT = s.U16()
	r.VCOUNT = s.U16()
	for i := 0; i < 4; i++ {
		r.BGCNT[i] = s.U16()
		r.BGHOFS[i] = s.U16()
		r.BGVOFS[i] = s.U16()
	}
	r.BG2PA = s.U16()
	r.BG2PB = s.U16()
	r.BG2PC = s.U16()
	r.BG2PD = s.U16()
	r.BG2X = s.I32()
	r.BG2Y = s.I32()
	r.BG3PA = s.U16()
	r.BG3PB = s.U16()
	r.BG3PC = s.U16()
	r.BG3PD = s.U16()
	r.BG3X = s.I32()
	r.BG3Y = s.I32()
	r.WIN0H = s.U16()
	r.WIN1H = s.U16()
	r.WIN0V = s.U16()
	r.WIN1V = s.U16()
	r.WININ = s.U16()
	r.WINOUT = s.U16()
	r.MOSAIC = s.U16()
	r.BLDCNT = s.U16()
	r.BLDALPHA = s.U16()
	r.BLDY = s.U16()

	p.bg2RefX = s.I32()
	p.bg2RefY = s.I32()
	p.bg3RefX = s.I32()
	p.bg3RefY = s.I32()
	p.frameReady = s.Bool()
	return s.Err()
}
