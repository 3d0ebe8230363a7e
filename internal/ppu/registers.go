package ppu

// Registers holds the LCD I/O register block, 0x04000000-0x0400005F.
// Bit layouts follow GBATEK; only the fields the renderer consults are
// decoded into named accessors, the rest stay as raw uint16s read back
// verbatim.
type Registers struct {
	DISPCNT  uint16
	DISPSTAT uint16
	VCOUNT   uint16

	BGCNT [4]uint16
	BGHOFS, BGVOFS [4]uint16

	// BG2/3 affine parameters: pa,pb,pc,pd plus reference points x,y.
	BG2PA, BG2PB, BG2PC, BG2PD uint16
	BG2X, BG2Y                 int32
	BG3PA, BG3PB, BG3PC, BG3PD uint16
	BG3X, BG3Y                 int32

	WIN0H, WIN1H uint16
	WIN0V, WIN1V uint16
	WININ, WINOUT uint16

	MOSAIC uint16

	BLDCNT   uint16
	BLDALPHA uint16
	BLDY     uint16
}

func (r *Registers) bgMode() int { return int(r.DISPCNT & 0x7) }

func (r *Registers) objCharVramMapping1D() bool { return r.DISPCNT&(1<<6) != 0 }

func (r *Registers) forceBlank() bool { return r.DISPCNT&(1<<7) != 0 }

func (r *Registers) bgEnabled(n int) bool { return r.DISPCNT&(1<<(8+n)) != 0 }

func (r *Registers) objEnabled() bool { return r.DISPCNT&(1<<12) != 0 }

func (r *Registers) win0Enabled() bool { return r.DISPCNT&(1<<13) != 0 }
func (r *Registers) win1Enabled() bool { return r.DISPCNT&(1<<14) != 0 }
func (r *Registers) winObjEnabled() bool { return r.DISPCNT&(1<<15) != 0 }
func (r *Registers) anyWindowEnabled() bool {
	return r.win0Enabled() || r.win1Enabled() || r.winObjEnabled()
}

func (r *Registers) displayFrameSelect() uint32 {
	if r.DISPCNT&(1<<4) != 0 {
		return 0xA000
	}
	return 0
}

func (r *Registers) vblankIRQEnabled() bool  { return r.DISPSTAT&(1<<3) != 0 }
func (r *Registers) hblankIRQEnabled() bool  { return r.DISPSTAT&(1<<4) != 0 }
func (r *Registers) vcountIRQEnabled() bool  { return r.DISPSTAT&(1<<5) != 0 }
func (r *Registers) vcountSetting() uint16   { return (r.DISPSTAT >> 8) & 0xFF }

func (r *Registers) bgPriority(n int) int { return int(r.BGCNT[n] & 0x3) }
func (r *Registers) bgCharBase(n int) uint32 { return uint32((r.BGCNT[n]>>2)&0x3) * 0x4000 }
func (r *Registers) bgMosaic(n int) bool     { return r.BGCNT[n]&(1<<6) != 0 }
func (r *Registers) bg256Color(n int) bool   { return r.BGCNT[n]&(1<<7) != 0 }
func (r *Registers) bgMapBase(n int) uint32  { return uint32((r.BGCNT[n]>>8)&0x1F) * 0x800 }
func (r *Registers) bgWraparound(n int) bool { return r.BGCNT[n]&(1<<13) != 0 }
func (r *Registers) bgScreenSize(n int) int  { return int((r.BGCNT[n] >> 14) & 0x3) }

func (r *Registers) blendMode() int    { return int((r.BLDCNT >> 6) & 0x3) }
func (r *Registers) isTarget1(layer int) bool { return r.BLDCNT&(1<<layer) != 0 }
func (r *Registers) isTarget2(layer int) bool { return r.BLDCNT&(1<<(8+layer)) != 0 }
func (r *Registers) evaEVB() (int, int) {
	return int(r.BLDALPHA & 0x1F), int((r.BLDALPHA >> 8) & 0x1F)
}
func (r *Registers) evy() int { return int(r.BLDY & 0x1F) }
