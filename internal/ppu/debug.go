package ppu

// BGDebugInfo is a read-only snapshot of one background layer's register
// state, for the consumer surface's get_bg_debug_info(index).
type BGDebugInfo struct {
	Index       int
	Enabled     bool
	Priority    int
	CharBase    uint32
	MapBase     uint32
	Is256Color  bool
	ScreenSize  int
	Wraparound  bool
	HScroll     uint16
	VScroll     uint16
	Mosaic      bool
}

// BGDebugInfo reports background layer index's (0-3) current register
// state.
func (p *PPU) BGDebugInfo(index int) BGDebugInfo {
	return BGDebugInfo{
		Index:      index,
		Enabled:    p.regs.bgEnabled(index),
		Priority:   p.regs.bgPriority(index),
		CharBase:   p.regs.bgCharBase(index),
		MapBase:    p.regs.bgMapBase(index),
		Is256Color: p.regs.bg256Color(index),
		ScreenSize: p.regs.bgScreenSize(index),
		Wraparound: p.regs.bgWraparound(index),
		HScroll:    p.regs.BGHOFS[index],
		VScroll:    p.regs.BGVOFS[index],
		Mosaic:     p.regs.bgMosaic(index),
	}
}

// SpriteDebugInfo is a read-only snapshot of one OAM entry, for
// get_sprite_debug_info(index).
type SpriteDebugInfo struct {
	Index               int
	X, Y                int
	Width, Height       int
	TileBase            int
	Priority            int
	PaletteBank         int
	EightBpp            bool
	HFlip, VFlip        bool
	AffineMode          int
	AffineParamSelect   int
	Hidden              bool
}

// SpriteDebugInfo reports OAM entry index's (0-127) current attributes.
func (p *PPU) SpriteDebugInfo(index int) SpriteDebugInfo {
	e := p.readOBJ(index)
	return SpriteDebugInfo{
		Index:             index,
		X:                 e.x,
		Y:                 e.y,
		Width:             e.width,
		Height:            e.height,
		TileBase:          e.tileBase,
		Priority:          e.priority,
		PaletteBank:       e.paletteBank,
		EightBpp:          e.eightBpp,
		HFlip:             e.hFlip,
		VFlip:             e.vFlip,
		AffineMode:        e.affineMode,
		AffineParamSelect: e.affineParamSelect,
		Hidden:            e.affineMode == 2,
	}
}

// DISPCNTDebug exposes the raw display control/status registers for the
// debug surface without handing out the mutable Registers block itself.
func (p *PPU) DISPCNTDebug() (dispcnt, dispstat, vcount uint16) {
	return p.regs.DISPCNT, p.regs.DISPSTAT, p.regs.VCOUNT
}
