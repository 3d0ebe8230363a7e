package ppu

// windowMask is the per-dot (BG0..3, OBJ, effects) enable bitmap one
// window region contributes, decoded from WININ/WINOUT.
type windowMask struct {
	bg         [4]bool
	obj        bool
	effects    bool
}

func decodeWindowMask(bits uint8) windowMask {
	return windowMask{
		bg:      [4]bool{bits&1 != 0, bits&2 != 0, bits&4 != 0, bits&8 != 0},
		obj:     bits&0x10 != 0,
		effects: bits&0x20 != 0,
	}
}

// windowRange unpacks a WINxH/WINxV register into [start,end) with GBA's
// "end < start means wraps to the far edge" convention.
func windowRange(reg uint16, axisLen int) (start, end int) {
	start = int(reg >> 8)
	end = int(reg & 0xFF)
	if end > axisLen || end < start {
		end = axisLen
	}
	return
}

// maskForDot resolves which window (WIN0 > WIN1 > OBJ-window > outside)
// governs dot (x,y) on the current scanline, given whether the OBJ
// window covers x this line.
func (p *PPU) maskForDot(x, y int, objWindowHit bool) windowMask {
	if p.regs.win0Enabled() {
		y0, y1 := windowRange(p.regs.WIN0V, ScreenHeight)
		x0, x1 := windowRange(p.regs.WIN0H, ScreenWidth)
		if inRange(y, y0, y1, ScreenHeight) && inRange(x, x0, x1, ScreenWidth) {
			return decodeWindowMask(uint8(p.regs.WININ))
		}
	}
	if p.regs.win1Enabled() {
		y0, y1 := windowRange(p.regs.WIN1V, ScreenHeight)
		x0, x1 := windowRange(p.regs.WIN1H, ScreenWidth)
		if inRange(y, y0, y1, ScreenHeight) && inRange(x, x0, x1, ScreenWidth) {
			return decodeWindowMask(uint8(p.regs.WININ >> 8))
		}
	}
	if p.regs.winObjEnabled() && objWindowHit {
		return decodeWindowMask(uint8(p.regs.WINOUT >> 8))
	}
	return decodeWindowMask(uint8(p.regs.WINOUT))
}

func inRange(v, start, end, wrapLen int) bool {
	if start <= end {
		return v >= start && v < end
	}
	return v >= start || v < end
}
