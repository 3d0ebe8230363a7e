package ppu

// objShapeSize maps (shape, size) to (width, height) in pixels, per the
// OBJ attribute fixed 3x4 shape/size table.
var objShapeSize = [3][4][2]int{
	{{8, 8}, {16, 16}, {32, 32}, {64, 64}},   // square
	{{16, 8}, {32, 8}, {32, 16}, {64, 32}},   // horizontal
	{{8, 16}, {8, 32}, {16, 32}, {32, 64}},   // vertical
}

type objEntry struct {
	y, x               int
	affineMode         int // 0 disabled, 1 affine, 2 hidden, 3 affine-double
	gfxMode            int // 0 normal, 1 alpha-blend, 2 window, 3 illegal
	mosaic             bool
	eightBpp           bool
	shape, size        int
	hFlip, vFlip       bool
	affineParamSelect  int
	tileBase           int
	priority           int
	paletteBank        int
	width, height      int
}

func (p *PPU) readOBJ(index int) objEntry {
	base := uint32(index * 8)
	attr0 := p.oam.Read16(base)
	attr1 := p.oam.Read16(base + 2)
	attr2 := p.oam.Read16(base + 4)

	e := objEntry{}
	e.y = int(attr0 & 0xFF)
	rsFlag := attr0&(1<<8) != 0
	rsExtra := attr0&(1<<9) != 0
	switch {
	case rsFlag && rsExtra:
		e.affineMode = 3
	case rsFlag:
		e.affineMode = 1
	case rsExtra:
		e.affineMode = 2
	default:
		e.affineMode = 0
	}
	e.gfxMode = int((attr0 >> 10) & 0x3)
	e.mosaic = attr0&(1<<12) != 0
	e.eightBpp = attr0&(1<<13) != 0
	e.shape = int((attr0 >> 14) & 0x3)

	e.x = int(attr1 & 0x1FF)
	if e.x >= 240 {
		e.x -= 512 // sign-extend the 9-bit field
	}
	if e.affineMode == 1 || e.affineMode == 3 {
		e.affineParamSelect = int((attr1 >> 9) & 0x1F)
	} else {
		e.hFlip = attr1&(1<<12) != 0
		e.vFlip = attr1&(1<<13) != 0
	}
	e.size = int((attr1 >> 14) & 0x3)

	e.tileBase = int(attr2 & 0x3FF)
	e.priority = int((attr2 >> 10) & 0x3)
	e.paletteBank = int((attr2 >> 12) & 0xF)

	wh := objShapeSize[e.shape][e.size]
	e.width, e.height = wh[0], wh[1]
	return e
}

func (p *PPU) readAffineParams(index int) (pa, pb, pc, pd int16) {
	base := uint32(index*32 + 6)
	pa = int16(p.oam.Read16(base))
	pb = int16(p.oam.Read16(base + 8))
	pc = int16(p.oam.Read16(base + 16))
	pd = int16(p.oam.Read16(base + 24))
	return
}

// renderSprites scans all 128 OAM entries back-to-front (so entry 0 paints
// over later ones at equal priority, matching hardware's OBJ priority
// order) and fills row with the winning OBJ pixel per dot, plus winObjMask
// for dots any "window" gfx-mode sprite covers.
func (p *PPU) renderSprites(y int, row *[ScreenWidth]pixel, winObjMask *[ScreenWidth]bool) {
	obj1D := p.regs.objCharVramMapping1D()

	for i := 127; i >= 0; i-- {
		e := p.readOBJ(i)
		if e.affineMode == 2 {
			continue
		}

		boundsW, boundsH := e.width, e.height
		if e.affineMode == 3 {
			boundsW, boundsH = boundsW*2, boundsH*2
		}
		if y < e.y || y >= e.y+boundsH {
			// also handle vertical wraparound near y=256 boundary
			if !(e.y+boundsH > 256 && y < (e.y+boundsH)%256) {
				continue
			}
		}

		localY := y - e.y
		if localY < 0 {
			localY += 256
		}

		for sx := 0; sx < boundsW; sx++ {
			screenX := e.x + sx
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}

			var texX, texY int
			if e.affineMode == 1 || e.affineMode == 3 {
				pa, pb, pc, pd := p.readAffineParams(e.affineParamSelect)
				cx, cy := boundsW/2, boundsH/2
				ox, oy := sx-cx, localY-cy
				tx := (int(pa)*ox+int(pb)*oy)>>8 + e.width/2
				ty := (int(pc)*ox+int(pd)*oy)>>8 + e.height/2
				if tx < 0 || ty < 0 || tx >= e.width || ty >= e.height {
					continue
				}
				texX, texY = tx, ty
			} else {
				texX, texY = sx, localY
				if e.hFlip {
					texX = e.width - 1 - texX
				}
				if e.vFlip {
					texY = e.height - 1 - texY
				}
			}

			colorIdx, palOffset := p.objPixel(e, texX, texY, obj1D)
			if colorIdx == 0 {
				continue
			}

			if e.gfxMode == 2 {
				winObjMask[screenX] = true
				continue
			}

			color := p.pram.Read16(0x200 + uint32(palOffset+uint16(colorIdx))*2)
			row[screenX] = pixel{
				color15:            color,
				priority:           e.priority,
				source:             sourceOBJ,
				objSemiTransparent: e.gfxMode == 1,
			}
		}
	}
}

// objPixel resolves a texel within sprite e's local (texX,texY) space to a
// palette index, honoring 1D/2D character mapping.
func (p *PPU) objPixel(e objEntry, texX, texY int, obj1D bool) (idx uint8, palOffset uint16) {
	tileX, inX := texX/8, texX%8
	tileY, inY := texY/8, texY%8
	tilesWide := e.width / 8

	var tileNumber int
	if obj1D {
		tileNumber = e.tileBase + tileY*tilesWide + tileX
	} else {
		rowStride := 32
		if e.eightBpp {
			rowStride = 16
		}
		tileNumber = e.tileBase + tileY*rowStride + tileX
	}

	const objBase = 0x10000
	if e.eightBpp {
		tileNumber &^= 1 // 8bpp tile numbers are even; they consume two 4bpp slots
		addr := uint32(objBase + tileNumber*32 + inY*8 + inX)
		idx = p.vram.Read8(addr)
		return idx, 0
	}

	addr := uint32(objBase + tileNumber*32 + (inY*8+inX)/2)
	b := p.vram.Read8(addr)
	if inX%2 == 0 {
		idx = b & 0xF
	} else {
		idx = b >> 4
	}
	palOffset = uint16(e.paletteBank) * 16
	return idx, palOffset
}
