package ppu

// renderRegularBG fills row with BGn's contribution to scanline y for a
// regular (non-affine) tiled background.
func (p *PPU) renderRegularBG(n int, y int, row *[ScreenWidth]pixel) {
	charBase := p.regs.bgCharBase(n)
	mapBase := p.regs.bgMapBase(n)
	size := p.regs.bgScreenSize(n)
	eightBpp := p.regs.bg256Color(n)
	priority := p.regs.bgPriority(n)

	mapWidthBlocks, mapHeightBlocks := 1, 1
	switch size {
	case 1:
		mapWidthBlocks = 2
	case 2:
		mapHeightBlocks = 2
	case 3:
		mapWidthBlocks, mapHeightBlocks = 2, 2
	}

	scrollY := int(p.regs.BGVOFS[n])
	scrollX := int(p.regs.BGHOFS[n])
	mapY := (y + scrollY) % (256 * mapHeightBlocks)

	for x := 0; x < ScreenWidth; x++ {
		mapX := (x + scrollX) % (256 * mapWidthBlocks)

		blockX, blockY := mapX/256, mapY/256
		inBlockX, inBlockY := mapX%256, mapY%256
		tileCol, tileRow := inBlockX/8, inBlockY/8

		var blockIndex int
		switch size {
		case 0:
			blockIndex = 0
		case 1:
			blockIndex = blockX
		case 2:
			blockIndex = blockY
		case 3:
			blockIndex = blockY*2 + blockX
		}

		entryAddr := mapBase + uint32(blockIndex)*0x800 + uint32(tileRow*32+tileCol)*2
		entry := p.vram.Read16(entryAddr)
		tileIndex := entry & 0x3FF
		hFlip := entry&(1<<10) != 0
		vFlip := entry&(1<<11) != 0
		paletteBank := uint16((entry >> 12) & 0xF)

		px, py := inBlockX%8, inBlockY%8
		if hFlip {
			px = 7 - px
		}
		if vFlip {
			py = 7 - py
		}

		var colorIdx uint8
		var palOffset uint16
		if eightBpp {
			tileAddr := charBase + uint32(tileIndex)*64 + uint32(py*8+px)
			colorIdx = p.vram.Read8(tileAddr)
		} else {
			tileAddr := charBase + uint32(tileIndex)*32 + uint32(py*8+px)/2
			b := p.vram.Read8(tileAddr)
			if px%2 == 0 {
				colorIdx = b & 0xF
			} else {
				colorIdx = b >> 4
			}
			palOffset = paletteBank * 16
		}

		if colorIdx == 0 {
			row[x] = pixel{transparent: true, source: n, priority: priority}
			continue
		}
		color := p.pram.Read16(uint32(palOffset+uint16(colorIdx)) * 2)
		row[x] = pixel{color15: color, priority: priority, source: n}
	}
}

// renderAffineBG fills row with BG2/3's contribution for an affine
// background. ref/dx/dy are the per-frame-advanced internal reference
// point and per-dot step the caller (scanline driver) maintains, since
// affine state persists and advances once per HBlank across the frame
// rather than being recomputed from registers each line.
func (p *PPU) renderAffineBG(n int, refX, refY int32, pa, pc int16, row *[ScreenWidth]pixel) {
	size := p.regs.bgScreenSize(n)
	mapSizeTiles := [4]int{16, 32, 64, 128}[size]
	mapSizePixels := mapSizeTiles * 8
	wrap := p.regs.bgWraparound(n)
	charBase := p.regs.bgCharBase(n)
	mapBase := p.regs.bgMapBase(n)
	priority := p.regs.bgPriority(n)

	x, y := refX, refY
	for dot := 0; dot < ScreenWidth; dot++ {
		px, py := int(x>>8), int(y>>8)
		x += int32(pa)
		y += int32(pc)

		if px < 0 || py < 0 || px >= mapSizePixels || py >= mapSizePixels {
			if !wrap {
				row[dot] = pixel{transparent: true, source: n, priority: priority}
				continue
			}
			px = ((px % mapSizePixels) + mapSizePixels) % mapSizePixels
			py = ((py % mapSizePixels) + mapSizePixels) % mapSizePixels
		}

		tileCol, tileRow := px/8, py/8
		entryAddr := mapBase + uint32(tileRow*mapSizeTiles+tileCol)
		tileIndex := p.vram.Read8(entryAddr)

		inX, inY := px%8, py%8
		tileAddr := charBase + uint32(tileIndex)*64 + uint32(inY*8+inX)
		colorIdx := p.vram.Read8(tileAddr)

		if colorIdx == 0 {
			row[dot] = pixel{transparent: true, source: n, priority: priority}
			continue
		}
		color := p.pram.Read16(uint32(colorIdx) * 2)
		row[dot] = pixel{color15: color, priority: priority, source: n}
	}
}
