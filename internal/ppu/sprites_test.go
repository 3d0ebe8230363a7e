package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeOBJ(p *PPU, index int, y, x, shape, size, tileBase, priority int) {
	base := uint32(index * 8)
	p.WriteOAM16(base, uint16(y&0xFF)|uint16(shape)<<14)
	p.WriteOAM16(base+2, uint16(x&0x1FF)|uint16(size)<<14)
	p.WriteOAM16(base+4, uint16(tileBase)|uint16(priority)<<10)
}

func TestReadOBJDecodesSquare16x16(t *testing.T) {
	p := newTestPPU()
	writeOBJ(p, 0, 10, 20, 0, 1, 5, 2)

	e := p.readOBJ(0)
	assert.Equal(t, 10, e.y)
	assert.Equal(t, 20, e.x)
	assert.Equal(t, 16, e.width)
	assert.Equal(t, 16, e.height)
	assert.Equal(t, 5, e.tileBase)
	assert.Equal(t, 2, e.priority)
	assert.Equal(t, 0, e.affineMode)
}

func TestReadOBJDecodesAffineMode(t *testing.T) {
	p := newTestPPU()
	base := uint32(0)
	p.WriteOAM16(base, 1<<8) // rsFlag only -> affine normal
	e := p.readOBJ(0)
	assert.Equal(t, 1, e.affineMode)
}

func TestReadOBJDecodesHiddenMode(t *testing.T) {
	p := newTestPPU()
	p.WriteOAM16(0, 1<<9) // rsExtra without rsFlag -> hidden
	e := p.readOBJ(0)
	assert.Equal(t, 2, e.affineMode)
}

func TestReadOBJSignExtendsNegativeX(t *testing.T) {
	p := newTestPPU()
	p.WriteOAM16(2, 511) // x field all-ones -> -1
	e := p.readOBJ(0)
	assert.Equal(t, -1, e.x)
}

func TestObjPixel1DMappingWalksTilesHorizontally(t *testing.T) {
	p := newTestPPU()
	e := objEntry{width: 16, height: 8, tileBase: 0, eightBpp: false}
	p.WriteVRAM16(0x10000+1*32, 0x07) // tile1 (second 8x8 column) px0 = low nibble 7; byte writes to OBJ VRAM are ignored

	idx, _ := p.objPixel(e, 8, 0, true)
	assert.Equal(t, uint8(7), idx)
}

func TestObjPixel8bppForcesEvenTileNumber(t *testing.T) {
	p := newTestPPU()
	e := objEntry{width: 8, height: 8, tileBase: 1, eightBpp: true}
	p.WriteVRAM16(0x10000, 9) // tile0 (tileBase 1 rounds down to 0), px(0,0)

	idx, _ := p.objPixel(e, 0, 0, true)
	assert.Equal(t, uint8(9), idx)
}

func blankObjRow() (row [ScreenWidth]pixel) {
	for x := range row {
		row[x] = pixel{transparent: true, source: sourceOBJ, priority: 4}
	}
	return
}

func TestRenderSpritesSkipsHiddenEntries(t *testing.T) {
	p := newTestPPU()
	p.WriteOAM16(0, 1<<9) // hidden

	row := blankObjRow()
	var winMask [ScreenWidth]bool
	p.renderSprites(0, &row, &winMask)

	assert.True(t, row[0].transparent)
}

func TestRenderSpritesDrawsOpaqueTexel(t *testing.T) {
	p := newTestPPU()
	writeOBJ(p, 0, 0, 0, 0, 0, 0, 1) // 8x8 square at (0,0)
	p.WriteVRAM16(0x10000, 0x03)     // tile0 px(0,0) low nibble = 3
	p.WritePRAM16(0x200+3*2, 0x4444) // sprite palette bank0 index3

	row := blankObjRow()
	var winMask [ScreenWidth]bool
	p.renderSprites(0, &row, &winMask)

	assert.Equal(t, uint16(0x4444), row[0].color15)
	assert.Equal(t, 1, row[0].priority)
}

func TestRenderSpritesWindowModeMarksWinObjMaskWithoutDrawing(t *testing.T) {
	p := newTestPPU()
	base := uint32(0)
	p.WriteOAM16(base, 2<<10) // gfxMode 2 (window)
	p.WriteOAM16(base+2, 0)
	p.WriteOAM16(base+4, 1)          // tile 1: the all-zero entries 1-127 use blank tile 0
	p.WriteVRAM16(0x10000+1*32, 0x01) // tile1 px(0,0)

	row := blankObjRow()
	var winMask [ScreenWidth]bool
	p.renderSprites(0, &row, &winMask)

	assert.True(t, winMask[0])
	assert.True(t, row[0].transparent)
}
