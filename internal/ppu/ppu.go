// Package ppu implements the scanline renderer and compositor: six
// background modes, regular and affine tile pipelines, sprites with
// 1D/2D character mapping, two rectangular windows plus an OBJ window, and
// alpha-blend/brightness post effects.
package ppu

import (
	"image"
	"image/color"

	"gbacore/internal/memory"
	"gbacore/internal/scheduler"
	"gbacore/internal/syscontrol"
)

const (
	ScreenWidth   = 240
	ScreenHeight  = 160
	cyclesPerLine = 1232
	hblankOffset  = 960 + 46
	totalLines    = 228
)

// DMATrigger is the subset of *dma.Controller the PPU drives at HBlank and
// VBlank, kept as an interface to avoid ppu<->dma import churn.
type DMATrigger interface {
	TriggerHBlank()
	TriggerVBlank()
}

// PPU owns PRAM/VRAM/OAM, the LCD register block, and the per-frame pixel
// buffer the consumer surface exposes as get_frame_buffer().
type PPU struct {
	regs Registers

	pram *memory.PRAM
	vram *memory.VRAM
	oam  *memory.OAM

	frame      *image.RGBA
	frameReady bool

	sched *scheduler.Scheduler
	irqs  *syscontrol.Controller
	dma   DMATrigger

	// affine reference points, advanced once per HBlank within a frame and
	// reloaded from BG2X/Y, BG3X/Y on any write to those registers.
	bg2RefX, bg2RefY int32
	bg3RefX, bg3RefY int32
}

func New(sched *scheduler.Scheduler, irqs *syscontrol.Controller) *PPU {
	p := &PPU{
		pram:  memory.NewPRAM(),
		vram:  memory.NewVRAM(),
		oam:   memory.NewOAM(),
		frame: image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
		sched: sched,
		irqs:  irqs,
	}
	sched.Register(scheduler.VDraw, p.onVDraw)
	sched.Register(scheduler.HBlank, p.onHBlank)
	sched.Register(scheduler.VBlank, p.onVBlank)
	return p
}

// AttachDMA wires the HBlank/VBlank DMA triggers; called once at container
// setup after both the PPU and DMA controller exist.
func (p *PPU) AttachDMA(d DMATrigger) { p.dma = d }

// Start arms the first VDraw event; called once after the BIOS/cartridge
// are loaded and the scheduler is otherwise idle.
func (p *PPU) Start() { p.sched.Schedule(scheduler.VDraw, cyclesPerLine) }

func (p *PPU) onVDraw(extraCycles uint64) {
	p.regs.DISPSTAT &^= 1 << 1 // clear HBlank flag at line start
	p.sched.Schedule(scheduler.HBlank, hblankOffset-extraCycles)
}

// onHBlank runs the per-scanline pipeline's first step: render the
// just-finished visible line, raise HBlank flag/IRQ, trigger HBlank DMA.
func (p *PPU) onHBlank(extraCycles uint64) {
	p.regs.DISPSTAT |= 1 << 1
	y := int(p.regs.VCOUNT)
	if y < ScreenHeight {
		p.renderScanline(y)
		if p.dma != nil {
			p.dma.TriggerHBlank()
		}
	}
	if p.regs.hblankIRQEnabled() {
		p.irqs.RequestInterrupt(syscontrol.IRQHBlank)
	}

	p.advanceAffineRefs()
	p.sched.Schedule(scheduler.VBlank, cyclesPerLine-hblankOffset-extraCycles)
}

func (p *PPU) onVBlank(extraCycles uint64) {
	p.regs.DISPSTAT &^= 1 << 1
	p.regs.VCOUNT++
	if int(p.regs.VCOUNT) >= totalLines {
		p.regs.VCOUNT = 0
	}
	y := int(p.regs.VCOUNT)

	if y == ScreenHeight {
		p.regs.DISPSTAT |= 1 << 0
		if p.regs.vblankIRQEnabled() {
			p.irqs.RequestInterrupt(syscontrol.IRQVBlank)
		}
		if p.dma != nil {
			p.dma.TriggerVBlank()
		}
		p.frameReady = true
		p.bg2RefX, p.bg2RefY = p.regs.BG2X, p.regs.BG2Y
		p.bg3RefX, p.bg3RefY = p.regs.BG3X, p.regs.BG3Y
	}
	if y == 0 {
		p.regs.DISPSTAT &^= 1 << 0
	}

	if uint16(y) == p.regs.vcountSetting() {
		p.regs.DISPSTAT |= 1 << 2
		if p.regs.vcountIRQEnabled() {
			p.irqs.RequestInterrupt(syscontrol.IRQVCount)
		}
	} else {
		p.regs.DISPSTAT &^= 1 << 2
	}

	p.sched.Schedule(scheduler.VDraw, cyclesPerLine-extraCycles)
}

func (p *PPU) advanceAffineRefs() {
	p.bg2RefX += int32(int16(p.regs.BG2PB))
	p.bg2RefY += int32(int16(p.regs.BG2PD))
	p.bg3RefX += int32(int16(p.regs.BG3PB))
	p.bg3RefY += int32(int16(p.regs.BG3PD))
}

// IsFrameReady / ConsumeFrame implement the get_frame_buffer() surface:
// the container polls readiness once per VBlank and copies out the frame.
func (p *PPU) IsFrameReady() bool { return p.frameReady }

func (p *PPU) ConsumeFrame() *image.RGBA {
	p.frameReady = false
	return p.frame
}

// renderScanline implements the Mode 0-5 background dispatch, plus
// sprites, windows and compositing for one visible line.
func (p *PPU) renderScanline(y int) {
	if p.regs.forceBlank() {
		for x := 0; x < ScreenWidth; x++ {
			p.frame.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
		return
	}

	var layers [4][ScreenWidth]pixel
	var objRow [ScreenWidth]pixel
	var objWindow [ScreenWidth]bool
	for x := range objRow {
		objRow[x] = pixel{transparent: true, source: sourceOBJ, priority: 4}
	}

	mode := p.regs.bgMode()
	switch mode {
	case 0:
		for n := 0; n < 4; n++ {
			if p.regs.bgEnabled(n) {
				p.renderRegularBG(n, y, &layers[n])
			} else {
				layers[n] = blankRow(n)
			}
		}
	case 1:
		for n := 0; n < 2; n++ {
			if p.regs.bgEnabled(n) {
				p.renderRegularBG(n, y, &layers[n])
			} else {
				layers[n] = blankRow(n)
			}
		}
		layers[2] = blankRow(2)
		if p.regs.bgEnabled(2) {
			p.renderAffineBG(2, p.bg2RefX, p.bg2RefY, int16(p.regs.BG2PA), int16(p.regs.BG2PC), &layers[2])
		}
		layers[3] = blankRow(3)
	case 2:
		layers[0], layers[1] = blankRow(0), blankRow(1)
		if p.regs.bgEnabled(2) {
			p.renderAffineBG(2, p.bg2RefX, p.bg2RefY, int16(p.regs.BG2PA), int16(p.regs.BG2PC), &layers[2])
		} else {
			layers[2] = blankRow(2)
		}
		if p.regs.bgEnabled(3) {
			p.renderAffineBG(3, p.bg3RefX, p.bg3RefY, int16(p.regs.BG3PA), int16(p.regs.BG3PC), &layers[3])
		} else {
			layers[3] = blankRow(3)
		}
	case 3:
		p.renderMode3(y, &layers[2])
		layers[0], layers[1], layers[3] = blankRow(0), blankRow(1), blankRow(3)
	case 4:
		p.renderMode4(y, &layers[2])
		layers[0], layers[1], layers[3] = blankRow(0), blankRow(1), blankRow(3)
	case 5:
		p.renderMode5(y, &layers[2])
		layers[0], layers[1], layers[3] = blankRow(0), blankRow(1), blankRow(3)
	}

	if p.regs.objEnabled() {
		p.renderSprites(y, &objRow, &objWindow)
	}

	windowsActive := p.regs.anyWindowEnabled()

	for x := 0; x < ScreenWidth; x++ {
		var mask windowMask
		if windowsActive {
			mask = p.maskForDot(x, y, objWindow[x])
		} else {
			mask = windowMask{bg: [4]bool{true, true, true, true}, obj: true, effects: true}
		}

		candidates := make([]pixel, 0, 5)
		for n := 0; n < 4; n++ {
			if mask.bg[n] && !layers[n][x].transparent {
				candidates = append(candidates, layers[n][x])
			}
		}
		if mask.obj && !objRow[x].transparent {
			candidates = append(candidates, objRow[x])
		}

		a, b, hasA, hasB := topTwo(candidates)
		p.frame.SetRGBA(x, y, p.compositeDot(a, b, hasA, hasB, mask.effects))
	}
}

func blankRow(n int) (row [ScreenWidth]pixel) {
	for i := range row {
		row[i] = pixel{transparent: true, source: n, priority: 4}
	}
	return
}

// topTwo partial-sorts candidates by (priority ascending, source index
// ascending) and keeps the first two.
func topTwo(candidates []pixel) (a, b pixel, hasA, hasB bool) {
	best, second := -1, -1
	for i, c := range candidates {
		if best == -1 || less(c, candidates[best]) {
			second = best
			best = i
		} else if second == -1 || less(c, candidates[second]) {
			second = i
		}
	}
	if best != -1 {
		a, hasA = candidates[best], true
	}
	if second != -1 {
		b, hasB = candidates[second], true
	}
	return
}

func less(x, y pixel) bool {
	if x.priority != y.priority {
		return x.priority < y.priority
	}
	return x.source < y.source
}

// compositeDot resolves the winning pixel's final color: backdrop
// fallback, plain opaque draw, or the alpha-blend/brightness effect.
func (p *PPU) compositeDot(a, b pixel, hasA, hasB, effectsAllowed bool) color.RGBA {
	if !hasA {
		bd := p.pram.Read16(0)
		r, g, bl := bgr555ToRGBA(bd)
		return color.RGBA{r, g, bl, 255}
	}

	alphaBlend := a.source == sourceOBJ && a.objSemiTransparent && hasB && p.regs.isTarget2(b.source)
	if !alphaBlend && (!effectsAllowed || !p.regs.isTarget1(a.source)) {
		r, g, bl := bgr555ToRGBA(a.color15)
		return color.RGBA{r, g, bl, 255}
	}

	if alphaBlend || (effectsAllowed && p.regs.blendMode() == 1) {
		if !hasB {
			r, g, bl := bgr555ToRGBA(a.color15)
			return color.RGBA{r, g, bl, 255}
		}
		eva, evb := p.regs.evaEVB()
		ar, ag, ab := bgr555ToRGBA(a.color15)
		br, bg, bb := bgr555ToRGBA(b.color15)
		r := clamp31((int(ar/8)*eva + int(br/8)*evb) >> 4)
		g := clamp31((int(ag/8)*eva + int(bg/8)*evb) >> 4)
		bl := clamp31((int(ab/8)*eva + int(bb/8)*evb) >> 4)
		return color.RGBA{r * 8, g * 8, bl * 8, 255}
	}

	switch p.regs.blendMode() {
	case 2:
		ar, ag, ab := bgr555ToRGBA(a.color15)
		evy := p.regs.evy()
		r := clamp31(int(ar/8) + ((31-int(ar/8))*evy)>>4)
		g := clamp31(int(ag/8) + ((31-int(ag/8))*evy)>>4)
		bl := clamp31(int(ab/8) + ((31-int(ab/8))*evy)>>4)
		return color.RGBA{r * 8, g * 8, bl * 8, 255}
	case 3:
		ar, ag, ab := bgr555ToRGBA(a.color15)
		evy := p.regs.evy()
		r := clamp31(int(ar/8) - (int(ar/8)*evy)>>4)
		g := clamp31(int(ag/8) - (int(ag/8)*evy)>>4)
		bl := clamp31(int(ab/8) - (int(ab/8)*evy)>>4)
		return color.RGBA{r * 8, g * 8, bl * 8, 255}
	default:
		r, g, bl := bgr555ToRGBA(a.color15)
		return color.RGBA{r, g, bl, 255}
	}
}

// renderMode3 draws the single 15bpp 240x160 bitmap directly into layers[2]
// as opaque pixels (a bitmap mode has no transparency against lower BGs).
func (p *PPU) renderMode3(y int, row *[ScreenWidth]pixel) {
	base := uint32(y * ScreenWidth * 2)
	for x := 0; x < ScreenWidth; x++ {
		c := p.vram.Read16(base + uint32(x*2))
		row[x] = pixel{color15: c, priority: p.regs.bgPriority(2), source: sourceBG2}
	}
}

// renderMode4 draws the 8bpp paletted bitmap (two selectable frames).
func (p *PPU) renderMode4(y int, row *[ScreenWidth]pixel) {
	base := p.regs.displayFrameSelect() + uint32(y*ScreenWidth)
	for x := 0; x < ScreenWidth; x++ {
		idx := p.vram.Read8(base + uint32(x))
		if idx == 0 {
			row[x] = pixel{transparent: true, source: sourceBG2, priority: p.regs.bgPriority(2)}
			continue
		}
		c := p.pram.Read16(uint32(idx) * 2)
		row[x] = pixel{color15: c, priority: p.regs.bgPriority(2), source: sourceBG2}
	}
}

// renderMode5 draws the 15bpp 160x128 bitmap (two frames) at the top-left
// of the 240x160 output, with the rest of the screen left transparent.
func (p *PPU) renderMode5(y int, row *[ScreenWidth]pixel) {
	const w, h = 160, 128
	base := p.regs.displayFrameSelect()
	if y >= h {
		*row = blankRow(2)
		return
	}
	for x := 0; x < ScreenWidth; x++ {
		if x >= w {
			row[x] = pixel{transparent: true, source: sourceBG2, priority: p.regs.bgPriority(2)}
			continue
		}
		addr := base + uint32(y*w*2) + uint32(x*2)
		c := p.vram.Read16(addr)
		row[x] = pixel{color15: c, priority: p.regs.bgPriority(2), source: sourceBG2}
	}
}
