// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9106test

import (
	"image"
	"image/color"
	"sync"

	"github.com/GermanBionicSystems/tft/gc9106/image565"
)

// Controller memory size.
const (
	RAMWidth  = 132
	RAMHeight = 162
)

const (
	opSWRESET = 0x01
	opSLPOUT  = 0x11
	opINVOFF  = 0x20
	opINVON   = 0x21
	opDISPOFF = 0x28
	opDISPON  = 0x29
	opCASET   = 0x2A
	opRASET   = 0x2B
	opRAMWR   = 0x2C
	opMADCTL  = 0x36
)

// Panel is a software model of the controller memory.
//
// It understands the addressing, memory write, mode and power commands.
// Arguments of any other command are counted and dropped. Color order and
// inversion are recorded but not applied to RAM.
type Panel struct {
	mu sync.Mutex
	// RAM is the controller memory, one pixel per RGB565 word.
	RAM *image.RGBA

	MADCTL   byte
	Inverted bool
	On       bool
	Asleep   bool
	// Commands counts the opcodes received.
	Commands int
	// Pixels counts the pixels written through RAMWR.
	Pixels int

	cmd  byte
	args []byte
	// Address window and write pointer.
	x1, x2, y1, y2 int
	cx, cy         int
	half           []byte
}

// NewPanel returns a Panel in its power on state.
func NewPanel() *Panel {
	p := &Panel{RAM: image.NewRGBA(image.Rect(0, 0, RAMWidth, RAMHeight))}
	p.powerOn()
	return p
}

func (p *Panel) powerOn() {
	p.MADCTL = 0
	p.Inverted = false
	p.On = false
	p.Asleep = true
	p.x1, p.x2, p.y1, p.y2 = 0, RAMWidth-1, 0, RAMHeight-1
	p.cmd = 0
	p.args = nil
	p.half = nil
}

// Command feeds one opcode.
func (p *Panel) Command(op byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Commands++
	p.cmd = op
	p.args = p.args[:0]
	p.half = nil
	switch op {
	case opSWRESET:
		p.powerOn()
	case opSLPOUT:
		p.Asleep = false
	case opINVOFF:
		p.Inverted = false
	case opINVON:
		p.Inverted = true
	case opDISPOFF:
		p.On = false
	case opDISPON:
		p.On = true
	case opRAMWR:
		p.cx, p.cy = p.x1, p.y1
	}
}

// Data feeds argument or pixel bytes for the last opcode.
func (p *Panel) Data(b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.cmd {
	case opRAMWR:
		p.pixels(b)
	case opCASET, opRASET:
		p.args = append(p.args, b...)
		if len(p.args) < 4 {
			return
		}
		lo := int(p.args[0])<<8 | int(p.args[1])
		hi := int(p.args[2])<<8 | int(p.args[3])
		if p.cmd == opCASET {
			p.x1, p.x2 = lo, hi
		} else {
			p.y1, p.y2 = lo, hi
		}
		p.args = p.args[:0]
	case opMADCTL:
		if len(b) != 0 {
			p.MADCTL = b[len(b)-1]
		}
	}
}

func (p *Panel) pixels(b []byte) {
	if len(p.half) != 0 {
		b = append(p.half, b...)
		p.half = nil
	}
	for ; len(b) >= 2; b = b[2:] {
		p.Pixels++
		if p.cx < RAMWidth && p.cy < RAMHeight {
			c := image565.Color(uint16(b[0])<<8 | uint16(b[1]))
			r, g, bl := c.RGB()
			p.RAM.SetRGBA(p.cx, p.cy, color.RGBA{r, g, bl, 0xFF})
		}
		if p.cx++; p.cx > p.x2 {
			p.cx = p.x1
			if p.cy++; p.cy > p.y2 {
				p.cy = p.y1
			}
		}
	}
	if len(b) == 1 {
		p.half = []byte{b[0]}
	}
}

// Window returns the current address window, inclusive bounds converted to
// an image.Rectangle.
func (p *Panel) Window() image.Rectangle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return image.Rect(p.x1, p.y1, p.x2+1, p.y2+1)
}

// Snapshot returns a copy of the memory area r, translated to {0, 0}.
func (p *Panel) Snapshot(r image.Rectangle) *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	r = r.Intersect(p.RAM.Rect)
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		i := p.RAM.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], p.RAM.Pix[i:i+4*r.Dx()])
	}
	return out
}
