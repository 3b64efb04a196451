// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9106

import (
	"github.com/GermanBionicSystems/tft/gc9106/image332"
	"github.com/GermanBionicSystems/tft/gc9106/image565"
)

// wire332 maps every 3-3-2 pixel to its big endian RGB565 encoding.
var wire332 = func() (t [256][2]byte) {
	for i := range t {
		t[i][0], t[i][1] = image565.FromRGB(image332.Color(i).RGB()).Bytes()
	}
	return t
}()

// transmit writes pix to the glass window of g in a single transaction.
//
// scratch receives the RGB565 expansion of Indexed8 frames and must hold
// 2*W*H bytes; it is unused for RGB565 frames, which go out as is.
func transmit(tx transactor, pix []byte, g Geometry, f PixelFormat, scratch []byte) {
	x1, x2, y1, y2 := g.addrWindow()
	tx.begin()
	tx.sendCommand(columnAddrSet)
	tx.sendData([]byte{byte(x1 >> 8), byte(x1), byte(x2 >> 8), byte(x2)})
	tx.sendCommand(rowAddrSet)
	tx.sendData([]byte{byte(y1 >> 8), byte(y1), byte(y2 >> 8), byte(y2)})
	tx.sendCommand(memoryWrite)
	if f == Indexed8 {
		expand332(scratch, pix)
		tx.sendData(scratch[:2*len(pix)])
	} else {
		tx.sendData(pix)
	}
	tx.end()
}

// expand332 converts 3-3-2 pixels in src to RGB565 in dst.
func expand332(dst, src []byte) {
	for i, c := range src {
		dst[2*i], dst[2*i+1] = wire332[c][0], wire332[c][1]
	}
}
