// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9106

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Bus is the 4-wire SPI link to the controller: chip select, data/command
// select and the data line.
//
// The driver brackets every exchange with Select and Release. Implementations
// that let the SPI controller drive chip select can make both no-ops.
type Bus interface {
	Select() error
	Release() error
	// DC drives the data/command line: gpio.Low for a command byte, gpio.High
	// for arguments and pixels.
	DC(l gpio.Level) error
	Write(w []byte) error
}

// Line is an output line, such as the reset pin. Any gpio.PinOut is a Line.
type Line interface {
	Out(l gpio.Level) error
}

// spiBus is a Bus over a periph SPI connection.
type spiBus struct {
	c  conn.Conn
	dc gpio.PinOut
	// cs is nil when the SPI port drives chip select itself.
	cs        gpio.PinOut
	maxTxSize int
}

func (s *spiBus) String() string {
	if s.cs == nil {
		return fmt.Sprintf("%s, %s", s.c, s.dc)
	}
	return fmt.Sprintf("%s, %s, %s", s.c, s.dc, s.cs)
}

func (s *spiBus) Select() error {
	if s.cs == nil {
		return nil
	}
	return s.cs.Out(gpio.Low)
}

func (s *spiBus) Release() error {
	if s.cs == nil {
		return nil
	}
	return s.cs.Out(gpio.High)
}

func (s *spiBus) DC(l gpio.Level) error {
	return s.dc.Out(l)
}

// Write splits w in transfers the SPI driver accepts.
func (s *spiBus) Write(w []byte) error {
	for len(w) != 0 {
		n := len(w)
		if n > s.maxTxSize {
			n = s.maxTxSize
		}
		if err := s.c.Tx(w[:n], nil); err != nil {
			return err
		}
		w = w[n:]
	}
	return nil
}

// errorHandler keeps the first bus error and turns every later operation into
// a no-op.
type errorHandler struct {
	b     Bus
	sleep func(time.Duration)
	err   error
	// held is set while a transaction keeps chip select asserted.
	held bool
}

func (eh *errorHandler) selectBus() {
	if eh.err != nil {
		return
	}
	eh.err = eh.b.Select()
}

// release always drives chip select back up so an error does not leave the
// bus claimed.
func (eh *errorHandler) release() {
	if err := eh.b.Release(); eh.err == nil {
		eh.err = err
	}
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.b.DC(l)
}

func (eh *errorHandler) write(w []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.b.Write(w)
}

func (eh *errorHandler) sendCommand(cmd byte) {
	if eh.err != nil {
		return
	}
	if !eh.held {
		eh.selectBus()
		defer eh.release()
	}
	eh.dcOut(gpio.Low)
	eh.write([]byte{cmd})
	eh.dcOut(gpio.High)
}

func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil || len(data) == 0 {
		return
	}
	if !eh.held {
		eh.selectBus()
		defer eh.release()
	}
	eh.dcOut(gpio.High)
	eh.write(data)
}

func (eh *errorHandler) delay(d time.Duration) {
	if eh.err != nil {
		return
	}
	eh.sleep(d)
}

func (eh *errorHandler) begin() {
	eh.selectBus()
	eh.held = true
}

func (eh *errorHandler) end() {
	eh.held = false
	eh.release()
}

func (eh *errorHandler) rstOut(rst Line, l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = rst.Out(l)
}
