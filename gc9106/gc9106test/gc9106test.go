// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gc9106test is meant to be used to test drivers over a fake GC9106
// bus and a software model of the controller memory.
package gc9106test

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
)

// Op is one write recorded by Bus.
type Op struct {
	// DC is the level of the data/command line during the write.
	DC gpio.Level
	W  []byte
}

// Bus implements gc9106.Bus and records every write.
//
// When Panel is set, the bytes are also fed to it.
type Bus struct {
	sync.Mutex
	Ops []Op
	// Selects counts the Select calls.
	Selects int
	// Selected is true between Select and Release.
	Selected bool
	// DCLevel is the current level of the data/command line.
	DCLevel gpio.Level
	// Panel, when set, decodes the traffic.
	Panel *Panel
	// Err, when set, is returned by Write instead of recording it.
	Err error
}

func (b *Bus) String() string {
	return "gc9106test.Bus"
}

// Select implements gc9106.Bus.
func (b *Bus) Select() error {
	b.Lock()
	defer b.Unlock()
	b.Selects++
	b.Selected = true
	return nil
}

// Release implements gc9106.Bus.
func (b *Bus) Release() error {
	b.Lock()
	defer b.Unlock()
	b.Selected = false
	return nil
}

// DC implements gc9106.Bus.
func (b *Bus) DC(l gpio.Level) error {
	b.Lock()
	defer b.Unlock()
	b.DCLevel = l
	return nil
}

// Write implements gc9106.Bus.
//
// Writing without a Select fails, like a controller ignoring a deselected
// bus would.
func (b *Bus) Write(w []byte) error {
	b.Lock()
	defer b.Unlock()
	if b.Err != nil {
		return b.Err
	}
	if !b.Selected {
		return errors.New("gc9106test: write while chip select is released")
	}
	b.Ops = append(b.Ops, Op{DC: b.DCLevel, W: append([]byte(nil), w...)})
	if b.Panel != nil {
		if b.DCLevel == gpio.Low {
			for _, c := range w {
				b.Panel.Command(c)
			}
		} else {
			b.Panel.Data(w)
		}
	}
	return nil
}

// Commands returns the opcodes written so far, in order.
func (b *Bus) Commands() []byte {
	b.Lock()
	defer b.Unlock()
	var out []byte
	for _, op := range b.Ops {
		if op.DC == gpio.Low {
			out = append(out, op.W...)
		}
	}
	return out
}

// Reset clears the recorded writes.
func (b *Bus) Reset() {
	b.Lock()
	defer b.Unlock()
	b.Ops = nil
	b.Selects = 0
}

// Line implements gc9106.Line and records every level driven on it.
type Line struct {
	sync.Mutex
	N      string
	Levels []gpio.Level
	// Err, when set, is returned by Out.
	Err error
}

func (l *Line) String() string {
	return l.N
}

// Out implements gc9106.Line.
func (l *Line) Out(v gpio.Level) error {
	l.Lock()
	defer l.Unlock()
	if l.Err != nil {
		return fmt.Errorf("%s: %w", l.N, l.Err)
	}
	l.Levels = append(l.Levels, v)
	return nil
}
