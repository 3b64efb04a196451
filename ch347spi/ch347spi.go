// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ch347spi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/serfreeman1337/go-ch347"
	"github.com/sstallion/go-hid"
	"periph.io/x/conn/v3/gpio"
)

// Bridge pins used as panel control lines.
const (
	DC  = ch347.GPIO1 // MISO
	RST = ch347.GPIO5 // SCS1
)

const (
	vendorID  = 0x1a86
	productID = 0x55dc
	// product string and interface of the SPI+I2C+GPIO function.
	product = "HID To UART+SPI+I2C"
	iface   = 1

	readTimeout = time.Second
	// maxTxSize is the largest write handed to the bridge at once.
	maxTxSize = 4096
)

// ErrNotFound is returned by Open when no bridge is plugged in.
var ErrNotFound = errors.New("ch347spi: no CH347 found")

// Dev is a gc9106.Bus over a CH347.
type Dev struct {
	mu  sync.Mutex
	io  *ch347.IO
	dev *hid.Device
	// path is the hidraw node, empty when the IO was provided by the caller.
	path string
}

// Open finds the first CH347 and configures its SPI port.
func Open() (*Dev, error) {
	path, err := findPath()
	if err != nil {
		return nil, err
	}
	dev, err := hid.OpenPath(path)
	if err != nil {
		return nil, fmt.Errorf("ch347spi: %s: %w", path, err)
	}
	d, err := New(&ch347.IO{Dev: &timeoutDevice{dev}})
	if err != nil {
		_ = dev.Close()
		return nil, err
	}
	d.dev = dev
	d.path = path
	return d, nil
}

// New configures the SPI port of an already opened bridge: mode 0, fastest
// clock, MSB first.
func New(io *ch347.IO) (*Dev, error) {
	if io == nil {
		return nil, errors.New("ch347spi: nil IO")
	}
	if err := io.SetSPI(ch347.SPIMode0, ch347.SPIClock0, ch347.SPIByteOrderMSB); err != nil {
		return nil, fmt.Errorf("ch347spi: configuring SPI: %w", err)
	}
	return &Dev{io: io}, nil
}

func (d *Dev) String() string {
	if d.path == "" {
		return "CH347"
	}
	return "CH347(" + d.path + ")"
}

// Select implements gc9106.Bus.
func (d *Dev) Select() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cs(true)
}

// Release implements gc9106.Bus.
func (d *Dev) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cs(false)
}

// DC implements gc9106.Bus.
func (d *Dev) DC(l gpio.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pin(DC, l)
}

// Write implements gc9106.Bus.
func (d *Dev) Write(w []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range chunks(w, maxTxSize) {
		if err := d.io.SPI(c, nil); err != nil {
			return fmt.Errorf("ch347spi: %w", err)
		}
	}
	return nil
}

// ResetLine returns the panel reset line, to be used as gc9106.Opts.RST.
func (d *Dev) ResetLine() *ResetLine {
	return &ResetLine{d: d}
}

// Close releases the USB device when it was opened by Open.
func (d *Dev) Close() error {
	if d.dev == nil {
		return nil
	}
	err := d.dev.Close()
	d.dev = nil
	return err
}

// ResetLine drives the RST pin of the bridge.
type ResetLine struct {
	d *Dev
}

func (r *ResetLine) String() string {
	return r.d.String() + ".RST"
}

// Out implements gc9106.Line.
func (r *ResetLine) Out(l gpio.Level) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	return r.d.pin(RST, l)
}

func (d *Dev) cs(enable bool) error {
	if err := d.io.SetCS(enable); err != nil {
		return fmt.Errorf("ch347spi: CS: %w", err)
	}
	return nil
}

func (d *Dev) pin(p ch347.Pin, l gpio.Level) error {
	if err := d.io.WritePin(p, true, bool(l)); err != nil {
		return fmt.Errorf("ch347spi: GPIO%d: %w", p, err)
	}
	return nil
}

// chunks splits w in slices of at most n bytes.
func chunks(w []byte, n int) [][]byte {
	var out [][]byte
	for len(w) > n {
		out = append(out, w[:n])
		w = w[n:]
	}
	if len(w) != 0 {
		out = append(out, w)
	}
	return out
}

func findPath() (string, error) {
	var path string
	err := hid.Enumerate(vendorID, productID, func(info *hid.DeviceInfo) error {
		if path == "" && info.ProductStr == product && info.InterfaceNbr == iface {
			path = info.Path
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ch347spi: enumerating: %w", err)
	}
	if path == "" {
		return "", ErrNotFound
	}
	return path, nil
}

// timeoutDevice bounds reads so an unplugged bridge does not block forever.
type timeoutDevice struct {
	*hid.Device
}

func (t *timeoutDevice) Read(p []byte) (int, error) {
	for {
		n, err := t.Device.ReadWithTimeout(p, readTimeout)
		if err == nil || err.Error() != "Interrupted system call" {
			return n, err
		}
	}
}
