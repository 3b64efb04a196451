// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package webview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/display"
)

// Format is the image encoding of the frames.
type Format int

// Supported Format.
const (
	PNG Format = iota
	JPEG
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Set sets the Format to a value represented by the string s. Set implements
// the flag.Value interface.
func (f *Format) Set(s string) error {
	switch s {
	case "png":
		*f = PNG
	case "jpg", "jpeg":
		*f = JPEG
	default:
		return fmt.Errorf("unknown image format %q: expected png or jpeg", s)
	}
	return nil
}

func (f Format) mimeType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Opts defines the options for the device.
type Opts struct {
	W, H int
	// Format is used when the request does not name one.
	Format Format
	// Logger receives stream errors. Nil discards them.
	Logger *zerolog.Logger
}

// Sink is an in-memory display served over HTTP.
type Sink struct {
	format Format
	log    zerolog.Logger

	mu  sync.Mutex
	img *image.RGBA
	// encoded caches the last frame per format until the next Draw.
	encoded map[Format][]byte
	clients map[*client]struct{}
	halted  bool
}

type client struct {
	refresh chan struct{}
	stop    chan struct{}
}

// New returns a black Sink.
func New(opts *Opts) (*Sink, error) {
	if opts.W <= 0 || opts.H <= 0 {
		return nil, fmt.Errorf("webview: invalid size %dx%d", opts.W, opts.H)
	}
	if opts.Format != PNG && opts.Format != JPEG {
		return nil, fmt.Errorf("webview: invalid format %s", opts.Format)
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.W, opts.H))
	// Opaque black; the zero value is transparent.
	draw.Draw(img, img.Rect, image.Black, image.Point{}, draw.Src)
	l := zerolog.Nop()
	if opts.Logger != nil {
		l = *opts.Logger
	}
	return &Sink{
		format:  opts.Format,
		log:     l.With().Str("device", "webview").Logger(),
		img:     img,
		encoded: map[Format][]byte{},
		clients: map[*client]struct{}{},
	}, nil
}

func (s *Sink) String() string {
	return fmt.Sprintf("WebView{%dx%d}", s.img.Rect.Dx(), s.img.Rect.Dy())
}

// Halt implements conn.Resource. It ends all the running streams and refuses
// new ones.
func (s *Sink) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.halted = true
	for c := range s.clients {
		notify(c.stop)
	}
	return nil
}

// ColorModel implements display.Drawer.
func (s *Sink) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements display.Drawer.
func (s *Sink) Bounds() image.Rectangle {
	return s.img.Rect
}

// Draw implements display.Drawer.
func (s *Sink) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draw.Draw(s.img, r, src, sp, draw.Src)
	clear(s.encoded)
	for c := range s.clients {
		notify(c.refresh)
	}
	return nil
}

// Clients returns the number of running streams.
func (s *Sink) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// frame returns the current image encoded in f.
func (s *Sink) frame(f Format) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.encoded[f]; ok {
		return b, nil
	}
	var buf bytes.Buffer
	var err error
	if f == JPEG {
		err = jpeg.Encode(&buf, s.img, &jpeg.Options{Quality: 90})
	} else {
		err = (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(&buf, s.img)
	}
	if err != nil {
		return nil, err
	}
	s.encoded[f] = buf.Bytes()
	return buf.Bytes(), nil
}

// register returns nil once the Sink is halted.
func (s *Sink) register() *client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.halted {
		return nil
	}
	c := &client{refresh: make(chan struct{}, 1), stop: make(chan struct{}, 1)}
	s.clients[c] = struct{}{}
	return c
}

func (s *Sink) unregister(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
}

// notify wakes up a client without blocking; one pending signal is enough.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

var _ display.Drawer = &Sink{}
var _ http.Handler = &Sink{}
