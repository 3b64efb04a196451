// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GermanBionicSystems/tft/gc9106"
	"github.com/GermanBionicSystems/tft/gc9106/gc9106test"
)

func TestSceneOnSimulatedPanel(t *testing.T) {
	cfg := defaultConfig()
	opts, err := cfg.opts()
	assert.NoError(t, err)
	opts.Script = gc9106.Script{{Op: 0x11}, {Op: 0x29}}

	b := &gc9106test.Bus{Panel: gc9106test.NewPanel()}
	d, err := gc9106.New(b, &opts)
	assert.NoError(t, err)
	assert.NoError(t, d.Init())

	s, err := newScene(d.Bounds())
	assert.NoError(t, err)
	img := s.render(3, time.Date(2026, 1, 2, 12, 34, 56, 0, time.UTC))
	assert.Equal(t, image.Rect(0, 0, 80, 160), img.Bounds())
	assert.NoError(t, d.Draw(d.Bounds(), img, image.Point{}))

	// The bars reach the controller memory.
	snap := b.Panel.Snapshot(d.Geometry().Window())
	r, g, bl, _ := snap.At(1, 1).RGBA()
	assert.NotZero(t, r|g|bl)
	assert.Equal(t, 80*160, b.Panel.Pixels)
}
