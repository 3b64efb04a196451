// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package webview mirrors a display in a web browser.
//
// Sink is a display.Drawer and an http.Handler. Every GET request receives a
// "multipart/x-mixed-replace" stream (the MJPEG protocol of IP cameras): the
// current frame, then a new one after each Draw. PNG is sent by default,
// "?format=jpeg" selects JPEG.
package webview
