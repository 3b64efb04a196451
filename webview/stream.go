// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package webview

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
)

// ServeHTTP implements http.Handler.
func (s *Sink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	f := s.format
	if v := r.URL.Query().Get("format"); v != "" {
		if err := f.Set(v); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	c := s.register()
	if c == nil {
		http.Error(w, "display halted", http.StatusServiceUnavailable)
		return
	}
	defer s.unregister(c)

	pw := newPartWriter(w)
	w.Header().Set("Content-Type", mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{"boundary": pw.boundary}))
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", f.mimeType())
	l := s.log.With().Str("remote", r.RemoteAddr).Str("format", f.String()).Logger()
	l.Debug().Msg("stream started")
	for {
		b, err := s.frame(f)
		if err != nil {
			l.Error().Err(err).Msg("encoding frame")
			return
		}
		if err := pw.write(h, b); err != nil {
			// The client went away; nothing can be reported inside the stream.
			l.Debug().Err(err).Msg("stream ended")
			return
		}
		if fl, ok := w.(http.Flusher); ok {
			fl.Flush()
		}
		select {
		case <-c.refresh:
		case <-c.stop:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// partWriter writes an endless multipart body. Every part is followed by the
// boundary so the client shows it without waiting for the next one;
// multipart.Writer only writes a boundary when the next part starts.
type partWriter struct {
	w        io.Writer
	boundary string
	started  bool
}

func newPartWriter(w io.Writer) *partWriter {
	// Borrow the random boundary generator of mime/multipart.
	return &partWriter{w: w, boundary: multipart.NewWriter(io.Discard).Boundary()}
}

// write sends one part. It sets Content-Length in h.
func (p *partWriter) write(h textproto.MIMEHeader, body []byte) error {
	h.Set("Content-Length", strconv.Itoa(len(body)))
	var buf bytes.Buffer
	if !p.started {
		fmt.Fprintf(&buf, "--%s\r\n", p.boundary)
		p.started = true
	}
	for k, vs := range h {
		for _, v := range vs {
			fmt.Fprintf(&buf, "%s: %s\r\n", k, v)
		}
	}
	buf.WriteString("\r\n")
	buf.Write(body)
	fmt.Fprintf(&buf, "\r\n--%s\r\n", p.boundary)
	_, err := buf.WriteTo(p.w)
	return err
}
