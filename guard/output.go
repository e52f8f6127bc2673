// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package guard

import (
	"io"
	"log/slog"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// outputChunkSize bounds each read from a pty master.
const outputChunkSize = 1024

// OutputRelay copies one pty master to a real output stream.
type OutputRelay struct {
	source      io.ReadCloser
	destination io.Writer
	coordinator *Coordinator
	logger      *slog.Logger
}

// NewOutputRelay returns a relay from source to destination. The relay
// owns source and closes it when the stream ends.
func NewOutputRelay(name string, source io.ReadCloser, destination io.Writer, coordinator *Coordinator, logger *slog.Logger) *OutputRelay {
	return &OutputRelay{
		source:      source,
		destination: destination,
		coordinator: coordinator,
		logger:      logger.With("worker", name+"-relay"),
	}
}

// Run relays until end of stream. A zero-length read or any read error
// (EIO once the child's side of the pty is gone) ends the stream, as
// does a failed write to the destination.
//
// Chunks read while output is suppressed are discarded. Relayed chunks
// pass through a lossy UTF-8 decoder: invalid bytes become U+FFFD, and
// a multi-byte sequence split across two reads is held until it is
// complete. A partial sequence is dropped together with any discarded
// chunk that follows it.
func (r *OutputRelay) Run() {
	defer r.source.Close()

	decoder := r.newDecoder()
	buffer := make([]byte, outputChunkSize)
	for {
		n, err := r.source.Read(buffer)
		if n > 0 {
			if r.coordinator.Suppressed() {
				decoder = nil
			} else {
				if decoder == nil {
					decoder = r.newDecoder()
				}
				if _, writeErr := decoder.Write(buffer[:n]); writeErr != nil {
					r.logger.Debug("write failed, relay stopping", "error", writeErr)
					return
				}
			}
		}
		if n == 0 || err != nil {
			if decoder != nil {
				decoder.Close()
			}
			r.logger.Debug("end of stream", "error", err)
			return
		}
	}
}

func (r *OutputRelay) newDecoder() *transform.Writer {
	return transform.NewWriter(r.destination, unicode.UTF8.NewDecoder())
}
