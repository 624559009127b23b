// Copyright 2026 The rowscan Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package zerocopy

import (
	"io"
)

// Reader ZeroCopy-API
//
// Read returns up to n bytes without copying. Callers must treat the
// returned slice as read-only; it aliases the region handed to Write.
type Reader interface {
	Read(n int) ([]byte, error)
}

// Writer ZeroCopy-API
//
// Write swaps the readable region in place. It never fails and never
// copies; the caller keeps ownership of the bytes.
type Writer interface {
	Write(p []byte)
}

// Closer ZeroCopy-API
//
// Close puts the Reader into the io.EOF state.
type Closer interface {
	Close()
}

// Buffer combines the three zero-copy operations. It is how a large
// in-memory or memory-mapped region gets sliced into scan-sized chunks
// without duplicating a single byte.
type Buffer interface {
	Writer
	Reader
	Closer
}

type buffer struct {
	r int
	b []byte
}

// NewBuffer creates a Buffer over p. The caller must not mutate p while
// reads are outstanding; every returned slice aliases it.
func NewBuffer(p []byte) Buffer {
	return &buffer{
		b: p,
	}
}

// Read implements the Reader interface.
func (buf *buffer) Read(n int) ([]byte, error) {
	if buf.r == len(buf.b) {
		return nil, io.EOF
	}

	if buf.r+n >= len(buf.b) {
		b := buf.b[buf.r:len(buf.b)]
		buf.r = len(buf.b)
		return b, nil
	}

	b := buf.b[buf.r : buf.r+n]
	buf.r += n
	return b, nil
}

// Write implements the Writer interface.
func (buf *buffer) Write(p []byte) {
	buf.b = p
	buf.r = 0
}

// Close implements the Closer interface.
func (buf *buffer) Close() {
	buf.r = len(buf.b)
}
