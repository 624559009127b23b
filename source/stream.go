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

package source

import (
	"io"

	"github.com/golang/snappy"
)

// Stream reads chunks from an io.Reader.
//
// Every chunk gets a fresh buffer: rows produced by the tokenizer alias
// the chunk they were scanned from, so buffers cannot be recycled here.
type Stream struct {
	r      io.Reader
	origin io.Reader // pre-decompression reader, closed with the stream
	size   int
	closed bool
}

func NewStream(r io.Reader, blockSize int) *Stream {
	if blockSize <= 0 {
		blockSize = 1
	}
	return &Stream{
		r:      r,
		origin: r,
		size:   blockSize,
	}
}

// NewSnappyStream reads a snappy-framed stream, decompressing on the
// fly.
func NewSnappyStream(r io.Reader, blockSize int) *Stream {
	s := NewStream(snappy.NewReader(r), blockSize)
	s.origin = r
	return s
}

// Next implements the Source interface.
func (s *Stream) Next() ([]byte, bool, error) {
	if s.closed {
		return nil, true, ErrClosed
	}

	buf := make([]byte, s.size)
	n, err := io.ReadFull(s.r, buf)
	switch err {
	case nil:
		return buf[:n], false, nil
	case io.EOF:
		return nil, true, nil
	case io.ErrUnexpectedEOF:
		return buf[:n], true, nil
	default:
		return buf[:n], true, err
	}
}

// Close implements the Source interface.
func (s *Stream) Close() error {
	s.closed = true
	if c, ok := s.origin.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
