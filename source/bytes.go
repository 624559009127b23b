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

	"github.com/rowscan/rowscan/internal/zerocopy"
)

// Bytes slices one in-memory region into scan-sized chunks without
// copying. The caller keeps ownership of the region and must not
// mutate it while rows referencing it are alive.
type Bytes struct {
	zb     zerocopy.Buffer
	size   int
	closed bool
}

func NewBytes(b []byte, blockSize int) *Bytes {
	if blockSize <= 0 {
		blockSize = 1
	}
	return &Bytes{
		zb:   zerocopy.NewBuffer(b),
		size: blockSize,
	}
}

// Next implements the Source interface.
func (s *Bytes) Next() ([]byte, bool, error) {
	if s.closed {
		return nil, true, ErrClosed
	}

	chunk, err := s.zb.Read(s.size)
	if err == io.EOF {
		return nil, true, nil
	}
	return chunk, false, nil
}

// Close implements the Source interface.
func (s *Bytes) Close() error {
	s.closed = true
	s.zb.Close()
	return nil
}
