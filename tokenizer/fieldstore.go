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

package tokenizer

import (
	"sync/atomic"
)

// Field describes one field of a row.
//
// Start is relative to the first byte of the row the field belongs to,
// so a carried-over row keeps valid descriptors no matter which buffer
// its bytes end up in.
type Field struct {
	Start          uint32
	Length         uint32
	HasDoubleQuote bool
}

// slabSize is the number of fields per slab. Slabs are allocated at full
// length and filled by index, so committed entries never relocate and no
// slice header is rewritten under a concurrent reader.
const slabSize = 4096

// FieldStore is the append-only arena of field descriptors shared by all
// rows of one parse session.
//
// Append is single-writer (the scanning goroutine). Readers may access
// any index they obtained from an already delivered Row concurrently
// with further appends: the slab list is published atomically, and the
// row queue's lock orders every element write before delivery of the
// row that references it.
type FieldStore struct {
	slabs atomic.Pointer[[][]Field]
	count atomic.Int64
}

func NewFieldStore() *FieldStore {
	s := &FieldStore{}
	slabs := [][]Field{make([]Field, slabSize)}
	s.slabs.Store(&slabs)
	return s
}

// Append stores f and returns its index.
func (s *FieldStore) Append(f Field) int {
	idx := int(s.count.Load())
	slabIdx := idx / slabSize
	off := idx % slabSize

	slabs := *s.slabs.Load()
	if slabIdx == len(slabs) {
		// Grow by publishing a fresh slab list. The old list and the
		// slabs it holds stay untouched for in-flight readers.
		grown := make([][]Field, len(slabs)+1)
		copy(grown, slabs)
		grown[slabIdx] = make([]Field, slabSize)
		s.slabs.Store(&grown)
		slabs = grown
	}
	slabs[slabIdx][off] = f

	s.count.Add(1)
	return idx
}

// At returns the descriptor at index i. i must have been returned by a
// previous Append and delivered through a Row.
func (s *FieldStore) At(i int) Field {
	slabs := *s.slabs.Load()
	return slabs[i/slabSize][i%slabSize]
}

func (s *FieldStore) Len() int {
	return int(s.count.Load())
}

// Reset discards all descriptors. Rows handed out before the reset must
// no longer be dereferenced.
func (s *FieldStore) Reset() {
	slabs := [][]Field{make([]Field, slabSize)}
	s.slabs.Store(&slabs)
	s.count.Store(0)
}
