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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldStoreAppendAt(t *testing.T) {
	s := NewFieldStore()

	const n = slabSize*2 + 17
	for i := 0; i < n; i++ {
		idx := s.Append(Field{Start: uint32(i), Length: uint32(i % 97)})
		require.Equal(t, i, idx)
	}

	assert.Equal(t, n, s.Len())
	for i := 0; i < n; i++ {
		f := s.At(i)
		assert.Equal(t, uint32(i), f.Start)
		assert.Equal(t, uint32(i%97), f.Length)
	}
}

// Descriptors handed out before further appends must stay readable; a
// growing store must never move committed entries.
func TestFieldStoreStableReads(t *testing.T) {
	s := NewFieldStore()
	s.Append(Field{Start: 1, Length: 2, HasDoubleQuote: true})

	got := s.At(0)
	for i := 0; i < slabSize*3; i++ {
		s.Append(Field{Start: uint32(i)})
	}

	assert.Equal(t, got, s.At(0))
	assert.True(t, s.At(0).HasDoubleQuote)
}

// The writer grows the store across slab boundaries while a reader
// dereferences already published indices. Run with -race.
func TestFieldStoreConcurrentReads(t *testing.T) {
	s := NewFieldStore()

	const n = slabSize*8 + 33
	ready := make(chan int, n)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for idx := range ready {
			f := s.At(idx)
			assert.Equal(t, uint32(idx), f.Start)
		}
	}()

	for i := 0; i < n; i++ {
		idx := s.Append(Field{Start: uint32(i)})
		ready <- idx
	}
	close(ready)
	<-done

	require.Equal(t, n, s.Len())
}

func TestFieldStoreReset(t *testing.T) {
	s := NewFieldStore()
	for i := 0; i < 10; i++ {
		s.Append(Field{Start: uint32(i)})
	}

	s.Reset()
	assert.Equal(t, 0, s.Len())

	idx := s.Append(Field{Start: 42})
	assert.Equal(t, 0, idx)
	assert.Equal(t, uint32(42), s.At(0).Start)
}
