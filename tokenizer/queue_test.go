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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRow(content string) Row {
	store := NewFieldStore()
	store.Append(Field{Start: 0, Length: uint32(len(content))})
	return Row{
		base:  []byte(content),
		store: store,
		index: 0,
		n:     1,
		quote: '"',
	}
}

func TestRowQueueFIFO(t *testing.T) {
	q := NewRowQueue()
	q.Push(makeRow("one"))
	q.Push(makeRow("two"))
	q.Push(makeRow("three"))

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, "one", q.PopFront().Text(0))
	assert.Equal(t, "two", q.PopFront().Text(0))
	assert.Equal(t, "three", q.PopFront().Text(0))
	assert.True(t, q.Empty())
}

func TestRowQueueTryPopFront(t *testing.T) {
	q := NewRowQueue()

	_, ok := q.TryPopFront()
	assert.False(t, ok)

	q.Push(makeRow("x"))
	row, ok := q.TryPopFront()
	require.True(t, ok)
	assert.Equal(t, "x", row.Text(0))
}

func TestRowQueueWaitForData(t *testing.T) {
	t.Run("Immediate when disabled", func(t *testing.T) {
		q := NewRowQueue()
		assert.False(t, q.WaitForData())

		q.Push(makeRow("x"))
		assert.True(t, q.WaitForData())
	})

	t.Run("Woken by push", func(t *testing.T) {
		q := NewRowQueue()
		q.StartWaiting()

		done := make(chan string, 1)
		go func() {
			if q.WaitForData() {
				done <- q.PopFront().Text(0)
				return
			}
			done <- ""
		}()

		time.Sleep(10 * time.Millisecond)
		q.Push(makeRow("wake"))

		select {
		case got := <-done:
			assert.Equal(t, "wake", got)
		case <-time.After(time.Second):
			t.Fatal("consumer never woke up")
		}
	})

	t.Run("Released by StopWaiting", func(t *testing.T) {
		q := NewRowQueue()
		q.StartWaiting()

		done := make(chan bool, 1)
		go func() {
			done <- q.WaitForData()
		}()

		time.Sleep(10 * time.Millisecond)
		q.StopWaiting()

		select {
		case got := <-done:
			assert.False(t, got)
		case <-time.After(time.Second):
			t.Fatal("waiter never released")
		}
	})
}

func TestRowQueueConcurrentConsumers(t *testing.T) {
	q := NewRowQueue()
	q.StartWaiting()

	const total = 10000
	var mut sync.Mutex
	var got int
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if !q.WaitForData() {
					if _, ok := q.TryPopFront(); !ok {
						return
					}
					mut.Lock()
					got++
					mut.Unlock()
					continue
				}
				if _, ok := q.TryPopFront(); ok {
					mut.Lock()
					got++
					mut.Unlock()
				}
			}
		}()
	}

	for i := 0; i < total; i++ {
		q.Push(makeRow("row"))
	}
	for q.Len() > 0 {
		time.Sleep(time.Millisecond)
	}
	q.StopWaiting()
	wg.Wait()

	assert.Equal(t, total, got)
}

// The drained prefix must be reclaimed without disturbing FIFO order.
func TestRowQueuePrefixReclaim(t *testing.T) {
	q := NewRowQueue()

	const n = 5000
	for i := 0; i < 2048; i++ {
		q.Push(makeRow("pre"))
	}
	for i := 0; i < 2048; i++ {
		q.PopFront()
	}

	contents := []string{"a", "b", "c"}
	for _, c := range contents {
		q.Push(makeRow(c))
	}
	for i := 0; i < n; i++ {
		q.Push(makeRow("post"))
	}

	for _, c := range contents {
		assert.Equal(t, c, q.PopFront().Text(0))
	}
	assert.Equal(t, n, q.Len())
}

func TestRowQueueClear(t *testing.T) {
	q := NewRowQueue()
	q.Push(makeRow("x"))
	q.Push(makeRow("y"))

	q.Clear()
	assert.True(t, q.Empty())
	_, ok := q.TryPopFront()
	assert.False(t, ok)
}
