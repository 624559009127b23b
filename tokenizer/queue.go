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
)

// RowQueue is the FIFO handoff between the scanning goroutine and one or
// more consumers.
//
// The queue starts with waiting disabled: WaitForData returns
// immediately until StartWaiting flips the mode. StopWaiting wakes every
// blocked waiter even while the queue is empty; consumers must treat
// "empty and waiting disabled" as their end-of-input signal.
type RowQueue struct {
	mut     sync.Mutex
	cond    *sync.Cond
	rows    []Row
	head    int
	waiting bool
}

func NewRowQueue() *RowQueue {
	q := &RowQueue{}
	q.cond = sync.NewCond(&q.mut)
	return q
}

// Push appends row to the back of the queue and wakes blocked waiters.
// It never fails and never drops a row.
func (q *RowQueue) Push(row Row) {
	q.mut.Lock()
	q.rows = append(q.rows, row)
	q.cond.Broadcast()
	q.mut.Unlock()
}

// PopFront removes and returns the oldest row. Callers must establish
// non-emptiness first, via WaitForData or Len under their own
// serialization; popping an empty queue returns a zero Row.
func (q *RowQueue) PopFront() Row {
	q.mut.Lock()
	defer q.mut.Unlock()

	if q.head >= len(q.rows) {
		return Row{}
	}
	return q.popLocked()
}

// TryPopFront removes the oldest row if one exists. Safe for multiple
// concurrent consumers.
func (q *RowQueue) TryPopFront() (Row, bool) {
	q.mut.Lock()
	defer q.mut.Unlock()

	if q.head >= len(q.rows) {
		return Row{}, false
	}
	return q.popLocked(), true
}

func (q *RowQueue) popLocked() Row {
	row := q.rows[q.head]
	q.rows[q.head] = Row{}
	q.head++

	// Reclaim the drained prefix once it dominates the backing slice.
	if q.head > 1024 && q.head*2 >= len(q.rows) {
		n := copy(q.rows, q.rows[q.head:])
		for i := n; i < len(q.rows); i++ {
			q.rows[i] = Row{}
		}
		q.rows = q.rows[:n]
		q.head = 0
	}
	return row
}

// WaitForData blocks until the queue is non-empty or waiting has been
// disabled. Returns whether data is available; callers should re-check
// emptiness in a loop, wakeups may be spurious.
func (q *RowQueue) WaitForData() bool {
	q.mut.Lock()
	defer q.mut.Unlock()

	for q.head >= len(q.rows) && q.waiting {
		q.cond.Wait()
	}
	return q.head < len(q.rows)
}

// StartWaiting enables blocking waits.
func (q *RowQueue) StartWaiting() {
	q.mut.Lock()
	q.waiting = true
	q.cond.Broadcast()
	q.mut.Unlock()
}

// StopWaiting disables blocking waits and releases every blocked caller,
// used to signal end-of-input or shutdown.
func (q *RowQueue) StopWaiting() {
	q.mut.Lock()
	q.waiting = false
	q.cond.Broadcast()
	q.mut.Unlock()
}

// Clear discards all queued rows, used during session reset.
func (q *RowQueue) Clear() {
	q.mut.Lock()
	q.rows = nil
	q.head = 0
	q.mut.Unlock()
}

func (q *RowQueue) Len() int {
	q.mut.Lock()
	defer q.mut.Unlock()
	return len(q.rows) - q.head
}

func (q *RowQueue) Empty() bool {
	return q.Len() == 0
}
