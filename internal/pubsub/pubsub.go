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

package pubsub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rowscan/rowscan/tokenizer"
)

// Queue is one subscriber's view of the row broadcast.
type Queue interface {
	// ID is the queue's unique identifier.
	ID() string

	// PopTimeout pops one row, blocking until data arrives or the
	// timeout expires.
	PopTimeout(timeout time.Duration) (tokenizer.Row, bool)

	// Push appends one row to the queue. Full queues drop; a lagging
	// subscriber must not stall the scanning goroutine.
	Push(row tokenizer.Row)

	// Close shuts the queue down and releases its resources.
	Close()
}

// channel is the chan-backed Queue implementation.
type channel struct {
	id     string
	ch     chan tokenizer.Row
	closed atomic.Bool
}

func newChannel(size int) Queue {
	if size <= 0 {
		size = 1
	}

	return &channel{
		id: uuid.New().String(),
		ch: make(chan tokenizer.Row, size),
	}
}

func (ch *channel) ID() string {
	return ch.id
}

func (ch *channel) PopTimeout(timeout time.Duration) (tokenizer.Row, bool) {
	if ch.closed.Load() {
		return tokenizer.Row{}, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	select {
	case row, ok := <-ch.ch:
		return row, ok

	case <-ctx.Done():
		return tokenizer.Row{}, false
	}
}

func (ch *channel) Push(row tokenizer.Row) {
	if ch.closed.Load() {
		return
	}

	select {
	case ch.ch <- row:
	default:
	}
}

func (ch *channel) Close() {
	if ch.closed.CompareAndSwap(false, true) {
		close(ch.ch)
	}
}

// PubSub fans completed rows out to any number of subscribers.
type PubSub struct {
	mut    sync.RWMutex
	queues map[string]Queue
}

func New() *PubSub {
	return &PubSub{
		queues: make(map[string]Queue),
	}
}

func (p *PubSub) Num() int {
	p.mut.RLock()
	defer p.mut.RUnlock()

	return len(p.queues)
}

func (p *PubSub) Subscribe(size int) Queue {
	p.mut.Lock()
	defer p.mut.Unlock()

	ch := newChannel(size)
	p.queues[ch.ID()] = ch
	return ch
}

func (p *PubSub) Publish(row tokenizer.Row) {
	p.mut.RLock()
	defer p.mut.RUnlock()

	for _, q := range p.queues {
		q.Push(row)
	}
}

func (p *PubSub) Unsubscribe(q Queue) {
	p.mut.Lock()
	defer p.mut.Unlock()

	delete(p.queues, q.ID())
}
