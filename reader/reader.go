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

// Package reader binds a chunk source, a tokenizer and the row queue
// into one parse session: a single scanning goroutine produces rows,
// any number of consumers drain them.
package reader

import (
	"sync"
	"sync/atomic"

	"github.com/rowscan/rowscan/common"
	"github.com/rowscan/rowscan/dialect"
	"github.com/rowscan/rowscan/internal/fasttime"
	"github.com/rowscan/rowscan/internal/pubsub"
	"github.com/rowscan/rowscan/internal/rescue"
	"github.com/rowscan/rowscan/logger"
	"github.com/rowscan/rowscan/source"
	"github.com/rowscan/rowscan/tokenizer"
)

// Stats carries per-session counters.
type Stats struct {
	Rows     uint64
	Fields   uint64
	Bytes    uint64
	ActiveAt int64 // unix timestamp of the last scan activity
}

// Reader is one parse session.
//
// Consumers either call ReadRow / Rows directly or attach through
// Subscribe; the two modes should not be mixed on one session, rows are
// delivered exactly once.
type Reader struct {
	d     dialect.Dialect
	tok   *tokenizer.Tokenizer
	queue *tokenizer.RowQueue
	src   source.Source
	ps    *pubsub.PubSub

	rows     atomic.Uint64
	fields   atomic.Uint64
	bytes    atomic.Uint64
	activeAt atomic.Int64

	headerReady chan struct{} // closed once the header row, if any, was consumed
	headerMut   sync.Mutex
	columns     []string

	fanoutOnce sync.Once
	closeOnce  sync.Once
	errMut     sync.Mutex
	err        error
}

// New starts a session over src. The scanning goroutine begins feeding
// chunks immediately.
func New(src source.Source, d dialect.Dialect) (*Reader, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	tok := tokenizer.New(d.TokenizerOptions())
	r := &Reader{
		d:           d,
		tok:         tok,
		queue:       tok.Queue(),
		src:         src,
		ps:          pubsub.New(),
		headerReady: make(chan struct{}),
	}
	if !d.Header {
		close(r.headerReady)
	}

	r.queue.StartWaiting()
	go r.loopScan()
	return r, nil
}

// loopScan is the single producer: it pulls chunks from the source and
// drives the tokenizer until the final chunk or a source error. When the
// dialect declares a header, loopScan also pops the first produced row
// as the column set before any consumer can reach the queue, so the
// header is always the file's first row no matter how many consumers
// race on ReadRow.
func (r *Reader) loopScan() {
	defer rescue.HandleCrash()
	defer r.queue.StopWaiting()

	captured := !r.d.Header
	defer func() {
		if !captured {
			// input ended before a single row, release consumers anyway
			close(r.headerReady)
		}
	}()

	for {
		chunk, last, err := r.src.Next()
		if err != nil {
			r.setErr(err)
			logger.Errorf("source failed, flushing partial input: %v", err)
			last = true
		}

		r.tok.Parse(chunk, last)
		r.bytes.Add(uint64(len(chunk)))
		r.activeAt.Store(fasttime.UnixTimestamp())

		if !captured {
			if row, ok := r.queue.TryPopFront(); ok {
				r.headerMut.Lock()
				r.columns = row.Strings()
				r.headerMut.Unlock()
				captured = true
				close(r.headerReady)
			}
		}

		if last {
			return
		}
	}
}

// ReadRow blocks until a row is available or the session has drained.
// Safe for concurrent use by multiple consumers.
func (r *Reader) ReadRow() (tokenizer.Row, bool) {
	// the scanning goroutine owns the queue until the header row has
	// been captured
	<-r.headerReady

	for {
		if !r.queue.WaitForData() {
			// re-check: StopWaiting may race with a final Push
			if row, ok := r.queue.TryPopFront(); ok {
				r.countRow(row)
				return row, true
			}
			return tokenizer.Row{}, false
		}

		row, ok := r.queue.TryPopFront()
		if !ok {
			continue
		}
		r.countRow(row)
		return row, true
	}
}

func (r *Reader) countRow(row tokenizer.Row) {
	r.rows.Add(1)
	r.fields.Add(uint64(row.Len()))
}

// Rows drains the session into a channel, closed once the input ends.
func (r *Reader) Rows() <-chan tokenizer.Row {
	ch := make(chan tokenizer.Row, common.Concurrency())
	go func() {
		defer rescue.HandleCrash()
		defer close(ch)
		for {
			row, ok := r.ReadRow()
			if !ok {
				return
			}
			ch <- row
		}
	}()
	return ch
}

// Subscribe attaches an independent fan-out queue. All subscribers see
// every row; a lagging subscriber drops rows rather than stalling the
// scan. size bounds the subscriber's buffer.
func (r *Reader) Subscribe(size int) pubsub.Queue {
	q := r.ps.Subscribe(size)
	r.fanoutOnce.Do(func() {
		go func() {
			defer rescue.HandleCrash()
			for {
				row, ok := r.ReadRow()
				if !ok {
					return
				}
				r.ps.Publish(row)
			}
		}()
	})
	return q
}

// Unsubscribe detaches q from the fan-out.
func (r *Reader) Unsubscribe(q pubsub.Queue) {
	r.ps.Unsubscribe(q)
	q.Close()
}

// Columns returns the header row consumed when the dialect declares
// one; nil before the first row arrived or when headerless.
func (r *Reader) Columns() []string {
	r.headerMut.Lock()
	defer r.headerMut.Unlock()
	return r.columns
}

// Stats returns a snapshot of the session counters. Rows and Fields
// count delivered rows, Bytes counts scanned input.
func (r *Reader) Stats() Stats {
	return Stats{
		Rows:     r.rows.Load(),
		Fields:   r.fields.Load(),
		Bytes:    r.bytes.Load(),
		ActiveAt: r.activeAt.Load(),
	}
}

// Err returns the first source error observed, if any.
func (r *Reader) Err() error {
	r.errMut.Lock()
	defer r.errMut.Unlock()
	return r.err
}

func (r *Reader) setErr(err error) {
	r.errMut.Lock()
	if r.err == nil {
		r.err = err
	}
	r.errMut.Unlock()
}

// Close shuts the session down: the source stops supplying chunks and
// blocked consumers are released. Rows already delivered stay readable.
func (r *Reader) Close() error {
	var err error
	r.closeOnce.Do(func() {
		err = r.src.Close()
		r.queue.StopWaiting()
	})
	return err
}

// Parse tokenizes an in-memory document in one session and materializes
// every row, a convenience for small inputs and tests.
func Parse(b []byte, d dialect.Dialect) ([][]string, error) {
	r, err := New(source.NewBytes(b, common.ReadWriteBlockSize), d)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out [][]string
	for {
		row, ok := r.ReadRow()
		if !ok {
			break
		}
		out = append(out, row.Strings())
	}
	return out, r.Err()
}
