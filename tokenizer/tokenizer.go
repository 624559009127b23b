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

// Options configures the byte classes of one parse session.
type Options struct {
	Delimiter byte
	Quote     byte
	Newlines  []byte
	TrimChars []byte
}

// DefaultOptions returns the usual comma/double-quote/CRLF setup with
// trimming disabled.
func DefaultOptions() Options {
	return Options{
		Delimiter: ',',
		Quote:     '"',
		Newlines:  []byte("\r\n"),
	}
}

// Tokenizer is the field and row level scanning engine.
//
// Parse is fed successive chunks of one logical byte stream by a single
// driver goroutine; completed rows land on the RowQueue where any number
// of consumers may drain them. The tokenizer never errors on malformed
// content: an unterminated quote at end of input simply finalizes the
// field with whatever was scanned.
//
// Rows fully contained in one chunk resolve as zero-copy slices of that
// chunk. A row cut by a chunk boundary is carried over into an internal
// scratch buffer and re-anchored, so the driver has no obligation to
// keep chunks contiguous or to stitch tails itself.
type Tokenizer struct {
	flags ParseFlags
	ws    WhitespaceFlags
	trim  bool
	quote byte

	store *FieldStore
	queue *RowQueue

	// scan state persisted between Parse calls
	fieldStart   int // row-relative, -1 until the field starts
	fieldLength  int // -1 until measured
	hasDQ        bool
	quoteEscape  bool
	afterNewline bool // last scanned byte was part of a terminator run
	rowFieldIdx  int  // store index where the current row began

	carry    []byte // unterminated row tail from previous chunks
	carryPos int    // bytes of carry already scanned
}

func New(opts Options) *Tokenizer {
	return &Tokenizer{
		flags:       NewParseFlags(opts.Delimiter, opts.Quote, opts.Newlines),
		ws:          NewWhitespaceFlags(opts.TrimChars),
		trim:        len(opts.TrimChars) > 0,
		quote:       opts.Quote,
		store:       NewFieldStore(),
		queue:       NewRowQueue(),
		fieldStart:  -1,
		fieldLength: -1,
	}
}

// Queue returns the queue completed rows are pushed to.
func (t *Tokenizer) Queue() *RowQueue {
	return t.queue
}

// Store returns the session's field store.
func (t *Tokenizer) Store() *FieldStore {
	return t.store
}

// Reset clears all session state so the tokenizer can scan a new logical
// input. Rows produced before the reset must no longer be dereferenced.
func (t *Tokenizer) Reset() {
	t.store.Reset()
	t.queue.Clear()
	t.resetScanState()
	t.rowFieldIdx = 0
}

// Parse scans one chunk, appending field descriptors to the store and
// pushing completed rows to the queue. When lastBlock is set any
// in-progress field and row are finalized even without a trailing
// terminator. Returns the number of bytes consumed, always len(buf).
func (t *Tokenizer) Parse(buf []byte, lastBlock bool) int {
	scannedBytes.Add(float64(len(buf)))

	in := buf
	if len(t.carry) > 0 {
		rem, drained := t.drainCarry(buf, lastBlock)
		if !drained {
			return len(buf)
		}
		in = buf[rem:]
	}

	i, rowBase, _ := t.scanLoop(in, 0, 0, lastBlock, false)
	if lastBlock {
		t.finalizeTail(in, rowBase, i)
		t.resetScanState()
		return len(buf)
	}

	if rowBase < len(in) {
		// chunk ended mid-row, copy the tail so the next chunk can
		// extend it without any contiguity requirement on the driver
		t.carry = append([]byte(nil), in[rowBase:]...)
		t.carryPos = i - rowBase
		carriedRows.Inc()
	}
	return len(buf)
}

// drainCarry extends the carried row with buf and scans until the row
// terminates. Returns the offset within buf where normal zero-copy
// scanning resumes, or drained=false when buf was absorbed entirely.
func (t *Tokenizer) drainCarry(buf []byte, lastBlock bool) (int, bool) {
	t.carry = append(t.carry, buf...)

	i, _, terminated := t.scanLoop(t.carry, t.carryPos, 0, lastBlock, true)
	if terminated {
		rem := i - (len(t.carry) - len(buf))
		if rem < 0 {
			rem = 0
		}
		// the pushed Row keeps the carry alive; start fresh next time
		t.carry = nil
		t.carryPos = 0
		return rem, true
	}

	if lastBlock {
		t.finalizeTail(t.carry, 0, i)
		t.resetScanState()
		return 0, false
	}

	t.carryPos = i
	return 0, false
}

// scanLoop drives scanField across in[i:], dispatching on each
// structural byte. rowBase is the offset of the current row's first byte
// within in. With stopAfterRow set it returns right after the first
// completed row so a carry drain does not run past the carried row.
func (t *Tokenizer) scanLoop(in []byte, i, rowBase int, lastBlock, stopAfterRow bool) (int, int, bool) {
	if t.afterNewline {
		// swallow the rest of a terminator run split across chunks
		for i < len(in) && t.flags[in[i]] == FlagNewline {
			i++
		}
		if i < len(in) {
			t.afterNewline = false
		}
		rowBase = i
	}

	for i < len(in) {
		i = t.scanField(in, i, rowBase)
		if i >= len(in) {
			break
		}

		switch t.flags[in[i]] {
		case FlagDelimiter:
			t.pushField()
			i++

		case FlagQuote:
			if !t.quoteEscape {
				if i == rowBase+t.fieldStart {
					// opening quote, content starts after it
					t.quoteEscape = true
					i++
					t.fieldStart = i - rowBase
					t.fieldLength = -1
					continue
				}
				// stray quote inside an unquoted field is content
				i++
				t.fieldLength = i - (rowBase + t.fieldStart)
				continue
			}
			if i+1 >= len(in) {
				if !lastBlock {
					// one byte of lookahead required to classify
					return i, rowBase, false
				}
				t.fieldLength = i - (rowBase + t.fieldStart)
				t.quoteEscape = false
				i++
				continue
			}
			if t.flags[in[i+1]] == FlagQuote {
				t.hasDQ = true
				i += 2
				t.fieldLength = i - (rowBase + t.fieldStart)
				continue
			}
			// closing quote; ordinary scanning resumes after it so
			// trailing unquoted content still extends the field
			t.fieldLength = i - (rowBase + t.fieldStart)
			t.quoteEscape = false
			i++

		case FlagNewline:
			t.pushField()
			t.pushRow(in[rowBase:i])
			i++
			// collapse a terminator run (e.g. CR LF) into one boundary
			for i < len(in) && t.flags[in[i]] == FlagNewline {
				i++
			}
			rowBase = i
			t.afterNewline = i == len(in)
			if stopAfterRow {
				return i, rowBase, true
			}
		}
	}
	return i, rowBase, false
}

// scanField advances the cursor to the end of the current field region:
// past leading trim bytes, then through ordinary bytes, or through
// everything but quotes while inside a quote-escaped region. It records
// the field start on first contact and keeps the measured length
// current, trimming trailing whitespace but never below zero.
func (t *Tokenizer) scanField(in []byte, i, rowBase int) int {
	if t.trim {
		for i < len(in) && t.ws[in[i]] {
			i++
		}
	}
	if t.fieldStart < 0 {
		t.fieldStart = i - rowBase
	}

	mark := i
	if t.quoteEscape {
		for i < len(in) && t.flags[in[i]] != FlagQuote {
			i++
		}
	} else {
		for i < len(in) && t.flags[in[i]] == FlagOrdinary {
			i++
		}
	}

	if i > mark || t.fieldLength < 0 {
		start := rowBase + t.fieldStart
		n := i - start
		if t.trim {
			for j := i - 1; j >= start && n > 0 && t.ws[in[j]]; j-- {
				n--
			}
		}
		t.fieldLength = n
	}
	return i
}

func (t *Tokenizer) pushField() {
	length := t.fieldLength
	if length < 0 {
		length = 0
	}
	start := t.fieldStart
	if start < 0 {
		start = 0
	}
	t.store.Append(Field{
		Start:          uint32(start),
		Length:         uint32(length),
		HasDoubleQuote: t.hasDQ,
	})
	t.fieldStart = -1
	t.fieldLength = -1
	t.hasDQ = false
}

func (t *Tokenizer) pushRow(base []byte) {
	t.queue.Push(Row{
		base:  base,
		store: t.store,
		index: t.rowFieldIdx,
		n:     t.store.Len() - t.rowFieldIdx,
		quote: t.quote,
	})
	t.rowFieldIdx = t.store.Len()
	scannedRows.Inc()
}

// finalizeTail pushes the in-progress field and row at end of input.
func (t *Tokenizer) finalizeTail(in []byte, rowBase, end int) {
	if t.fieldStart >= 0 {
		t.pushField()
	}
	if t.store.Len() > t.rowFieldIdx {
		t.pushRow(in[rowBase:end])
	}
}

func (t *Tokenizer) resetScanState() {
	t.fieldStart = -1
	t.fieldLength = -1
	t.hasDQ = false
	t.quoteEscape = false
	t.afterNewline = false
	t.carry = nil
	t.carryPos = 0
}
