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
	"github.com/valyala/bytebufferpool"
)

// Row references a contiguous range of field descriptors in a FieldStore
// plus the byte region the descriptors resolve against.
//
// A Row stays valid as long as its FieldStore lives and has not been
// reset; the byte region is either a subslice of the producing chunk or
// a copy owned by the tokenizer's carry buffer, both kept alive by the
// Row itself.
type Row struct {
	base  []byte
	store *FieldStore
	index int
	n     int
	quote byte
}

// Len returns the number of fields in the row.
func (r Row) Len() int {
	return r.n
}

// Raw returns the row's underlying byte region without copying.
func (r Row) Raw() []byte {
	return r.base
}

// Field returns the raw bytes of field i without copying. Doubled quote
// escape sequences are left as-is; check HasDoubleQuote before use.
func (r Row) Field(i int) []byte {
	f := r.store.At(r.index + i)
	return r.base[f.Start : f.Start+f.Length]
}

// HasDoubleQuote reports whether field i contains doubled-quote escape
// sequences that require unescaping.
func (r Row) HasDoubleQuote(i int) bool {
	return r.store.At(r.index + i).HasDoubleQuote
}

// Text returns field i as a string, unescaping doubled quotes on demand.
// Fields without escapes convert directly; the rewrite happens only for
// flagged fields.
func (r Row) Text(i int) string {
	f := r.store.At(r.index + i)
	b := r.base[f.Start : f.Start+f.Length]
	if !f.HasDoubleQuote {
		return string(b)
	}
	return unescapeQuotes(b, r.quote)
}

// Strings materializes all fields of the row.
func (r Row) Strings() []string {
	out := make([]string, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.Text(i)
	}
	return out
}

// unescapeQuotes rewrites doubled quote bytes into single ones.
func unescapeQuotes(b []byte, quote byte) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i := 0; i < len(b); i++ {
		c := b[i]
		_ = buf.WriteByte(c)
		if c == quote && i+1 < len(b) && b[i+1] == quote {
			i++
		}
	}
	return buf.String()
}
