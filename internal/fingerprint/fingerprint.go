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

package fingerprint

import (
	"github.com/cespare/xxhash/v2"
	"github.com/valyala/bytebufferpool"

	"github.com/rowscan/rowscan/tokenizer"
)

// seps separates fields in the hash input so that ["ab","c"] and
// ["a","bc"] produce different sums.
var seps = []byte{'\xff'}

// Row returns a content hash of all fields of a row.
func Row(row tokenizer.Row) uint64 {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i := 0; i < row.Len(); i++ {
		_, _ = buf.Write(row.Field(i))
		_, _ = buf.Write(seps)
	}
	return xxhash.Sum64(buf.Bytes())
}

// Fields hashes a plain field slice, mostly useful in tests.
func Fields(fields [][]byte) uint64 {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, f := range fields {
		_, _ = buf.Write(f)
		_, _ = buf.Write(seps)
	}
	return xxhash.Sum64(buf.Bytes())
}
