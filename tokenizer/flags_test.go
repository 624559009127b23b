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
)

func TestNewParseFlags(t *testing.T) {
	pf := NewParseFlags(',', '"', []byte("\r\n"))

	assert.Equal(t, FlagDelimiter, pf[','])
	assert.Equal(t, FlagQuote, pf['"'])
	assert.Equal(t, FlagNewline, pf['\r'])
	assert.Equal(t, FlagNewline, pf['\n'])

	var others int
	for b := 0; b < 256; b++ {
		if pf[b] == FlagOrdinary {
			others++
		}
	}
	assert.Equal(t, 252, others)
}

// Building the table twice from the same configuration must yield the
// same classification.
func TestNewParseFlagsDeterministic(t *testing.T) {
	a := NewParseFlags(';', '\'', []byte("\n"))
	b := NewParseFlags(';', '\'', []byte("\n"))
	assert.Equal(t, a, b)
}

func TestNewWhitespaceFlags(t *testing.T) {
	wf := NewWhitespaceFlags([]byte(" \t"))
	assert.True(t, wf[' '])
	assert.True(t, wf['\t'])
	assert.False(t, wf['a'])

	empty := NewWhitespaceFlags(nil)
	for b := 0; b < 256; b++ {
		assert.False(t, empty[b])
	}
}
