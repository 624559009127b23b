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

// ParseFlag describes the significance of a single byte with respect to
// row scanning. Every byte maps to exactly one flag.
type ParseFlag uint8

const (
	// FlagOrdinary bytes carry no structural meaning.
	FlagOrdinary ParseFlag = iota

	// FlagQuote bytes may open or close a quote-escaped region.
	FlagQuote

	// FlagDelimiter bytes terminate the current field.
	FlagDelimiter

	// FlagNewline bytes terminate the current row.
	FlagNewline
)

// ParseFlags maps each of the 256 byte values to its ParseFlag.
//
// The table is immutable once built and safe for concurrent lookups.
type ParseFlags [256]ParseFlag

// NewParseFlags builds the classification table from the configured
// control bytes. Unconfigured bytes stay FlagOrdinary. Building twice
// from the same configuration yields identical tables.
func NewParseFlags(delimiter, quote byte, newlines []byte) ParseFlags {
	var pf ParseFlags
	pf[delimiter] = FlagDelimiter
	pf[quote] = FlagQuote
	for _, c := range newlines {
		pf[c] = FlagNewline
	}
	return pf
}

// WhitespaceFlags marks which byte values are trim-eligible.
//
// Independent of ParseFlags; a byte may be ordinary for scanning yet
// still trimmed from field edges.
type WhitespaceFlags [256]bool

// NewWhitespaceFlags builds the trim table. A nil or empty set disables
// trimming entirely.
func NewWhitespaceFlags(chars []byte) WhitespaceFlags {
	var wf WhitespaceFlags
	for _, c := range chars {
		wf[c] = true
	}
	return wf
}
