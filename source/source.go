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

// Package source supplies sequential byte chunks of one logical input
// to the tokenizer.
package source

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/rowscan/rowscan/common"
)

func newError(format string, args ...any) error {
	format = "source: " + format
	return errors.Errorf(format, args...)
}

// ErrClosed src has already been closed.
var ErrClosed = newError("closed")

// Source is a sequential chunk supplier.
//
// Chunks are non-overlapping regions of the logical input, delivered in
// order. The final call reports last=true, possibly with an empty
// chunk. Returned slices are read-only; they stay addressable until the
// Source is closed, since rows produced by the tokenizer alias them.
type Source interface {
	// Next returns the next chunk and whether it is the final one.
	Next() ([]byte, bool, error)

	// Close releases the underlying resources. Rows referencing
	// previously returned chunks must not be dereferenced afterwards.
	Close() error
}

// Open picks a Source for path: snappy-framed streams for .sz files,
// an mmap-backed source for everything else.
func Open(path string) (Source, error) {
	if filepath.Ext(path) == ".sz" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		return NewSnappyStream(f, common.ReadWriteBlockSize), nil
	}
	return OpenFile(path, common.ReadWriteBlockSize)
}
