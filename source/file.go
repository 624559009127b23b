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

package source

// File serves chunks out of a memory-mapped file, one contiguous region
// sliced without copying. The kernel pages data in as the scan
// progresses, so files far larger than memory parse fine.
type File struct {
	bytes   *Bytes
	release func() error
	closed  bool
}

func OpenFile(path string, blockSize int) (*File, error) {
	data, release, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	return &File{
		bytes:   NewBytes(data, blockSize),
		release: release,
	}, nil
}

// Next implements the Source interface.
func (f *File) Next() ([]byte, bool, error) {
	if f.closed {
		return nil, true, ErrClosed
	}
	return f.bytes.Next()
}

// Close implements the Source interface, unmapping the file.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	_ = f.bytes.Close()
	if f.release == nil {
		return nil
	}
	return f.release()
}
