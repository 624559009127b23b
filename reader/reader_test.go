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

package reader

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowscan/rowscan/dialect"
	"github.com/rowscan/rowscan/source"
)

func newSession(t *testing.T, input string, d dialect.Dialect) *Reader {
	// a tiny block size forces rows to span chunk boundaries
	r, err := New(source.NewBytes([]byte(input), 7), d)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestReadRow(t *testing.T) {
	r := newSession(t, "a,b,c\nd,e,f\ng,h,i\n", dialect.Default())

	var rows [][]string
	for {
		row, ok := r.ReadRow()
		if !ok {
			break
		}
		rows = append(rows, row.Strings())
	}

	assert.Equal(t, [][]string{
		{"a", "b", "c"},
		{"d", "e", "f"},
		{"g", "h", "i"},
	}, rows)
	assert.NoError(t, r.Err())
}

func TestReadRowInvalidDialect(t *testing.T) {
	_, err := New(source.NewBytes(nil, 8), dialect.Dialect{Delimiter: ",", Quote: ","})
	assert.Error(t, err)
}

func TestRowsChannel(t *testing.T) {
	r := newSession(t, "1,one\n2,two\n3,three\n", dialect.Default())

	var rows [][]string
	for row := range r.Rows() {
		rows = append(rows, row.Strings())
	}
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"3", "three"}, rows[2])
}

func TestHeader(t *testing.T) {
	d := dialect.Default()
	d.Header = true
	r := newSession(t, "id,name\n1,alpha\n2,beta\n", d)

	var rows [][]string
	for {
		row, ok := r.ReadRow()
		if !ok {
			break
		}
		rows = append(rows, row.Strings())
	}

	assert.Equal(t, []string{"id", "name"}, r.Columns())
	assert.Equal(t, [][]string{{"1", "alpha"}, {"2", "beta"}}, rows)

	stats := r.Stats()
	assert.Equal(t, uint64(2), stats.Rows)
	assert.Equal(t, uint64(4), stats.Fields)
}

// With several consumers racing on ReadRow the column set must still be
// the file's first row, and no consumer may ever receive it as data.
func TestHeaderConcurrentConsumers(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("col_a,col_b\n")
	const total = 2000
	for i := 0; i < total; i++ {
		fmt.Fprintf(&sb, "row%d,value%d\n", i, i)
	}

	d := dialect.Default()
	d.Header = true
	r := newSession(t, sb.String(), d)

	var mut sync.Mutex
	var rows [][]string
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				row, ok := r.ReadRow()
				if !ok {
					return
				}
				fields := row.Strings()
				mut.Lock()
				rows = append(rows, fields)
				mut.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"col_a", "col_b"}, r.Columns())
	require.Len(t, rows, total)
	for _, row := range rows {
		require.NotEqual(t, []string{"col_a", "col_b"}, row)
	}
	assert.Equal(t, uint64(total), r.Stats().Rows)
}

func TestStats(t *testing.T) {
	input := "a,b\nc,d\n"
	r := newSession(t, input, dialect.Default())

	for {
		if _, ok := r.ReadRow(); !ok {
			break
		}
	}

	stats := r.Stats()
	assert.Equal(t, uint64(2), stats.Rows)
	assert.Equal(t, uint64(4), stats.Fields)
	assert.Equal(t, uint64(len(input)), stats.Bytes)
	assert.NotZero(t, stats.ActiveAt)
}

func TestConcurrentConsumers(t *testing.T) {
	var sb strings.Builder
	const total = 2000
	for i := 0; i < total; i++ {
		fmt.Fprintf(&sb, "row%d,value\n", i)
	}
	r := newSession(t, sb.String(), dialect.Default())

	var mut sync.Mutex
	var got int
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if _, ok := r.ReadRow(); !ok {
					return
				}
				mut.Lock()
				got++
				mut.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, total, got)
	assert.Equal(t, uint64(total), r.Stats().Rows)
}

func TestSubscribe(t *testing.T) {
	pr, pw := io.Pipe()
	r, err := New(source.NewStream(pr, 7), dialect.Default())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	// attach every subscriber before the first byte exists so no row can
	// be published past an unregistered queue
	q1 := r.Subscribe(16)
	q2 := r.Subscribe(16)
	defer r.Unsubscribe(q1)
	defer r.Unsubscribe(q2)

	_, err = pw.Write([]byte("a,1\nb,2\nc,3\n"))
	require.NoError(t, err)
	require.NoError(t, pw.Close())

	var got1, got2 int
	for {
		if _, ok := q1.PopTimeout(200 * time.Millisecond); !ok {
			break
		}
		got1++
	}
	for {
		if _, ok := q2.PopTimeout(200 * time.Millisecond); !ok {
			break
		}
		got2++
	}

	assert.Equal(t, 3, got1)
	assert.Equal(t, 3, got2)
}

func TestParse(t *testing.T) {
	rows, err := Parse([]byte("a,b\n\"c,d\",e\n"), dialect.Default())
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"a", "b"},
		{"c,d", "e"},
	}, rows)
}

func TestParseTrimDialect(t *testing.T) {
	d := dialect.Default()
	d.TrimChars = " "
	rows, err := Parse([]byte("  a  , b \n"), d)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}}, rows)
}

func TestClose(t *testing.T) {
	r := newSession(t, "a,b\n", dialect.Default())
	require.NoError(t, r.Close())

	// consumers drain what was produced, then observe end-of-input
	deadline := time.After(time.Second)
	done := make(chan struct{})
	go func() {
		for {
			if _, ok := r.ReadRow(); !ok {
				close(done)
				return
			}
		}
	}()

	select {
	case <-done:
	case <-deadline:
		t.Fatal("ReadRow never returned after Close")
	}
}
