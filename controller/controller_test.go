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

package controller

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowscan/rowscan/common"
	"github.com/rowscan/rowscan/confengine"
	"github.com/rowscan/rowscan/exporter"
	"github.com/rowscan/rowscan/internal/json"
)

func TestWatchConfigDefaults(t *testing.T) {
	var cfg WatchConfig
	assert.Equal(t, "*.csv", cfg.GetPattern())
	assert.Equal(t, 10*time.Second, cfg.GetInterval())

	cfg.Pattern = "*.tsv"
	cfg.Interval = time.Minute
	assert.Equal(t, "*.tsv", cfg.GetPattern())
	assert.Equal(t, time.Minute, cfg.GetInterval())
}

func TestZipColumns(t *testing.T) {
	got := zipColumns([]string{"id", "name", "extra"}, []string{"1", "x"})
	assert.Equal(t, map[string]string{"id": "1", "name": "x"}, got)
}

func newTestController(t *testing.T, watchDir, outFile string) *Controller {
	content := fmt.Sprintf(`
logger:
  stdout: true

controller:
  watch:
    directory: %s
    pattern: "*.csv"
  dialect:
    header: true

exporter:
  rows:
    enabled: true
    filename: %s

server:
  enabled: false
`, watchDir, outFile)

	conf, err := confengine.LoadContent([]byte(content))
	require.NoError(t, err)

	ctr, err := New(conf, common.BuildInfo{Version: "test"})
	require.NoError(t, err)
	t.Cleanup(ctr.Stop)
	return ctr
}

func readRecords(t *testing.T, path string) []exporter.Record {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var recs []exporter.Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec exporter.Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		recs = append(recs, rec)
	}
	return recs
}

func TestScanOnce(t *testing.T) {
	watchDir := t.TempDir()
	outFile := filepath.Join(t.TempDir(), "rows.ndjson")
	ctr := newTestController(t, watchDir, outFile)

	dataFile := filepath.Join(watchDir, "data.csv")
	require.NoError(t, os.WriteFile(dataFile, []byte("id,name\n1,alpha\n2,beta\n"), 0o644))

	ctr.scanOnce()

	recs := readRecords(t, outFile)
	require.Len(t, recs, 2)
	assert.Equal(t, dataFile, recs[0].File)
	assert.Equal(t, []string{"1", "alpha"}, recs[0].Fields)
	assert.Equal(t, map[string]string{"id": "1", "name": "alpha"}, recs[0].Columns)
	assert.Equal(t, map[string]string{"id": "2", "name": "beta"}, recs[1].Columns)

	// unchanged files are not rescanned
	ctr.scanOnce()
	assert.Len(t, readRecords(t, outFile), 2)
}

func TestScanOnceRescanOnChange(t *testing.T) {
	watchDir := t.TempDir()
	outFile := filepath.Join(t.TempDir(), "rows.ndjson")
	ctr := newTestController(t, watchDir, outFile)

	dataFile := filepath.Join(watchDir, "data.csv")
	require.NoError(t, os.WriteFile(dataFile, []byte("id\n1\n"), 0o644))
	ctr.scanOnce()

	require.NoError(t, os.WriteFile(dataFile, []byte("id\n1\n2\n"), 0o644))
	// mtime granularity can swallow quick rewrites
	future := time.Now().Add(time.Second)
	require.NoError(t, os.Chtimes(dataFile, future, future))
	ctr.scanOnce()

	assert.Len(t, readRecords(t, outFile), 3)
}

func TestReload(t *testing.T) {
	watchDir := t.TempDir()
	outFile := filepath.Join(t.TempDir(), "rows.ndjson")
	ctr := newTestController(t, watchDir, outFile)

	content := `
controller:
  watch:
    directory: /elsewhere
    pattern: "*.tsv"
  dialect:
    delimiter: "\t"
`
	conf, err := confengine.LoadContent([]byte(content))
	require.NoError(t, err)
	require.NoError(t, ctr.Reload(conf))

	cfg := ctr.config()
	assert.Equal(t, "/elsewhere", cfg.Watch.Directory)
	assert.Equal(t, "*.tsv", cfg.Watch.Pattern)
	assert.Equal(t, "\t", cfg.Dialect.Delimiter)
}

func TestReloadInvalidDialect(t *testing.T) {
	watchDir := t.TempDir()
	outFile := filepath.Join(t.TempDir(), "rows.ndjson")
	ctr := newTestController(t, watchDir, outFile)

	conf, err := confengine.LoadContent([]byte(`
controller:
  dialect:
    delimiter: ","
    quote: ","
`))
	require.NoError(t, err)
	assert.Error(t, ctr.Reload(conf))
}
