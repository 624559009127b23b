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

// Package exporter writes parsed rows out as newline-delimited JSON,
// either to stdout or to a size-rotated file.
package exporter

import (
	"io"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/rowscan/rowscan/confengine"
	"github.com/rowscan/rowscan/internal/json"
)

type RowsConfig struct {
	Enabled    bool   `config:"enabled"`
	Console    bool   `config:"console"`
	Filename   string `config:"filename"`
	MaxSize    int    `config:"maxSize"`
	MaxBackups int    `config:"maxBackups"`
	MaxAge     int    `config:"maxAge"`
}

func (c *RowsConfig) Validate() {
	if c.Filename == "" {
		c.Filename = "rowscan.rows"
	}
	if c.MaxSize <= 0 {
		c.MaxSize = 100
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 10
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 7
	}
}

type Config struct {
	Rows RowsConfig `config:"rows"`
}

// Record is one exported row.
type Record struct {
	File    string            `json:"file"`
	Index   uint64            `json:"index"`
	Fields  []string          `json:"fields"`
	Columns map[string]string `json:"columns,omitempty"`
}

type Exporter struct {
	mut sync.Mutex
	cfg Config
	wr  io.WriteCloser
	enc json.Encoder
}

// New creates the Exporter instance. A disabled rows sink yields an
// exporter whose Export is a no-op.
func New(conf *confengine.Config) (*Exporter, error) {
	var cfg Config
	if err := conf.UnpackChild("exporter", &cfg); err != nil {
		return nil, err
	}

	if cfg.Rows.Enabled {
		cfg.Rows.Validate()
	}
	e := &Exporter{cfg: cfg}
	if !cfg.Rows.Enabled {
		return e, nil
	}

	switch {
	case cfg.Rows.Console:
		e.wr = os.Stdout
	default:
		e.wr = &lumberjack.Logger{
			Filename:   cfg.Rows.Filename,
			MaxSize:    cfg.Rows.MaxSize,
			MaxBackups: cfg.Rows.MaxBackups,
			MaxAge:     cfg.Rows.MaxAge,
			LocalTime:  true,
		}
	}
	e.enc = json.NewEncoder(e.wr)
	return e, nil
}

func (e *Exporter) Export(rec Record) error {
	if e.enc == nil {
		return nil
	}
	e.mut.Lock()
	defer e.mut.Unlock()
	return e.enc.Encode(rec)
}

func (e *Exporter) Close() {
	if e.wr == nil || e.wr == os.Stdout {
		return
	}
	e.wr.Close()
}
