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

// Package controller wires the agent together: it watches a directory
// for delimiter-separated files, parses whatever arrives and hands the
// rows to the exporter.
package controller

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rowscan/rowscan/common"
	"github.com/rowscan/rowscan/confengine"
	"github.com/rowscan/rowscan/dialect"
	"github.com/rowscan/rowscan/exporter"
	"github.com/rowscan/rowscan/internal/rescue"
	"github.com/rowscan/rowscan/logger"
	"github.com/rowscan/rowscan/reader"
	"github.com/rowscan/rowscan/server"
	"github.com/rowscan/rowscan/source"
)

type WatchConfig struct {
	Directory string        `config:"directory"`
	Pattern   string        `config:"pattern"`
	Interval  time.Duration `config:"interval"`
}

func (c WatchConfig) GetPattern() string {
	if c.Pattern == "" {
		return "*.csv"
	}
	return c.Pattern
}

func (c WatchConfig) GetInterval() time.Duration {
	if c.Interval < time.Second {
		return 10 * time.Second
	}
	return c.Interval
}

type Config struct {
	Watch   WatchConfig     `config:"watch"`
	Dialect dialect.Dialect `config:"dialect"`
}

type Controller struct {
	ctx       context.Context
	cancel    context.CancelFunc
	buildInfo common.BuildInfo

	mut sync.Mutex
	cfg Config

	exp *exporter.Exporter
	svr *server.Server

	// seen maps scanned paths to their modification time, a file is
	// rescanned when it changes
	seen map[string]int64
}

func setupLogger(conf *confengine.Config) error {
	var opts logger.Options
	if err := conf.UnpackChild("logger", &opts); err != nil {
		return err
	}

	if opts.Filename == "" {
		opts.Filename = "rowscan.log"
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 10
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 7
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = 100
	}

	logger.SetOptions(opts)
	return nil
}

func New(conf *confengine.Config, buildInfo common.BuildInfo) (*Controller, error) {
	if err := setupLogger(conf); err != nil {
		return nil, err
	}

	var cfg Config
	cfg.Dialect = dialect.Default()
	if err := conf.UnpackChild("controller", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Dialect.Validate(); err != nil {
		return nil, err
	}

	exp, err := exporter.New(conf)
	if err != nil {
		return nil, err
	}

	svr, err := server.New(conf)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		ctx:       ctx,
		cancel:    cancel,
		buildInfo: buildInfo,
		cfg:       cfg,
		exp:       exp,
		svr:       svr,
		seen:      make(map[string]int64),
	}, nil
}

func (c *Controller) Start() error {
	c.setupServer()

	if c.svr != nil {
		go func() {
			if err := c.svr.ListenAndServe(); err != nil {
				logger.Errorf("failed to start server: %v", err)
			}
		}()
	}

	go c.loopWatch()
	return nil
}

func (c *Controller) loopWatch() {
	defer rescue.HandleCrash()

	c.scanOnce()

	ticker := time.NewTicker(c.config().Watch.GetInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.scanOnce()

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Controller) config() Config {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.cfg
}

// scanOnce walks the watched directory and parses every new or changed
// file matching the pattern.
func (c *Controller) scanOnce() {
	cfg := c.config()
	if cfg.Watch.Directory == "" {
		return
	}

	matches, err := filepath.Glob(filepath.Join(cfg.Watch.Directory, cfg.Watch.GetPattern()))
	if err != nil {
		logger.Errorf("failed to list watch directory: %v", err)
		return
	}
	watchedFiles.Set(float64(len(matches)))

	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		modt := info.ModTime().UnixNano()
		c.mut.Lock()
		prev, ok := c.seen[path]
		c.mut.Unlock()
		if ok && prev == modt {
			continue
		}

		if err := c.scanFile(path, cfg.Dialect); err != nil {
			scanErrors.Inc()
			logger.Errorf("failed to scan %s: %v", path, err)
			continue
		}
		c.mut.Lock()
		c.seen[path] = modt
		c.mut.Unlock()
	}
}

func (c *Controller) scanFile(path string, d dialect.Dialect) error {
	src, err := source.Open(path)
	if err != nil {
		return err
	}

	r, err := reader.New(src, d)
	if err != nil {
		src.Close()
		return err
	}
	defer r.Close()

	var index uint64
	for {
		row, ok := r.ReadRow()
		if !ok {
			break
		}

		rec := exporter.Record{
			File:   path,
			Index:  index,
			Fields: row.Strings(),
		}
		if cols := r.Columns(); cols != nil {
			rec.Columns = zipColumns(cols, rec.Fields)
		}
		if err := c.exp.Export(rec); err != nil {
			logger.Errorf("failed to export row %d of %s: %v", index, path, err)
		}
		index++
	}

	stats := r.Stats()
	scannedFiles.Inc()
	exportedRows.Add(float64(stats.Rows))
	logger.Infof("scanned %s: rows=%d fields=%d bytes=%d", path, stats.Rows, stats.Fields, stats.Bytes)
	return r.Err()
}

func zipColumns(cols, fields []string) map[string]string {
	m := make(map[string]string, len(cols))
	for i, col := range cols {
		if i >= len(fields) {
			break
		}
		m[col] = fields[i]
	}
	return m
}

// Reload swaps the watch target and dialect, already scanned files stay
// remembered.
func (c *Controller) Reload(conf *confengine.Config) error {
	var cfg Config
	cfg.Dialect = dialect.Default()
	if err := conf.UnpackChild("controller", &cfg); err != nil {
		return err
	}
	if err := cfg.Dialect.Validate(); err != nil {
		return err
	}

	c.mut.Lock()
	c.cfg = cfg
	c.mut.Unlock()
	return nil
}

func (c *Controller) Stop() {
	c.cancel()
	c.exp.Close()
	if c.svr != nil {
		c.svr.Close()
	}
}
