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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rowscan/rowscan/common"
)

var (
	uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "uptime",
			Help:      "Uptime in seconds",
		},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "build_info",
			Help:      "Build information",
		},
		[]string{"version", "git_hash", "build_time"},
	)

	watchedFiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "watched_files",
			Help:      "Files currently matching the watch pattern",
		},
	)

	scannedFiles = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "scanned_files_total",
			Help:      "Files scanned total",
		},
	)

	exportedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "exported_rows_total",
			Help:      "Rows handed to the exporter total",
		},
	)

	scanErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "scan_errors_total",
			Help:      "File scans that failed total",
		},
	)
)
