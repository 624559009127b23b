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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rowscan/rowscan/common"
)

var (
	scannedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "tokenizer_scanned_bytes_total",
			Help:      "Bytes handed to the tokenizer total",
		},
	)

	scannedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "tokenizer_scanned_rows_total",
			Help:      "Rows pushed to the row queue total",
		},
	)

	carriedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "tokenizer_carried_rows_total",
			Help:      "Rows copied into the carry buffer at chunk boundaries total",
		},
	)
)
