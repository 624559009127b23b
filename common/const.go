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

package common

const (
	// App is the application name, also used as the metrics namespace.
	App = "rowscan"

	// Version is the application version.
	Version = "v0.0.1"

	// ReadWriteBlockSize is the default chunk size handed to the tokenizer.
	//
	// Larger chunks lower the per-call overhead but raise the odds that a
	// row straddles a chunk boundary and has to be copied into the carry
	// buffer. 64K balanced both in benchmarks.
	ReadWriteBlockSize = 64 * 1024
)
