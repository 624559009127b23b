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

// Package json pins the codec implementation behind one import.
package json

import (
	"io"

	gojson "github.com/goccy/go-json"
)

type Encoder interface {
	Encode(v any) error
}

func Marshal(v any) ([]byte, error) {
	return gojson.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return gojson.Unmarshal(data, v)
}

func NewEncoder(w io.Writer) Encoder {
	return gojson.NewEncoder(w)
}
