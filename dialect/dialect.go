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

// Package dialect describes the textual shape of a delimiter-separated
// input: which bytes separate fields, quote content and terminate rows.
package dialect

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/rowscan/rowscan/common"
	"github.com/rowscan/rowscan/tokenizer"
)

func newError(format string, args ...any) error {
	format = "dialect: " + format
	return errors.Errorf(format, args...)
}

var (
	ErrSameControlBytes = newError("delimiter and quote must differ")
	ErrNulControlByte   = newError("NUL is not a valid control byte")
	ErrEmptyNewlines    = newError("at least one newline byte required")
)

// Dialect is the configuration surface of one parse session.
//
// Delimiter, Quote and Newlines are single characters given as strings
// so they round-trip cleanly through YAML and CLI flags.
type Dialect struct {
	Delimiter string `config:"delimiter" mapstructure:"delimiter"`
	Quote     string `config:"quote" mapstructure:"quote"`
	Newlines  string `config:"newlines" mapstructure:"newlines"`
	TrimChars string `config:"trimChars" mapstructure:"trimChars"`
	Header    bool   `config:"header" mapstructure:"header"`
}

// Default returns the RFC 4180 flavored dialect: comma, double quote,
// CR/LF terminators, no trimming.
func Default() Dialect {
	return Dialect{
		Delimiter: ",",
		Quote:     `"`,
		Newlines:  "\r\n",
	}
}

// FromOptions builds a Dialect from loose key/value options, filling
// unset keys from the default dialect.
func FromOptions(opts common.Options) (Dialect, error) {
	d := Default()
	if err := mapstructure.Decode(opts, &d); err != nil {
		return d, err
	}
	return d, d.Validate()
}

// Validate reports every configuration problem at once.
func (d Dialect) Validate() error {
	var errs *multierror.Error
	if len(d.Delimiter) != 1 {
		errs = multierror.Append(errs, newError("delimiter must be exactly one byte, got %q", d.Delimiter))
	}
	if len(d.Quote) != 1 {
		errs = multierror.Append(errs, newError("quote must be exactly one byte, got %q", d.Quote))
	}
	if len(d.Newlines) == 0 {
		errs = multierror.Append(errs, ErrEmptyNewlines)
	}

	if len(d.Delimiter) == 1 && len(d.Quote) == 1 && d.Delimiter == d.Quote {
		errs = multierror.Append(errs, ErrSameControlBytes)
	}
	// a byte classifies as exactly one control role, newlines would win
	if len(d.Delimiter) == 1 && strings.Contains(d.Newlines, d.Delimiter) {
		errs = multierror.Append(errs, newError("delimiter %q must not appear in newlines %q", d.Delimiter, d.Newlines))
	}
	if len(d.Quote) == 1 && strings.Contains(d.Newlines, d.Quote) {
		errs = multierror.Append(errs, newError("quote %q must not appear in newlines %q", d.Quote, d.Newlines))
	}
	for _, s := range []string{d.Delimiter, d.Quote, d.Newlines} {
		for i := 0; i < len(s); i++ {
			if s[i] == 0 {
				errs = multierror.Append(errs, ErrNulControlByte)
			}
		}
	}
	return errs.ErrorOrNil()
}

// TokenizerOptions converts the dialect into the tokenizer's byte-level
// configuration. Call Validate first; unchecked dialects may panic here.
func (d Dialect) TokenizerOptions() tokenizer.Options {
	return tokenizer.Options{
		Delimiter: d.Delimiter[0],
		Quote:     d.Quote[0],
		Newlines:  []byte(d.Newlines),
		TrimChars: []byte(d.TrimChars),
	}
}
