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

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rowscan/rowscan/common"
	"github.com/rowscan/rowscan/dialect"
	"github.com/rowscan/rowscan/internal/json"
	"github.com/rowscan/rowscan/reader"
	"github.com/rowscan/rowscan/source"
)

type scanCmdConfig struct {
	Delimiter string
	Quote     string
	Newlines  string
	TrimChars string
	Header    bool
}

func (c scanCmdConfig) decodeDialect() (dialect.Dialect, error) {
	opts := common.NewOptions()
	opts.Merge("delimiter", c.Delimiter)
	opts.Merge("quote", c.Quote)
	opts.Merge("newlines", c.Newlines)
	opts.Merge("trimChars", c.TrimChars)
	opts.Merge("header", c.Header)
	return dialect.FromOptions(opts)
}

var scanConfig scanCmdConfig

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Parse a file and print rows as newline-delimited JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		d, err := scanConfig.decodeDialect()
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid dialect: %v\n", err)
			os.Exit(1)
		}

		src, err := source.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open %s: %v\n", args[0], err)
			os.Exit(1)
		}

		r, err := reader.New(src, d)
		if err != nil {
			src.Close()
			fmt.Fprintf(os.Stderr, "failed to scan %s: %v\n", args[0], err)
			os.Exit(1)
		}
		defer r.Close()

		enc := json.NewEncoder(os.Stdout)
		for {
			row, ok := r.ReadRow()
			if !ok {
				break
			}

			fields := row.Strings()
			if cols := r.Columns(); cols != nil {
				m := make(map[string]string, len(cols))
				for i, col := range cols {
					if i >= len(fields) {
						break
					}
					m[col] = fields[i]
				}
				enc.Encode(m)
				continue
			}
			enc.Encode(fields)
		}

		if err := r.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "scan aborted: %v\n", err)
			os.Exit(1)
		}
	},
	Example: "# rowscan scan --delimiter ';' --header data.csv",
}

func init() {
	scanCmd.Flags().StringVar(&scanConfig.Delimiter, "delimiter", ",", "Field delimiter, exactly one byte")
	scanCmd.Flags().StringVar(&scanConfig.Quote, "quote", `"`, "Quote character, exactly one byte")
	scanCmd.Flags().StringVar(&scanConfig.Newlines, "newlines", "\r\n", "Bytes treated as row terminators")
	scanCmd.Flags().StringVar(&scanConfig.TrimChars, "trim", "", "Bytes trimmed from both ends of unquoted fields")
	scanCmd.Flags().BoolVar(&scanConfig.Header, "header", false, "Treat the first row as column names")
	rootCmd.AddCommand(scanCmd)
}
