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
	"strings"

	"github.com/spf13/cobra"

	"github.com/rowscan/rowscan/internal/fingerprint"
	"github.com/rowscan/rowscan/reader"
	"github.com/rowscan/rowscan/source"
)

var infoConfig scanCmdConfig

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Summarize a file: row, field and distinct-row counts",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		d, err := infoConfig.decodeDialect()
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

		distinct := make(map[uint64]struct{})
		for {
			row, ok := r.ReadRow()
			if !ok {
				break
			}
			distinct[fingerprint.Row(row)] = struct{}{}
		}

		stats := r.Stats()
		fmt.Printf("file: %s\n", args[0])
		if cols := r.Columns(); cols != nil {
			fmt.Printf("columns: %s\n", strings.Join(cols, ", "))
		}
		fmt.Printf("rows: %d\n", stats.Rows)
		fmt.Printf("distinct rows: %d\n", len(distinct))
		fmt.Printf("fields: %d\n", stats.Fields)
		fmt.Printf("bytes: %d\n", stats.Bytes)

		if err := r.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "scan aborted: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	infoCmd.Flags().StringVar(&infoConfig.Delimiter, "delimiter", ",", "Field delimiter, exactly one byte")
	infoCmd.Flags().StringVar(&infoConfig.Quote, "quote", `"`, "Quote character, exactly one byte")
	infoCmd.Flags().StringVar(&infoConfig.Newlines, "newlines", "\r\n", "Bytes treated as row terminators")
	infoCmd.Flags().StringVar(&infoConfig.TrimChars, "trim", "", "Bytes trimmed from both ends of unquoted fields")
	infoCmd.Flags().BoolVar(&infoConfig.Header, "header", false, "Treat the first row as column names")
	rootCmd.AddCommand(infoCmd)
}
