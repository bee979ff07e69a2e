/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/valpere/langtranslator/internal/translator"
)

var (
	csvInputFile  string
	csvOutputFile string
	csvSourceLang string
	csvTargetLang string
	csvModelID    string
	csvColumns    []int
	csvSkipHeader bool
	csvBatchSize  int
)

type cellRef struct {
	row, col int
}

var csvCmd = &cobra.Command{
	Use:   "csv",
	Short: "Translate columns of a CSV file",
	Long: `Translate one or more columns in a CSV file.

By default all columns are translated. Use -l to select specific columns
(0-indexed). The flag may be repeated to select multiple columns. Non-empty
cells are sent --batch at a time as the text array of one request.

Example:
  langtranslator translate csv -i data.csv -o out.csv -t uk -l 1 -l 3
  langtranslator translate csv -i data.csv -o out.csv -t es --skip-header`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if csvInputFile == csvOutputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}
		if csvTargetLang == "" && csvModelID == "" {
			return fmt.Errorf("either --target or --model is required")
		}
		src, err := canonicalLang(csvSourceLang)
		if err != nil {
			return err
		}
		tgt, err := canonicalLang(csvTargetLang)
		if err != nil {
			return err
		}

		f, err := os.Open(csvInputFile)
		if err != nil {
			return fmt.Errorf("failed to open input CSV: %w", err)
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		if err != nil {
			return fmt.Errorf("failed to read CSV: %w", err)
		}
		if len(records) == 0 {
			return fmt.Errorf("CSV file is empty")
		}

		refs, cells := selectCells(records, csvColumns, csvSkipHeader)

		out := make([][]string, len(records))
		for i, row := range records {
			out[i] = append([]string(nil), row...)
		}

		if len(cells) > 0 {
			s, err := newSession()
			if err != nil {
				return err
			}
			defer s.Close()

			template := translator.TranslateOptions{ModelID: csvModelID, Source: src, Target: tgt}
			translated, err := translateSegments(cmd.Context(), s, template, cells, csvBatchSize)
			if err != nil {
				return err
			}
			for i, ref := range refs {
				out[ref.row][ref.col] = translated[i]
			}
		}

		outFile, err := os.Create(csvOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output CSV: %w", err)
		}
		defer outFile.Close()

		writer := csv.NewWriter(outFile)
		if err := writer.WriteAll(out); err != nil {
			return fmt.Errorf("failed to write output CSV: %w", err)
		}

		fmt.Fprintf(os.Stderr, "Translated %d cells: %s\n", len(cells), csvOutputFile)
		return nil
	},
}

// selectCells returns the positions and contents of the non-empty cells to
// translate, in row-major order. No columns means every column.
func selectCells(records [][]string, columns []int, skipHeader bool) ([]cellRef, []string) {
	colSet := make(map[int]bool, len(columns))
	for _, c := range columns {
		colSet[c] = true
	}

	var refs []cellRef
	var cells []string
	for rowIdx, row := range records {
		if skipHeader && rowIdx == 0 {
			continue
		}
		for colIdx, cell := range row {
			if len(columns) > 0 && !colSet[colIdx] {
				continue
			}
			if cell == "" {
				continue
			}
			refs = append(refs, cellRef{row: rowIdx, col: colIdx})
			cells = append(cells, cell)
		}
	}
	return refs, cells
}

func init() {
	translateCmd.AddCommand(csvCmd)

	csvCmd.Flags().StringVarP(&csvInputFile, "input", "i", "", "Input CSV file (required)")
	csvCmd.Flags().StringVarP(&csvOutputFile, "output", "o", "", "Output CSV file (required)")
	csvCmd.Flags().StringVarP(&csvSourceLang, "source", "s", "", "Source language code (default: identified by the service)")
	csvCmd.Flags().StringVarP(&csvTargetLang, "target", "t", "", "Target language code")
	csvCmd.Flags().StringVar(&csvModelID, "model", "", "Translation model ID")
	csvCmd.Flags().IntSliceVarP(&csvColumns, "column", "l", nil, "Column index to translate (0-indexed, repeatable; default: all columns)")
	csvCmd.Flags().BoolVar(&csvSkipHeader, "skip-header", false, "Leave the first row untranslated")
	csvCmd.Flags().IntVar(&csvBatchSize, "batch", defaultSegmentsPerCall, "Cells sent per request")

	csvCmd.MarkFlagRequired("input")
	csvCmd.MarkFlagRequired("output")
}
