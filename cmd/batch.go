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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/langtranslator/internal/batch"
	"github.com/valpere/langtranslator/internal/chunker"
	"github.com/valpere/langtranslator/internal/translator"
)

var (
	batchSourceLang string
	batchTargetLang string
	batchModelID    string
	batchOutDir     string
	batchWorkers    int
	batchTimeout    time.Duration
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>...",
	Short: "Translate several files concurrently",
	Long: `Translate several independent files at once, one request per file.

Each file is written next to the input (or into --out-dir) with the target
language inserted before its extension: notes.txt becomes notes.es.txt.
A failed file is reported and skipped; it is not retried.

Example:
  langtranslator translate batch -t es --workers 8 docs/*.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if batchTargetLang == "" && batchModelID == "" {
			return fmt.Errorf("either --target or --model is required")
		}
		src, err := canonicalLang(batchSourceLang)
		if err != nil {
			return err
		}
		tgt, err := canonicalLang(batchTargetLang)
		if err != nil {
			return err
		}

		jobs := make([]batch.Job, 0, len(args))
		groups := make(map[string][]int, len(args))
		for _, path := range args {
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			segments, g := chunker.Plan(string(raw), chunker.DefaultMaxChars)
			if len(segments) == 0 {
				fmt.Fprintf(os.Stderr, "Skipping empty file %s\n", path)
				continue
			}
			groups[path] = g
			jobs = append(jobs, batch.Job{
				Name:    path,
				Options: &translator.TranslateOptions{Text: segments, ModelID: batchModelID, Source: src, Target: tgt},
			})
		}

		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		runner := batch.New(journaled{s}, batch.Config{Workers: batchWorkers, Timeout: batchTimeout})
		outcomes := runner.Run(cmd.Context(), jobs)

		suffix := tgt
		if suffix == "" {
			suffix = batchModelID
		}
		for _, o := range outcomes {
			if o.Err != nil {
				fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", o.Name, o.Err)
				continue
			}
			dest := outputPath(o.Name, batchOutDir, suffix)
			if err := writeOutput(dest, []byte(chunker.Join(o.Result.Texts(), groups[o.Name])+"\n")); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "%s -> %s (%s)\n", o.Name, dest, o.Latency.Round(time.Millisecond))
		}

		if n := batch.Failed(outcomes); n > 0 {
			return fmt.Errorf("%d of %d files failed", n, len(outcomes))
		}
		return nil
	},
}

// journaled records every translate call made through the batch runner.
type journaled struct {
	s *session
}

func (j journaled) Translate(ctx context.Context, opts *translator.TranslateOptions) (*translator.TranslationResult, error) {
	start := time.Now()
	res, err := j.s.client.Translate(ctx, opts)
	subject := ""
	if opts != nil && len(opts.Text) > 0 {
		subject = opts.Text[0]
	}
	j.s.record(context.WithoutCancel(ctx), "translate", subject, start, err)
	return res, err
}

// outputPath inserts suffix before the extension of path and optionally
// moves the result into dir.
func outputPath(path, dir, suffix string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext) + "." + suffix + ext
	if dir == "" {
		return base
	}
	return filepath.Join(dir, filepath.Base(base))
}

func init() {
	translateCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchSourceLang, "source", "s", "", "Source language code (default: identified by the service)")
	batchCmd.Flags().StringVarP(&batchTargetLang, "target", "t", "", "Target language code")
	batchCmd.Flags().StringVar(&batchModelID, "model", "", "Translation model ID")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "Directory for translated files (default: next to each input)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", batch.DefaultWorkers, "Files translated concurrently")
	batchCmd.Flags().DurationVar(&batchTimeout, "job-timeout", batch.DefaultTimeout, "Timeout for each file")
}
