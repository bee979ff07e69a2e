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
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/langtranslator/internal/chunker"
	"github.com/valpere/langtranslator/internal/detector"
	"github.com/valpere/langtranslator/internal/markdown"
	"github.com/valpere/langtranslator/internal/placeholder"
	"github.com/valpere/langtranslator/internal/translator"
	"github.com/valpere/langtranslator/internal/validator"
)

// defaultSegmentsPerCall caps the text array of one translate request.
const defaultSegmentsPerCall = 50

var (
	inputFile       string
	outputFile      string
	sourceLang      string
	targetLang      string
	modelID         string
	markdownInput   bool
	maxChars        int
	segmentsPerCall int
	verifyOutput    bool
	protectSpans    bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a text or Markdown document",
	Long: `Translate a document with the Language Translator service.

The input is split into paragraphs; paragraphs longer than --max-chars are
split further at sentence or word boundaries. Segments are sent as the text
array of one or more translate requests and reassembled in order.

--protect keeps code, URLs, markup tags and template variables such as
{{name}} or %s out of the request and puts them back afterwards.

Either --target or --model must be given. When --source is omitted the
service identifies the source language itself.

Example:
  langtranslator translate -i README.md -o README.es.md -t es --markdown
  langtranslator translate -i notes.txt -o notes.fr.txt --model en-fr-conversational`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile == outputFile && outputFile != "-" {
			return fmt.Errorf("input file and output file cannot be the same")
		}
		if targetLang == "" && modelID == "" {
			return fmt.Errorf("either --target or --model is required")
		}

		src, err := canonicalLang(sourceLang)
		if err != nil {
			return err
		}
		tgt, err := canonicalLang(targetLang)
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}

		text := string(raw)
		if markdownInput {
			text = strings.Join(markdown.Blocks(raw), chunker.ParagraphSeparator)
		}
		var shield placeholder.Shield
		if protectSpans {
			text = shield.Protect(text)
		}
		segments, groups := chunker.Plan(text, maxChars)
		if len(segments) == 0 {
			return fmt.Errorf("input file %s has no text to translate", inputFile)
		}

		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		template := translator.TranslateOptions{ModelID: modelID, Source: src, Target: tgt}
		translated, err := translateSegments(ctx, s, template, segments, segmentsPerCall)
		if err != nil {
			return err
		}

		if verifyOutput && tgt != "" {
			warnMismatches(translated, tgt)
		}

		result := chunker.Join(translated, groups)
		if shield.Len() > 0 {
			for _, span := range shield.Missing(result) {
				fmt.Fprintf(os.Stderr, "Warning: protected text lost in translation: %q\n", span)
			}
			result = shield.Restore(result)
		}

		if err := writeOutput(outputFile, []byte(result+"\n")); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Translated %d segments to %s\n", len(segments), targetOrModel(tgt, modelID))
		return nil
	},
}

// translateSegments sends segments in groups of at most perCall and returns
// the translations in input order.
func translateSegments(ctx context.Context, s *session, template translator.TranslateOptions, segments []string, perCall int) ([]string, error) {
	if perCall <= 0 {
		perCall = defaultSegmentsPerCall
	}

	out := make([]string, 0, len(segments))
	for start := 0; start < len(segments); start += perCall {
		end := min(start+perCall, len(segments))

		opts := template
		opts.Text = segments[start:end]

		began := time.Now()
		res, err := s.client.Translate(ctx, &opts)
		s.record(ctx, "translate", opts.Text[0], began, err)
		if err != nil {
			return nil, fmt.Errorf("failed to translate segments %d-%d: %w", start, end-1, err)
		}

		texts := res.Texts()
		if len(texts) != len(opts.Text) {
			return nil, fmt.Errorf("service returned %d translations for %d segments", len(texts), len(opts.Text))
		}
		out = append(out, texts...)
	}
	return out, nil
}

func warnMismatches(segments []string, target string) {
	det, err := detector.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: language check skipped: %v\n", err)
		return
	}
	for _, m := range validator.New(det).Verify(segments, target) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", m)
	}
}

func targetOrModel(target, model string) string {
	if model != "" {
		return "model " + model
	}
	return target
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate (required)")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "-", "Output file for the translation (- for stdout)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "", "Source language code (default: identified by the service)")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code")
	translateCmd.Flags().StringVar(&modelID, "model", "", "Translation model ID")
	translateCmd.Flags().BoolVar(&markdownInput, "markdown", false, "Treat the input as Markdown and translate only its prose")
	translateCmd.Flags().IntVar(&maxChars, "max-chars", chunker.DefaultMaxChars, "Maximum characters per segment (0 = no limit)")
	translateCmd.Flags().IntVar(&segmentsPerCall, "segments-per-call", defaultSegmentsPerCall, "Maximum segments sent in one request")
	translateCmd.Flags().BoolVar(&verifyOutput, "verify", false, "Warn when a translated segment is not in the target language")
	translateCmd.Flags().BoolVar(&protectSpans, "protect", false, "Keep code, URLs, markup tags and template variables untranslated")

	translateCmd.MarkFlagRequired("input")
}
