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
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/langtranslator/internal/detector"
	"github.com/valpere/langtranslator/internal/translator"
)

var (
	identifyInput string
	identifyLocal bool
	identifyLimit int
)

var identifyCmd = &cobra.Command{
	Use:   "identify [text]",
	Short: "Identify the language of a text",
	Long: `Identify the language of a text given as arguments or read from a file.

With --local the text is classified offline and no request is sent.

Example:
  langtranslator identify "Das ist ein Satz."
  langtranslator identify -i letter.txt --limit 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := identifyText(args)
		if err != nil {
			return err
		}

		var langs *translator.IdentifiedLanguages
		if identifyLocal {
			langs, err = identifyOffline(text)
		} else {
			langs, err = identifyRemote(cmd, text)
		}
		if err != nil {
			return err
		}

		if identifyLimit > 0 && len(langs.Languages) > identifyLimit {
			langs.Languages = langs.Languages[:identifyLimit]
		}
		return render(os.Stdout, langs, func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "LANGUAGE\tCONFIDENCE")
			for _, l := range langs.Languages {
				fmt.Fprintf(tw, "%s\t%.4f\n", l.Language, l.Confidence)
			}
		})
	},
}

func identifyText(args []string) (string, error) {
	if identifyInput != "" {
		raw, err := os.ReadFile(identifyInput)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(raw), nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("no text given: pass it as arguments or use --input")
	}
	return strings.Join(args, " "), nil
}

func identifyRemote(cmd *cobra.Command, text string) (*translator.IdentifiedLanguages, error) {
	s, err := newSession()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	ctx := cmd.Context()
	start := time.Now()
	langs, err := s.client.Identify(ctx, &translator.IdentifyOptions{Text: text})
	s.record(ctx, "identify", text, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to identify language: %w", err)
	}
	return langs, nil
}

func identifyOffline(text string) (*translator.IdentifiedLanguages, error) {
	det, err := detector.New()
	if err != nil {
		return nil, err
	}
	langs := &translator.IdentifiedLanguages{}
	for _, c := range det.Candidates(text, 0) {
		langs.Languages = append(langs.Languages, translator.IdentifiedLanguage{
			Language:   c.Language,
			Confidence: c.Confidence,
		})
	}
	if len(langs.Languages) == 0 {
		return nil, fmt.Errorf("no language detected")
	}
	return langs, nil
}

func init() {
	rootCmd.AddCommand(identifyCmd)

	identifyCmd.Flags().StringVarP(&identifyInput, "input", "i", "", "Read the text from a file")
	identifyCmd.Flags().BoolVar(&identifyLocal, "local", false, "Detect the language offline without calling the service")
	identifyCmd.Flags().IntVar(&identifyLimit, "limit", 0, "Show at most this many candidates (0 = all)")
}
