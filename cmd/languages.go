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
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages the service can identify",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		start := time.Now()
		langs, err := s.client.ListIdentifiableLanguages(ctx)
		s.record(ctx, "list_identifiable_languages", "", start, err)
		if err != nil {
			return fmt.Errorf("failed to list languages: %w", err)
		}

		return render(os.Stdout, langs, func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "CODE\tNAME")
			for _, l := range langs.Languages {
				fmt.Fprintf(tw, "%s\t%s\n", l.Language, l.Name)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
