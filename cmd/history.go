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
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/langtranslator/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the local call history",
	Long:  `List, summarise and clear the SQLite journal of calls made to the service.`,
}

func openHistory() (*store.Store, error) {
	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent calls",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		calls, err := db.ListCalls(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list calls: %w", err)
		}
		if len(calls) == 0 && viper.GetString("output") == "table" {
			fmt.Println("No calls recorded.")
			return nil
		}

		return render(os.Stdout, calls, func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "TIME\tOPERATION\tSTATUS\tLATENCY\tSUBJECT\tERROR")
			for _, c := range calls {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%dms\t%s\t%s\n",
					c.Timestamp.Format("2006-01-02 15:04:05"), c.Operation, c.StatusCode,
					c.LatencyMs, truncate(c.Subject, 40), truncate(c.Error, 60))
			}
		})
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show call statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.CallStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		return render(os.Stdout, stats, func(tw *tabwriter.Writer) {
			fmt.Fprintf(tw, "Total calls:\t%d\n", stats.TotalCalls)
			fmt.Fprintf(tw, "Failed calls:\t%d\n", stats.FailedCalls)
			fmt.Fprintf(tw, "Average latency:\t%.0fms\n", stats.AvgLatencyMs)

			ops := make([]string, 0, len(stats.ByOperation))
			for op := range stats.ByOperation {
				ops = append(ops, op)
			}
			sort.Strings(ops)
			for _, op := range ops {
				fmt.Fprintf(tw, "  %s:\t%d\n", op, stats.ByOperation[op])
			}
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded calls",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ClearCalls(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Printf("Cleared %d calls from history.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "Number of calls to show (0 = all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyClearCmd)
}
