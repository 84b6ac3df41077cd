package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mlsimport/internal/ledger"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent import runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No import runs recorded yet.")
				return nil
			}

			titler := cases.Title(language.English)
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				detail := run.ErrorMessage
				if detail == "" {
					detail = run.DataDir
				}
				rows = append(rows, []string{
					run.CreatedAt.Local().Format("2006-01-02 15:04"),
					titler.String(run.Language),
					string(run.Status),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Language", "Status", "Detail"},
				rows,
			))

			splits, err := store.SplitsForRun(cmd.Context(), runs[0].ID)
			if err != nil {
				return err
			}
			if len(splits) > 0 {
				fmt.Fprintf(out, "\nLatest run (%s):\n", runs[0].ID)
				fmt.Fprintln(out, renderTable(
					[]string{"Split", "Rows", "Transcoded", "Skipped", "Duration"},
					splitRows(splits),
					1, 2, 3, 4,
				))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Number of runs to show")
	return cmd
}

func splitRows(splits []ledger.SplitResult) [][]string {
	rows := make([][]string, 0, len(splits))
	for _, split := range splits {
		rows = append(rows, []string{
			split.Split,
			strconv.Itoa(split.Rows),
			strconv.Itoa(split.Transcoded),
			strconv.Itoa(split.Skipped),
			split.Duration.Round(time.Millisecond).String(),
		})
	}
	return rows
}
