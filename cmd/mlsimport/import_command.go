package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mlsimport/internal/config"
	"mlsimport/internal/pipeline"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <data_dir> <language>",
		Short: "Download, extract, and convert one MLS language",
		Long: "Import ensures the language archive exists under <data_dir>, extracts it,\n" +
			"transcodes every referenced FLAC to 16 kHz WAV, and writes one CSV manifest\n" +
			"per split. Re-running resumes where the previous run stopped.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			dataDir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve data dir: %w", err)
			}
			cfg.Paths.DataDir = dataDir
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			logger, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runner, err := pipeline.New(cfg, store, logger,
				pipeline.WithProgressWriter(progressWriter()),
			)
			if err != nil {
				return err
			}

			job, err := runner.Run(cmd.Context(), args[1])
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(job.Splits))
			for _, split := range job.Splits {
				rows = append(rows, []string{
					split.Split,
					strconv.Itoa(split.Rows),
					strconv.Itoa(split.Transcoded),
					strconv.Itoa(split.Skipped),
					split.ManifestPath,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Split", "Rows", "Transcoded", "Skipped", "Manifest"},
				rows,
				1, 2, 3,
			))
			return nil
		},
	}
}
