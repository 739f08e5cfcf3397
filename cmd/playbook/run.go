package main

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/stratline/playbook/internal/db"
	"github.com/stratline/playbook/internal/pipeline"
)

func runCmd() *cobra.Command {
	var budget int
	cmd := &cobra.Command{
		Use:          "run",
		Short:        "Run the analysis pipeline and produce a portfolio report",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, workDir, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			cfg, err := loadConfig(workDir)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("budget") {
				cfg.BudgetPoints = budget
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			baseDir := filepath.Join(workDir, ".playbook")
			runner, err := pipeline.NewRunner(baseDir, cfg, db.NewStore(storeDB))
			if err != nil {
				return err
			}

			res, err := runner.Run(cmd.Context())
			if err != nil {
				log.Error().Err(err).Str("run_id", res.RunID).Msg("pipeline failed")
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Report.ExecSummary)
			fmt.Fprintf(cmd.OutOrStdout(), "\nReport written to %s\n", res.ReportPath)
			return nil
		},
	}
	cmd.Flags().IntVar(&budget, "budget", 0, "override budget_points from the config")
	return cmd
}
