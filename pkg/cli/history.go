package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mleary/quotedash/pkg/pipeline"
	"github.com/mleary/quotedash/pkg/storage"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past pipeline runs",
		Long: `Inspect the run history recorded by the dash and run commands.

Examples:
  # List the most recent runs
  quotedash history list

  # Show one run with its per-step outcomes
  quotedash history show 4f2a...

  # Delete a run
  quotedash history delete 4f2a...`,
	}

	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryShowCommand())
	cmd.AddCommand(newHistoryDeleteCommand())

	return cmd
}

// newHistoryListCommand creates the history list subcommand
func newHistoryListCommand() *cobra.Command {
	var (
		limit      int
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				if config, err := LoadAppConfig(GetAppConfigPath()); err == nil {
					limit = config.HistoryLimit
				}
			}

			repo, err := storage.NewSQLiteRunRepositoryWithPath(GetDatabasePath())
			if err != nil {
				return fmt.Errorf("failed to open run history: %w", err)
			}
			defer func() { _ = repo.Close() }()

			runs, err := repo.List(limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			if outputJSON {
				output, err := json.MarshalIndent(runs, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal output: %w", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return nil
			}

			if len(runs) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "RUN ID\tTOPIC\tCOUNT\tSTATUS\tSTARTED\tDURATION")
			for _, run := range runs {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%.2fs\n",
					run.ID,
					run.Topic,
					run.Count,
					run.Status,
					run.StartedAt.Format("2006-01-02 15:04:05"),
					run.Duration().Seconds(),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&outputJSON, "output-json", false, "Output result as JSON")

	return cmd
}

// newHistoryShowCommand creates the history show subcommand
func newHistoryShowCommand() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run with its per-step outcomes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := storage.NewSQLiteRunRepositoryWithPath(GetDatabasePath())
			if err != nil {
				return fmt.Errorf("failed to open run history: %w", err)
			}
			defer func() { _ = repo.Close() }()

			run, err := repo.Load(pipeline.RunID(args[0]))
			if err != nil {
				return fmt.Errorf("failed to load run: %w", err)
			}

			if outputJSON {
				output, err := json.MarshalIndent(run, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal output: %w", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return nil
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Run:      %s\n", run.ID)
			_, _ = fmt.Fprintf(out, "Topic:    %s (count %d)\n", run.Topic, run.Count)
			_, _ = fmt.Fprintf(out, "Status:   %s\n", run.Status)
			_, _ = fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
			_, _ = fmt.Fprintf(out, "Duration: %.2fs\n", run.Duration().Seconds())
			if run.ErrorMessage != "" {
				_, _ = fmt.Fprintf(out, "Failed:   %s (%s)\n", run.FailedStep, run.ErrorMessage)
			}

			if len(run.StepRecords) > 0 {
				_, _ = fmt.Fprintln(out, "\nSteps:")
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintln(w, "  STEP\tSTATUS\tQUOTES\tDURATION\tMESSAGE")
				for _, record := range run.StepRecords {
					_, _ = fmt.Fprintf(w, "  %s\t%s\t%d\t%dms\t%s\n",
						record.StepID,
						record.Status,
						record.QuoteCount,
						record.Duration().Milliseconds(),
						record.Message,
					)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "output-json", false, "Output result as JSON")

	return cmd
}

// newHistoryDeleteCommand creates the history delete subcommand
func newHistoryDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a run from the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := storage.NewSQLiteRunRepositoryWithPath(GetDatabasePath())
			if err != nil {
				return fmt.Errorf("failed to open run history: %w", err)
			}
			defer func() { _ = repo.Close() }()

			if err := repo.Delete(pipeline.RunID(args[0])); err != nil {
				return fmt.Errorf("failed to delete run: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Run %s deleted\n", args[0])
			return nil
		},
	}

	return cmd
}
