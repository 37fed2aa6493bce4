package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mleary/quotedash/pkg/execution"
	"github.com/mleary/quotedash/pkg/pipeline"
	"github.com/mleary/quotedash/pkg/quotes"
	"github.com/mleary/quotedash/pkg/storage"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var (
		topic      string
		count      int
		endpoint   string
		filterExpr string
		delayMS    int
		noHistory  bool
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the fetch pipeline without the dashboard",
		Long: `Execute the fetch pipeline once, headless, printing each step's
quotes as it completes.

Examples:
  # Run the pipeline for the default topic
  quotedash run

  # Run for a specific topic and count
  quotedash run --topic engineering --count 3

  # Run with a quote filter
  quotedash run --topic science --filter 'length < 120'

  # Run without pacing delays and emit the result as JSON
  quotedash run --delay-ms 0 --output-json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadAppConfig(GetAppConfigPath())
			if err != nil {
				return err
			}
			if endpoint != "" {
				config.Endpoint = endpoint
			}
			if cmd.Flags().Changed("delay-ms") {
				config.DelayMS = delayMS
			}
			if filterExpr != "" {
				config.Filter = filterExpr
			}

			if topic == "" {
				topic = config.Topics[0]
			}
			input := pipeline.Input{Topic: topic, Count: count}
			if err := input.Validate(); err != nil {
				return err
			}

			client, err := quotes.NewClient(quotes.Config{
				BaseURL:   config.Endpoint,
				Timeout:   config.Timeout(),
				AuthToken: storage.LoadAPIToken(),
			})
			if err != nil {
				return fmt.Errorf("failed to create quotes client: %w", err)
			}
			defer func() { _ = client.Close() }()

			// JSON mode suppresses the progress lines; only the result
			// document goes to stdout
			var out io.Writer = cmd.OutOrStdout()
			if outputJSON {
				out = io.Discard
			}

			runner := execution.NewRunner(client, execution.NewTextRenderer(out))
			runner.SetDelay(config.Delay())

			if config.Filter != "" {
				filter, err := quotes.NewFilter(config.Filter)
				if err != nil {
					return fmt.Errorf("invalid filter expression: %w", err)
				}
				runner.SetFilter(filter)
			}

			if !noHistory {
				repo, err := storage.NewSQLiteRunRepositoryWithPath(GetDatabasePath())
				if err != nil {
					return fmt.Errorf("failed to open run history: %w", err)
				}
				defer func() { _ = repo.Close() }()
				runner.SetLogger(execution.NewLogger(repo))
			}

			run, runErr := runner.Run(cmd.Context(), input)

			if outputJSON {
				if err := printRunJSON(cmd.OutOrStdout(), run, runErr); err != nil {
					return err
				}
			}

			if runErr != nil {
				if run == nil {
					return runErr
				}
				return fmt.Errorf("pipeline failed at %s: %w", run.FailedStep, runErr)
			}

			if !outputJSON {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Run %s completed in %.2fs\n",
					run.ID, run.Duration().Seconds())
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Quote topic (default: first configured topic)")
	cmd.Flags().IntVarP(&count, "count", "c", 3, "Quotes per step")
	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "Quotes service base URL (overrides config)")
	cmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "Quote filter expression (overrides config)")
	cmd.Flags().IntVar(&delayMS, "delay-ms", 900, "Pacing delay between steps in milliseconds")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in the history database")
	cmd.Flags().BoolVar(&outputJSON, "output-json", false, "Output result as JSON")

	return cmd
}

// printRunJSON writes the run result document to w.
func printRunJSON(w io.Writer, run *pipeline.Run, runErr error) error {
	if run == nil {
		return runErr
	}

	steps := make([]map[string]interface{}, 0, len(run.StepRecords))
	for _, record := range run.StepRecords {
		steps = append(steps, map[string]interface{}{
			"step":        string(record.StepID),
			"status":      string(record.Status),
			"quote_count": record.QuoteCount,
			"message":     record.Message,
			"duration_ms": record.Duration().Milliseconds(),
		})
	}

	result := map[string]interface{}{
		"run_id":   string(run.ID),
		"topic":    run.Topic,
		"count":    run.Count,
		"status":   string(run.Status),
		"duration": run.Duration().Round(time.Millisecond).Seconds(),
		"steps":    steps,
	}
	if run.ErrorMessage != "" {
		result["error"] = run.ErrorMessage
		result["failed_step"] = string(run.FailedStep)
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}
