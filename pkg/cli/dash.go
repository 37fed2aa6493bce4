package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/mleary/quotedash/pkg/execution"
	"github.com/mleary/quotedash/pkg/pipeline"
	"github.com/mleary/quotedash/pkg/quotes"
	"github.com/mleary/quotedash/pkg/storage"
	"github.com/mleary/quotedash/pkg/tui"
)

// NewDashCommand creates the dash command
func NewDashCommand() *cobra.Command {
	var (
		endpoint  string
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Open the interactive dashboard",
		Long: `Open the interactive terminal dashboard.

Pick a topic and a quote count with the selectors, then activate the
Fetch Quotes button to run the pipeline. The four regions fill in one at
a time as the steps complete.

Examples:
  # Open the dashboard against the configured endpoint
  quotedash dash

  # Open the dashboard against a local mock server
  quotedash dash --endpoint http://localhost:8640`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadAppConfig(GetAppConfigPath())
			if err != nil {
				return err
			}
			if endpoint != "" {
				config.Endpoint = endpoint
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

			dashboard := tui.NewDashboard(config.Topics, config.Counts)

			runner := execution.NewRunner(client, dashboard)
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

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// The trigger callback must not block the UI loop; the run
			// executes in its own goroutine and reports back through the
			// renderer
			dashboard.SetOnTrigger(func(input pipeline.Input) {
				go func() {
					if _, err := runner.Run(ctx, input); err != nil {
						if errors.Is(err, execution.ErrRunInProgress) {
							return
						}
						log.Printf("run failed: %v", err)
					}
				}()
			})

			app, err := tui.NewApp(dashboard)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			return app.Run()
		},
	}

	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "Quotes service base URL (overrides config)")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record runs in the history database")

	return cmd
}
