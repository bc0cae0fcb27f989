package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"stockwatch/internal/models"
	"stockwatch/internal/notify"
	"stockwatch/internal/store"
	"stockwatch/internal/sweep"
)

// addDetectionCommands adds anomaly detection commands.
func addDetectionCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newDetectCmd(app))
	rootCmd.AddCommand(newSweepCmd(app))
	rootCmd.AddCommand(newAlertsCmd(app))
}

func newDetectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect SYMBOL",
		Short: "Check one stock for volume and price anomalies",
		Example: `  stockwatch detect AAPL
  stockwatch detect TSLA --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()

			symbol := strings.ToUpper(args[0])
			if err := validateSymbol(symbol); err != nil {
				return err
			}
			if app.Detector == nil {
				return fmt.Errorf("store not available")
			}

			var events []models.AnomalyEvent
			for _, detect := range []func(context.Context, string) (*models.AnomalyEvent, error){
				app.Detector.DetectVolumeAnomaly,
				app.Detector.DetectPriceAnomaly,
			} {
				event, err := detect(ctx, symbol)
				if err != nil {
					return err
				}
				if event != nil {
					events = append(events, *event)
				}
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol": symbol,
					"events": events,
				})
			}

			if len(events) == 0 {
				output.Success("%s: no anomalies detected", symbol)
				return nil
			}
			renderEvents(output, events)
			return nil
		},
	}
	return cmd
}

func newSweepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the anomaly detection sweep over the watchlist",
		Long: `Run anomaly detection over every symbol in the configured watchlist
(or every ingested symbol when the watchlist is empty) and persist any
detected anomalies as alerts.

A failing symbol never aborts the rest of the sweep; failures are counted
and reported in the summary. With --daemon the sweep runs on the cron
schedule from the configuration instead of once.`,
		Example: `  stockwatch sweep
  stockwatch sweep --watchlist tech
  stockwatch sweep --daemon`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not available")
			}

			listName, _ := cmd.Flags().GetString("watchlist")
			if listName == "" {
				listName = app.Config.Sweep.Watchlist
			}
			daemon, _ := cmd.Flags().GetBool("daemon")

			runner := sweep.NewRunner(app.Store, app.Detector, listName, app.Logger)
			if app.Config.Notify.Webhook.Enabled {
				runner.SetNotifier(notify.NewWebhookNotifier(app.Config.Notify.Webhook.URL))
			}

			if daemon {
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()

				scheduler := sweep.NewScheduler(ctx, runner, app.Logger)
				if err := scheduler.Register(app.Config.Sweep.Schedule); err != nil {
					return err
				}
				scheduler.Start()
				defer scheduler.Stop()

				output.Info("Sweeping on schedule %q, press Ctrl-C to stop", app.Config.Sweep.Schedule)

				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
				<-sigCh
				return nil
			}

			summary, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(summary)
			}
			renderSummary(output, summary)
			return nil
		},
	}
	cmd.Flags().StringP("watchlist", "w", "", "watchlist to sweep (default from config)")
	cmd.Flags().Bool("daemon", false, "keep running and sweep on the configured schedule")
	return cmd
}

func newAlertsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List persisted anomaly alerts",
		Example: `  stockwatch alerts
  stockwatch alerts --symbol AAPL --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not available")
			}

			symbol, _ := cmd.Flags().GetString("symbol")
			limit, _ := cmd.Flags().GetInt("limit")
			if symbol != "" {
				symbol = strings.ToUpper(symbol)
				if err := validateSymbol(symbol); err != nil {
					return err
				}
			}

			alerts, err := app.Store.GetAlerts(cmd.Context(), store.AlertFilter{
				Symbol: symbol,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(alerts)
			}

			if len(alerts) == 0 {
				output.Println("No alerts.")
				return nil
			}

			table := NewTable(output, "Date", "Symbol", "Kind", "Severity", "Z-Score", "Message")
			for _, a := range alerts {
				table.AddRow(
					a.ObservedDate.Format(models.DateLayout),
					a.Symbol,
					string(a.Kind),
					output.ColoredString(output.SeverityColor(string(a.Severity)), string(a.Severity)),
					a.ZScore.StringFixed(2),
					a.Message,
				)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().String("symbol", "", "filter by symbol")
	cmd.Flags().Int("limit", 50, "maximum alerts to show")
	return cmd
}

func renderEvents(output *Output, events []models.AnomalyEvent) {
	table := NewTable(output, "Date", "Symbol", "Kind", "Severity", "Z-Score", "Message")
	for _, e := range events {
		table.AddRow(
			e.ObservedDate.Format(models.DateLayout),
			e.Symbol,
			string(e.Kind),
			output.ColoredString(output.SeverityColor(string(e.Severity)), string(e.Severity)),
			e.ZScore.StringFixed(2),
			e.Message,
		)
	}
	table.Render()
}

func renderSummary(output *Output, summary *sweep.Summary) {
	output.Bold("Sweep Summary")
	output.Printf("  Processed:      %d\n", summary.Processed)
	output.Printf("  Alerts created: %d\n", summary.AlertsCreated)
	output.Printf("  Deduplicated:   %d\n", summary.Deduplicated)
	output.Printf("  Errors:         %d\n", summary.Errors)
	output.Printf("  Duration:       %s\n", summary.Duration)

	var events []models.AnomalyEvent
	for _, outcome := range summary.Outcomes {
		events = append(events, outcome.Events...)
	}
	if len(events) > 0 {
		output.Println()
		renderEvents(output, events)
	}

	for _, outcome := range summary.Outcomes {
		if outcome.Err != nil {
			output.Warning("%s: %v", outcome.Symbol, outcome.Err)
		}
	}
}
