package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stockwatch/internal/store"
)

// addDataCommands adds ingestion and watchlist commands.
func addDataCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newIngestCmd(app))
	rootCmd.AddCommand(newWatchlistCmd(app))
}

func newIngestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest FILE",
		Short: "Ingest daily OHLCV history from a CSV file",
		Long: `Load daily price history from a CSV file with columns
date,open,high,low,close,volume. Existing rows for the same symbol and
date are replaced; rows violating the OHLC invariant fail the whole file.`,
		Example: `  stockwatch ingest aapl.csv --symbol AAPL`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not available")
			}

			symbol, _ := cmd.Flags().GetString("symbol")
			symbol = strings.ToUpper(symbol)
			if err := validateSymbol(symbol); err != nil {
				return err
			}

			count, err := store.IngestCSV(cmd.Context(), app.Store, symbol, args[0])
			if err != nil {
				return err
			}

			output.Success("Ingested %d price points for %s", count, symbol)
			return nil
		},
	}
	cmd.Flags().String("symbol", "", "stock symbol for the file (required)")
	cmd.MarkFlagRequired("symbol")
	return cmd
}

func newWatchlistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watchlist",
		Short:   "Manage watchlists of tracked symbols",
		Aliases: []string{"wl"},
	}

	listFlag := func(c *cobra.Command) {
		c.Flags().StringP("list", "l", "default", "watchlist name")
	}

	addCmd := &cobra.Command{
		Use:   "add SYMBOL...",
		Short: "Add symbols to a watchlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not available")
			}
			listName, _ := cmd.Flags().GetString("list")

			for _, arg := range args {
				symbol := strings.ToUpper(arg)
				if err := validateSymbol(symbol); err != nil {
					return err
				}
				if err := app.Store.AddToWatchlist(cmd.Context(), symbol, listName); err != nil {
					return err
				}
			}
			output.Success("Added %d symbol(s) to %s", len(args), listName)
			return nil
		},
	}
	listFlag(addCmd)

	removeCmd := &cobra.Command{
		Use:   "remove SYMBOL...",
		Short: "Remove symbols from a watchlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not available")
			}
			listName, _ := cmd.Flags().GetString("list")

			for _, arg := range args {
				symbol := strings.ToUpper(arg)
				if err := app.Store.RemoveFromWatchlist(cmd.Context(), symbol, listName); err != nil {
					return err
				}
			}
			output.Success("Removed %d symbol(s) from %s", len(args), listName)
			return nil
		},
	}
	listFlag(removeCmd)

	showCmd := &cobra.Command{
		Use:   "list",
		Short: "Show symbols in a watchlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not available")
			}
			listName, _ := cmd.Flags().GetString("list")

			symbols, err := app.Store.GetWatchlist(cmd.Context(), listName)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"list":    listName,
					"symbols": symbols,
				})
			}

			if len(symbols) == 0 {
				output.Println("Watchlist is empty.")
				return nil
			}
			for _, sym := range symbols {
				output.Println(sym)
			}
			return nil
		},
	}
	listFlag(showCmd)

	cmd.AddCommand(addCmd, removeCmd, showCmd)
	return cmd
}
