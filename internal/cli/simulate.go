package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stockwatch/internal/models"
	"stockwatch/internal/simulation"
)

// addSimulationCommands adds investment simulation commands.
func addSimulationCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSimulateCmd(app))
	rootCmd.AddCommand(newCompareCmd(app))
}

func newSimulateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate SYMBOL",
		Short: "Back-test a lump-sum buy-and-hold investment",
		Long: `Simulate investing a fixed amount in one stock at the first trading day
on or after the start date, held to the latest ingested date.`,
		Example: `  stockwatch simulate AAPL --amount 10000000 --from 2022-01-01
  stockwatch simulate TSLA --amount 5000000 --from 2023-06-01 --curve`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Simulation == nil {
				return fmt.Errorf("store not available")
			}

			symbol := strings.ToUpper(args[0])
			if err := validateSymbol(symbol); err != nil {
				return err
			}

			amountRaw, _ := cmd.Flags().GetString("amount")
			amount, err := validateAmount(amountRaw)
			if err != nil {
				return err
			}

			fromRaw, _ := cmd.Flags().GetString("from")
			from, err := validateStartDate(fromRaw)
			if err != nil {
				return err
			}

			result, err := app.Simulation.Simulate(cmd.Context(), symbol, amount, from)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			showCurve, _ := cmd.Flags().GetBool("curve")
			renderSimulation(output, result, showCurve)
			return nil
		},
	}
	cmd.Flags().String("amount", "", "amount to invest (required)")
	cmd.Flags().String("from", "", "start date YYYY-MM-DD (required)")
	cmd.Flags().Bool("curve", false, "print the day-by-day value curve")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("from")
	return cmd
}

func newCompareCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare SYMBOL...",
		Short: "Compare buy-and-hold returns across 2-5 stocks",
		Long: `Run the same buy-and-hold simulation for each symbol and rank the
results by percent return. The comparison fails as a whole when any
symbol lacks price data in range; no symbol is silently dropped.`,
		Example: `  stockwatch compare AAPL MSFT --amount 10000000 --from 2022-01-01
  stockwatch compare AAPL MSFT GOOG AMZN --amount 10000000 --from 2023-01-01`,
		Args: cobra.RangeArgs(simulation.MinCompareSymbols, simulation.MaxCompareSymbols),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Simulation == nil {
				return fmt.Errorf("store not available")
			}

			symbols := make([]string, len(args))
			for i, arg := range args {
				symbols[i] = strings.ToUpper(arg)
				if err := validateSymbol(symbols[i]); err != nil {
					return err
				}
			}

			amountRaw, _ := cmd.Flags().GetString("amount")
			amount, err := validateAmount(amountRaw)
			if err != nil {
				return err
			}

			fromRaw, _ := cmd.Flags().GetString("from")
			from, err := validateStartDate(fromRaw)
			if err != nil {
				return err
			}

			result, err := app.Simulation.Compare(cmd.Context(), symbols, amount, from)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			table := NewTable(output, "Rank", "Symbol", "Shares", "Final Value", "Return", "Return %")
			for i, r := range result.Rankings {
				returnColor := ColorGreen
				if r.PercentReturn.IsNegative() {
					returnColor = ColorRed
				}
				table.AddRow(
					fmt.Sprintf("%d", i+1),
					r.Symbol,
					r.SharesBought.StringFixed(4),
					r.FinalValue.StringFixed(2),
					r.AbsoluteReturn.StringFixed(2),
					output.ColoredString(returnColor, r.PercentReturn.StringFixed(2)+"%"),
				)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().String("amount", "", "amount to invest (required)")
	cmd.Flags().String("from", "", "start date YYYY-MM-DD (required)")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("from")
	return cmd
}

func renderSimulation(output *Output, result *models.SimulationResult, showCurve bool) {
	output.Bold("Simulation: %s", result.Symbol)
	output.Printf("  Invested:   %s on %s\n", result.AmountInvested.StringFixed(2), result.StartDate.Format(models.DateLayout))
	output.Printf("  Entry:      %s @ %s\n", result.SharesBought.StringFixed(4), result.StartPrice.String())
	output.Printf("  Exit:       %s @ %s\n", result.EndDate.Format(models.DateLayout), result.EndPrice.String())
	output.Printf("  Final:      %s\n", result.FinalValue.StringFixed(2))

	line := fmt.Sprintf("  Return:     %s (%s%%)", result.AbsoluteReturn.StringFixed(2), result.PercentReturn.StringFixed(2))
	if result.PercentReturn.IsNegative() {
		output.Error("%s", line)
	} else {
		output.Success("%s", line)
	}

	if showCurve {
		output.Println()
		table := NewTable(output, "Date", "Value")
		for _, p := range result.ValueCurve {
			table.AddRow(p.Date.Format(models.DateLayout), p.Value.StringFixed(2))
		}
		table.Render()
	}
}
