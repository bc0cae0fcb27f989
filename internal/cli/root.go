package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stockwatch/internal/anomaly"
	"stockwatch/internal/config"
	"stockwatch/internal/logging"
	"stockwatch/internal/simulation"
	"stockwatch/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Store      store.DataStore
	Detector   *anomaly.Detector
	Simulation *simulation.Engine
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")
	}

	if app.Store != nil {
		app.Detector = anomaly.NewDetector(app.Store, anomaly.Config{
			Window:          cfg.Detector.Window,
			Threshold:       cfg.Detector.Threshold,
			MinObservations: cfg.Detector.MinObservations,
		})
		app.Simulation = simulation.NewEngine(app.Store)
	}

	rootCmd := &cobra.Command{
		Use:   "stockwatch",
		Short: "Stockwatch - stock anomaly monitoring and investment simulation CLI",
		Long: `Stockwatch monitors daily stock data for abnormal trading volume and
price movement, and back-tests hypothetical buy-and-hold investments.

Ingest OHLCV history, track symbols on watchlists, run detection sweeps
on a schedule, and compare simulated returns across stocks.

Use 'stockwatch help <command>' for more information about a command.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/stockwatch)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addDetectionCommands(rootCmd, app)
	addSimulationCommands(rootCmd, app)
	addDataCommands(rootCmd, app)

	return rootCmd
}
