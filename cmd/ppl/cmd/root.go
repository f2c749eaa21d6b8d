package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/2beens/ppltracker/internal/client"
	"github.com/2beens/ppltracker/internal/logging"
	"github.com/2beens/ppltracker/pkg"
)

const defaultServerAddress = "http://localhost:3001/api"

var (
	serverURL string
	logLevel  string
	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "ppl",
	Short: "PPL Workout Tracker - log and review push/pull/legs workouts",
	Long: `PPL Workout Tracker client.

Records push/pull/legs workouts against a calendar, keeps them on
the backend, and derives monthly stats, personal records and a
volume progression from the shared workout collection.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "API base URL (overrides PPL_SERVER_ADDRESS)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "log level [trace|debug|info|warn|error]")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(deleteCmd)
}

func setup(_ *cobra.Command, _ []string) error {
	// pick up a local .env if present, env vars win otherwise
	if exists, _ := pkg.PathExists(".env", false); exists {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetDefault("PPL_SERVER_ADDRESS", defaultServerAddress)

	baseURL := viper.GetString("PPL_SERVER_ADDRESS")
	if serverURL != "" {
		baseURL = serverURL
	}

	// CLI output is the UI, keep the logger quiet unless asked otherwise
	logrus.SetLevel(logging.GetLevel(logLevel))
	logrus.SetOutput(os.Stderr)

	apiClient = client.New(client.Params{BaseURL: baseURL})
	return nil
}
