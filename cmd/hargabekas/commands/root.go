// Package commands implements the CLI commands for hargabekas.
package commands

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "hargabekas",
	Short: "Resale price estimator for used products on Indonesian marketplaces",
	Long: `Hargabekas estimates what a used product sells for by searching
marketplace listings, filtering out accessories, storefronts and
brand-new offers, extracting prices and discarding outliers.

Examples:
  # Check the going rate for a phone
  hargabekas check -b "iPhone" -m "14 Pro" --spec 256GB

  # Machine-readable output
  hargabekas check -b Samsung -m "Z Flip 5" --format json -o prices.json

  # Run the web UI and JSON API
  hargabekas serve --addr :8080`,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.hargabekas.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("json-log", false, "emit logs as JSON")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("json_log", rootCmd.PersistentFlags().Lookup("json-log"))
}

func initConfig() {
	// A local .env is the usual place for API credentials in development.
	_ = godotenv.Load()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".hargabekas")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("HARGABEKAS")
	viper.AutomaticEnv()

	// Also check the Google credential env vars directly
	_ = viper.BindEnv("api_key", "HARGABEKAS_API_KEY", "GOOGLE_API_KEY")
	_ = viper.BindEnv("engine_id", "HARGABEKAS_ENGINE_ID", "GOOGLE_CX")

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
