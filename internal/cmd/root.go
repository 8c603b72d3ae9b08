package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose bool
	noColor bool
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "synthgen",
	Short: "Synthetic credit card data generator",
	Long: `A reproducible generator for synthetic credit card datasets.

This tool creates user profiles with spending archetypes and card
portfolios, then generates months of realistic transaction history
with seasonal and day-of-month spending patterns. The same seed
always produces the same dataset.

Defaults live in internal/config/defaults.go and can be overridden
with flags, a config file, or SYNTHGEN_* environment variables.

Example usage:
  synthgen generate --users 1000 --months 14 --seed 42
  synthgen import --db "user:pass@tcp(host:3306)/rewards"
  synthgen catalog archetypes`,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors and animations")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./synthgen.yaml)")

	// Silence usage on error - we'll print our own messages
	rootCmd.SilenceUsage = true

	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// initConfig wires viper to the optional config file and environment
func initConfig(cmd *cobra.Command, args []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("synthgen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("SYNTHGEN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
		// Missing default config is fine; a malformed one is not
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	return nil
}

// Verbose returns whether verbose mode is enabled
func Verbose() bool {
	return verbose
}
