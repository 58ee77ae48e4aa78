package cmd

import (
	"strings"

	"github.com/Iron-Ham/clauditor/internal/config"
	"github.com/Iron-Ham/clauditor/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "clauditor",
	Short: "Audit stage for agent automation pipelines",
	Long: `Clauditor aggregates the partial-result records left behind by the
stages of an agent automation pipeline, classifies them into a failure
verdict, renders an audit report, and deduplicates external notifications
(failure issues and progress comments).

It is designed to run as the final stage of a pipeline and never exits
non-zero for audit findings: everything it learns is expressed through
stage outputs, artifacts, and logs.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/clauditor/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/clauditor")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CLAUDITOR")
	// Replace dots with underscores for nested keys in env vars
	// e.g., CLAUDITOR_RECORDS_DIR for records.dir
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// newLogger builds the logger from the active configuration.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	return logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
}
