/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"github.com/spf13/viper"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"groupstatus/config"
)

var (
	cfgFile string
	envFile string
	verbose bool

	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "groupstatus",
	Short: "Collect per-person work-log status for each group from Notion.",
	Long: `
**********************************************
*              GROUP STATUS                  *
**********************************************

This CLI queries the Notion work-log database of every configured group,
flattens each entry into one row per assignee, adds an empty row for members
without an entry, and prints or exports the sorted result.

The Notion API key is read from NOTION_API_KEY. A local .env file is loaded
at start-up; variables already present in the environment win.

Supported output formats:
- text (aligned table, default)
- message (chat-friendly summary)
- csv
- excel (.xlsx)
`,
	Example: `
  # Create configuration file
  groupstatus config create

  # Today's status of all configured groups
  groupstatus fetch

  # Entries on or after a date for two groups
  groupstatus fetch --since 2025-07-28 --group 1 --group 2

  # Chat message for group 3
  groupstatus fetch --group 3 --format message

  # Export to Excel and keep a snapshot in SQLite
  groupstatus fetch --output ./status.xlsx --db ./groupstatus.db

  # Re-export the latest stored run
  groupstatus export --output ./status.csv
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		built, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.groupstatus.yaml, then ./.groupstatus.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "envFile", ".env", "Environment file providing NOTION_API_KEY")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if _, err := config.LoadEnvFile(envFile); err != nil {
		fmt.Fprintln(os.Stderr, "Could not load env file:", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".groupstatus" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".groupstatus")
	}

	viper.SetEnvPrefix("GROUPSTATUS")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: groupstatus config create")
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
