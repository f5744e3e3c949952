package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"groupstatus/config"
)

var configCreateWithEnv bool

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

If a configuration file is already in use, no new file is written.
With --env, an env file template with an empty NOTION_API_KEY is written next to it
unless the env file selected by --envFile already exists.`,
	Example: `
  # Create default config at $HOME/.groupstatus.yaml
  groupstatus config create

  # Also create ./.env with a NOTION_API_KEY placeholder
  groupstatus config create --env
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := saveDefaultConfig(); err != nil {
			return err
		}
		if !configCreateWithEnv {
			return nil
		}
		created, err := ensureEnvFileTemplate(envFile)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("New env file created at: %s (fill in %s)\n", envFile, config.EnvAPIKey)
		} else {
			fmt.Printf("Env file already exists at: %s\n", envFile)
		}
		return nil
	},
}

func saveDefaultConfig() error {
	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := ensureConfigFileWithTemplate(configPath)
	if err != nil {
		return err
	}

	if created {
		fmt.Printf("New config file created at: %s\n", configPath)
		return nil
	}

	fmt.Printf("Config file already exists at: %s\n", configPath)
	return nil
}

// ensureEnvFileTemplate writes an env file holding an empty API key entry.
// Existing files are never touched.
func ensureEnvFileTemplate(path string) (bool, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return false, fmt.Errorf("env file path is empty")
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking env file failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating env file directory failed: %w", err)
	}
	content := fmt.Sprintf("# Notion integration token used by groupstatus\n%s=\n", config.EnvAPIKey)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return false, fmt.Errorf("creating env file failed: %w", err)
	}
	return true, nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().BoolVar(&configCreateWithEnv, "env", false, "Also create the env file template selected by --envFile")
}
