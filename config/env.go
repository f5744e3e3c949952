package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvAPIKey holds the Notion integration token.
const EnvAPIKey = "NOTION_API_KEY"

// LoadEnvFile exports the variables of a dotenv file into the process
// environment and returns how many were set. Variables that are already set
// win over the file. A missing file is not an error.
func LoadEnvFile(path string) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("stat env file %s: %w", path, err)
	}

	local := viper.New()
	local.SetConfigFile(path)
	local.SetConfigType("env")
	if err := local.ReadInConfig(); err != nil {
		return 0, fmt.Errorf("read env file %s: %w", path, err)
	}

	set := 0
	for _, key := range local.AllKeys() {
		name := strings.ToUpper(key)
		if _, exists := os.LookupEnv(name); exists {
			continue
		}
		if err := os.Setenv(name, local.GetString(key)); err != nil {
			return set, fmt.Errorf("set %s from env file: %w", name, err)
		}
		set++
	}
	return set, nil
}

// APIKey returns the Notion token from the process environment.
func APIKey() (string, error) {
	key := strings.TrimSpace(os.Getenv(EnvAPIKey))
	if key == "" {
		return "", fmt.Errorf("%s is not set; export it or add it to the .env file", EnvAPIKey)
	}
	return key, nil
}
