// Config loading for the pairmark CLI.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/pairmark/internal/paths"
	"github.com/mesh-intelligence/pairmark/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend      = "backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeyHistoryDepth = "history.max_depth"
	cfgKeyLogLevel     = "log.level"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# pairmark configuration

# Session store backend
backend: sqlite

# Session directory (optional; overridden by --data-dir)
# data_dir:

history:
  # Undo entries kept by replay; 0 keeps all
  max_depth: 0

log:
  # debug, info, warn or error
  level: info
`

// loadConfig reads config.yaml from configDir using Viper, creating the
// directory and a default file on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyHistoryDepth, 0)
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in configDir.
func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// configFromViper builds the runtime configuration. dataDir is already
// resolved against flags and the environment.
func configFromViper(v *viper.Viper, dataDir string) types.Config {
	return types.Config{
		Backend:      v.GetString(cfgKeyBackend),
		DataDir:      dataDir,
		HistoryDepth: v.GetInt(cfgKeyHistoryDepth),
		LogLevel:     v.GetString(cfgKeyLogLevel),
	}
}
