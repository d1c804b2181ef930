package cmd

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wpstack/wpstack/internal/config"
	errwrap "github.com/wpstack/wpstack/internal/errors"
	"github.com/wpstack/wpstack/internal/observability"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change wpstack settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long:  "Print the effective configuration (defaults, config file and WPSTACK_* environment) with secrets masked.",
	Run: func(cmd *cobra.Command, args []string) {
		rendered, err := renderConfig(appConfig)
		exitOnError("Failed to render configuration", err)
		fmt.Println(rendered)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file and data directory paths",
	Run: func(cmd *cobra.Command, args []string) {
		fs := afero.NewOsFs()
		observability.CLILogger.Info("Configuration:")
		observability.CLILogger.Info(fmt.Sprintf("  Config file:    %s (%s)", displayPath(appConfigPath), existenceStatus(fs, appConfigPath)),
			zap.String("config_path", appConfigPath))
		dataDir := config.DefaultDataDir()
		observability.CLILogger.Info(fmt.Sprintf("  Data directory: %s (%s)", displayPath(dataDir), existenceStatus(fs, dataDir)),
			zap.String("data_dir", dataDir))
		registryPath := config.DefaultRegistryPath()
		observability.CLILogger.Info(fmt.Sprintf("  Site registry:  %s (%s)", registryPath, existenceStatus(fs, registryPath)),
			zap.String("registry_path", registryPath))
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a setting, e.g. 'config set mysql.user wp'",
	Long: `Persist a setting in the config file. Keys are dotted paths such as
mysql.user or php.min_version. Values are parsed as YAML, so
"[mysqli, curl]" becomes a list and "false" a boolean.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if appConfigPath == "" {
			exitOnError("Cannot save settings", errwrap.NewConfigInvalidError("config path not resolved; pass --config"))
		}
		key := strings.ToLower(strings.TrimSpace(args[0]))
		if !knownSettingKey(key) {
			exitOnError("Unknown setting", errwrap.NewInvalidInputError(fmt.Sprintf("unknown setting %q", args[0])))
		}

		store := &config.SettingsStore{Fs: afero.NewOsFs(), Path: appConfigPath}
		err := store.Set(key, parseSettingValue(args[1]))
		if err != nil {
			exitOnError("Failed to save setting", errwrap.WrapConfigInvalid(err, err.Error()))
		}
		observability.CLILogger.Info("Setting saved", zap.String("key", key), zap.String("path", appConfigPath))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
}

const maskedValue = "********"

// renderConfig renders cfg as YAML keyed like the config file.
func renderConfig(cfg *config.Config) (string, error) {
	if cfg == nil {
		return "", errwrap.NewInternalError("configuration not loaded")
	}

	settings := map[string]any{}
	if err := mapstructure.Decode(cfg, &settings); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	maskSecrets(settings)

	data, err := yaml.Marshal(settings)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func maskSecrets(settings map[string]any) {
	for key, value := range settings {
		switch v := value.(type) {
		case map[string]any:
			maskSecrets(v)
		case string:
			if strings.Contains(key, "password") && v != "" {
				settings[key] = maskedValue
			}
		}
	}
}

// knownSettingKey reports whether key names a leaf setting with a default.
func knownSettingKey(key string) bool {
	v := viper.New()
	config.SetDefaults(v)
	if !v.IsSet(key) {
		return false
	}
	_, nested := v.Get(key).(map[string]any)
	return !nested
}

func parseSettingValue(raw string) any {
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil || value == nil {
		return raw
	}
	switch value.(type) {
	case map[string]any:
		return raw
	}
	return value
}

func displayPath(path string) string {
	if path == "" {
		return "(not resolved)"
	}
	return path
}

func existenceStatus(fs afero.Fs, path string) string {
	if path == "" {
		return "n/a"
	}
	if ok, err := afero.Exists(fs, path); err == nil && ok {
		return "exists"
	}
	return "missing"
}
