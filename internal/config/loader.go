// Package config provides configuration loading and the persisted settings
// store for wpstack.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/wpstack/wpstack/internal/mysql"
)

const appName = "wpstack"

// SetDefaults registers built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("mysql.user", "root")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.binary", mysql.DefaultBinary)
	v.SetDefault("mysql.hosts", append([]string(nil), mysql.DefaultHosts...))
	v.SetDefault("mysql.sockets", append([]string(nil), mysql.DefaultSockets...))

	v.SetDefault("php.binary", "php")
	v.SetDefault("php.min_version", "7.4")
	v.SetDefault("php.extensions", []string{"mysqli", "curl", "gd", "mbstring"})

	v.SetDefault("wpcli.path", "/usr/local/bin/wp")

	v.SetDefault("herd.binary", "herd")
	v.SetDefault("herd.enabled", true)
	v.SetDefault("herd.tld", "test")

	v.SetDefault("sites.dir", "~/Sites")
	v.SetDefault("sites.admin_user", "admin")
	v.SetDefault("sites.admin_password", "password")
	v.SetDefault("sites.admin_email", "admin@example.test")

	v.SetDefault("logging.level", "info")
}

// Load reads configuration from path on fs (optional; a missing file keeps
// the defaults) and applies environment overrides named envPrefix + KEY, e.g.
// WPSTACK_MYSQL_USER.
func Load(fs afero.Fs, path string, envPrefix string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	SetDefaults(v)

	if strings.TrimSpace(path) != "" {
		exists, err := afero.Exists(fs, path)
		if err != nil {
			return nil, fmt.Errorf("stat config file: %w", err)
		}
		if exists {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		}
	}

	v.SetEnvPrefix(strings.TrimSuffix(envPrefix, "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return decode(v.AllSettings())
}

func decode(settings map[string]any) (*Config, error) {
	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Sites.Dir = ExpandHome(cfg.Sites.Dir)
	cfg.WPCLI.Path = ExpandHome(cfg.WPCLI.Path)
	return cfg, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DefaultConfigPath returns the XDG-compliant path to the user config file.
func DefaultConfigPath() string {
	configDir := gfconfig.GetAppConfigDir(appName)
	if strings.TrimSpace(configDir) == "" {
		return ""
	}
	return filepath.Join(configDir, "config.yaml")
}

// DefaultDataDir returns the XDG-compliant data directory for the app.
func DefaultDataDir() string {
	return gfconfig.GetAppDataDir(appName)
}

// DefaultRegistryPath returns the path of the site registry file.
func DefaultRegistryPath() string {
	dataDir := DefaultDataDir()
	if strings.TrimSpace(dataDir) == "" {
		return "./sites.json"
	}
	return filepath.Join(dataDir, "sites.json")
}
