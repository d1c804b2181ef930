package config

// Config represents the complete application configuration. Values are
// layered: built-in defaults, then the user config file, then WPSTACK_*
// environment variables.
type Config struct {
	MySQL   MySQLConfig   `mapstructure:"mysql"`
	PHP     PHPConfig     `mapstructure:"php"`
	WPCLI   WPCLIConfig   `mapstructure:"wpcli"`
	Herd    HerdConfig    `mapstructure:"herd"`
	Sites   SitesConfig   `mapstructure:"sites"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// MySQLConfig controls how the database server is located and addressed.
type MySQLConfig struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Binary   string `mapstructure:"binary"`

	// Hosts are tried before Sockets, each in order.
	Hosts   []string `mapstructure:"hosts"`
	Sockets []string `mapstructure:"sockets"`
}

// PHPConfig contains the PHP runtime requirements checked by doctor.
type PHPConfig struct {
	Binary     string   `mapstructure:"binary"`
	MinVersion string   `mapstructure:"min_version"`
	Extensions []string `mapstructure:"extensions"`
}

// WPCLIConfig locates the WP-CLI executable.
type WPCLIConfig struct {
	Path string `mapstructure:"path"`
}

// HerdConfig configures the optional Herd integration.
type HerdConfig struct {
	Binary  string `mapstructure:"binary"`
	Enabled bool   `mapstructure:"enabled"`
	TLD     string `mapstructure:"tld"`
}

// SitesConfig contains defaults for newly created sites.
type SitesConfig struct {
	Dir           string `mapstructure:"dir"`
	AdminUser     string `mapstructure:"admin_user"`
	AdminPassword string `mapstructure:"admin_password"`
	AdminEmail    string `mapstructure:"admin_email"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level controls the minimum log level
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`
}
