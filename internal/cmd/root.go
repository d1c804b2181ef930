package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/telemetry"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wpstack/wpstack/internal/appid"
	"github.com/wpstack/wpstack/internal/config"
	"github.com/wpstack/wpstack/internal/observability"
)

var (
	cfgFile string
	verbose bool

	appIdentity *appid.Identity

	// Effective configuration, resolved by initConfig.
	appConfig     *config.Config
	appConfigPath string
	appConfigErr  error

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// GetAppIdentity returns the loaded app identity (only valid after initConfig)
func GetAppIdentity() *appid.Identity {
	return appIdentity
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	// NOTE: initConfig() overwrites these from app identity.
	Use:   filepath.Base(os.Args[0]),
	Short: "Local WordPress site manager",
	Long: `Scaffold, inspect and delete local WordPress development sites.

Use the subcommands to perform specific operations.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	disabledConfig := &telemetry.Config{Enabled: false}
	if sys, err := telemetry.NewSystem(disabledConfig); err == nil {
		telemetry.SetGlobalSystem(sys)
	}

	// Load app identity early for help text (before cobra processes --help)
	if identity, err := appid.Get(context.Background()); err == nil && identity != nil {
		appIdentity = identity
		applyIdentity(identity)
	}

	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/wpstack/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func applyIdentity(identity *appid.Identity) {
	if identity.BinaryName != "" {
		rootCmd.Use = identity.BinaryName
	}
	if identity.Description != "" {
		rootCmd.Short = identity.Description
		rootCmd.Long = fmt.Sprintf("%s - %s\n\nUse the subcommands to perform specific operations.", identity.BinaryName, identity.Description)
	}
}

// initConfig resolves the config file, loads it with environment overrides
// and sets up the CLI logger at the configured level.
func initConfig() {
	identity, err := appid.Get(context.Background())
	if err != nil {
		ExitWithCodeStderr(foundry.ExitFileNotFound, "Failed to load app identity", err)
	}
	appIdentity = identity
	applyIdentity(identity)

	// Initialize CLI logger early so we can use it in config loading
	observability.InitCLILogger(appIdentity.BinaryName, verbose)

	appConfigPath = cfgFile
	if appConfigPath == "" {
		appConfigPath = config.DefaultConfigPath()
		if appConfigPath == "" && verbose {
			observability.CLILogger.Warn("Could not resolve XDG config directory, using defaults and environment only")
		}
	}

	fs := afero.NewOsFs()
	cfg, err := config.Load(fs, appConfigPath, appIdentity.EnvPrefix)
	if err != nil {
		// doctor reports the broken file; every other command runs on defaults.
		appConfigErr = err
		observability.CLILogger.Warn("Error reading config file, using defaults", zap.String("path", appConfigPath), zap.Error(err))
		cfg, err = config.Load(fs, "", appIdentity.EnvPrefix)
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Invalid configuration", err)
		}
	} else if verbose {
		observability.CLILogger.Debug("Using config file", zap.String("path", appConfigPath))
	}
	appConfig = cfg

	observability.InitCLILoggerWithLevel(appIdentity.BinaryName, cfg.Logging.Level, verbose)
}
