package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wpstack/wpstack/internal/config"
	"github.com/wpstack/wpstack/internal/doctor"
	"github.com/wpstack/wpstack/internal/observability"
)

var envInfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Display environment information",
	Long:  "Display environment, configuration and version information without running any checks.",
	Run: func(cmd *cobra.Command, args []string) {
		version := crucible.GetVersion()
		env := doctor.DescribeEnvironment(appConfigPath)
		logger := observability.CLILogger

		logger.Info("=== wpstack Environment Information ===")
		logger.Info("")

		identity := GetAppIdentity()
		logger.Info("Application:")
		logger.Info("  Name:       " + identity.BinaryName)
		logger.Info("  Version:    " + versionInfo.Version)
		logger.Info("  Commit:     " + versionInfo.Commit)
		logger.Info("  Built:      " + versionInfo.BuildDate)
		logger.Info("")

		logger.Info("SSOT:")
		logger.Info("  Gofulmen:   "+version.Gofulmen, zap.String("gofulmen_version", version.Gofulmen))
		logger.Info("  Crucible:   "+version.Crucible, zap.String("crucible_version", version.Crucible))
		logger.Info("")

		logger.Info("Runtime:")
		logger.Info("  Go Version: "+runtime.Version(), zap.String("go_version", runtime.Version()))
		logger.Info("  GOOS:       "+env.OS, zap.String("goos", env.OS))
		logger.Info("  GOARCH:     "+env.Arch, zap.String("goarch", env.Arch))
		logger.Info("  Kernel:     "+valueOrUnknown(env.Kernel), zap.String("kernel", env.Kernel))
		logger.Info("  Shell:      "+valueOrUnknown(env.Shell), zap.String("shell", env.Shell))
		logger.Info(fmt.Sprintf("  NumCPU:     %d", runtime.NumCPU()), zap.Int("num_cpu", runtime.NumCPU()))
		logger.Info("")

		cfg := appConfig
		if appConfigErr != nil {
			logger.Warn("Config load failed, showing defaults", zap.Error(appConfigErr))
		}

		logger.Info("Configuration:")
		logger.Info("  Config File:    "+displayPath(appConfigPath), zap.String("config_file", appConfigPath))
		logger.Info("  Site Registry:  "+config.DefaultRegistryPath(), zap.String("registry", config.DefaultRegistryPath()))
		logger.Info("  Sites Dir:      "+cfg.Sites.Dir, zap.String("sites_dir", cfg.Sites.Dir))
		logger.Info("  Log Level:      "+cfg.Logging.Level, zap.String("log_level", cfg.Logging.Level))
		logger.Info("")

		logger.Info("Toolchain:")
		logger.Info("  WP-CLI:         " + cfg.WPCLI.Path)
		logger.Info("  PHP:            " + cfg.PHP.Binary + " (minimum " + cfg.PHP.MinVersion + ")")
		logger.Info("  PHP Extensions: " + strings.Join(cfg.PHP.Extensions, ", "))
		logger.Info(fmt.Sprintf("  Herd:           %s (enabled: %t, tld: .%s)", cfg.Herd.Binary, cfg.Herd.Enabled, cfg.Herd.TLD))
		logger.Info("")

		logger.Info("MySQL:")
		logger.Info("  Client:         " + cfg.MySQL.Binary)
		logger.Info("  User:           " + cfg.MySQL.User)
		if cfg.MySQL.Password != "" {
			logger.Info("  Password:       (set)")
		} else {
			logger.Info("  Password:       (not set)")
		}
		logger.Info("  TCP Hosts:      " + strings.Join(cfg.MySQL.Hosts, ", "))
		logger.Info("  Sockets:")
		for _, socket := range cfg.MySQL.Sockets {
			logger.Info("    - " + socket)
		}
		logger.Info("")

		logger.Info("=== End Environment Information ===")
	},
}

func init() {
	rootCmd.AddCommand(envInfoCmd)
}

func valueOrUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(unknown)"
	}
	return value
}
