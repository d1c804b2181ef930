package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wpstack/wpstack/internal/doctor"
	errwrap "github.com/wpstack/wpstack/internal/errors"
	"github.com/wpstack/wpstack/internal/observability"
	"github.com/wpstack/wpstack/internal/output"
)

var doctorFormat string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the local WordPress toolchain is ready",
	Long: `Check WP-CLI, PHP, the MySQL server, Herd, directory permissions and the
config file, then list every issue found with a suggested fix.

Without --format the checks are logged as a checklist. Use --format table,
json, yaml or markdown to render the full report instead. The command exits
non-zero when a required check fails; a missing Herd never fails it.`,
	Run: func(cmd *cobra.Command, args []string) {
		report := defaultServices().doctor().RunAll(cmd.Context())

		if strings.TrimSpace(doctorFormat) == "" {
			logChecklist(report)
		} else {
			format, err := output.ParseFormat(doctorFormat)
			if err != nil {
				ExitWithCode(observability.CLILogger, foundry.ExitFailure, "Invalid output format", errwrap.NewInvalidInputError(err.Error()))
			}
			if err := renderReport(os.Stdout, format, &report); err != nil {
				ExitWithCode(observability.CLILogger, foundry.ExitFailure, "Failed to render report", err)
			}
		}

		if report.Failed() {
			ExitWithCode(observability.CLILogger, foundry.ExitFailure, "Diagnostics failed",
				errwrap.NewDiagnosticsFailedError(fmt.Sprintf("%d issue(s) found", len(report.Issues))))
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVarP(&doctorFormat, "format", "f", "", "output format: table, json, yaml, markdown")
}

func renderReport(w io.Writer, format output.Format, report *doctor.Report) error {
	rendered, err := output.NewFormatter(format).FormatReport(report)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, rendered)
	return err
}

type checklistLine struct {
	label  string
	mark   string
	detail string
	fields []zap.Field
}

func checklist(report doctor.Report) []checklistLine {
	lines := make([]checklistLine, 0, 6)

	wp := checklistLine{label: "WP-CLI", fields: []zap.Field{zap.String("path", report.WPCLI.Path)}}
	if report.WPCLI.OK {
		wp.mark, wp.detail = "✅", versionOrPath(report.WPCLI.Version, report.WPCLI.Path)
	} else {
		wp.mark, wp.detail = "❌", report.WPCLI.Error
	}
	lines = append(lines, wp)

	php := checklistLine{label: "PHP", fields: []zap.Field{zap.String("php_version", report.PHP.Version)}}
	switch {
	case !report.PHP.OK:
		php.mark, php.detail = "❌", report.PHP.Error
	case report.PHP.Outdated || len(report.PHP.MissingExtensions) > 0:
		php.mark, php.detail = "⚠️ ", report.PHP.Version
		if report.PHP.Outdated {
			php.detail += " (minimum " + report.PHP.MinVersion + ")"
		}
		if len(report.PHP.MissingExtensions) > 0 {
			php.detail += " missing " + strings.Join(report.PHP.MissingExtensions, ", ")
		}
	default:
		php.mark, php.detail = "✅", report.PHP.Version
	}
	lines = append(lines, php)

	db := checklistLine{label: "MySQL", fields: []zap.Field{zap.String("user", report.MySQL.User)}}
	if report.MySQL.OK {
		db.mark, db.detail = "✅", report.MySQL.Connection
		db.fields = append(db.fields, zap.String("connection", report.MySQL.Connection))
	} else {
		db.mark, db.detail = "❌", report.MySQL.Error
	}
	lines = append(lines, db)

	herd := checklistLine{label: "Herd"}
	if report.Herd.Installed {
		herd.mark, herd.detail = "✅", report.Herd.Version
	} else {
		herd.mark, herd.detail = "➖", "not installed (optional)"
	}
	lines = append(lines, herd)

	perms := checklistLine{label: "permissions", fields: []zap.Field{zap.Strings("checked_dirs", report.Permissions.CheckedDirs)}}
	if report.Permissions.OK {
		perms.mark, perms.detail = "✅", strings.Join(report.Permissions.CheckedDirs, ", ")
	} else {
		perms.mark, perms.detail = "❌", "cannot write "+strings.Join(report.Permissions.FailedDirs, ", ")
	}
	lines = append(lines, perms)

	cfg := checklistLine{label: "config", fields: []zap.Field{zap.String("config_path", report.Config.Path)}}
	switch {
	case !report.Config.OK:
		cfg.mark, cfg.detail = "❌", report.Config.Error
	case report.Config.Configured:
		cfg.mark, cfg.detail = "✅", report.Config.Path
	default:
		cfg.mark, cfg.detail = "✅", "defaults"
	}
	lines = append(lines, cfg)

	return lines
}

func logChecklist(report doctor.Report) {
	logger := observability.CLILogger
	bannerName := "doctor"
	if identity := GetAppIdentity(); identity != nil && identity.BinaryName != "" {
		bannerName = identity.BinaryName + " doctor"
	}
	logger.Info("=== " + bannerName + " ===")
	logger.Info("")

	lines := checklist(report)
	for i, line := range lines {
		msg := fmt.Sprintf("[%d/%d] Checking %s... %s %s", i+1, len(lines), line.label, line.mark, line.detail)
		switch line.mark {
		case "❌":
			logger.Error(msg, line.fields...)
		case "⚠️ ":
			logger.Warn(msg, line.fields...)
		default:
			logger.Info(msg, line.fields...)
		}
	}

	if len(report.Issues) > 0 {
		logger.Info("")
		logger.Info("Issues:")
		for _, issue := range report.Issues {
			logger.Warn("  • " + issue.Description)
			if issue.HasFix() {
				logger.Info("    Fix: " + issue.Fix)
			}
		}
	}

	logger.Info("")
	if report.Failed() {
		logger.Warn("⚠️  Some checks failed. Review the output above for details.")
	} else {
		logger.Info("✅ All required checks passed!")
	}
	logger.Info("=== End Diagnostics ===")
}

func versionOrPath(version, path string) string {
	if version == "" {
		return path
	}
	return version + " (" + path + ")"
}
