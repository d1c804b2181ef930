package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wpstack/wpstack/internal/installer"
	"github.com/wpstack/wpstack/internal/observability"
)

var (
	createTitle         string
	createAdminUser     string
	createAdminPassword string
	createAdminEmail    string
	createNoHerd        bool
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new WordPress site",
	Long: `Create a database, download WordPress into the sites directory, write
wp-config.php, install the site and, when Herd is available, link and secure
it. A failure after the database was created removes it again.

Examples:
  wpstack create blog
  wpstack create shop --title "Shop" --admin-email me@example.test
  wpstack create plain --no-herd`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := defaultServices()
		inst := svc.installer()
		if createNoHerd {
			inst.Herd = false
		}

		opts := installer.CreateOptions{
			Name:          args[0],
			Title:         createTitle,
			AdminUser:     firstNonEmpty(createAdminUser, svc.cfg.Sites.AdminUser),
			AdminPassword: firstNonEmpty(createAdminPassword, svc.cfg.Sites.AdminPassword),
			AdminEmail:    firstNonEmpty(createAdminEmail, svc.cfg.Sites.AdminEmail),
		}

		observability.CLILogger.Info(fmt.Sprintf("Creating site %s...", opts.Name),
			zap.String("sites_dir", inst.SitesDir),
			zap.Bool("herd", inst.Herd))

		res, err := inst.Create(cmd.Context(), opts)
		logWarnings(res)
		exitOnError("Failed to create site", err)

		observability.CLILogger.Info("✅ Site created",
			zap.String("name", res.Site.Name),
			zap.String("url", res.Site.URL),
			zap.String("path", res.Site.Path),
			zap.String("database", res.Site.Database),
			zap.String("db_host", res.Site.DBHost))
		observability.CLILogger.Info("  URL:      " + res.Site.URL)
		observability.CLILogger.Info("  Path:     " + res.Site.Path)
		observability.CLILogger.Info("  Admin:    " + res.Site.URL + "/wp-admin (" + opts.AdminUser + ")")
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createTitle, "title", "", "site title (default: the site name)")
	createCmd.Flags().StringVar(&createAdminUser, "admin-user", "", "admin username (default: sites.admin_user)")
	createCmd.Flags().StringVar(&createAdminPassword, "admin-password", "", "admin password (default: sites.admin_password)")
	createCmd.Flags().StringVar(&createAdminEmail, "admin-email", "", "admin email (default: sites.admin_email)")
	createCmd.Flags().BoolVar(&createNoHerd, "no-herd", false, "skip linking and securing the site with Herd")
}

func logWarnings(res *installer.Result) {
	if res == nil {
		return
	}
	for _, w := range res.Warnings {
		observability.CLILogger.Warn("⚠️  " + w)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
