package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	errwrap "github.com/wpstack/wpstack/internal/errors"
	"github.com/wpstack/wpstack/internal/observability"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a site, its database and its files",
	Long: `Unlink the site from Herd, drop its database, remove its directory and
unregister it. Requires --force.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		if !deleteForce {
			exitOnError("Refusing to delete", errwrap.NewInvalidInputError(
				fmt.Sprintf("deleting %s removes its files and database; rerun with --force", name)))
		}

		res, err := defaultServices().installer().Delete(cmd.Context(), name)
		logWarnings(res)
		exitOnError("Failed to delete site", err)

		observability.CLILogger.Info("✅ Site deleted",
			zap.String("name", res.Site.Name),
			zap.String("path", res.Site.Path),
			zap.String("database", res.Site.Database))
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "confirm deletion")
}
