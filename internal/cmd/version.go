package cmd

import (
	"fmt"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
)

var extended bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information. Use --extended for commit, build date, Go and Gofulmen versions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(versionText(GetAppIdentity().BinaryName, extended))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&extended, "extended", "e", false, "show extended version information")
}

func versionText(binary string, extended bool) string {
	text := fmt.Sprintf("%s %s\n", binary, versionInfo.Version)
	if !extended {
		return text
	}

	version := crucible.GetVersion()
	text += fmt.Sprintf("Commit: %s\n", versionInfo.Commit)
	text += fmt.Sprintf("Built: %s\n", versionInfo.BuildDate)
	text += fmt.Sprintf("Go: %s\n", runtime.Version())
	text += fmt.Sprintf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	text += "\n"
	text += fmt.Sprintf("Gofulmen: %s\n", version.Gofulmen)
	text += fmt.Sprintf("Crucible: %s\n", version.Crucible)
	return text
}
