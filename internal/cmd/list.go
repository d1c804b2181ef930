package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wpstack/wpstack/internal/output"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered sites",
	Run: func(cmd *cobra.Command, args []string) {
		format, err := output.ParseFormat(listFormat)
		exitOnError("Invalid output format", wrapInvalidInput(err))

		sites, err := defaultServices().registry.List()
		exitOnError("Failed to read site registry", err)

		rendered, err := output.NewFormatter(format).FormatSites(sites)
		exitOnError("Failed to render sites", err)
		fmt.Println(rendered)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "output format: table, json, yaml, markdown")
}
