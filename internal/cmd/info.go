package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	errwrap "github.com/wpstack/wpstack/internal/errors"
	"github.com/wpstack/wpstack/internal/output"
)

var infoFormat string

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show details of a registered site",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, err := output.ParseFormat(infoFormat)
		exitOnError("Invalid output format", wrapInvalidInput(err))

		info, err := defaultServices().installer().Info(cmd.Context(), args[0])
		exitOnError("Failed to read site", err)

		rendered, err := output.NewFormatter(format).FormatSiteInfo(info)
		exitOnError("Failed to render site", err)
		fmt.Println(rendered)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringVarP(&infoFormat, "format", "f", "table", "output format: table, json, yaml, markdown")
}

func wrapInvalidInput(err error) error {
	if err == nil {
		return nil
	}
	return errwrap.NewInvalidInputError(err.Error())
}
