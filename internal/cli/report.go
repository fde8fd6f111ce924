package cli

import (
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Regenerate the HTML report from persisted histories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Report(cmd.Context())
	},
}
