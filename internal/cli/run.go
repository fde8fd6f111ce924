package cli

import (
	"github.com/spf13/cobra"

	"github.com/rafau/kiwi-rates/internal/app"
)

var runNoReport bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape all sources once and regenerate the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.RunOptions{
			NoReport: runNoReport,
		}
		return getApp().Run(cmd.Context(), opts)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runNoReport, "no-report", false, "Skip report regeneration after scraping")
}
