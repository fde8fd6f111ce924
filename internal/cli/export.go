package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rafau/kiwi-rates/internal/app"
)

var (
	exportSource    string
	exportPNGPath   string
	exportCSVPath   string
	exportMaxPoints int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one source's rate history as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportSource == "" {
			return fmt.Errorf("--source must be provided")
		}

		opts := app.ExportOptions{
			Source:    exportSource,
			PNGPath:   exportPNGPath,
			CSVPath:   exportCSVPath,
			MaxPoints: exportMaxPoints,
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportSource, "source", "", "Source name (e.g. bnz)")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().IntVar(&exportMaxPoints, "max-points", 0, "Maximum data points to export (defaults to config)")
}
