package cli

import (
	"github.com/spf13/cobra"

	"github.com/rafau/kiwi-rates/internal/app"
)

var showSource string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the current rate state per source",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ShowOptions{
			Source: showSource,
		}
		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().StringVar(&showSource, "source", "", "Limit output to one source")
}
