package cmd

import (
	"github.com/spf13/cobra"

	"github.com/inertia-app/backdrop/internal/about"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show the about window with the installer download",
	Run: func(cmd *cobra.Command, args []string) {
		hideConsole(settings.Debug)
		dir, _ := cmd.Flags().GetString("dir")
		about.Run(about.Options{
			DownloadURL: settings.DownloadURL,
			Dir:         dir,
			Debug:       settings.Debug,
		})
	},
}

func init() {
	rootCmd.AddCommand(aboutCmd)
	aboutCmd.Flags().String("dir", "", "save the installer here instead of the downloads folder")
}
