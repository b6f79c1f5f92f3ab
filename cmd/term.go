package cmd

import (
	"github.com/spf13/cobra"

	"github.com/inertia-app/backdrop/internal/backdrop"
	"github.com/inertia-app/backdrop/internal/term"
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Show the background in the terminal",
	Long:  "Render with half-block characters in a truecolor terminal. Press q or Esc to quit.",
	RunE:  RunTerm,
}

func init() {
	rootCmd.AddCommand(termCmd)
	termCmd.Flags().Int("fps", 0, "frames per second (default from settings)")
}

func RunTerm(cmd *cobra.Command, args []string) error {
	fps := settings.TerminalFPS
	if cmd.Flags().Changed("fps") {
		fps, _ = cmd.Flags().GetInt("fps")
	}

	t, err := term.Open(fps)
	if err != nil {
		return err
	}
	defer t.Close()

	backdrop.New(t, backdrop.WithDebug(settings.Debug))
	t.Run()
	return nil
}
