package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/inertia-app/backdrop/internal/config"
)

var (
	configPath string
	debugMode  bool

	// settings is loaded before any subcommand runs.
	settings *config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "inertia-backdrop",
	Short: "Animated Inertia background with ripples and a pointer glow",
	Long: `inertia-backdrop renders the Inertia background: a dark gradient with
fading ripples where you click and a soft glow that follows the pointer.

Without a subcommand it opens a window, like "run".`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	RunE:              Run,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/inertia-backdrop/settings.toml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "verbose logging and on-screen stats")
	addWindowFlags(rootCmd)
}

// Execute runs the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadSettings(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		settings, err = config.Load(configPath)
	} else {
		settings, err = config.LoadSettings()
	}
	if err != nil {
		log.Printf("WARNING: using default settings: %v", err)
		d := config.Defaults()
		settings = &d
	}
	if cmd.Flags().Changed("debug") {
		settings.Debug = debugMode
	}
	return nil
}
