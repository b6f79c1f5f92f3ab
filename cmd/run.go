package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/inertia-app/backdrop/internal/audio"
	"github.com/inertia-app/backdrop/internal/backdrop"
	"github.com/inertia-app/backdrop/internal/window"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Show the background in a window",
	RunE:  Run,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addWindowFlags(runCmd)
}

func addWindowFlags(c *cobra.Command) {
	c.Flags().Bool("fullscreen", false, "cover the primary monitor")
	c.Flags().Int("width", 0, "window width")
	c.Flags().Int("height", 0, "window height")
	c.Flags().Int("samples", 0, "MSAA samples, 0 disables")
	c.Flags().Bool("vsync", true, "synchronize frames with the display")
	c.Flags().Bool("sound", true, "play a drip for every ripple")
}

// applyWindowFlags copies explicitly set flags over the loaded settings.
func applyWindowFlags(c *cobra.Command) {
	f := c.Flags()
	if f.Changed("fullscreen") {
		settings.Fullscreen, _ = f.GetBool("fullscreen")
	}
	if f.Changed("width") {
		settings.Width, _ = f.GetInt("width")
	}
	if f.Changed("height") {
		settings.Height, _ = f.GetInt("height")
	}
	if f.Changed("samples") {
		settings.Samples, _ = f.GetInt("samples")
	}
	if f.Changed("vsync") {
		settings.VSync, _ = f.GetBool("vsync")
	}
	if f.Changed("sound") {
		settings.Sound, _ = f.GetBool("sound")
	}
}

func Run(cmd *cobra.Command, args []string) error {
	applyWindowFlags(cmd)
	hideConsole(settings.Debug)

	win, err := window.Open(window.Options{
		Title:      "Inertia",
		Width:      settings.Width,
		Height:     settings.Height,
		Fullscreen: settings.Fullscreen,
		VSync:      settings.VSync,
		Samples:    settings.Samples,
		Debug:      settings.Debug,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	opts := []backdrop.Option{backdrop.WithDebug(settings.Debug)}
	if settings.Sound {
		player, err := audio.NewPlayer(settings.Volume)
		if err != nil {
			// Non-fatal, the background works without sound
			log.Printf("Audio initialization failed: %v", err)
		} else {
			defer player.Close()
			opts = append(opts, backdrop.WithSplash(player.Splash))
		}
	}

	r := backdrop.New(win, opts...)
	win.SetOverlay(func() []string {
		x, y := r.Pointer()
		return []string{
			fmt.Sprintf("Time: %.2fs, Frames: %d", r.Elapsed(), r.Frames()),
			fmt.Sprintf("Pointer: %.3f, %.3f", x, y),
			fmt.Sprintf("Ripples: %d active", r.ActiveEffects()),
		}
	})

	win.Run()
	return nil
}
