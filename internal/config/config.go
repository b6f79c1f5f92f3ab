// Package config loads user settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	appDir       = "inertia-backdrop"
	settingsFile = "settings.toml"
)

// DefaultDownloadURL is where the about window fetches the installer from.
const DefaultDownloadURL = "https://hypecc.store/Inertia.exe"

type Settings struct {
	Fullscreen  bool    `toml:"fullscreen"`
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	VSync       bool    `toml:"vsync"`
	Samples     int     `toml:"samples"`
	Debug       bool    `toml:"debug"`
	Sound       bool    `toml:"sound"`
	Volume      float64 `toml:"volume"`
	DownloadURL string  `toml:"download_url"`
	TerminalFPS int     `toml:"terminal_fps"`
}

// Defaults returns the settings used when no file exists.
func Defaults() Settings {
	return Settings{
		Fullscreen:  false,
		Width:       1280,
		Height:      720,
		VSync:       true,
		Samples:     4,
		Sound:       true,
		Volume:      0.5,
		DownloadURL: DefaultDownloadURL,
		TerminalFPS: 30,
	}
}

// GetSettingsPath returns the settings file location, creating its
// directory when needed.
func GetSettingsPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, appDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFile), nil
}

// LoadSettings reads the settings from the default location.
func LoadSettings() (*Settings, error) {
	path, err := GetSettingsPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load reads settings from path. A missing file is created with defaults.
// A malformed file, unknown keys and out-of-range values are logged and
// replaced by defaults rather than failing.
func Load(path string) (*Settings, error) {
	defaults := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("Creating default settings file at %s", path)
			if err := Save(path, &defaults); err != nil {
				log.Printf("Failed to create default settings file: %v", err)
			}
			return &defaults, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	settings := defaults
	md, err := toml.Decode(string(data), &settings)
	if err != nil {
		log.Printf("Invalid settings file, using defaults: %v", err)
		return &defaults, nil
	}
	for _, key := range md.Undecoded() {
		log.Printf("WARNING: unrecognised setting key '%s' in settings file", key)
	}

	settings.validate(defaults)
	return &settings, nil
}

// Save writes settings to path as TOML.
func Save(path string, s *Settings) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func (s *Settings) validate(def Settings) {
	if s.Width <= 0 || s.Height <= 0 {
		log.Printf("Invalid window size %dx%d, using default %dx%d", s.Width, s.Height, def.Width, def.Height)
		s.Width, s.Height = def.Width, def.Height
	}
	if s.Samples < 0 || s.Samples > 16 {
		log.Printf("Invalid samples value %d, must be between 0 and 16, using default %d", s.Samples, def.Samples)
		s.Samples = def.Samples
	}
	if s.Volume < 0 || s.Volume > 1 {
		log.Printf("Invalid volume value %.2f, must be between 0.0 and 1.0, using default %.2f", s.Volume, def.Volume)
		s.Volume = def.Volume
	}
	if s.TerminalFPS <= 0 || s.TerminalFPS > 120 {
		log.Printf("Invalid terminal_fps value %d, must be between 1 and 120, using default %d", s.TerminalFPS, def.TerminalFPS)
		s.TerminalFPS = def.TerminalFPS
	}
	if s.DownloadURL == "" {
		s.DownloadURL = def.DownloadURL
	}
}
