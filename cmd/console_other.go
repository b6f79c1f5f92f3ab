//go:build !windows

package cmd

// hideConsole is a no-op; terminals stay attached on other platforms.
func hideConsole(debug bool) {}
