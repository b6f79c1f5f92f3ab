package cmd

// shouldHideConsole reports whether the console window can be hidden. A
// console shared with other processes belongs to the shell that started us,
// so only one we own alone (a double-clicked binary) goes away.
func shouldHideConsole(debug bool, attached int) bool {
	return !debug && attached == 1
}
