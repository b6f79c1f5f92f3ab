// Command inertia-backdrop renders the Inertia animated background in a
// window, a terminal or to a PNG file.
package main

import (
	"runtime"

	"github.com/inertia-app/backdrop/cmd"
)

func init() {
	// GLFW and OpenGL calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	cmd.Execute()
}
