//go:build windows

package cmd

import (
	"log"
	"syscall"
	"unsafe"
)

var (
	kernel32                  = syscall.NewLazyDLL("kernel32.dll")
	user32                    = syscall.NewLazyDLL("user32.dll")
	procGetConsoleWindow      = kernel32.NewProc("GetConsoleWindow")
	procGetConsoleProcessList = kernel32.NewProc("GetConsoleProcessList")
	procShowWindow            = user32.NewProc("ShowWindow")
)

// hideConsole hides the console Windows opened for a double-clicked binary.
// Debug runs and consoles shared with a shell stay visible.
func hideConsole(debug bool) {
	hwnd, _, _ := procGetConsoleWindow.Call()
	if hwnd == 0 {
		return
	}

	var pids [2]uint32
	n, _, err := procGetConsoleProcessList.Call(uintptr(unsafe.Pointer(&pids[0])), uintptr(len(pids)))
	if n == 0 {
		log.Printf("WARNING: console process list unavailable: %v", err)
		return
	}
	if !shouldHideConsole(debug, int(n)) {
		return
	}

	const swHide = 0
	procShowWindow.Call(hwnd, swHide)
}
