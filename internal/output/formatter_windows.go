//go:build windows
// +build windows

package output

import (
	"golang.org/x/sys/windows"
)

// enableANSI turns on virtual terminal processing so ANSI escape
// sequences render on Windows 10+ consoles.
func enableANSI() bool {
	handle, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return false
	}

	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		return false
	}

	mode |= windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
	return windows.SetConsoleMode(handle, mode) == nil
}
