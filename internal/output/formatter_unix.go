//go:build !windows
// +build !windows

package output

// enableANSI is a no-op on Unix-like systems: once stdout is known to
// be a terminal, ANSI escapes just work.
func enableANSI() bool {
	return true
}
