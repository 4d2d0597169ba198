//go:build windows

package elevate

import "golang.org/x/sys/windows"

// IsElevated reports whether the current process token carries administrator
// rights. Feature enablement, Appx registration, and the machine environment
// key all require elevation.
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
