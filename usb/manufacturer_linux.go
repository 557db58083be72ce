//go:build linux

package usb

import (
	"os"
	"path/filepath"
	"strings"
)

// SysClassTTY is where the kernel publishes tty devices. It's a variable
// in case you need to override it during tests.
var SysClassTTY = "/sys/class/tty"

// how many parents of the tty's device directory are searched for the USB
// device attributes; the tty hangs off an interface below the device.
const maxParentDepth = 3

// Manufacturer returns the USB manufacturer string of the device backing the
// serial port at portPath, read from sysfs.
func Manufacturer(portPath string) (string, bool) {
	deviceDir, err := filepath.EvalSymlinks(filepath.Join(SysClassTTY, filepath.Base(portPath), "device"))
	if err != nil {
		return "", false
	}
	dir := deviceDir
	for i := 0; i <= maxParentDepth; i++ {
		//nolint:gosec
		data, err := os.ReadFile(filepath.Join(dir, "manufacturer"))
		if err == nil {
			return strings.TrimSpace(string(data)), true
		}
		dir = filepath.Dir(dir)
	}
	return "", false
}
