//go:build !linux

package usb

// Manufacturer is only resolvable through sysfs; elsewhere callers fall back
// to VendorName.
func Manufacturer(portPath string) (string, bool) {
	return "", false
}
