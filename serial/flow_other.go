//go:build !linux

package serial

import "github.com/pkg/errors"

func enableSoftwareFlowControl(devicePath string) error {
	return errors.Errorf("software flow control is not supported on this platform (device %q)", devicePath)
}
