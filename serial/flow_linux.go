//go:build linux

package serial

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// enableSoftwareFlowControl turns on XON/XOFF for the tty at devicePath.
// Termios settings belong to the tty, so they stay in effect for the
// descriptor go.bug.st/serial already holds.
func enableSoftwareFlowControl(devicePath string) error {
	fd, err := unix.Open(devicePath, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return errors.Wrap(err, "cannot open device for flow control")
	}
	defer func() {
		_ = unix.Close(fd)
	}()

	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return errors.Wrap(err, "get termios")
	}
	termios.Iflag |= unix.IXON | unix.IXOFF
	termios.Iflag &^= unix.IXANY
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return errors.Wrap(err, "set termios")
	}
	return nil
}
