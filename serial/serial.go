// Package serial provides utilities for searching for and working with serial based devices.
package serial

import (
	"io"
	"time"

	"github.com/pkg/errors"
	ser "go.bug.st/serial"

	"github.com/rotour/rotour/usb"
)

// Port is an open serial connection. Besides reading and writing it can
// discard unread input and wait for written output to leave the host.
type Port interface {
	io.ReadWriteCloser
	ResetInputBuffer() error
	Drain() error
}

// Options to be passed to Open(), closely mirrors ser.Mode.
type Options struct {
	BaudRate int
	DataBits int
	StopBits StopBits
	Parity   Parity
	// ReadTimeout bounds every read; a read that times out returns no bytes.
	ReadTimeout time.Duration
	// SoftwareFlowControl enables XON/XOFF.
	SoftwareFlowControl bool
	// AssertDTR raises data-terminal-ready once the port is open.
	AssertDTR bool
}

// DefaultOptions returns the settings the Tektite-R firmware expects:
// 9600 baud 8N1, XON/XOFF, DTR asserted and a 30 second read timeout.
func DefaultOptions() Options {
	return Options{
		BaudRate:            9600,
		DataBits:            8,
		StopBits:            OneStopBit,
		Parity:              NoParity,
		ReadTimeout:         30 * time.Second,
		SoftwareFlowControl: true,
		AssertDTR:           true,
	}
}

// Parity describes a serial port parity setting.
type Parity int

const (
	// NoParity disable parity control (default).
	NoParity Parity = iota
	// OddParity enable odd-parity check.
	OddParity
	// EvenParity enable even-parity check.
	EvenParity
	// MarkParity enable mark-parity (always 1) check.
	MarkParity
	// SpaceParity enable space-parity (always 0) check.
	SpaceParity
)

// StopBits describe a serial port stop bits setting.
type StopBits int

const (
	// OneStopBit sets 1 stop bit (default).
	OneStopBit StopBits = iota
	// OnePointFiveStopBits sets 1.5 stop bits.
	OnePointFiveStopBits
	// TwoStopBits sets 2 stop bits.
	TwoStopBits
)

// ErrDeviceNotConnected is returned when no serial device matches a search.
var ErrDeviceNotConnected = errors.New("Tektite-R is not connected")

// Description describes a specific serial device.
type Description struct {
	Path         string
	ID           usb.Identifier
	Manufacturer string
	Product      string
	SerialNumber string
}

// Open attempts to open a serial device on the given path. It's a variable
// in case you need to override it during tests.
var Open = func(devicePath string, options Options) (Port, error) {
	mode := &ser.Mode{
		BaudRate: options.BaudRate,
		Parity:   ser.Parity(options.Parity),
		DataBits: options.DataBits,
		StopBits: ser.StopBits(options.StopBits),
	}

	device, err := ser.Open(devicePath, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open serial device %q", devicePath)
	}
	if err := configure(device, devicePath, options); err != nil {
		return nil, errors.Wrapf(closeOnError(device, err), "cannot configure serial device %q", devicePath)
	}
	return device, nil
}

func configure(device ser.Port, devicePath string, options Options) error {
	if options.ReadTimeout > 0 {
		if err := device.SetReadTimeout(options.ReadTimeout); err != nil {
			return err
		}
	}
	if options.SoftwareFlowControl {
		if err := enableSoftwareFlowControl(devicePath); err != nil {
			return err
		}
	}
	if options.AssertDTR {
		if err := device.SetDTR(true); err != nil {
			return err
		}
	}
	return nil
}
