// Package usb provides utilities for identifying USB based serial devices.
package usb

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Identifier identifies a specific USB device by the vendor
// who produced it and the product that it is. These should
// be unique across products.
type Identifier struct {
	Vendor  int
	Product int
}

func (id Identifier) String() string {
	return fmt.Sprintf("%04x:%04x", id.Vendor, id.Product)
}

// Vendor IDs of boards rotour is known to talk to.
const (
	VendorSTMicroelectronics = 0x0483
	VendorArduino            = 0x2341
	VendorFTDI               = 0x0403
	VendorSiliconLabs        = 0x10c4
)

var vendorNames = map[int]string{
	VendorSTMicroelectronics: "STMicroelectronics",
	VendorArduino:            "Arduino (www.arduino.cc)",
	VendorFTDI:               "FTDI",
	VendorSiliconLabs:        "Silicon Labs",
}

// VendorName returns the manufacturer string a vendor ID usually reports, or
// the empty string when the vendor is not known.
func VendorName(vendor int) string {
	return vendorNames[vendor]
}

// ParseIdentifier parses hex vendor and product ids like "0483" and "5740".
func ParseIdentifier(vendor, product string) (Identifier, error) {
	v, err := strconv.ParseInt(vendor, 16, 32)
	if err != nil {
		return Identifier{}, errors.Wrapf(err, "bad vendor id %q", vendor)
	}
	p, err := strconv.ParseInt(product, 16, 32)
	if err != nil {
		return Identifier{}, errors.Wrapf(err, "bad product id %q", product)
	}
	return Identifier{Vendor: int(v), Product: int(p)}, nil
}
