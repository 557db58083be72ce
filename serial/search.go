package serial

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.bug.st/serial/enumerator"
	"go.uber.org/multierr"

	"github.com/rotour/rotour/usb"
)

// SearchFilter narrows a search. An empty filter matches every USB serial device.
type SearchFilter struct {
	Manufacturer string
}

// RobotFilter matches the STM32 based Tektite-R controller.
var RobotFilter = SearchFilter{Manufacturer: usb.VendorName(usb.VendorSTMicroelectronics)}

// listPorts and lookupManufacturer are variables in case you need to
// override them during tests.
var (
	listPorts          = enumerator.GetDetailedPortsList
	lookupManufacturer = usb.Manufacturer
)

// Search returns all USB serial devices matching the filter, in enumeration
// order. It's a variable in case you need to override it during tests.
var Search = func(filter SearchFilter) ([]Description, error) {
	ports, err := listPorts()
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch serial ports")
	}
	var results []Description
	for _, port := range ports {
		if port == nil || !port.IsUSB {
			continue
		}
		desc := Description{
			Path:         port.Name,
			Product:      port.Product,
			SerialNumber: port.SerialNumber,
		}
		if id, err := usb.ParseIdentifier(port.VID, port.PID); err == nil {
			desc.ID = id
		}
		if manu, ok := lookupManufacturer(port.Name); ok {
			desc.Manufacturer = manu
		} else {
			desc.Manufacturer = usb.VendorName(desc.ID.Vendor)
		}
		if filter.Manufacturer != "" && desc.Manufacturer != filter.Manufacturer {
			continue
		}
		results = append(results, desc)
	}
	return results, nil
}

// Connect opens the first device matching filter. The returned port is owned
// by the caller.
func Connect(ctx context.Context, filter SearchFilter, options Options, logger golog.Logger) (Port, Description, error) {
	if err := ctx.Err(); err != nil {
		return nil, Description{}, err
	}
	devices, err := Search(filter)
	if err != nil {
		return nil, Description{}, err
	}
	if len(devices) == 0 {
		return nil, Description{}, ErrDeviceNotConnected
	}
	desc := devices[0]
	if len(devices) > 1 {
		logger.Warnw("multiple matching devices found, using the first", "path", desc.Path, "count", len(devices))
	}
	logger.Debugw("opening serial device", "path", desc.Path, "id", desc.ID.String(), "manufacturer", desc.Manufacturer)
	port, err := Open(desc.Path, options)
	if err != nil {
		return nil, Description{}, err
	}
	return port, desc, nil
}

func closeOnError(c interface{ Close() error }, err error) error {
	return multierr.Combine(err, c.Close())
}
