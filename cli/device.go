package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/rotour/rotour/planner"
	"github.com/rotour/rotour/protocol"
	"github.com/rotour/rotour/serial"
)

// SelfTestAction sends the current tunables followed by a self-test command.
func SelfTestAction(c *cli.Context) (err error) {
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	port, path, err := openDevice(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, port.Close())
	}()

	tx := protocol.NewTransmitter(port, loggerFrom(c))
	if err := tx.SelfTest(c.Context, planner.SelfTestConfig(cfg)); err != nil {
		return err
	}
	printf(c.App.Writer, "self-test started on %s", path)
	return nil
}

// PortsAction lists USB serial devices and marks the ones that look like a robot.
func PortsAction(c *cli.Context) error {
	devices, err := serial.Search(serial.SearchFilter{})
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		printf(c.App.Writer, "no USB serial devices found")
		return nil
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Path", "ID", "Manufacturer", "Product", "Serial", "Robot"})
	for _, dev := range devices {
		robot := ""
		if dev.Manufacturer == serial.RobotFilter.Manufacturer {
			robot = "yes"
		}
		t.AppendRow(table.Row{dev.Path, dev.ID.String(), dev.Manufacturer, dev.Product, dev.SerialNumber, robot})
	}
	printf(c.App.Writer, "%s", t.Render())
	return nil
}
