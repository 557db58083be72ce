package cli

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/rotour/rotour/planner"
	"github.com/rotour/rotour/protocol"
	"github.com/rotour/rotour/serial"
	"github.com/rotour/rotour/utils"
)

func planFromArgs(c *cli.Context) (*planner.PlanningResult, error) {
	if c.NArg() != 1 {
		return nil, errors.Errorf("%s requires exactly one script path", c.Command.Name)
	}
	cfg, _, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	opts := planner.Options{StrictHeading: c.Bool(flagStrictHeading)}
	return planner.PlanFile(c.Args().First(), cfg, opts, loggerFrom(c))
}

// PlanAction compiles a script and prints the resulting commands.
func PlanAction(c *cli.Context) error {
	res, err := planFromArgs(c)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", res.String())
	return nil
}

// RunAction compiles a script and transmits it to the robot.
func RunAction(c *cli.Context) (err error) {
	res, err := planFromArgs(c)
	if err != nil {
		return err
	}
	for _, cmd := range res.Commands {
		printf(c.App.Writer, "Turn: %.1f", utils.RadToDeg(cmd.Turn))
		printf(c.App.Writer, "Drive: %d", cmd.Ticks)
	}

	port, path, err := openDevice(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, port.Close())
	}()

	tx := protocol.NewTransmitter(port, loggerFrom(c))
	if err := tx.Send(c.Context, res.Config, res.Records()); err != nil {
		return err
	}
	printf(c.App.Writer, "sent %d commands to %s", len(res.Commands), path)
	return nil
}

// openDevice opens the port named by the device flag or, when unset, the
// first connected robot.
func openDevice(c *cli.Context) (serial.Port, string, error) {
	if path := c.String(flagDevice); path != "" {
		port, err := serial.Open(path, serial.DefaultOptions())
		return port, path, err
	}
	port, desc, err := serial.Connect(c.Context, serial.RobotFilter, serial.DefaultOptions(), loggerFrom(c))
	return port, desc.Path, err
}
