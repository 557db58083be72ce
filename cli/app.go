// Package cli contains the rotour command line.
package cli

import (
	"fmt"
	"io"

	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	goutils "go.viam.com/utils"

	"github.com/rotour/rotour/config"
	"github.com/rotour/rotour/logging"
)

const (
	// Global flags.
	flagDebug      = "debug"
	flagLogFile    = "log-file"
	flagConfigFile = "config-file"

	// Command flags.
	flagStrictHeading = "strict-heading"
	flagDevice        = "device"

	loggerKey = "logger"
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "rotour",
		Usage:           "compile move scripts and drive the Tektite-R",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  flagLogFile,
				Usage: "also write JSON logs to `FILE`",
			},
			&cli.StringFlag{
				Name:    flagConfigFile,
				Aliases: []string{"c"},
				Usage:   "load tunables from `FILE` instead of the user config directory",
			},
		},
		Before: func(c *cli.Context) error {
			logger, err := logging.NewLogger("rotour", logging.Options{
				Debug: c.Bool(flagDebug),
				File:  c.String(flagLogFile),
			})
			if err != nil {
				return err
			}
			c.App.Metadata = map[string]interface{}{loggerKey: logger}
			return nil
		},
		After: func(c *cli.Context) error {
			goutils.UncheckedError(loggerFrom(c).Sync())
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "plan",
				Usage:     "compile a script and print the commands without sending them",
				ArgsUsage: "<script>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  flagStrictHeading,
						Usage: "fail when the plan cannot end facing the last direction",
					},
				},
				Action: PlanAction,
			},
			{
				Name:      "run",
				Usage:     "compile a script and send it to the robot",
				ArgsUsage: "<script>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  flagStrictHeading,
						Usage: "fail when the plan cannot end facing the last direction",
					},
					&cli.StringFlag{
						Name:  flagDevice,
						Usage: "serial device `PATH`; found by USB manufacturer when unset",
					},
				},
				Action: RunAction,
			},
			{
				Name:  "self-test",
				Usage: "send the current tunables and ask the robot to run its self-test",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagDevice,
						Usage: "serial device `PATH`; found by USB manufacturer when unset",
					},
				},
				Action: SelfTestAction,
			},
			{
				Name:   "config",
				Usage:  "print the tunables, updating any given as flags",
				Flags:  tunableFlags(),
				Action: ConfigAction,
			},
			{
				Name:   "ports",
				Usage:  "list connected USB serial devices",
				Action: PortsAction,
			},
		},
	}
}

func loggerFrom(c *cli.Context) golog.Logger {
	if logger, ok := c.App.Metadata[loggerKey].(golog.Logger); ok {
		return logger
	}
	return zap.NewNop().Sugar()
}

func configPath(c *cli.Context) (string, error) {
	if path := c.String(flagConfigFile); path != "" {
		return path, nil
	}
	return config.Path()
}

func loadConfig(c *cli.Context) (*config.Config, string, error) {
	path, err := configPath(c)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Read(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}
