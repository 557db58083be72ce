package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/rotour/rotour/config"
)

func tunableFlags() []cli.Flag {
	cfg := config.Default()
	var flags []cli.Flag
	for _, tun := range cfg.Tunables() {
		flags = append(flags, &cli.Float64Flag{
			Name:  tun.Name,
			Usage: tun.Usage,
		})
	}
	for _, sw := range cfg.Switches() {
		flags = append(flags, &cli.BoolFlag{
			Name:  sw.Name,
			Usage: sw.Usage,
		})
	}
	return flags
}

// ConfigAction prints the tunables and switches. Any given as a flag is
// updated and the file saved first.
func ConfigAction(c *cli.Context) error {
	cfg, path, err := loadConfig(c)
	if err != nil {
		return err
	}

	changed := false
	for _, tun := range cfg.Tunables() {
		if c.IsSet(tun.Name) {
			*tun.Value = c.Float64(tun.Name)
			changed = true
		}
	}
	for _, sw := range cfg.Switches() {
		if c.IsSet(sw.Name) {
			*sw.Value = c.Bool(sw.Name)
			changed = true
		}
	}
	if changed {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		loggerFrom(c).Infow("saved config", "path", path)
	}

	t := table.NewWriter()
	t.SetTitle(path)
	t.AppendHeader(table.Row{"Name", "Value", "Description"})
	for _, tun := range cfg.Tunables() {
		t.AppendRow(table.Row{tun.Name, fmt.Sprintf("%g", *tun.Value), tun.Usage})
	}
	for _, sw := range cfg.Switches() {
		t.AppendRow(table.Row{sw.Name, fmt.Sprintf("%t", *sw.Value), sw.Usage})
	}
	printf(c.App.Writer, "%s", t.Render())
	return nil
}
