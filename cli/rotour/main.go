// Package main is the rotour command itself.
package main

import (
	"fmt"
	"os"

	"github.com/rotour/rotour/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
