package main

import (
	"github.com/mklimuk/mcp342x/cmd/mcp342x/console"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

var configCmd = cli.Command{
	Name:  "config",
	Usage: "print the effective configuration",
	Action: func(c *cli.Context) error {
		enc := yaml.NewEncoder(console.Writer())
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		err := enc.Encode(current)
		if err != nil {
			return console.Exit(console.ExitError, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}
