package main

import (
	"github.com/mklimuk/mcp342x/adapter"
	"github.com/mklimuk/mcp342x/adcctx"
	"github.com/mklimuk/mcp342x/cmd/mcp342x/console"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "USB bridge maintenance",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "index", Value: -1, Usage: "bridge index as listed by usb detect"},
	},
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
		&mcp2221SpeedCmd,
	},
}

func bridge(c *cli.Context) *adapter.MCP2221 {
	return adapter.NewMCP2221(adapter.WithDeviceIndex(c.Int("index")))
}

func printStatus(status *adapter.MCP2221Status) error {
	enc := yaml.NewEncoder(console.Writer())
	defer func() { _ = enc.Close() }()
	err := enc.Encode(status)
	if err != nil {
		return console.Exit(console.ExitError, "encoding error: %s", console.Red(err))
	}
	return nil
}

var mcp2221StatusCmd = cli.Command{
	Name: "status",
	Action: func(c *cli.Context) error {
		ctx := adcctx.SetVerbose(c.Context, c.Bool("verbose"))
		status, err := bridge(c).Status(ctx)
		if err != nil {
			return console.Exit(console.ExitTransport, "adapter communication error: %s", console.Red(err))
		}
		return printStatus(status)
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel the current transfer and free the bus",
	Action: func(c *cli.Context) error {
		ctx := adcctx.SetVerbose(c.Context, c.Bool("verbose"))
		status, err := bridge(c).ReleaseBus(ctx)
		if err != nil {
			return console.Exit(console.ExitTransport, "adapter communication error: %s", console.Red(err))
		}
		return printStatus(status)
	},
}

var mcp2221SpeedCmd = cli.Command{
	Name:      "speed",
	ArgsUsage: "<frequency>",
	Usage:     "set the bus clock, e.g. 400kHz",
	Action: func(c *cli.Context) error {
		var speed physic.Frequency
		err := speed.Set(c.Args().First())
		if err != nil {
			return console.Exit(console.ExitUsage, "invalid speed: %s", console.Red(err))
		}
		ctx := adcctx.SetVerbose(c.Context, c.Bool("verbose"))
		err = bridge(c).SetSpeed(ctx, speed)
		if err != nil {
			return console.Exit(console.ExitTransport, "adapter communication error: %s", console.Red(err))
		}
		console.Infof("bus speed set to %s", console.White(speed))
		return nil
	},
}
