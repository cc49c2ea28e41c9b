package main

import (
	"fmt"
	"strconv"

	"github.com/mklimuk/mcp342x"
	"github.com/mklimuk/mcp342x/cmd/mcp342x/console"
	"github.com/urfave/cli/v2"
)

var registerCmd = cli.Command{
	Name:  "register",
	Usage: "encode and decode the control register",
	Subcommands: cli.Commands{
		&registerEncodeCmd,
		&registerDecodeCmd,
	},
}

var registerEncodeCmd = cli.Command{
	Name:  "encode",
	Flags: configurationFlags(),
	Action: func(c *cli.Context) error {
		cfg, err := overrideConfiguration(c, mcp342x.DefaultConfiguration())
		if err != nil {
			return exitError("invalid configuration", err)
		}
		b := mcp342x.Encode(cfg)
		console.Printf("%s %s %s\n", console.White(fmt.Sprintf("0x%02x", b)), console.Faint(fmt.Sprintf("0b%08b", b)), cfg)
		return nil
	},
}

var registerDecodeCmd = cli.Command{
	Name:      "decode",
	ArgsUsage: "<control byte>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(console.ExitUsage, "expected exactly one control byte")
		}
		b, err := parseControlByte(c.Args().First())
		if err != nil {
			return console.Exit(console.ExitUsage, "%s", console.Red(err))
		}
		console.Print(describeControl(mcp342x.DecodeControl(b)))
		return nil
	},
}

func parseControlByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid control byte %q: %w", s, err)
	}
	return byte(v), nil
}

func describeControl(ctl mcp342x.Control) string {
	ready := "conversion pending"
	if ctl.Ready {
		ready = "new data"
	}
	return fmt.Sprintf("channel:    %s\nresolution: %s (%g SPS)\ngain:       %s\nmode:       %s\nready:      %s",
		ctl.Channel(), ctl.Resolution(), ctl.Resolution().SamplesPerSecond(), ctl.Gain(), ctl.Mode(), ready)
}
