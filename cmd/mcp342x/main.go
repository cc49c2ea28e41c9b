package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"
)

var version string
var commit string
var date string

// current holds the settings of this run: the config file overlaid with flags.
var current = defaultSettings()

func main() {
	os.Exit(run())
}

func run() int {
	app := cli.NewApp()
	app.Name = "mcp342x"
	app.EnableBashCompletion = true
	app.Version = fmt.Sprintf("%s-%s-%s", version, date, commit)
	app.Usage = "MCP3422/3/4 delta-sigma ADC cli"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "enable verbose logging and adapter traffic dumps",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
			EnvVars: []string{"MCP342X_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "adapter",
			Aliases: []string{"a"},
			Usage:   "bus adapter: mcp2221, generic or nanopi",
		},
		&cli.StringFlag{
			Name:  "bus",
			Usage: "bus name (generic) or number (nanopi)",
		},
		&cli.StringFlag{
			Name:  "address",
			Usage: "7-bit device address",
		},
		&cli.StringFlag{
			Name:  "speed",
			Usage: "bus clock, e.g. 400kHz",
		},
	}
	app.Before = func(c *cli.Context) error {
		charm := chlog.NewWithOptions(os.Stderr, chlog.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
		charm.SetColorProfile(termenv.TrueColor)
		charm.SetLevel(chlog.InfoLevel)
		if c.Bool("verbose") {
			charm.SetLevel(chlog.DebugLevel)
		}
		slog.SetDefault(slog.New(charm))

		s, err := loadSettings(c.String("config"))
		if err != nil {
			return exitError("configuration error", err)
		}
		for _, name := range []string{"adapter", "bus", "address", "speed"} {
			if c.IsSet(name) {
				s.set(name, c.String(name))
			}
		}
		current = s
		return nil
	}
	app.Commands = cli.Commands{
		&measureCmd,
		&streamCmd,
		&sequenceCmd,
		&registerCmd,
		&configCmd,
		&usbCmd,
		&mcp2221Cmd,
	}
	err := app.Run(os.Args)
	if err != nil {
		var exerr cli.ExitCoder
		if errors.As(err, &exerr) {
			log.Printf("unexpected error: %v", err)
			return exerr.ExitCode()
		}
		return 1
	}
	return 0
}
