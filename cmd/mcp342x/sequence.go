package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/mklimuk/mcp342x"
	"github.com/mklimuk/mcp342x/adcctx"
	"github.com/mklimuk/mcp342x/cmd/mcp342x/console"
	"github.com/urfave/cli/v2"
)

var sequenceCmd = cli.Command{
	Name:    "sequence",
	Aliases: []string{"seq"},
	Usage:   "convert several channels one after another",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{Name: "channels", Aliases: []string{"ch"}, Usage: "channels to convert, defaults to the configured ones"},
		&cli.StringFlag{Name: "resolution", Aliases: []string{"r"}, Usage: "12, 14, 16 or 18 bit"},
		&cli.StringFlag{Name: "gain", Aliases: []string{"g"}, Usage: "PGA gain: 1, 2, 4 or 8"},
		&cli.IntFlag{Name: "repeat", Value: 1, Usage: "number of sequences, 0 repeats until interrupted"},
		&cli.StringFlag{Name: "units", Aliases: []string{"u"}, Value: "V", Usage: "V, mV or uV"},
	},
	Action: func(c *cli.Context) error {
		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
		defer stop()
		ctx = adcctx.SetVerbose(ctx, c.Bool("verbose"))

		cfgs, err := sequenceConfigurations(c)
		if err != nil {
			return exitError("invalid configuration", err)
		}
		format, err := formatVolts(c.String("units"))
		if err != nil {
			return exitError("invalid units", err)
		}
		addr, err := current.address()
		if err != nil {
			return exitError("invalid configuration", err)
		}
		b, err := openBus(ctx, current)
		if err != nil {
			return exitError("adapter initialization error", err)
		}
		defer func() { _ = b.Close() }()

		adc := mcp342x.New(b, addr, mcp342x.TimerDelay{}, cfgs[0], current.deviceOpts(slog.Default().With("cmd", c.Command.Name))...)
		rounds := 0
		for values, err := range adc.StreamSequence(ctx, cfgs...) {
			if err != nil {
				return exitError("sequence error", err)
			}
			line := make([]string, 0, len(values))
			for i, v := range values {
				line = append(line, cfgs[i].Channel().String()+"="+format(v))
			}
			console.PInfof(console.PictoPin, "%s", console.White(strings.Join(line, "  ")))
			rounds++
			if n := c.Int("repeat"); n > 0 && rounds >= n {
				break
			}
		}
		return nil
	},
}

func sequenceConfigurations(c *cli.Context) ([]mcp342x.Configuration, error) {
	cfgs := current.configurations()
	if c.IsSet("channels") {
		base := cfgs[0]
		cfgs = cfgs[:0:0]
		for _, name := range c.StringSlice("channels") {
			ch, err := mcp342x.ParseChannel(name)
			if err != nil {
				return nil, err
			}
			cfgs = append(cfgs, base.WithChannel(ch))
		}
	}
	for i := range cfgs {
		if c.IsSet("resolution") {
			res, err := mcp342x.ParseResolution(c.String("resolution"))
			if err != nil {
				return nil, err
			}
			cfgs[i] = cfgs[i].WithResolution(res)
		}
		if c.IsSet("gain") {
			gain, err := mcp342x.ParseGain(c.String("gain"))
			if err != nil {
				return nil, err
			}
			cfgs[i] = cfgs[i].WithGain(gain)
		}
	}
	return cfgs, nil
}
