package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mklimuk/mcp342x"
	"github.com/mklimuk/mcp342x/adcctx"
	"github.com/mklimuk/mcp342x/cmd/mcp342x/console"
	"github.com/urfave/cli/v2"
	"periph.io/x/conn/v3/physic"
)

func configurationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "channel", Aliases: []string{"ch"}, Usage: "input channel, 1-4"},
		&cli.StringFlag{Name: "resolution", Aliases: []string{"r"}, Usage: "12, 14, 16 or 18 bit"},
		&cli.StringFlag{Name: "gain", Aliases: []string{"g"}, Usage: "PGA gain: 1, 2, 4 or 8"},
		&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "one-shot or continuous"},
	}
}

// overrideConfiguration applies the configuration flags set on the command line.
func overrideConfiguration(c *cli.Context, cfg mcp342x.Configuration) (mcp342x.Configuration, error) {
	if c.IsSet("channel") {
		ch, err := mcp342x.ParseChannel(c.String("channel"))
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithChannel(ch)
	}
	if c.IsSet("resolution") {
		res, err := mcp342x.ParseResolution(c.String("resolution"))
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithResolution(res)
	}
	if c.IsSet("gain") {
		gain, err := mcp342x.ParseGain(c.String("gain"))
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithGain(gain)
	}
	if c.IsSet("mode") {
		mode, err := mcp342x.ParseMode(c.String("mode"))
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithMode(mode)
	}
	return cfg, nil
}

func formatVolts(units string) (func(float64) string, error) {
	switch strings.ToLower(units) {
	case "v":
		return func(v float64) string { return fmt.Sprintf("%.6f V", v) }, nil
	case "mv":
		return func(v float64) string { return fmt.Sprintf("%.4f mV", v*1e3) }, nil
	case "uv":
		return func(v float64) string { return fmt.Sprintf("%.1f uV", v*1e6) }, nil
	}
	return nil, fmt.Errorf("%w: units %q", mcp342x.ErrUnknownValue, units)
}

var measureCmd = cli.Command{
	Name:    "measure",
	Aliases: []string{"m"},
	Usage:   "take one or more measurements",
	Flags: append(configurationFlags(),
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1, Usage: "number of measurements"},
		&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "ask before every further measurement"},
		&cli.StringFlag{Name: "units", Aliases: []string{"u"}, Value: "V", Usage: "V, mV, uV or auto"},
	),
	Action: func(c *cli.Context) error {
		ctx := adcctx.SetVerbose(c.Context, c.Bool("verbose"))
		cfg, err := overrideConfiguration(c, current.configurations()[0])
		if err != nil {
			return exitError("invalid configuration", err)
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

		opts := current.deviceOpts(slog.Default().With("cmd", c.Command.Name))
		if strings.EqualFold(c.String("units"), "auto") {
			adc := mcp342x.NewPotential(b, addr, mcp342x.TimerDelay{}, cfg, opts...)
			return measureLoop(ctx, adc, c.Int("count"), c.Bool("interactive"), physic.ElectricPotential.String)
		}
		format, err := formatVolts(c.String("units"))
		if err != nil {
			return exitError("invalid units", err)
		}
		adc := mcp342x.New(b, addr, mcp342x.TimerDelay{}, cfg, opts...)
		return measureLoop(ctx, adc, c.Int("count"), c.Bool("interactive"), format)
	},
}

func measureLoop[V mcp342x.Reading](ctx context.Context, adc *mcp342x.Device[V], count int, interactive bool, format func(V) string) error {
	for i := 0; i < count || interactive; i++ {
		v, err := adc.Measure(ctx)
		if err != nil {
			return exitError("measurement error", err)
		}
		console.PInfof(console.PictoVoltage, "%s %s", console.Faint(adc.Configuration()), console.White(format(v)))
		if !interactive {
			continue
		}
		answer, err := console.YesOrNo("measure again?")
		if err != nil || answer == console.No {
			return nil
		}
	}
	return nil
}
