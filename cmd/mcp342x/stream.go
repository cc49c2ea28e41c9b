package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/mklimuk/mcp342x"
	"github.com/mklimuk/mcp342x/adcctx"
	"github.com/mklimuk/mcp342x/cmd/mcp342x/console"
	"github.com/urfave/cli/v2"
)

var streamCmd = cli.Command{
	Name:  "stream",
	Usage: "read samples in continuous mode until interrupted",
	Flags: append(configurationFlags(),
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "stop after n samples, 0 streams until interrupted"},
		&cli.DurationFlag{Name: "interval", Usage: "pause between samples, defaults to the sample period"},
		&cli.StringFlag{Name: "units", Aliases: []string{"u"}, Value: "V", Usage: "V, mV or uV"},
	),
	Action: func(c *cli.Context) error {
		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
		defer stop()
		ctx = adcctx.SetVerbose(ctx, c.Bool("verbose"))

		cfg, err := overrideConfiguration(c, current.configurations()[0])
		if err != nil {
			return exitError("invalid configuration", err)
		}
		cfg = cfg.WithMode(mcp342x.ModeContinuous)
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

		interval := c.Duration("interval")
		if interval <= 0 {
			interval = cfg.Resolution().ConversionTime()
		}
		delay := mcp342x.TimerDelay{}
		adc := mcp342x.New(b, addr, delay, cfg, current.deviceOpts(slog.Default().With("cmd", c.Command.Name))...)
		count, failures := 0, 0
		for v, err := range adc.Stream(ctx) {
			if errors.Is(err, context.Canceled) {
				break
			}
			if err != nil {
				failures++
				console.Warnf("sample error: %s", err)
			} else {
				count++
				console.Printf("%s %s\n", console.Faint(time.Now().Format(time.TimeOnly+".000")), console.White(format(v)))
			}
			if n := c.Int("count"); n > 0 && count >= n {
				break
			}
			if err := delay.Delay(ctx, interval); err != nil {
				break
			}
		}
		console.PInfof(console.PictoFinish, "%d samples, %d errors (%s)", count, failures, cfg)
		return nil
	},
}
