package main

import (
	"context"
	"errors"

	"github.com/mklimuk/mcp342x"
	"github.com/mklimuk/mcp342x/cmd/mcp342x/console"
	"github.com/urfave/cli/v2"
)

// exitError maps driver errors to process exit codes.
func exitError(msg string, err error) cli.ExitCoder {
	code := console.ExitError
	switch {
	case errors.Is(err, mcp342x.ErrTransport), errors.Is(err, mcp342x.ErrBusBusy):
		code = console.ExitTransport
	case errors.Is(err, mcp342x.ErrConversionTimeout), errors.Is(err, context.DeadlineExceeded):
		code = console.ExitTimeout
	case errors.Is(err, mcp342x.ErrSaturated):
		code = console.ExitRange
	case errors.Is(err, mcp342x.ErrUnknownValue):
		code = console.ExitUsage
	}
	return console.Exit(code, "%s: %s", msg, console.Red(err))
}
