package console

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Exit codes
const (
	ExitError     = 1
	ExitUsage     = 2
	ExitTransport = 3
	ExitTimeout   = 4
	ExitRange     = 5
)

func Exit(code int, msg string, args ...interface{}) cli.ExitCoder {
	return cli.Exit(fmt.Sprintf(msg, args...), code)
}
