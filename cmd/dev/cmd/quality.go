package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

// testBusEnv names the bus the integration tests open, e.g. /dev/i2c-1.
const testBusEnv = "MCP342X_TEST_BUS"

type qualityTask struct {
	name  string
	short string
	run   func() error
	setup func(cmd *cobra.Command) error
}

var qualityTasks = []qualityTask{
	{name: "test", short: "Run unit tests", run: test.Test},
	{name: "lint", short: "Run linters", run: test.Lint},
	{name: "integration-test", short: "Run hardware integration tests against " + testBusEnv, run: test.Integ, setup: setupTestBus},
}

// QualityCmds returns the test and lint commands.
func QualityCmds() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(qualityTasks))
	for _, task := range qualityTasks {
		cmds = append(cmds, task.command())
	}
	return cmds
}

func (q qualityTask) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   q.name,
		Short: q.short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if q.setup != nil {
				if err := q.setup(cmd); err != nil {
					return err
				}
			}
			slog.Info("running", "task", q.name)
			if err := q.run(); err != nil {
				return fmt.Errorf("%s failed: %w", q.name, err)
			}
			return nil
		},
	}
	if q.setup != nil {
		cmd.Flags().String("bus", "", "i2c bus device, overrides "+testBusEnv)
	}
	return cmd
}

func setupTestBus(cmd *cobra.Command) error {
	bus, err := cmd.Flags().GetString("bus")
	if err != nil {
		return fmt.Errorf("could not get bus flag: %w", err)
	}
	bus, err = testBus(bus)
	if err != nil {
		return err
	}
	if bus == "" {
		slog.Warn("no test bus configured, hardware tests will be skipped", "env", testBusEnv)
		return nil
	}
	slog.Info("integration tests", "bus", bus)
	return nil
}

// testBus exports override to the test processes and returns the bus in effect.
func testBus(override string) (string, error) {
	if override != "" {
		if err := os.Setenv(testBusEnv, override); err != nil {
			return "", fmt.Errorf("could not set %s: %w", testBusEnv, err)
		}
	}
	return os.Getenv(testBusEnv), nil
}
