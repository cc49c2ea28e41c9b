package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

// ChangelogCmd regenerates CHANGELOG.md from conventional commits with git-chglog.
func ChangelogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Generate or update CHANGELOG.md from git history",
		Example: `  dev changelog
  dev changelog --next v0.2.0
  dev changelog --tag v0.1.0 --output CHANGES.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			output, _ := flags.GetString("output")
			next, _ := flags.GetString("next")
			tag, _ := flags.GetString("tag")

			_, err := exec.LookPath("git-chglog")
			if err != nil {
				slog.Error("git-chglog not found in PATH, install it with: go install github.com/git-chglog/git-chglog/cmd/git-chglog@latest")
				return fmt.Errorf("git-chglog not installed: %w", err)
			}
			chglogArgs := changelogArgs(output, next, tag)
			slog.Info("running git-chglog", "args", chglogArgs)
			gitChglog := exec.CommandContext(cmd.Context(), "git-chglog", chglogArgs...)
			gitChglog.Stdout = os.Stdout
			gitChglog.Stderr = os.Stderr
			err = gitChglog.Run()
			if err != nil {
				return fmt.Errorf("failed to generate changelog: %w", err)
			}
			slog.Info("changelog generated", "output", output)
			return nil
		},
	}
	cmd.Flags().String("next", "", "next version tag (e.g. v0.2.0)")
	cmd.Flags().String("output", "CHANGELOG.md", "output file path")
	cmd.Flags().String("tag", "", "generate changelog for a specific tag")
	return cmd
}

func changelogArgs(output, next, tag string) []string {
	if output == "" {
		output = "CHANGELOG.md"
	}
	var args []string
	if next != "" {
		args = append(args, "--next-tag", next)
	}
	args = append(args, "--output", output)
	if tag != "" {
		args = append(args, tag)
	}
	return args
}
