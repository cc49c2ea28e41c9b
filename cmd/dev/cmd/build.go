package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gophertribe/devtool/build"
)

const (
	binary     = "dist/mcp342x"
	mainPkg    = "./cmd/mcp342x"
	buildImage = "gophertribe/gobuild:1.25-bookworm"
)

// BuildCmd builds the cli natively or, for foreign targets, inside the build image.
// cgo is required by the USB HID bridge.
func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the mcp342x cli",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			targetOS, _ := flags.GetString("os")
			targetArch, _ := flags.GetString("arch")
			version, _ := flags.GetString("version")
			crossOS, _ := flags.GetString("cross-os")
			crossArch, _ := flags.GetString("cross-arch")

			if targetOS != runtime.GOOS || targetArch != runtime.GOARCH {
				noCache, err := flags.GetBool("no-cache")
				if err != nil {
					return fmt.Errorf("could not get no-cache flag: %w", err)
				}
				dev := fmt.Sprintf("./dev-%s-%s", targetOS, targetArch)
				return build.Docker(cmd.Context(), dev, []string{"build", "--version", version, "--cross-os", crossOS, "--cross-arch", crossArch}, build.DockerBuildOpts{
					NoCache: noCache,
					Image:   buildImage,
				})
			}
			if crossOS != "" && crossArch != "" {
				targetOS, targetArch = crossOS, crossArch
			}
			return build.GoBuild(binary, mainPkg, build.GoBuildOpts{
				Version:       version,
				InjectVersion: true,
				ConfigPackage: "main",
				EnableCgo:     true,
				Arch:          targetArch,
				OS:            targetOS,
			})
		},
	}
	cmd.Flags().Bool("no-cache", false, "do not use cache when building the app")
	cmd.Flags().String("version", "latest", "version of the cli")
	cmd.Flags().String("os", runtime.GOOS, "os to build for")
	cmd.Flags().String("arch", runtime.GOARCH, "arch to build for")
	cmd.Flags().String("cross-os", "", "os to cross-compile for")
	cmd.Flags().String("cross-arch", "", "arch to cross-compile for")
	return cmd
}
