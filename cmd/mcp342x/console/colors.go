package console

import "github.com/fatih/color"

// Available ANSI colors
var (
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	White  = color.New(color.FgHiWhite).SprintFunc()
	Faint  = color.New(color.Faint).SprintFunc()
)

// NoColor disables colored output, e.g. when printing machine readable data.
func NoColor(disabled bool) {
	color.NoColor = disabled
}
