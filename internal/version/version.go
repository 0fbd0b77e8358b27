// Package version holds build information for the lantern binary.
// The variables can be overridden at build time via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the binary.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric component highlighted. Color is
// dropped when fatih/color has it disabled.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Summary is the text printed by `lantern version`.
func Summary() string {
	var sb strings.Builder
	sb.WriteString("lantern ")
	sb.WriteString(Colored())
	if GitCommit != "" {
		sb.WriteString("\ncommit: ")
		sb.WriteString(GitCommit)
	}
	if BuildDate != "" {
		sb.WriteString("\nbuilt:  ")
		sb.WriteString(BuildDate)
	}
	return sb.String()
}
