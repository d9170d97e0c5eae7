package version

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Version information for the viewspec CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.3.0-dev"

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

// Info is the JSON shape of `viewspec version --format json`.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// Current snapshots the build variables.
func Current() Info {
	return Info{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
}

// Pretty colours the major, minor and patch numbers. Colour follows
// color.NoColor.
func (i Info) Pretty() string {
	core, suffix, _ := strings.Cut(i.Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return "viewspec " + i.Version + i.extra()
	}
	v := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		v += "-" + suffix
	}
	return "viewspec " + v + i.extra()
}

func (i Info) extra() string {
	var b strings.Builder
	if i.GitCommit != "" {
		fmt.Fprintf(&b, " (%s)", i.GitCommit)
	}
	if i.BuildDate != "" {
		fmt.Fprintf(&b, " built %s", i.BuildDate)
	}
	return b.String()
}

// JSON renders the info as one JSON object.
func (i Info) JSON() ([]byte, error) {
	return json.Marshal(i)
}
