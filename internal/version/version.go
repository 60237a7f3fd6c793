// Package version reports the server's version, from linker flags when the
// release build sets them and from the module build info otherwise.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set at build time with -ldflags "-X bennypowers.dev/cssvls/internal/version.Version=v1.0.0"
var Version = "dev"

// readBuildInfo is swapped in tests
var readBuildInfo = debug.ReadBuildInfo

// Info is what the version command prints
type Info struct {
	Version  string
	Revision string
	Modified bool
}

// Get collects version information for the running binary
func Get() Info {
	info := Info{Version: Version}
	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// GetVersion returns the short version string sent in serverInfo
func GetVersion() string {
	return Get().Version
}

// String renders the version with its short revision, when known
func (i Info) String() string {
	if i.Revision == "" {
		return i.Version
	}
	rev := i.Revision
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if i.Modified {
		rev += "-dirty"
	}
	return fmt.Sprintf("%s (commit: %s)", i.Version, rev)
}
