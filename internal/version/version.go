package version

import (
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
)

// Name is the program name used in banners and the User-Agent header.
const Name = "apismoke"

// Version is set at build time with -ldflags "-X github.com/bgricker/apismoke/internal/version.Version=v1.2.3".
var Version = ""

// Info describes the running build.
type Info struct {
	Name      string
	Version   string
	Commit    string
	GoVersion string
	Modified  bool
}

var (
	semverRegex    = regexp.MustCompile(`^v?(\d+\.\d+(?:\.\d+)?)`)
	readBuildInfo  = debug.ReadBuildInfo
	develVersion   = "dev"
	shortCommitLen = 7
)

// Detect returns build information from the linker flag or the embedded module data.
func Detect() Info {
	bi, ok := readBuildInfo()
	return fromBuildInfo(bi, ok, Version)
}

func fromBuildInfo(bi *debug.BuildInfo, ok bool, override string) Info {
	info := Info{Name: Name, Version: normalize(override)}
	if !ok || bi == nil {
		return info
	}
	info.GoVersion = bi.GoVersion
	if info.Version == develVersion {
		info.Version = normalize(bi.Main.Version)
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
			if len(info.Commit) > shortCommitLen {
				info.Commit = info.Commit[:shortCommitLen]
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// normalize reduces a module version such as "v1.4.0+dirty" to "1.4.0".
func normalize(v string) string {
	match := semverRegex.FindStringSubmatch(strings.TrimSpace(v))
	if len(match) < 2 {
		return develVersion
	}
	return match[1]
}

// String renders the info for the version command.
func (i Info) String() string {
	var extra []string
	if i.Commit != "" {
		commit := i.Commit
		if i.Modified {
			commit += "-dirty"
		}
		extra = append(extra, "commit "+commit)
	}
	if i.GoVersion != "" {
		extra = append(extra, i.GoVersion)
	}
	if len(extra) == 0 {
		return fmt.Sprintf("%s %s", i.Name, i.Version)
	}
	return fmt.Sprintf("%s %s (%s)", i.Name, i.Version, strings.Join(extra, ", "))
}

// UserAgent is sent with every request.
func (i Info) UserAgent() string {
	return i.Name + "/" + i.Version
}
