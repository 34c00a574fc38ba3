// Package buildinfo contains build information.
//
// Build information should be set during compilation by passing
// -ldflags "-X github.com/patrickelectric/sixtyfps/pkg/buildinfo.Var=value"
// to "go build".
package buildinfo

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
	"time"
)

// VersionBase identifies the version of sixtyfps. On development commits, it
// identifies the next release.
const VersionBase = "0.1.0"

// VCSOverride may be set during compilation to "time-commit" (e.g.
// "20220401235958-123456789012") for dev builds without VCS data in the
// binary.
var VCSOverride string

// BuildInfo contains all build information.
type BuildInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"goversion"`
}

// Value contains all the build information, computed when the package is
// initialized.
var Value = BuildInfo{
	Version:   devVersion(VersionBase, VCSOverride, debug.ReadBuildInfo),
	GoVersion: runtime.Version(),
}

// JSON returns the build information as JSON.
func (b BuildInfo) JSON() string {
	data, err := json.Marshal(b)
	if err != nil {
		return `{"error":"cannot marshal build info"}`
	}
	return string(data)
}

func devVersion(next, vcsOverride string, readBuildInfo func() (*debug.BuildInfo, bool)) string {
	if vcsOverride != "" {
		return next + "-dev.0." + vcsOverride
	}
	fallback := next + "-dev.unknown"
	bi, ok := readBuildInfo()
	if !ok {
		return fallback
	}
	// If the main module was installed with "go install" at a version, use
	// that version.
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		if v[0] == 'v' {
			v = v[1:]
		}
		return v
	}
	var vcsRevision, vcsTime string
	var vcsModified bool
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			vcsRevision = setting.Value
		case "vcs.time":
			vcsTime = setting.Value
		case "vcs.modified":
			vcsModified = setting.Value == "true"
		}
	}
	if vcsRevision == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339Nano, vcsTime)
	if err != nil {
		return fallback
	}
	// Mimic the format of pseudo-versions: the UTC timestamp and the first 12
	// digits of the revision.
	version := next + "-dev.0." + t.UTC().Format("20060102150405") + "-" + vcsRevision[:min(12, len(vcsRevision))]
	if vcsModified {
		version += "-dirty"
	}
	return version
}
